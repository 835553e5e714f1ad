package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-jwt-secret"

func TestGenerateTokenPair(t *testing.T) {
	tokens, err := GenerateTokenPair(42, "user@example.com", "user", testSecret, 15*time.Minute, 7*24*time.Hour)
	require.NoError(t, err)
	require.NotNil(t, tokens)

	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)
	assert.NotEqual(t, tokens.AccessToken, tokens.RefreshToken)
}

func TestValidateToken(t *testing.T) {
	tokens, err := GenerateTokenPair(42, "user@example.com", "admin", testSecret, 15*time.Minute, 7*24*time.Hour)
	require.NoError(t, err)

	t.Run("Valid access token", func(t *testing.T) {
		claims, err := ValidateToken(tokens.AccessToken, testSecret)
		require.NoError(t, err)
		assert.Equal(t, uint(42), claims.UserID)
		assert.Equal(t, "user@example.com", claims.Email)
		assert.Equal(t, "admin", claims.Role)
		assert.Equal(t, "access", claims.TokenType)
	})

	t.Run("Refresh token carries its type", func(t *testing.T) {
		claims, err := ValidateToken(tokens.RefreshToken, testSecret)
		require.NoError(t, err)
		assert.Equal(t, "refresh", claims.TokenType)
	})

	t.Run("Wrong secret", func(t *testing.T) {
		_, err := ValidateToken(tokens.AccessToken, "other-secret")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Garbage token", func(t *testing.T) {
		_, err := ValidateToken("not.a.token", testSecret)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Expired token", func(t *testing.T) {
		expired, err := GenerateTokenPair(42, "user@example.com", "user", testSecret, -time.Minute, -time.Minute)
		require.NoError(t, err)

		_, err = ValidateToken(expired.AccessToken, testSecret)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})
}

func TestRemainingValidity(t *testing.T) {
	tokens, err := GenerateTokenPair(1, "a@b.com", "user", testSecret, 15*time.Minute, time.Hour)
	require.NoError(t, err)

	claims, err := ValidateToken(tokens.AccessToken, testSecret)
	require.NoError(t, err)

	remaining := RemainingValidity(claims)
	assert.Greater(t, remaining, 14*time.Minute)
	assert.LessOrEqual(t, remaining, 15*time.Minute)

	t.Run("Expired claims report zero", func(t *testing.T) {
		claims.ExpiresAt.Time = time.Now().Add(-time.Minute)
		assert.Equal(t, time.Duration(0), RemainingValidity(claims))
	})
}
