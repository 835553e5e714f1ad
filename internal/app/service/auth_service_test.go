package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/hjkwon/paymap-backend/config"
	"github.com/hjkwon/paymap-backend/internal/app/model"
	"github.com/hjkwon/paymap-backend/internal/app/repository"
	"github.com/hjkwon/paymap-backend/internal/db"
	"github.com/hjkwon/paymap-backend/pkg/redis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupAuthServiceTest(t *testing.T) (AuthService, repository.UserRepository) {
	testDB, err := db.SetupTestDB(t)
	require.NoError(t, err)

	userRepo := repository.NewUserRepository(testDB)
	authService := NewAuthService(
		userRepo,
		"test-jwt-secret",
		15*time.Minute,
		7*24*time.Hour,
	)

	return authService, userRepo
}

func TestAuthService_Register(t *testing.T) {
	authService, _ := setupAuthServiceTest(t)

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{
			name:     "Valid registration",
			email:    "test@example.com",
			password: "password123",
			wantErr:  nil,
		},
		{
			name:     "Duplicate email",
			email:    "test@example.com",
			password: "password456",
			wantErr:  ErrEmailAlreadyExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, tokens, err := authService.Register(tt.email, tt.password)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, user)
				assert.Nil(t, tokens)
			} else {
				require.NoError(t, err)
				require.NotNil(t, user)
				require.NotNil(t, tokens)
				assert.Equal(t, tt.email, user.Email)
				assert.Equal(t, model.RoleUser, user.Role)
				assert.Equal(t, 1, user.TrustLevel)
				assert.NotEmpty(t, user.Nickname)
				assert.NotEmpty(t, tokens.AccessToken)
				assert.NotEmpty(t, tokens.RefreshToken)
			}
		})
	}
}

func TestAuthService_Register_GeneratesUniqueNicknames(t *testing.T) {
	authService, _ := setupAuthServiceTest(t)

	seen := make(map[string]bool)
	for i := 0; i < 5; i++ {
		email := "nick" + string(rune('a'+i)) + "@example.com"
		user, _, err := authService.Register(email, "password123")
		require.NoError(t, err)
		assert.False(t, seen[user.Nickname], "nickname %q issued twice", user.Nickname)
		seen[user.Nickname] = true
	}
}

func TestAuthService_Login(t *testing.T) {
	authService, _ := setupAuthServiceTest(t)

	email := "login@example.com"
	password := "password123"
	_, _, err := authService.Register(email, password)
	require.NoError(t, err)

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{
			name:     "Valid login",
			email:    email,
			password: password,
			wantErr:  nil,
		},
		{
			name:     "Wrong password",
			email:    email,
			password: "wrongpassword",
			wantErr:  ErrInvalidCredentials,
		},
		{
			name:     "Non-existing user",
			email:    "notfound@example.com",
			password: "password123",
			wantErr:  ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, tokens, err := authService.Login(tt.email, tt.password)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, user)
				assert.Nil(t, tokens)
			} else {
				require.NoError(t, err)
				require.NotNil(t, user)
				require.NotNil(t, tokens)
				assert.Equal(t, tt.email, user.Email)
			}
		})
	}
}

func TestAuthService_Logout(t *testing.T) {
	authService, _ := setupAuthServiceTest(t)

	mr := miniredis.RunT(t)
	host, port, ok := strings.Cut(mr.Addr(), ":")
	require.True(t, ok)
	require.NoError(t, redis.Init(&config.RedisConfig{Host: host, Port: port}))
	t.Cleanup(func() { redis.Close() })

	_, tokens, err := authService.Register("logout@example.com", "password123")
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, authService.Logout(ctx, tokens.AccessToken))

	blacklisted, err := redis.IsTokenBlacklisted(ctx, tokens.AccessToken)
	require.NoError(t, err)
	assert.True(t, blacklisted)
}

func TestAuthService_UpdateProfile(t *testing.T) {
	authService, _ := setupAuthServiceTest(t)

	userA, _, err := authService.Register("profile-a@example.com", "password123")
	require.NoError(t, err)
	userB, _, err := authService.Register("profile-b@example.com", "password123")
	require.NoError(t, err)

	t.Run("Change nickname and avatar", func(t *testing.T) {
		updated, err := authService.UpdateProfile(userA.ID, "새닉네임", "https://cdn.example.com/a.png")
		require.NoError(t, err)
		assert.Equal(t, "새닉네임", updated.Nickname)
		assert.Equal(t, "https://cdn.example.com/a.png", updated.AvatarURL)
	})

	t.Run("Nickname taken by another user", func(t *testing.T) {
		_, err := authService.UpdateProfile(userB.ID, "새닉네임", "")
		assert.ErrorIs(t, err, ErrNicknameAlreadyExists)
	})

	t.Run("No-op when nothing changes", func(t *testing.T) {
		updated, err := authService.UpdateProfile(userA.ID, "", "")
		require.NoError(t, err)
		assert.Equal(t, "새닉네임", updated.Nickname)
	})

	t.Run("Missing user", func(t *testing.T) {
		_, err := authService.UpdateProfile(99999, "닉", "")
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}
