package redis

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/hjkwon/paymap-backend/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMiniredis(t *testing.T) *miniredis.Miniredis {
	mr := miniredis.RunT(t)
	host, port, _ := strings.Cut(mr.Addr(), ":")

	err := Init(&config.RedisConfig{Host: host, Port: port})
	require.NoError(t, err)
	t.Cleanup(func() { Close() })

	return mr
}

func TestInit_ConnectionFailure(t *testing.T) {
	err := Init(&config.RedisConfig{Host: "127.0.0.1", Port: "1"})
	assert.Error(t, err)
	assert.Nil(t, GetClient())
}

func TestBlacklistToken(t *testing.T) {
	mr := setupMiniredis(t)
	ctx := context.Background()

	err := BlacklistToken(ctx, "some-jwt-token", time.Hour)
	require.NoError(t, err)

	blacklisted, err := IsTokenBlacklisted(ctx, "some-jwt-token")
	require.NoError(t, err)
	assert.True(t, blacklisted)

	// 키는 토큰의 남은 유효기간만큼만 유지된다
	ttl := mr.TTL("blacklist:some-jwt-token")
	assert.Equal(t, time.Hour, ttl)
}

func TestBlacklistToken_ExpiredTokenSkipped(t *testing.T) {
	setupMiniredis(t)
	ctx := context.Background()

	err := BlacklistToken(ctx, "already-expired", 0)
	require.NoError(t, err)

	blacklisted, err := IsTokenBlacklisted(ctx, "already-expired")
	require.NoError(t, err)
	assert.False(t, blacklisted)
}

func TestIsTokenBlacklisted_UnknownToken(t *testing.T) {
	setupMiniredis(t)

	blacklisted, err := IsTokenBlacklisted(context.Background(), "never-seen")
	require.NoError(t, err)
	assert.False(t, blacklisted)
}

func TestBlacklist_ExpiresWithToken(t *testing.T) {
	mr := setupMiniredis(t)
	ctx := context.Background()

	require.NoError(t, BlacklistToken(ctx, "short-lived", time.Minute))
	mr.FastForward(2 * time.Minute)

	blacklisted, err := IsTokenBlacklisted(ctx, "short-lived")
	require.NoError(t, err)
	assert.False(t, blacklisted)
}

func TestNilClient_NoOps(t *testing.T) {
	require.NoError(t, Close())
	ctx := context.Background()

	assert.NoError(t, BlacklistToken(ctx, "token", time.Hour))

	blacklisted, err := IsTokenBlacklisted(ctx, "token")
	assert.NoError(t, err)
	assert.False(t, blacklisted)
}
