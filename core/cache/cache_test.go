package cache

import (
	"context"
	"testing"
	"time"

	"event-manager-api/core/constants"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisCache(client), mr
}

func TestTokenBlacklist(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	blacklisted, err := c.IsTokenBlacklisted(ctx, "token-a")
	require.NoError(t, err)
	assert.False(t, blacklisted)

	require.NoError(t, c.AddToTokenBlacklist(ctx, "token-a", time.Minute))

	blacklisted, err = c.IsTokenBlacklisted(ctx, "token-a")
	require.NoError(t, err)
	assert.True(t, blacklisted)

	blacklisted, err = c.IsTokenBlacklisted(ctx, "token-b")
	require.NoError(t, err)
	assert.False(t, blacklisted)

	mr.FastForward(2 * time.Minute)

	blacklisted, err = c.IsTokenBlacklisted(ctx, "token-a")
	require.NoError(t, err)
	assert.False(t, blacklisted)
}

func TestLoginThrottling(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()
	key := constants.RedisKeyLoginAttempts + "a@example.com"

	for i := 0; i < constants.MaxLoginAttempts-1; i++ {
		require.NoError(t, c.IncrementLoginAttempt(ctx, key))
	}
	blocked, err := c.IsLoginBlocked(ctx, key)
	require.NoError(t, err)
	assert.False(t, blocked)

	require.NoError(t, c.IncrementLoginAttempt(ctx, key))
	blocked, err = c.IsLoginBlocked(ctx, key)
	require.NoError(t, err)
	assert.True(t, blocked)

	mr.FastForward(constants.BlockDuration + time.Second)
	blocked, err = c.IsLoginBlocked(ctx, key)
	require.NoError(t, err)
	assert.False(t, blocked)
}

func TestDelClearsAttempts(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()
	key := constants.RedisKeyLoginAttempts + "b@example.com"

	for i := 0; i < constants.MaxLoginAttempts; i++ {
		require.NoError(t, c.IncrementLoginAttempt(ctx, key))
	}
	require.NoError(t, c.Del(ctx, key))

	blocked, err := c.IsLoginBlocked(ctx, key)
	require.NoError(t, err)
	assert.False(t, blocked)
}

func TestNoopCache(t *testing.T) {
	c := NewNoop()
	ctx := context.Background()

	require.NoError(t, c.AddToTokenBlacklist(ctx, "t", time.Minute))
	blacklisted, err := c.IsTokenBlacklisted(ctx, "t")
	require.NoError(t, err)
	assert.False(t, blacklisted)
}
