package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisCacheFromClient(client, "mealhub:"), mr
}

func TestRedisCacheSetGetDelete(t *testing.T) {
	ctx := context.Background()
	cache, mr := newTestCache(t)

	type stats struct {
		Drivers int `json:"drivers"`
	}
	require.NoError(t, cache.Set(ctx, "dashboard", stats{Drivers: 7}, time.Minute))
	assert.True(t, mr.Exists("mealhub:dashboard"))

	var got stats
	require.NoError(t, cache.Get(ctx, "dashboard", &got))
	assert.Equal(t, 7, got.Drivers)

	require.NoError(t, cache.Delete(ctx, "dashboard"))
	assert.ErrorIs(t, cache.Get(ctx, "dashboard", &got), ErrCacheMiss)
}

func TestRateLimiterFixedWindow(t *testing.T) {
	ctx := context.Background()
	cache, mr := newTestCache(t)
	limiter := NewRateLimiter(cache, "otp", 3, time.Hour)

	for i := 0; i < 3; i++ {
		allowed, _, err := limiter.Allow(ctx, "user:9876543210")
		require.NoError(t, err)
		assert.True(t, allowed)
	}

	allowed, retryAfter, err := limiter.Allow(ctx, "user:9876543210")
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Greater(t, retryAfter, time.Duration(0))
	assert.LessOrEqual(t, retryAfter, time.Hour)

	// other keys have their own window
	allowed, _, err = limiter.Allow(ctx, "driver:9876543210")
	require.NoError(t, err)
	assert.True(t, allowed)

	mr.FastForward(time.Hour + time.Second)
	allowed, _, err = limiter.Allow(ctx, "user:9876543210")
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestRateLimiterReportsRedisFailure(t *testing.T) {
	cache, mr := newTestCache(t)
	limiter := NewRateLimiter(cache, "login", 1, time.Minute)
	mr.Close()

	_, _, err := limiter.Allow(context.Background(), "127.0.0.1")
	assert.Error(t, err)
}

func TestTokenRevocation(t *testing.T) {
	ctx := context.Background()
	cache, mr := newTestCache(t)
	store := NewTokenRevocationStore(cache)

	revoked, err := store.IsRevoked(ctx, "token-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, store.Revoke(ctx, "token-1", time.Now().Add(10*time.Minute)))
	revoked, err = store.IsRevoked(ctx, "token-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	// already expired tokens are not stored
	require.NoError(t, store.Revoke(ctx, "token-2", time.Now().Add(-time.Minute)))
	assert.False(t, mr.Exists("mealhub:revoked:token-2"))

	mr.FastForward(11 * time.Minute)
	revoked, err = store.IsRevoked(ctx, "token-1")
	require.NoError(t, err)
	assert.False(t, revoked)
}
