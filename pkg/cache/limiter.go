package cache

import (
	"context"
	"fmt"
	"time"
)

// RateLimiter counts hits per key inside a fixed window.
type RateLimiter struct {
	cache  *RedisCache
	limit  int64
	window time.Duration
	scope  string
}

func NewRateLimiter(cache *RedisCache, scope string, limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		cache:  cache,
		limit:  int64(limit),
		window: window,
		scope:  scope,
	}
}

// Allow records a hit for id and reports whether it is within the limit,
// plus the time until the window resets.
func (l *RateLimiter) Allow(ctx context.Context, id string) (bool, time.Duration, error) {
	key := fmt.Sprintf("ratelimit:%s:%s", l.scope, id)

	count, err := l.cache.IncrementWindow(ctx, key, l.window)
	if err != nil {
		return false, 0, err
	}
	if count <= l.limit {
		return true, 0, nil
	}

	ttl, err := l.cache.GetTTL(ctx, key)
	if err != nil || ttl < 0 {
		ttl = l.window
	}
	return false, ttl, nil
}
