package services

import (
	"context"
	"time"
)

// CacheService is the subset of the Redis cache the services read through.
// Every service accepts a nil CacheService and then skips caching.
type CacheService interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// RateLimiter bounds how often a key may perform an action.
type RateLimiter interface {
	Allow(ctx context.Context, id string) (bool, time.Duration, error)
}

// TokenRevoker records and checks revoked token ids.
type TokenRevoker interface {
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

func cacheGet(ctx context.Context, cache CacheService, key string, dest interface{}) bool {
	if cache == nil {
		return false
	}
	return cache.Get(ctx, key, dest) == nil
}

func cacheSet(ctx context.Context, cache CacheService, key string, value interface{}, ttl time.Duration) {
	if cache != nil {
		_ = cache.Set(ctx, key, value, ttl)
	}
}
