package cache

import (
	"context"
	"time"
)

// TokenRevocationStore remembers revoked token ids until they would have
// expired anyway.
type TokenRevocationStore struct {
	cache *RedisCache
}

func NewTokenRevocationStore(cache *RedisCache) *TokenRevocationStore {
	return &TokenRevocationStore{cache: cache}
}

func (s *TokenRevocationStore) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	return s.cache.Set(ctx, "revoked:"+tokenID, true, ttl)
}

func (s *TokenRevocationStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	return s.cache.Exists(ctx, "revoked:"+tokenID)
}
