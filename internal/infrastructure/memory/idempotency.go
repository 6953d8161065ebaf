package memory

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
)

// IdempotencyGuard is the in-process fallback used when Redis is not configured.
type IdempotencyGuard struct {
	cache *cache.Cache
}

// NewIdempotencyGuard returns a guard whose keys expire after ttl.
func NewIdempotencyGuard(ttl time.Duration) *IdempotencyGuard {
	return &IdempotencyGuard{cache: cache.New(ttl, cleanupInterval)}
}

// Claim reserves key; Add fails when the key is already present.
func (g *IdempotencyGuard) Claim(_ context.Context, key string) (bool, error) {
	return g.cache.Add(key, struct{}{}, cache.DefaultExpiration) == nil, nil
}

func (g *IdempotencyGuard) Release(_ context.Context, key string) error {
	g.cache.Delete(key)
	return nil
}
