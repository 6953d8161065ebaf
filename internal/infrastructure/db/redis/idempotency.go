package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const idempotencyTTL = 24 * time.Hour

// IdempotencyGuard reserves idempotency keys in Redis.
// Key format: idem:<session_id>:<client_key>
type IdempotencyGuard struct {
	client *redis.Client
	ttl    time.Duration
}

// NewIdempotencyGuard creates a guard wrapping the given Redis client.
func NewIdempotencyGuard(client *redis.Client) *IdempotencyGuard {
	return &IdempotencyGuard{client: client, ttl: idempotencyTTL}
}

// Claim atomically reserves key; it reports false when key was already taken.
func (g *IdempotencyGuard) Claim(ctx context.Context, key string) (bool, error) {
	ok, err := g.client.SetNX(ctx, g.key(key), "1", g.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("idempotency claim: %w", err)
	}
	return ok, nil
}

// Release deletes key so the operation can be retried.
func (g *IdempotencyGuard) Release(ctx context.Context, key string) error {
	if err := g.client.Del(ctx, g.key(key)).Err(); err != nil {
		return fmt.Errorf("idempotency release: %w", err)
	}
	return nil
}

// Ping reports whether Redis is reachable.
func (g *IdempotencyGuard) Ping(ctx context.Context) error {
	return g.client.Ping(ctx).Err()
}

func (g *IdempotencyGuard) key(k string) string {
	return "idem:" + k
}
