// Package replay records consumed decision links so a link can optionally be
// used only once. It is off unless quote.single_use_links is enabled.
package replay

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "quote:decided:"

// RedisGuard claims tokens with SETNX so concurrent decisions on the same
// link have exactly one winner.
type RedisGuard struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisGuard returns a guard that remembers claims for ttl.
func NewRedisGuard(rdb *redis.Client, ttl time.Duration) *RedisGuard {
	return &RedisGuard{rdb: rdb, ttl: ttl}
}

// Claim marks token as consumed. It reports false when the token was
// already claimed.
func (g *RedisGuard) Claim(ctx context.Context, token string) (bool, error) {
	ok, err := g.rdb.SetNX(ctx, key(token), time.Now().Unix(), g.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("claim decision link: %w", err)
	}
	return ok, nil
}

// Release forgets a claim, used when the decision could not be delivered.
func (g *RedisGuard) Release(ctx context.Context, token string) error {
	if err := g.rdb.Del(ctx, key(token)).Err(); err != nil {
		return fmt.Errorf("release decision link: %w", err)
	}
	return nil
}

func key(token string) string {
	sum := sha256.Sum256([]byte(token))
	return keyPrefix + hex.EncodeToString(sum[:])
}
