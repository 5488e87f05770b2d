package replay

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGuard(t *testing.T, ttl time.Duration) (*RedisGuard, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewRedisGuard(rdb, ttl), mr
}

func TestClaim_OnlyOnce(t *testing.T) {
	g, _ := newGuard(t, time.Hour)
	ctx := context.Background()

	ok, err := g.Claim(ctx, "tok.sig")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = g.Claim(ctx, "tok.sig")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = g.Claim(ctx, "other.sig")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestClaim_ExpiresAfterTTL(t *testing.T) {
	g, mr := newGuard(t, time.Hour)
	ctx := context.Background()

	ok, _ := g.Claim(ctx, "tok.sig")
	require.True(t, ok)

	mr.FastForward(2 * time.Hour)

	ok, err := g.Claim(ctx, "tok.sig")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRelease_AllowsReclaim(t *testing.T) {
	g, _ := newGuard(t, time.Hour)
	ctx := context.Background()

	ok, _ := g.Claim(ctx, "tok.sig")
	require.True(t, ok)
	require.NoError(t, g.Release(ctx, "tok.sig"))

	ok, err := g.Claim(ctx, "tok.sig")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestKey_DoesNotStoreRawToken(t *testing.T) {
	g, mr := newGuard(t, time.Hour)
	_, err := g.Claim(context.Background(), "secret-token.sig")
	require.NoError(t, err)

	for _, k := range mr.Keys() {
		assert.NotContains(t, k, "secret-token")
		assert.Contains(t, k, keyPrefix)
	}
}

func TestClaim_RedisDown(t *testing.T) {
	g, mr := newGuard(t, time.Hour)
	mr.Close()

	_, err := g.Claim(context.Background(), "tok.sig")
	assert.Error(t, err)
}
