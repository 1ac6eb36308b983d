package cache

import (
	"context"
	"testing"
	"time"

	"foodshare-service/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestInMemoryCache_SetGet(t *testing.T) {
	c := NewInMemoryCache(zap.NewNop())
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "listings:page=1", []byte("payload"), time.Minute))

	val, err := c.Get(ctx, "listings:page=1")
	assert.NoError(t, err)
	assert.Equal(t, []byte("payload"), val)

	exists, err := c.Exists(ctx, "listings:page=1")
	assert.NoError(t, err)
	assert.True(t, exists)

	_, err = c.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestInMemoryCache_Expiry(t *testing.T) {
	c := NewInMemoryCache(zap.NewNop())
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))
	now = now.Add(2 * time.Minute)

	_, err := c.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrCacheMiss)

	exists, err := c.Exists(ctx, "k")
	assert.NoError(t, err)
	assert.False(t, exists)
}

func TestInMemoryCache_DeleteByPattern(t *testing.T) {
	c := NewInMemoryCache(zap.NewNop())
	ctx := context.Background()

	for _, key := range []string{"listings:a", "listings:b", "idempotency:x"} {
		require.NoError(t, c.Set(ctx, key, []byte("1"), time.Minute))
	}

	require.NoError(t, c.DeleteByPattern(ctx, "listings:*"))

	_, err := c.Get(ctx, "listings:a")
	assert.ErrorIs(t, err, ErrCacheMiss)
	_, err = c.Get(ctx, "listings:b")
	assert.ErrorIs(t, err, ErrCacheMiss)
	_, err = c.Get(ctx, "idempotency:x")
	assert.NoError(t, err)

	require.NoError(t, c.DeleteByPattern(ctx, "idempotency:x"))
	_, err = c.Get(ctx, "idempotency:x")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestJSONHelpers(t *testing.T) {
	c := NewInMemoryCache(zap.NewNop())
	ctx := context.Background()
	type page struct {
		IDs   []string `json:"ids"`
		Total int      `json:"total"`
	}

	require.NoError(t, SetJSON(ctx, c, "listings:1", page{IDs: []string{"a"}, Total: 1}, TTL(60)))

	var got page
	require.NoError(t, GetJSON(ctx, c, "listings:1", &got))
	assert.Equal(t, 1, got.Total)
	assert.Equal(t, []string{"a"}, got.IDs)
}

func TestNewCache_FallsBackWhenRedisUnavailable(t *testing.T) {
	cfg := &config.Config{RedisHost: "127.0.0.1", RedisPort: "1"}

	c := NewCache(cfg, zap.NewNop())

	_, ok := c.(*InMemoryCache)
	assert.True(t, ok)
}
