package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getRedisClient(t *testing.T) *redis.Client {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	c := redis.NewClient(&redis.Options{Addr: addr})
	if err := c.Ping(context.Background()).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func TestJSONCache_RoundTrip(t *testing.T) {
	c := getRedisClient(t)
	ctx := context.Background()
	cache := NewJSONCache(c, "storefront:test:", time.Minute)
	t.Cleanup(func() { cache.Delete(ctx, "items") })

	var got []string
	ok, err := cache.Get(ctx, "items", &got)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, cache.Set(ctx, "items", []string{"MacBook Pro", "iPhone 15"}))

	ok, err = cache.Get(ctx, "items", &got)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []string{"MacBook Pro", "iPhone 15"}, got)

	require.NoError(t, cache.Delete(ctx, "items"))
	ok, err = cache.Get(ctx, "items", &got)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestJSONCache_CorruptValue(t *testing.T) {
	c := getRedisClient(t)
	ctx := context.Background()
	cache := NewJSONCache(c, "storefront:test:", time.Minute)
	t.Cleanup(func() { cache.Delete(ctx, "broken") })

	require.NoError(t, c.Set(ctx, "storefront:test:broken", "{not json", time.Minute).Err())

	var got map[string]interface{}
	ok, err := cache.Get(ctx, "broken", &got)
	assert.Error(t, err)
	assert.False(t, ok)
}
