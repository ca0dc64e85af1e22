package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/svgo/pkg/adapters/redis"
	"github.com/aretw0/svgo/pkg/domain"
	"github.com/aretw0/svgo/pkg/ports"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMiniredis(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisCache_Contract(t *testing.T) {
	_, client := newMiniredis(t)

	cache := redis.NewFromClient(client)
	ports.RunResultCacheContract(t, cache)
}

func TestRedisCache_TTL_Expiration(t *testing.T) {
	mr, client := newMiniredis(t)

	cache := redis.NewFromClient(client, redis.WithTTL(1*time.Second))
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "k", "<svg/>"))
	_, err := cache.Get(ctx, "k")
	assert.NoError(t, err)

	mr.FastForward(2 * time.Second)

	_, err = cache.Get(ctx, "k")
	assert.ErrorIs(t, err, domain.ErrCacheMiss)
}

func TestRedisCache_Prefix(t *testing.T) {
	mr, client := newMiniredis(t)

	cache := redis.NewFromClient(client, redis.WithPrefix("custom:app:"))
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "abc", "<svg/>"))
	assert.True(t, mr.Exists("custom:app:abc"), "Expected key with custom prefix to exist")

	got, err := mr.Get("custom:app:abc")
	require.NoError(t, err)
	assert.Equal(t, "<svg/>", got)
}

func TestRedisCache_NewFromURL(t *testing.T) {
	mr, _ := newMiniredis(t)

	cache, err := redis.NewFromURL("redis://" + mr.Addr() + "/0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = cache.Close() })
	assert.NoError(t, cache.Ping(context.Background()))

	_, err = redis.NewFromURL("not a url")
	assert.Error(t, err)
}

func TestRedisCache_Unavailable(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	cache := redis.NewFromClient(client)
	mr.Close()

	_, err = cache.Get(context.Background(), "k")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrCacheMiss)
}
