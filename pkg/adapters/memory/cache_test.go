package memory_test

import (
	"context"
	"testing"

	"github.com/aretw0/svgo/pkg/adapters/memory"
	"github.com/aretw0/svgo/pkg/domain"
	"github.com/aretw0/svgo/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache_Contract(t *testing.T) {
	cache := memory.NewCache()
	ports.RunResultCacheContract(t, cache)
}

func TestMemoryCache_EvictsOldest(t *testing.T) {
	ctx := context.Background()
	cache := memory.NewCache(memory.WithCapacity(2))

	require.NoError(t, cache.Set(ctx, "a", "1"))
	require.NoError(t, cache.Set(ctx, "b", "2"))
	// overwriting does not change the insertion order
	require.NoError(t, cache.Set(ctx, "a", "3"))
	require.NoError(t, cache.Set(ctx, "c", "4"))

	assert.Equal(t, 2, cache.Len())
	_, err := cache.Get(ctx, "a")
	assert.ErrorIs(t, err, domain.ErrCacheMiss)

	data, err := cache.Get(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, "2", data)

	require.NoError(t, cache.Delete(ctx, "b"))
	require.NoError(t, cache.Set(ctx, "d", "5"))
	assert.Equal(t, 2, cache.Len())
	_, err = cache.Get(ctx, "c")
	assert.NoError(t, err)
}
