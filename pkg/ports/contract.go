package ports

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/svgo/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunResultCacheContract runs a suite of tests to verify that a ResultCache
// implementation adheres to the defined interface contract.
func RunResultCacheContract(t *testing.T, cache ResultCache) {
	t.Helper()
	ctx := context.Background()
	key := CacheKey("contract-test-"+time.Now().Format("20060102150405.000000000"), "pretty=true")

	t.Run("Set and Get", func(t *testing.T) {
		err := cache.Set(ctx, key, `<svg/>`)
		require.NoError(t, err, "Set should not return error")

		data, err := cache.Get(ctx, key)
		require.NoError(t, err, "Get should not return error")
		assert.Equal(t, `<svg/>`, data)
	})

	t.Run("Overwrite", func(t *testing.T) {
		require.NoError(t, cache.Set(ctx, key, `<svg><g/></svg>`))

		data, err := cache.Get(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, `<svg><g/></svg>`, data)
	})

	t.Run("Get Non-Existent", func(t *testing.T) {
		_, err := cache.Get(ctx, CacheKey("non-existent", key))
		assert.ErrorIs(t, err, domain.ErrCacheMiss)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, cache.Set(ctx, key, `<svg/>`))

		err := cache.Delete(ctx, key)
		require.NoError(t, err, "Delete should not return error")

		_, err = cache.Get(ctx, key)
		assert.ErrorIs(t, err, domain.ErrCacheMiss, "Get after Delete should return ErrCacheMiss")

		assert.NoError(t, cache.Delete(ctx, key), "Deleting twice should not fail")
	})

	t.Run("Concurrent Access", func(t *testing.T) {
		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				k := CacheKey(key, fmt.Sprint(i))
				assert.NoError(t, cache.Set(ctx, k, fmt.Sprint(i)))
				data, err := cache.Get(ctx, k)
				assert.NoError(t, err)
				assert.Equal(t, fmt.Sprint(i), data)
			}(i)
		}
		wg.Wait()
	})
}
