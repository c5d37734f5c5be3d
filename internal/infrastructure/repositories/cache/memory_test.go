package cache

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache_SetAndGet(t *testing.T) {
	cache := NewMemoryCache()
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "test-key", "test-value"))

	value, err := cache.Get(ctx, "test-key")
	require.NoError(t, err)
	assert.Equal(t, "test-value", value)
}

func TestMemoryCache_Get_Missing(t *testing.T) {
	cache := NewMemoryCache()

	_, err := cache.Get(context.Background(), "never-written")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestMemoryCache_Set_Overwrites(t *testing.T) {
	cache := NewMemoryCache()
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "key", "first"))
	require.NoError(t, cache.Set(ctx, "key", "second"))

	value, err := cache.Get(ctx, "key")
	require.NoError(t, err)
	assert.Equal(t, "second", value)
	assert.Equal(t, 1, cache.Size())
}

func TestMemoryCache_ConcurrentAccess(t *testing.T) {
	cache := NewMemoryCache()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			_ = cache.Set(ctx, fmt.Sprintf("key-%d", n), "value")
		}(i)
		go func(n int) {
			defer wg.Done()
			_, _ = cache.Get(ctx, fmt.Sprintf("key-%d", n))
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 50, cache.Size())
}

func TestMemoryCache_PingAndClose(t *testing.T) {
	cache := NewMemoryCache()

	assert.NoError(t, cache.Ping(context.Background()))
	assert.NoError(t, cache.Close())
}
