package cache

import (
	"context"
	"sync"

	"crypto-market-service/internal/domain/interfaces"
)

// MemoryCache implements the Cache backend with a local map. Entries are
// plain strings; freshness is the entry adapter's concern, so nothing here
// ever expires or is purged.
type MemoryCache struct {
	items map[string]string
	mu    sync.RWMutex
}

// NewMemoryCache creates an empty in-memory backend
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		items: make(map[string]string),
	}
}

var _ interfaces.Cache = (*MemoryCache)(nil)

// Get returns the stored value or ErrKeyNotFound
func (c *MemoryCache) Get(ctx context.Context, key string) (string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	value, exists := c.items[key]
	if !exists {
		return "", ErrKeyNotFound
	}
	return value, nil
}

// Set upserts the value under key
func (c *MemoryCache) Set(ctx context.Context, key string, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = value
	return nil
}

// Ping always succeeds for the memory backend
func (c *MemoryCache) Ping(ctx context.Context) error {
	return nil
}

// Close is a no-op for the memory backend
func (c *MemoryCache) Close() error {
	return nil
}

// Size returns the number of stored entries, used in tests
func (c *MemoryCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
