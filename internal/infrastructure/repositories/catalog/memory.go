package catalog

import (
	"context"
	"sync"

	"crypto-market-service/internal/domain/entities"
	"crypto-market-service/internal/domain/interfaces"
)

// MemoryCatalog implements CoinCatalog with a local map, used in
// development and tests. Upserts are keyed by coinId like the Postgres
// implementation; records are never deleted.
type MemoryCatalog struct {
	coins map[string]entities.CoinInfo
	mu    sync.RWMutex
}

// NewMemoryCatalog creates an empty in-memory catalog
func NewMemoryCatalog() *MemoryCatalog {
	return &MemoryCatalog{
		coins: make(map[string]entities.CoinInfo),
	}
}

var _ interfaces.CoinCatalog = (*MemoryCatalog)(nil)

// GetAll returns every stored record
func (c *MemoryCatalog) GetAll(ctx context.Context) ([]entities.CoinInfo, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	coins := make([]entities.CoinInfo, 0, len(c.coins))
	for _, coin := range c.coins {
		coins = append(coins, coin)
	}
	return coins, nil
}

// UpsertAll inserts or replaces every record by coinId
func (c *MemoryCatalog) UpsertAll(ctx context.Context, coins []entities.CoinInfo) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, coin := range coins {
		if coin.CoinID == "" {
			continue
		}
		c.coins[coin.CoinID] = coin
	}
	return nil
}

// Ping always succeeds for the memory catalog
func (c *MemoryCatalog) Ping(ctx context.Context) error {
	return nil
}

// Close is a no-op for the memory catalog
func (c *MemoryCatalog) Close() error {
	return nil
}

// Size returns the number of stored records, used in tests
func (c *MemoryCatalog) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.coins)
}
