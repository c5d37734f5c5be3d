package interfaces

import (
	"context"

	"crypto-market-service/internal/domain/entities"
)

// CoinCatalog is the durable store for coin identity metadata. Records are
// upserted by coinId and never deleted; a non-empty catalog is treated as
// authoritative regardless of age.
type CoinCatalog interface {
	// GetAll returns every catalog record
	GetAll(ctx context.Context) ([]entities.CoinInfo, error)

	// UpsertAll inserts or updates every record, keyed by coinId
	UpsertAll(ctx context.Context, coins []entities.CoinInfo) error

	// Ping verifies the store is reachable
	Ping(ctx context.Context) error

	Close() error
}
