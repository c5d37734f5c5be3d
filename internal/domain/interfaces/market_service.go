package interfaces

import (
	"context"

	"crypto-market-service/internal/domain/entities"
)

// MarketDataService defines the read operations exposed to the HTTP layer.
// Each call reads through the response cache and falls back to the upstream
// provider on a miss.
type MarketDataService interface {
	// TopMover returns the coin with the largest 24h gain (descending) or
	// loss (ascending). A nil snapshot with nil error means the upstream
	// returned no rows; that result is not cached.
	TopMover(ctx context.Context, direction entities.SortDirection) (*entities.MarketSnapshot, error)

	// MarketChart returns the chart series for a coin. The day window is
	// normalized to a supported value before the cache key is derived.
	MarketChart(ctx context.Context, coinID string, days int) (*entities.ChartSeries, error)

	// CoinCatalog returns the full coin catalog: durable store first, then
	// response cache, then upstream with background durable repopulation.
	CoinCatalog(ctx context.Context) ([]entities.CoinInfo, error)
}
