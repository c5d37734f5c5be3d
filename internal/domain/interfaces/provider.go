package interfaces

import (
	"context"

	"crypto-market-service/internal/domain/entities"
)

// MarketDataProvider wraps the upstream market-data API. Transport and
// status failures surface as the coingecko package's error kinds; no
// retries happen at this layer.
type MarketDataProvider interface {
	// MarketSnapshots fetches page 1 of current market data sorted by
	// 24h change in the given order, perPage results
	MarketSnapshots(ctx context.Context, order string, perPage int) ([]entities.MarketSnapshot, error)

	// MarketChart fetches price and volume series for a coin over a day
	// window. A nil series with nil error means the upstream had no data.
	MarketChart(ctx context.Context, coinID string, days int) (*entities.ChartSeries, error)

	// CoinList fetches the full coin catalog
	CoinList(ctx context.Context) ([]entities.CoinInfo, error)
}
