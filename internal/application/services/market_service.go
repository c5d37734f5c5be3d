package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"crypto-market-service/internal/domain/entities"
	"crypto-market-service/internal/domain/interfaces"
	"crypto-market-service/internal/infrastructure/logging"
	"crypto-market-service/internal/infrastructure/metrics"
)

// Service-level errors. Upstream error kinds pass through from the
// provider untouched.
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNoChartData     = errors.New("no chart data for coin")
)

// Cache keys follow the upstream parameters that shaped the response, so
// distinct queries never collide.
const (
	topMoverPageSize = 1
	coinListCacheKey = "coin_list_full"
)

func marketsCacheKey(order string, perPage int) string {
	return fmt.Sprintf("markets_%s_%d", order, perPage)
}

func chartCacheKey(coinID string, days int) string {
	return fmt.Sprintf("market_chart_%s_%d", coinID, days)
}

// marketService orchestrates the response cache, the durable catalog and
// the upstream provider. It holds no per-request state; every operation
// suspends only at its collaborators' I/O boundaries.
type marketService struct {
	provider interfaces.MarketDataProvider
	cache    interfaces.ResponseCache
	catalog  interfaces.CoinCatalog

	// spawn runs a detached task the caller never awaits
	spawn func(task func())
}

// NewMarketService creates the market data service
func NewMarketService(provider interfaces.MarketDataProvider, cache interfaces.ResponseCache, catalog interfaces.CoinCatalog) interfaces.MarketDataService {
	return &marketService{
		provider: provider,
		cache:    cache,
		catalog:  catalog,
		spawn:    func(task func()) { go task() },
	}
}

// TopMover returns the single top gainer (descending) or loser (ascending)
// by 24h change. An empty upstream result is absent, not an error, and is
// not cached.
func (s *marketService) TopMover(ctx context.Context, direction entities.SortDirection) (*entities.MarketSnapshot, error) {
	order := direction.OrderParam()
	key := marketsCacheKey(order, topMoverPageSize)

	if raw, ok := s.cache.Get(ctx, key); ok {
		var snapshots []entities.MarketSnapshot
		if err := json.Unmarshal(raw, &snapshots); err == nil {
			return firstSnapshot(snapshots), nil
		}
		logging.Warn(ctx, "Cached market snapshot payload is not decodable, refetching", logging.Fields{
			logging.FieldCacheKey: key,
		})
	}

	snapshots, err := s.provider.MarketSnapshots(ctx, order, topMoverPageSize)
	if err != nil {
		return nil, err
	}

	if len(snapshots) == 0 {
		return nil, nil
	}

	if err := s.cache.Put(ctx, key, snapshots); err != nil {
		logging.WarnWithError(ctx, "Failed to cache market snapshots", err, logging.Fields{
			logging.FieldCacheKey: key,
		})
	}

	return firstSnapshot(snapshots), nil
}

func firstSnapshot(snapshots []entities.MarketSnapshot) *entities.MarketSnapshot {
	if len(snapshots) == 0 {
		return nil
	}
	return &snapshots[0]
}

// MarketChart returns the price and volume series for a coin. The day
// window is normalized before the cache key is derived, so unsupported
// windows share the default window's cache entry.
func (s *marketService) MarketChart(ctx context.Context, coinID string, days int) (*entities.ChartSeries, error) {
	if strings.TrimSpace(coinID) == "" {
		return nil, fmt.Errorf("%w: coin id is required", ErrInvalidArgument)
	}

	days = entities.NormalizeChartDays(days)
	key := chartCacheKey(coinID, days)

	if raw, ok := s.cache.Get(ctx, key); ok {
		var series entities.ChartSeries
		if err := json.Unmarshal(raw, &series); err == nil {
			return &series, nil
		}
		logging.Warn(ctx, "Cached chart payload is not decodable, refetching", logging.Fields{
			logging.FieldCacheKey: key,
		})
	}

	series, err := s.provider.MarketChart(ctx, coinID, days)
	if err != nil {
		return nil, err
	}

	if series == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoChartData, coinID)
	}

	if err := s.cache.Put(ctx, key, series); err != nil {
		logging.WarnWithError(ctx, "Failed to cache chart series", err, logging.Fields{
			logging.FieldCacheKey: key,
		})
	}

	return series, nil
}

// CoinCatalog returns the full coin catalog through a three-tier fallback:
// durable store, then response cache, then upstream. A fresh upstream
// result is returned immediately and written back to the durable store in
// a detached task the request never waits on.
func (s *marketService) CoinCatalog(ctx context.Context) ([]entities.CoinInfo, error) {
	stored, err := s.catalog.GetAll(ctx)
	if err != nil {
		logging.WarnWithError(ctx, "Durable catalog read failed, falling back to cache", err, nil)
	} else if len(stored) > 0 {
		logging.Debug(ctx, "Coin catalog served from durable store", logging.Fields{
			"count": len(stored),
		})
		return stored, nil
	}

	if raw, ok := s.cache.Get(ctx, coinListCacheKey); ok {
		var coins []entities.CoinInfo
		if err := json.Unmarshal(raw, &coins); err == nil {
			return coins, nil
		}
		logging.Warn(ctx, "Cached coin list payload is not decodable, refetching", logging.Fields{
			logging.FieldCacheKey: coinListCacheKey,
		})
	}

	coins, err := s.provider.CoinList(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Put(ctx, coinListCacheKey, coins); err != nil {
		logging.WarnWithError(ctx, "Failed to cache coin list", err, logging.Fields{
			logging.FieldCacheKey: coinListCacheKey,
		})
	}

	s.spawn(func() { s.persistCatalog(coins) })

	return coins, nil
}

// persistCatalog writes the fetched catalog into the durable store. It
// runs detached from the request that triggered it: failures are logged
// and counted, never surfaced. The context is fresh on purpose; the
// triggering request's cancellation must not abort the write.
func (s *marketService) persistCatalog(coins []entities.CoinInfo) {
	ctx := context.Background()

	defer func() {
		if r := recover(); r != nil {
			logging.Error(ctx, "Panic during background catalog persistence", logging.Fields{
				"panic": fmt.Sprintf("%v", r),
			})
			metrics.RecordCatalogRefresh("error", 0)
		}
	}()

	if len(coins) == 0 {
		return
	}

	if err := s.catalog.UpsertAll(ctx, coins); err != nil {
		logging.WarnWithError(ctx, "Background catalog persistence failed", err, logging.Fields{
			"count": len(coins),
		})
		metrics.RecordCatalogRefresh("error", 0)
		return
	}

	logging.Info(ctx, "Coin catalog persisted", logging.Fields{
		"count": len(coins),
	})
	metrics.RecordCatalogRefresh("success", len(coins))
}
