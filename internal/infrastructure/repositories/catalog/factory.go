package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/avast/retry-go/v4"

	"crypto-market-service/internal/domain/interfaces"
	"crypto-market-service/internal/infrastructure/config"
	"crypto-market-service/internal/infrastructure/logging"
)

// Backend names accepted by the factory
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
)

// NewCatalogFromConfig creates the configured durable catalog store. The
// Postgres backend is pinged with a connect retry so a database that comes
// up alongside the service does not fail the boot.
func NewCatalogFromConfig(cfg config.CatalogConfig) (interfaces.CoinCatalog, error) {
	ctx := context.Background()

	switch cfg.Backend {
	case BackendMemory:
		logging.Info(ctx, "Creating memory coin catalog", nil)
		return NewMemoryCatalog(), nil

	case BackendPostgres:
		logging.Info(ctx, "Creating Postgres coin catalog", logging.Fields{
			"host": cfg.Postgres.Host,
			"db":   cfg.Postgres.Name,
		})
		return newPostgresWithRetry(ctx, cfg.Postgres)

	default:
		return nil, fmt.Errorf("unsupported catalog backend: %s", cfg.Backend)
	}
}

func newPostgresWithRetry(ctx context.Context, cfg config.PostgresConfig) (interfaces.CoinCatalog, error) {
	var store *PostgresCatalog

	err := retry.Do(
		func() error {
			s, err := NewPostgresCatalog(cfg)
			if err != nil {
				return err
			}
			pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
			defer cancel()
			if err := s.Ping(pingCtx); err != nil {
				_ = s.Close()
				return err
			}
			store = s
			return nil
		},
		retry.Attempts(5),
		retry.Delay(time.Second),
		retry.DelayType(retry.BackOffDelay),
		retry.OnRetry(func(n uint, err error) {
			logging.Warn(ctx, "Postgres connection retry", logging.Fields{
				"attempt": n + 1,
				"error":   err.Error(),
			})
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Postgres at %s: %w", cfg.Host, err)
	}

	logging.Info(ctx, "Postgres connection established", logging.Fields{
		"host": cfg.Host,
	})
	return store, nil
}
