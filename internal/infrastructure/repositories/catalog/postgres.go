package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"crypto-market-service/internal/domain/entities"
	"crypto-market-service/internal/domain/interfaces"
	"crypto-market-service/internal/infrastructure/config"
)

const schema = `
CREATE TABLE IF NOT EXISTS coins (
	coin_id TEXT PRIMARY KEY,
	symbol  TEXT NOT NULL,
	name    TEXT NOT NULL
)`

// upsertBatchSize bounds the number of rows per multi-value INSERT so the
// full catalog (tens of thousands of coins) stays under Postgres parameter
// limits.
const upsertBatchSize = 1000

// PostgresCatalog implements CoinCatalog on a Postgres coins table keyed by
// coin_id. Upserts never delete rows; the catalog only grows or updates
// fields.
type PostgresCatalog struct {
	db *sqlx.DB
}

// NewPostgresCatalog connects to Postgres and ensures the coins table exists
func NewPostgresCatalog(cfg config.PostgresConfig) (*PostgresCatalog, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, cfg.SSLMode,
	)

	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	catalog := &PostgresCatalog{db: db}
	if err := catalog.ensureSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return catalog, nil
}

// NewPostgresCatalogWithDB wraps an existing connection, used in tests
func NewPostgresCatalogWithDB(db *sqlx.DB) *PostgresCatalog {
	return &PostgresCatalog{db: db}
}

var _ interfaces.CoinCatalog = (*PostgresCatalog)(nil)

func (c *PostgresCatalog) ensureSchema(ctx context.Context) error {
	if _, err := c.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to ensure coins table: %w", err)
	}
	return nil
}

// GetAll returns every catalog record
func (c *PostgresCatalog) GetAll(ctx context.Context) ([]entities.CoinInfo, error) {
	var coins []entities.CoinInfo
	err := c.db.SelectContext(ctx, &coins, `SELECT coin_id, symbol, name FROM coins ORDER BY coin_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to read coin catalog: %w", err)
	}
	return coins, nil
}

// UpsertAll bulk-inserts records, updating symbol and name on conflict
func (c *PostgresCatalog) UpsertAll(ctx context.Context, coins []entities.CoinInfo) error {
	if len(coins) == 0 {
		return nil
	}

	tx, err := c.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for start := 0; start < len(coins); start += upsertBatchSize {
		end := start + upsertBatchSize
		if end > len(coins) {
			end = len(coins)
		}
		if err := upsertBatch(ctx, tx, coins[start:end]); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit catalog upsert: %w", err)
	}
	return nil
}

func upsertBatch(ctx context.Context, tx *sqlx.Tx, coins []entities.CoinInfo) error {
	query := `
		INSERT INTO coins (coin_id, symbol, name)
		VALUES (:coin_id, :symbol, :name)
		ON CONFLICT (coin_id) DO UPDATE
		SET symbol = EXCLUDED.symbol, name = EXCLUDED.name`

	if _, err := tx.NamedExecContext(ctx, query, coins); err != nil {
		return fmt.Errorf("failed to upsert coin batch: %w", err)
	}
	return nil
}

// Ping verifies the database connection
func (c *PostgresCatalog) Ping(ctx context.Context) error {
	return c.db.PingContext(ctx)
}

// Close closes the database connection pool
func (c *PostgresCatalog) Close() error {
	return c.db.Close()
}
