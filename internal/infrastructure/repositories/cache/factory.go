package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/redis/go-redis/v9"

	"crypto-market-service/internal/domain/interfaces"
	"crypto-market-service/internal/infrastructure/config"
	"crypto-market-service/internal/infrastructure/logging"
)

// Backend names accepted by the factory
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// NewCacheFromConfig creates the configured cache backend. The Redis
// backend is pinged before use, with a short connect retry so a Redis that
// comes up alongside the service does not fail the boot.
func NewCacheFromConfig(cfg config.CacheConfig) (interfaces.Cache, error) {
	ctx := context.Background()

	switch cfg.Backend {
	case BackendMemory:
		logging.Info(ctx, "Creating memory cache backend", nil)
		return NewMemoryCache(), nil

	case BackendRedis:
		logging.Info(ctx, "Creating Redis cache backend", logging.Fields{
			"addr": cfg.Redis.Addr,
			"db":   cfg.Redis.DB,
		})
		return newRedisFromConfig(ctx, cfg.Redis)

	default:
		return nil, fmt.Errorf("unsupported cache backend: %s", cfg.Backend)
	}
}

func newRedisFromConfig(ctx context.Context, cfg config.RedisConfig) (interfaces.Cache, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	err := retry.Do(
		func() error {
			pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
			defer cancel()
			return rdb.Ping(pingCtx).Err()
		},
		retry.Attempts(3),
		retry.Delay(500*time.Millisecond),
		retry.DelayType(retry.BackOffDelay),
		retry.OnRetry(func(n uint, err error) {
			logging.Warn(ctx, "Redis connection retry", logging.Fields{
				"attempt": n + 1,
				"error":   err.Error(),
			})
		}),
	)
	if err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.Addr, err)
	}

	logging.Info(ctx, "Redis connection established", logging.Fields{
		"addr": cfg.Addr,
	})
	return NewRedisCacheWithClient(rdb), nil
}
