package config

import (
	"fmt"
	"strings"
)

// Validate checks the configuration for values the service cannot run with
func (c *Config) Validate() error {
	var problems []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		problems = append(problems, fmt.Sprintf("server.port must be between 1 and 65535, got %d", c.Server.Port))
	}
	if c.Server.ShutdownTimeout <= 0 {
		problems = append(problems, "server.shutdown_timeout must be positive")
	}

	switch c.Cache.Backend {
	case "memory":
	case "redis":
		if c.Cache.Redis.Addr == "" {
			problems = append(problems, "cache.redis.addr is required for the redis backend")
		}
	default:
		problems = append(problems, fmt.Sprintf("cache.backend must be memory or redis, got %q", c.Cache.Backend))
	}

	if c.Cache.TTL <= 0 {
		problems = append(problems, "cache.ttl must be positive")
	}

	switch c.Catalog.Backend {
	case "memory":
	case "postgres":
		if c.Catalog.Postgres.Host == "" {
			problems = append(problems, "catalog.postgres.host is required for the postgres backend")
		}
		if c.Catalog.Postgres.Name == "" {
			problems = append(problems, "catalog.postgres.name is required for the postgres backend")
		}
	default:
		problems = append(problems, fmt.Sprintf("catalog.backend must be memory or postgres, got %q", c.Catalog.Backend))
	}

	if c.CoinGecko.BaseURL == "" {
		problems = append(problems, "coingecko.base_url is required")
	}
	if c.CoinGecko.Timeout <= 0 {
		problems = append(problems, "coingecko.timeout must be positive")
	}

	if c.RateLimit.Enabled {
		if c.RateLimit.Capacity <= 0 {
			problems = append(problems, "rate_limit.capacity must be positive when rate limiting is enabled")
		}
		if c.RateLimit.RefillRate <= 0 {
			problems = append(problems, "rate_limit.refill_rate must be positive when rate limiting is enabled")
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

// Load is the package-level entry point: build a loader, load, validate
func Load() (*Config, error) {
	config, err := NewLoader().Load()
	if err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}
