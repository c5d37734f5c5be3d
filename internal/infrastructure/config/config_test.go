package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := GetDefaultConfig()
	assert.NoError(t, cfg.Validate())
}

func TestDefaultConfigValues(t *testing.T) {
	cfg := GetDefaultConfig()

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "memory", cfg.Cache.Backend)
	assert.Equal(t, 60*time.Second, cfg.Cache.TTL)
	assert.Equal(t, "memory", cfg.Catalog.Backend)
	assert.Equal(t, "https://api.coingecko.com/api/v3", cfg.CoinGecko.BaseURL)
}

func TestValidate_BadPort(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Server.Port = 0

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.port")
}

func TestValidate_UnknownCacheBackend(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Cache.Backend = "memcached"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cache.backend")
}

func TestValidate_RedisBackendNeedsAddr(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Cache.Backend = "redis"
	cfg.Cache.Redis.Addr = ""

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cache.redis.addr")
}

func TestValidate_PostgresBackendNeedsHostAndName(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Catalog.Backend = "postgres"
	cfg.Catalog.Postgres.Host = ""
	cfg.Catalog.Postgres.Name = ""

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "catalog.postgres.host")
	assert.Contains(t, err.Error(), "catalog.postgres.name")
}

func TestValidate_NonPositiveTTL(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Cache.TTL = 0

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cache.ttl")
}

func TestValidate_MissingBaseURL(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.CoinGecko.BaseURL = ""

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "coingecko.base_url")
}

func TestValidate_RateLimitBoundsOnlyWhenEnabled(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.RateLimit.Enabled = false
	cfg.RateLimit.Capacity = 0
	require.NoError(t, cfg.Validate())

	cfg.RateLimit.Enabled = true
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate_limit.capacity")
}

func TestValidate_CollectsAllProblems(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Server.Port = -1
	cfg.Cache.TTL = 0
	cfg.CoinGecko.BaseURL = ""

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.port")
	assert.Contains(t, err.Error(), "cache.ttl")
	assert.Contains(t, err.Error(), "coingecko.base_url")
}

func TestLoader_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("CACHE_BACKEND", "redis")
	t.Setenv("REDIS_ADDR", "localhost:6380")
	t.Setenv("COINGECKO_API_BASE_URL", "https://example.test/api/v3")
	t.Setenv("API_KEYS", "demo-key")

	cfg, err := NewLoader().Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "redis", cfg.Cache.Backend)
	assert.Equal(t, "localhost:6380", cfg.Cache.Redis.Addr)
	assert.Equal(t, "https://example.test/api/v3", cfg.CoinGecko.BaseURL)
	assert.Equal(t, "demo-key", cfg.CoinGecko.APIKey)
}

func TestLoader_CacheTTLSecondsCompat(t *testing.T) {
	t.Setenv("CACHE_TTL_SECONDS", "120")

	cfg, err := NewLoader().Load()
	require.NoError(t, err)

	assert.Equal(t, 120*time.Second, cfg.Cache.TTL)
}

func TestLoader_IgnoresInvalidCacheTTLSeconds(t *testing.T) {
	t.Setenv("CACHE_TTL_SECONDS", "not-a-number")

	cfg, err := NewLoader().Load()
	require.NoError(t, err)

	assert.Equal(t, GetDefaultConfig().Cache.TTL, cfg.Cache.TTL)
}
