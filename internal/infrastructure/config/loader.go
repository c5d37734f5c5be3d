package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Loader handles configuration loading using Viper
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a new configuration loader instance
func NewLoader() *Loader {
	return &Loader{
		v: viper.New(),
	}
}

// Load reads configuration from files and environment variables, layered
// over the compiled-in defaults
func (l *Loader) Load() (*Config, error) {
	l.setupViper()

	if err := l.v.ReadInConfig(); err != nil {
		// Missing config.yaml is fine; env vars and defaults still apply
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	config := GetDefaultConfig()
	if err := l.v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	l.overrideWithEnvVars(config)

	return config, nil
}

// setupViper configures Viper to read files and env vars
func (l *Loader) setupViper() {
	l.v.SetConfigName("config")
	l.v.SetConfigType("yaml")

	l.v.AddConfigPath("./configs")
	l.v.AddConfigPath("../configs")
	l.v.AddConfigPath(".")
	l.v.AddConfigPath("/etc/crypto-market")

	l.v.AutomaticEnv()
	l.v.SetEnvPrefix("CRYPTO_MARKET")
	l.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	l.bindEnvVars()
}

// bindEnvVars maps flat environment variables to configuration keys. The
// flat names predate the viper setup and stay supported.
func (l *Loader) bindEnvVars() {
	envMappings := map[string]string{
		"server.port":               "PORT",
		"cache.backend":             "CACHE_BACKEND",
		"cache.ttl":                 "CACHE_TTL",
		"cache.redis.addr":          "REDIS_ADDR",
		"cache.redis.password":      "REDIS_PASSWORD",
		"cache.redis.db":            "REDIS_DB",
		"catalog.backend":           "CATALOG_BACKEND",
		"catalog.postgres.host":     "POSTGRES_HOST",
		"catalog.postgres.port":     "POSTGRES_PORT",
		"catalog.postgres.user":     "POSTGRES_USER",
		"catalog.postgres.password": "POSTGRES_PASSWORD",
		"catalog.postgres.name":     "POSTGRES_DB",
		"catalog.postgres.ssl_mode": "POSTGRES_SSLMODE",
		"coingecko.base_url":        "COINGECKO_API_BASE_URL",
		"coingecko.api_key":         "API_KEYS",
		"coingecko.timeout":         "COINGECKO_TIMEOUT",
		"logging.level":             "LOG_LEVEL",
		"logging.format":            "LOG_FORMAT",
		"rate_limit.enabled":        "RATE_LIMIT_ENABLED",
		"rate_limit.capacity":       "RATE_LIMIT_CAPACITY",
		"rate_limit.refill_rate":    "RATE_LIMIT_REFILL_RATE",
	}

	for configKey, envVar := range envMappings {
		_ = l.v.BindEnv(configKey, envVar)
	}
}

// overrideWithEnvVars handles env vars that need parsing beyond what the
// viper bindings give us
func (l *Loader) overrideWithEnvVars(config *Config) {
	// CACHE_TTL_SECONDS as a plain integer, kept for compatibility with
	// earlier deployments
	if ttlSeconds := os.Getenv("CACHE_TTL_SECONDS"); ttlSeconds != "" {
		if n, err := strconv.Atoi(ttlSeconds); err == nil && n > 0 {
			config.Cache.TTL = time.Duration(n) * time.Second
		}
	}
}
