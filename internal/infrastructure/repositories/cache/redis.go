package cache

import (
	"context"

	"github.com/redis/go-redis/v9"

	"crypto-market-service/internal/domain/interfaces"
)

// RedisCache implements the Cache backend using Redis. Values are stored
// without a server-side TTL: staleness is judged at read time by the entry
// adapter, and stale entries are simply overwritten.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache creates a Redis backend from connection parameters
func NewRedisCache(addr, password string, db int) *RedisCache {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &RedisCache{client: rdb}
}

// NewRedisCacheWithClient wraps an existing Redis client
func NewRedisCacheWithClient(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

var _ interfaces.Cache = (*RedisCache)(nil)

// Get retrieves a value from Redis
func (r *RedisCache) Get(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", ErrKeyNotFound
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

// Set stores a value in Redis with no expiration
func (r *RedisCache) Set(ctx context.Context, key string, value string) error {
	return r.client.Set(ctx, key, value, 0).Err()
}

// Ping checks if the Redis connection is alive
func (r *RedisCache) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close closes the Redis connection
func (r *RedisCache) Close() error {
	return r.client.Close()
}
