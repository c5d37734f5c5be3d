package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"crypto-market-service/internal/domain/interfaces"
	"crypto-market-service/internal/infrastructure/logging"
	"crypto-market-service/internal/infrastructure/metrics"
	"crypto-market-service/pkg/utils"
)

// DefaultTTL is the freshness window applied when no TTL is configured
const DefaultTTL = 60 * time.Second

// entry is the stored envelope: the opaque payload plus its creation time.
// Expiry is judged against CreatedAt at read time; expired entries stay in
// the backend until the next Put overwrites them.
type entry struct {
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
}

// EntryCache adapts a raw Cache backend into the ResponseCache contract:
// JSON payloads stamped with a creation time, served only while fresh.
type EntryCache struct {
	backend interfaces.Cache
	ttl     time.Duration
	now     func() time.Time
}

// NewEntryCache wraps a backend with the given freshness window
func NewEntryCache(backend interfaces.Cache, ttl time.Duration) *EntryCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &EntryCache{
		backend: backend,
		ttl:     ttl,
		now:     time.Now,
	}
}

var _ interfaces.ResponseCache = (*EntryCache)(nil)

// Get returns the payload for key while it is fresh. Backend errors are
// swallowed and reported as a miss so the caller falls through to the
// upstream fetch.
func (c *EntryCache) Get(ctx context.Context, key string) (json.RawMessage, bool) {
	raw, err := c.backend.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrKeyNotFound) {
			logging.WarnWithError(ctx, "Cache read failed, treating as miss", err, logging.Fields{
				logging.FieldCacheKey: key,
			})
			metrics.RecordCacheOperation("get", "error")
			return nil, false
		}
		metrics.RecordCacheOperation("get", "miss")
		return nil, false
	}

	var stored entry
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		logging.WarnWithError(ctx, "Cache entry is not decodable, treating as miss", err, logging.Fields{
			logging.FieldCacheKey: key,
		})
		metrics.RecordCacheOperation("get", "error")
		return nil, false
	}

	if utils.IsStaleAt(stored.CreatedAt, c.ttl, c.now()) {
		logging.Debug(ctx, "Cache entry expired", logging.Fields{
			logging.FieldCacheKey: key,
			"age_seconds":         c.now().Sub(stored.CreatedAt).Seconds(),
		})
		metrics.RecordCacheOperation("get", "expired")
		return nil, false
	}

	metrics.RecordCacheOperation("get", "hit")
	return stored.Payload, true
}

// Put upserts the payload under key with the current time as CreatedAt
func (c *EntryCache) Put(ctx context.Context, key string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		metrics.RecordCacheOperation("put", "error")
		return err
	}

	stored, err := json.Marshal(entry{
		Payload:   raw,
		CreatedAt: c.now(),
	})
	if err != nil {
		metrics.RecordCacheOperation("put", "error")
		return err
	}

	if err := c.backend.Set(ctx, key, string(stored)); err != nil {
		metrics.RecordCacheOperation("put", "error")
		return err
	}

	metrics.RecordCacheOperation("put", "success")
	return nil
}
