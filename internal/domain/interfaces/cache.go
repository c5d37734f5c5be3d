package interfaces

import (
	"context"
	"encoding/json"
)

// Cache is the raw keyed storage contract implemented by the memory and
// Redis backends. Backends store opaque string values and know nothing
// about freshness; expiry is judged by the layer above at read time.
type Cache interface {
	// Get returns the stored value or cache.ErrKeyNotFound
	Get(ctx context.Context, key string) (string, error)

	// Set upserts the value under key. Last writer wins.
	Set(ctx context.Context, key string, value string) error

	// Ping verifies the backend is reachable
	Ping(ctx context.Context) error

	Close() error
}

// ResponseCache stores upstream response payloads with a creation timestamp
// and serves them back only while they are fresh.
type ResponseCache interface {
	// Get returns the payload for key if present and within TTL. A miss,
	// an expired entry, and a storage error all report ok == false.
	Get(ctx context.Context, key string) (json.RawMessage, bool)

	// Put upserts the payload under key and stamps it with the current time
	Put(ctx context.Context, key string, payload any) error
}
