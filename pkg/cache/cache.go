// Package cache provides the byte-oriented caches used by cdnfetch.
//
// Entries carry their own time-to-live. Four implementations exist:
//   - [MemoryCache]: in-process map with expiring entries, the default for
//     search and version listings
//   - [FileCache]: JSON files under ~/.cache/cdnfetch, shared across runs
//   - [RedisCache]: shared cache for bridge deployments
//   - [NullCache]: never stores anything, used when caching is disabled
//
// Keys are produced by a [Keyer] so that namespaces never collide.
package cache

import (
	"context"
	"encoding/json"
	"time"
)

// Cache stores opaque byte values with a per-entry TTL. A TTL of zero
// means the entry never expires.
type Cache interface {
	// Get returns the value for key. A miss returns (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key for ttl.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Flush drops every entry owned by this cache.
	Flush(ctx context.Context) error

	// Close releases underlying resources.
	Close() error
}

// GetJSON decodes the value stored under key into v. A miss is reported as
// [ErrCacheMiss].
func GetJSON(ctx context.Context, c Cache, key string, v any) error {
	data, ok, err := c.Get(ctx, key)
	if err != nil {
		return err
	}
	if !ok {
		return ErrCacheMiss
	}
	return json.Unmarshal(data, v)
}

// SetJSON encodes v and stores it under key.
func SetJSON(ctx context.Context, c Cache, key string, v any, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.Set(ctx, key, data, ttl)
}
