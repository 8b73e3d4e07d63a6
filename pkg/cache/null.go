package cache

import (
	"context"
	"time"
)

// NullCache misses on every lookup and discards every write. It backs
// --no-cache and configurations with caching switched off.
type NullCache struct{}

var _ Cache = NullCache{}

// NewNullCache returns a NullCache.
func NewNullCache() Cache { return NullCache{} }

func (NullCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }
func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (NullCache) Delete(context.Context, string) error { return nil }
func (NullCache) Flush(context.Context) error { return nil }
func (NullCache) Close() error { return nil }
