// Package observability provides hooks for metrics, tracing, and logging.
//
// Libraries in cdnfetch report events through the registered hooks instead
// of depending on a metrics backend. The defaults do nothing; a binary that
// wants counters or traces registers its own implementations at startup:
//
//	func main() {
//	    observability.SetImportHooks(&myImportHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Import().OnAttempt(ctx, "jsdelivr", "script", url)
//	// ... fetch ...
//	observability.Import().OnAttemptComplete(ctx, "jsdelivr", "script", url, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Import Hooks
// =============================================================================

// ImportHooks receives events from version resolution and provider attempts.
type ImportHooks interface {
	// OnResolve records the outcome of a version lookup. err is the lookup
	// failure that made the resolver fall back to "latest", if any.
	OnResolve(ctx context.Context, name, requested, resolved string, err error)

	// Attempt events, one pair per provider tried.
	OnAttempt(ctx context.Context, providerID, kind, url string)
	OnAttemptComplete(ctx context.Context, providerID, kind, url string, duration time.Duration, err error)

	// OnImportComplete records the final outcome of a request. code is
	// empty on success.
	OnImportComplete(ctx context.Context, name, version, providerID string, attempts int, code string)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from HTTP client operations.
type HTTPHooks interface {
	// OnRequest records an outgoing HTTP request.
	OnRequest(ctx context.Context, method, host, path string)

	// OnResponse records an HTTP response.
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)

	// OnError records an HTTP error (network failure, timeout).
	OnError(ctx context.Context, method, host, path string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopImportHooks is a no-op implementation of ImportHooks.
type NoopImportHooks struct{}

func (NoopImportHooks) OnResolve(context.Context, string, string, string, error) {}
func (NoopImportHooks) OnAttempt(context.Context, string, string, string)        {}
func (NoopImportHooks) OnImportComplete(context.Context, string, string, string, int, string) {
}
func (NoopImportHooks) OnAttemptComplete(context.Context, string, string, string, time.Duration, error) {
}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, string, error)                 {}

// =============================================================================
// Global Hook Registry
// =============================================================================

type registry struct {
	imports ImportHooks
	cache   CacheHooks
	http    HTTPHooks
}

func defaults() registry {
	return registry{imports: NoopImportHooks{}, cache: NoopCacheHooks{}, http: NoopHTTPHooks{}}
}

var (
	mu    sync.RWMutex
	hooks = defaults()
)

func current() registry {
	mu.RLock()
	defer mu.RUnlock()
	return hooks
}

func update(fn func(*registry)) {
	mu.Lock()
	defer mu.Unlock()
	fn(&hooks)
}

// SetImportHooks registers import hooks. Nil is ignored.
func SetImportHooks(h ImportHooks) {
	if h != nil {
		update(func(r *registry) { r.imports = h })
	}
}

// SetCacheHooks registers cache hooks. Nil is ignored.
func SetCacheHooks(h CacheHooks) {
	if h != nil {
		update(func(r *registry) { r.cache = h })
	}
}

// SetHTTPHooks registers HTTP hooks. Nil is ignored.
func SetHTTPHooks(h HTTPHooks) {
	if h != nil {
		update(func(r *registry) { r.http = h })
	}
}

// Import returns the registered import hooks.
func Import() ImportHooks { return current().imports }

// Cache returns the registered cache hooks.
func Cache() CacheHooks { return current().cache }

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks { return current().http }

// Reset restores the no-op hooks. Tests that install hooks defer it.
func Reset() {
	update(func(r *registry) { *r = defaults() })
}
