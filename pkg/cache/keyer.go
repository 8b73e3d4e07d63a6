package cache

import "strings"

// Keyer generates cache keys for the different kinds of cached data.
type Keyer interface {
	// HTTPKey generates a key for a raw registry response.
	HTTPKey(namespace, key string) string

	// SearchKey generates a key for aggregated provider search results.
	SearchKey(query string) string

	// VersionsKey generates a key for a version listing.
	VersionsKey(name string) string

	// RegistryKey generates a key for ranked registry search results.
	RegistryKey(query string) string
}

// DefaultKeyer produces keys of the form "<kind>:<value>".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// HTTPKey generates a key for HTTP response caching.
func (DefaultKeyer) HTTPKey(namespace, key string) string {
	return "http:" + namespace + ":" + key
}

// SearchKey generates a key for search results. Queries are trimmed and
// lower-cased so "React" and "react " share an entry.
func (DefaultKeyer) SearchKey(query string) string {
	return "search:" + normalize(query)
}

// VersionsKey generates a key for version listings.
func (DefaultKeyer) VersionsKey(name string) string {
	return "versions:" + normalize(name)
}

// RegistryKey generates a key for registry search results.
func (DefaultKeyer) RegistryKey(query string) string {
	return "registry:" + normalize(query)
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// ScopedKeyer wraps a Keyer with a prefix, isolating caches that share a
// backend (for example one Redis instance behind several bridges).
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// HTTPKey generates a prefixed key for HTTP response caching.
func (k *ScopedKeyer) HTTPKey(namespace, key string) string {
	return k.prefix + k.inner.HTTPKey(namespace, key)
}

// SearchKey generates a prefixed key for search results.
func (k *ScopedKeyer) SearchKey(query string) string {
	return k.prefix + k.inner.SearchKey(query)
}

// VersionsKey generates a prefixed key for version listings.
func (k *ScopedKeyer) VersionsKey(name string) string {
	return k.prefix + k.inner.VersionsKey(name)
}

// RegistryKey generates a prefixed key for registry search results.
func (k *ScopedKeyer) RegistryKey(query string) string {
	return k.prefix + k.inner.RegistryKey(query)
}
