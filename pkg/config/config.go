// Package config loads and saves the provider configuration.
//
// Three backends implement [Store]:
//   - [FileStore]: a TOML or YAML file, chosen by extension
//   - [RedisStore]: a JSON value under [StorageKey]
//   - [MongoStore]: a document with _id [StorageKey]
//
// Every backend answers a missing configuration with the built-in defaults,
// and a stored configuration without providers gets the built-in provider
// list. [Open] picks a backend from a location string, and [Holder] keeps
// the live configuration for long-running processes.
package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/cdnfetch/pkg/errors"
	"github.com/matzehuels/cdnfetch/pkg/provider"
)

// StorageKey names the configuration in key-value and document stores.
const StorageKey = "consoleImporterConfig"

// Store persists a provider configuration.
type Store interface {
	// Load returns the stored configuration, or the defaults when none is
	// stored yet.
	Load(ctx context.Context) (*provider.Config, error)

	// Save replaces the stored configuration.
	Save(ctx context.Context, cfg *provider.Config) error

	// Location describes where the configuration lives.
	Location() string

	Close() error
}

// DefaultPath returns $XDG_CONFIG_HOME/cdnfetch/config.toml, or the
// platform equivalent.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidConfig, err, "locate config directory")
	}
	return filepath.Join(dir, "cdnfetch", "config.toml"), nil
}

// Open returns the store for location:
//
//	""                          default config file
//	redis://host:6379/0         RedisStore
//	mongodb://host/db           MongoStore (database from the path, default "cdnfetch")
//	file:///path/config.yaml    FileStore
//	/path/config.toml           FileStore
func Open(ctx context.Context, location string) (Store, error) {
	switch scheme(location) {
	case "redis", "rediss":
		return NewRedisStore(ctx, location)
	case "mongodb", "mongodb+srv":
		return NewMongoStore(ctx, location, "")
	case "file":
		return NewFileStore(strings.TrimPrefix(location, "file://"))
	case "":
		return NewFileStore(location)
	default:
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unsupported config store %q", location)
	}
}

func scheme(location string) string {
	i := strings.Index(location, "://")
	if i <= 0 {
		return ""
	}
	return strings.ToLower(location[:i])
}

// normalize fills what an older or hand-written configuration may lack.
func normalize(cfg *provider.Config) *provider.Config {
	if cfg == nil {
		return provider.DefaultConfig()
	}
	if len(cfg.Providers) == 0 {
		cfg.Providers = provider.BuiltinProviders()
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = provider.DefaultCacheTTL
	}
	if cfg.DefaultProvider == "" {
		cfg.DefaultProvider = cfg.Providers[0].ID
	}
	return cfg
}
