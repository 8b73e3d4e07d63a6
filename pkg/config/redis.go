package config

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/redis/go-redis/v9"

	cerrors "github.com/matzehuels/cdnfetch/pkg/errors"
	"github.com/matzehuels/cdnfetch/pkg/provider"
)

// RedisStore keeps the configuration as JSON under [StorageKey], the same
// shape the browser extension stores.
type RedisStore struct {
	client redis.UniversalClient
	key    string
}

// NewRedisStore connects to the Redis server at url and pings it.
func NewRedisStore(ctx context.Context, url string) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, cerrors.Wrap(cerrors.ErrCodeInvalidConfig, err, "parse redis url")
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, cerrors.Wrap(cerrors.ErrCodeNetwork, err, "connect to redis")
	}
	return NewRedisStoreFromClient(client), nil
}

// NewRedisStoreFromClient wraps an existing client.
func NewRedisStoreFromClient(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client, key: StorageKey}
}

// Location returns the storage key.
func (s *RedisStore) Location() string { return "redis:" + s.key }

// Load reads the configuration.
func (s *RedisStore) Load(ctx context.Context) (*provider.Config, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return provider.DefaultConfig(), nil
	}
	if err != nil {
		return nil, cerrors.Wrap(cerrors.ErrCodeNetwork, err, "redis get %s", s.key)
	}

	cfg := provider.DefaultConfig()
	cfg.Providers = nil
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, cerrors.Wrap(cerrors.ErrCodeInvalidConfig, err, "decode %s", s.key)
	}
	return normalize(cfg), nil
}

// Save writes the configuration without expiry.
func (s *RedisStore) Save(ctx context.Context, cfg *provider.Config) error {
	data, err := json.Marshal(cfg)
	if err != nil {
		return cerrors.Wrap(cerrors.ErrCodeInternal, err, "encode config")
	}
	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return cerrors.Wrap(cerrors.ErrCodeNetwork, err, "redis set %s", s.key)
	}
	return nil
}

// Close closes the client.
func (s *RedisStore) Close() error { return s.client.Close() }

var _ Store = (*RedisStore)(nil)
