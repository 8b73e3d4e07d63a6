package config

import (
	"context"
	"sync"

	"github.com/matzehuels/cdnfetch/pkg/provider"
)

// MemoryStore keeps the configuration in process. The bridge uses it when
// started without a store, and tests use it everywhere.
type MemoryStore struct {
	mu  sync.Mutex
	cfg *provider.Config
}

// NewMemoryStore creates a store holding cfg; nil starts empty.
func NewMemoryStore(cfg *provider.Config) *MemoryStore {
	s := &MemoryStore{}
	if cfg != nil {
		s.cfg = cfg.Clone()
	}
	return s
}

// Location returns "memory".
func (s *MemoryStore) Location() string { return "memory" }

// Load returns a copy of the stored configuration.
func (s *MemoryStore) Load(ctx context.Context) (*provider.Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cfg == nil {
		return provider.DefaultConfig(), nil
	}
	return normalize(s.cfg.Clone()), nil
}

// Save stores a copy of cfg.
func (s *MemoryStore) Save(ctx context.Context, cfg *provider.Config) error {
	s.mu.Lock()
	s.cfg = cfg.Clone()
	s.mu.Unlock()
	return nil
}

// Close is a no-op.
func (s *MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)
