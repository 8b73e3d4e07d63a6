package config

import (
	"context"
	"sync"

	"github.com/matzehuels/cdnfetch/pkg/provider"
)

// Holder keeps the live configuration of a process and writes edits
// through to its store. Readers always see a complete configuration; edits
// are applied to a copy and swapped in only after they validate and save.
type Holder struct {
	mu    sync.RWMutex
	store Store
	cfg   *provider.Config
}

// NewHolder loads the configuration from store.
func NewHolder(ctx context.Context, store Store) (*Holder, error) {
	cfg, err := store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return &Holder{store: store, cfg: cfg}, nil
}

// Get returns the current configuration. Callers must not modify it.
func (h *Holder) Get() *provider.Config {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.cfg
}

// Update applies edit to a copy of the configuration, validates and saves
// the result, and then makes it current.
func (h *Holder) Update(ctx context.Context, edit func(*provider.Config) error) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	next := h.cfg.Clone()
	if err := edit(next); err != nil {
		return err
	}
	if err := next.Validate(); err != nil {
		return err
	}
	if err := h.store.Save(ctx, next); err != nil {
		return err
	}
	h.cfg = next
	return nil
}

// Reload re-reads the store.
func (h *Holder) Reload(ctx context.Context) error {
	cfg, err := h.store.Load(ctx)
	if err != nil {
		return err
	}
	h.mu.Lock()
	h.cfg = cfg
	h.mu.Unlock()
	return nil
}

// Store returns the underlying store.
func (h *Holder) Store() Store { return h.store }
