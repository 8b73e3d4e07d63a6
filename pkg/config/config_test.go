package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/cdnfetch/pkg/errors"
	"github.com/matzehuels/cdnfetch/pkg/provider"
)

func TestFileStoreMissingFile(t *testing.T) {
	s, err := NewFileStore(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatal(err)
	}
	cfg, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(cfg.Providers) != len(provider.BuiltinProviders()) {
		t.Errorf("providers = %d, want built-in list", len(cfg.Providers))
	}
	if !cfg.AutoFallback || !cfg.ShowNotifications {
		t.Errorf("defaults not applied: %+v", cfg)
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	for _, name := range []string{"config.toml", "config.yaml", "config.yml"} {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			path := filepath.Join(t.TempDir(), "nested", name)
			s, _ := NewFileStore(path)

			cfg := provider.DefaultConfig()
			cfg.AutoFallback = false
			cfg.CacheTTL = 90 * time.Second
			if err := cfg.SetEnabled("unpkg", false); err != nil {
				t.Fatal(err)
			}
			if _, err := cfg.AddCustom(provider.Definition{
				ID: "mirror", Name: "Mirror", JSTemplate: "https://mirror.example/{package}@{version}",
				VersionsAPI: "https://mirror.example/api/{package}", VersionsPath: "$.versions[*]",
			}); err != nil {
				t.Fatal(err)
			}

			if err := s.Save(ctx, cfg); err != nil {
				t.Fatalf("Save() error: %v", err)
			}
			got, err := s.Load(ctx)
			if err != nil {
				t.Fatalf("Load() error: %v", err)
			}

			if got.AutoFallback {
				t.Error("AutoFallback not persisted")
			}
			if got.CacheTTL != 90*time.Second {
				t.Errorf("CacheTTL = %v", got.CacheTTL)
			}
			if len(got.Providers) != len(cfg.Providers) {
				t.Fatalf("providers = %d, want %d", len(got.Providers), len(cfg.Providers))
			}
			if p, _ := provider.Find(got.Providers, "unpkg"); p.Enabled {
				t.Error("unpkg should be disabled")
			}
			if p, ok := provider.Find(got.Providers, "mirror"); !ok || p.VersionsPath != "$.versions[*]" {
				t.Errorf("custom provider = %+v", p)
			}
		})
	}
}

func TestFileStorePartialFile(t *testing.T) {
	tests := []struct {
		name string
		file string
		body string
	}{
		{"toml", "config.toml", "auto_fallback = false\n"},
		{"yaml", "config.yaml", "auto_fallback: false\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.file)
			if err := os.WriteFile(path, []byte(tt.body), 0o644); err != nil {
				t.Fatal(err)
			}
			s, _ := NewFileStore(path)
			cfg, err := s.Load(context.Background())
			if err != nil {
				t.Fatal(err)
			}
			if cfg.AutoFallback {
				t.Error("AutoFallback = true, want value from file")
			}
			if !cfg.ShowNotifications {
				t.Error("ShowNotifications lost its default")
			}
			if len(cfg.Providers) == 0 {
				t.Error("missing providers not filled from defaults")
			}
			if cfg.CacheTTL != provider.DefaultCacheTTL {
				t.Errorf("CacheTTL = %v", cfg.CacheTTL)
			}
		})
	}
}

func TestFileStoreInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	os.WriteFile(path, []byte("auto_fallback = = nope"), 0o644)
	s, _ := NewFileStore(path)
	_, err := s.Load(context.Background())
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("Load() error = %v, want INVALID_CONFIG", err)
	}
}

func TestDefaultPath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)
	p, err := DefaultPath()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(p, filepath.Join("cdnfetch", "config.toml")) {
		t.Errorf("DefaultPath() = %q", p)
	}
}

func TestScheme(t *testing.T) {
	tests := map[string]string{
		"":                           "",
		"/etc/cdnfetch/config.toml":  "",
		"redis://localhost:6379/0":   "redis",
		"REDISS://cache:6380":        "rediss",
		"mongodb://db/cdnfetch":      "mongodb",
		"mongodb+srv://cluster/x":    "mongodb+srv",
		"file:///tmp/config.yaml":    "file",
		"C:\\Users\\me\\config.toml": "",
	}
	for in, want := range tests {
		if got := scheme(in); got != want {
			t.Errorf("scheme(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.yaml")
	s, err := Open(context.Background(), "file://"+path)
	if err != nil {
		t.Fatal(err)
	}
	if s.Location() != path {
		t.Errorf("Location() = %q, want %q", s.Location(), path)
	}
	if _, err := Open(context.Background(), "ftp://nowhere"); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("Open(ftp) error = %v", err)
	}
}

func TestDatabaseFromURI(t *testing.T) {
	tests := map[string]string{
		"mongodb://localhost:27017":          "cdnfetch",
		"mongodb://localhost:27017/":         "cdnfetch",
		"mongodb://localhost:27017/settings": "settings",
		"mongodb+srv://u:p@cluster/prod?w=1": "prod",
	}
	for in, want := range tests {
		if got := databaseFromURI(in); got != want {
			t.Errorf("databaseFromURI(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestHolderUpdate(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(nil)
	h, err := NewHolder(ctx, store)
	if err != nil {
		t.Fatal(err)
	}

	if err := h.Update(ctx, func(c *provider.Config) error { return c.SetEnabled("unpkg", false) }); err != nil {
		t.Fatalf("Update() error: %v", err)
	}
	if p, _ := provider.Find(h.Get().Providers, "unpkg"); p.Enabled {
		t.Error("edit not visible through Get")
	}
	saved, _ := store.Load(ctx)
	if p, _ := provider.Find(saved.Providers, "unpkg"); p.Enabled {
		t.Error("edit not saved")
	}
}

func TestHolderRejectsInvalidEdit(t *testing.T) {
	ctx := context.Background()
	h, _ := NewHolder(ctx, NewMemoryStore(nil))
	before := h.Get()

	err := h.Update(ctx, func(c *provider.Config) error {
		c.Providers = append(c.Providers, provider.Definition{ID: "jsdelivr", Name: "dup", JSTemplate: "https://x/{package}"})
		return nil
	})
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Fatalf("Update() error = %v, want INVALID_CONFIG", err)
	}
	if h.Get() != before {
		t.Error("failed edit replaced the configuration")
	}
	if len(before.Providers) != len(provider.BuiltinProviders()) {
		t.Error("failed edit mutated the live configuration")
	}
}

func TestHolderKeepsOneEnabled(t *testing.T) {
	ctx := context.Background()
	cfg := provider.DefaultConfig()
	for _, p := range cfg.Providers[1:] {
		cfg.SetEnabled(p.ID, false)
	}
	h, _ := NewHolder(ctx, NewMemoryStore(cfg))

	err := h.Update(ctx, func(c *provider.Config) error { return c.Toggle("jsdelivr") })
	if err == nil {
		t.Fatal("disabling the last enabled provider succeeded")
	}
	if p, _ := provider.Find(h.Get().Providers, "jsdelivr"); !p.Enabled {
		t.Error("last provider was disabled")
	}
}

func TestMemoryStoreEmptyProviders(t *testing.T) {
	cfg := provider.DefaultConfig()
	cfg.Providers = nil
	s := NewMemoryStore(cfg)
	got, _ := s.Load(context.Background())
	if len(got.Providers) == 0 {
		t.Error("empty provider list not replaced by defaults")
	}
}
