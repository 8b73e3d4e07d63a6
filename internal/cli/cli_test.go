package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/cdnfetch/pkg/cache"
	"github.com/matzehuels/cdnfetch/pkg/config"
	"github.com/matzehuels/cdnfetch/pkg/integrations"
	"github.com/matzehuels/cdnfetch/pkg/provider"
)

// testCLI returns a CLI whose config lives in a temporary TOML file and
// whose cache is disabled.
func testCLI(t *testing.T) (*CLI, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	t.Setenv(storeEnv, path)
	t.Setenv(cacheEnv, "none")
	return New(&bytes.Buffer{}, LogInfo), path
}

func execute(t *testing.T, c *CLI, args ...string) error {
	t.Helper()
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	return root.ExecuteContext(context.Background())
}

func loadConfig(t *testing.T, path string) *provider.Config {
	t.Helper()
	store, err := config.NewFileStore(path)
	if err != nil {
		t.Fatal(err)
	}
	cfg, err := store.Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	return cfg
}

func TestImportFlagsKind(t *testing.T) {
	tests := []struct {
		flags importFlags
		want  provider.AssetKind
	}{
		{importFlags{}, provider.Script},
		{importFlags{css: true}, provider.Stylesheet},
		{importFlags{esm: true}, provider.Module},
	}
	for _, tt := range tests {
		if got := tt.flags.kind(); got != tt.want {
			t.Errorf("%+v.kind() = %v, want %v", tt.flags, got, tt.want)
		}
	}
}

func TestImportFlagsNoSave(t *testing.T) {
	loader, err := (&importFlags{noSave: true}).loader()
	if err != nil {
		t.Fatal(err)
	}
	if loader == nil {
		t.Fatal("loader() returned nil")
	}
}

func TestProviderCommands(t *testing.T) {
	c, _ := testCLI(t)
	root := c.RootCommand()

	byName := map[string]*cobra.Command{}
	for _, sub := range root.Commands() {
		byName[sub.Name()] = sub
	}

	esm, ok := byName["esmsh"]
	if !ok {
		t.Fatal("no command for esm.sh")
	}
	if esm.GroupID != cdnGroup {
		t.Errorf("esmsh group = %q, want %q", esm.GroupID, cdnGroup)
	}
	if esm.Flags().Lookup("esm") == nil {
		t.Error("esmsh should accept --esm")
	}

	if boot, ok := byName["bootcdn"]; ok && boot.Flags().Lookup("esm") != nil {
		t.Error("bootcdn must not offer --esm")
	}
}

func TestProviderCommandShadowed(t *testing.T) {
	cfg := provider.DefaultConfig()
	if _, err := cfg.AddCustom(provider.Definition{Name: "Search", JSTemplate: "https://s.example/{package}"}); err != nil {
		t.Fatal(err)
	}

	c := New(&bytes.Buffer{}, LogInfo)
	root := &cobra.Command{Use: appName}
	root.AddCommand(c.searchCommand())
	c.addProviderCommands(root, provider.Commands(cfg))

	n := 0
	for _, sub := range root.Commands() {
		if sub.Name() == "search" {
			n++
			if sub.GroupID == cdnGroup {
				t.Error("built-in search replaced by a provider command")
			}
		}
	}
	if n != 1 {
		t.Errorf("found %d search commands, want 1", n)
	}
}

func TestProvidersEditCommands(t *testing.T) {
	c, path := testCLI(t)

	if err := execute(t, c, "providers", "disable", "unpkg"); err != nil {
		t.Fatalf("disable: %v", err)
	}
	if err := execute(t, c, "providers", "move", "bootcdn", "up"); err != nil {
		t.Fatalf("move: %v", err)
	}
	if err := execute(t, c, "providers", "add", "My Mirror", "https://mirror.example/npm/{package}@{version}", "--id", "mirror"); err != nil {
		t.Fatalf("add: %v", err)
	}

	cfg := loadConfig(t, path)
	unpkg, _ := provider.Find(cfg.Providers, "unpkg")
	if unpkg.Enabled {
		t.Error("unpkg still enabled")
	}
	mirror, ok := provider.Find(cfg.Providers, "mirror")
	if !ok || mirror.Priority != len(cfg.Providers) || mirror.SupportESM {
		t.Errorf("mirror = %+v", mirror)
	}

	if err := execute(t, c, "providers", "add", "Broken", "ftp://x/{package}"); err == nil {
		t.Error("add with a non-http template succeeded")
	}
	if err := execute(t, c, "providers", "move", "mirror", "sideways"); err == nil {
		t.Error("move with a bad direction succeeded")
	}
	if err := execute(t, c, "providers", "remove", "mirror"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, ok := provider.Find(loadConfig(t, path).Providers, "mirror"); ok {
		t.Error("mirror not removed")
	}
}

func TestConfigSetCommand(t *testing.T) {
	c, path := testCLI(t)

	if err := execute(t, c, "config", "set", "auto-fallback", "false"); err != nil {
		t.Fatal(err)
	}
	if err := execute(t, c, "config", "set", "cache-ttl", "90"); err != nil {
		t.Fatal(err)
	}
	cfg := loadConfig(t, path)
	if cfg.AutoFallback {
		t.Error("auto-fallback not stored")
	}
	if cfg.CacheTTL != 90*time.Second {
		t.Errorf("CacheTTL = %v, want 90s", cfg.CacheTTL)
	}

	if err := execute(t, c, "config", "reset"); err != nil {
		t.Fatal(err)
	}
	if !loadConfig(t, path).AutoFallback {
		t.Error("reset did not restore auto-fallback")
	}
}

func TestApplySetting(t *testing.T) {
	tests := []struct {
		key, value string
		wantErr    bool
	}{
		{"notifications", "false", false},
		{"cache", "true", false},
		{"cache", "maybe", true},
		{"cache-ttl", "10m", false},
		{"cache-ttl", "-1s", true},
		{"default-provider", "esm.sh", false},
		{"default-provider", "nowhere", true},
		{"colour", "blue", true},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			err := applySetting(provider.DefaultConfig(), tt.key, tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("applySetting() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	long := strings.Repeat("a", 60)
	if got := truncate(long, 50); got != strings.Repeat("a", 50)+"..." {
		t.Errorf("truncate(60 chars) = %q", got)
	}
	if got := truncate("  short  ", 50); got != "short" {
		t.Errorf("truncate(short) = %q", got)
	}
}

func TestProviderCommandFromStoreFlag(t *testing.T) {
	t.Setenv(storeEnv, "")
	t.Setenv(cacheEnv, "none")
	path := filepath.Join(t.TempDir(), "custom.toml")

	cfg := provider.DefaultConfig()
	if _, err := cfg.AddCustom(provider.Definition{Name: "My CDN", JSTemplate: "https://my.example/{package}@{version}"}); err != nil {
		t.Fatal(err)
	}
	store, err := config.NewFileStore(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Save(context.Background(), cfg); err != nil {
		t.Fatal(err)
	}

	c := New(&bytes.Buffer{}, LogInfo)
	c.SetArgs([]string{"--no-cache", "--store", path, "mycdn", "lodash@1.0.0"})
	root := c.RootCommand()

	cmd, _, err := root.Find([]string{"mycdn"})
	if err != nil || cmd.Name() != "mycdn" {
		t.Fatalf("mycdn not registered from --store: cmd=%v err=%v", cmd, err)
	}
}

func TestStoreFromArgs(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"default", []string{"import", "lodash"}, "env.toml"},
		{"separate value", []string{"--store", "a.toml", "mycdn", "x"}, "a.toml"},
		{"equals", []string{"--store=redis://h:6379", "search", "vue"}, "redis://h:6379"},
		{"after unknown flags", []string{"--cache", "none", "-v", "--store", "b.yaml", "debug"}, "b.yaml"},
		{"help", []string{"--help", "--store", "c.toml"}, "c.toml"},
		{"nil", nil, "env.toml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := storeFromArgs(tt.args, "env.toml"); got != tt.want {
				t.Errorf("storeFromArgs(%v) = %q, want %q", tt.args, got, tt.want)
			}
		})
	}
}

func TestVersionCache(t *testing.T) {
	backend := cache.NewMemoryCache()

	on := provider.DefaultConfig()
	on.CacheEnabled = true
	if got := versionCache(on, backend); got != cache.Cache(backend) {
		t.Errorf("cache enabled: got %T, want the shared backend", got)
	}

	off := provider.DefaultConfig()
	off.CacheEnabled = false
	if _, ok := versionCache(off, backend).(cache.NullCache); !ok {
		t.Errorf("cache disabled: got %T, want NullCache", versionCache(off, backend))
	}
}

func TestProvidersTable(t *testing.T) {
	out := providersTable(provider.BuiltinProviders())
	for _, want := range []string{"jsdelivr", "esm.sh", "esmsh", "BootCDN"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q", want)
		}
	}
}

func TestPackageListModel(t *testing.T) {
	pkgs := []integrations.PackageInfo{
		{Name: "lodash", Version: "4.17.21", Score: 98},
		{Name: "lodash-es", Version: "4.17.21"},
		{Name: "lodash.get", Version: "4.4.2"},
	}
	var m tea.Model = NewPackageListModel(pkgs)

	keys := []tea.KeyMsg{
		{Type: tea.KeyDown},
		{Type: tea.KeyDown},
		{Type: tea.KeyDown},
		{Type: tea.KeyUp},
	}
	for _, k := range keys {
		m, _ = m.Update(k)
	}
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Error("enter should quit the program")
	}

	got := m.(PackageListModel)
	if got.Selected == nil || got.Selected.Name != "lodash-es" {
		t.Errorf("Selected = %+v, want lodash-es", got.Selected)
	}
	if !strings.Contains(got.View(), "lodash.get") {
		t.Error("view does not list all packages")
	}
}
