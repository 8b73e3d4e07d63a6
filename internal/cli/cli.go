// Package cli implements the cdnfetch command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/matzehuels/cdnfetch/pkg/buildinfo"
	"github.com/matzehuels/cdnfetch/pkg/cache"
	"github.com/matzehuels/cdnfetch/pkg/config"
	"github.com/matzehuels/cdnfetch/pkg/deliver"
	"github.com/matzehuels/cdnfetch/pkg/importer"
	"github.com/matzehuels/cdnfetch/pkg/notify"
	"github.com/matzehuels/cdnfetch/pkg/provider"
	"github.com/matzehuels/cdnfetch/pkg/resolve"
	"github.com/matzehuels/cdnfetch/pkg/search"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "cdnfetch"

	// storeEnv overrides the default configuration store.
	storeEnv = "CDNFETCH_STORE"

	// cacheEnv overrides the default metadata cache.
	cacheEnv = "CDNFETCH_CACHE"

	// commandTableTimeout bounds the config load used to build the
	// per-provider commands.
	commandTableTimeout = 3 * time.Second
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	args       []string
	store      string
	cacheSpec  string
	noCache    bool
	legacy     bool
	attemptTTL time.Duration
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// SetArgs sets the arguments RootCommand scans for --store before the
// command tree exists. Without it os.Args is used.
func (c *CLI) SetArgs(args []string) {
	c.args = args
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "cdnfetch loads npm packages from public CDNs with automatic fallback",
		Long: `cdnfetch resolves an npm package to a concrete version and fetches it from the
first configured CDN that serves it, falling back through the provider list in
priority order.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			installHooks(c.Logger)
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&c.store, "store", os.Getenv(storeEnv), "config store: file path, redis:// or mongodb:// URL (env "+storeEnv+")")
	pf.StringVar(&c.cacheSpec, "cache", os.Getenv(cacheEnv), "metadata cache: file (default), memory, none or a redis:// URL (env "+cacheEnv+")")
	pf.BoolVar(&c.noCache, "no-cache", false, "disable the metadata cache")
	pf.BoolVar(&c.legacy, "legacy-parse", false, "use the historic specifier parser that rejects scoped names")
	pf.DurationVar(&c.attemptTTL, "attempt-timeout", 30*time.Second, "bound for each delivery attempt (0 disables)")

	root.AddCommand(c.importCommand())
	root.AddCommand(c.searchCommand())
	root.AddCommand(c.versionsCommand())
	root.AddCommand(c.providersCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.debugCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	args := c.args
	if args == nil && len(os.Args) > 1 {
		args = os.Args[1:]
	}
	c.addProviderCommands(root, c.commandTable(storeFromArgs(args, c.store)))

	return root
}

// storeFromArgs returns the --store value found in args, or def. Flags it
// does not know are skipped.
func storeFromArgs(args []string, def string) string {
	fs := pflag.NewFlagSet(appName, pflag.ContinueOnError)
	fs.ParseErrorsWhitelist.UnknownFlags = true
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}
	fs.BoolP("help", "h", false, "")
	store := fs.String("store", def, "")
	_ = fs.Parse(args)
	return *store
}

// commandTable builds the per-provider command table from the store at
// location. Any failure falls back to the built-in providers so the command
// tree can always be constructed.
func (c *CLI) commandTable(location string) provider.CommandTable {
	ctx, cancel := context.WithTimeout(context.Background(), commandTableTimeout)
	defer cancel()

	store, err := config.Open(ctx, location)
	if err != nil {
		return provider.Commands(provider.DefaultConfig())
	}
	defer store.Close()
	cfg, err := store.Load(ctx)
	if err != nil {
		return provider.Commands(provider.DefaultConfig())
	}
	return provider.Commands(cfg)
}

// =============================================================================
// Service Factories
// =============================================================================

// openConfig opens the configuration store selected by --store.
func (c *CLI) openConfig(ctx context.Context) (*config.Holder, error) {
	store, err := config.Open(ctx, c.store)
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("config store", "location", store.Location())
	h, err := config.NewHolder(ctx, store)
	if err != nil {
		store.Close()
		return nil, err
	}
	return h, nil
}

// newCache opens the metadata cache selected by --cache and --no-cache.
func (c *CLI) newCache(ctx context.Context) (cache.Cache, error) {
	spec := strings.TrimSpace(c.cacheSpec)
	switch {
	case c.noCache || spec == "none":
		return cache.NewNullCache(), nil
	case spec == "memory":
		return cache.NewMemoryCache(), nil
	case strings.HasPrefix(spec, "redis://"), strings.HasPrefix(spec, "rediss://"):
		return cache.NewRedisCache(ctx, spec, appName+":")
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// services bundles what an import or search needs for one command run.
type services struct {
	holder   *config.Holder
	cache    cache.Cache
	resolver *resolve.Resolver
}

func (c *CLI) openServices(ctx context.Context) (*services, error) {
	h, err := c.openConfig(ctx)
	if err != nil {
		return nil, err
	}
	backend, err := c.newCache(ctx)
	if err != nil {
		h.Store().Close()
		return nil, err
	}
	cfg := h.Get()
	return &services{
		holder:   h,
		cache:    backend,
		resolver: resolve.NewDefault(versionCache(cfg, backend), cfg.CacheTTL, c.Logger),
	}, nil
}

// versionCache is the backend version lookups use; it is bypassed when the
// loaded config turns caching off.
func versionCache(cfg *provider.Config, backend cache.Cache) cache.Cache {
	if cfg == nil || !cfg.CacheEnabled {
		return cache.NewNullCache()
	}
	return backend
}

func (s *services) Close() {
	s.cache.Close()
	s.holder.Store().Close()
}

func (c *CLI) newImporter(s *services, loader deliver.Loader, n notify.Notifier) *importer.Importer {
	return importer.New(loader, s.resolver, importer.Options{
		Config:         s.holder.Get,
		Notifier:       n,
		Logger:         c.Logger,
		AttemptTimeout: c.attemptTTL,
		LegacyParse:    c.legacy,
	})
}

func (c *CLI) newSearch(s *services) *search.Service {
	return search.New(search.Options{
		Config: s.holder.Get,
		Cache:  s.cache,
		Logger: c.Logger,
	})
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/cdnfetch/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
