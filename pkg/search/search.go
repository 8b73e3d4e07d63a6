// Package search answers "what is this package and which versions exist"
// from the metadata endpoints of the configured CDNs.
//
// Results are cached per normalized query for the configured TTL (five
// minutes by default). Empty results are cached as well, so a package
// unknown to every CDN is not re-queried on each keystroke.
package search

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/cdnfetch/pkg/cache"
	"github.com/matzehuels/cdnfetch/pkg/errors"
	"github.com/matzehuels/cdnfetch/pkg/integrations"
	"github.com/matzehuels/cdnfetch/pkg/integrations/bootcdn"
	"github.com/matzehuels/cdnfetch/pkg/integrations/jsdelivr"
	"github.com/matzehuels/cdnfetch/pkg/integrations/jsonapi"
	"github.com/matzehuels/cdnfetch/pkg/integrations/npms"
	"github.com/matzehuels/cdnfetch/pkg/observability"
	"github.com/matzehuels/cdnfetch/pkg/provider"
)

// Fetcher retrieves a metadata body. *integrations.Client satisfies it.
type Fetcher interface {
	GetRaw(ctx context.Context, url string) ([]byte, error)
}

// Registry performs ranked package search. *npms.Client satisfies it.
type Registry interface {
	Search(ctx context.Context, query string, size int) ([]integrations.PackageInfo, error)
}

// Options configures a Service.
type Options struct {
	// Config returns the current provider configuration, read once per
	// call. Nil uses provider.DefaultConfig().
	Config func() *provider.Config

	// Cache stores results. Nil uses a fresh MemoryCache.
	Cache cache.Cache

	// Keyer names cache entries. Nil uses cache.NewDefaultKeyer().
	Keyer cache.Keyer

	// Fetcher and Registry default to live clients without their own
	// response cache.
	Fetcher  Fetcher
	Registry Registry

	// Concurrency bounds the provider fan-out of Search. Zero means 4.
	Concurrency int

	Logger *log.Logger
}

// Service is the search and versions query service.
type Service struct {
	config   func() *provider.Config
	cache    cache.Cache
	keyer    cache.Keyer
	fetcher  Fetcher
	registry Registry
	limit    int
	logger   *log.Logger
}

// New creates a Service.
func New(opts Options) *Service {
	s := &Service{
		config:   opts.Config,
		cache:    opts.Cache,
		keyer:    opts.Keyer,
		fetcher:  opts.Fetcher,
		registry: opts.Registry,
		limit:    opts.Concurrency,
		logger:   opts.Logger,
	}
	if s.config == nil {
		s.config = provider.DefaultConfig
	}
	if s.cache == nil {
		s.cache = cache.NewMemoryCache()
	}
	if s.keyer == nil {
		s.keyer = cache.NewDefaultKeyer()
	}
	if s.fetcher == nil {
		s.fetcher = integrations.NewClient(nil, "search:", 0, nil)
	}
	if s.registry == nil {
		s.registry = npms.NewClient(nil, 0)
	}
	if s.limit <= 0 {
		s.limit = 4
	}
	if s.logger == nil {
		s.logger = log.Default()
	}
	return s
}

// Search queries every enabled provider that has a search endpoint and
// returns one hit per provider that knows the package, in provider order.
// Provider failures are logged and skipped; Search itself fails only for
// an empty query.
func (s *Service) Search(ctx context.Context, query string) ([]integrations.PackageInfo, error) {
	name := strings.TrimSpace(query)
	if name == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "search query cannot be empty")
	}

	cfg := s.current()
	key := s.keyer.SearchKey(name)
	var hits []integrations.PackageInfo
	if s.lookup(ctx, cfg, "search", key, &hits) {
		return hits, nil
	}

	var candidates []provider.Definition
	for _, p := range provider.Enabled(cfg) {
		if p.SearchAPI != "" {
			candidates = append(candidates, p)
		}
	}

	slots := make([]*integrations.PackageInfo, len(candidates))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.limit)
	for i, p := range candidates {
		g.Go(func() error {
			hit, err := s.searchProvider(gctx, p, name)
			if err != nil {
				s.logger.Warn("search failed", "provider", p.Name, "err", err)
				return nil
			}
			slots[i] = hit
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	hits = make([]integrations.PackageInfo, 0, len(slots))
	for _, h := range slots {
		if h != nil {
			hits = append(hits, *h)
		}
	}
	s.store(ctx, cfg, "search", key, hits)
	return hits, nil
}

// Versions returns the version list of the first enabled provider, in
// priority order, that has a versions endpoint and reports at least one
// version. An unknown package yields an empty list.
func (s *Service) Versions(ctx context.Context, name string) ([]string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "package name cannot be empty")
	}

	cfg := s.current()
	key := s.keyer.VersionsKey(name)
	var versions []string
	if s.lookup(ctx, cfg, "versions", key, &versions) {
		return versions, nil
	}

	versions = []string{}
	for _, p := range provider.Enabled(cfg) {
		if p.VersionsAPI == "" {
			continue
		}
		v, err := s.versionsProvider(ctx, p, name)
		if err != nil {
			s.logger.Warn("version fetch failed", "provider", p.Name, "err", err)
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			continue
		}
		if len(v) > 0 {
			versions = v
			break
		}
	}
	s.store(ctx, cfg, "versions", key, versions)
	return versions, nil
}

// Registry runs a ranked npm registry search. Scores are integer
// percentages.
func (s *Service) Registry(ctx context.Context, query string) ([]integrations.PackageInfo, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "search query cannot be empty")
	}

	cfg := s.current()
	key := s.keyer.RegistryKey(query)
	var hits []integrations.PackageInfo
	if s.lookup(ctx, cfg, "registry", key, &hits) {
		return hits, nil
	}

	hits, err := s.registry.Search(ctx, query, npms.DefaultSize)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "registry search for %q failed", query)
	}
	if hits == nil {
		hits = []integrations.PackageInfo{}
	}
	s.store(ctx, cfg, "registry", key, hits)
	return hits, nil
}

// Invalidate drops every cached result.
func (s *Service) Invalidate(ctx context.Context) error {
	return s.cache.Flush(ctx)
}

func (s *Service) current() *provider.Config {
	if cfg := s.config(); cfg != nil {
		return cfg
	}
	return provider.DefaultConfig()
}

func (s *Service) ttl(cfg *provider.Config) time.Duration {
	if cfg.CacheTTL > 0 {
		return cfg.CacheTTL
	}
	return provider.DefaultCacheTTL
}

func (s *Service) lookup(ctx context.Context, cfg *provider.Config, kind, key string, v any) bool {
	if !cfg.CacheEnabled {
		return false
	}
	if err := cache.GetJSON(ctx, s.cache, key, v); err != nil {
		observability.Cache().OnCacheMiss(ctx, kind)
		return false
	}
	observability.Cache().OnCacheHit(ctx, kind)
	return true
}

func (s *Service) store(ctx context.Context, cfg *provider.Config, kind, key string, v any) {
	if !cfg.CacheEnabled {
		return
	}
	data, err := json.Marshal(v)
	if err == nil {
		err = s.cache.Set(ctx, key, data, s.ttl(cfg))
	}
	if err != nil {
		s.logger.Debug("cache store failed", "key", key, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, kind, len(data))
}

func (s *Service) searchProvider(ctx context.Context, p provider.Definition, name string) (*integrations.PackageInfo, error) {
	parse := searchParser(p)
	if parse == nil {
		return nil, nil
	}
	raw, err := s.fetcher.GetRaw(ctx, endpoint(p.SearchAPI, name))
	if err != nil {
		return nil, err
	}
	return parse(raw, name)
}

func (s *Service) versionsProvider(ctx context.Context, p provider.Definition, name string) ([]string, error) {
	parse := versionsParser(p)
	if parse == nil {
		return nil, nil
	}
	raw, err := s.fetcher.GetRaw(ctx, endpoint(p.VersionsAPI, name))
	if err != nil {
		return nil, err
	}
	return parse(raw)
}

func searchParser(p provider.Definition) func([]byte, string) (*integrations.PackageInfo, error) {
	switch {
	case p.ID == jsdelivr.ID:
		return jsdelivr.ParseSearch
	case p.ID == bootcdn.ID:
		return bootcdn.ParseSearch
	case p.SearchPath != "":
		return func(raw []byte, name string) (*integrations.PackageInfo, error) {
			return jsonapi.ParseSearch(raw, name, p.ID, p.SearchPath)
		}
	default:
		return nil
	}
}

func versionsParser(p provider.Definition) func([]byte) ([]string, error) {
	switch {
	case p.ID == jsdelivr.ID:
		return jsdelivr.ParseVersions
	case p.ID == bootcdn.ID:
		return bootcdn.ParseVersions
	case p.VersionsPath != "":
		return func(raw []byte) ([]string, error) {
			return jsonapi.ParseVersions(raw, p.VersionsPath)
		}
	default:
		return nil
	}
}

// endpoint substitutes every {package} placeholder of an API template.
func endpoint(api, name string) string {
	return strings.ReplaceAll(api, "{package}", name)
}
