// Package resolve turns an unpinned version request into a concrete version.
//
// A request for "" or "latest" asks each [Source] in turn for the package's
// version list and takes the newest entry. When no source can answer the
// resolver returns "latest" unchanged and lets the CDN's own alias decide.
// Resolution never fails from the caller's point of view.
package resolve

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/cdnfetch/pkg/cache"
	"github.com/matzehuels/cdnfetch/pkg/errors"
	"github.com/matzehuels/cdnfetch/pkg/integrations/jsdelivr"
	"github.com/matzehuels/cdnfetch/pkg/integrations/npm"
	"github.com/matzehuels/cdnfetch/pkg/observability"
	"github.com/matzehuels/cdnfetch/pkg/pkgspec"
)

// Source lists the published versions of a package, newest first.
type Source interface {
	Name() string
	Versions(ctx context.Context, name string) ([]string, error)
}

// SourceFunc adapts a function to [Source].
type SourceFunc struct {
	Label string
	Fn    func(ctx context.Context, name string) ([]string, error)
}

// Name returns the label.
func (f SourceFunc) Name() string { return f.Label }

// Versions calls Fn.
func (f SourceFunc) Versions(ctx context.Context, name string) ([]string, error) {
	return f.Fn(ctx, name)
}

// Resolver queries its sources in order.
type Resolver struct {
	sources []Source
	logger  *log.Logger
}

// New creates a resolver over sources. A nil logger uses log.Default().
func New(logger *log.Logger, sources ...Source) *Resolver {
	if logger == nil {
		logger = log.Default()
	}
	return &Resolver{sources: sources, logger: logger}
}

// NewDefault creates the standard resolver: the jsDelivr data API first,
// the npm registry second. Responses are cached in backend for ttl.
func NewDefault(backend cache.Cache, ttl time.Duration, logger *log.Logger) *Resolver {
	return New(logger,
		jsdelivr.NewClient(backend, ttl),
		npm.NewClient(backend, ttl),
	)
}

// Resolve returns requested unchanged unless it is empty or "latest"; in
// that case it returns the newest version reported by the first source
// with a non-empty answer, or "latest" when none has one.
func (r *Resolver) Resolve(ctx context.Context, name, requested string) string {
	if !IsUnpinned(requested) {
		return requested
	}

	var lastErr error
	for _, src := range r.sources {
		versions, err := src.Versions(ctx, name)
		if err != nil {
			lastErr = err
			r.logger.Debug("version source failed", "source", src.Name(), "package", name, "error", err)
			if ctx.Err() != nil {
				break
			}
			continue
		}
		if len(versions) == 0 || versions[0] == "" {
			r.logger.Debug("version source returned nothing", "source", src.Name(), "package", name)
			continue
		}
		r.logger.Debug("resolved version", "source", src.Name(), "package", name, "version", versions[0])
		observability.Import().OnResolve(ctx, name, requested, versions[0], nil)
		return versions[0]
	}

	if lastErr == nil {
		lastErr = errors.New(errors.ErrCodeVersionResolution, "no versions found for %s", name)
	} else {
		lastErr = errors.Wrap(errors.ErrCodeVersionResolution, lastErr, "resolve %s", name)
	}
	r.logger.Debug("falling back to latest", "package", name, "error", lastErr)
	observability.Import().OnResolve(ctx, name, requested, pkgspec.Latest, lastErr)
	return pkgspec.Latest
}

// IsUnpinned reports whether version asks for the newest release.
func IsUnpinned(version string) bool {
	return version == "" || version == pkgspec.Latest
}
