// Package importer is the fallback engine that delivers a package from the
// first configured CDN able to serve it.
//
// A request moves through a fixed sequence of states:
//
//	resolving -> attempting(1) -> attempting(2) -> ... -> success | exhausted
//
// The version is resolved once, before the first attempt, so every provider
// in a sequence targets the same version. Attempts run one after another and
// the first success ends the request. [Importer.ImportFrom] pins a request
// to one provider and makes exactly one attempt.
//
// Neither entry point returns an error. Failures are reported in the
// [Outcome], and the configured notifier hears about each request exactly
// once.
package importer

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/cdnfetch/pkg/deliver"
	"github.com/matzehuels/cdnfetch/pkg/errors"
	"github.com/matzehuels/cdnfetch/pkg/notify"
	"github.com/matzehuels/cdnfetch/pkg/observability"
	"github.com/matzehuels/cdnfetch/pkg/pkgspec"
	"github.com/matzehuels/cdnfetch/pkg/provider"
)

// VersionResolver turns an unpinned version into a concrete one. It never
// fails; see resolve.Resolver.
type VersionResolver interface {
	Resolve(ctx context.Context, name, requested string) string
}

// Request is one import request.
type Request struct {
	Spec    string             `json:"spec"`              // "name" or "name@version"
	Version string             `json:"version,omitempty"` // overrides the version in Spec
	Kind    provider.AssetKind `json:"kind"`
}

// Outcome is the single result of a request.
type Outcome struct {
	Success    bool               `json:"success"`
	URL        string             `json:"url,omitempty"`
	Provider   string             `json:"provider,omitempty"` // display name
	ProviderID string             `json:"providerId,omitempty"`
	Kind       provider.AssetKind `json:"kind"`
	Name       string             `json:"name,omitempty"`
	Version    string             `json:"version,omitempty"`
	Error      string             `json:"error,omitempty"`
	Code       errors.Code        `json:"code,omitempty"`
	Attempts   int                `json:"attempts"`
	Asset      *deliver.Asset     `json:"asset,omitempty"`
}

// Options configures an Importer.
type Options struct {
	// Config returns the current provider configuration. It is read once
	// per request. Nil uses provider.DefaultConfig().
	Config func() *provider.Config

	// Notifier receives one message per request while the configuration's
	// ShowNotifications flag is set. Nil discards messages.
	Notifier notify.Notifier

	// Logger receives the state machine at debug level. Nil uses log.Default().
	Logger *log.Logger

	// AttemptTimeout bounds each delivery attempt. Zero means no bound.
	AttemptTimeout time.Duration

	// LegacyParse selects pkgspec.ParseLegacy instead of pkgspec.Parse.
	LegacyParse bool
}

// Importer runs import requests.
type Importer struct {
	loader   deliver.Loader
	resolver VersionResolver
	config   func() *provider.Config
	notifier notify.Notifier
	logger   *log.Logger
	timeout  time.Duration
	parse    func(string) (pkgspec.Identifier, error)
}

// New creates an importer delivering through loader.
func New(loader deliver.Loader, resolver VersionResolver, opts Options) *Importer {
	imp := &Importer{
		loader:   loader,
		resolver: resolver,
		config:   opts.Config,
		notifier: opts.Notifier,
		logger:   opts.Logger,
		timeout:  opts.AttemptTimeout,
		parse:    pkgspec.Parse,
	}
	if imp.config == nil {
		imp.config = provider.DefaultConfig
	}
	if imp.notifier == nil {
		imp.notifier = notify.Nop
	}
	if imp.logger == nil {
		imp.logger = log.Default()
	}
	if opts.LegacyParse {
		imp.parse = pkgspec.ParseLegacy
	}
	return imp
}

// request carries the per-request state shared by both modes.
type request struct {
	cfg    *provider.Config
	notify notify.Notifier
	id     pkgspec.Identifier
	out    Outcome
}

func (i *Importer) begin(req Request) (*request, bool) {
	cfg := i.config()
	if cfg == nil {
		cfg = provider.DefaultConfig()
	}
	r := &request{
		cfg:    cfg,
		notify: notify.Gate(i.notifier, func() bool { return cfg.ShowNotifications }),
		out:    Outcome{Kind: req.Kind},
	}

	id, err := i.parse(req.Spec)
	if err != nil {
		i.fail(r, errors.GetCode(err), errors.UserMessage(err))
		return r, false
	}
	r.id = id
	r.out.Name = id.Name
	return r, true
}

// Import runs a request in fallback mode.
func (i *Importer) Import(ctx context.Context, req Request) Outcome {
	r, ok := i.begin(req)
	if !ok {
		return i.finish(ctx, r)
	}

	version := i.resolveVersion(ctx, r, req)

	candidates := provider.ForKind(provider.Enabled(r.cfg), req.Kind)
	if !r.cfg.AutoFallback && len(candidates) > 1 {
		candidates = candidates[:1]
	}

	for n, p := range candidates {
		i.logger.Debug("attempting", "package", r.id.Name, "provider", p.ID, "attempt", n+1, "of", len(candidates))
		res := i.attempt(ctx, r, p, req.Kind, version)
		if res.Success {
			i.succeed(r, p, res)
			return i.finish(ctx, r)
		}
		i.logger.Debug("attempt failed", "provider", p.ID, "url", res.URL, "error", res.Error)
		if ctx.Err() != nil {
			break
		}
	}

	i.logger.Debug("exhausted", "package", r.id.Name, "version", version, "attempts", r.out.Attempts)
	msg := fmt.Sprintf("Failed to load %s@%s from all providers", r.id.Name, version)
	if len(candidates) == 1 && !r.cfg.AutoFallback {
		msg = fmt.Sprintf("Failed to load %s@%s from %s", r.id.Name, version, candidates[0].Name)
	}
	i.fail(r, errors.ErrCodeAllProvidersExhausted, msg)
	return i.finish(ctx, r)
}

// ImportFrom runs a request pinned to the provider named by selector, an id
// or a normalized display name. The whole configured provider list is
// searched, so a disabled provider is reported as disabled rather than
// missing.
func (i *Importer) ImportFrom(ctx context.Context, selector string, req Request) Outcome {
	r, ok := i.begin(req)
	if !ok {
		return i.finish(ctx, r)
	}

	p, found := provider.Find(r.cfg.Providers, selector)
	switch {
	case !found:
		i.fail(r, errors.ErrCodeProviderNotFound, fmt.Sprintf("Provider '%s' not found", selector))
		return i.finish(ctx, r)
	case !p.Enabled:
		i.fail(r, errors.ErrCodeProviderDisabled, fmt.Sprintf("Provider '%s' is disabled", p.Name))
		return i.finish(ctx, r)
	case !p.Supports(req.Kind):
		i.fail(r, errors.ErrCodeUnsupportedCapability, fmt.Sprintf("Provider '%s' does not support ESM", p.Name))
		return i.finish(ctx, r)
	}

	version := i.resolveVersion(ctx, r, req)
	i.logger.Debug("attempting", "package", r.id.Name, "provider", p.ID, "pinned", true)
	res := i.attempt(ctx, r, p, req.Kind, version)
	if res.Success {
		i.succeed(r, p, res)
		return i.finish(ctx, r)
	}

	r.out.Provider, r.out.ProviderID, r.out.URL = p.Name, p.ID, res.URL
	i.fail(r, errors.ErrCodeDeliveryFailed, fmt.Sprintf("Failed to load %s@%s from %s", r.id.Name, version, p.Name))
	return i.finish(ctx, r)
}

// Dispatch runs a request through the command named name, the way a
// per-provider command of the command line does.
func (i *Importer) Dispatch(ctx context.Context, table provider.CommandTable, name string, req Request) Outcome {
	cmd, ok := provider.ResolveCommand(table, name)
	if !ok {
		return i.ImportFrom(ctx, name, req)
	}
	return i.ImportFrom(ctx, cmd.ProviderID, req)
}

func (i *Importer) resolveVersion(ctx context.Context, r *request, req Request) string {
	target := pkgspec.Version(req.Version, r.id)
	i.logger.Debug("resolving", "package", r.id.Name, "requested", target)
	version := target
	if i.resolver != nil {
		version = i.resolver.Resolve(ctx, r.id.Name, target)
	}
	r.out.Version = version
	return version
}

func (i *Importer) attempt(ctx context.Context, r *request, p provider.Definition, kind provider.AssetKind, version string) deliver.Result {
	url := p.URL(kind, r.id.Name, version)
	r.out.Attempts++

	if i.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, i.timeout)
		defer cancel()
	}

	hooks := observability.Import()
	hooks.OnAttempt(ctx, p.ID, kind.String(), url)
	start := time.Now()
	res := deliver.Attempt(ctx, i.loader, kind, url)
	var err error
	if !res.Success {
		err = errors.New(errors.ErrCodeDeliveryFailed, "%s", res.Error)
	}
	hooks.OnAttemptComplete(ctx, p.ID, kind.String(), url, time.Since(start), err)

	if res.URL == "" {
		res.URL = url
	}
	return res
}

func (i *Importer) succeed(r *request, p provider.Definition, res deliver.Result) {
	r.out.Success = true
	r.out.URL = res.URL
	r.out.Provider = p.Name
	r.out.ProviderID = p.ID
	r.out.Asset = res.Asset
	i.logger.Debug("success", "package", r.id.Name, "provider", p.ID, "url", res.URL)
	r.notify.Notify(fmt.Sprintf("Loaded %s@%s from %s (%s)", r.id.Name, r.out.Version, p.Name, r.out.Kind.Label()), notify.Success)
}

func (i *Importer) fail(r *request, code errors.Code, msg string) {
	if code == "" {
		code = errors.ErrCodeInternal
	}
	r.out.Success = false
	r.out.Code = code
	r.out.Error = msg
	r.notify.Notify(msg, notify.Error)
}

func (i *Importer) finish(ctx context.Context, r *request) Outcome {
	observability.Import().OnImportComplete(ctx, r.out.Name, r.out.Version, r.out.ProviderID, r.out.Attempts, string(r.out.Code))
	return r.out
}
