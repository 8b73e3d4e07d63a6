package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/cdnfetch/pkg/observability"
)

// logHooks reports library events as debug log lines, so --verbose shows
// each resolution, attempt, cache lookup and HTTP round trip.
type logHooks struct {
	logger *log.Logger
}

func installHooks(logger *log.Logger) {
	h := logHooks{logger: logger}
	observability.SetImportHooks(h)
	observability.SetCacheHooks(h)
	observability.SetHTTPHooks(h)
}

func (h logHooks) OnResolve(_ context.Context, name, requested, resolved string, err error) {
	if err != nil {
		h.logger.Debug("version lookup failed", "package", name, "requested", requested, "using", resolved, "err", err)
		return
	}
	h.logger.Debug("version resolved", "package", name, "requested", requested, "resolved", resolved)
}

func (h logHooks) OnAttempt(_ context.Context, providerID, kind, url string) {
	h.logger.Debug("trying provider", "provider", providerID, "kind", kind, "url", url)
}

func (h logHooks) OnAttemptComplete(_ context.Context, providerID, kind, _ string, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("attempt failed", "provider", providerID, "kind", kind, "took", d.Round(time.Millisecond), "err", err)
		return
	}
	h.logger.Debug("attempt succeeded", "provider", providerID, "kind", kind, "took", d.Round(time.Millisecond))
}

func (h logHooks) OnImportComplete(_ context.Context, name, version, providerID string, attempts int, code string) {
	h.logger.Debug("import complete", "package", name, "version", version, "provider", providerID, "attempts", attempts, "code", code)
}

func (h logHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h logHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h logHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h logHooks) OnRequest(_ context.Context, method, host, path string) {
	h.logger.Debug("http request", "method", method, "host", host, "path", path)
}

func (h logHooks) OnResponse(_ context.Context, method, host, path string, status int, d time.Duration) {
	h.logger.Debug("http response", "method", method, "host", host, "path", path, "status", status, "took", d.Round(time.Millisecond))
}

func (h logHooks) OnError(_ context.Context, method, host, path string, err error) {
	h.logger.Debug("http error", "method", method, "host", host, "path", path, "err", err)
}
