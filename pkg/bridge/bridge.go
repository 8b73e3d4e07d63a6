// Package bridge exposes the importer over HTTP so that a page, a browser
// extension or another tool can ask for a package and get back the URL of
// the CDN that served it.
//
// Routes:
//
//	POST /v1/import                       fallback import
//	POST /v1/providers/{provider}/import  import pinned to one provider
//	GET  /v1/search?q=                    per-CDN package lookup
//	GET  /v1/registry?q=                  ranked npm registry search
//	GET  /v1/versions/{name}              version listing, scoped names allowed
//	GET  /v1/providers                    providers in fallback order
//	GET  /healthz                         liveness
//
// Every response carries an X-Request-ID header.
package bridge

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/cdnfetch/pkg/buildinfo"
	"github.com/matzehuels/cdnfetch/pkg/deliver"
	"github.com/matzehuels/cdnfetch/pkg/errors"
	"github.com/matzehuels/cdnfetch/pkg/importer"
	"github.com/matzehuels/cdnfetch/pkg/notify"
	"github.com/matzehuels/cdnfetch/pkg/provider"
	"github.com/matzehuels/cdnfetch/pkg/search"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 64 << 10

// Options configures a Server.
type Options struct {
	// Config returns the live provider configuration.
	Config func() *provider.Config

	// Notifier additionally receives every import notification, for
	// example to log them on the server side.
	Notifier notify.Notifier

	Loader         deliver.Loader
	Resolver       importer.VersionResolver
	Search         *search.Service
	Logger         *log.Logger
	AttemptTimeout time.Duration
	LegacyParse    bool
}

// Server is the HTTP bridge.
type Server struct {
	opts   Options
	logger *log.Logger
	router chi.Router
}

// New creates a Server and its routes.
func New(opts Options) *Server {
	if opts.Config == nil {
		opts.Config = provider.DefaultConfig
	}
	if opts.Loader == nil {
		opts.Loader = deliver.NewHTTPLoader(nil)
	}
	if opts.Search == nil {
		opts.Search = search.New(search.Options{Config: opts.Config, Logger: opts.Logger})
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	s := &Server{opts: opts, logger: logger}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(s.accessLog)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.health)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/import", s.importFallback)
		r.Post("/providers/{provider}/import", s.importPinned)
		r.Get("/providers", s.providers)
		r.Get("/search", s.search)
		r.Get("/registry", s.registry)
		r.Get("/versions/*", s.versions)
	})
	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("bridge listening", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.logger.Info("bridge shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

// importResponse is the body of both import routes.
type importResponse struct {
	importer.Outcome
	Notifications []notify.Message `json:"notifications"`
}

func (s *Server) newImporter(rec *notify.Recorder) *importer.Importer {
	return importer.New(s.opts.Loader, s.opts.Resolver, importer.Options{
		Config:         s.opts.Config,
		Notifier:       notify.Tee(rec, s.opts.Notifier),
		Logger:         s.logger,
		AttemptTimeout: s.opts.AttemptTimeout,
		LegacyParse:    s.opts.LegacyParse,
	})
}

func (s *Server) importFallback(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeImport(w, r)
	if !ok {
		return
	}
	rec := &notify.Recorder{}
	out := s.newImporter(rec).Import(r.Context(), req)
	writeOutcome(w, out, rec)
}

func (s *Server) importPinned(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeImport(w, r)
	if !ok {
		return
	}
	rec := &notify.Recorder{}
	out := s.newImporter(rec).ImportFrom(r.Context(), chi.URLParam(r, "provider"), req)
	writeOutcome(w, out, rec)
}

func decodeImport(w http.ResponseWriter, r *http.Request) (importer.Request, bool) {
	var req importer.Request
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body"))
		return req, false
	}
	return req, true
}

func writeOutcome(w http.ResponseWriter, out importer.Outcome, rec *notify.Recorder) {
	status := http.StatusOK
	if !out.Success {
		status = errors.HTTPStatus(out.Code)
	}
	msgs := rec.Messages()
	if msgs == nil {
		msgs = []notify.Message{}
	}
	writeJSON(w, status, importResponse{Outcome: out, Notifications: msgs})
}

type providerView struct {
	provider.Definition
	Kinds []provider.AssetKind `json:"kinds"`
}

func (s *Server) providers(w http.ResponseWriter, r *http.Request) {
	cfg := s.opts.Config()
	enabled := provider.Enabled(cfg)
	out := make([]providerView, 0, len(enabled))
	for _, p := range enabled {
		kinds := []provider.AssetKind{provider.Script, provider.Stylesheet}
		if p.SupportESM {
			kinds = append(kinds, provider.Module)
		}
		out = append(out, providerView{Definition: p, Kinds: kinds})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"providers":    out,
		"autoFallback": cfg.AutoFallback,
	})
}

func (s *Server) search(w http.ResponseWriter, r *http.Request) {
	hits, err := s.opts.Search.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": hits})
}

func (s *Server) registry(w http.ResponseWriter, r *http.Request) {
	hits, err := s.opts.Search.Registry(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": hits})
}

func (s *Server) versions(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "*")
	versions, err := s.opts.Search.Versions(r.Context(), name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"name": name, "versions": versions})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": buildinfo.Version})
}

type errorBody struct {
	Error string      `json:"error"`
	Code  errors.Code `json:"code"`
}

func writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	writeJSON(w, errors.HTTPStatus(code), errorBody{Error: errors.UserMessage(err), Code: code})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
