package deliver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/matzehuels/cdnfetch/pkg/observability"
	"github.com/matzehuels/cdnfetch/pkg/provider"
)

const (
	defaultTimeout  = 60 * time.Second
	defaultMaxBytes = 32 << 20
)

// ErrTooLarge is returned when a response exceeds the loader's size limit.
var ErrTooLarge = errors.New("asset exceeds size limit")

// HTTPLoader fetches assets over HTTP and inserts them into a Document.
type HTTPLoader struct {
	client    *http.Client
	doc       Document
	maxBytes  int64
	userAgent string
}

// Option configures an HTTPLoader.
type Option func(*HTTPLoader)

// WithHTTPClient replaces the default client (60s timeout).
func WithHTTPClient(c *http.Client) Option {
	return func(l *HTTPLoader) {
		if c != nil {
			l.client = c
		}
	}
}

// WithMaxBytes limits the accepted body size.
func WithMaxBytes(n int64) Option {
	return func(l *HTTPLoader) {
		if n > 0 {
			l.maxBytes = n
		}
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(l *HTTPLoader) { l.userAgent = ua }
}

// NewHTTPLoader creates a loader writing into doc.
func NewHTTPLoader(doc Document, opts ...Option) *HTTPLoader {
	l := &HTTPLoader{
		client:   &http.Client{Timeout: defaultTimeout},
		doc:      doc,
		maxBytes: defaultMaxBytes,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Document returns the document assets are inserted into.
func (l *HTTPLoader) Document() Document { return l.doc }

// LoadScript fetches a classic script.
func (l *HTTPLoader) LoadScript(ctx context.Context, url string) Result {
	asset, err := l.load(ctx, provider.Script, url)
	if err != nil {
		return Result{URL: url, Error: "Failed to load script: " + err.Error()}
	}
	return Result{Success: true, URL: url, Asset: asset}
}

// LoadStylesheet fetches a stylesheet.
func (l *HTTPLoader) LoadStylesheet(ctx context.Context, url string) Result {
	asset, err := l.load(ctx, provider.Stylesheet, url)
	if err != nil {
		return Result{URL: url, Error: "Failed to load CSS: " + err.Error()}
	}
	return Result{Success: true, URL: url, Asset: asset}
}

// LoadModule fetches an ES module. The response must look like JavaScript:
// a JavaScript content type, or a non-empty body that is not an HTML page.
func (l *HTTPLoader) LoadModule(ctx context.Context, url string) (*Asset, error) {
	return l.load(ctx, provider.Module, url)
}

func (l *HTTPLoader) load(ctx context.Context, kind provider.AssetKind, rawURL string) (*Asset, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	if l.userAgent != "" {
		req.Header.Set("User-Agent", l.userAgent)
	}

	hooks := observability.HTTP()
	host, path := req.URL.Host, req.URL.Path
	hooks.OnRequest(ctx, req.Method, host, path)
	start := time.Now()

	resp, err := l.client.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, host, path, err)
		return nil, err
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, req.Method, host, path, resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, l.maxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(body)) > l.maxBytes {
		return nil, ErrTooLarge
	}

	contentType := resp.Header.Get("Content-Type")
	if kind == provider.Module {
		if err := checkModule(contentType, body); err != nil {
			return nil, err
		}
	}

	asset := &Asset{
		URL:         rawURL,
		Kind:        kind,
		ContentType: contentType,
		Size:        int64(len(body)),
	}
	if l.doc != nil {
		if err := l.doc.Insert(ctx, asset, bytes.NewReader(body)); err != nil {
			return nil, err
		}
	}
	return asset, nil
}

func checkModule(contentType string, body []byte) error {
	mediaType, _, _ := mime.ParseMediaType(contentType)
	if strings.Contains(mediaType, "javascript") || strings.Contains(mediaType, "ecmascript") {
		return nil
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return errors.New("empty module response")
	}
	if mediaType == "text/html" {
		return fmt.Errorf("unexpected content type %q for module", mediaType)
	}
	return nil
}

var _ Loader = (*HTTPLoader)(nil)
