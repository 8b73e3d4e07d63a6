package bridge

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/cdnfetch/pkg/deliver"
	"github.com/matzehuels/cdnfetch/pkg/errors"
	"github.com/matzehuels/cdnfetch/pkg/integrations"
	"github.com/matzehuels/cdnfetch/pkg/provider"
	"github.com/matzehuels/cdnfetch/pkg/search"
)

type stubLoader struct{ fail string }

func (l stubLoader) result(url string) deliver.Result {
	if l.fail != "" && strings.Contains(url, l.fail) {
		return deliver.Result{URL: url, Error: "Failed to load script: HTTP 404"}
	}
	return deliver.Result{Success: true, URL: url}
}

func (l stubLoader) LoadScript(ctx context.Context, url string) deliver.Result { return l.result(url) }
func (l stubLoader) LoadStylesheet(ctx context.Context, url string) deliver.Result {
	return l.result(url)
}
func (l stubLoader) LoadModule(ctx context.Context, url string) (*deliver.Asset, error) {
	if res := l.result(url); !res.Success {
		return nil, errors.New(errors.ErrCodeDeliveryFailed, "%s", res.Error)
	}
	return &deliver.Asset{URL: url, Kind: provider.Module}, nil
}

type pinned string

func (p pinned) Resolve(ctx context.Context, name, requested string) string {
	if requested == "latest" {
		return string(p)
	}
	return requested
}

type fakeFetcher map[string]string

func (f fakeFetcher) GetRaw(ctx context.Context, url string) ([]byte, error) {
	if body, ok := f[url]; ok {
		return []byte(body), nil
	}
	return nil, integrations.ErrNotFound
}

type fakeRegistry struct{}

func (fakeRegistry) Search(ctx context.Context, q string, size int) ([]integrations.PackageInfo, error) {
	return []integrations.PackageInfo{{Name: q, Version: "1.0.0", Score: 93}}, nil
}

func newTestServer(t *testing.T, loader deliver.Loader) *httptest.Server {
	t.Helper()
	cfg := provider.DefaultConfig()
	logger := log.New(io.Discard)
	svc := search.New(search.Options{
		Config: func() *provider.Config { return cfg },
		Fetcher: fakeFetcher{
			"https://data.jsdelivr.com/v1/packages/npm/lodash":      `{"versions":["4.17.21","4.17.20"],"description":"utils"}`,
			"https://data.jsdelivr.com/v1/packages/npm/@vue/shared": `{"versions":["3.4.0"]}`,
		},
		Registry: fakeRegistry{},
		Logger:   logger,
	})
	srv := httptest.NewServer(New(Options{
		Config:   func() *provider.Config { return cfg },
		Loader:   loader,
		Resolver: pinned("4.17.21"),
		Search:   svc,
		Logger:   logger,
	}))
	t.Cleanup(srv.Close)
	return srv
}

func post(t *testing.T, url, body string) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var out map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return resp, out
}

func get(t *testing.T, url string) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var out map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return resp, out
}

func TestImportFallback(t *testing.T) {
	srv := newTestServer(t, stubLoader{fail: "jsdelivr"})

	resp, out := post(t, srv.URL+"/v1/import", `{"spec":"lodash"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body %v", resp.StatusCode, out)
	}
	if out["providerId"] != "unpkg" || out["url"] != "https://unpkg.com/lodash@4.17.21" {
		t.Errorf("outcome = %v", out)
	}
	if out["attempts"].(float64) != 2 {
		t.Errorf("attempts = %v", out["attempts"])
	}
	notes := out["notifications"].([]any)
	if len(notes) != 1 {
		t.Fatalf("notifications = %v", notes)
	}
	if text := notes[0].(map[string]any)["text"]; text != "Loaded lodash@4.17.21 from unpkg (JS)" {
		t.Errorf("notification = %v", text)
	}
}

func TestImportExhaustedStatus(t *testing.T) {
	srv := newTestServer(t, stubLoader{fail: "https://"})

	resp, out := post(t, srv.URL+"/v1/import", `{"spec":"lodash@1.0.0","kind":"style"}`)
	if resp.StatusCode != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", resp.StatusCode)
	}
	if out["code"] != string(errors.ErrCodeAllProvidersExhausted) {
		t.Errorf("code = %v", out["code"])
	}
	if out["error"] != "Failed to load lodash@1.0.0 from all providers" {
		t.Errorf("error = %v", out["error"])
	}
}

func TestImportPinned(t *testing.T) {
	srv := newTestServer(t, stubLoader{})

	tests := []struct {
		path   string
		body   string
		status int
		code   string
	}{
		{"/v1/providers/esm.sh/import", `{"spec":"preact","kind":"esm"}`, http.StatusOK, ""},
		{"/v1/providers/nowhere/import", `{"spec":"preact"}`, http.StatusNotFound, string(errors.ErrCodeProviderNotFound)},
		{"/v1/providers/bootcdn/import", `{"spec":"preact","kind":"module"}`, http.StatusBadRequest, string(errors.ErrCodeUnsupportedCapability)},
		{"/v1/import", `{"spec":"@"}`, http.StatusBadRequest, string(errors.ErrCodeInvalidIdentifier)},
		{"/v1/import", `{"spec":"x","kind":"wasm"}`, http.StatusBadRequest, string(errors.ErrCodeInvalidInput)},
		{"/v1/import", `not json`, http.StatusBadRequest, string(errors.ErrCodeInvalidInput)},
	}
	for _, tt := range tests {
		t.Run(tt.path+" "+tt.body, func(t *testing.T) {
			resp, out := post(t, srv.URL+tt.path, tt.body)
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d (%v)", resp.StatusCode, tt.status, out)
			}
			if tt.code != "" && out["code"] != tt.code {
				t.Errorf("code = %v, want %s", out["code"], tt.code)
			}
		})
	}
}

func TestRequestID(t *testing.T) {
	srv := newTestServer(t, stubLoader{})

	resp, _ := get(t, srv.URL+"/healthz")
	if id := resp.Header.Get(RequestIDHeader); len(id) != 36 {
		t.Errorf("generated request id = %q", id)
	}

	const given = "9f1c1f0e-4c1e-4a8a-9d0b-2f4a2b7c9e11"
	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/healthz", nil)
	req.Header.Set(RequestIDHeader, given)
	resp2, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp2.Body.Close()
	if got := resp2.Header.Get(RequestIDHeader); got != given {
		t.Errorf("request id = %q, want %q", got, given)
	}

	req.Header.Set(RequestIDHeader, "not-a-uuid")
	resp3, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp3.Body.Close()
	if got := resp3.Header.Get(RequestIDHeader); got == "not-a-uuid" || got == "" {
		t.Errorf("malformed request id echoed: %q", got)
	}
}

func TestProviders(t *testing.T) {
	srv := newTestServer(t, stubLoader{})

	_, out := get(t, srv.URL+"/v1/providers")
	list := out["providers"].([]any)
	if len(list) != len(provider.BuiltinProviders()) {
		t.Fatalf("providers = %d", len(list))
	}
	first := list[0].(map[string]any)
	if first["id"] != "jsdelivr" {
		t.Errorf("first provider = %v", first["id"])
	}
	if kinds := first["kinds"].([]any); len(kinds) != 3 || kinds[2] != "module" {
		t.Errorf("kinds = %v", kinds)
	}
}

func TestSearchRoutes(t *testing.T) {
	srv := newTestServer(t, stubLoader{})

	_, out := get(t, srv.URL+"/v1/search?q=lodash")
	results := out["results"].([]any)
	if len(results) != 1 || results[0].(map[string]any)["cdn"] != "jsdelivr" {
		t.Errorf("search results = %v", results)
	}

	_, out = get(t, srv.URL+"/v1/versions/@vue/shared")
	if out["name"] != "@vue/shared" {
		t.Errorf("name = %v", out["name"])
	}
	if v := out["versions"].([]any); len(v) != 1 || v[0] != "3.4.0" {
		t.Errorf("versions = %v", v)
	}

	_, out = get(t, srv.URL+"/v1/registry?q=react")
	if r := out["results"].([]any); len(r) != 1 || r[0].(map[string]any)["score"].(float64) != 93 {
		t.Errorf("registry = %v", r)
	}

	resp, out := get(t, srv.URL+"/v1/search?q=")
	if resp.StatusCode != http.StatusBadRequest || out["code"] != string(errors.ErrCodeInvalidInput) {
		t.Errorf("empty query: status %d body %v", resp.StatusCode, out)
	}
}
