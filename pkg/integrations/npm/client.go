package npm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/matzehuels/cdnfetch/pkg/cache"
	"github.com/matzehuels/cdnfetch/pkg/integrations"
)

// DefaultBaseURL is the public npm registry.
const DefaultBaseURL = "https://registry.npmjs.org"

// PackageInfo summarizes a registry document.
type PackageInfo struct {
	Name        string   `json:"name"`
	Latest      string   `json:"latest"`   // dist-tags.latest
	Versions    []string `json:"versions"` // newest first
	Description string   `json:"description,omitempty"`
	License     string   `json:"license,omitempty"`
	Author      string   `json:"author,omitempty"`
	Repository  string   `json:"repository,omitempty"`
	HomePage    string   `json:"homepage,omitempty"`
}

// Client talks to the npm registry.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates a registry client caching responses in backend for ttl.
func NewClient(backend cache.Cache, ttl time.Duration) *Client {
	return &Client{
		Client:  integrations.NewClient(backend, "npm:", ttl, nil),
		baseURL: DefaultBaseURL,
	}
}

// Name identifies the source in logs.
func (c *Client) Name() string { return "npm" }

// FetchPackage retrieves the registry document for pkg.
func (c *Client) FetchPackage(ctx context.Context, pkg string, refresh bool) (*PackageInfo, error) {
	pkg = integrations.NormalizePkgName(pkg)

	var info PackageInfo
	err := c.Cached(ctx, pkg, refresh, &info, func() error {
		return c.fetch(ctx, pkg, &info)
	})
	if err != nil {
		return nil, err
	}
	return &info, nil
}

// Versions returns every published version of pkg, newest first.
func (c *Client) Versions(ctx context.Context, pkg string) ([]string, error) {
	info, err := c.FetchPackage(ctx, pkg, false)
	if err != nil {
		return nil, err
	}
	return info.Versions, nil
}

func (c *Client) fetch(ctx context.Context, pkg string, info *PackageInfo) error {
	var data registryResponse
	if err := c.Get(ctx, c.baseURL+"/"+pkg, &data); err != nil {
		if errors.Is(err, integrations.ErrNotFound) {
			return fmt.Errorf("%w: npm package %s", err, pkg)
		}
		return err
	}

	versions, err := objectKeys(data.Versions)
	if err != nil {
		return fmt.Errorf("npm package %s: versions: %w", pkg, err)
	}
	// The registry lists versions in publication order.
	slices.Reverse(versions)

	*info = PackageInfo{
		Name:     data.Name,
		Latest:   data.DistTags.Latest,
		Versions: versions,
	}

	var details map[string]versionDetails
	if len(data.Versions) > 0 && json.Unmarshal(data.Versions, &details) == nil {
		if v, ok := details[data.DistTags.Latest]; ok {
			info.Description = v.Description
			info.License = extractField(v.License, "type")
			info.Author = extractField(v.Author, "name")
			info.Repository = normalizeRepoURL(extractField(v.Repository, "url"))
			info.HomePage = v.HomePage
		}
	}
	return nil
}

// objectKeys returns the keys of a JSON object in document order. A missing
// or null object yields no keys.
func objectKeys(raw json.RawMessage) ([]string, error) {
	if len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return []string{}, nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("expected object, got %v", tok)
	}

	keys := []string{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected key %v", tok)
		}
		keys = append(keys, key)

		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return nil, err
		}
	}
	return keys, nil
}

func extractField(v any, field string) string {
	switch val := v.(type) {
	case string:
		return val
	case map[string]any:
		if s, ok := val[field].(string); ok {
			return s
		}
	}
	return ""
}

func normalizeRepoURL(raw string) string {
	s := strings.TrimPrefix(strings.TrimSpace(raw), "git+")
	s = strings.Replace(s, "git://", "https://", 1)
	return strings.TrimSuffix(s, ".git")
}

type registryResponse struct {
	Name     string          `json:"name"`
	DistTags distTags        `json:"dist-tags"`
	Versions json.RawMessage `json:"versions"`
}

type distTags struct {
	Latest string `json:"latest"`
}

type versionDetails struct {
	Description string `json:"description"`
	License     any    `json:"license"`
	Author      any    `json:"author"`
	Repository  any    `json:"repository"`
	HomePage    string `json:"homepage"`
}
