package jsdelivr

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/matzehuels/cdnfetch/pkg/cache"
	"github.com/matzehuels/cdnfetch/pkg/integrations"
)

const (
	// DefaultBaseURL is the jsDelivr npm package endpoint.
	DefaultBaseURL = "https://data.jsdelivr.com/v1/packages/npm"

	// ID is the provider id whose endpoints this package understands.
	ID = "jsdelivr"

	searchVersions  = 10
	listingVersions = 20
)

// Version is one entry of the versions array. It decodes from either
// "1.2.3" or {"version": "1.2.3", ...}.
type Version string

// UnmarshalJSON implements json.Unmarshaler.
func (v *Version) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*v = Version(s)
		return nil
	}
	var obj struct {
		Version string `json:"version"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("jsdelivr: version entry: %w", err)
	}
	*v = Version(obj.Version)
	return nil
}

// PackageResponse is the body of the package endpoint.
type PackageResponse struct {
	Type        string            `json:"type"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Tags        map[string]string `json:"tags"`
	Versions    []Version         `json:"versions"`
}

// Strings returns the versions as plain strings, newest first, skipping
// entries without a version.
func (r *PackageResponse) Strings() []string {
	out := make([]string, 0, len(r.Versions))
	for _, v := range r.Versions {
		if v != "" {
			out = append(out, string(v))
		}
	}
	return out
}

// Client talks to the jsDelivr data API.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates a jsDelivr client caching responses in backend for ttl.
func NewClient(backend cache.Cache, ttl time.Duration) *Client {
	return &Client{
		Client:  integrations.NewClient(backend, "jsdelivr:", ttl, nil),
		baseURL: DefaultBaseURL,
	}
}

// Name identifies the source in logs.
func (c *Client) Name() string { return ID }

// FetchPackage retrieves the package listing for name.
//
// Returns [integrations.ErrNotFound] if jsDelivr does not know the package
// and [integrations.ErrNetwork] for transport failures.
func (c *Client) FetchPackage(ctx context.Context, name string, refresh bool) (*PackageResponse, error) {
	name = integrations.NormalizePkgName(name)

	var resp PackageResponse
	err := c.Cached(ctx, name, refresh, &resp, func() error {
		if err := c.Get(ctx, c.baseURL+"/"+name, &resp); err != nil {
			if errors.Is(err, integrations.ErrNotFound) {
				return fmt.Errorf("%w: jsdelivr package %s", err, name)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Versions returns every known version of name, newest first.
func (c *Client) Versions(ctx context.Context, name string) ([]string, error) {
	resp, err := c.FetchPackage(ctx, name, false)
	if err != nil {
		return nil, err
	}
	return resp.Strings(), nil
}

// ParseSearch interprets a package endpoint body as a search hit for name.
// It returns nil when the body carries no versions.
func ParseSearch(raw []byte, name string) (*integrations.PackageInfo, error) {
	var resp PackageResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, err
	}
	versions := resp.Strings()
	if len(versions) == 0 {
		return nil, nil
	}
	return &integrations.PackageInfo{
		Name:        name,
		Version:     versions[0],
		Description: resp.Description,
		Versions:    integrations.Truncate(versions, searchVersions),
		CDN:         ID,
	}, nil
}

// ParseVersions interprets a package endpoint body as a version listing,
// keeping the newest twenty.
func ParseVersions(raw []byte) ([]string, error) {
	var resp PackageResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, err
	}
	return integrations.Truncate(resp.Strings(), listingVersions), nil
}
