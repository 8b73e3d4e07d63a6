package npms

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/matzehuels/cdnfetch/pkg/cache"
	"github.com/matzehuels/cdnfetch/pkg/integrations"
)

const (
	// DefaultBaseURL is the npms.io search endpoint.
	DefaultBaseURL = "https://api.npms.io/v2/search"

	// DefaultSize is the number of results requested per query.
	DefaultSize = 10
)

// Client queries npms.io.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates an npms.io client caching responses in backend for ttl.
func NewClient(backend cache.Cache, ttl time.Duration) *Client {
	return &Client{
		Client:  integrations.NewClient(backend, "npms:", ttl, nil),
		baseURL: DefaultBaseURL,
	}
}

// Search returns up to size ranked results for query. A size of zero or
// less uses [DefaultSize].
func (c *Client) Search(ctx context.Context, query string, size int) ([]integrations.PackageInfo, error) {
	if size <= 0 {
		size = DefaultSize
	}
	url := fmt.Sprintf("%s?q=%s&size=%d", c.baseURL, integrations.URLEncode(query), size)

	var results []integrations.PackageInfo
	err := c.Cached(ctx, fmt.Sprintf("%s:%d", query, size), false, &results, func() error {
		var data searchResponse
		if err := c.Get(ctx, url, &data); err != nil {
			return err
		}
		results = convert(data)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

func convert(data searchResponse) []integrations.PackageInfo {
	out := make([]integrations.PackageInfo, 0, len(data.Results))
	for _, r := range data.Results {
		out = append(out, integrations.PackageInfo{
			Name:        r.Package.Name,
			Version:     r.Package.Version,
			Description: r.Package.Description,
			Keywords:    r.Package.Keywords,
			Score:       Percent(r.Score.Final),
		})
	}
	return out
}

// Percent renders a 0..1 score as a rounded integer percentage.
func Percent(score float64) int {
	return int(math.Round(score * 100))
}

type searchResponse struct {
	Total   int            `json:"total"`
	Results []searchResult `json:"results"`
}

type searchResult struct {
	Package struct {
		Name        string   `json:"name"`
		Version     string   `json:"version"`
		Description string   `json:"description"`
		Keywords    []string `json:"keywords"`
	} `json:"package"`
	Score struct {
		Final float64 `json:"final"`
	} `json:"score"`
}
