// Package jsonapi extracts versions from arbitrary JSON metadata endpoints
// using JSONPath expressions, for custom providers whose id has no built-in
// parser.
//
// A provider opts in by setting its search or versions path:
//
//	search_api    = "https://example.com/api/{package}.json"
//	search_path   = "$.releases[*].tag"
//	versions_api  = "https://example.com/api/{package}.json"
//	versions_path = "$.releases[*]"
//
// The expression must select either a single version string or an array
// whose elements are strings or objects with a "version" field.
package jsonapi

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/PaesslerAG/jsonpath"

	"github.com/matzehuels/cdnfetch/pkg/integrations"
)

const (
	searchVersions  = 10
	listingVersions = 20
)

// Versions evaluates expr against raw and returns the selected versions in
// document order.
func Versions(raw []byte, expr string) ([]string, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, fmt.Errorf("jsonapi: empty jsonpath expression")
	}

	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("jsonapi: response body is not valid JSON: %w", err)
	}

	val, err := jsonpath.Get(expr, doc)
	if err != nil {
		return nil, fmt.Errorf("jsonapi: %s: %w", expr, err)
	}
	return collect(val), nil
}

// ParseVersions applies expr and keeps the first twenty versions.
func ParseVersions(raw []byte, expr string) ([]string, error) {
	versions, err := Versions(raw, expr)
	if err != nil {
		return nil, err
	}
	return integrations.Truncate(versions, listingVersions), nil
}

// ParseSearch applies expr and builds a search hit for name attributed to
// providerID. The first selected version is reported as current. A top-level
// "description" string is carried over when present. It returns nil when
// nothing is selected.
func ParseSearch(raw []byte, name, providerID, expr string) (*integrations.PackageInfo, error) {
	versions, err := Versions(raw, expr)
	if err != nil {
		return nil, err
	}
	if len(versions) == 0 {
		return nil, nil
	}

	var meta struct {
		Description string `json:"description"`
	}
	_ = json.Unmarshal(raw, &meta)

	return &integrations.PackageInfo{
		Name:        name,
		Version:     versions[0],
		Description: meta.Description,
		Versions:    integrations.Truncate(versions, searchVersions),
		CDN:         providerID,
	}, nil
}

func collect(val any) []string {
	switch v := val.(type) {
	case string:
		if v == "" {
			return []string{}
		}
		return []string{v}
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s := versionOf(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	case map[string]any:
		if s := versionOf(v); s != "" {
			return []string{s}
		}
	}
	return []string{}
}

func versionOf(item any) string {
	switch v := item.(type) {
	case string:
		return v
	case map[string]any:
		if s, ok := v["version"].(string); ok {
			return s
		}
	}
	return ""
}
