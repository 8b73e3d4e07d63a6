// Package bootcdn parses responses of the BootCDN library API
// (https://api.bootcdn.cn/libraries/<name>.min.json).
package bootcdn

import (
	"encoding/json"

	"github.com/matzehuels/cdnfetch/pkg/integrations"
)

// ID is the provider id whose endpoints this package understands.
const ID = "bootcdn"

const listingVersions = 20

// Library is the body of the library endpoint.
type Library struct {
	Name        string  `json:"name"`
	Version     string  `json:"version"`
	Description string  `json:"description"`
	Assets      []Asset `json:"assets"`
}

// Asset is one published version with its files.
type Asset struct {
	Version string   `json:"version"`
	Files   []string `json:"files"`
}

// ParseSearch interprets a library body as a search hit for name. BootCDN
// reports only its current version. It returns nil when no version is set.
func ParseSearch(raw []byte, name string) (*integrations.PackageInfo, error) {
	var lib Library
	if err := json.Unmarshal(raw, &lib); err != nil {
		return nil, err
	}
	if lib.Version == "" {
		return nil, nil
	}
	return &integrations.PackageInfo{
		Name:        name,
		Version:     lib.Version,
		Description: lib.Description,
		Versions:    []string{lib.Version},
		CDN:         ID,
	}, nil
}

// ParseVersions lists the versions of the library's assets in API order,
// keeping the first twenty.
func ParseVersions(raw []byte) ([]string, error) {
	var lib Library
	if err := json.Unmarshal(raw, &lib); err != nil {
		return nil, err
	}
	versions := make([]string, 0, len(lib.Assets))
	for _, a := range lib.Assets {
		versions = append(versions, a.Version)
	}
	return integrations.Truncate(versions, listingVersions), nil
}
