package provider

import (
	"fmt"
	"strings"
)

// AssetKind selects which template and which delivery primitive apply.
type AssetKind int

const (
	Script AssetKind = iota
	Stylesheet
	Module
)

// String returns the canonical kind name: "script", "style" or "module".
func (k AssetKind) String() string {
	switch k {
	case Stylesheet:
		return "style"
	case Module:
		return "module"
	default:
		return "script"
	}
}

// Label returns the short upper-case label used in notifications.
func (k AssetKind) Label() string {
	switch k {
	case Stylesheet:
		return "CSS"
	case Module:
		return "ESM"
	default:
		return "JS"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k AssetKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *AssetKind) UnmarshalText(b []byte) error {
	parsed, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// ParseKind accepts the canonical names and the short aliases js, css, esm.
// An empty string selects Script.
func ParseKind(s string) (AssetKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "js", "script":
		return Script, nil
	case "css", "style", "stylesheet":
		return Stylesheet, nil
	case "esm", "module":
		return Module, nil
	default:
		return Script, fmt.Errorf("unknown asset kind %q", s)
	}
}

// Region is informational: the fallback engine treats all regions alike.
type Region string

const (
	RegionGlobal Region = "global"
	RegionChina  Region = "china"
)

// Definition describes one CDN source.
type Definition struct {
	ID          string `json:"id" toml:"id" yaml:"id" bson:"id"`
	Name        string `json:"name" toml:"name" yaml:"name" bson:"name"`
	Description string `json:"description,omitempty" toml:"description,omitempty" yaml:"description,omitempty" bson:"description,omitempty"`
	JSTemplate  string `json:"jsTemplate" toml:"js_template" yaml:"js_template" bson:"js_template"`
	CSSTemplate string `json:"cssTemplate" toml:"css_template" yaml:"css_template" bson:"css_template"`
	Enabled     bool   `json:"enabled" toml:"enabled" yaml:"enabled" bson:"enabled"`
	Priority    int    `json:"priority" toml:"priority" yaml:"priority" bson:"priority"`
	SupportESM  bool   `json:"supportESM" toml:"support_esm" yaml:"support_esm" bson:"support_esm"`
	SearchAPI   string `json:"searchApi,omitempty" toml:"search_api,omitempty" yaml:"search_api,omitempty" bson:"search_api,omitempty"`
	VersionsAPI string `json:"versionsApi,omitempty" toml:"versions_api,omitempty" yaml:"versions_api,omitempty" bson:"versions_api,omitempty"`
	Region      Region `json:"region,omitempty" toml:"region,omitempty" yaml:"region,omitempty" bson:"region,omitempty"`

	// SearchPath and VersionsPath are JSONPath expressions applied to the
	// SearchAPI/VersionsAPI responses of providers without a built-in parser.
	SearchPath   string `json:"searchPath,omitempty" toml:"search_path,omitempty" yaml:"search_path,omitempty" bson:"search_path,omitempty"`
	VersionsPath string `json:"versionsPath,omitempty" toml:"versions_path,omitempty" yaml:"versions_path,omitempty" bson:"versions_path,omitempty"`
}

// Template returns the URL template for kind. Stylesheets fall back to the
// script template when no CSS template is configured.
func (d Definition) Template(kind AssetKind) string {
	if kind == Stylesheet && d.CSSTemplate != "" {
		return d.CSSTemplate
	}
	return d.JSTemplate
}

// URL renders the template for kind with name and version.
func (d Definition) URL(kind AssetKind, name, version string) string {
	return BuildURL(d.Template(kind), name, version)
}

// Supports reports whether the provider can serve kind.
func (d Definition) Supports(kind AssetKind) bool {
	if kind == Module {
		return d.SupportESM
	}
	return true
}

// MethodName is the normalized display name used as the command key.
func (d Definition) MethodName() string {
	return NormalizeName(d.Name)
}
