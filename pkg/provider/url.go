package provider

import "strings"

const (
	placeholderPackage = "{package}"
	placeholderVersion = "{version}"
	latestVersion      = "latest"
)

// BuildURL substitutes name and version into template. Every occurrence of
// each placeholder is replaced and no URL encoding is applied. An empty
// version renders as "latest".
func BuildURL(template, name, version string) string {
	if version == "" {
		version = latestVersion
	}
	return strings.NewReplacer(placeholderPackage, name, placeholderVersion, version).Replace(template)
}
