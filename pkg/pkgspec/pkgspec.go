// Package pkgspec parses user-supplied package specifiers of the form
// "name" or "name@version".
//
// Two parsers are provided. [Parse] understands npm scopes, so
// "@scope/pkg@1.0.0" yields name "@scope/pkg" and version "1.0.0".
// [ParseLegacy] keeps the historic first-"@" behavior, under which a
// leading "@" never matches and scoped names are rejected.
package pkgspec

import (
	"regexp"
	"strings"

	"github.com/matzehuels/cdnfetch/pkg/errors"
)

// Latest is the version token that asks for the newest published version.
const Latest = "latest"

// Identifier is a parsed package specifier. An empty Version means the
// specifier did not pin one.
type Identifier struct {
	Name    string `json:"name"`
	Version string `json:"version,omitempty"`
}

// String re-serializes the identifier as name[@version].
func (id Identifier) String() string {
	if id.Version == "" {
		return id.Name
	}
	return id.Name + "@" + id.Version
}

// Pinned reports whether the identifier names a concrete version.
func (id Identifier) Pinned() bool {
	return id.Version != "" && id.Version != Latest
}

// Parse splits raw on the first "@" that is not at position 0.
func Parse(raw string) (Identifier, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Identifier{}, errors.New(errors.ErrCodeInvalidIdentifier, "invalid package format: empty specifier")
	}

	name, version := s, ""
	if i := strings.Index(s[1:], "@"); i >= 0 {
		name, version = s[:i+1], s[i+2:]
		if version == "" {
			return Identifier{}, errors.New(errors.ErrCodeInvalidIdentifier, "invalid package format: %s", raw)
		}
	}
	if name == "@" || strings.HasPrefix(name, "@") && !strings.Contains(name, "/") {
		return Identifier{}, errors.New(errors.ErrCodeInvalidIdentifier, "invalid package format: %s", raw)
	}
	if err := errors.ValidatePackageName(name); err != nil {
		return Identifier{}, errors.Wrap(errors.ErrCodeInvalidIdentifier, err, "invalid package format: %s", raw)
	}
	return Identifier{Name: name, Version: version}, nil
}

var legacyPattern = regexp.MustCompile(`^([^@]+)(?:@(.+))?$`)

// ParseLegacy matches raw against ^([^@]+)(?:@(.+))?$ exactly.
func ParseLegacy(raw string) (Identifier, error) {
	m := legacyPattern.FindStringSubmatch(raw)
	if m == nil {
		return Identifier{}, errors.New(errors.ErrCodeInvalidIdentifier, "invalid package format: %s", raw)
	}
	return Identifier{Name: m[1], Version: m[2]}, nil
}

// Version picks the effective version of a request: an explicit version
// wins over the parsed one, and an absent version means [Latest].
func Version(explicit string, id Identifier) string {
	switch {
	case explicit != "":
		return explicit
	case id.Version != "":
		return id.Version
	default:
		return Latest
	}
}
