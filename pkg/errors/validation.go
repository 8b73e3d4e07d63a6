package errors

import (
	"strings"
	"unicode"
)

// maxNameLen bounds package names; npm itself allows 214 characters.
const maxNameLen = 256

// unsafeSequences would let a package name escape the output directory
// once the delivered asset is written to disk.
var unsafeSequences = []string{"..", "//", "\\", "\x00"}

// ValidatePackageName rejects names that are empty, overly long, contain
// control characters or contain path traversal sequences. It does not
// enforce npm's naming rules; CDNs are the judge of what exists.
func ValidatePackageName(name string) error {
	switch {
	case name == "":
		return New(ErrCodeInvalidIdentifier, "package name cannot be empty")
	case len(name) > maxNameLen:
		return New(ErrCodeInvalidIdentifier, "package name too long (max %d characters)", maxNameLen)
	case strings.IndexFunc(name, unicode.IsControl) >= 0:
		return New(ErrCodeInvalidIdentifier, "package name contains control characters")
	}
	for _, seq := range unsafeSequences {
		if strings.Contains(name, seq) {
			return New(ErrCodeInvalidIdentifier, "package name contains invalid sequence %q", seq)
		}
	}
	return nil
}

// ValidateTemplate checks a provider URL template: an http(s) URL that
// references the {package} placeholder.
func ValidateTemplate(tmpl string) error {
	switch {
	case tmpl == "":
		return New(ErrCodeInvalidConfig, "URL template cannot be empty")
	case !strings.HasPrefix(tmpl, "http://") && !strings.HasPrefix(tmpl, "https://"):
		return New(ErrCodeInvalidConfig, "template %q must use http or https", tmpl)
	case !strings.Contains(tmpl, "{package}"):
		return New(ErrCodeInvalidConfig, "template %q has no {package} placeholder", tmpl)
	}
	return nil
}
