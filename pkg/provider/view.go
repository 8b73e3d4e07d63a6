package provider

import (
	"cmp"
	"slices"
	"strings"
	"unicode"
)

// Enabled returns the enabled providers of cfg sorted by ascending priority.
// Ties keep their configured order. When nothing is enabled the fixed
// [FallbackProviders] list is returned instead.
func Enabled(cfg *Config) []Definition {
	var out []Definition
	if cfg != nil {
		for _, p := range cfg.Providers {
			if p.Enabled {
				out = append(out, p)
			}
		}
	}
	if len(out) == 0 {
		return FallbackProviders()
	}
	slices.SortStableFunc(out, func(a, b Definition) int { return cmp.Compare(a.Priority, b.Priority) })
	return out
}

// EnabledESM returns [Enabled] restricted to providers that serve ES modules.
func EnabledESM(cfg *Config) []Definition {
	return ForKind(Enabled(cfg), Module)
}

// ForKind filters providers down to those able to serve kind.
func ForKind(providers []Definition, kind AssetKind) []Definition {
	var out []Definition
	for _, p := range providers {
		if p.Supports(kind) {
			out = append(out, p)
		}
	}
	return out
}

// Find looks a provider up by id or by display name; names are compared
// after [NormalizeName], so "esm.sh" and "esmsh" both find esm.sh.
func Find(providers []Definition, sel string) (Definition, bool) {
	key := NormalizeName(sel)
	for _, p := range providers {
		if p.ID == sel || key != "" && NormalizeName(p.Name) == key {
			return p, true
		}
	}
	return Definition{}, false
}

// NormalizeName lower-cases name and strips everything that is not an
// ASCII letter or digit, so "esm.sh" becomes "esmsh".
func NormalizeName(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// FilterRegion keeps providers of the given region. It is a presentation
// helper; the fallback engine never filters by region.
func FilterRegion(providers []Definition, region Region) []Definition {
	var out []Definition
	for _, p := range providers {
		if p.Region == region || p.Region == "" && region == RegionGlobal {
			out = append(out, p)
		}
	}
	return out
}
