package provider

import "time"

// DefaultCacheTTL is how long search and version results stay fresh.
const DefaultCacheTTL = 5 * time.Minute

// Config is the full provider configuration plus global flags.
type Config struct {
	DefaultProvider   string        `json:"defaultProvider" toml:"default_provider" yaml:"default_provider" bson:"default_provider"`
	Providers         []Definition  `json:"providers" toml:"providers" yaml:"providers" bson:"providers"`
	AutoFallback      bool          `json:"autoFallback" toml:"auto_fallback" yaml:"auto_fallback" bson:"auto_fallback"`
	ShowNotifications bool          `json:"showNotifications" toml:"show_notifications" yaml:"show_notifications" bson:"show_notifications"`
	CacheEnabled      bool          `json:"cacheEnabled" toml:"cache_enabled" yaml:"cache_enabled" bson:"cache_enabled"`
	CacheTTL          time.Duration `json:"cacheTime" toml:"cache_ttl" yaml:"cache_ttl" bson:"cache_ttl"`
}

// Clone returns a deep copy so edits never alias a shared provider slice.
func (c *Config) Clone() *Config {
	out := *c
	out.Providers = append([]Definition(nil), c.Providers...)
	return &out
}

// DefaultConfig returns the built-in configuration: seven public CDNs with
// fallback, notifications and caching enabled.
func DefaultConfig() *Config {
	return &Config{
		DefaultProvider:   "jsdelivr",
		Providers:         BuiltinProviders(),
		AutoFallback:      true,
		ShowNotifications: true,
		CacheEnabled:      true,
		CacheTTL:          DefaultCacheTTL,
	}
}

// BuiltinProviders returns the providers shipped with the default
// configuration, in priority order.
func BuiltinProviders() []Definition {
	return []Definition{
		{
			ID:          "jsdelivr",
			Name:        "jsDelivr",
			Description: "Free CDN for open source projects",
			JSTemplate:  "https://cdn.jsdelivr.net/npm/{package}@{version}",
			CSSTemplate: "https://cdn.jsdelivr.net/npm/{package}@{version}",
			Enabled:     true,
			Priority:    1,
			SupportESM:  true,
			SearchAPI:   "https://data.jsdelivr.com/v1/packages/npm/{package}",
			VersionsAPI: "https://data.jsdelivr.com/v1/packages/npm/{package}",
			Region:      RegionGlobal,
		},
		{
			ID:          "unpkg",
			Name:        "unpkg",
			Description: "Fast, global content delivery network for everything on npm",
			JSTemplate:  "https://unpkg.com/{package}@{version}",
			CSSTemplate: "https://unpkg.com/{package}@{version}",
			Enabled:     true,
			Priority:    2,
			SupportESM:  true,
			Region:      RegionGlobal,
		},
		{
			ID:          "esm",
			Name:        "esm.sh",
			Description: "A fast, smart and global CDN for modern web development",
			JSTemplate:  "https://esm.sh/{package}@{version}",
			CSSTemplate: "https://esm.sh/{package}@{version}",
			Enabled:     true,
			Priority:    3,
			SupportESM:  true,
			Region:      RegionGlobal,
		},
		{
			ID:          "skypack",
			Name:        "Skypack",
			Description: "ES module CDN for modern web apps",
			JSTemplate:  "https://cdn.skypack.dev/{package}@{version}",
			CSSTemplate: "https://cdn.skypack.dev/{package}@{version}",
			Enabled:     true,
			Priority:    4,
			SupportESM:  true,
			Region:      RegionGlobal,
		},
		{
			ID:          "bytedance",
			Name:        "ByteDance CDN",
			Description: "Static resource CDN operated by ByteDance",
			JSTemplate:  "https://lf3-cdn-tos.bytecdntp.com/cdn/expire-1-M/{package}/{version}/{package}.min.js",
			CSSTemplate: "https://lf3-cdn-tos.bytecdntp.com/cdn/expire-1-M/{package}/{version}/{package}.min.css",
			Enabled:     false,
			Priority:    5,
			Region:      RegionChina,
		},
		{
			ID:          "bootcdn",
			Name:        "BootCDN",
			Description: "Open source CDN mirror for mainland China",
			JSTemplate:  "https://cdn.bootcdn.net/ajax/libs/{package}/{version}/{package}.min.js",
			CSSTemplate: "https://cdn.bootcdn.net/ajax/libs/{package}/{version}/{package}.min.css",
			Enabled:     false,
			Priority:    6,
			SearchAPI:   "https://api.bootcdn.cn/libraries/{package}.min.json",
			VersionsAPI: "https://api.bootcdn.cn/libraries/{package}.min.json",
			Region:      RegionChina,
		},
		{
			ID:          "qiniu",
			Name:        "Qiniu CDN",
			Description: "Staticfile CDN hosted by Qiniu Cloud",
			JSTemplate:  "https://cdn.staticfile.org/{package}/{version}/{package}.min.js",
			CSSTemplate: "https://cdn.staticfile.org/{package}/{version}/{package}.min.css",
			Enabled:     false,
			Priority:    7,
			Region:      RegionChina,
		},
	}
}

// FallbackProviders is the fixed list used when no provider is enabled.
func FallbackProviders() []Definition {
	return []Definition{
		{
			ID:          "jsdelivr",
			Name:        "jsDelivr",
			JSTemplate:  "https://cdn.jsdelivr.net/npm/{package}@{version}",
			CSSTemplate: "https://cdn.jsdelivr.net/npm/{package}@{version}",
			Enabled:     true,
			Priority:    1,
			SupportESM:  true,
			Region:      RegionGlobal,
		},
		{
			ID:          "unpkg",
			Name:        "unpkg",
			JSTemplate:  "https://unpkg.com/{package}@{version}",
			CSSTemplate: "https://unpkg.com/{package}@{version}",
			Enabled:     true,
			Priority:    2,
			SupportESM:  true,
			Region:      RegionGlobal,
		},
		{
			ID:          "esm",
			Name:        "esm.sh",
			JSTemplate:  "https://esm.sh/{package}@{version}",
			CSSTemplate: "https://esm.sh/{package}@{version}",
			Enabled:     true,
			Priority:    3,
			SupportESM:  true,
			Region:      RegionGlobal,
		},
		{
			ID:          "skypack",
			Name:        "Skypack",
			JSTemplate:  "https://cdn.skypack.dev/{package}@{version}",
			CSSTemplate: "https://cdn.skypack.dev/{package}@{version}",
			Enabled:     true,
			Priority:    4,
			SupportESM:  true,
			Region:      RegionGlobal,
		},
	}
}
