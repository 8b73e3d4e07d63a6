// Package provider models the CDN sources cdnfetch can deliver packages from.
//
// # Definitions
//
// A [Definition] describes one CDN: its URL templates for scripts and
// stylesheets, whether it is enabled, its priority (lower is tried first),
// whether it serves ES modules, and the optional metadata endpoints used by
// search and version listing. Templates contain the literal placeholders
// {package} and {version}:
//
//	https://cdn.jsdelivr.net/npm/{package}@{version}
//
// # Registry View
//
// [Enabled] returns the providers eligible for a request in priority order.
// When nothing is enabled it returns [FallbackProviders], a fixed list of
// four public CDNs, so a request never starts with an empty candidate list.
// [Find] resolves a single provider by id or by normalized display name,
// where "esm.sh" normalizes to "esmsh".
//
// # Command Table
//
// [Commands] turns a configuration into a static dispatch table keyed by
// normalized provider name. The command line and the bridge server use it to
// route "cdnfetch unpkg lodash" style requests.
package provider
