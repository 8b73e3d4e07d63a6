// Package pkg provides the core libraries for cdnfetch.
//
// # Overview
//
// cdnfetch loads npm packages from public CDNs. A request names a package,
// optionally a version and an asset kind; the engine resolves the version
// once and then tries the enabled CDNs in priority order until one of them
// delivers the asset. The pkg directory is organized into four areas:
//
//  1. Domain logic: [pkgspec], [provider], [resolve], [importer]
//  2. Delivery: [deliver], [notify]
//  3. Metadata: [search], [integrations], [cache], [httputil]
//  4. Infrastructure: [config], [bridge], [errors], [observability], [buildinfo]
//
// # Architecture
//
// The typical data flow of one import:
//
//	"lodash@4" + kind
//	         ↓
//	    [pkgspec] package (split name and version)
//	         ↓
//	    [resolve] package (latest → concrete version, once)
//	         ↓
//	    [provider] package (enabled CDNs in priority order, URL templates)
//	         ↓
//	    [deliver] package (fetch and verify, one attempt per CDN)
//	         ↓
//	    [notify] package (exactly one message per request)
//
// # Quick Start
//
//	import (
//	    "github.com/matzehuels/cdnfetch/pkg/deliver"
//	    "github.com/matzehuels/cdnfetch/pkg/importer"
//	    "github.com/matzehuels/cdnfetch/pkg/provider"
//	    "github.com/matzehuels/cdnfetch/pkg/resolve"
//	)
//
//	imp := importer.New(deliver.NewHTTPLoader(nil), resolve.NewDefault(nil, 0, nil), importer.Options{
//	    Config: provider.DefaultConfig,
//	})
//	out := imp.Import(ctx, importer.Request{Spec: "lodash", Kind: provider.Script})
//	fmt.Println(out.URL)
//
// # Main Packages
//
// [importer] - The fallback orchestrator. Import walks the enabled providers,
// ImportFrom pins one provider, and Dispatch goes through the per-provider
// command table.
//
// [provider] - Provider definitions, the built-in CDN list, configuration
// edits (enable, move, add, remove) and URL template expansion.
//
// [resolve] - Version resolution with jsDelivr first and the npm registry
// second. Failures degrade to "latest" instead of failing the request.
//
// [search] - Per-CDN package lookup and version listing with a TTL cache,
// plus ranked registry search via npms.io.
//
// [config] - Configuration stores backed by TOML or YAML files, Redis or
// MongoDB.
//
// [bridge] - HTTP server exposing imports, search and versions as JSON.
//
// # Testing
//
// Run tests:
//
//	go test ./...                    # All tests
//	go test -run Example ./pkg/...   # Examples only
//	go test -tags integration ./...  # Include tests against live CDNs and stores
package pkg
