// Package integrations provides HTTP clients for the metadata APIs behind
// version resolution and search.
//
// # Overview
//
// Each upstream has its own subpackage:
//
//   - [jsdelivr]: jsDelivr data API (versions, package search)
//   - [npm]: npm registry (versions in publication order)
//   - [npms]: npms.io ranked search
//   - [bootcdn]: BootCDN library API
//   - [jsonapi]: JSONPath-driven parser for custom provider endpoints
//
// # Shared Infrastructure
//
// The [Client] type provides the HTTP plumbing used by every subpackage:
// default headers, status mapping to [ErrNotFound] and [ErrNetwork],
// retries of transient failures and response caching via [cache.Cache].
//
// Network failures and 5xx answers are wrapped in a retryable error so that
// [Client.Cached] retries them with backoff; 404 is returned immediately.
//
// [jsdelivr]: github.com/matzehuels/cdnfetch/pkg/integrations/jsdelivr
// [npm]: github.com/matzehuels/cdnfetch/pkg/integrations/npm
// [npms]: github.com/matzehuels/cdnfetch/pkg/integrations/npms
// [bootcdn]: github.com/matzehuels/cdnfetch/pkg/integrations/bootcdn
// [jsonapi]: github.com/matzehuels/cdnfetch/pkg/integrations/jsonapi
// [cache.Cache]: github.com/matzehuels/cdnfetch/pkg/cache.Cache
package integrations
