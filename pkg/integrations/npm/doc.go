// Package npm provides an HTTP client for the npm registry API.
//
// # Overview
//
// This package fetches package documents from the npm registry
// (https://registry.npmjs.org). It is the fallback version source when the
// jsDelivr data API cannot answer.
//
// # Usage
//
//	client := npm.NewClient(cache.NewNullCache(), time.Hour)
//	versions, err := client.Versions(ctx, "express")
//	fmt.Println("newest:", versions[0])
//
// # Version Order
//
// The registry keys its "versions" object by version string in publication
// order, oldest first. [Client.Versions] preserves that document order while
// decoding and reverses it, so the newest version comes first. No semver
// sorting is applied; a backport published after a newer major stays where
// the registry put it.
//
// # Caching
//
// Responses are cached to reduce load on the registry. The cache TTL is set
// when creating the client. Pass refresh=true to bypass the cache.
package npm
