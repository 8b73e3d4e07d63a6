// Package jsdelivr provides a client for the jsDelivr data API
// (https://data.jsdelivr.com).
//
// The package endpoint lists every published version, newest first, which
// makes it the primary source for resolving "latest" to a concrete version:
//
//	client := jsdelivr.NewClient(cache.NewNullCache(), time.Hour)
//	versions, err := client.Versions(ctx, "react")
//	fmt.Println(versions[0]) // newest
//
// The API has served versions both as plain strings and as objects with a
// "version" field; [Version] accepts either form.
//
// [ParseSearch] and [ParseVersions] interpret a raw response body fetched
// from a provider's search or versions endpoint.
package jsdelivr
