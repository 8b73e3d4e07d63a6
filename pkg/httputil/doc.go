// Package httputil provides the retry policy shared by the metadata clients.
//
// Only failures wrapped in [RetryableError] are retried (connection errors
// and 5xx answers from a registry). Everything else, including 404, is
// returned on the first attempt:
//
//	err := httputil.RetryWithBackoff(ctx, func() error {
//	    return fetch(ctx, url)
//	})
//
// Delivery attempts against a CDN never go through this package: a failed
// attempt moves the importer on to the next provider instead.
package httputil
