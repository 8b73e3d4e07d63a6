// Package deliver performs single delivery attempts of a CDN asset.
//
// A [Loader] exposes one primitive per asset kind. Script and stylesheet
// loads always resolve to a [Result]; a module load returns the loaded
// [Asset] or an error, and [Attempt] folds that error into a failed Result
// carrying its text. Nothing in this package retries: moving on to the next
// provider is the importer's job.
//
// [HTTPLoader] is the loader used by the command line and the bridge. It
// fetches the URL and inserts the body into a [Document]: a directory on
// disk ([DirDocument]) or an in-memory list ([MemoryDocument]). A failed
// attempt leaves the document untouched.
package deliver

import (
	"context"

	"github.com/matzehuels/cdnfetch/pkg/provider"
)

// Asset describes a delivered file.
type Asset struct {
	URL         string             `json:"url"`
	Kind        provider.AssetKind `json:"kind"`
	ContentType string             `json:"contentType,omitempty"`
	Size        int64              `json:"size"`
	Path        string             `json:"path,omitempty"` // set by DirDocument
	Data        []byte             `json:"-"`              // set by MemoryDocument
}

// Result is the outcome of one attempt.
type Result struct {
	Success bool
	URL     string
	Error   string
	Asset   *Asset
}

// Loader inserts assets into the host document.
type Loader interface {
	LoadScript(ctx context.Context, url string) Result
	LoadStylesheet(ctx context.Context, url string) Result
	LoadModule(ctx context.Context, url string) (*Asset, error)
}

// Attempt runs one load of the given kind through loader.
func Attempt(ctx context.Context, loader Loader, kind provider.AssetKind, url string) Result {
	switch kind {
	case provider.Stylesheet:
		return loader.LoadStylesheet(ctx, url)
	case provider.Module:
		asset, err := loader.LoadModule(ctx, url)
		if err != nil {
			return Result{URL: url, Error: err.Error()}
		}
		return Result{Success: true, URL: url, Asset: asset}
	default:
		return loader.LoadScript(ctx, url)
	}
}
