package deliver

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/matzehuels/cdnfetch/pkg/provider"
)

// Document receives delivered assets.
type Document interface {
	// Insert stores the body read from r and fills in asset's location.
	// When it fails no trace of the asset remains.
	Insert(ctx context.Context, asset *Asset, r io.Reader) error

	// Assets lists the inserted assets in insertion order.
	Assets() []Asset
}

// DirDocument writes assets as files into a directory.
type DirDocument struct {
	dir string

	mu     sync.Mutex
	assets []Asset
}

// NewDirDocument creates the directory if needed.
func NewDirDocument(dir string) (*DirDocument, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DirDocument{dir: dir}, nil
}

// Dir returns the output directory.
func (d *DirDocument) Dir() string { return d.dir }

// Insert writes to a temporary file and renames it into place.
func (d *DirDocument) Insert(ctx context.Context, asset *Asset, r io.Reader) error {
	dest := filepath.Join(d.dir, FileName(asset.URL, asset.Kind))
	tmp, err := os.CreateTemp(d.dir, ".cdnfetch-*.tmp")
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	tmpPath := tmp.Name()

	n, err := io.Copy(tmp, r)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing file: %w", err)
	}

	if err := os.Rename(tmpPath, dest); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming file: %w", err)
	}

	asset.Path = dest
	asset.Size = n

	d.mu.Lock()
	d.assets = append(d.assets, *asset)
	d.mu.Unlock()
	return nil
}

// Assets lists the written files.
func (d *DirDocument) Assets() []Asset {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]Asset(nil), d.assets...)
}

// MemoryDocument keeps asset bodies in memory. The bridge uses it so that a
// response can report what was delivered without touching disk.
type MemoryDocument struct {
	mu     sync.Mutex
	assets []Asset
}

// NewMemoryDocument creates an empty document.
func NewMemoryDocument() *MemoryDocument { return &MemoryDocument{} }

// Insert reads r fully.
func (m *MemoryDocument) Insert(ctx context.Context, asset *Asset, r io.Reader) error {
	var buf bytes.Buffer
	n, err := io.Copy(&buf, r)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	asset.Data = buf.Bytes()
	asset.Size = n

	m.mu.Lock()
	m.assets = append(m.assets, *asset)
	m.mu.Unlock()
	return nil
}

// Assets lists the stored assets.
func (m *MemoryDocument) Assets() []Asset {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Asset(nil), m.assets...)
}

// FileName derives a file name for an asset URL. The last path segment is
// used, prefixed by its npm scope if any, and given the kind's extension
// when it has none of the usual ones.
func FileName(rawURL string, kind provider.AssetKind) string {
	u, err := url.Parse(rawURL)
	p := rawURL
	if err == nil {
		p = u.Path
	}
	p = strings.TrimSuffix(p, "/")

	base := path.Base(p)
	if parent := path.Base(path.Dir(p)); strings.HasPrefix(parent, "@") {
		base = strings.TrimPrefix(parent, "@") + "__" + base
	}
	base = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		return r
	}, base)
	if base == "" || base == "." || base == "_" {
		base = "asset"
	}

	switch path.Ext(base) {
	case ".js", ".mjs", ".cjs", ".css":
		return base
	}
	return base + extension(kind)
}

func extension(kind provider.AssetKind) string {
	switch kind {
	case provider.Stylesheet:
		return ".css"
	case provider.Module:
		return ".mjs"
	default:
		return ".js"
	}
}
