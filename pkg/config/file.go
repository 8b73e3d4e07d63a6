package config

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/cdnfetch/pkg/errors"
	"github.com/matzehuels/cdnfetch/pkg/provider"
)

// FileStore keeps the configuration in a TOML file, or a YAML file when the
// path ends in .yaml or .yml.
type FileStore struct {
	path string
}

// NewFileStore creates a store at path. An empty path uses [DefaultPath].
// The file itself is created on the first Save.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	return &FileStore{path: path}, nil
}

// Location returns the file path.
func (s *FileStore) Location() string { return s.path }

func (s *FileStore) isYAML() bool {
	ext := strings.ToLower(filepath.Ext(s.path))
	return ext == ".yaml" || ext == ".yml"
}

// Load reads the file. A missing file yields the defaults; keys absent from
// the file keep their default values.
func (s *FileStore) Load(ctx context.Context) (*provider.Config, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return provider.DefaultConfig(), nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", s.path)
	}

	cfg := provider.DefaultConfig()
	cfg.Providers = nil
	if s.isYAML() {
		err = yaml.Unmarshal(data, cfg)
	} else {
		_, err = toml.Decode(string(data), cfg)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", s.path)
	}
	return normalize(cfg), nil
}

// Save writes cfg atomically, creating parent directories as needed.
func (s *FileStore) Save(ctx context.Context, cfg *provider.Config) error {
	var buf bytes.Buffer
	if s.isYAML() {
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "encode config")
		}
		enc.Close()
	} else if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode config")
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "create config dir")
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".config-*")
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write config")
	}
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return errors.Wrap(errors.ErrCodeInternal, err, "write config")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return errors.Wrap(errors.ErrCodeInternal, err, "write config")
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return errors.Wrap(errors.ErrCodeInternal, err, "write config")
	}
	return nil
}

// Close is a no-op.
func (s *FileStore) Close() error { return nil }

var _ Store = (*FileStore)(nil)
