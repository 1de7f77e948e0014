package command

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pixil98/go-lostlab/internal/storage"
	"github.com/pixil98/go-lostlab/internal/world"
)

type StorageConfig struct {
	Path string `json:"path"`
}

func (c *StorageConfig) Validate() error {
	if strings.TrimSpace(c.Path) == "" {
		return fmt.Errorf("storage: path is required")
	}
	dir := filepath.Dir(c.Path)
	if _, err := os.Stat(dir); err != nil {
		return fmt.Errorf("storage: invalid directory %q: %w", dir, err)
	}
	return nil
}

func (c *StorageConfig) Open() (*storage.Store, error) {
	return storage.Open(c.Path)
}

// WorldConfig points at a world asset. The built-in station is used when no
// path is set.
type WorldConfig struct {
	Path string `json:"path,omitempty"`
}

func (c *WorldConfig) Validate() error {
	if c.Path == "" {
		return nil
	}
	if _, err := os.Stat(c.Path); err != nil {
		return fmt.Errorf("world: invalid path %q: %w", c.Path, err)
	}
	return nil
}

func (c *WorldConfig) Load() (*world.Spec, error) {
	if c.Path == "" {
		return world.DefaultSpec(), nil
	}
	spec, err := storage.LoadAsset[*world.Spec](c.Path)
	if err != nil {
		return nil, fmt.Errorf("loading world %q: %w", c.Path, err)
	}
	return spec, nil
}
