package command

import (
	"fmt"
	"os"

	"github.com/Lifor121/SketchBlade-sub002/internal/game"
	"github.com/Lifor121/SketchBlade-sub002/internal/save"
	"github.com/Lifor121/SketchBlade-sub002/internal/storage"
	"github.com/pixil98/go-errors"
)

type StorageConfig struct {
	Saves AssetConfig[*save.Game]           `json:"saves"`
	Items AssetConfig[*game.ItemDefinition] `json:"items"`
}

func (c *StorageConfig) validate() error {
	el := errors.NewErrorList()
	el.Add(c.Saves.Validate("saves"))
	el.Add(c.Items.Validate("items"))
	return el.Err()
}

type AssetConfig[T storage.ValidatingSpec] struct {
	Path        string `json:"path"`
	SkipInvalid bool   `json:"skip_invalid"`
}

func (c *AssetConfig[T]) Validate(name string) error {
	if c.Path == "" {
		return fmt.Errorf("%s: path is required", name)
	}
	_, err := os.Stat(c.Path)
	if err != nil {
		return fmt.Errorf("%s: invalid path %q: %w", name, c.Path, err)
	}

	return nil
}

func (c *AssetConfig[T]) BuildFileStore() (*storage.FileStore[T], error) {
	var opts []storage.FileStoreOpt
	if c.SkipInvalid {
		opts = append(opts, storage.WithSkipInvalid())
	}
	return storage.NewFileStore[T](c.Path, opts...)
}
