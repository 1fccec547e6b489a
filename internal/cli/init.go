package cli

import (
	"fmt"
	"os"

	"github.com/julianstephens/quitline/internal/storage"
)

type InitCmd struct {
	Force  bool   `help:"Delete an existing local store before initializing."`
	Source string `help:"Copy all values from another store (file path) after initializing." type:"path"`
}

func (c *InitCmd) Run(ctx *Context) error {
	if c.Force && isLocalStore(ctx.Store) {
		if err := ctx.Store.Close(); err != nil {
			return fmt.Errorf("failed to close store: %w", err)
		}
		path := ctx.Store.GetConfigPath()
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove existing store: %w", err)
		}
		ctx.printf("Removed existing store at: %s\n", path)
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	ctx.printf("Initialized quitline storage at: %s\n", ctx.Store.GetConfigPath())

	if c.Source == "" {
		return nil
	}

	src, err := OpenStore(StoreOptions{Path: c.Source})
	if err != nil {
		return err
	}
	if err := src.Load(); err != nil {
		return fmt.Errorf("failed to open source store: %w", err)
	}
	defer src.Close()

	n, err := storage.Copy(ctx.Store, src)
	if err != nil {
		return fmt.Errorf("failed to copy from %s: %w", c.Source, err)
	}
	ctx.printf("✓ Copied %d values from %s\n", n, c.Source)
	return nil
}
