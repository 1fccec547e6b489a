package cli

import (
	"github.com/julianstephens/quitline/internal/logger"
	"github.com/julianstephens/quitline/internal/storage"
	"github.com/julianstephens/quitline/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}
	ctx.PerformAutomaticBackup()

	settings, err := storage.GetSettings(ctx.Store)
	if err != nil {
		logger.Warn("Failed to read settings, using defaults", "error", err)
		settings = storage.DefaultSettings()
	}

	return tui.Run(ctx.context(), tui.Options{
		Store:     ctx.Store,
		Load:      ctx.LoadTracker,
		Clock:     ctx.clock(),
		Scheduler: ctx.Scheduler,
		Theme:     settings.Theme,
		Sender:    ctx.Notifier(),
	})
}
