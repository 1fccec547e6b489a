package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/quitline/internal/logger"
	"github.com/julianstephens/quitline/internal/scheduler"
	"github.com/julianstephens/quitline/internal/storage"
)

// Run shows the dashboard until the user quits or ctx is done. The scheduler
// and the store watcher run in their own goroutines and only talk to the
// program through Send. State is saved once more on the way out.
func Run(ctx context.Context, opts Options) error {
	m, err := NewModel(opts)
	if err != nil {
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(runCtx))

	sched := scheduler.New(m.clock, opts.Scheduler).
		OnTick(func(now time.Time) error {
			p.Send(tickMsg{now: now})
			return nil
		}).
		OnSave(func(now time.Time) error {
			p.Send(saveMsg{now: now})
			return nil
		})
	go func() {
		if err := sched.Run(runCtx); err != nil {
			logger.Warn("Scheduler stopped", "error", err)
		}
	}()

	if path, ok := watchPath(opts.Store); ok {
		w, err := newFileWatcher(path, func() { p.Send(reloadMsg{}) })
		if err != nil {
			logger.Warn("Store changes will not be picked up", "error", err)
		} else {
			go w.run(runCtx)
		}
	}

	final, runErr := p.Run()
	cancel()

	if fm, ok := final.(Model); ok && fm.tracker != nil && fm.dirty {
		if err := fm.tracker.Save(opts.Store); err != nil {
			return fmt.Errorf("failed to save state: %w", err)
		}
	}

	if runErr != nil {
		// cancellation of the caller's context is a normal exit
		if errors.Is(runErr, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("error running TUI: %w", runErr)
	}
	return nil
}

// watchPath returns the file to watch for external changes. Only the JSON
// store is watched.
func watchPath(p storage.Provider) (string, bool) {
	path := p.GetConfigPath()
	return path, strings.HasSuffix(strings.ToLower(path), ".json")
}
