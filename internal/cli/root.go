package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/julianstephens/quitline/internal/backup"
	"github.com/julianstephens/quitline/internal/clock"
	"github.com/julianstephens/quitline/internal/logger"
	"github.com/julianstephens/quitline/internal/notifier"
	"github.com/julianstephens/quitline/internal/scheduler"
	"github.com/julianstephens/quitline/internal/storage"
	"github.com/julianstephens/quitline/internal/tracker"
	"github.com/julianstephens/quitline/internal/utils"
)

// Context is shared by every command.
type Context struct {
	Store     storage.Provider
	Clock     clock.Clock
	Scheduler scheduler.Config
	// Timezone overrides the stored timezone setting when set.
	Timezone string

	// Ctx bounds long-running commands. Nil means context.Background.
	Ctx context.Context

	Out io.Writer
	In  io.Reader
}

func (c *Context) out() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

func (c *Context) in() io.Reader {
	if c.In == nil {
		return os.Stdin
	}
	return c.In
}

func (c *Context) clock() clock.Clock {
	if c.Clock == nil {
		return clock.System()
	}
	return c.Clock
}

func (c *Context) printf(format string, args ...interface{}) {
	fmt.Fprintf(c.out(), format, args...)
}

func (c *Context) println(args ...interface{}) {
	fmt.Fprintln(c.out(), args...)
}

// Location resolves the timezone from the override or the stored setting.
// An invalid override is an error; an unusable stored zone falls back to
// time.Local with a warning.
func (c *Context) Location() (*time.Location, error) {
	if c.Timezone != "" {
		loc, err := utils.LoadLocation(c.Timezone)
		if err != nil {
			return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
		}
		return loc, nil
	}

	settings, err := storage.GetSettings(c.Store)
	if err != nil {
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}
	loc, err := utils.LoadLocation(settings.Timezone)
	if err != nil {
		logger.Warn("Stored timezone unusable, using local time", "timezone", settings.Timezone, "error", err)
		return time.Local, nil
	}
	return loc, nil
}

// Notifier returns a notifier honouring the notifications setting.
func (c *Context) Notifier() *notifier.Notifier {
	settings, err := storage.GetSettings(c.Store)
	if err != nil {
		logger.Warn("Failed to read settings, notifications disabled", "error", err)
		return notifier.New(false)
	}
	return notifier.New(settings.NotificationsEnabled)
}

// LoadTracker loads the store and the tracker state it holds.
func (c *Context) LoadTracker(opts ...tracker.Option) (*tracker.Tracker, error) {
	if err := c.Store.Load(); err != nil {
		return nil, err
	}
	loc, err := c.Location()
	if err != nil {
		return nil, err
	}
	base := []tracker.Option{
		tracker.WithClock(c.clock()),
		tracker.WithLocation(loc),
		tracker.WithNotifier(notifier.Logging()),
	}
	return tracker.Load(c.Store, append(base, opts...)...)
}

// SaveTracker persists tr into the store.
func (c *Context) SaveTracker(tr *tracker.Tracker) error {
	if err := tr.Save(c.Store); err != nil {
		return fmt.Errorf("failed to save state: %w", err)
	}
	return nil
}

// PerformAutomaticBackup creates a backup of a local store and only logs
// failures.
func (c *Context) PerformAutomaticBackup() {
	if !isLocalStore(c.Store) {
		return
	}
	mgr := backup.NewManager(c.Store.GetConfigPath(), backup.WithClock(c.clock()))
	if _, err := mgr.CreateBackup(); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}

func isLocalStore(p storage.Provider) bool {
	return p.GetConfigPath() != "postgresql"
}

// confirm asks a yes/no question on In and defaults to no.
func (c *Context) confirm(question string) (bool, error) {
	c.printf("%s [y/N]: ", question)
	response, err := bufio.NewReader(c.in()).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes", nil
}
