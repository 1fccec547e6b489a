package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/julianstephens/quitline/internal/notifier"
	"github.com/julianstephens/quitline/internal/scheduler"
	"github.com/julianstephens/quitline/internal/tracker"
)

type WatchCmd struct {
	Interval time.Duration `help:"Refresh interval (defaults to the configured tick interval)."`
}

// Run redraws one status line on every display tick and reloads the store
// on every persist tick, so changes made by other commands show up. It
// returns on SIGINT or SIGTERM.
func (c *WatchCmd) Run(ctx *Context) error {
	tr, err := ctx.LoadTracker()
	if err != nil {
		return err
	}

	cfg := ctx.Scheduler
	if c.Interval > 0 {
		cfg.TickInterval = c.Interval
	}

	runCtx, stop := signal.NotifyContext(ctx.context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	announcer := notifier.NewAnnouncer(ctx.Notifier())
	sched := scheduler.New(ctx.clock(), cfg).
		OnTick(func(now time.Time) error {
			snap := tr.Snapshot(now)
			announcer.Observe(snap)
			ctx.printf("\r\033[K%s", StatusLine(snap))
			return nil
		}).
		OnSave(func(time.Time) error {
			fresh, err := ctx.LoadTracker()
			if err != nil {
				return fmt.Errorf("failed to reload state: %w", err)
			}
			tr = fresh
			return nil
		})

	err = sched.Run(runCtx)
	ctx.println()
	return err
}

// StatusLine condenses a snapshot into one line.
func StatusLine(snap tracker.Snapshot) string {
	if !snap.Started {
		return "No quit date set"
	}
	parts := []string{
		snap.Duration.String(),
		"saved " + tracker.FormatMoney(snap.Metrics.MoneySaved),
		fmt.Sprintf("recovery %d%%", snap.Metrics.HealthScore),
	}
	if p := snap.Progress; p.CompletedCount < p.Total {
		left := p.NextThreshold - snap.Duration.Days
		parts = append(parts, fmt.Sprintf("next milestone in %d %s", left, plural(left, "day")))
	}
	return strings.Join(parts, " │ ")
}

func (c *Context) context() context.Context {
	if c.Ctx == nil {
		return context.Background()
	}
	return c.Ctx
}
