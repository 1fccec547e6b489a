// Package scheduler drives the periodic refresh and persist callbacks of
// the dashboard and the watch command.
package scheduler

import (
	"context"
	"time"

	"github.com/julianstephens/quitline/internal/clock"
	"github.com/julianstephens/quitline/internal/constants"
	"github.com/julianstephens/quitline/internal/logger"
)

// Func is a periodic callback. A returned error is logged and the loop
// keeps running.
type Func func(now time.Time) error

type Config struct {
	TickInterval time.Duration
	SaveInterval time.Duration
}

// DefaultConfig ticks every second and saves every minute.
func DefaultConfig() Config {
	return Config{
		TickInterval: constants.DefaultTickInterval,
		SaveInterval: constants.DefaultSaveInterval,
	}
}

// Scheduler runs a display tick and a persist tick on one goroutine, so the
// two callbacks never overlap.
type Scheduler struct {
	clock  clock.Clock
	cfg    Config
	onTick Func
	onSave Func
}

// New creates a Scheduler. Non-positive intervals take the defaults.
func New(c clock.Clock, cfg Config) *Scheduler {
	def := DefaultConfig()
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = def.TickInterval
	}
	if cfg.SaveInterval <= 0 {
		cfg.SaveInterval = def.SaveInterval
	}
	if c == nil {
		c = clock.System()
	}
	return &Scheduler{clock: c, cfg: cfg}
}

func (s *Scheduler) OnTick(f Func) *Scheduler {
	s.onTick = f
	return s
}

func (s *Scheduler) OnSave(f Func) *Scheduler {
	s.onSave = f
	return s
}

func (s *Scheduler) Config() Config { return s.cfg }

// Run fires one display tick immediately, then both callbacks at their
// intervals until ctx is done. A Scheduler runs at most once.
func (s *Scheduler) Run(ctx context.Context) error {
	tick := s.clock.NewTicker(s.cfg.TickInterval)
	defer tick.Stop()
	save := s.clock.NewTicker(s.cfg.SaveInterval)
	defer save.Stop()

	s.call("tick", s.onTick, s.clock.Now())

	for {
		select {
		case <-ctx.Done():
			logger.Debug("Scheduler stopped", "reason", ctx.Err())
			return nil
		case now := <-tick.Chan():
			s.call("tick", s.onTick, now)
		case now := <-save.Chan():
			s.call("save", s.onSave, now)
		}
	}
}

func (s *Scheduler) call(name string, f Func, now time.Time) {
	if f == nil {
		return
	}
	if err := f(now); err != nil {
		logger.Warn("Scheduled callback failed", "callback", name, "error", err)
	}
}
