package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/julianstephens/quitline/internal/clock"
)

var epoch = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

const wait = 2 * time.Second

type harness struct {
	fake   *clock.Fake
	ticks  chan time.Time
	saves  chan time.Time
	cancel context.CancelFunc
	done   chan error
}

func start(t *testing.T, cfg Config, tickErr error) *harness {
	t.Helper()
	h := &harness{
		fake:  clock.NewFake(epoch),
		ticks: make(chan time.Time, 16),
		saves: make(chan time.Time, 16),
		done:  make(chan error, 1),
	}
	s := New(h.fake, cfg).
		OnTick(func(now time.Time) error {
			h.ticks <- now
			return tickErr
		}).
		OnSave(func(now time.Time) error {
			h.saves <- now
			return nil
		})

	ctx, cancel := context.WithCancel(context.Background())
	h.cancel = cancel
	go func() { h.done <- s.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-h.done
	})

	// Run has created its tick and save tickers
	ready, stop := context.WithTimeout(context.Background(), wait)
	defer stop()
	if err := h.fake.BlockUntilContext(ready, 2); err != nil {
		t.Fatalf("scheduler never created its tickers: %v", err)
	}
	return h
}

func receive(t *testing.T, c <-chan time.Time, what string) time.Time {
	t.Helper()
	select {
	case v := <-c:
		return v
	case <-time.After(wait):
		t.Fatalf("timed out waiting for %s", what)
		return time.Time{}
	}
}

func TestRun_ImmediateTick(t *testing.T) {
	h := start(t, Config{TickInterval: time.Second, SaveInterval: time.Minute}, nil)

	if got := receive(t, h.ticks, "first tick"); !got.Equal(epoch) {
		t.Errorf("first tick at %v, want %v", got, epoch)
	}
}

func TestRun_TicksAndSaves(t *testing.T) {
	h := start(t, Config{TickInterval: time.Second, SaveInterval: 3 * time.Second}, nil)
	receive(t, h.ticks, "first tick")

	for i := 1; i <= 3; i++ {
		h.fake.Advance(time.Second)
		got := receive(t, h.ticks, "tick")
		if want := epoch.Add(time.Duration(i) * time.Second); !got.Equal(want) {
			t.Errorf("tick %d at %v, want %v", i, got, want)
		}
	}

	if got := receive(t, h.saves, "save"); !got.Equal(epoch.Add(3 * time.Second)) {
		t.Errorf("save at %v", got)
	}
	select {
	case extra := <-h.saves:
		t.Errorf("unexpected extra save at %v", extra)
	default:
	}
}

func TestRun_CallbackErrorsAreNotFatal(t *testing.T) {
	h := start(t, Config{TickInterval: time.Second, SaveInterval: time.Minute}, errors.New("render failed"))
	receive(t, h.ticks, "first tick")

	h.fake.Advance(time.Second)
	receive(t, h.ticks, "tick after error")
}

func TestRun_StopsOnCancel(t *testing.T) {
	h := start(t, Config{TickInterval: time.Second, SaveInterval: time.Minute}, nil)
	receive(t, h.ticks, "first tick")

	h.cancel()
	select {
	case err := <-h.done:
		if err != nil {
			t.Errorf("Run returned %v", err)
		}
		h.done <- err
	case <-time.After(wait):
		t.Fatal("Run did not return after cancel")
	}

	h.fake.Advance(time.Minute)
	select {
	case v := <-h.ticks:
		t.Errorf("tick after cancel at %v", v)
	case v := <-h.saves:
		t.Errorf("save after cancel at %v", v)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestNew_Defaults(t *testing.T) {
	s := New(nil, Config{})
	if got := s.Config(); got != DefaultConfig() {
		t.Errorf("Config() = %+v, want %+v", got, DefaultConfig())
	}
}
