// Package clock is the time seam shared by the tracker, the scheduler and
// the commands. The wall clock and the fake one both come from clockwork.
package clock

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// Clock supplies the current instant and tickers.
type Clock = clockwork.Clock

// Ticker delivers ticks on Chan until stopped.
type Ticker = clockwork.Ticker

// Fake is a manually advanced Clock. Its tickers fire only from Advance.
type Fake = clockwork.FakeClock

// System returns a Clock backed by the wall clock.
func System() Clock {
	return clockwork.NewRealClock()
}

// NewFake creates a Fake clock reading t.
func NewFake(t time.Time) *Fake {
	return clockwork.NewFakeClockAt(t)
}
