package tracker

import (
	"fmt"
	"time"
)

const (
	msPerSecond = int64(1000)
	msPerMinute = 60 * msPerSecond
	msPerHour   = 60 * msPerMinute
	msPerDay    = 24 * msPerHour
)

// Duration is the breakdown of time elapsed since the quit instant.
// Hours, Minutes and Seconds are always within their clock ranges.
type Duration struct {
	Days    int `json:"days"`
	Hours   int `json:"hours"`
	Minutes int `json:"minutes"`
	Seconds int `json:"seconds"`
}

// Elapsed returns the time between quit and now, truncated to whole seconds.
//
// A zero quit means no quit date has been recorded and yields the zero
// Duration. A quit instant after now also yields the zero Duration; elapsed
// time is never negative.
func Elapsed(quit, now time.Time) Duration {
	if quit.IsZero() {
		return Duration{}
	}

	delta := now.Sub(quit).Milliseconds()
	if delta <= 0 {
		return Duration{}
	}

	days := delta / msPerDay
	rem := delta % msPerDay
	hours := rem / msPerHour
	rem %= msPerHour
	minutes := rem / msPerMinute
	rem %= msPerMinute
	seconds := rem / msPerSecond

	return Duration{
		Days:    int(days),
		Hours:   int(hours),
		Minutes: int(minutes),
		Seconds: int(seconds),
	}
}

// IsZero reports whether no time has elapsed.
func (d Duration) IsZero() bool {
	return d == Duration{}
}

func (d Duration) String() string {
	return fmt.Sprintf("%dd %02dh %02dm %02ds", d.Days, d.Hours, d.Minutes, d.Seconds)
}
