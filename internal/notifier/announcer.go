package notifier

import (
	"fmt"
	"sync"

	"github.com/julianstephens/quitline/internal/logger"
	"github.com/julianstephens/quitline/internal/tracker"
)

// Sender delivers one notification.
type Sender interface {
	Send(text string) error
}

// Announcer sends a notification for each milestone that becomes completed
// between two snapshots. The first snapshot only sets the baseline.
type Announcer struct {
	mu        sync.Mutex
	sender    Sender
	completed map[int]bool
	primed    bool
}

func NewAnnouncer(sender Sender) *Announcer {
	return &Announcer{sender: sender, completed: make(map[int]bool)}
}

// Observe announces the milestones completed since the previous snapshot and
// returns them.
func (a *Announcer) Observe(snap tracker.Snapshot) []tracker.Milestone {
	reached := a.Diff(snap)
	a.Announce(reached)
	return reached
}

// Diff records snap as the new baseline and returns the milestones that
// became completed since the previous one. Nothing is sent, so callers can
// diff in order and deliver elsewhere.
func (a *Announcer) Diff(snap tracker.Snapshot) []tracker.Milestone {
	a.mu.Lock()
	defer a.mu.Unlock()

	var reached []tracker.Milestone
	current := make(map[int]bool, len(snap.Milestones))
	for _, m := range snap.Milestones {
		if !m.Completed {
			continue
		}
		current[m.ThresholdDays] = true
		if a.primed && !a.completed[m.ThresholdDays] {
			reached = append(reached, m.Milestone)
		}
	}
	a.completed = current
	a.primed = true
	return reached
}

// Announce sends one notification per milestone. Failures are logged.
func (a *Announcer) Announce(reached []tracker.Milestone) {
	for _, m := range reached {
		text := fmt.Sprintf("Milestone reached: %s (%d days smoke-free)", m.Label, m.ThresholdDays)
		if err := a.sender.Send(text); err != nil {
			logger.Warn("Failed to announce milestone", "days", m.ThresholdDays, "error", err)
		}
	}
}
