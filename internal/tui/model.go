package tui

import (
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/quitline/internal/clock"
	"github.com/julianstephens/quitline/internal/constants"
	"github.com/julianstephens/quitline/internal/logger"
	"github.com/julianstephens/quitline/internal/notifier"
	"github.com/julianstephens/quitline/internal/scheduler"
	"github.com/julianstephens/quitline/internal/storage"
	"github.com/julianstephens/quitline/internal/tracker"
)

const (
	trendDays      = 7
	barWidth       = 30
	maxBarWidth    = 50
	chartPadding   = 12
	recentCravings = 3
)

// Options configures the dashboard.
type Options struct {
	Store storage.Provider
	// Load reads the tracker from Store. The dashboard appends its own
	// notifier option.
	Load      func(opts ...tracker.Option) (*tracker.Tracker, error)
	Clock     clock.Clock
	Scheduler scheduler.Config
	Theme     constants.Theme
	// Sender announces newly reached milestones. Nil disables announcements.
	Sender notifier.Sender
	// Clipboard receives share text. Nil uses the system clipboard.
	Clipboard func(string) error
}

type (
	tickMsg   struct{ now time.Time }
	saveMsg   struct{ now time.Time }
	reloadMsg struct{}
	shareMsg  struct{ err error }
)

// toast is the last notification shown under the dashboard. It is shared by
// pointer so the tracker's notifier can write to it.
type toast struct {
	text     string
	severity tracker.Severity
}

type Model struct {
	store     storage.Provider
	load      func(opts ...tracker.Option) (*tracker.Tracker, error)
	tracker   *tracker.Tracker
	clock     clock.Clock
	announcer *notifier.Announcer
	clipboard func(string) error

	state        constants.SessionState
	keys         KeyMap
	help         help.Model
	theme        constants.Theme
	styles       Styles
	healthBar    progress.Model
	milestoneBar progress.Model
	goalBar      progress.Model

	form        *huh.Form
	cravingForm *CravingFormModel
	dateForm    *QuitDateFormModel

	snap          tracker.Snapshot
	stats         tracker.CravingStats
	toast         *toast
	pendingReload bool
	// dirty marks changes not yet written to the store.
	dirty    bool
	quitting bool
	width    int
	height   int
}

// NewModel loads the tracker and computes the first snapshot.
func NewModel(opts Options) (Model, error) {
	if opts.Store == nil || opts.Load == nil {
		return Model{}, fmt.Errorf("dashboard needs a store and a loader")
	}
	c := opts.Clock
	if c == nil {
		c = clock.System()
	}
	copyFn := opts.Clipboard
	if copyFn == nil {
		copyFn = clipboard.WriteAll
	}

	m := Model{
		store:        opts.Store,
		load:         opts.Load,
		clock:        c,
		clipboard:    copyFn,
		state:        constants.StateDashboard,
		keys:         DefaultKeyMap(),
		help:         help.New(),
		healthBar:    newBar(),
		milestoneBar: newBar(),
		goalBar:      newBar(),
		toast:        &toast{},
	}
	if opts.Sender != nil {
		m.announcer = notifier.NewAnnouncer(opts.Sender)
	}
	m.setTheme(opts.Theme)

	tr, err := m.load(m.trackerOptions()...)
	if err != nil {
		return Model{}, err
	}
	m.tracker = tr
	m.refresh(c.Now())
	return m, nil
}

func newBar() progress.Model {
	return progress.New(
		progress.WithScaledGradient("#ff6b6b", "#51cf66"),
		progress.WithWidth(barWidth),
		progress.WithoutPercentage(),
	)
}

// trackerOptions routes tracker notifications to the toast and the log.
func (m *Model) trackerOptions() []tracker.Option {
	t := m.toast
	logging := notifier.Logging()
	return []tracker.Option{
		tracker.WithNotifier(tracker.NotifierFunc(func(n tracker.Notification) {
			t.text = n.Message
			t.severity = n.Severity
			logging.Notify(n)
		})),
	}
}

func (m *Model) setTheme(theme constants.Theme) {
	if theme != constants.ThemeDark {
		theme = constants.ThemeLight
	}
	m.theme = theme
	m.styles = StylesFor(theme)
}

func (m *Model) notify(text string, severity tracker.Severity) {
	m.toast.text = text
	m.toast.severity = severity
}

func (m *Model) refresh(now time.Time) {
	m.snap = m.tracker.Snapshot(now)
	m.stats = m.tracker.CravingStats(trendDays)
}

func (m *Model) save() {
	if err := m.tracker.Save(m.store); err != nil {
		logger.Error("Failed to save state", "error", err)
		m.notify(fmt.Sprintf("Save failed: %v", err), tracker.SeverityError)
		return
	}
	m.dirty = false
}

// persist runs on the persist tick. Unsaved changes are written; otherwise
// the store is reloaded so writes from other processes are shown instead of
// overwritten.
func (m *Model) persist() {
	if m.dirty {
		m.save()
		return
	}
	if m.state != constants.StateDashboard {
		m.pendingReload = true
		return
	}
	m.reload()
}

// reload replaces the tracker with the stored state.
func (m *Model) reload() {
	tr, err := m.load(m.trackerOptions()...)
	if err != nil {
		logger.Warn("Failed to reload state", "error", err)
		m.notify(fmt.Sprintf("Reload failed: %v", err), tracker.SeverityError)
		return
	}
	m.tracker = tr
	m.dirty = false
	m.refresh(m.clock.Now())
}

func (m *Model) resizeBars() {
	w := m.width - 24
	if w > maxBarWidth {
		w = maxBarWidth
	}
	if w < 10 {
		w = 10
	}
	m.healthBar.Width = w
	m.milestoneBar.Width = w
	m.goalBar.Width = w
}

// Tracker returns the tracker the dashboard currently shows.
func (m Model) Tracker() *tracker.Tracker {
	return m.tracker
}

func (m Model) Init() tea.Cmd {
	return nil
}
