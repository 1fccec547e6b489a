// Package tracker computes elapsed time, savings, recovery and milestone
// progress for a single quit attempt, and owns the mutable tracker state.
package tracker

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/julianstephens/quitline/internal/clock"
	"github.com/julianstephens/quitline/internal/constants"
	"github.com/julianstephens/quitline/internal/utils"
)

var (
	defaultDailyCost   = decimal.RequireFromString(constants.DefaultDailyCost)
	defaultSavingsGoal = decimal.RequireFromString(constants.DefaultSavingsGoal)
)

// DefaultDailyCost is the daily cost used until one is set, and after Reset.
func DefaultDailyCost() decimal.Decimal { return defaultDailyCost }

// DefaultSavingsGoal is the savings goal used until one is set.
func DefaultSavingsGoal() decimal.Decimal { return defaultSavingsGoal }

// QuitRecord is the recorded quit date and daily cost.
type QuitRecord struct {
	// QuitDate is YYYY-MM-DD, or empty when unset.
	QuitDate  string
	DailyCost decimal.Decimal
}

// Tracker holds the state of one quit attempt. It is not safe for
// concurrent mutation; callers drive it from one goroutine.
type Tracker struct {
	record      QuitRecord
	milestones  []Milestone
	cravings    *CravingLog
	recovery    RecoveryModel
	savingsGoal decimal.Decimal

	clock    clock.Clock
	loc      *time.Location
	notifier Notifier
	newID    func() string
}

// Option configures a Tracker.
type Option func(*Tracker)

func WithClock(c clock.Clock) Option {
	return func(t *Tracker) { t.clock = c }
}

func WithLocation(loc *time.Location) Option {
	return func(t *Tracker) {
		if loc != nil {
			t.loc = loc
		}
	}
}

func WithNotifier(n Notifier) Option {
	return func(t *Tracker) {
		if n != nil {
			t.notifier = n
		}
	}
}

func WithRecoveryModel(m RecoveryModel) Option {
	return func(t *Tracker) {
		if m != nil {
			t.recovery = m
		}
	}
}

// WithIDGenerator overrides craving id generation.
func WithIDGenerator(fn func() string) Option {
	return func(t *Tracker) {
		if fn != nil {
			t.newID = fn
		}
	}
}

// WithCravingCapacity overrides the craving log size.
func WithCravingCapacity(n int) Option {
	return func(t *Tracker) { t.cravings = NewCravingLog(n) }
}

// New returns a tracker with no quit date, the default daily cost, the
// default milestones and the step table recovery model.
func New(opts ...Option) *Tracker {
	t := &Tracker{
		record:      QuitRecord{DailyCost: defaultDailyCost},
		milestones:  DefaultMilestones(),
		cravings:    NewCravingLog(constants.MaxCravingRecords),
		recovery:    DefaultStepTable(),
		savingsGoal: defaultSavingsGoal,
		clock:       clock.System(),
		loc:         time.Local,
		notifier:    discard{},
		newID:       uuid.NewString,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *Tracker) QuitDate() string                     { return t.record.QuitDate }
func (t *Tracker) DailyCost() decimal.Decimal           { return t.record.DailyCost }
func (t *Tracker) SavingsGoal() decimal.Decimal         { return t.savingsGoal }
func (t *Tracker) RecoveryModel() RecoveryModel         { return t.recovery }
func (t *Tracker) Location() *time.Location             { return t.loc }
func (t *Tracker) Clock() clock.Clock                   { return t.clock }
func (t *Tracker) Cravings() []CravingRecord            { return t.cravings.Records() }
func (t *Tracker) RecentCravings(n int) []CravingRecord { return t.cravings.Recent(n) }

// Milestones returns a copy of the milestone list.
func (t *Tracker) Milestones() []Milestone {
	cp := make([]Milestone, len(t.milestones))
	copy(cp, t.milestones)
	return cp
}

// QuitInstant returns local midnight of the quit date, or the zero time.
func (t *Tracker) QuitInstant() time.Time {
	if t.record.QuitDate == "" {
		return time.Time{}
	}
	q, err := utils.ParseDateInLocation(t.record.QuitDate, t.loc)
	if err != nil {
		return time.Time{}
	}
	return q
}

// SetQuitDate records the quit date. It fails with ErrInvalidDate when date
// is not YYYY-MM-DD or is after today in the tracker's location.
func (t *Tracker) SetQuitDate(date string) error {
	q, err := utils.ParseDateInLocation(date, t.loc)
	if err != nil {
		return t.fail(fmt.Errorf("%w: %q is not YYYY-MM-DD", ErrInvalidDate, date))
	}
	today := utils.StartOfDay(t.clock.Now().In(t.loc))
	if q.After(today) {
		return t.fail(fmt.Errorf("%w: %s is in the future", ErrInvalidDate, date))
	}
	t.record.QuitDate = q.Format(constants.DateFormat)
	t.succeed("Quit date set to %s", t.record.QuitDate)
	return nil
}

// ClearQuitDate unsets the quit date.
func (t *Tracker) ClearQuitDate() {
	t.record.QuitDate = ""
	t.succeed("Quit date cleared")
}

// SetDailyCost fails with ErrInvalidAmount for negative amounts.
func (t *Tracker) SetDailyCost(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return t.fail(fmt.Errorf("%w: daily cost %s is negative", ErrInvalidAmount, amount))
	}
	t.record.DailyCost = amount
	t.succeed("Daily cost set to %s", FormatMoney(amount))
	return nil
}

// SetSavingsGoal fails with ErrInvalidAmount for negative amounts.
// A zero goal disables goal progress.
func (t *Tracker) SetSavingsGoal(goal decimal.Decimal) error {
	if goal.IsNegative() {
		return t.fail(fmt.Errorf("%w: savings goal %s is negative", ErrInvalidAmount, goal))
	}
	t.savingsGoal = goal
	t.succeed("Savings goal set to %s", FormatMoney(goal))
	return nil
}

// SetMilestones replaces the milestone list after validating it.
func (t *Tracker) SetMilestones(ms []Milestone) error {
	if err := ValidateMilestones(ms); err != nil {
		return t.fail(err)
	}
	cp := make([]Milestone, len(ms))
	copy(cp, ms)
	t.milestones = cp
	t.succeed("Milestones updated (%d)", len(cp))
	return nil
}

func (t *Tracker) SetRecoveryModel(m RecoveryModel) error {
	if m == nil {
		return t.fail(validationErr("health_model", "model is required"))
	}
	t.recovery = m
	t.succeed("Health model set to %s", m.Name())
	return nil
}

// RecordCraving appends a craving stamped with the current time.
func (t *Tracker) RecordCraving(intensity int, method, note string) (CravingRecord, error) {
	if err := ValidateIntensity(intensity); err != nil {
		return CravingRecord{}, t.fail(err)
	}
	r := CravingRecord{
		ID:           t.newID(),
		Timestamp:    t.clock.Now().UTC(),
		Intensity:    intensity,
		CopingMethod: method,
		Note:         note,
	}
	t.cravings.Append(r)
	t.succeed("Craving recorded")
	return r, nil
}

// Reset clears the quit date and craving log and restores the default daily
// cost. Milestones, recovery model and savings goal are kept.
func (t *Tracker) Reset() {
	t.record = QuitRecord{DailyCost: defaultDailyCost}
	t.cravings.Clear()
	t.succeed("Tracker reset")
}

// Snapshot is everything the presentation layer renders at one instant.
type Snapshot struct {
	Taken      time.Time
	QuitDate   string
	Started    bool
	Duration   Duration
	Metrics    Metrics
	Progress   MilestoneProgress
	Milestones []MilestoneStatus
	Motivation string
}

// Snapshot reads the state at now. It never mutates the tracker.
func (t *Tracker) Snapshot(now time.Time) Snapshot {
	quit := t.QuitInstant()
	d := Elapsed(quit, now)
	return Snapshot{
		Taken:    now,
		QuitDate: t.record.QuitDate,
		Started:  !quit.IsZero(),
		Duration: d,
		Metrics: ComputeMetrics(d, MetricsConfig{
			DailyCost:   t.record.DailyCost,
			SavingsGoal: t.savingsGoal,
			Recovery:    t.recovery,
		}),
		Progress:   ComputeProgress(d.Days, t.milestones),
		Milestones: Completed(d.Days, t.milestones),
		Motivation: Motivation(d.Days),
	}
}

// Now is Snapshot at the tracker clock's current time.
func (t *Tracker) Now() Snapshot {
	return t.Snapshot(t.clock.Now())
}

// CravingStats aggregates the craving log over the last days.
func (t *Tracker) CravingStats(days int) CravingStats {
	return ComputeCravingStats(t.cravings.Records(), t.clock.Now(), days, t.loc)
}

func (t *Tracker) fail(err error) error {
	t.notifier.Notify(Notification{Message: err.Error(), Severity: SeverityError})
	return err
}

func (t *Tracker) succeed(format string, args ...interface{}) {
	t.notifier.Notify(Notification{Message: fmt.Sprintf(format, args...), Severity: SeveritySuccess})
}
