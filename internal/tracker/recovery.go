package tracker

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/julianstephens/quitline/internal/constants"
)

// RecoveryModel maps elapsed days to a bounded [0,100] recovery indicator.
// Implementations must be monotonically non-decreasing in days.
type RecoveryModel interface {
	Name() string
	Score(days int) int
	// Breakdown returns per-component values, or nil when the model has none.
	Breakdown(days int) []Component
}

// Component is one named curve contributing to a recovery score.
type Component struct {
	Name    string `json:"name"`
	Percent int    `json:"percent"`
}

// Step pairs a day threshold with the score reached once it is crossed.
type Step struct {
	ThresholdDays int `json:"days"`
	Score         int `json:"score"`
}

// StepTable scores elapsed days by the highest threshold not exceeding them.
type StepTable struct {
	steps []Step
}

var defaultSteps = []Step{
	{1, 5},
	{3, 10},
	{7, 15},
	{14, 25},
	{30, 35},
	{90, 50},
	{180, 65},
	{365, 80},
	{1825, 100},
}

// DefaultStepTable returns the reference step table.
func DefaultStepTable() *StepTable {
	t, _ := NewStepTable(defaultSteps)
	return t
}

// NewStepTable validates steps and returns a table over a private copy.
// Thresholds must be positive and strictly ascending, scores strictly
// ascending and no greater than 100.
func NewStepTable(steps []Step) (*StepTable, error) {
	if len(steps) == 0 {
		return nil, validationErr("steps", "at least one step is required")
	}
	for i, s := range steps {
		if s.ThresholdDays <= 0 {
			return nil, validationErr("steps", "threshold %d must be positive", s.ThresholdDays)
		}
		if s.Score < 0 || s.Score > 100 {
			return nil, validationErr("steps", "score %d out of range 0..100", s.Score)
		}
		if i > 0 {
			prev := steps[i-1]
			if s.ThresholdDays <= prev.ThresholdDays {
				return nil, validationErr("steps", "threshold %d does not follow %d", s.ThresholdDays, prev.ThresholdDays)
			}
			if s.Score <= prev.Score {
				return nil, validationErr("steps", "score %d does not follow %d", s.Score, prev.Score)
			}
		}
	}

	cp := make([]Step, len(steps))
	copy(cp, steps)
	return &StepTable{steps: cp}, nil
}

func (t *StepTable) Name() string { return constants.HealthModelTable }

func (t *StepTable) Score(days int) int {
	score := 0
	for _, s := range t.steps {
		if s.ThresholdDays > days {
			break
		}
		score = s.Score
	}
	return score
}

func (t *StepTable) Breakdown(int) []Component { return nil }

// Steps returns a copy of the table.
func (t *StepTable) Steps() []Step {
	cp := make([]Step, len(t.steps))
	copy(cp, t.steps)
	return cp
}

// Curve is a linear recovery curve saturating at Cap.
type Curve struct {
	Name string
	Rate decimal.Decimal
	Cap  int
}

// Value returns min(floor(days*rate), cap).
func (c Curve) Value(days int) int {
	if days <= 0 {
		return 0
	}
	v := decimal.NewFromInt(int64(days)).Mul(c.Rate).Floor().IntPart()
	if v > int64(c.Cap) {
		return c.Cap
	}
	return int(v)
}

// LinearCurves averages several saturating curves into one index.
type LinearCurves struct {
	curves []Curve
}

// DefaultLinearCurves returns the lung, heart and nicotine curves.
func DefaultLinearCurves() *LinearCurves {
	return &LinearCurves{curves: []Curve{
		{Name: "lung", Rate: decimal.RequireFromString("0.27"), Cap: 100},
		{Name: "heart", Rate: decimal.RequireFromString("0.137"), Cap: 50},
		{Name: "nicotine", Rate: decimal.RequireFromString("2.74"), Cap: 100},
	}}
}

func (l *LinearCurves) Name() string { return constants.HealthModelCurves }

func (l *LinearCurves) Score(days int) int {
	if len(l.curves) == 0 {
		return 0
	}
	sum := 0
	for _, c := range l.curves {
		sum += c.Value(days)
	}
	return sum / len(l.curves)
}

func (l *LinearCurves) Breakdown(days int) []Component {
	out := make([]Component, 0, len(l.curves))
	for _, c := range l.curves {
		out = append(out, Component{Name: c.Name, Percent: c.Value(days)})
	}
	return out
}

// ModelByName resolves a persisted health model name.
func ModelByName(name string) (RecoveryModel, error) {
	switch name {
	case constants.HealthModelTable, "":
		return DefaultStepTable(), nil
	case constants.HealthModelCurves:
		return DefaultLinearCurves(), nil
	default:
		return nil, fmt.Errorf("%w: unknown health model %q", ErrValidation, name)
	}
}
