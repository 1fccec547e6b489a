package tracker

import (
	"github.com/shopspring/decimal"
)

const monthDays = 30

// MetricsConfig carries the inputs to ComputeMetrics besides elapsed time.
type MetricsConfig struct {
	DailyCost   decimal.Decimal
	SavingsGoal decimal.Decimal
	Recovery    RecoveryModel
}

// Metrics are the money and health values derived from a Duration.
// Money fields are rounded to cents.
type Metrics struct {
	MoneySaved   decimal.Decimal
	TodaySaved   decimal.Decimal
	MonthSaved   decimal.Decimal
	AverageDaily decimal.Decimal
	GoalProgress float64
	HealthScore  int
	HealthModel  string
	Breakdown    []Component
}

// ComputeMetrics derives money saved and the recovery score from d.
// Money saved is zero whenever d.Days is zero.
func ComputeMetrics(d Duration, cfg MetricsConfig) Metrics {
	model := cfg.Recovery
	if model == nil {
		model = DefaultStepTable()
	}

	days := decimal.NewFromInt(int64(d.Days))
	saved := RoundMoney(days.Mul(cfg.DailyCost))

	m := Metrics{
		MoneySaved:   saved,
		TodaySaved:   RoundMoney(cfg.DailyCost),
		MonthSaved:   RoundMoney(decimal.NewFromInt(int64(min(d.Days, monthDays))).Mul(cfg.DailyCost)),
		AverageDaily: decimal.Zero,
		HealthScore:  model.Score(d.Days),
		HealthModel:  model.Name(),
		Breakdown:    model.Breakdown(d.Days),
	}

	if d.Days > 0 {
		m.AverageDaily = RoundMoney(saved.Div(days))
	}

	if cfg.SavingsGoal.IsPositive() {
		p, _ := saved.Div(cfg.SavingsGoal).Float64()
		m.GoalProgress = clamp01(p)
	}

	return m
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
