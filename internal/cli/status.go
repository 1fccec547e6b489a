package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/julianstephens/quitline/internal/tracker"
)

type StatusCmd struct {
	JSON bool `help:"Print the snapshot as JSON." name:"json"`
}

type statusOutput struct {
	QuitDate     string                    `json:"quit_date,omitempty"`
	Started      bool                      `json:"started"`
	Duration     tracker.Duration          `json:"duration"`
	DailyCost    string                    `json:"daily_cost"`
	MoneySaved   string                    `json:"money_saved"`
	MonthSaved   string                    `json:"month_saved"`
	AverageDaily string                    `json:"average_daily"`
	SavingsGoal  string                    `json:"savings_goal"`
	GoalProgress float64                   `json:"goal_progress"`
	HealthScore  int                       `json:"health_score"`
	HealthModel  string                    `json:"health_model"`
	Breakdown    []tracker.Component       `json:"breakdown,omitempty"`
	Progress     tracker.MilestoneProgress `json:"progress"`
	Motivation   string                    `json:"motivation"`
}

func (c *StatusCmd) Run(ctx *Context) error {
	tr, err := ctx.LoadTracker()
	if err != nil {
		return err
	}
	snap := tr.Now()

	if c.JSON {
		m := snap.Metrics
		out := statusOutput{
			QuitDate:     snap.QuitDate,
			Started:      snap.Started,
			Duration:     snap.Duration,
			DailyCost:    tracker.FormatMoney(tr.DailyCost()),
			MoneySaved:   tracker.FormatMoney(m.MoneySaved),
			MonthSaved:   tracker.FormatMoney(m.MonthSaved),
			AverageDaily: tracker.FormatMoney(m.AverageDaily),
			SavingsGoal:  tracker.FormatMoney(tr.SavingsGoal()),
			GoalProgress: m.GoalProgress,
			HealthScore:  m.HealthScore,
			HealthModel:  m.HealthModel,
			Breakdown:    m.Breakdown,
			Progress:     snap.Progress,
			Motivation:   snap.Motivation,
		}
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal status: %w", err)
		}
		ctx.println(string(data))
		return nil
	}

	if !snap.Started {
		ctx.println("No quit date set. Use 'quitline quit set YYYY-MM-DD' to start tracking.")
		return nil
	}

	m := snap.Metrics
	ctx.printf("Smoke-free since %s: %s\n", snap.QuitDate, snap.Duration)
	ctx.printf("Money saved:  %s (this month %s, %s/day)\n",
		tracker.FormatMoney(m.MoneySaved), tracker.FormatMoney(m.MonthSaved), tracker.FormatMoney(m.AverageDaily))
	ctx.printf("Savings goal: %s %s %.0f%%\n", tracker.FormatMoney(tr.SavingsGoal()), bar(m.GoalProgress, 20), m.GoalProgress*100)
	ctx.printf("Recovery:     %d%% (%s)\n", m.HealthScore, m.HealthModel)
	for _, comp := range m.Breakdown {
		ctx.printf("  %-10s %d%%\n", comp.Name, comp.Percent)
	}
	ctx.printf("Milestones:   %d/%d, %s\n", snap.Progress.CompletedCount, snap.Progress.Total, nextMilestone(snap))
	ctx.println()
	ctx.println(snap.Motivation)
	return nil
}

func nextMilestone(snap tracker.Snapshot) string {
	for _, m := range snap.Milestones {
		if !m.Completed {
			left := m.ThresholdDays - snap.Duration.Days
			return fmt.Sprintf("next in %d %s: %s", left, plural(left, "day"), m.Label)
		}
	}
	return "all milestones reached"
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}

// bar renders fraction as a fixed-width text bar.
func bar(fraction float64, width int) string {
	filled := int(fraction * float64(width))
	if filled < 0 {
		filled = 0
	}
	if filled > width {
		filled = width
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}
