package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/quitline/internal/constants"
	"github.com/julianstephens/quitline/internal/tracker"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case constants.StateRecordCraving:
		content = m.viewForm("Record a craving")
	case constants.StateSetQuitDate:
		content = m.viewForm("Set quit date")
	default:
		content = m.viewDashboard()
	}

	return m.styles.Doc.Render(lipgloss.JoinVertical(
		lipgloss.Left,
		m.styles.Title.Render("🚭 "+constants.AppName),
		"",
		content,
		m.viewToast(),
		m.help.View(m.keys),
	))
}

func (m Model) viewForm(title string) string {
	if m.form == nil {
		return ""
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		m.styles.Value.Render(title),
		m.form.View(),
		m.styles.Muted.Render("esc to cancel"),
	)
}

func (m Model) viewDashboard() string {
	if !m.snap.Started {
		return m.styles.Panel.Render(lipgloss.JoinVertical(lipgloss.Left,
			m.styles.Value.Render("No quit date set"),
			m.styles.Muted.Render("Press d to set one."),
		))
	}

	top := lipgloss.JoinHorizontal(lipgloss.Top,
		m.viewCounters(),
		m.viewMoney(),
	)
	return lipgloss.JoinVertical(lipgloss.Left,
		top,
		m.viewHealth(),
		m.viewMilestones(),
		m.styles.Success.Render(m.snap.Motivation),
		"",
		m.viewCravings(),
	)
}

func (m Model) viewCounters() string {
	d := m.snap.Duration
	cells := []string{
		m.counter(d.Days, "days"),
		m.counter(d.Hours, "hours"),
		m.counter(d.Minutes, "minutes"),
		m.counter(d.Seconds, "seconds"),
	}
	return m.styles.Panel.Render(lipgloss.JoinVertical(lipgloss.Left,
		m.styles.Label.Render("Smoke-free since "+m.snap.QuitDate),
		lipgloss.JoinHorizontal(lipgloss.Top, cells...),
	))
}

func (m Model) counter(n int, unit string) string {
	return lipgloss.NewStyle().Padding(0, 1).Render(lipgloss.JoinVertical(lipgloss.Center,
		m.styles.Value.Render(fmt.Sprintf("%02d", n)),
		m.styles.Label.Render(unit),
	))
}

func (m Model) viewMoney() string {
	met := m.snap.Metrics
	lines := []string{
		m.row("Saved", tracker.FormatMoney(met.MoneySaved)),
		m.row("Per day", tracker.FormatMoney(met.TodaySaved)),
		m.row("30 days", tracker.FormatMoney(met.MonthSaved)),
		m.row("Average", tracker.FormatMoney(met.AverageDaily)),
	}
	if goal := m.tracker.SavingsGoal(); goal.IsPositive() {
		lines = append(lines,
			m.styles.Label.Render(fmt.Sprintf("Goal %s (%.0f%%)", tracker.FormatMoney(goal), met.GoalProgress*100)),
			m.goalBar.ViewAs(met.GoalProgress),
		)
	}
	return m.styles.Panel.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (m Model) row(label, value string) string {
	return m.styles.Label.Render(fmt.Sprintf("%-8s ", label)) + m.styles.Value.Render(value)
}

func (m Model) viewHealth() string {
	met := m.snap.Metrics
	lines := []string{
		m.styles.Label.Render(fmt.Sprintf("Recovery %d%% (%s)", met.HealthScore, met.HealthModel)),
		m.healthBar.ViewAs(float64(met.HealthScore) / 100),
	}
	for _, c := range met.Breakdown {
		lines = append(lines, m.styles.Muted.Render(fmt.Sprintf("  %-14s %3d%%", c.Name, c.Percent)))
	}
	return m.styles.Panel.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (m Model) viewMilestones() string {
	var lines []string
	for _, ms := range m.snap.Milestones {
		mark := m.styles.Muted.Render("○")
		label := m.styles.Muted.Render(ms.Label)
		if ms.Completed {
			mark = m.styles.Success.Render("✓")
			label = ms.Label
		}
		lines = append(lines, fmt.Sprintf("%s %5dd  %s", mark, ms.ThresholdDays, label))
	}
	if len(lines) == 0 {
		lines = append(lines, m.styles.Muted.Render("No milestones configured"))
	}

	p := m.snap.Progress
	if p.CompletedCount < p.Total {
		left := p.NextThreshold - m.snap.Duration.Days
		lines = append(lines, "",
			m.styles.Label.Render(fmt.Sprintf("Next milestone in %d %s", left, plural(left, "day"))),
			m.milestoneBar.ViewAs(p.FractionToNext),
		)
	} else if p.Total > 0 {
		lines = append(lines, "", m.styles.Success.Render("All milestones reached"))
	}

	return m.styles.Panel.Render(lipgloss.JoinVertical(lipgloss.Left,
		append([]string{m.styles.Value.Render(fmt.Sprintf("Milestones %d/%d", p.CompletedCount, p.Total))}, lines...)...,
	))
}

func (m Model) viewCravings() string {
	width := 0
	if m.width > chartPadding*2 {
		width = m.width - chartPadding*2
	}
	lines := []string{
		m.styles.Value.Render(fmt.Sprintf("Cravings %d, average intensity %.1f", m.stats.Total, m.stats.AverageIntensity)),
		TrendChart(m.stats, width),
	}
	for _, r := range m.tracker.RecentCravings(recentCravings) {
		line := fmt.Sprintf("%s  %s", r.Timestamp.In(m.tracker.Location()).Format(constants.DateFormat+" "+constants.TimeFormat), tracker.IntensityLabel(r.Intensity))
		if r.CopingMethod != "" {
			line += ", " + r.CopingMethod
		}
		lines = append(lines, m.styles.Muted.Render(line))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m Model) viewToast() string {
	if m.toast == nil || m.toast.text == "" {
		return ""
	}
	if m.toast.severity == tracker.SeverityError {
		return m.styles.Danger.Render("❌ " + m.toast.text)
	}
	return m.styles.Success.Render("✓ " + m.toast.text)
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
