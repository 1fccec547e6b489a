package tui

import (
	"strings"
	"testing"

	"github.com/julianstephens/quitline/internal/tracker"
)

func TestTrendChart(t *testing.T) {
	daily := func(counts ...int) tracker.CravingStats {
		var s tracker.CravingStats
		for i, c := range counts {
			s.Daily = append(s.Daily, tracker.DailyCount{Day: string(rune('a' + i)), Count: c})
		}
		return s
	}

	tests := []struct {
		name  string
		stats tracker.CravingStats
		want  string
	}{
		{"empty", tracker.CravingStats{}, "No craving data"},
		{"single day", daily(2), "last 1 days"},
		{"week", daily(0, 1, 3, 0, 2, 5, 1), "last 7 days"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TrendChart(tt.stats, 0)
			if !strings.Contains(got, tt.want) {
				t.Errorf("TrendChart() = %q, want it to contain %q", got, tt.want)
			}
		})
	}
}

func TestTrendChart_Width(t *testing.T) {
	stats := tracker.CravingStats{Daily: []tracker.DailyCount{{Day: "a", Count: 1}, {Day: "b", Count: 4}}}
	narrow := TrendChart(stats, 10)
	wide := TrendChart(stats, 40)

	lineWidth := func(chart string) int {
		return len([]rune(strings.Split(chart, "\n")[0]))
	}
	if lineWidth(wide) <= lineWidth(narrow) {
		t.Errorf("wide chart (%d) should be wider than narrow chart (%d)", lineWidth(wide), lineWidth(narrow))
	}
}
