package tui

import (
	"fmt"

	"github.com/guptarohit/asciigraph"

	"github.com/julianstephens/quitline/internal/tracker"
)

const chartHeight = 5

// TrendChart plots daily craving counts oldest first. A width of zero lets
// the chart size itself to the number of days.
func TrendChart(stats tracker.CravingStats, width int) string {
	data := stats.Series()
	if len(data) == 0 {
		return "No craving data"
	}
	// asciigraph needs two points to draw a line
	if len(data) == 1 {
		data = append(data, data[0])
	}

	caption := fmt.Sprintf("Cravings per day, last %d days", len(stats.Daily))
	opts := []asciigraph.Option{
		asciigraph.Height(chartHeight),
		asciigraph.Precision(0),
		asciigraph.LowerBound(0),
		asciigraph.Caption(caption),
	}
	if width > 0 {
		opts = append(opts, asciigraph.Width(width))
	}
	return asciigraph.Plot(data, opts...)
}
