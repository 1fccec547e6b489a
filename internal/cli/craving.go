package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/julianstephens/quitline/internal/constants"
	"github.com/julianstephens/quitline/internal/tracker"
	"github.com/julianstephens/quitline/internal/tui"
)

type CravingAddCmd struct {
	Intensity int    `help:"Intensity from 1 (mild) to 4 (very strong)." short:"i" default:"3"`
	Method    string `help:"How you coped, e.g. walk, water or breathing." short:"m"`
	Note      string `help:"Optional note." short:"n"`
}

func (c *CravingAddCmd) Run(ctx *Context) error {
	tr, err := ctx.LoadTracker()
	if err != nil {
		return err
	}
	rec, err := tr.RecordCraving(c.Intensity, c.Method, c.Note)
	if err != nil {
		return err
	}
	if err := ctx.SaveTracker(tr); err != nil {
		return err
	}

	ctx.printf("✓ Craving recorded (%s)\n", tracker.IntensityLabel(rec.Intensity))
	if rec.CopingMethod != "" {
		ctx.printf("  Coped with: %s\n", rec.CopingMethod)
	}
	ctx.println(tr.Now().Motivation)
	return nil
}

type CravingListCmd struct {
	Limit int  `help:"Maximum number of records to show." default:"20"`
	JSON  bool `help:"Print records as JSON." name:"json"`
}

func (c *CravingListCmd) Run(ctx *Context) error {
	tr, err := ctx.LoadTracker()
	if err != nil {
		return err
	}
	records := tr.RecentCravings(c.Limit)

	if c.JSON {
		if records == nil {
			records = []tracker.CravingRecord{}
		}
		data, err := json.MarshalIndent(records, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal cravings: %w", err)
		}
		ctx.println(string(data))
		return nil
	}

	if len(records) == 0 {
		ctx.println("No cravings recorded.")
		return nil
	}

	loc := tr.Location()
	for _, rec := range records {
		line := fmt.Sprintf("%s  %-11s", rec.Timestamp.In(loc).Format(constants.DateFormat+" "+constants.TimeFormat), tracker.IntensityLabel(rec.Intensity))
		if rec.CopingMethod != "" {
			line += "  " + rec.CopingMethod
		}
		if rec.Note != "" {
			line += "  \"" + rec.Note + "\""
		}
		ctx.println(strings.TrimRight(line, " "))
	}
	ctx.printf("\n%d of %d records shown\n", len(records), len(tr.Cravings()))
	return nil
}

type CravingStatsCmd struct {
	Days int `help:"Number of days in the trend chart." default:"7"`
}

func (c *CravingStatsCmd) Run(ctx *Context) error {
	if c.Days < 1 {
		return fmt.Errorf("--days must be at least 1")
	}
	tr, err := ctx.LoadTracker()
	if err != nil {
		return err
	}
	stats := tr.CravingStats(c.Days)

	ctx.printf("Cravings: %d total, average intensity %.1f\n\n", stats.Total, stats.AverageIntensity)
	ctx.println("By time of day:")
	for _, b := range stats.ByTimeOfDay {
		ctx.printf("  %-11s %3d %s\n", b.Bucket, b.Count, strings.Repeat("▪", b.Count))
	}

	ctx.printf("\nLast %d days:\n", c.Days)
	ctx.println(tui.TrendChart(stats, 0))
	return nil
}
