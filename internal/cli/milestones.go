package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/julianstephens/quitline/internal/tracker"
)

type MilestonesListCmd struct{}

func (c *MilestonesListCmd) Run(ctx *Context) error {
	tr, err := ctx.LoadTracker()
	if err != nil {
		return err
	}
	snap := tr.Now()

	if len(snap.Milestones) == 0 {
		ctx.println("No milestones configured.")
		return nil
	}
	for _, m := range snap.Milestones {
		mark := "○"
		if m.Completed {
			mark = "✓"
		}
		ctx.printf("%s %5d %-4s %s\n", mark, m.ThresholdDays, plural(m.ThresholdDays, "day"), m.Label)
	}

	p := snap.Progress
	ctx.printf("\n%d/%d completed  %s %.0f%% to day %d\n",
		p.CompletedCount, p.Total, bar(p.FractionToNext, 20), p.FractionToNext*100, p.NextThreshold)
	return nil
}

type MilestonesSetCmd struct {
	Milestones []string `arg:"" optional:"" help:"Milestones as DAYS:LABEL, in ascending order."`
	Defaults   bool     `help:"Restore the default milestone list."`
}

func (c *MilestonesSetCmd) Run(ctx *Context) error {
	var ms []tracker.Milestone
	switch {
	case c.Defaults:
		if len(c.Milestones) > 0 {
			return fmt.Errorf("--defaults cannot be combined with milestone arguments")
		}
		ms = tracker.DefaultMilestones()
	case len(c.Milestones) == 0:
		return fmt.Errorf("provide milestones as DAYS:LABEL or use --defaults")
	default:
		for _, arg := range c.Milestones {
			m, err := parseMilestone(arg)
			if err != nil {
				return err
			}
			ms = append(ms, m)
		}
	}

	tr, err := ctx.LoadTracker()
	if err != nil {
		return err
	}
	if err := tr.SetMilestones(ms); err != nil {
		return err
	}
	if err := ctx.SaveTracker(tr); err != nil {
		return err
	}

	ctx.printf("✓ %d milestones saved\n", len(ms))
	return nil
}

func parseMilestone(s string) (tracker.Milestone, error) {
	days, label, ok := strings.Cut(s, ":")
	if !ok {
		return tracker.Milestone{}, fmt.Errorf("invalid milestone %q: expected DAYS:LABEL", s)
	}
	n, err := strconv.Atoi(strings.TrimSpace(days))
	if err != nil {
		return tracker.Milestone{}, fmt.Errorf("invalid milestone %q: days must be an integer", s)
	}
	label = strings.TrimSpace(label)
	if label == "" {
		return tracker.Milestone{}, fmt.Errorf("invalid milestone %q: label is empty", s)
	}
	return tracker.Milestone{ThresholdDays: n, Label: label}, nil
}
