package cli

import (
	"errors"
	"testing"

	"github.com/julianstephens/quitline/internal/tracker"
)

func TestParseMilestone(t *testing.T) {
	tests := []struct {
		in      string
		want    tracker.Milestone
		wantErr bool
	}{
		{in: "7:One week", want: tracker.Milestone{ThresholdDays: 7, Label: "One week"}},
		{in: " 30 : A month ", want: tracker.Milestone{ThresholdDays: 30, Label: "A month"}},
		{in: "10:ratio 1:2", want: tracker.Milestone{ThresholdDays: 10, Label: "ratio 1:2"}},
		{in: "seven:week", wantErr: true},
		{in: "7", wantErr: true},
		{in: "7:", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseMilestone(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseMilestone(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("parseMilestone(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestMilestonesSetCmd(t *testing.T) {
	env, cleanup := setupTestContext(t, "quitline.db")
	defer cleanup()

	cmd := &MilestonesSetCmd{Milestones: []string{"2:Two days", "5:Five days"}}
	if err := cmd.Run(env.ctx); err != nil {
		t.Fatalf("milestones set failed: %v", err)
	}
	assertContains(t, env.out.String(), "✓ 2 milestones saved")

	tr, err := env.ctx.LoadTracker()
	if err != nil {
		t.Fatalf("LoadTracker failed: %v", err)
	}
	if ms := tr.Milestones(); len(ms) != 2 || ms[1].Label != "Five days" {
		t.Errorf("milestones = %+v", ms)
	}

	if err := (&MilestonesSetCmd{Defaults: true}).Run(env.ctx); err != nil {
		t.Fatalf("milestones set --defaults failed: %v", err)
	}
	tr, _ = env.ctx.LoadTracker()
	if len(tr.Milestones()) != len(tracker.DefaultMilestones()) {
		t.Errorf("got %d milestones after --defaults", len(tr.Milestones()))
	}
}

func TestMilestonesSetCmd_Invalid(t *testing.T) {
	env, cleanup := setupTestContext(t, "quitline.db")
	defer cleanup()

	tests := []struct {
		name string
		cmd  MilestonesSetCmd
	}{
		{"no arguments", MilestonesSetCmd{}},
		{"defaults with arguments", MilestonesSetCmd{Defaults: true, Milestones: []string{"1:x"}}},
		{"descending", MilestonesSetCmd{Milestones: []string{"5:b", "2:a"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cmd.Run(env.ctx); err == nil {
				t.Error("expected an error")
			}
		})
	}

	err := (&MilestonesSetCmd{Milestones: []string{"0:zero"}}).Run(env.ctx)
	if !errors.Is(err, tracker.ErrValidation) {
		t.Errorf("zero threshold error = %v, want ErrValidation", err)
	}
}

func TestMilestonesListCmd(t *testing.T) {
	env, cleanup := setupTestContext(t, "quitline.db")
	defer cleanup()
	env.setQuitDate(t, "2026-03-01")

	if err := (&MilestonesListCmd{}).Run(env.ctx); err != nil {
		t.Fatalf("milestones list failed: %v", err)
	}
	assertContains(t, env.out.String(),
		"✓     7 days Circulation improves",
		"○    14 days Lung function increases",
		"4/10 completed",
		"to day 14",
	)
}
