package cli

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/julianstephens/quitline/internal/constants"
	"github.com/julianstephens/quitline/internal/storage"
	"github.com/julianstephens/quitline/internal/tracker"
)

func TestStatusCmd_NotStarted(t *testing.T) {
	env, cleanup := setupTestContext(t, "quitline.db")
	defer cleanup()

	if err := (&StatusCmd{}).Run(env.ctx); err != nil {
		t.Fatalf("status failed: %v", err)
	}
	assertContains(t, env.out.String(), "No quit date set")
}

func TestStatusCmd_Text(t *testing.T) {
	env, cleanup := setupTestContext(t, "quitline.db")
	defer cleanup()
	env.setQuitDate(t, "2026-03-01")

	if err := (&StatusCmd{}).Run(env.ctx); err != nil {
		t.Fatalf("status failed: %v", err)
	}
	assertContains(t, env.out.String(),
		"Smoke-free since 2026-03-01: 10d 12h 00m 00s",
		"Money saved:  300.00",
		"Milestones:   4/10, next in 4 days: Lung function increases",
	)
}

func TestStatusCmd_JSON(t *testing.T) {
	env, cleanup := setupTestContext(t, "quitline.json")
	defer cleanup()
	env.setQuitDate(t, "2026-03-01")
	env.set(t, constants.KeyDailyCost, "12.5")

	if err := (&StatusCmd{JSON: true}).Run(env.ctx); err != nil {
		t.Fatalf("status --json failed: %v", err)
	}

	var out statusOutput
	if err := json.Unmarshal([]byte(env.out.String()), &out); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, env.out.String())
	}
	if !out.Started || out.Duration.Days != 10 {
		t.Errorf("started = %v, days = %d", out.Started, out.Duration.Days)
	}
	if out.MoneySaved != "125.00" || out.DailyCost != "12.50" {
		t.Errorf("money saved = %s, daily cost = %s", out.MoneySaved, out.DailyCost)
	}
	if out.Progress.NextThreshold != 14 {
		t.Errorf("next threshold = %d, want 14", out.Progress.NextThreshold)
	}
}

func TestStatusCmd_NotInitialized(t *testing.T) {
	env, cleanup := setupTestContext(t, "quitline.json")
	defer cleanup()
	env.ctx.Store = storage.NewJSONStore(env.ctx.Store.GetConfigPath() + ".missing.json")

	err := (&StatusCmd{}).Run(env.ctx)
	if !errors.Is(err, storage.ErrNotInitialized) {
		t.Errorf("error = %v, want ErrNotInitialized", err)
	}
}

func TestNextMilestone(t *testing.T) {
	ms := []tracker.Milestone{{ThresholdDays: 1, Label: "one"}, {ThresholdDays: 3, Label: "three"}}
	tests := []struct {
		days int
		want string
	}{
		{0, "next in 1 day: one"},
		{1, "next in 2 days: three"},
		{5, "all milestones reached"},
	}
	for _, tt := range tests {
		snap := tracker.Snapshot{
			Duration:   tracker.Duration{Days: tt.days},
			Milestones: tracker.Completed(tt.days, ms),
		}
		if got := nextMilestone(snap); got != tt.want {
			t.Errorf("nextMilestone(%d days) = %q, want %q", tt.days, got, tt.want)
		}
	}
}

func TestBar(t *testing.T) {
	tests := []struct {
		fraction float64
		want     string
	}{
		{0, "░░░░"},
		{0.5, "██░░"},
		{1, "████"},
		{1.7, "████"},
		{-1, "░░░░"},
	}
	for _, tt := range tests {
		if got := bar(tt.fraction, 4); got != tt.want {
			t.Errorf("bar(%v) = %q, want %q", tt.fraction, got, tt.want)
		}
	}
}
