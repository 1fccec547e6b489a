package cli

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/julianstephens/quitline/internal/tracker"
)

func TestCravingAddCmd(t *testing.T) {
	env, cleanup := setupTestContext(t, "quitline.db")
	defer cleanup()

	cmd := &CravingAddCmd{Intensity: 4, Method: "walk", Note: "after coffee"}
	if err := cmd.Run(env.ctx); err != nil {
		t.Fatalf("craving add failed: %v", err)
	}
	assertContains(t, env.out.String(), "✓ Craving recorded (very strong)", "Coped with: walk")

	tr, err := env.ctx.LoadTracker()
	if err != nil {
		t.Fatalf("LoadTracker failed: %v", err)
	}
	cravings := tr.Cravings()
	if len(cravings) != 1 {
		t.Fatalf("got %d cravings, want 1", len(cravings))
	}
	if c := cravings[0]; c.Intensity != 4 || c.Note != "after coffee" || !c.Timestamp.Equal(testNow) {
		t.Errorf("craving = %+v", c)
	}
}

func TestCravingAddCmd_InvalidIntensity(t *testing.T) {
	env, cleanup := setupTestContext(t, "quitline.db")
	defer cleanup()

	err := (&CravingAddCmd{Intensity: 9}).Run(env.ctx)
	if !errors.Is(err, tracker.ErrValidation) {
		t.Errorf("error = %v, want ErrValidation", err)
	}
}

func addCravings(t *testing.T, env *testEnv, intensities ...int) {
	t.Helper()
	for _, i := range intensities {
		if err := (&CravingAddCmd{Intensity: i, Method: "water"}).Run(env.ctx); err != nil {
			t.Fatalf("craving add failed: %v", err)
		}
		env.clock.Advance(time.Hour)
	}
	env.out.Reset()
}

func TestCravingListCmd(t *testing.T) {
	env, cleanup := setupTestContext(t, "quitline.json")
	defer cleanup()

	if err := (&CravingListCmd{Limit: 20}).Run(env.ctx); err != nil {
		t.Fatalf("craving list failed: %v", err)
	}
	assertContains(t, env.out.String(), "No cravings recorded.")
	env.out.Reset()

	addCravings(t, env, 1, 2, 3)
	if err := (&CravingListCmd{Limit: 2}).Run(env.ctx); err != nil {
		t.Fatalf("craving list failed: %v", err)
	}
	assertContains(t, env.out.String(), "2026-03-11 14:00  strong", "2 of 3 records shown")
}

func TestCravingListCmd_JSON(t *testing.T) {
	env, cleanup := setupTestContext(t, "quitline.db")
	defer cleanup()

	if err := (&CravingListCmd{Limit: 20, JSON: true}).Run(env.ctx); err != nil {
		t.Fatalf("craving list --json failed: %v", err)
	}
	var empty []tracker.CravingRecord
	if err := json.Unmarshal([]byte(env.out.String()), &empty); err != nil || empty == nil {
		t.Fatalf("empty list should be a JSON array, got %q (err=%v)", env.out.String(), err)
	}
	env.out.Reset()

	addCravings(t, env, 2, 4)
	if err := (&CravingListCmd{Limit: 20, JSON: true}).Run(env.ctx); err != nil {
		t.Fatalf("craving list --json failed: %v", err)
	}
	var records []tracker.CravingRecord
	if err := json.Unmarshal([]byte(env.out.String()), &records); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if len(records) != 2 || records[0].Intensity != 4 {
		t.Errorf("records = %+v, want newest first", records)
	}
}

func TestCravingStatsCmd(t *testing.T) {
	env, cleanup := setupTestContext(t, "quitline.db")
	defer cleanup()
	addCravings(t, env, 1, 3)

	if err := (&CravingStatsCmd{Days: 7}).Run(env.ctx); err != nil {
		t.Fatalf("craving stats failed: %v", err)
	}
	assertContains(t, env.out.String(),
		"Cravings: 2 total, average intensity 2.0",
		"afternoon     2 ▪▪",
		"Last 7 days:",
		"Cravings per day, last 7 days",
	)

	if err := (&CravingStatsCmd{Days: 0}).Run(env.ctx); err == nil {
		t.Error("--days 0 should fail")
	}
}
