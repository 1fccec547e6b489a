package cli

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/quitline/internal/constants"
	"github.com/julianstephens/quitline/internal/scheduler"
	"github.com/julianstephens/quitline/internal/tracker"
)

func TestStatusLine(t *testing.T) {
	ms := tracker.DefaultMilestones()
	tests := []struct {
		name string
		snap tracker.Snapshot
		want []string
	}{
		{name: "not started", snap: tracker.Snapshot{}, want: []string{"No quit date set"}},
		{
			name: "in progress",
			snap: tracker.Snapshot{
				Started:  true,
				Duration: tracker.Duration{Days: 10, Hours: 3},
				Progress: tracker.ComputeProgress(10, ms),
			},
			want: []string{"10d 03h 00m 00s", "saved 0.00", "recovery 0%", "next milestone in 4 days"},
		},
		{
			name: "all reached",
			snap: tracker.Snapshot{
				Started:  true,
				Duration: tracker.Duration{Days: 2000},
				Progress: tracker.ComputeProgress(2000, ms),
			},
			want: []string{"2000d 00h 00m 00s"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StatusLine(tt.snap)
			assertContains(t, got, tt.want...)
			if tt.name == "all reached" && strings.Contains(got, "next milestone") {
				t.Errorf("StatusLine = %q, want no next milestone", got)
			}
		})
	}
}

func TestWatchCmd_ReloadsStore(t *testing.T) {
	env, cleanup := setupTestContext(t, "quitline.db")
	defer cleanup()
	env.set(t, constants.SettingNotificationsEnabled, "false")
	env.ctx.Scheduler = scheduler.Config{TickInterval: time.Second, SaveInterval: 2 * time.Second}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	env.ctx.Ctx = ctx

	done := make(chan error, 1)
	go func() { done <- (&WatchCmd{}).Run(env.ctx) }()

	waitFor(t, env, "No quit date set", nil)

	env.setQuitDate(t, "2026-03-01")
	waitFor(t, env, "saved 300.00", func() { env.clock.Advance(2 * time.Second) })

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("watch returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}
}

// waitFor polls the output for want, calling step between polls.
func waitFor(t *testing.T, env *testEnv, want string, step func()) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if strings.Contains(env.out.String(), want) {
			return
		}
		if step != nil {
			step()
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %q in:\n%s", want, env.out.String())
}
