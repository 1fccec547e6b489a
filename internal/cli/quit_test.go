package cli

import (
	"errors"
	"testing"

	"github.com/julianstephens/quitline/internal/constants"
	"github.com/julianstephens/quitline/internal/tracker"
)

func TestQuitSetCmd(t *testing.T) {
	tests := []struct {
		name    string
		date    string
		want    string
		wantErr error
	}{
		{name: "date", date: "2026-03-01", want: "2026-03-01"},
		{name: "today", date: "today", want: "2026-03-11"},
		{name: "future", date: "2026-03-12", wantErr: tracker.ErrInvalidDate},
		{name: "malformed", date: "03/01/2026", wantErr: tracker.ErrInvalidDate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env, cleanup := setupTestContext(t, "quitline.db")
			defer cleanup()

			err := (&QuitSetCmd{Date: tt.date}).Run(env.ctx)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				if got := env.get(t, constants.KeyQuitDate); got != "" {
					t.Errorf("quit date stored after failure: %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("quit set failed: %v", err)
			}
			if got := env.get(t, constants.KeyQuitDate); got != tt.want {
				t.Errorf("stored quit date = %q, want %q", got, tt.want)
			}
			assertContains(t, env.out.String(), "✓ Quit date set to "+tt.want)
		})
	}
}

func TestQuitClearCmd(t *testing.T) {
	env, cleanup := setupTestContext(t, "quitline.json")
	defer cleanup()
	env.setQuitDate(t, "2026-03-01")

	if err := (&QuitClearCmd{}).Run(env.ctx); err != nil {
		t.Fatalf("quit clear failed: %v", err)
	}
	if got := env.get(t, constants.KeyQuitDate); got != "" {
		t.Errorf("quit date = %q after clear", got)
	}
}

func TestCostSetCmd(t *testing.T) {
	env, cleanup := setupTestContext(t, "quitline.db")
	defer cleanup()

	if err := (&CostSetCmd{Amount: "12.5"}).Run(env.ctx); err != nil {
		t.Fatalf("cost set failed: %v", err)
	}
	assertContains(t, env.out.String(), "✓ Daily cost set to 12.50")
	if got := env.get(t, constants.KeyDailyCost); got != "12.5" {
		t.Errorf("stored daily cost = %q", got)
	}

	for _, bad := range []string{"-1", "abc", ""} {
		if err := (&CostSetCmd{Amount: bad}).Run(env.ctx); !errors.Is(err, tracker.ErrInvalidAmount) {
			t.Errorf("cost set %q error = %v, want ErrInvalidAmount", bad, err)
		}
	}
}
