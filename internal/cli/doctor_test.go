package cli

import (
	"testing"

	"github.com/julianstephens/quitline/internal/constants"
	"github.com/julianstephens/quitline/internal/storage"
)

func TestDoctorCmd_Healthy(t *testing.T) {
	env, cleanup := setupTestContext(t, "quitline.db")
	defer cleanup()
	env.setQuitDate(t, "2026-03-01")
	env.ctx.PerformAutomaticBackup()

	if err := (&DoctorCmd{}).Run(env.ctx); err != nil {
		t.Fatalf("doctor failed: %v\n%s", err, env.out.String())
	}
	assertContains(t, env.out.String(),
		"✓ Store reachable: OK",
		"✓ Schema version: OK",
		"✓ Backups present: OK",
		"All diagnostics passed!",
	)
}

func TestDoctorCmd_NoBackupsWarns(t *testing.T) {
	env, cleanup := setupTestContext(t, "quitline.json")
	defer cleanup()

	if err := (&DoctorCmd{}).Run(env.ctx); err != nil {
		t.Fatalf("missing backups should only warn: %v", err)
	}
	assertContains(t, env.out.String(), "⚠ Backups present: WARNING")
}

func TestDoctorCmd_Failures(t *testing.T) {
	t.Run("unreachable store", func(t *testing.T) {
		env, cleanup := setupTestContext(t, "quitline.json")
		defer cleanup()
		env.ctx.Store = storage.NewJSONStore(env.ctx.Store.GetConfigPath() + ".missing.json")

		if err := (&DoctorCmd{}).Run(env.ctx); err == nil {
			t.Fatal("doctor should fail")
		}
		assertContains(t, env.out.String(),
			"❌ Store reachable: FAIL",
			"⊘ Data validation: SKIPPED (store not reachable)",
		)
	})

	t.Run("corrupt value", func(t *testing.T) {
		env, cleanup := setupTestContext(t, "quitline.db")
		defer cleanup()
		env.set(t, constants.KeyDailyCost, "lots")

		if err := (&DoctorCmd{}).Run(env.ctx); err == nil {
			t.Fatal("doctor should fail")
		}
		assertContains(t, env.out.String(), "❌ Data validation: FAIL", constants.KeyDailyCost)
	})

	t.Run("future quit date", func(t *testing.T) {
		env, cleanup := setupTestContext(t, "quitline.db")
		defer cleanup()
		env.setQuitDate(t, "2026-04-01")

		if err := (&DoctorCmd{}).Run(env.ctx); err == nil {
			t.Fatal("doctor should fail")
		}
		assertContains(t, env.out.String(), "❌ Clock/timezone: FAIL")
	})
}
