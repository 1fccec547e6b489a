package cli

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/julianstephens/quitline/internal/constants"
	"github.com/julianstephens/quitline/internal/storage"
	"github.com/julianstephens/quitline/internal/storage/sqlite"
)

func TestInitCmd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quitline.json")
	var out bytes.Buffer
	ctx := &Context{Store: storage.NewJSONStore(path), Out: &out}

	if err := (&InitCmd{}).Run(ctx); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	assertContains(t, out.String(), "Initialized quitline storage at: "+path)

	settings, err := storage.GetSettings(ctx.Store)
	if err != nil {
		t.Fatalf("GetSettings failed: %v", err)
	}
	if settings != storage.DefaultSettings() {
		t.Errorf("settings = %+v, want defaults", settings)
	}
}

func TestInitCmd_Force(t *testing.T) {
	env, cleanup := setupTestContext(t, "quitline.db")
	defer cleanup()
	env.setQuitDate(t, "2026-03-01")

	if err := (&InitCmd{Force: true}).Run(env.ctx); err != nil {
		t.Fatalf("init --force failed: %v", err)
	}
	assertContains(t, env.out.String(), "Removed existing store")

	if _, ok, err := env.ctx.Store.Get(constants.KeyQuitDate); err != nil || ok {
		t.Errorf("quit date survived --force (ok=%v, err=%v)", ok, err)
	}
}

func TestInitCmd_Source(t *testing.T) {
	src := storage.NewJSONStore(filepath.Join(t.TempDir(), "old.json"))
	if err := src.Init(); err != nil {
		t.Fatalf("source Init failed: %v", err)
	}
	if err := src.Set(constants.KeyQuitDate, "2026-02-14"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	var out bytes.Buffer
	dst := sqlite.NewStore(filepath.Join(t.TempDir(), "new.db"))
	defer dst.Close()
	ctx := &Context{Store: dst, Out: &out}

	if err := (&InitCmd{Source: src.GetConfigPath()}).Run(ctx); err != nil {
		t.Fatalf("init --source failed: %v", err)
	}
	assertContains(t, out.String(), "✓ Copied 4 values")

	if v, _, _ := dst.Get(constants.KeyQuitDate); v != "2026-02-14" {
		t.Errorf("copied quit date = %q", v)
	}
}

func TestInitCmd_MissingSource(t *testing.T) {
	env, cleanup := setupTestContext(t, "quitline.db")
	defer cleanup()

	err := (&InitCmd{Source: filepath.Join(t.TempDir(), "missing.json")}).Run(env.ctx)
	if err == nil {
		t.Fatal("init with a missing source should fail")
	}
}
