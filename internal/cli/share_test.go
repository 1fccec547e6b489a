package cli

import (
	"errors"
	"testing"
)

func stubClipboard(t *testing.T, err error) *string {
	t.Helper()
	var copied string
	orig := clipboardWrite
	clipboardWrite = func(s string) error {
		copied = s
		return err
	}
	t.Cleanup(func() { clipboardWrite = orig })
	return &copied
}

func TestShareCmd(t *testing.T) {
	env, cleanup := setupTestContext(t, "quitline.db")
	defer cleanup()
	env.setQuitDate(t, "2026-03-01")
	copied := stubClipboard(t, nil)

	if err := (&ShareCmd{}).Run(env.ctx); err != nil {
		t.Fatalf("share failed: %v", err)
	}
	assertContains(t, env.out.String(), "🚭 10 days quit, saved 300.00", "#quitsmoking")
	if *copied != "" {
		t.Errorf("clipboard written without --copy: %q", *copied)
	}

	env.out.Reset()
	if err := (&ShareCmd{Copy: true}).Run(env.ctx); err != nil {
		t.Fatalf("share --copy failed: %v", err)
	}
	assertContains(t, env.out.String(), "✓ Copied to clipboard")
	assertContains(t, *copied, "10 days quit")
}

func TestShareCmd_Errors(t *testing.T) {
	env, cleanup := setupTestContext(t, "quitline.db")
	defer cleanup()

	if err := (&ShareCmd{}).Run(env.ctx); err == nil {
		t.Error("share without a quit date should fail")
	}

	env.setQuitDate(t, "2026-03-01")
	stubClipboard(t, errors.New("no clipboard"))
	if err := (&ShareCmd{Copy: true}).Run(env.ctx); err == nil {
		t.Error("clipboard failure should be reported")
	}
}
