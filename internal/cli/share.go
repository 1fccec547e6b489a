package cli

import (
	"fmt"

	"github.com/atotto/clipboard"

	"github.com/julianstephens/quitline/internal/tracker"
)

var clipboardWrite = clipboard.WriteAll

type ShareCmd struct {
	Copy bool `help:"Copy the text to the clipboard."`
}

func (c *ShareCmd) Run(ctx *Context) error {
	tr, err := ctx.LoadTracker()
	if err != nil {
		return err
	}
	snap := tr.Now()
	if !snap.Started {
		return fmt.Errorf("no quit date set, nothing to share yet")
	}

	text := tracker.ShareText(snap)
	ctx.println(text)

	if c.Copy {
		if err := clipboardWrite(text); err != nil {
			return fmt.Errorf("failed to copy to clipboard: %w", err)
		}
		ctx.println("✓ Copied to clipboard")
	}
	return nil
}
