package cli

type ResetCmd struct {
	Yes bool `help:"Skip the confirmation prompt." short:"y"`
}

func (c *ResetCmd) Run(ctx *Context) error {
	tr, err := ctx.LoadTracker()
	if err != nil {
		return err
	}

	if !c.Yes {
		ctx.println("⚠️  This clears your quit date and craving log and resets the daily cost.")
		ok, err := ctx.confirm("Continue?")
		if err != nil {
			return err
		}
		if !ok {
			ctx.println("Reset cancelled.")
			return nil
		}
	}

	ctx.PerformAutomaticBackup()
	tr.Reset()
	if err := ctx.SaveTracker(tr); err != nil {
		return err
	}
	ctx.println("✓ Tracker reset")
	return nil
}
