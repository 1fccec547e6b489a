package cli

import (
	"github.com/julianstephens/quitline/internal/tracker"
	"github.com/julianstephens/quitline/internal/utils"
)

type QuitSetCmd struct {
	Date string `arg:"" help:"Quit date (YYYY-MM-DD or 'today')."`
}

func (c *QuitSetCmd) Run(ctx *Context) error {
	tr, err := ctx.LoadTracker()
	if err != nil {
		return err
	}

	date := c.Date
	if date == "today" {
		date = utils.FormatDate(tr.Clock().Now(), tr.Location())
	}
	if err := tr.SetQuitDate(date); err != nil {
		return err
	}
	if err := ctx.SaveTracker(tr); err != nil {
		return err
	}

	ctx.printf("✓ Quit date set to %s\n", tr.QuitDate())
	return nil
}

type QuitClearCmd struct{}

func (c *QuitClearCmd) Run(ctx *Context) error {
	tr, err := ctx.LoadTracker()
	if err != nil {
		return err
	}
	tr.ClearQuitDate()
	if err := ctx.SaveTracker(tr); err != nil {
		return err
	}
	ctx.println("✓ Quit date cleared")
	return nil
}

type CostSetCmd struct {
	Amount string `arg:"" help:"Daily cost of smoking, e.g. 12.50."`
}

func (c *CostSetCmd) Run(ctx *Context) error {
	amount, err := tracker.ParseAmount(c.Amount)
	if err != nil {
		return err
	}

	tr, err := ctx.LoadTracker()
	if err != nil {
		return err
	}
	if err := tr.SetDailyCost(amount); err != nil {
		return err
	}
	if err := ctx.SaveTracker(tr); err != nil {
		return err
	}

	ctx.printf("✓ Daily cost set to %s\n", tracker.FormatMoney(tr.DailyCost()))
	return nil
}
