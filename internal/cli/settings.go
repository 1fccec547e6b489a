package cli

import (
	"fmt"

	"github.com/julianstephens/quitline/internal/constants"
	"github.com/julianstephens/quitline/internal/storage"
	"github.com/julianstephens/quitline/internal/tracker"
	"github.com/julianstephens/quitline/internal/utils"
)

type SettingsCmd struct {
	List bool `help:"List current settings."`

	HealthModel   *string `help:"Recovery model: table or curves." enum:"table,curves"`
	Goal          *string `help:"Savings goal amount."`
	Timezone      *string `help:"IANA timezone name or Local."`
	Notifications *bool   `help:"Enable or disable notifications." negatable:""`
	Theme         *string `help:"Dashboard theme: light or dark." enum:"light,dark"`
}

func (c *SettingsCmd) Run(ctx *Context) error {
	tr, err := ctx.LoadTracker()
	if err != nil {
		return err
	}
	settings, err := storage.GetSettings(ctx.Store)
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	if c.List {
		ctx.println("Current Settings:")
		ctx.printf("  Daily Cost:            %s\n", tracker.FormatMoney(tr.DailyCost()))
		ctx.printf("  Savings Goal:          %s\n", tracker.FormatMoney(tr.SavingsGoal()))
		ctx.printf("  Health Model:          %s\n", tr.RecoveryModel().Name())
		ctx.printf("  Timezone:              %s\n", settings.Timezone)
		ctx.printf("  Notifications Enabled: %v\n", settings.NotificationsEnabled)
		ctx.printf("  Theme:                 %s\n", settings.Theme)
		return nil
	}

	trackerChanged := false
	if c.HealthModel != nil {
		model, err := tracker.ModelByName(*c.HealthModel)
		if err != nil {
			return err
		}
		if err := tr.SetRecoveryModel(model); err != nil {
			return err
		}
		trackerChanged = true
	}
	if c.Goal != nil {
		goal, err := tracker.ParseAmount(*c.Goal)
		if err != nil {
			return err
		}
		if err := tr.SetSavingsGoal(goal); err != nil {
			return err
		}
		trackerChanged = true
	}

	settingsChanged := false
	if c.Timezone != nil {
		if !utils.ValidateTimezone(*c.Timezone) {
			return fmt.Errorf("invalid timezone %q", *c.Timezone)
		}
		settings.Timezone = *c.Timezone
		settingsChanged = true
	}
	if c.Notifications != nil {
		settings.NotificationsEnabled = *c.Notifications
		settingsChanged = true
	}
	if c.Theme != nil {
		settings.Theme = constants.Theme(*c.Theme)
		settingsChanged = true
	}

	if trackerChanged {
		if err := ctx.SaveTracker(tr); err != nil {
			return err
		}
	}
	if settingsChanged {
		if err := storage.SaveSettings(ctx.Store, settings); err != nil {
			return fmt.Errorf("failed to save settings: %w", err)
		}
	}

	if trackerChanged || settingsChanged {
		ctx.println("Settings updated successfully.")
	} else {
		ctx.println("No changes specified. Use --list to view settings or flags to update them.")
	}
	return nil
}
