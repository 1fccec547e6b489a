package main

import (
	"context"
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/quitline/internal/cli"
	"github.com/julianstephens/quitline/internal/config"
	"github.com/julianstephens/quitline/internal/constants"
	"github.com/julianstephens/quitline/internal/errors"
	"github.com/julianstephens/quitline/internal/logger"
	"github.com/julianstephens/quitline/internal/scheduler"
	"github.com/julianstephens/quitline/internal/storage/postgres"
)

var CLI struct {
	Version  kong.VersionFlag
	Config   string `help:"Store file path (*.db or *.json) or PostgreSQL connection string. Passwords must not be embedded; use the keyring, QUITLINE_DB_CONNECTION or .pgpass." default:"${config_path}"`
	Debug    bool   `help:"Enable debug logging to stderr."`
	Timezone string `help:"Timezone override, e.g. Europe/Berlin." default:"${timezone}"`

	Init   cli.InitCmd   `cmd:"" help:"Initialize quitline storage."`
	Tui    cli.TuiCmd    `cmd:"" help:"Launch the interactive dashboard." default:"1"`
	Status cli.StatusCmd `cmd:"" help:"Show progress since the quit date."`
	Watch  cli.WatchCmd  `cmd:"" help:"Show a live status line until interrupted."`
	Quit   struct {
		Set   cli.QuitSetCmd   `cmd:"" help:"Set the quit date."`
		Clear cli.QuitClearCmd `cmd:"" help:"Clear the quit date."`
	} `cmd:"" help:"Manage the quit date."`
	Cost struct {
		Set cli.CostSetCmd `cmd:"" help:"Set the daily cost of smoking."`
	} `cmd:"" help:"Manage the daily cost."`
	Craving struct {
		Add   cli.CravingAddCmd   `cmd:"" help:"Record a craving."`
		List  cli.CravingListCmd  `cmd:"" help:"List recent cravings."`
		Stats cli.CravingStatsCmd `cmd:"" help:"Show craving statistics."`
	} `cmd:"" help:"Track cravings."`
	Milestones struct {
		List cli.MilestonesListCmd `cmd:"" help:"List milestones and their status." default:"1"`
		Set  cli.MilestonesSetCmd  `cmd:"" help:"Replace the milestone list."`
	} `cmd:"" help:"Manage milestones."`
	Share    cli.ShareCmd    `cmd:"" help:"Print shareable progress text."`
	Reset    cli.ResetCmd    `cmd:"" help:"Start over: clear the quit date and cravings."`
	Settings cli.SettingsCmd `cmd:"" help:"View or change settings."`
	Backup   struct {
		Create  cli.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    cli.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore cli.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage store backups."`
	Keyring struct {
		Set    cli.KeyringSetCmd    `cmd:"" help:"Store a PostgreSQL connection string in the OS keyring."`
		Get    cli.KeyringGetCmd    `cmd:"" help:"Show the stored connection string with the password masked."`
		Delete cli.KeyringDeleteCmd `cmd:"" help:"Remove the stored connection string."`
		Status cli.KeyringStatusCmd `cmd:"" help:"Check keyring availability."`
	} `cmd:"" help:"Manage the PostgreSQL connection string in the OS keyring."`
	Migrate  cli.MigrateCmd `cmd:"" help:"Run database migrations."`
	Doctor   cli.DoctorCmd  `cmd:"" help:"Run health checks and diagnostics."`
	DebugCmd cli.DebugCmd   `cmd:"" name:"debug" help:"Debug commands for troubleshooting."`
}

func main() {
	cfg := config.Load()

	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Quit smoking tracker: time smoke-free, money saved, recovery and cravings"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":     constants.Version,
			"config_path": cfg.ConfigPath,
			"timezone":    cfg.Timezone,
		},
	)

	// logs and backups live next to a local store
	if !postgres.IsConnString(CLI.Config) {
		cfg.ConfigPath = CLI.Config
	}
	cfg.Debug = cfg.Debug || CLI.Debug
	if err := logger.Init(logger.Config{Debug: cfg.Debug, ConfigDir: cfg.ConfigDir()}); err != nil {
		fmt.Fprintf(os.Stderr, "⚠ Failed to initialize logging: %v\n", err)
	}

	store, err := cli.OpenStore(cli.StoreOptions{
		Path:       config.ExpandPath(CLI.Config),
		Connection: cfg.DBConnection,
		UseKeyring: CLI.Config == constants.DefaultConfigPath,
	})
	if err != nil {
		errors.Fatal(err)
	}
	defer store.Close()

	appCtx := &cli.Context{
		Store: store,
		Scheduler: scheduler.Config{
			TickInterval: cfg.TickInterval,
			SaveInterval: cfg.SaveInterval,
		},
		Timezone: CLI.Timezone,
		Ctx:      context.Background(),
	}

	if err := ctx.Run(appCtx); err != nil {
		store.Close()
		errors.Fatal(err)
	}
}
