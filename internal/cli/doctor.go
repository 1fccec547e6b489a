package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/quitline/internal/storage"
	"github.com/julianstephens/quitline/internal/tracker"
	"github.com/julianstephens/quitline/internal/utils"
)

type DoctorCmd struct{}

type check struct {
	name string
	run  func(*Context) error
	// warnOnly checks never fail the run.
	warnOnly bool
	// needsStore checks are skipped when the store is unreachable.
	needsStore bool
}

var doctorChecks = []check{
	{name: "Schema version", run: checkSchemaVersion, needsStore: true},
	{name: "Migrations complete", run: checkMigrationsComplete, needsStore: true},
	{name: "Backups present", run: checkBackupsPresent, warnOnly: true},
	{name: "Data validation", run: checkValidation, needsStore: true},
	{name: "Clock/timezone", run: checkClockTimezone, needsStore: true},
}

func (cmd *DoctorCmd) Run(ctx *Context) error {
	ctx.println("Running diagnostics...")
	ctx.println()

	hasError := false
	reachable := true
	if err := checkStoreReachable(ctx); err != nil {
		ctx.printf("❌ Store reachable: FAIL\n")
		ctx.printf("   Error: %v\n", err)
		hasError = true
		reachable = false
	} else {
		ctx.printf("✓ Store reachable: OK\n")
	}

	for _, c := range doctorChecks {
		if c.needsStore && !reachable {
			ctx.printf("⊘ %s: SKIPPED (store not reachable)\n", c.name)
			continue
		}
		err := c.run(ctx)
		switch {
		case err == nil:
			ctx.printf("✓ %s: OK\n", c.name)
		case c.warnOnly:
			ctx.printf("⚠ %s: WARNING\n", c.name)
			ctx.printf("   %v\n", err)
		default:
			ctx.printf("❌ %s: FAIL\n", c.name)
			ctx.printf("   Error: %v\n", err)
			hasError = true
		}
	}

	ctx.println()
	if hasError {
		ctx.println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	ctx.println("All diagnostics passed!")
	return nil
}

func checkStoreReachable(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load store: %w", err)
	}
	if _, err := ctx.Store.Keys(); err != nil {
		return fmt.Errorf("failed to query store: %w", err)
	}
	return nil
}

func checkSchemaVersion(ctx *Context) error {
	store, ok := ctx.Store.(sqlStore)
	if !ok {
		return nil
	}
	current, latest, err := store.SchemaVersion()
	if err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}
	if current > latest {
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d)", current, latest)
	}
	return nil
}

func checkMigrationsComplete(ctx *Context) error {
	store, ok := ctx.Store.(sqlStore)
	if !ok {
		return nil
	}
	current, latest, err := store.SchemaVersion()
	if err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}
	if current < latest {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d - run 'quitline migrate'", current, latest)
	}
	return nil
}

func checkBackupsPresent(ctx *Context) error {
	mgr, err := ctx.backupManager()
	if err != nil {
		return err
	}
	backups, err := mgr.ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found - consider creating one with 'quitline backup create'")
	}
	return nil
}

// checkValidation reports stored values that loading would replace with
// defaults.
func checkValidation(ctx *Context) error {
	_, problems, err := storage.InspectSettings(ctx.Store)
	if err != nil {
		return fmt.Errorf("failed to read settings: %w", err)
	}

	trackerProblems, err := tracker.Inspect(ctx.Store)
	if err != nil {
		return err
	}
	problems = append(problems, trackerProblems...)
	if len(problems) == 0 {
		return nil
	}
	msgs := make([]string, len(problems))
	for i, p := range problems {
		msgs[i] = p.Error()
	}
	return errors.New(strings.Join(msgs, "; "))
}

func checkClockTimezone(ctx *Context) error {
	now := ctx.clock().Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}

	loc, err := ctx.Location()
	if err != nil {
		return err
	}

	tr, err := tracker.Load(ctx.Store)
	if err != nil {
		return err
	}
	if date := tr.QuitDate(); date != "" && date > utils.FormatDate(now, loc) {
		return fmt.Errorf("quit date %s is in the future for timezone %s", date, loc)
	}
	return nil
}
