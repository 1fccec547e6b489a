package cli

import "fmt"

// sqlStore is implemented by the SQLite and PostgreSQL stores.
type sqlStore interface {
	Migrate(logFn func(string)) (int, error)
	SchemaVersion() (current, latest int, err error)
}

type MigrateCmd struct{}

func (c *MigrateCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}

	store, ok := ctx.Store.(sqlStore)
	if !ok {
		ctx.println("JSON stores have no schema. Nothing to migrate.")
		return nil
	}

	count, err := store.Migrate(func(msg string) { ctx.println(msg) })
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	if count == 0 {
		ctx.println("No migrations to apply. Database is up to date.")
	} else {
		ctx.printf("\nSuccessfully applied %d migration(s).\n", count)
	}
	return nil
}
