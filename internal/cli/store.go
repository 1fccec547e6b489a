package cli

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/julianstephens/quitline/internal/keyring"
	"github.com/julianstephens/quitline/internal/logger"
	"github.com/julianstephens/quitline/internal/storage"
	"github.com/julianstephens/quitline/internal/storage/postgres"
	"github.com/julianstephens/quitline/internal/storage/sqlite"
)

// StoreOptions selects the storage backend.
type StoreOptions struct {
	// Path is a file path or a PostgreSQL connection string.
	Path string
	// Connection is a connection string from the environment. It wins over
	// the keyring but not over an explicit connection string in Path.
	Connection string
	// UseKeyring consults the OS keyring when Path is the default path.
	UseKeyring bool
}

// OpenStore picks a backend: PostgreSQL for connection strings, a JSON file
// for *.json paths and SQLite otherwise.
func OpenStore(opts StoreOptions) (storage.Provider, error) {
	if postgres.IsConnString(opts.Path) {
		return newPostgresStore(opts.Path, true)
	}
	if opts.Connection != "" {
		return newPostgresStore(opts.Connection, false)
	}
	if opts.UseKeyring {
		connStr, err := keyring.GetConnectionString()
		switch {
		case err == nil:
			logger.Debug("Using connection string from keyring")
			return newPostgresStore(connStr, false)
		case errors.Is(err, keyring.ErrNotFound):
		default:
			logger.Debug("Keyring unavailable", "error", err)
		}
	}

	if strings.EqualFold(filepath.Ext(opts.Path), ".json") {
		return storage.NewJSONStore(opts.Path), nil
	}
	return sqlite.NewStore(opts.Path), nil
}

// newPostgresStore rejects passwords in connection strings given on the
// command line; secrets belong in the keyring, the environment or .pgpass.
func newPostgresStore(connStr string, fromFlag bool) (storage.Provider, error) {
	if _, err := postgres.ValidateConnString(connStr); err != nil {
		if !errors.Is(err, postgres.ErrEmbeddedCredentials) || fromFlag {
			return nil, fmt.Errorf("invalid connection string: %w", err)
		}
	}
	return postgres.New(connStr), nil
}
