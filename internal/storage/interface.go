package storage

import (
	"errors"
	"time"
)

// ErrNotInitialized is returned by Load when the store has not been created.
var ErrNotInitialized = errors.New("storage not initialized")

// Provider is a string key-value store with an explicit lifecycle.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Values
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error
	Keys() ([]string, error)

	// History returns up to limit previous values of key, newest first.
	History(key string, limit int) ([]Revision, error)

	// Utils
	GetConfigPath() string
}

// Revision is a value that was overwritten or deleted.
type Revision struct {
	Key        string    `json:"key"`
	Value      string    `json:"value"`
	ReplacedAt time.Time `json:"replaced_at"`
}

// MaxHistoryPerKey bounds how many revisions are kept for each key.
const MaxHistoryPerKey = 50
