package constants

import "time"

// SessionState represents the current state of the TUI application
type SessionState int

// Theme is the TUI color theme
type Theme string

const (
	AppName            = "quitline"
	DefaultKeyringUser = "database-connection"
	DefaultConfigPath  = "~/.config/quitline/quitline.db"
	Version            = "v0.3.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the standard time format used throughout the application (HH:MM)
	TimeFormat = "15:04"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "quitline-"
	BackupFileSuffix = ".db"

	// Notify constants
	NotifierLockfileName   = "quitline-notifier.lock"
	NotificationDurationMs = 5000
	TrayAppIdentifier      = "com.julianstephens.quitline"

	// Refresh loop
	DefaultTickInterval = time.Second
	DefaultSaveInterval = time.Minute

	// Craving log
	MaxCravingRecords = 100
	MinIntensity      = 1
	MaxIntensity      = 4

	// Themes
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Session States
const (
	StateDashboard SessionState = iota
	StateRecordCraving
	StateSetQuitDate
)
