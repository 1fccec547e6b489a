// Package config resolves runtime configuration from .env files and
// QUITLINE_* environment variables. Command-line flags override it.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/julianstephens/quitline/internal/constants"
)

// Config holds the application configuration.
type Config struct {
	ConfigPath   string
	DBConnection string
	Debug        bool
	Timezone     string
	TickInterval time.Duration
	SaveInterval time.Duration
}

var (
	userHomeDirFunc = os.UserHomeDir
	getwdFunc       = os.Getwd
)

// Load reads the first .env file found and then the environment.
func Load() *Config {
	for _, path := range envPaths() {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			break
		}
	}

	return &Config{
		ConfigPath:   getEnvString("QUITLINE_CONFIG", constants.DefaultConfigPath),
		DBConnection: getEnvString("QUITLINE_DB_CONNECTION", ""),
		Debug:        getEnvBool("QUITLINE_DEBUG", false),
		Timezone:     getEnvString("QUITLINE_TIMEZONE", ""),
		TickInterval: getEnvDuration("QUITLINE_TICK_INTERVAL", constants.DefaultTickInterval),
		SaveInterval: getEnvDuration("QUITLINE_SAVE_INTERVAL", constants.DefaultSaveInterval),
	}
}

func envPaths() []string {
	var paths []string
	if cwd, err := getwdFunc(); err == nil {
		paths = append(paths, filepath.Join(cwd, ".env"))
	}
	if home, err := userHomeDirFunc(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", constants.AppName, ".env"))
	}
	return paths
}

// ExpandPath replaces a leading ~ with the user's home directory.
func ExpandPath(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := userHomeDirFunc()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// ConfigDir returns the directory holding the store file, which also holds
// logs and backups. Connection strings fall back to the default location.
func (c *Config) ConfigDir() string {
	path := c.ConfigPath
	if strings.Contains(path, "://") {
		path = constants.DefaultConfigPath
	}
	return filepath.Dir(ExpandPath(path))
}

func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

// getEnvDuration accepts "30s", "1m" or a bare number of seconds. Zero or
// negative values keep the default.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil && d > 0 {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}
