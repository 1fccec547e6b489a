package storage

import (
	"fmt"
	"strconv"

	"github.com/julianstephens/quitline/internal/constants"
	"github.com/julianstephens/quitline/internal/logger"
	"github.com/julianstephens/quitline/internal/utils"
)

// Settings are the user preferences that are not part of the tracker state.
type Settings struct {
	Timezone             string          `json:"timezone"`
	NotificationsEnabled bool            `json:"notifications_enabled"`
	Theme                constants.Theme `json:"theme"`
}

// DefaultSettings returns the settings used before anything is saved.
func DefaultSettings() Settings {
	return Settings{
		Timezone:             constants.DefaultTimezone,
		NotificationsEnabled: constants.DefaultNotificationsEnabled,
		Theme:                constants.DefaultTheme,
	}
}

// GetSettings reads settings from p, defaulting any missing key. A stored
// value that cannot be used is replaced by its default and logged.
func GetSettings(p Provider) (Settings, error) {
	settings, problems, err := InspectSettings(p)
	if err != nil {
		return Settings{}, err
	}
	for _, problem := range problems {
		logger.Warn("Ignoring invalid setting, using default", "error", problem)
	}
	return settings, nil
}

// InspectSettings is GetSettings without the logging. It also returns one
// error per stored value that was replaced by its default. The third result
// is set only when p itself fails.
func InspectSettings(p Provider) (Settings, []error, error) {
	settings := DefaultSettings()
	var problems []error

	if v, ok, err := p.Get(constants.SettingTimezone); err != nil {
		return Settings{}, nil, err
	} else if ok && v != "" {
		if utils.ValidateTimezone(v) {
			settings.Timezone = v
		} else {
			problems = append(problems, fmt.Errorf("%s: unknown timezone %q", constants.SettingTimezone, v))
		}
	}

	if v, ok, err := p.Get(constants.SettingNotificationsEnabled); err != nil {
		return Settings{}, nil, err
	} else if ok {
		if b, err := strconv.ParseBool(v); err == nil {
			settings.NotificationsEnabled = b
		} else {
			problems = append(problems, fmt.Errorf("%s: %q is not a boolean", constants.SettingNotificationsEnabled, v))
		}
	}

	if v, ok, err := p.Get(constants.SettingTheme); err != nil {
		return Settings{}, nil, err
	} else if ok {
		switch constants.Theme(v) {
		case constants.ThemeLight, constants.ThemeDark:
			settings.Theme = constants.Theme(v)
		default:
			problems = append(problems, fmt.Errorf("%s: unknown theme %q", constants.SettingTheme, v))
		}
	}

	return settings, problems, nil
}

// SaveSettings writes every setting to p.
func SaveSettings(p Provider, settings Settings) error {
	if err := p.Set(constants.SettingTimezone, settings.Timezone); err != nil {
		return err
	}
	if err := p.Set(constants.SettingNotificationsEnabled, strconv.FormatBool(settings.NotificationsEnabled)); err != nil {
		return err
	}
	return p.Set(constants.SettingTheme, string(settings.Theme))
}

// InitDefaults writes default settings for keys that are not yet present.
func InitDefaults(p Provider) error {
	defaults := map[string]string{
		constants.SettingTimezone:             constants.DefaultTimezone,
		constants.SettingNotificationsEnabled: strconv.FormatBool(constants.DefaultNotificationsEnabled),
		constants.SettingTheme:                string(constants.DefaultTheme),
	}
	for key, value := range defaults {
		_, ok, err := p.Get(key)
		if err != nil {
			return err
		}
		if ok {
			continue
		}
		if err := p.Set(key, value); err != nil {
			return fmt.Errorf("failed to save default %s: %w", key, err)
		}
	}
	return nil
}

// Copy writes every key of src into dst and returns how many were copied.
func Copy(dst, src Provider) (int, error) {
	keys, err := src.Keys()
	if err != nil {
		return 0, fmt.Errorf("failed to list source keys: %w", err)
	}
	for i, key := range keys {
		v, ok, err := src.Get(key)
		if err != nil {
			return i, fmt.Errorf("failed to read %s: %w", key, err)
		}
		if !ok {
			continue
		}
		if err := dst.Set(key, v); err != nil {
			return i, fmt.Errorf("failed to write %s: %w", key, err)
		}
	}
	return len(keys), nil
}
