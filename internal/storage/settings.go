package storage

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/julianstephens/platewise/internal/constants"
	"github.com/julianstephens/platewise/internal/models"
	"github.com/julianstephens/platewise/internal/utils"
)

// SettingKeys lists the settings in display order
func SettingKeys() []string {
	return []string{
		constants.SettingAPIURL,
		constants.SettingTimeoutSec,
		constants.SettingTimezone,
		constants.SettingCalorieGoal,
		constants.SettingProteinGoal,
		constants.SettingCarbsGoal,
		constants.SettingFatGoal,
		constants.SettingSessionBackend,
	}
}

// GetSettings returns the stored settings layered over the defaults
func (s *SQLiteStore) GetSettings() (models.Settings, error) {
	rows, err := s.db.Query("SELECT key, value FROM settings")
	if err != nil {
		return models.Settings{}, err
	}
	defer rows.Close()

	settings := models.DefaultSettings()
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return models.Settings{}, err
		}
		if err := ApplySetting(&settings, key, value); err != nil {
			return models.Settings{}, fmt.Errorf("parsing %s: %w", key, err)
		}
	}
	if err := rows.Err(); err != nil {
		return models.Settings{}, err
	}

	return settings, nil
}

func (s *SQLiteStore) SaveSettings(settings models.Settings) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare("INSERT OR REPLACE INTO settings (key, value) VALUES (?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, key := range SettingKeys() {
		if _, err := stmt.Exec(key, SettingValue(settings, key)); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// SettingValue renders one setting as it is stored
func SettingValue(settings models.Settings, key string) string {
	switch key {
	case constants.SettingAPIURL:
		return settings.APIURL
	case constants.SettingTimeoutSec:
		return strconv.Itoa(settings.TimeoutSec)
	case constants.SettingTimezone:
		return settings.Timezone
	case constants.SettingCalorieGoal:
		return formatGoal(settings.Goals.Calories)
	case constants.SettingProteinGoal:
		return formatGoal(settings.Goals.Protein)
	case constants.SettingCarbsGoal:
		return formatGoal(settings.Goals.Carbs)
	case constants.SettingFatGoal:
		return formatGoal(settings.Goals.Fat)
	case constants.SettingSessionBackend:
		return string(settings.SessionBackend)
	}
	return ""
}

// ApplySetting validates value and sets it on settings. Unknown keys are rejected.
func ApplySetting(settings *models.Settings, key, value string) error {
	switch key {
	case constants.SettingAPIURL:
		u, err := url.Parse(value)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("invalid URL %q", value)
		}
		settings.APIURL = value
	case constants.SettingTimeoutSec:
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 || n > 300 {
			return fmt.Errorf("timeout must be between 1 and 300 seconds, got %q", value)
		}
		settings.TimeoutSec = n
	case constants.SettingTimezone:
		if !utils.ValidateTimezone(value) {
			return fmt.Errorf("invalid timezone %q", value)
		}
		settings.Timezone = value
	case constants.SettingCalorieGoal:
		return parseGoal(value, &settings.Goals.Calories)
	case constants.SettingProteinGoal:
		return parseGoal(value, &settings.Goals.Protein)
	case constants.SettingCarbsGoal:
		return parseGoal(value, &settings.Goals.Carbs)
	case constants.SettingFatGoal:
		return parseGoal(value, &settings.Goals.Fat)
	case constants.SettingSessionBackend:
		backend := constants.SessionBackend(value)
		if backend != constants.SessionBackendKeyring && backend != constants.SessionBackendSQLite {
			return fmt.Errorf("session backend must be %q or %q", constants.SessionBackendKeyring, constants.SessionBackendSQLite)
		}
		settings.SessionBackend = backend
	default:
		return fmt.Errorf("unknown setting %q", key)
	}
	return nil
}

func parseGoal(value string, dst *float64) error {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil || f <= 0 {
		return fmt.Errorf("goal must be a positive number, got %q", value)
	}
	*dst = f
	return nil
}

func formatGoal(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
