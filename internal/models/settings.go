package models

import "github.com/julianstephens/platewise/internal/constants"

// Settings represents application-wide settings
type Settings struct {
	APIURL         string                   `json:"api_url"`         // base URL of the diet-tracking service
	TimeoutSec     int                      `json:"timeout_sec"`     // per-request timeout in seconds
	Timezone       string                   `json:"timezone"`        // IANA timezone name, or "Local" for the system timezone
	Goals          Goals                    `json:"goals"`           // daily nutrition targets
	SessionBackend constants.SessionBackend `json:"session_backend"` // where the session snapshot is persisted
}

// DefaultSettings returns the built-in settings
func DefaultSettings() Settings {
	return Settings{
		APIURL:     constants.DefaultAPIURL,
		TimeoutSec: constants.DefaultTimeoutSec,
		Timezone:   constants.DefaultTimezone,
		Goals: Goals{
			Calories: constants.DefaultCalorieGoal,
			Protein:  constants.DefaultProteinGoal,
			Carbs:    constants.DefaultCarbsGoal,
			Fat:      constants.DefaultFatGoal,
		},
		SessionBackend: constants.DefaultSessionBackend,
	}
}
