package constants

const (
	// Setting keys
	SettingAPIURL         = "api_url"
	SettingTimeoutSec     = "timeout_sec"
	SettingTimezone       = "timezone"
	SettingCalorieGoal    = "calorie_goal"
	SettingProteinGoal    = "protein_goal"
	SettingCarbsGoal      = "carbs_goal"
	SettingFatGoal        = "fat_goal"
	SettingSessionBackend = "session_backend"

	// Default settings
	DefaultTimeoutSec     = 10
	DefaultTimezone       = "Local"
	DefaultCalorieGoal    = 2000
	DefaultProteinGoal    = 180
	DefaultCarbsGoal      = 250
	DefaultFatGoal        = 70
	DefaultSessionBackend = SessionBackendKeyring
)
