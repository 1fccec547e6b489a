package constants

const (
	// Tracker keys
	KeyQuitDate    = "quit_date"
	KeyDailyCost   = "daily_cost"
	KeyCravings    = "cravings"
	KeyMilestones  = "milestones"
	KeySavingsGoal = "savings_goal"
	KeyHealthModel = "health_model"
	KeyHealthSteps = "health_steps"

	// General Settings
	SettingTimezone             = "timezone"
	SettingNotificationsEnabled = "notifications_enabled"
	SettingTheme                = "theme"

	// Health models
	HealthModelTable  = "table"
	HealthModelCurves = "curves"

	// Default Settings Values
	DefaultDailyCost            = "30"
	DefaultSavingsGoal          = "5000"
	DefaultHealthModel          = HealthModelTable
	DefaultNotificationsEnabled = true
	DefaultTheme                = ThemeLight
	DefaultTimezone             = "Local" // Use system local timezone by default
)
