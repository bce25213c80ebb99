package constants

import "time"

// SessionState represents the current screen of the TUI application
type SessionState int

// SessionBackend names where the auth session snapshot is persisted
type SessionBackend string

const (
	AppName            = "platewise"
	DefaultKeyringUser = "session"
	DefaultConfigPath  = "~/.config/platewise/platewise.db"
	Version            = "v0.3.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// HeaderDateFormat is used for day labels older than yesterday (e.g. "Jan 2")
	HeaderDateFormat = "Jan 2"

	// MaxDayOffset bounds how far back the day log can be viewed
	MaxDayOffset = 2

	// Remote service defaults
	DefaultAPIURL         = "http://localhost:8080/api"
	DefaultRequestTimeout = 10 * time.Second

	// Notice defaults
	NoticeTTL = 4 * time.Second

	// Lockfile
	SessionLockfileName = "platewise.lock"

	// Session backends
	SessionBackendKeyring SessionBackend = "keyring"
	SessionBackendSQLite  SessionBackend = "sqlite"
)

// Session States
const (
	StateLogin SessionState = iota
	StateDashboard
	StatePicker
	StateNewFood
)
