package constants

import "time"

const (
	AppName            = "becoming"
	DefaultKeyringUser = "database-connection"
	DefaultConfigPath  = "~/.config/becoming/becoming.db"
	Version            = "v0.3.0"

	// ConnectionEnvVar supplies a PostgreSQL connection string without putting it on the command line.
	ConnectionEnvVar = "BECOMING_DB_CONNECTION"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// MonthFormat is used for --month flags (YYYY-MM)
	MonthFormat = "2006-01"

	// Scoring windows, in days. Both presets share one algorithm.
	WindowMomentum  = 7
	WindowAlignment = 30

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "becoming-"
	BackupFileSuffix = ".db"

	// Lockfile constants
	LockfileSuffix  = ".lock"
	LockStaleAfter  = 10 * time.Minute
	LockMaxAttempts = 3
	LockRetryDelay  = 100 * time.Millisecond

	// Settings keys
	SettingTimezone      = "timezone"
	SettingActivePersona = "active_persona"
)

func init() {
	if WindowMomentum <= 0 || WindowAlignment <= 0 {
		panic("scoring windows must be positive")
	}
}
