package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/julianstephens/becoming/internal/constants"
	"github.com/julianstephens/becoming/internal/models"
)

// LoadLocation loads a timezone location from an IANA timezone name.
// If the timezone is "Local" or empty, it returns the system's local timezone.
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" || timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	return loc, nil
}

// ValidateTimezone checks if the timezone name is valid.
func ValidateTimezone(timezone string) bool {
	_, err := LoadLocation(timezone)
	return err == nil
}

// Today returns the current calendar day as seen in loc.
func Today(now time.Time, loc *time.Location) models.Date {
	return models.DateOf(now.In(loc))
}

// ParseDateOrToday parses YYYY-MM-DD, or returns today when s is empty.
func ParseDateOrToday(s string, today models.Date) (models.Date, error) {
	if strings.TrimSpace(s) == "" {
		return today, nil
	}
	return models.ParseDate(s)
}

// ParseMonth parses YYYY-MM, or returns today's month when s is empty.
func ParseMonth(s string, today models.Date) (int, time.Month, error) {
	if strings.TrimSpace(s) == "" {
		return today.Year, today.Month, nil
	}
	t, err := time.Parse(constants.MonthFormat, s)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid month %q (expected YYYY-MM): %w", s, err)
	}
	return t.Year(), t.Month(), nil
}

// ExpandHome replaces a leading "~" with the user's home directory.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

// IsPostgresURL reports whether s names a PostgreSQL database rather than a file.
func IsPostgresURL(s string) bool {
	return strings.HasPrefix(s, "postgres://") || strings.HasPrefix(s, "postgresql://") || strings.Contains(s, "host=")
}
