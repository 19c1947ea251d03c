package utils

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/becoming/internal/models"
)

func TestLoadLocation(t *testing.T) {
	tests := []struct {
		name    string
		tz      string
		wantErr bool
	}{
		{"empty is local", "", false},
		{"Local", "Local", false},
		{"UTC", "UTC", false},
		{"IANA", "America/New_York", false},
		{"invalid", "Not/AZone", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadLocation(tt.tz)
			if (err != nil) != tt.wantErr {
				t.Errorf("LoadLocation(%q) error = %v, wantErr %v", tt.tz, err, tt.wantErr)
			}
			if ValidateTimezone(tt.tz) == tt.wantErr {
				t.Errorf("ValidateTimezone(%q) disagrees with LoadLocation", tt.tz)
			}
		})
	}
}

func TestTodayUsesLocation(t *testing.T) {
	now := time.Date(2024, 3, 10, 2, 0, 0, 0, time.UTC)
	west := time.FixedZone("UTC-5", -5*3600)

	if got := Today(now, time.UTC); got != models.NewDate(2024, 3, 10) {
		t.Errorf("Today(UTC) = %v", got)
	}
	if got := Today(now, west); got != models.NewDate(2024, 3, 9) {
		t.Errorf("Today(UTC-5) = %v", got)
	}
}

func TestParseDateOrToday(t *testing.T) {
	today := models.NewDate(2024, 3, 10)
	if got, err := ParseDateOrToday("", today); err != nil || got != today {
		t.Errorf("empty: got %v, %v", got, err)
	}
	if got, err := ParseDateOrToday("2024-02-29", today); err != nil || got != models.NewDate(2024, 2, 29) {
		t.Errorf("explicit: got %v, %v", got, err)
	}
	if _, err := ParseDateOrToday("03/10/2024", today); err == nil {
		t.Error("expected error for bad format")
	}
}

func TestParseMonth(t *testing.T) {
	today := models.NewDate(2024, 3, 10)
	y, m, err := ParseMonth("", today)
	if err != nil || y != 2024 || m != time.March {
		t.Errorf("empty: got %d-%d, %v", y, m, err)
	}
	y, m, err = ParseMonth("2023-12", today)
	if err != nil || y != 2023 || m != time.December {
		t.Errorf("explicit: got %d-%d, %v", y, m, err)
	}
	if _, _, err := ParseMonth("2023-13", today); err == nil {
		t.Error("expected error for month 13")
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	got, err := ExpandHome("~/.config/becoming/becoming.db")
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(home, ".config/becoming/becoming.db"); got != want {
		t.Errorf("ExpandHome() = %q, want %q", got, want)
	}
	if got, _ := ExpandHome("/abs/path.db"); got != "/abs/path.db" {
		t.Errorf("absolute path changed: %q", got)
	}
}

func TestIsPostgresURL(t *testing.T) {
	for s, want := range map[string]bool{
		"postgres://u@h/db":    true,
		"postgresql://u@h/db":  true,
		"host=localhost db=x":  true,
		"~/becoming.db":        false,
		"/var/lib/becoming.db": false,
	} {
		if got := IsPostgresURL(s); got != want {
			t.Errorf("IsPostgresURL(%q) = %v, want %v", s, got, want)
		}
	}
}
