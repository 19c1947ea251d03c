package models

import (
	"fmt"
	"sort"
	"strings"
)

// Weekday is a closed enum, Monday first. The zero value is invalid.
type Weekday int

const (
	Monday Weekday = iota + 1
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

// AllWeekdays lists the week Monday through Sunday.
var AllWeekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

var weekdayNames = [...]string{"", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

func (w Weekday) Valid() bool {
	return w >= Monday && w <= Sunday
}

func (w Weekday) String() string {
	if !w.Valid() {
		return fmt.Sprintf("Weekday(%d)", int(w))
	}
	return weekdayNames[w]
}

// Short returns the three-letter abbreviation.
func (w Weekday) Short() string {
	if !w.Valid() {
		return "???"
	}
	return weekdayNames[w][:3]
}

// ParseWeekday accepts full names and three-letter abbreviations, case-insensitively.
func ParseWeekday(s string) (Weekday, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, w := range AllWeekdays {
		name := strings.ToLower(weekdayNames[w])
		if s == name || s == name[:3] {
			return w, nil
		}
	}
	return 0, fmt.Errorf("invalid weekday: %q", s)
}

func (w Weekday) MarshalText() ([]byte, error) {
	if !w.Valid() {
		return nil, fmt.Errorf("invalid weekday %d", int(w))
	}
	return []byte(w.String()), nil
}

func (w *Weekday) UnmarshalText(b []byte) error {
	parsed, err := ParseWeekday(string(b))
	if err != nil {
		return err
	}
	*w = parsed
	return nil
}

// Frequency is the set of weekdays an action is due on. An empty set is never due.
type Frequency []Weekday

// Daily is due every day of the week.
func Daily() Frequency {
	return append(Frequency(nil), AllWeekdays...)
}

// NewFrequency sorts and deduplicates days; invalid values are dropped.
func NewFrequency(days ...Weekday) Frequency {
	seen := make(map[Weekday]bool, len(days))
	out := make(Frequency, 0, len(days))
	for _, d := range days {
		if !d.Valid() || seen[d] {
			continue
		}
		seen[d] = true
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ParseFrequency parses a comma-separated weekday list. "daily" expands to the full week.
func ParseFrequency(s string) (Frequency, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Frequency{}, nil
	}
	if strings.EqualFold(s, "daily") {
		return Daily(), nil
	}
	var days []Weekday
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		w, err := ParseWeekday(part)
		if err != nil {
			return nil, err
		}
		days = append(days, w)
	}
	return NewFrequency(days...), nil
}

func (f Frequency) Contains(w Weekday) bool {
	for _, d := range f {
		if d == w {
			return true
		}
	}
	return false
}

// String joins full weekday names with commas; this is also the storage form.
func (f Frequency) String() string {
	names := make([]string, len(f))
	for i, d := range f {
		names[i] = d.String()
	}
	return strings.Join(names, ",")
}

// Label is a compact human description ("daily", "Mon,Wed,Fri", "never").
func (f Frequency) Label() string {
	norm := NewFrequency(f...)
	switch len(norm) {
	case 0:
		return "never"
	case 7:
		return "daily"
	}
	short := make([]string, len(norm))
	for i, d := range norm {
		short[i] = d.Short()
	}
	return strings.Join(short, ",")
}
