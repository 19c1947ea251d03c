// Package scheduler resolves whether an elemental action is due on a given day.
package scheduler

import "github.com/julianstephens/becoming/internal/models"

// WeekdayOf returns the weekday of a calendar day. It never consults a locale
// or a time zone; callers normalise to the user's local day first.
func WeekdayOf(day models.Date) models.Weekday {
	return day.Weekday()
}

// IsDue reports whether the action's weekly frequency includes day's weekday.
// An empty frequency is never due.
func IsDue(action models.ElementalAction, day models.Date) bool {
	if len(action.Frequency) == 0 {
		return false
	}
	return action.Frequency.Contains(WeekdayOf(day))
}

// DueActions filters actions down to those due on day, preserving order.
func DueActions(actions []models.ElementalAction, day models.Date) []models.ElementalAction {
	var due []models.ElementalAction
	for _, a := range actions {
		if IsDue(a, day) {
			due = append(due, a)
		}
	}
	return due
}

// Occurrences counts how many times the action falls due in [from, to].
func Occurrences(action models.ElementalAction, from, to models.Date) int {
	n := 0
	for d := from; !d.After(to); d = d.AddDays(1) {
		if IsDue(action, d) {
			n++
		}
	}
	return n
}
