// Package calendar classifies days of a month for the progress grid and
// detects streaks of consecutive fully-completed days.
package calendar

import (
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/becoming/internal/models"
	"github.com/julianstephens/becoming/internal/momentum"
	"github.com/julianstephens/becoming/internal/scheduler"
)

// ErrFutureDate is returned when a check-in is attempted for a day after today.
var ErrFutureDate = errors.New("cannot log a date in the future")

type Status string

const (
	StatusComplete Status = "complete"
	StatusPartial  Status = "partial"
	StatusMissed   Status = "missed"
	StatusNeutral  Status = "neutral"
)

// Day is one cell of the month grid.
type Day struct {
	Date      models.Date `json:"date" yaml:"date"`
	Completed int         `json:"completed" yaml:"completed"`
	Total     int         `json:"total" yaml:"total"`
	Status    Status      `json:"status" yaml:"status"`
	// Streak is set when this day and the previous calendar day are both complete.
	Streak bool `json:"streak" yaml:"streak"`
}

// Context is the persona-scoped data every derivation reads.
type Context struct {
	Actions []models.ElementalAction
	Logs    []models.DailyLog
	Since   models.Date // persona creation day
	Today   models.Date
}

// IsComplete is the single "fully done" predicate shared by status and streak logic.
func IsComplete(completed, total int) bool {
	return total > 0 && completed == total
}

// Classify applies the status rules to one day's tally.
func Classify(day models.Date, completed, total int, since, today models.Date) Status {
	switch {
	case IsComplete(completed, total):
		return StatusComplete
	case completed > 0 && completed < total:
		return StatusPartial
	case total > 0 && completed == 0 && day.Before(today) && !day.Before(since):
		return StatusMissed
	default:
		return StatusNeutral
	}
}

// Month returns one Day per day of the given month.
func Month(year int, month time.Month, c Context) []Day {
	idx := momentum.IndexLogs(c.Logs)
	first := models.NewDate(year, month, 1)
	n := models.DaysIn(year, month)

	prevCompleted, prevTotal := momentum.DayTally(c.Actions, idx, first.AddDays(-1))
	prevComplete := IsComplete(prevCompleted, prevTotal)

	days := make([]Day, 0, n)
	for i := 0; i < n; i++ {
		date := first.AddDays(i)
		completed, total := momentum.DayTally(c.Actions, idx, date)
		complete := IsComplete(completed, total)
		days = append(days, Day{
			Date:      date,
			Completed: completed,
			Total:     total,
			Status:    Classify(date, completed, total, c.Since, c.Today),
			Streak:    complete && prevComplete,
		})
		prevComplete = complete
	}
	return days
}

// CurrentStreak counts consecutive complete days ending today, or ending
// yesterday when today is not complete yet. Days before Since end the run.
func CurrentStreak(c Context) int {
	idx := momentum.IndexLogs(c.Logs)
	day := c.Today
	if completed, total := momentum.DayTally(c.Actions, idx, day); !IsComplete(completed, total) {
		day = day.AddDays(-1)
	}

	streak := 0
	for !day.Before(c.Since) {
		completed, total := momentum.DayTally(c.Actions, idx, day)
		if !IsComplete(completed, total) {
			break
		}
		streak++
		day = day.AddDays(-1)
	}
	return streak
}

// CanToggle rejects dates after today.
func CanToggle(date, today models.Date) error {
	if date.After(today) {
		return fmt.Errorf("%w: %s is after %s", ErrFutureDate, date, today)
	}
	return nil
}

// ActionState is one due action's completion on a selected date.
type ActionState struct {
	Action    models.ElementalAction `json:"action" yaml:"action"`
	Completed bool                   `json:"completed" yaml:"completed"`
}

// Detail lists each due action for a single date.
type Detail struct {
	Date      models.Date   `json:"date" yaml:"date"`
	Actions   []ActionState `json:"actions" yaml:"actions"`
	Completed int           `json:"completed" yaml:"completed"`
	Total     int           `json:"total" yaml:"total"`
	Status    Status        `json:"status" yaml:"status"`
	Loggable  bool          `json:"loggable" yaml:"loggable"`
}

// DayDetail describes date for the day view.
func DayDetail(date models.Date, c Context) Detail {
	idx := momentum.IndexLogs(c.Logs)
	d := Detail{Date: date, Loggable: CanToggle(date, c.Today) == nil}
	for _, a := range scheduler.DueActions(c.Actions, date) {
		done := idx.Completed(a.ID, date)
		d.Actions = append(d.Actions, ActionState{Action: a, Completed: done})
		d.Total++
		if done {
			d.Completed++
		}
	}
	d.Status = Classify(date, d.Completed, d.Total, c.Since, c.Today)
	return d
}
