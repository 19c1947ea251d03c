// Package momentum derives completion percentages from daily check-ins.
package momentum

import (
	"math"
	"time"

	"github.com/julianstephens/becoming/internal/constants"
	"github.com/julianstephens/becoming/internal/models"
	"github.com/julianstephens/becoming/internal/scheduler"
)

type logKey struct {
	action models.ActionID
	day    models.Date
}

// LogIndex answers "was action A completed on day D" in constant time.
type LogIndex map[logKey]bool

// IndexLogs builds a LogIndex. With duplicate (action, day) input the last record wins.
func IndexLogs(logs []models.DailyLog) LogIndex {
	idx := make(LogIndex, len(logs))
	for _, l := range logs {
		idx[logKey{l.ActionID, l.LogDate}] = l.Status
	}
	return idx
}

// Completed reports whether a log with status true exists for (action, day).
func (idx LogIndex) Completed(action models.ActionID, day models.Date) bool {
	return idx[logKey{action, day}]
}

// DayTally counts due actions and how many of them were completed on day.
func DayTally(actions []models.ElementalAction, idx LogIndex, day models.Date) (completed, total int) {
	for _, a := range actions {
		if !scheduler.IsDue(a, day) {
			continue
		}
		total++
		if idx.Completed(a.ID, day) {
			completed++
		}
	}
	return completed, total
}

// Input is everything Compute needs. Since is the persona's creation day;
// days before it never count as missed.
type Input struct {
	Actions    []models.ElementalAction
	Logs       []models.DailyLog
	Since      models.Date
	Today      models.Date
	WindowDays int
}

// Result is a score with the counts that produced it.
type Result struct {
	Score        int `json:"score" yaml:"score"`
	Expected     int `json:"expected" yaml:"expected"`
	Completed    int `json:"completed" yaml:"completed"`
	EligibleDays int `json:"eligible_days" yaml:"eligible_days"`
	WindowDays   int `json:"window_days" yaml:"window_days"`
}

// Compute walks the trailing window ending today (inclusive), skipping days
// before Since, and returns round(100*completed/expected), or 0 when nothing
// was expected.
func Compute(in Input) Result {
	res := Result{WindowDays: in.WindowDays}
	if in.WindowDays <= 0 || len(in.Actions) == 0 {
		return res
	}

	idx := IndexLogs(in.Logs)
	start := in.Today.AddDays(-(in.WindowDays - 1))
	for day := start; !day.After(in.Today); day = day.AddDays(1) {
		if !in.Since.IsZero() && day.Before(in.Since) {
			continue
		}
		res.EligibleDays++
		completed, total := DayTally(in.Actions, idx, day)
		res.Completed += completed
		res.Expected += total
	}

	res.Score = Percent(res.Completed, res.Expected)
	return res
}

// Percent rounds half away from zero and returns 0 for an empty denominator.
func Percent(completed, expected int) int {
	if expected <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(completed) / float64(expected)))
}

// ForPersona computes the score for a persona's actions and logs, converting
// the persona's creation instant and now into calendar days in now's location.
func ForPersona(p models.Persona, actions []models.ElementalAction, logs []models.DailyLog, windowDays int, now time.Time) Result {
	return Compute(Input{
		Actions:    actions,
		Logs:       logs,
		Since:      models.DateOf(p.CreatedAt.In(now.Location())),
		Today:      models.DateOf(now),
		WindowDays: windowDays,
	})
}

// Scores pairs the short and long window presets.
type Scores struct {
	Momentum  Result `json:"momentum" yaml:"momentum"`
	Alignment Result `json:"alignment" yaml:"alignment"`
}

// Both computes the 7-day momentum and 30-day alignment scores.
func Both(p models.Persona, actions []models.ElementalAction, logs []models.DailyLog, now time.Time) Scores {
	return Scores{
		Momentum:  ForPersona(p, actions, logs, constants.WindowMomentum, now),
		Alignment: ForPersona(p, actions, logs, constants.WindowAlignment, now),
	}
}
