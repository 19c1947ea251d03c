package calendar

import (
	"errors"
	"testing"
	"time"

	"github.com/julianstephens/becoming/internal/models"
)

func mustDate(t *testing.T, s string) models.Date {
	t.Helper()
	d, err := models.ParseDate(s)
	if err != nil {
		t.Fatalf("ParseDate(%q): %v", s, err)
	}
	return d
}

func logOn(action models.ActionID, day models.Date, status bool) models.DailyLog {
	return models.DailyLog{ID: models.NewLogID(), ActionID: action, LogDate: day, Status: status}
}

func dayOf(days []Day, d models.Date) Day {
	for _, day := range days {
		if day.Date == d {
			return day
		}
	}
	return Day{}
}

func TestClassify(t *testing.T) {
	since := mustDate(t, "2026-10-05")
	today := mustDate(t, "2026-10-15")

	tests := []struct {
		name             string
		day              string
		completed, total int
		want             Status
	}{
		{"all done", "2026-10-10", 2, 2, StatusComplete},
		{"all done today", "2026-10-15", 1, 1, StatusComplete},
		{"some done", "2026-10-10", 1, 3, StatusPartial},
		{"none done in past", "2026-10-10", 0, 2, StatusMissed},
		{"none done today is not missed", "2026-10-15", 0, 2, StatusNeutral},
		{"future", "2026-10-20", 0, 2, StatusNeutral},
		{"before persona existed", "2026-10-01", 0, 2, StatusNeutral},
		{"on creation day", "2026-10-05", 0, 1, StatusMissed},
		{"nothing scheduled", "2026-10-10", 0, 0, StatusNeutral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(mustDate(t, tt.day), tt.completed, tt.total, since, today)
			if got != tt.want {
				t.Errorf("Classify() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestMonthShape(t *testing.T) {
	c := Context{Today: mustDate(t, "2026-10-15")}
	tests := []struct {
		year  int
		month time.Month
		want  int
	}{
		{2026, time.October, 31},
		{2026, time.February, 28},
		{2024, time.February, 29},
		{2026, time.April, 30},
	}
	for _, tt := range tests {
		days := Month(tt.year, tt.month, c)
		if len(days) != tt.want {
			t.Errorf("Month(%d, %s) has %d days, want %d", tt.year, tt.month, len(days), tt.want)
		}
		if days[0].Date != models.NewDate(tt.year, tt.month, 1) {
			t.Errorf("first day = %s", days[0].Date)
		}
	}
}

func TestMonthStreaks(t *testing.T) {
	daily := models.ElementalAction{ID: "a", Frequency: models.Daily()}
	c := Context{
		Actions: []models.ElementalAction{daily},
		Since:   mustDate(t, "2026-09-01"),
		Today:   mustDate(t, "2026-10-15"),
		Logs: []models.DailyLog{
			logOn("a", mustDate(t, "2026-09-30"), true),
			logOn("a", mustDate(t, "2026-10-01"), true),
			logOn("a", mustDate(t, "2026-10-05"), true), // isolated
			logOn("a", mustDate(t, "2026-10-08"), true),
			logOn("a", mustDate(t, "2026-10-09"), true),
			logOn("a", mustDate(t, "2026-10-10"), true),
			logOn("a", mustDate(t, "2026-10-12"), false),
			logOn("a", mustDate(t, "2026-10-13"), true),
		},
	}

	days := Month(2026, time.October, c)

	tests := []struct {
		day        string
		wantStatus Status
		wantStreak bool
	}{
		{"2026-10-01", StatusComplete, true}, // previous day is in September
		{"2026-10-02", StatusMissed, false},
		{"2026-10-05", StatusComplete, false},
		{"2026-10-08", StatusComplete, false},
		{"2026-10-09", StatusComplete, true},
		{"2026-10-10", StatusComplete, true},
		{"2026-10-12", StatusMissed, false},
		{"2026-10-13", StatusComplete, false},
		{"2026-10-15", StatusNeutral, false},
		{"2026-10-20", StatusNeutral, false},
	}
	for _, tt := range tests {
		t.Run(tt.day, func(t *testing.T) {
			got := dayOf(days, mustDate(t, tt.day))
			if got.Status != tt.wantStatus || got.Streak != tt.wantStreak {
				t.Errorf("day %s = {%s streak=%v}, want {%s streak=%v}", tt.day, got.Status, got.Streak, tt.wantStatus, tt.wantStreak)
			}
		})
	}
}

func TestLoneCompleteDayAfterPartialIsNotStreak(t *testing.T) {
	a := models.ElementalAction{ID: "a", Frequency: models.Daily()}
	b := models.ElementalAction{ID: "b", Frequency: models.Daily()}
	c := Context{
		Actions: []models.ElementalAction{a, b},
		Today:   mustDate(t, "2026-10-15"),
		Logs: []models.DailyLog{
			logOn("a", mustDate(t, "2026-10-06"), true), // partial
			logOn("a", mustDate(t, "2026-10-07"), true),
			logOn("b", mustDate(t, "2026-10-07"), true),
		},
	}
	days := Month(2026, time.October, c)
	if got := dayOf(days, mustDate(t, "2026-10-06")); got.Status != StatusPartial {
		t.Fatalf("Oct 6 status = %s, want partial", got.Status)
	}
	if got := dayOf(days, mustDate(t, "2026-10-07")); got.Status != StatusComplete || got.Streak {
		t.Errorf("Oct 7 = %+v, want complete without streak", got)
	}
}

func TestStreakNeedsScheduledPredecessor(t *testing.T) {
	weekdays := models.ElementalAction{ID: "a", Frequency: models.NewFrequency(models.Sunday, models.Monday)}
	c := Context{
		Actions: []models.ElementalAction{weekdays},
		Today:   mustDate(t, "2026-10-20"),
		Logs: []models.DailyLog{
			logOn("a", mustDate(t, "2026-10-11"), true), // Sunday
			logOn("a", mustDate(t, "2026-10-12"), true), // Monday
			logOn("a", mustDate(t, "2026-10-19"), true), // Monday, Sunday before not done
		},
	}
	days := Month(2026, time.October, c)
	if !dayOf(days, mustDate(t, "2026-10-12")).Streak {
		t.Error("Oct 12 should continue the streak from Oct 11")
	}
	if dayOf(days, mustDate(t, "2026-10-19")).Streak {
		t.Error("Oct 19 follows an incomplete day and must not be a streak")
	}
	if dayOf(days, mustDate(t, "2026-10-14")).Status != StatusNeutral {
		t.Error("unscheduled day should be neutral")
	}
}

func TestCurrentStreak(t *testing.T) {
	daily := models.ElementalAction{ID: "a", Frequency: models.Daily()}
	today := mustDate(t, "2026-10-15")
	logs := []models.DailyLog{
		logOn("a", today.AddDays(-1), true),
		logOn("a", today.AddDays(-2), true),
		logOn("a", today.AddDays(-3), true),
		logOn("a", today.AddDays(-5), true),
	}

	c := Context{Actions: []models.ElementalAction{daily}, Logs: logs, Today: today}
	if got := CurrentStreak(c); got != 3 {
		t.Errorf("CurrentStreak() = %d, want 3 (today pending)", got)
	}

	c.Logs = append(c.Logs, logOn("a", today, true))
	if got := CurrentStreak(c); got != 4 {
		t.Errorf("CurrentStreak() = %d, want 4", got)
	}

	c.Since = today.AddDays(-1)
	if got := CurrentStreak(c); got != 2 {
		t.Errorf("CurrentStreak() bounded by creation = %d, want 2", got)
	}

	if got := CurrentStreak(Context{Today: today}); got != 0 {
		t.Errorf("CurrentStreak() with no actions = %d, want 0", got)
	}
}

func TestCanToggle(t *testing.T) {
	today := mustDate(t, "2026-10-15")
	if err := CanToggle(today, today); err != nil {
		t.Errorf("today should be loggable: %v", err)
	}
	if err := CanToggle(today.AddDays(-400), today); err != nil {
		t.Errorf("past should be loggable: %v", err)
	}
	err := CanToggle(today.AddDays(1), today)
	if !errors.Is(err, ErrFutureDate) {
		t.Errorf("CanToggle(tomorrow) = %v, want ErrFutureDate", err)
	}
}

func TestDayDetail(t *testing.T) {
	today := mustDate(t, "2026-10-15") // Thursday
	read := models.ElementalAction{ID: "read", Title: "Read", Frequency: models.Daily()}
	gym := models.ElementalAction{ID: "gym", Title: "Gym", Frequency: models.NewFrequency(models.Thursday)}
	rest := models.ElementalAction{ID: "rest", Title: "Rest", Frequency: models.NewFrequency(models.Sunday)}
	c := Context{
		Actions: []models.ElementalAction{read, gym, rest},
		Logs:    []models.DailyLog{logOn("gym", today, true)},
		Today:   today,
	}

	d := DayDetail(today, c)
	if d.Total != 2 || d.Completed != 1 || d.Status != StatusPartial || !d.Loggable {
		t.Fatalf("DayDetail(today) = %+v", d)
	}
	if d.Actions[0].Action.ID != "read" || d.Actions[0].Completed {
		t.Errorf("first action = %+v, want read not completed", d.Actions[0])
	}
	if d.Actions[1].Action.ID != "gym" || !d.Actions[1].Completed {
		t.Errorf("second action = %+v, want gym completed", d.Actions[1])
	}

	future := DayDetail(today.AddDays(3), c)
	if future.Loggable {
		t.Error("future day must not be loggable")
	}
	if future.Status != StatusNeutral {
		t.Errorf("future status = %s, want neutral", future.Status)
	}
}
