package validation

import (
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/becoming/internal/models"
)

var at = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func cleanDataset() models.Dataset {
	return models.Dataset{
		Personas:   []models.Persona{{ID: "p1", Name: "Writer", CreatedAt: at}},
		Benchmarks: []models.Benchmark{{ID: "b1", PersonaID: "p1", Title: "Draft", Status: models.BenchmarkActive, CreatedAt: at}},
		Actions:    []models.ElementalAction{{ID: "a1", BenchmarkID: "b1", Title: "Write", Frequency: models.Daily(), CreatedAt: at}},
		Logs:       []models.DailyLog{{ID: "l1", ActionID: "a1", LogDate: models.NewDate(2024, 3, 2), Status: true, CreatedAt: at}},
		Reflections: []models.Reflection{
			{ID: "r1", PersonaID: "p1", PeriodType: models.PeriodWeekly, MomentumScore: 80, CreatedAt: at},
		},
	}
}

func TestValidateDatasetClean(t *testing.T) {
	result := New().ValidateDataset(cleanDataset(), models.NewDate(2024, 3, 10))
	if result.HasConflicts() {
		t.Errorf("unexpected conflicts:\n%s", result.FormatReport())
	}
	if got := result.FormatReport(); got != "No problems detected." {
		t.Errorf("FormatReport() = %q", got)
	}
}

func TestValidateDatasetConflicts(t *testing.T) {
	today := models.NewDate(2024, 3, 10)
	tests := []struct {
		name      string
		mutate    func(ds *models.Dataset)
		want      ConflictType
		wantError bool
	}{
		{
			name:      "orphan benchmark",
			mutate:    func(ds *models.Dataset) { ds.Benchmarks[0].PersonaID = "ghost" },
			want:      ConflictOrphan,
			wantError: true,
		},
		{
			name:      "orphan log",
			mutate:    func(ds *models.Dataset) { ds.Logs[0].ActionID = "ghost" },
			want:      ConflictOrphan,
			wantError: true,
		},
		{
			name: "duplicate log",
			mutate: func(ds *models.Dataset) {
				dup := ds.Logs[0]
				dup.ID = "l2"
				ds.Logs = append(ds.Logs, dup)
			},
			want:      ConflictDuplicateLog,
			wantError: true,
		},
		{
			name:   "duplicate persona name",
			mutate: func(ds *models.Dataset) { ds.Personas = append(ds.Personas, models.Persona{ID: "p2", Name: "writer "}) },
			want:   ConflictDuplicateName,
		},
		{
			name:   "empty action title",
			mutate: func(ds *models.Dataset) { ds.Actions[0].Title = " " },
			want:   ConflictEmptyTitle,
		},
		{
			name:      "invalid weekday",
			mutate:    func(ds *models.Dataset) { ds.Actions[0].Frequency = models.Frequency{models.Monday, 9} },
			want:      ConflictInvalidFrequency,
			wantError: true,
		},
		{
			name:   "never due",
			mutate: func(ds *models.Dataset) { ds.Actions[0].Frequency = nil },
			want:   ConflictNeverDue,
		},
		{
			name:      "bad benchmark status",
			mutate:    func(ds *models.Dataset) { ds.Benchmarks[0].Status = "paused" },
			want:      ConflictInvalidStatus,
			wantError: true,
		},
		{
			name:      "bad period",
			mutate:    func(ds *models.Dataset) { ds.Reflections[0].PeriodType = "daily" },
			want:      ConflictInvalidPeriod,
			wantError: true,
		},
		{
			name:      "score out of range",
			mutate:    func(ds *models.Dataset) { ds.Reflections[0].MomentumScore = 120 },
			want:      ConflictScoreRange,
			wantError: true,
		},
		{
			name:   "future log",
			mutate: func(ds *models.Dataset) { ds.Logs[0].LogDate = today.AddDays(1) },
			want:   ConflictFutureLog,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds := cleanDataset()
			tt.mutate(&ds)
			result := New().ValidateDataset(ds, today)
			if result.Count(tt.want) != 1 {
				t.Fatalf("Count(%s) = %d, conflicts:\n%s", tt.want, result.Count(tt.want), result.FormatReport())
			}
			if result.HasErrors() != tt.wantError {
				t.Errorf("HasErrors() = %v, want %v", result.HasErrors(), tt.wantError)
			}
			if !strings.Contains(result.FormatReport(), "Problems detected") {
				t.Errorf("report header missing:\n%s", result.FormatReport())
			}
		})
	}
}
