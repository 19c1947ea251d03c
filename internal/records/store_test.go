package records

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/julianstephens/becoming/internal/models"
	"github.com/julianstephens/becoming/internal/momentum"
)

var base = time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)

type fixture struct {
	store     *Store
	persona   models.Persona
	fitness   models.Benchmark
	reading   models.Benchmark
	run       models.ElementalAction
	stretch   models.ElementalAction
	readPages models.ElementalAction
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	f := fixture{store: New()}
	f.persona = models.Persona{ID: models.NewPersonaID(), Name: "Athlete", CreatedAt: base}
	f.fitness = models.Benchmark{ID: models.NewBenchmarkID(), PersonaID: f.persona.ID, Title: "Run a 10k", CreatedAt: base}
	f.reading = models.Benchmark{ID: models.NewBenchmarkID(), PersonaID: f.persona.ID, Title: "Read 12 books", CreatedAt: base.Add(time.Minute)}
	f.run = models.ElementalAction{ID: models.NewActionID(), BenchmarkID: f.fitness.ID, Title: "Run", Frequency: models.NewFrequency(models.Monday, models.Wednesday, models.Friday), CreatedAt: base}
	f.stretch = models.ElementalAction{ID: models.NewActionID(), BenchmarkID: f.fitness.ID, Title: "Stretch", Frequency: models.Daily(), CreatedAt: base.Add(time.Second)}
	f.readPages = models.ElementalAction{ID: models.NewActionID(), BenchmarkID: f.reading.ID, Title: "Read 10 pages", Frequency: models.Daily(), CreatedAt: base.Add(2 * time.Second)}

	if err := f.store.AddPersona(f.persona); err != nil {
		t.Fatalf("AddPersona: %v", err)
	}
	for _, b := range []models.Benchmark{f.fitness, f.reading} {
		if err := f.store.AddBenchmark(b); err != nil {
			t.Fatalf("AddBenchmark: %v", err)
		}
	}
	for _, a := range []models.ElementalAction{f.run, f.stretch, f.readPages} {
		if err := f.store.AddAction(a); err != nil {
			t.Fatalf("AddAction: %v", err)
		}
	}
	return f
}

func TestToggleCreatesThenFlips(t *testing.T) {
	f := newFixture(t)
	day := models.NewDate(2026, 10, 14)

	first, created, err := f.store.Toggle(f.run.ID, day, base)
	if err != nil {
		t.Fatalf("Toggle: %v", err)
	}
	if !created || !first.Status {
		t.Fatalf("first toggle = %+v created=%v, want new record with status true", first, created)
	}

	second, created, err := f.store.Toggle(f.run.ID, day, base.Add(time.Hour))
	if err != nil {
		t.Fatalf("Toggle: %v", err)
	}
	if created || second.Status {
		t.Errorf("second toggle = %+v created=%v, want flipped to false", second, created)
	}
	if second.ID != first.ID || !second.CreatedAt.Equal(first.CreatedAt) {
		t.Errorf("record identity changed: %s -> %s", first.ID, second.ID)
	}

	third, _, err := f.store.Toggle(f.run.ID, day, base.Add(2*time.Hour))
	if err != nil {
		t.Fatalf("Toggle: %v", err)
	}
	if !third.Status || third.ID != first.ID {
		t.Errorf("third toggle = %+v, want status true on same record", third)
	}

	if got := f.store.LogsFor(f.run.ID); len(got) != 1 {
		t.Errorf("LogsFor() has %d records, want 1", len(got))
	}
}

func TestToggleUnknownAction(t *testing.T) {
	f := newFixture(t)
	_, _, err := f.store.Toggle("missing", models.NewDate(2026, 10, 14), base)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Toggle(missing) = %v, want ErrNotFound", err)
	}
}

func TestDeleteBenchmarkCascades(t *testing.T) {
	f := newFixture(t)
	today := models.NewDate(2026, 10, 16) // Friday
	for i := 0; i < 7; i++ {
		day := today.AddDays(-i)
		if _, _, err := f.store.Toggle(f.stretch.ID, day, base); err != nil {
			t.Fatal(err)
		}
	}
	if _, _, err := f.store.Toggle(f.readPages.ID, today, base); err != nil {
		t.Fatal(err)
	}

	removal, err := f.store.DeleteBenchmark(f.fitness.ID)
	if err != nil {
		t.Fatalf("DeleteBenchmark: %v", err)
	}
	if len(removal.Benchmarks) != 1 || len(removal.Actions) != 2 || len(removal.Logs) != 7 {
		t.Errorf("removal = %d benchmarks, %d actions, %d logs; want 1, 2, 7",
			len(removal.Benchmarks), len(removal.Actions), len(removal.Logs))
	}

	if _, err := f.store.Action(f.run.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("run action still present: %v", err)
	}
	if got := f.store.BenchmarksFor(f.persona.ID); len(got) != 1 || got[0].ID != f.reading.ID {
		t.Errorf("BenchmarksFor() = %+v, want only reading", got)
	}

	actions := f.store.ActionsForPersona(f.persona.ID)
	logs := f.store.LogsForPersona(f.persona.ID)
	if len(actions) != 1 || len(logs) != 1 {
		t.Fatalf("persona has %d actions and %d logs after delete, want 1 and 1", len(actions), len(logs))
	}

	res := momentum.Compute(momentum.Input{
		Actions:    actions,
		Logs:       logs,
		Since:      models.DateOf(f.persona.CreatedAt),
		Today:      today,
		WindowDays: 7,
	})
	if res.Expected != 7 || res.Completed != 1 {
		t.Errorf("momentum after delete = %+v, want expected=7 completed=1", res)
	}
}

func TestDeletePersonaCascades(t *testing.T) {
	f := newFixture(t)
	if _, _, err := f.store.Toggle(f.readPages.ID, models.NewDate(2026, 10, 2), base); err != nil {
		t.Fatal(err)
	}

	removal, err := f.store.DeletePersona(f.persona.ID)
	if err != nil {
		t.Fatalf("DeletePersona: %v", err)
	}
	if len(removal.Personas) != 1 || len(removal.Benchmarks) != 2 || len(removal.Actions) != 3 || len(removal.Logs) != 1 {
		t.Errorf("removal = %+v", removal)
	}

	ds := f.store.Dataset()
	if len(ds.Personas)+len(ds.Benchmarks)+len(ds.Actions)+len(ds.Logs) != 0 {
		t.Errorf("dataset not empty after delete: %+v", ds)
	}

	if _, err := f.store.DeletePersona(f.persona.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete = %v, want ErrNotFound", err)
	}
}

func TestDeleteActionKeepsSiblings(t *testing.T) {
	f := newFixture(t)
	if _, err := f.store.DeleteAction(f.run.ID); err != nil {
		t.Fatalf("DeleteAction: %v", err)
	}
	got := f.store.ActionsFor(f.fitness.ID)
	if len(got) != 1 || got[0].ID != f.stretch.ID {
		t.Errorf("ActionsFor() = %+v, want only stretch", got)
	}
}

func TestAddRejectsOrphans(t *testing.T) {
	s := New()
	err := s.AddBenchmark(models.Benchmark{ID: "b", PersonaID: "nobody"})
	if !errors.Is(err, ErrOrphan) {
		t.Errorf("AddBenchmark orphan = %v, want ErrOrphan", err)
	}
	err = s.AddAction(models.ElementalAction{ID: "a", BenchmarkID: "nothing"})
	if !errors.Is(err, ErrOrphan) {
		t.Errorf("AddAction orphan = %v, want ErrOrphan", err)
	}
}

func TestFromDatasetRoundTrip(t *testing.T) {
	f := newFixture(t)
	for i := 0; i < 3; i++ {
		if _, _, err := f.store.Toggle(f.stretch.ID, models.NewDate(2026, 10, 3+i), base); err != nil {
			t.Fatal(err)
		}
	}
	if err := f.store.AppendReflection(models.Reflection{ID: models.NewReflectionID(), PersonaID: f.persona.ID, PeriodType: models.PeriodWeekly, MomentumScore: 40, CreatedAt: base}); err != nil {
		t.Fatal(err)
	}

	ds := f.store.Dataset()
	rebuilt, err := FromDataset(ds)
	if err != nil {
		t.Fatalf("FromDataset: %v", err)
	}
	if diff := cmp.Diff(ds, rebuilt.Dataset()); diff != "" {
		t.Errorf("dataset mismatch (-want +got):\n%s", diff)
	}
}

func TestFromDatasetRejectsDuplicateLogs(t *testing.T) {
	f := newFixture(t)
	ds := f.store.Dataset()
	day := models.NewDate(2026, 10, 5)
	ds.Logs = []models.DailyLog{
		{ID: "l1", ActionID: f.run.ID, LogDate: day, Status: true},
		{ID: "l2", ActionID: f.run.ID, LogDate: day, Status: false},
	}
	if _, err := FromDataset(ds); !errors.Is(err, ErrDuplicateLog) {
		t.Errorf("FromDataset() = %v, want ErrDuplicateLog", err)
	}
}

func TestFromDatasetRejectsOrphanLog(t *testing.T) {
	ds := models.Dataset{Logs: []models.DailyLog{{ID: "l1", ActionID: "ghost", LogDate: models.NewDate(2026, 1, 1)}}}
	if _, err := FromDataset(ds); !errors.Is(err, ErrOrphan) {
		t.Errorf("FromDataset() = %v, want ErrOrphan", err)
	}
}

func TestPersonaOf(t *testing.T) {
	f := newFixture(t)
	p, err := f.store.PersonaOf(f.readPages.ID)
	if err != nil {
		t.Fatalf("PersonaOf: %v", err)
	}
	if p.ID != f.persona.ID {
		t.Errorf("PersonaOf() = %s, want %s", p.ID, f.persona.ID)
	}
}

func TestUpdateActionNormalisesFrequency(t *testing.T) {
	f := newFixture(t)
	edited := f.run
	edited.Frequency = models.Frequency{models.Friday, models.Monday, models.Friday}
	edited.BenchmarkID = f.reading.ID // owner changes are ignored
	if err := f.store.UpdateAction(edited); err != nil {
		t.Fatalf("UpdateAction: %v", err)
	}
	got, _ := f.store.Action(f.run.ID)
	if diff := cmp.Diff(models.Frequency{models.Monday, models.Friday}, got.Frequency); diff != "" {
		t.Errorf("frequency mismatch (-want +got):\n%s", diff)
	}
	if got.BenchmarkID != f.fitness.ID {
		t.Errorf("owner changed to %s", got.BenchmarkID)
	}
}

func TestReflectionsNewestFirst(t *testing.T) {
	f := newFixture(t)
	for i := 0; i < 3; i++ {
		r := models.Reflection{ID: models.NewReflectionID(), PersonaID: f.persona.ID, MomentumScore: i, CreatedAt: base.AddDate(0, 0, i)}
		if err := f.store.AppendReflection(r); err != nil {
			t.Fatal(err)
		}
	}
	got := f.store.Reflections(f.persona.ID)
	if len(got) != 3 || got[0].MomentumScore != 2 || got[2].MomentumScore != 0 {
		t.Errorf("Reflections() order = %+v", got)
	}
	if len(f.store.Reflections("other")) != 0 {
		t.Error("Reflections(other) should be empty")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	f := newFixture(t)
	day := models.NewDate(2026, 10, 14)
	if _, _, err := f.store.Toggle(f.run.ID, day, base); err != nil {
		t.Fatalf("Toggle: %v", err)
	}
	want := f.store.Dataset()

	c := f.store.Clone()
	if _, _, err := c.Toggle(f.run.ID, day, base); err != nil {
		t.Fatalf("Toggle on clone: %v", err)
	}
	if _, _, err := c.Toggle(f.stretch.ID, day, base); err != nil {
		t.Fatalf("Toggle on clone: %v", err)
	}
	if _, err := c.DeleteBenchmark(f.reading.ID); err != nil {
		t.Fatalf("DeleteBenchmark on clone: %v", err)
	}

	if diff := cmp.Diff(want, f.store.Dataset()); diff != "" {
		t.Errorf("original changed through clone (-want +got):\n%s", diff)
	}
	if got := f.store.BenchmarksFor(f.persona.ID); len(got) != 2 {
		t.Errorf("original BenchmarksFor() = %d, want 2", len(got))
	}
	if got := c.BenchmarksFor(f.persona.ID); len(got) != 1 {
		t.Errorf("clone BenchmarksFor() = %d, want 1", len(got))
	}
}
