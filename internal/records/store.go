// Package records is the in-memory index of personas, benchmarks, actions,
// logs and reflections. Ownership lookups and cascade deletes run against
// owner-to-children maps instead of scanning whole collections.
package records

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"sort"
	"time"

	"github.com/julianstephens/becoming/internal/models"
)

var (
	// ErrNotFound is returned for an unknown id.
	ErrNotFound = errors.New("record not found")
	// ErrOrphan is returned when a record's owner does not exist.
	ErrOrphan = errors.New("owner record does not exist")
	// ErrDuplicateLog is returned when two logs share an (action, date) pair.
	ErrDuplicateLog = errors.New("duplicate log for action and date")
)

// Store is not safe for concurrent use; one owner drives it from one goroutine.
type Store struct {
	personas    map[models.PersonaID]models.Persona
	benchmarks  map[models.BenchmarkID]models.Benchmark
	actions     map[models.ActionID]models.ElementalAction
	logs        map[models.LogID]models.DailyLog
	reflections []models.Reflection

	benchmarksByPersona map[models.PersonaID][]models.BenchmarkID
	actionsByBenchmark  map[models.BenchmarkID][]models.ActionID
	logsByAction        map[models.ActionID]map[models.Date]models.LogID
}

func New() *Store {
	return &Store{
		personas:            make(map[models.PersonaID]models.Persona),
		benchmarks:          make(map[models.BenchmarkID]models.Benchmark),
		actions:             make(map[models.ActionID]models.ElementalAction),
		logs:                make(map[models.LogID]models.DailyLog),
		benchmarksByPersona: make(map[models.PersonaID][]models.BenchmarkID),
		actionsByBenchmark:  make(map[models.BenchmarkID][]models.ActionID),
		logsByAction:        make(map[models.ActionID]map[models.Date]models.LogID),
	}
}

// FromDataset indexes persisted collections, rejecting orphans and duplicate logs.
func FromDataset(ds models.Dataset) (*Store, error) {
	s := New()
	for _, p := range ds.Personas {
		if err := s.AddPersona(p); err != nil {
			return nil, err
		}
	}
	for _, b := range ds.Benchmarks {
		if err := s.AddBenchmark(b); err != nil {
			return nil, err
		}
	}
	for _, a := range ds.Actions {
		if err := s.AddAction(a); err != nil {
			return nil, err
		}
	}
	for _, l := range ds.Logs {
		if err := s.addLog(l); err != nil {
			return nil, err
		}
	}
	for _, r := range ds.Reflections {
		if err := s.AppendReflection(r); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Clone returns an independent copy of the store. Record values are shared
// but never mutated in place, so copying the maps and indexes is enough.
func (s *Store) Clone() *Store {
	c := &Store{
		personas:            maps.Clone(s.personas),
		benchmarks:          maps.Clone(s.benchmarks),
		actions:             maps.Clone(s.actions),
		logs:                maps.Clone(s.logs),
		reflections:         slices.Clone(s.reflections),
		benchmarksByPersona: make(map[models.PersonaID][]models.BenchmarkID, len(s.benchmarksByPersona)),
		actionsByBenchmark:  make(map[models.BenchmarkID][]models.ActionID, len(s.actionsByBenchmark)),
		logsByAction:        make(map[models.ActionID]map[models.Date]models.LogID, len(s.logsByAction)),
	}
	for id, ids := range s.benchmarksByPersona {
		c.benchmarksByPersona[id] = slices.Clone(ids)
	}
	for id, ids := range s.actionsByBenchmark {
		c.actionsByBenchmark[id] = slices.Clone(ids)
	}
	for id, byDate := range s.logsByAction {
		c.logsByAction[id] = maps.Clone(byDate)
	}
	return c
}

// Dataset returns every record ordered by creation time, then id.
func (s *Store) Dataset() models.Dataset {
	ds := models.Dataset{
		Personas:    s.Personas(),
		Reflections: append([]models.Reflection(nil), s.reflections...),
	}
	for _, b := range s.benchmarks {
		ds.Benchmarks = append(ds.Benchmarks, b)
	}
	for _, a := range s.actions {
		ds.Actions = append(ds.Actions, a)
	}
	for _, l := range s.logs {
		ds.Logs = append(ds.Logs, l)
	}
	sort.Slice(ds.Benchmarks, func(i, j int) bool {
		return before(ds.Benchmarks[i].CreatedAt, ds.Benchmarks[j].CreatedAt, string(ds.Benchmarks[i].ID), string(ds.Benchmarks[j].ID))
	})
	sort.Slice(ds.Actions, func(i, j int) bool {
		return before(ds.Actions[i].CreatedAt, ds.Actions[j].CreatedAt, string(ds.Actions[i].ID), string(ds.Actions[j].ID))
	})
	sortLogs(ds.Logs)
	return ds
}

// Personas

func (s *Store) AddPersona(p models.Persona) error {
	if p.ID == "" {
		return fmt.Errorf("persona id is required")
	}
	if _, exists := s.personas[p.ID]; exists {
		return fmt.Errorf("persona %s already exists", p.ID)
	}
	s.personas[p.ID] = p
	return nil
}

func (s *Store) UpdatePersona(p models.Persona) error {
	if _, ok := s.personas[p.ID]; !ok {
		return fmt.Errorf("persona %s: %w", p.ID, ErrNotFound)
	}
	s.personas[p.ID] = p
	return nil
}

func (s *Store) Persona(id models.PersonaID) (models.Persona, error) {
	p, ok := s.personas[id]
	if !ok {
		return models.Persona{}, fmt.Errorf("persona %s: %w", id, ErrNotFound)
	}
	return p, nil
}

// Personas returns all personas, oldest first.
func (s *Store) Personas() []models.Persona {
	out := make([]models.Persona, 0, len(s.personas))
	for _, p := range s.personas {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		return before(out[i].CreatedAt, out[j].CreatedAt, string(out[i].ID), string(out[j].ID))
	})
	return out
}

// Benchmarks

func (s *Store) AddBenchmark(b models.Benchmark) error {
	if b.ID == "" {
		return fmt.Errorf("benchmark id is required")
	}
	if _, ok := s.personas[b.PersonaID]; !ok {
		return fmt.Errorf("benchmark %s references persona %s: %w", b.ID, b.PersonaID, ErrOrphan)
	}
	if _, exists := s.benchmarks[b.ID]; exists {
		return fmt.Errorf("benchmark %s already exists", b.ID)
	}
	if b.Status == "" {
		b.Status = models.BenchmarkActive
	}
	s.benchmarks[b.ID] = b
	s.benchmarksByPersona[b.PersonaID] = append(s.benchmarksByPersona[b.PersonaID], b.ID)
	return nil
}

// UpdateBenchmark replaces a benchmark's fields; its owner cannot change.
func (s *Store) UpdateBenchmark(b models.Benchmark) error {
	old, ok := s.benchmarks[b.ID]
	if !ok {
		return fmt.Errorf("benchmark %s: %w", b.ID, ErrNotFound)
	}
	b.PersonaID = old.PersonaID
	s.benchmarks[b.ID] = b
	return nil
}

func (s *Store) Benchmark(id models.BenchmarkID) (models.Benchmark, error) {
	b, ok := s.benchmarks[id]
	if !ok {
		return models.Benchmark{}, fmt.Errorf("benchmark %s: %w", id, ErrNotFound)
	}
	return b, nil
}

// BenchmarksFor returns a persona's benchmarks in insertion order.
func (s *Store) BenchmarksFor(id models.PersonaID) []models.Benchmark {
	ids := s.benchmarksByPersona[id]
	out := make([]models.Benchmark, 0, len(ids))
	for _, bid := range ids {
		out = append(out, s.benchmarks[bid])
	}
	return out
}

// Actions

func (s *Store) AddAction(a models.ElementalAction) error {
	if a.ID == "" {
		return fmt.Errorf("action id is required")
	}
	if _, ok := s.benchmarks[a.BenchmarkID]; !ok {
		return fmt.Errorf("action %s references benchmark %s: %w", a.ID, a.BenchmarkID, ErrOrphan)
	}
	if _, exists := s.actions[a.ID]; exists {
		return fmt.Errorf("action %s already exists", a.ID)
	}
	a.Frequency = models.NewFrequency(a.Frequency...)
	s.actions[a.ID] = a
	s.actionsByBenchmark[a.BenchmarkID] = append(s.actionsByBenchmark[a.BenchmarkID], a.ID)
	return nil
}

// UpdateAction replaces an action's fields; its owner cannot change.
func (s *Store) UpdateAction(a models.ElementalAction) error {
	old, ok := s.actions[a.ID]
	if !ok {
		return fmt.Errorf("action %s: %w", a.ID, ErrNotFound)
	}
	a.BenchmarkID = old.BenchmarkID
	a.Frequency = models.NewFrequency(a.Frequency...)
	s.actions[a.ID] = a
	return nil
}

func (s *Store) Action(id models.ActionID) (models.ElementalAction, error) {
	a, ok := s.actions[id]
	if !ok {
		return models.ElementalAction{}, fmt.Errorf("action %s: %w", id, ErrNotFound)
	}
	return a, nil
}

// ActionsFor returns a benchmark's actions in insertion order.
func (s *Store) ActionsFor(id models.BenchmarkID) []models.ElementalAction {
	ids := s.actionsByBenchmark[id]
	out := make([]models.ElementalAction, 0, len(ids))
	for _, aid := range ids {
		out = append(out, s.actions[aid])
	}
	return out
}

// ActionsForPersona returns every action under every benchmark of a persona.
func (s *Store) ActionsForPersona(id models.PersonaID) []models.ElementalAction {
	var out []models.ElementalAction
	for _, bid := range s.benchmarksByPersona[id] {
		out = append(out, s.ActionsFor(bid)...)
	}
	return out
}

// PersonaOf resolves the persona that owns an action.
func (s *Store) PersonaOf(id models.ActionID) (models.Persona, error) {
	a, err := s.Action(id)
	if err != nil {
		return models.Persona{}, err
	}
	b, err := s.Benchmark(a.BenchmarkID)
	if err != nil {
		return models.Persona{}, err
	}
	return s.Persona(b.PersonaID)
}

// Logs

func (s *Store) addLog(l models.DailyLog) error {
	if l.ID == "" {
		return fmt.Errorf("log id is required")
	}
	if _, ok := s.actions[l.ActionID]; !ok {
		return fmt.Errorf("log %s references action %s: %w", l.ID, l.ActionID, ErrOrphan)
	}
	byDate := s.logsByAction[l.ActionID]
	if byDate == nil {
		byDate = make(map[models.Date]models.LogID)
		s.logsByAction[l.ActionID] = byDate
	}
	if _, dup := byDate[l.LogDate]; dup {
		return fmt.Errorf("action %s on %s: %w", l.ActionID, l.LogDate, ErrDuplicateLog)
	}
	byDate[l.LogDate] = l.ID
	s.logs[l.ID] = l
	return nil
}

// Log returns the record for (action, date), if any.
func (s *Store) Log(action models.ActionID, date models.Date) (models.DailyLog, bool) {
	id, ok := s.logsByAction[action][date]
	if !ok {
		return models.DailyLog{}, false
	}
	return s.logs[id], true
}

// LogsFor returns an action's logs ordered by date.
func (s *Store) LogsFor(id models.ActionID) []models.DailyLog {
	byDate := s.logsByAction[id]
	out := make([]models.DailyLog, 0, len(byDate))
	for _, lid := range byDate {
		out = append(out, s.logs[lid])
	}
	sortLogs(out)
	return out
}

// LogsForPersona returns the logs of every action a persona owns.
func (s *Store) LogsForPersona(id models.PersonaID) []models.DailyLog {
	var out []models.DailyLog
	for _, a := range s.ActionsForPersona(id) {
		out = append(out, s.LogsFor(a.ID)...)
	}
	return out
}

// Toggle flips the (action, date) check-in. An existing record has its status
// inverted in place and keeps its id; otherwise a new record is created with
// status true. No operation sets a status directly.
func (s *Store) Toggle(action models.ActionID, date models.Date, now time.Time) (log models.DailyLog, created bool, err error) {
	if _, ok := s.actions[action]; !ok {
		return models.DailyLog{}, false, fmt.Errorf("action %s: %w", action, ErrNotFound)
	}
	if existing, ok := s.Log(action, date); ok {
		existing.Status = !existing.Status
		s.logs[existing.ID] = existing
		return existing, false, nil
	}

	log = models.DailyLog{
		ID:        models.NewLogID(),
		ActionID:  action,
		LogDate:   date,
		Status:    true,
		CreatedAt: now,
	}
	if err := s.addLog(log); err != nil {
		return models.DailyLog{}, false, err
	}
	return log, true, nil
}

// Reflections

// AppendReflection adds an immutable reflection. Reflections outlive the
// persona they were taken for, so PersonaID is not checked here.
func (s *Store) AppendReflection(r models.Reflection) error {
	if r.ID == "" {
		return fmt.Errorf("reflection id is required")
	}
	s.reflections = append(s.reflections, r)
	return nil
}

// Reflections returns reflections for a persona (all when id is empty), newest first.
func (s *Store) Reflections(id models.PersonaID) []models.Reflection {
	var out []models.Reflection
	for _, r := range s.reflections {
		if id == "" || r.PersonaID == id {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func before(a, b time.Time, aid, bid string) bool {
	if !a.Equal(b) {
		return a.Before(b)
	}
	return aid < bid
}

func sortLogs(logs []models.DailyLog) {
	sort.Slice(logs, func(i, j int) bool {
		if c := logs[i].LogDate.Compare(logs[j].LogDate); c != 0 {
			return c < 0
		}
		return logs[i].ActionID < logs[j].ActionID
	})
}
