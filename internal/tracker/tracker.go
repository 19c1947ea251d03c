// Package tracker is the application service over the record store: every
// mutation is applied to the in-memory store, persisted, and (for toggles)
// followed by a score recomputation that is published to subscribers.
package tracker

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/julianstephens/becoming/internal/calendar"
	"github.com/julianstephens/becoming/internal/logger"
	"github.com/julianstephens/becoming/internal/models"
	"github.com/julianstephens/becoming/internal/momentum"
	"github.com/julianstephens/becoming/internal/records"
	"github.com/julianstephens/becoming/internal/storage"
)

// ScoreUpdate is published after every toggle.
type ScoreUpdate struct {
	PersonaID models.PersonaID
	Log       models.DailyLog
	Scores    momentum.Scores
}

type Tracker struct {
	provider storage.Provider
	store    *records.Store
	now      func() time.Time
	loc      *time.Location

	subs    map[int]func(ScoreUpdate)
	nextSub int
}

type Option func(*Tracker)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

// WithLocation sets the zone that decides which calendar day "today" is.
func WithLocation(loc *time.Location) Option {
	return func(t *Tracker) {
		if loc != nil {
			t.loc = loc
		}
	}
}

func New(provider storage.Provider, opts ...Option) *Tracker {
	t := &Tracker{
		provider: provider,
		store:    records.New(),
		now:      time.Now,
		loc:      time.Local,
		subs:     make(map[int]func(ScoreUpdate)),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Load replaces the in-memory store with the persisted dataset.
func (t *Tracker) Load(ctx context.Context) error {
	ds, err := storage.LoadDataset(ctx, t.provider)
	if err != nil {
		return err
	}
	store, err := records.FromDataset(ds)
	if err != nil {
		return fmt.Errorf("stored data is inconsistent: %w", err)
	}
	t.store = store
	logger.Debug("Dataset loaded",
		"personas", len(ds.Personas), "benchmarks", len(ds.Benchmarks),
		"actions", len(ds.Actions), "logs", len(ds.Logs), "reflections", len(ds.Reflections))
	return nil
}

// Records exposes the store for read-only queries.
func (t *Tracker) Records() *records.Store {
	return t.store
}

// Now is the current instant in the tracker's location.
func (t *Tracker) Now() time.Time {
	return t.now().In(t.loc)
}

func (t *Tracker) Today() models.Date {
	return models.DateOf(t.Now())
}

func (t *Tracker) Location() *time.Location {
	return t.loc
}

// Subscribe registers fn for score updates and returns a function that removes it.
func (t *Tracker) Subscribe(fn func(ScoreUpdate)) (unsubscribe func()) {
	id := t.nextSub
	t.nextSub++
	t.subs[id] = fn
	return func() { delete(t.subs, id) }
}

func (t *Tracker) publish(u ScoreUpdate) {
	ids := make([]int, 0, len(t.subs))
	for id := range t.subs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		// an earlier subscriber may have unsubscribed this one
		if fn, ok := t.subs[id]; ok {
			fn(u)
		}
	}
}

// checkpoint captures the store before a mutation. The returned rollback
// puts that copy back.
func (t *Tracker) checkpoint() (rollback func()) {
	saved := t.store.Clone()
	return func() { t.store = saved }
}

// persisted runs save and, when it fails, rolls the store back so memory
// matches storage again.
func (t *Tracker) persisted(what string, rollback func(), save func() error) error {
	if err := save(); err != nil {
		rollback()
		logger.Warn("Write failed, in-memory change rolled back", "what", what, "error", err)
		return fmt.Errorf("failed to save %s: %w", what, err)
	}
	return nil
}

// Toggle flips the check-in for (action, date), persists it, recomputes the
// owning persona's scores and publishes them.
func (t *Tracker) Toggle(ctx context.Context, action models.ActionID, date models.Date) (ScoreUpdate, error) {
	if err := calendar.CanToggle(date, t.Today()); err != nil {
		return ScoreUpdate{}, err
	}
	persona, err := t.store.PersonaOf(action)
	if err != nil {
		return ScoreUpdate{}, err
	}

	rollback := t.checkpoint()
	log, created, err := t.store.Toggle(action, date, t.now())
	if err != nil {
		return ScoreUpdate{}, err
	}
	if err := t.persisted("daily log", rollback, func() error { return t.provider.SaveLog(log) }); err != nil {
		return ScoreUpdate{}, err
	}
	logger.Debug("Toggled", "action", action, "date", date, "status", log.Status, "created", created)

	update := ScoreUpdate{PersonaID: persona.ID, Log: log, Scores: t.scoresFor(persona)}
	t.publish(update)
	return update, nil
}

// Scores computes momentum (7 days) and alignment (30 days) for a persona.
func (t *Tracker) Scores(id models.PersonaID) (momentum.Scores, error) {
	p, err := t.store.Persona(id)
	if err != nil {
		return momentum.Scores{}, err
	}
	return t.scoresFor(p), nil
}

func (t *Tracker) scoresFor(p models.Persona) momentum.Scores {
	return momentum.Both(p, t.store.ActionsForPersona(p.ID), t.store.LogsForPersona(p.ID), t.Now())
}

func (t *Tracker) calendarContext(id models.PersonaID) (calendar.Context, error) {
	p, err := t.store.Persona(id)
	if err != nil {
		return calendar.Context{}, err
	}
	return calendar.Context{
		Actions: t.store.ActionsForPersona(id),
		Logs:    t.store.LogsForPersona(id),
		Since:   models.DateOf(p.CreatedAt.In(t.loc)),
		Today:   t.Today(),
	}, nil
}

// Month returns the persona's calendar grid.
func (t *Tracker) Month(id models.PersonaID, year int, month time.Month) ([]calendar.Day, error) {
	c, err := t.calendarContext(id)
	if err != nil {
		return nil, err
	}
	return calendar.Month(year, month, c), nil
}

// Day returns the due actions and their state on date.
func (t *Tracker) Day(id models.PersonaID, date models.Date) (calendar.Detail, error) {
	c, err := t.calendarContext(id)
	if err != nil {
		return calendar.Detail{}, err
	}
	return calendar.DayDetail(date, c), nil
}

// Streak returns the current run of fully completed days.
func (t *Tracker) Streak(id models.PersonaID) (int, error) {
	c, err := t.calendarContext(id)
	if err != nil {
		return 0, err
	}
	return calendar.CurrentStreak(c), nil
}
