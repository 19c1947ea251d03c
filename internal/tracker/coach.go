package tracker

import (
	"context"
	"strings"
	"time"

	"github.com/julianstephens/becoming/internal/models"
	"github.com/julianstephens/becoming/internal/scheduler"
)

// ReflectionInput is a finished coaching session.
type ReflectionInput struct {
	PersonaID  models.PersonaID
	Period     models.PeriodType
	UserInput  string
	AIFeedback string
	Transcript []models.Message
}

// AddReflection stores a reflection together with the persona's momentum score at this moment.
func (t *Tracker) AddReflection(ctx context.Context, in ReflectionInput) (models.Reflection, error) {
	scores, err := t.Scores(in.PersonaID)
	if err != nil {
		return models.Reflection{}, err
	}
	period, err := models.ParsePeriodType(string(in.Period))
	if err != nil {
		return models.Reflection{}, err
	}
	r := models.Reflection{
		ID:            models.NewReflectionID(),
		PersonaID:     in.PersonaID,
		PeriodType:    period,
		UserInput:     strings.TrimSpace(in.UserInput),
		AIFeedback:    strings.TrimSpace(in.AIFeedback),
		MomentumScore: scores.Momentum.Score,
		CreatedAt:     t.now(),
		Transcript:    in.Transcript,
	}
	rollback := t.checkpoint()
	if err := t.store.AppendReflection(r); err != nil {
		return models.Reflection{}, err
	}
	if err := t.persisted("reflection", rollback, func() error { return t.provider.AddReflection(r) }); err != nil {
		return models.Reflection{}, err
	}
	return r, nil
}

// Reflections lists a persona's reflections, newest first.
func (t *Tracker) Reflections(id models.PersonaID) []models.Reflection {
	return t.store.Reflections(id)
}

// CoachingBenchmark is an active benchmark in the coaching context.
type CoachingBenchmark struct {
	Title      string `yaml:"title"`
	TargetDate string `yaml:"target_date,omitempty"`
}

// CoachingAction is an action due today.
type CoachingAction struct {
	Title     string `yaml:"title"`
	Anchor    string `yaml:"anchor,omitempty"`
	Kickstart string `yaml:"kickstart,omitempty"`
	DoneToday bool   `yaml:"done_today"`
	Benchmark string `yaml:"benchmark"`
}

// CoachingContext is the plain input handed to a coaching prompt.
type CoachingContext struct {
	Persona          string              `yaml:"persona"`
	Description      string              `yaml:"description,omitempty"`
	DaysActive       int                 `yaml:"days_active"`
	Today            models.Date         `yaml:"today"`
	Momentum         int                 `yaml:"momentum"`
	Alignment        int                 `yaml:"alignment"`
	Streak           int                 `yaml:"streak"`
	ActiveBenchmarks []CoachingBenchmark `yaml:"active_benchmarks"`
	DueToday         []CoachingAction    `yaml:"due_today"`
}

func (t *Tracker) CoachingContext(id models.PersonaID) (CoachingContext, error) {
	p, err := t.store.Persona(id)
	if err != nil {
		return CoachingContext{}, err
	}
	scores := t.scoresFor(p)
	streak, err := t.Streak(id)
	if err != nil {
		return CoachingContext{}, err
	}
	today := t.Today()

	cc := CoachingContext{
		Persona:          p.Name,
		Description:      p.Description,
		DaysActive:       today.DaysSince(models.DateOf(p.CreatedAt.In(t.loc))),
		Today:            today,
		Momentum:         scores.Momentum.Score,
		Alignment:        scores.Alignment.Score,
		Streak:           streak,
		ActiveBenchmarks: []CoachingBenchmark{},
		DueToday:         []CoachingAction{},
	}
	for _, b := range t.store.BenchmarksFor(id) {
		if b.Status != models.BenchmarkActive {
			continue
		}
		cb := CoachingBenchmark{Title: b.Title}
		if b.TargetDate != nil {
			cb.TargetDate = b.TargetDate.In(t.loc).Format(time.DateOnly)
		}
		cc.ActiveBenchmarks = append(cc.ActiveBenchmarks, cb)
	}
	for _, a := range scheduler.DueActions(t.store.ActionsForPersona(id), today) {
		var benchmark string
		if b, err := t.store.Benchmark(a.BenchmarkID); err == nil {
			benchmark = b.Title
		}
		log, ok := t.store.Log(a.ID, today)
		cc.DueToday = append(cc.DueToday, CoachingAction{
			Title:     a.Title,
			Anchor:    a.AnchorLink,
			Kickstart: a.KickstartVersion,
			DoneToday: ok && log.Status,
			Benchmark: benchmark,
		})
	}
	return cc, nil
}
