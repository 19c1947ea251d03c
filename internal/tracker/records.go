package tracker

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/becoming/internal/logger"
	"github.com/julianstephens/becoming/internal/models"
)

// ErrInvalidInput is returned for blank names and titles.
var ErrInvalidInput = errors.New("invalid input")

func required(field, value string) (string, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return "", fmt.Errorf("%w: %s is required", ErrInvalidInput, field)
	}
	return v, nil
}

// Personas

func (t *Tracker) CreatePersona(ctx context.Context, name, description string) (models.Persona, error) {
	name, err := required("name", name)
	if err != nil {
		return models.Persona{}, err
	}
	p := models.Persona{
		ID:          models.NewPersonaID(),
		Name:        name,
		Description: strings.TrimSpace(description),
		CreatedAt:   t.now(),
	}
	rollback := t.checkpoint()
	if err := t.store.AddPersona(p); err != nil {
		return models.Persona{}, err
	}
	if err := t.persisted("persona", rollback, func() error { return t.provider.SavePersona(p) }); err != nil {
		return models.Persona{}, err
	}
	logger.Info("Persona created", "persona", p.ID)
	return p, nil
}

// PersonaEdit lists the fields to change; nil leaves a field alone.
type PersonaEdit struct {
	Name        *string
	Description *string
}

func (t *Tracker) EditPersona(ctx context.Context, id models.PersonaID, edit PersonaEdit) (models.Persona, error) {
	p, err := t.store.Persona(id)
	if err != nil {
		return models.Persona{}, err
	}
	if edit.Name != nil {
		if p.Name, err = required("name", *edit.Name); err != nil {
			return models.Persona{}, err
		}
	}
	if edit.Description != nil {
		p.Description = strings.TrimSpace(*edit.Description)
	}
	rollback := t.checkpoint()
	if err := t.store.UpdatePersona(p); err != nil {
		return models.Persona{}, err
	}
	if err := t.persisted("persona", rollback, func() error { return t.provider.SavePersona(p) }); err != nil {
		return models.Persona{}, err
	}
	return p, nil
}

func (t *Tracker) RenamePersona(ctx context.Context, id models.PersonaID, name string) (models.Persona, error) {
	return t.EditPersona(ctx, id, PersonaEdit{Name: &name})
}

// DeletePersona removes the persona with its benchmarks, actions and logs.
// Reflections are kept.
func (t *Tracker) DeletePersona(ctx context.Context, id models.PersonaID) (models.Removal, error) {
	rollback := t.checkpoint()
	removal, err := t.store.DeletePersona(id)
	if err != nil {
		return models.Removal{}, err
	}
	if err := t.persisted("deletion", rollback, func() error { return t.provider.DeleteRecords(removal) }); err != nil {
		return models.Removal{}, err
	}

	settings, err := t.provider.GetSettings()
	if err == nil && settings.ActivePersona == id {
		settings.ActivePersona = ""
		if err := t.provider.SaveSettings(settings); err != nil {
			logger.Warn("Failed to clear active persona", "error", err)
		}
	}
	logger.Info("Persona deleted", "persona", id, "benchmarks", len(removal.Benchmarks), "actions", len(removal.Actions), "logs", len(removal.Logs))
	return removal, nil
}

// Benchmarks

func (t *Tracker) CreateBenchmark(ctx context.Context, persona models.PersonaID, title string, target *time.Time) (models.Benchmark, error) {
	title, err := required("title", title)
	if err != nil {
		return models.Benchmark{}, err
	}
	b := models.Benchmark{
		ID:         models.NewBenchmarkID(),
		PersonaID:  persona,
		Title:      title,
		TargetDate: target,
		Status:     models.BenchmarkActive,
		CreatedAt:  t.now(),
	}
	rollback := t.checkpoint()
	if err := t.store.AddBenchmark(b); err != nil {
		return models.Benchmark{}, err
	}
	if err := t.persisted("benchmark", rollback, func() error { return t.provider.SaveBenchmark(b) }); err != nil {
		return models.Benchmark{}, err
	}
	return b, nil
}

func (t *Tracker) setBenchmarkStatus(ctx context.Context, id models.BenchmarkID, status models.BenchmarkStatus) (models.Benchmark, error) {
	b, err := t.store.Benchmark(id)
	if err != nil {
		return models.Benchmark{}, err
	}
	b.Status = status
	rollback := t.checkpoint()
	if err := t.store.UpdateBenchmark(b); err != nil {
		return models.Benchmark{}, err
	}
	if err := t.persisted("benchmark", rollback, func() error { return t.provider.SaveBenchmark(b) }); err != nil {
		return models.Benchmark{}, err
	}
	return b, nil
}

func (t *Tracker) CompleteBenchmark(ctx context.Context, id models.BenchmarkID) (models.Benchmark, error) {
	return t.setBenchmarkStatus(ctx, id, models.BenchmarkCompleted)
}

func (t *Tracker) ReopenBenchmark(ctx context.Context, id models.BenchmarkID) (models.Benchmark, error) {
	return t.setBenchmarkStatus(ctx, id, models.BenchmarkActive)
}

func (t *Tracker) DeleteBenchmark(ctx context.Context, id models.BenchmarkID) (models.Removal, error) {
	rollback := t.checkpoint()
	removal, err := t.store.DeleteBenchmark(id)
	if err != nil {
		return models.Removal{}, err
	}
	if err := t.persisted("deletion", rollback, func() error { return t.provider.DeleteRecords(removal) }); err != nil {
		return models.Removal{}, err
	}
	return removal, nil
}

// Actions

// ActionSpec is the editable content of an action.
type ActionSpec struct {
	Title            string
	Frequency        models.Frequency
	AnchorLink       string
	KickstartVersion string
}

func (t *Tracker) CreateAction(ctx context.Context, benchmark models.BenchmarkID, spec ActionSpec) (models.ElementalAction, error) {
	title, err := required("title", spec.Title)
	if err != nil {
		return models.ElementalAction{}, err
	}
	a := models.ElementalAction{
		ID:               models.NewActionID(),
		BenchmarkID:      benchmark,
		Title:            title,
		Frequency:        models.NewFrequency(spec.Frequency...),
		AnchorLink:       strings.TrimSpace(spec.AnchorLink),
		KickstartVersion: strings.TrimSpace(spec.KickstartVersion),
		CreatedAt:        t.now(),
	}
	rollback := t.checkpoint()
	if err := t.store.AddAction(a); err != nil {
		return models.ElementalAction{}, err
	}
	if err := t.persisted("action", rollback, func() error { return t.provider.SaveAction(a) }); err != nil {
		return models.ElementalAction{}, err
	}
	return a, nil
}

// ActionEdit lists the fields to change; nil leaves a field alone.
type ActionEdit struct {
	Title            *string
	Frequency        *models.Frequency
	AnchorLink       *string
	KickstartVersion *string
}

// EditAction updates an action. Past logs are kept as they are; a frequency
// change affects which days count from then on, including past days.
func (t *Tracker) EditAction(ctx context.Context, id models.ActionID, edit ActionEdit) (models.ElementalAction, error) {
	a, err := t.store.Action(id)
	if err != nil {
		return models.ElementalAction{}, err
	}
	if edit.Title != nil {
		if a.Title, err = required("title", *edit.Title); err != nil {
			return models.ElementalAction{}, err
		}
	}
	if edit.Frequency != nil {
		a.Frequency = models.NewFrequency(*edit.Frequency...)
	}
	if edit.AnchorLink != nil {
		a.AnchorLink = strings.TrimSpace(*edit.AnchorLink)
	}
	if edit.KickstartVersion != nil {
		a.KickstartVersion = strings.TrimSpace(*edit.KickstartVersion)
	}
	rollback := t.checkpoint()
	if err := t.store.UpdateAction(a); err != nil {
		return models.ElementalAction{}, err
	}
	if err := t.persisted("action", rollback, func() error { return t.provider.SaveAction(a) }); err != nil {
		return models.ElementalAction{}, err
	}
	return a, nil
}

func (t *Tracker) DeleteAction(ctx context.Context, id models.ActionID) (models.Removal, error) {
	rollback := t.checkpoint()
	removal, err := t.store.DeleteAction(id)
	if err != nil {
		return models.Removal{}, err
	}
	if err := t.persisted("deletion", rollback, func() error { return t.provider.DeleteRecords(removal) }); err != nil {
		return models.Removal{}, err
	}
	return removal, nil
}
