package tracker

import (
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/becoming/internal/models"
	"github.com/julianstephens/becoming/internal/records"
)

// ErrAmbiguous is returned when a reference matches more than one record.
var ErrAmbiguous = errors.New("reference matches more than one record")

// ErrNoActivePersona is returned when no persona is given and none is active.
var ErrNoActivePersona = errors.New("no persona selected; pass --persona or run 'becoming persona use'")

// resolve matches ref against an exact id, then a unique case-insensitive
// name, then a unique id prefix. Names win over prefixes so a short name
// made of hex letters is not shadowed by an id.
func resolve[T ~string](kind, ref string, ids []T, name func(T) string) (T, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", fmt.Errorf("%w: empty %s reference", records.ErrNotFound, kind)
	}
	var byPrefix, byName []T
	for _, id := range ids {
		if string(id) == ref {
			return id, nil
		}
		if strings.HasPrefix(string(id), ref) {
			byPrefix = append(byPrefix, id)
		}
		if strings.EqualFold(name(id), ref) {
			byName = append(byName, id)
		}
	}
	for _, matches := range [][]T{byName, byPrefix} {
		switch len(matches) {
		case 0:
			continue
		case 1:
			return matches[0], nil
		default:
			return "", fmt.Errorf("%w: %s %q", ErrAmbiguous, kind, ref)
		}
	}
	return "", fmt.Errorf("%w: %s %q", records.ErrNotFound, kind, ref)
}

func (t *Tracker) ResolvePersona(ref string) (models.Persona, error) {
	personas := t.store.Personas()
	names := make(map[models.PersonaID]string, len(personas))
	ids := make([]models.PersonaID, len(personas))
	for i, p := range personas {
		ids[i] = p.ID
		names[p.ID] = p.Name
	}
	id, err := resolve("persona", ref, ids, func(id models.PersonaID) string { return names[id] })
	if err != nil {
		return models.Persona{}, err
	}
	return t.store.Persona(id)
}

// PersonaOrActive resolves ref, or the active persona from settings when ref is empty.
func (t *Tracker) PersonaOrActive(ref string) (models.Persona, error) {
	if ref != "" {
		return t.ResolvePersona(ref)
	}
	settings, err := t.provider.GetSettings()
	if err != nil {
		return models.Persona{}, fmt.Errorf("failed to read settings: %w", err)
	}
	if settings.ActivePersona != "" {
		if p, err := t.store.Persona(settings.ActivePersona); err == nil {
			return p, nil
		}
	}
	if personas := t.store.Personas(); len(personas) == 1 {
		return personas[0], nil
	}
	return models.Persona{}, ErrNoActivePersona
}

// UsePersona makes id the default for commands that take an optional persona.
func (t *Tracker) UsePersona(id models.PersonaID) error {
	if _, err := t.store.Persona(id); err != nil {
		return err
	}
	settings, err := t.provider.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to read settings: %w", err)
	}
	settings.ActivePersona = id
	if err := t.provider.SaveSettings(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}

// ResolveBenchmark matches ref among all benchmarks, or only persona's when persona is set.
func (t *Tracker) ResolveBenchmark(persona models.PersonaID, ref string) (models.Benchmark, error) {
	var pool []models.Benchmark
	if persona != "" {
		pool = t.store.BenchmarksFor(persona)
	} else {
		for _, p := range t.store.Personas() {
			pool = append(pool, t.store.BenchmarksFor(p.ID)...)
		}
	}
	titles := make(map[models.BenchmarkID]string, len(pool))
	ids := make([]models.BenchmarkID, len(pool))
	for i, b := range pool {
		ids[i] = b.ID
		titles[b.ID] = b.Title
	}
	id, err := resolve("benchmark", ref, ids, func(id models.BenchmarkID) string { return titles[id] })
	if err != nil {
		return models.Benchmark{}, err
	}
	return t.store.Benchmark(id)
}

// ResolveAction matches ref among all actions, or only persona's when persona is set.
func (t *Tracker) ResolveAction(persona models.PersonaID, ref string) (models.ElementalAction, error) {
	var pool []models.ElementalAction
	if persona != "" {
		pool = t.store.ActionsForPersona(persona)
	} else {
		for _, p := range t.store.Personas() {
			pool = append(pool, t.store.ActionsForPersona(p.ID)...)
		}
	}
	titles := make(map[models.ActionID]string, len(pool))
	ids := make([]models.ActionID, len(pool))
	for i, a := range pool {
		ids[i] = a.ID
		titles[a.ID] = a.Title
	}
	id, err := resolve("action", ref, ids, func(id models.ActionID) string { return titles[id] })
	if err != nil {
		return models.ElementalAction{}, err
	}
	return t.store.Action(id)
}
