package records

import (
	"fmt"

	"github.com/julianstephens/becoming/internal/models"
)

// DeletePersona removes a persona and everything it owns.
func (s *Store) DeletePersona(id models.PersonaID) (models.Removal, error) {
	if _, ok := s.personas[id]; !ok {
		return models.Removal{}, fmt.Errorf("persona %s: %w", id, ErrNotFound)
	}
	var r models.Removal
	for _, bid := range append([]models.BenchmarkID(nil), s.benchmarksByPersona[id]...) {
		s.dropBenchmark(bid, &r)
	}
	delete(s.benchmarksByPersona, id)
	delete(s.personas, id)
	r.Personas = append(r.Personas, id)
	return r, nil
}

// DeleteBenchmark removes a benchmark, its actions and their logs.
func (s *Store) DeleteBenchmark(id models.BenchmarkID) (models.Removal, error) {
	b, ok := s.benchmarks[id]
	if !ok {
		return models.Removal{}, fmt.Errorf("benchmark %s: %w", id, ErrNotFound)
	}
	var r models.Removal
	s.dropBenchmark(id, &r)
	s.benchmarksByPersona[b.PersonaID] = without(s.benchmarksByPersona[b.PersonaID], id)
	return r, nil
}

// DeleteAction removes an action and its logs.
func (s *Store) DeleteAction(id models.ActionID) (models.Removal, error) {
	a, ok := s.actions[id]
	if !ok {
		return models.Removal{}, fmt.Errorf("action %s: %w", id, ErrNotFound)
	}
	var r models.Removal
	s.dropAction(id, &r)
	s.actionsByBenchmark[a.BenchmarkID] = without(s.actionsByBenchmark[a.BenchmarkID], id)
	return r, nil
}

// dropBenchmark leaves the persona's child list for the caller to fix up.
func (s *Store) dropBenchmark(id models.BenchmarkID, r *models.Removal) {
	for _, aid := range s.actionsByBenchmark[id] {
		s.dropAction(aid, r)
	}
	delete(s.actionsByBenchmark, id)
	delete(s.benchmarks, id)
	r.Benchmarks = append(r.Benchmarks, id)
}

// dropAction leaves the benchmark's child list for the caller to fix up.
func (s *Store) dropAction(id models.ActionID, r *models.Removal) {
	for _, lid := range s.logsByAction[id] {
		delete(s.logs, lid)
		r.Logs = append(r.Logs, lid)
	}
	delete(s.logsByAction, id)
	delete(s.actions, id)
	r.Actions = append(r.Actions, id)
}

func without[T comparable](ids []T, drop T) []T {
	out := ids[:0]
	for _, id := range ids {
		if id != drop {
			out = append(out, id)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
