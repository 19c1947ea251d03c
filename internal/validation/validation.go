package validation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/julianstephens/becoming/internal/models"
)

// ConflictType represents the type of integrity problem
type ConflictType string

const (
	ConflictOrphan           ConflictType = "orphan"
	ConflictDuplicateLog     ConflictType = "duplicate_log"
	ConflictDuplicateName    ConflictType = "duplicate_persona_name"
	ConflictEmptyTitle       ConflictType = "empty_title"
	ConflictInvalidFrequency ConflictType = "invalid_frequency"
	ConflictNeverDue         ConflictType = "never_due"
	ConflictInvalidStatus    ConflictType = "invalid_status"
	ConflictInvalidPeriod    ConflictType = "invalid_period"
	ConflictScoreRange       ConflictType = "score_out_of_range"
	ConflictFutureLog        ConflictType = "future_log"
)

// Severity separates data that breaks invariants from data that is merely suspicious.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Conflict represents a detected problem in the dataset
type Conflict struct {
	Type        ConflictType
	Severity    Severity
	Description string
	IDs         []string
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

// HasConflicts returns true if there are any conflicts
func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// HasErrors reports conflicts that violate store invariants.
func (vr *ValidationResult) HasErrors() bool {
	for _, c := range vr.Conflicts {
		if c.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Count returns the number of conflicts of the given type.
func (vr *ValidationResult) Count(t ConflictType) int {
	n := 0
	for _, c := range vr.Conflicts {
		if c.Type == t {
			n++
		}
	}
	return n
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No problems detected."
	}

	var b strings.Builder
	b.WriteString("Problems detected:\n")
	for _, c := range vr.Conflicts {
		fmt.Fprintf(&b, "- [%s] %s\n", c.Severity, c.Description)
	}
	return b.String()
}

// Validator checks a dataset for integrity problems
type Validator struct{}

// New creates a new Validator
func New() *Validator {
	return &Validator{}
}

// ValidateDataset inspects every collection. today bounds log dates.
func (v *Validator) ValidateDataset(ds models.Dataset, today models.Date) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}
	add := func(t ConflictType, sev Severity, ids []string, format string, args ...any) {
		result.Conflicts = append(result.Conflicts, Conflict{
			Type:        t,
			Severity:    sev,
			Description: fmt.Sprintf(format, args...),
			IDs:         ids,
		})
	}

	personas := make(map[models.PersonaID]bool, len(ds.Personas))
	names := make(map[string][]string)
	for _, p := range ds.Personas {
		personas[p.ID] = true
		if strings.TrimSpace(p.Name) == "" {
			add(ConflictEmptyTitle, SeverityWarning, []string{string(p.ID)}, "Persona %s has an empty name", models.ShortID(p.ID))
			continue
		}
		key := strings.ToLower(strings.TrimSpace(p.Name))
		names[key] = append(names[key], string(p.ID))
	}
	for _, key := range sortedKeys(names) {
		if ids := names[key]; len(ids) > 1 {
			add(ConflictDuplicateName, SeverityWarning, ids, "Duplicate persona name: %q (%d personas)", key, len(ids))
		}
	}

	benchmarks := make(map[models.BenchmarkID]bool, len(ds.Benchmarks))
	for _, b := range ds.Benchmarks {
		benchmarks[b.ID] = true
		if !personas[b.PersonaID] {
			add(ConflictOrphan, SeverityError, []string{string(b.ID)}, "Benchmark %q references missing persona %s", b.Title, models.ShortID(b.PersonaID))
		}
		if strings.TrimSpace(b.Title) == "" {
			add(ConflictEmptyTitle, SeverityWarning, []string{string(b.ID)}, "Benchmark %s has an empty title", models.ShortID(b.ID))
		}
		if !b.Status.Valid() {
			add(ConflictInvalidStatus, SeverityError, []string{string(b.ID)}, "Benchmark %q has invalid status %q", b.Title, b.Status)
		}
	}

	actions := make(map[models.ActionID]bool, len(ds.Actions))
	for _, a := range ds.Actions {
		actions[a.ID] = true
		if !benchmarks[a.BenchmarkID] {
			add(ConflictOrphan, SeverityError, []string{string(a.ID)}, "Action %q references missing benchmark %s", a.Title, models.ShortID(a.BenchmarkID))
		}
		if strings.TrimSpace(a.Title) == "" {
			add(ConflictEmptyTitle, SeverityWarning, []string{string(a.ID)}, "Action %s has an empty title", models.ShortID(a.ID))
		}
		for _, d := range a.Frequency {
			if !d.Valid() {
				add(ConflictInvalidFrequency, SeverityError, []string{string(a.ID)}, "Action %q has invalid weekday %d", a.Title, int(d))
				break
			}
		}
		if len(models.NewFrequency(a.Frequency...)) == 0 {
			add(ConflictNeverDue, SeverityWarning, []string{string(a.ID)}, "Action %q is not scheduled on any weekday", a.Title)
		}
	}

	type logKey struct {
		action models.ActionID
		date   models.Date
	}
	seen := make(map[logKey][]string)
	for _, l := range ds.Logs {
		if !actions[l.ActionID] {
			add(ConflictOrphan, SeverityError, []string{string(l.ID)}, "Log %s on %s references missing action %s", models.ShortID(l.ID), l.LogDate, models.ShortID(l.ActionID))
		}
		if !today.IsZero() && l.LogDate.After(today) {
			add(ConflictFutureLog, SeverityWarning, []string{string(l.ID)}, "Log %s is dated in the future (%s)", models.ShortID(l.ID), l.LogDate)
		}
		k := logKey{l.ActionID, l.LogDate}
		seen[k] = append(seen[k], string(l.ID))
	}
	dupKeys := make([]logKey, 0)
	for k, ids := range seen {
		if len(ids) > 1 {
			dupKeys = append(dupKeys, k)
		}
	}
	sort.Slice(dupKeys, func(i, j int) bool {
		if c := dupKeys[i].date.Compare(dupKeys[j].date); c != 0 {
			return c < 0
		}
		return dupKeys[i].action < dupKeys[j].action
	})
	for _, k := range dupKeys {
		add(ConflictDuplicateLog, SeverityError, seen[k], "Action %s has %d logs on %s", models.ShortID(k.action), len(seen[k]), k.date)
	}

	for _, r := range ds.Reflections {
		if _, err := models.ParsePeriodType(string(r.PeriodType)); err != nil {
			add(ConflictInvalidPeriod, SeverityError, []string{string(r.ID)}, "Reflection %s has invalid period %q", models.ShortID(r.ID), r.PeriodType)
		}
		if r.MomentumScore < 0 || r.MomentumScore > 100 {
			add(ConflictScoreRange, SeverityError, []string{string(r.ID)}, "Reflection %s has momentum score %d outside 0-100", models.ShortID(r.ID), r.MomentumScore)
		}
	}

	return result
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
