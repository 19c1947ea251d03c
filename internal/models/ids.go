package models

import "github.com/google/uuid"

// PersonaID identifies a Persona.
type PersonaID string

// BenchmarkID identifies a Benchmark.
type BenchmarkID string

// ActionID identifies an ElementalAction.
type ActionID string

// LogID identifies a DailyLog.
type LogID string

// ReflectionID identifies a Reflection.
type ReflectionID string

func NewPersonaID() PersonaID       { return PersonaID(uuid.New().String()) }
func NewBenchmarkID() BenchmarkID   { return BenchmarkID(uuid.New().String()) }
func NewActionID() ActionID         { return ActionID(uuid.New().String()) }
func NewLogID() LogID               { return LogID(uuid.New().String()) }
func NewReflectionID() ReflectionID { return ReflectionID(uuid.New().String()) }

// ShortID returns the first block of a UUID-shaped id for display.
func ShortID[T ~string](id T) string {
	s := string(id)
	if len(s) > 8 {
		return s[:8]
	}
	return s
}
