package models

import "time"

// Persona is the identity a user is working toward. CreatedAt is the scoring cutoff.
type Persona struct {
	ID          PersonaID `json:"id" yaml:"id"`
	Name        string    `json:"name" yaml:"name"`
	Description string    `json:"description" yaml:"description"`
	CreatedAt   time.Time `json:"created_at" yaml:"created_at"`
}

type BenchmarkStatus string

const (
	BenchmarkActive    BenchmarkStatus = "active"
	BenchmarkCompleted BenchmarkStatus = "completed"
)

func (s BenchmarkStatus) Valid() bool {
	return s == BenchmarkActive || s == BenchmarkCompleted
}

// Benchmark is a milestone under a Persona.
type Benchmark struct {
	ID         BenchmarkID     `json:"id" yaml:"id"`
	PersonaID  PersonaID       `json:"persona_id" yaml:"persona_id"`
	Title      string          `json:"title" yaml:"title"`
	TargetDate *time.Time      `json:"target_date,omitempty" yaml:"target_date,omitempty"`
	Status     BenchmarkStatus `json:"status" yaml:"status"`
	CreatedAt  time.Time       `json:"created_at" yaml:"created_at"`
}

// ElementalAction is a repeatable behaviour scheduled on weekdays.
type ElementalAction struct {
	ID               ActionID    `json:"id" yaml:"id"`
	BenchmarkID      BenchmarkID `json:"benchmark_id" yaml:"benchmark_id"`
	Title            string      `json:"title" yaml:"title"`
	Frequency        Frequency   `json:"frequency" yaml:"frequency"`
	AnchorLink       string      `json:"anchor_link,omitempty" yaml:"anchor_link,omitempty"`             // habit-stacking cue
	KickstartVersion string      `json:"kickstart_version,omitempty" yaml:"kickstart_version,omitempty"` // low-friction variant
	CreatedAt        time.Time   `json:"created_at" yaml:"created_at"`
}

// DailyLog records whether an action was done on a calendar day.
// At most one exists per (ActionID, LogDate).
type DailyLog struct {
	ID        LogID     `json:"id" yaml:"id"`
	ActionID  ActionID  `json:"action_id" yaml:"action_id"`
	LogDate   Date      `json:"log_date" yaml:"log_date"`
	Status    bool      `json:"status" yaml:"status"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}
