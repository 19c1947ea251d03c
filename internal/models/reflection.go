package models

import (
	"fmt"
	"time"
)

type PeriodType string

const (
	PeriodWeekly  PeriodType = "weekly"
	PeriodMonthly PeriodType = "monthly"
	PeriodYearly  PeriodType = "yearly"
)

func ParsePeriodType(s string) (PeriodType, error) {
	switch p := PeriodType(s); p {
	case PeriodWeekly, PeriodMonthly, PeriodYearly:
		return p, nil
	}
	return "", fmt.Errorf("invalid period type %q (expected weekly, monthly or yearly)", s)
}

// Message is one turn of a coaching conversation.
type Message struct {
	Role    string `json:"role" yaml:"role"`
	Content string `json:"content" yaml:"content"`
}

// Reflection summarises a finished coaching session. Reflections are append-only.
type Reflection struct {
	ID            ReflectionID `json:"id" yaml:"id"`
	PersonaID     PersonaID    `json:"persona_id,omitempty" yaml:"persona_id,omitempty"`
	PeriodType    PeriodType   `json:"period_type" yaml:"period_type"`
	UserInput     string       `json:"user_input" yaml:"user_input"`
	AIFeedback    string       `json:"ai_feedback" yaml:"ai_feedback"`
	MomentumScore int          `json:"momentum_score" yaml:"momentum_score"`
	CreatedAt     time.Time    `json:"created_at" yaml:"created_at"`
	Transcript    []Message    `json:"transcript,omitempty" yaml:"transcript,omitempty"`
}
