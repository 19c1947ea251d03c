package sqldb

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/julianstephens/becoming/internal/models"
)

// Personas

const upsertPersona = `
	INSERT INTO personas (id, name, description, created_at)
	VALUES (?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		name = excluded.name,
		description = excluded.description`

func (q *Queries) SavePersona(p models.Persona) error {
	db, err := q.conn()
	if err != nil {
		return err
	}
	return q.savePersona(context.Background(), db, p)
}

func (q *Queries) savePersona(ctx context.Context, ex execer, p models.Persona) error {
	return q.exec(ctx, ex, upsertPersona, string(p.ID), p.Name, p.Description, formatTime(p.CreatedAt))
}

func (q *Queries) GetAllPersonas(ctx context.Context) ([]models.Persona, error) {
	rows, err := q.query(ctx, "SELECT id, name, description, created_at FROM personas ORDER BY created_at, id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Persona
	for rows.Next() {
		var p models.Persona
		var id, createdAt string
		if err := rows.Scan(&id, &p.Name, &p.Description, &createdAt); err != nil {
			return nil, err
		}
		p.ID = models.PersonaID(id)
		if p.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
			return nil, fmt.Errorf("persona %s: %w", id, err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Benchmarks

const upsertBenchmark = `
	INSERT INTO benchmarks (id, persona_id, title, target_date, status, created_at)
	VALUES (?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		title = excluded.title,
		target_date = excluded.target_date,
		status = excluded.status`

func (q *Queries) SaveBenchmark(b models.Benchmark) error {
	db, err := q.conn()
	if err != nil {
		return err
	}
	return q.saveBenchmark(context.Background(), db, b)
}

func (q *Queries) saveBenchmark(ctx context.Context, ex execer, b models.Benchmark) error {
	var target sql.NullString
	if b.TargetDate != nil {
		target = sql.NullString{String: formatTime(*b.TargetDate), Valid: true}
	}
	return q.exec(ctx, ex, upsertBenchmark,
		string(b.ID), string(b.PersonaID), b.Title, target, string(b.Status), formatTime(b.CreatedAt))
}

func (q *Queries) GetAllBenchmarks(ctx context.Context) ([]models.Benchmark, error) {
	rows, err := q.query(ctx, `
		SELECT id, persona_id, title, target_date, status, created_at
		FROM benchmarks ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Benchmark
	for rows.Next() {
		var b models.Benchmark
		var id, personaID, status, createdAt string
		var target sql.NullString
		if err := rows.Scan(&id, &personaID, &b.Title, &target, &status, &createdAt); err != nil {
			return nil, err
		}
		b.ID = models.BenchmarkID(id)
		b.PersonaID = models.PersonaID(personaID)
		b.Status = models.BenchmarkStatus(status)
		if b.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
			return nil, fmt.Errorf("benchmark %s: %w", id, err)
		}
		if target.Valid {
			t, err := parseTime("target_date", target.String)
			if err != nil {
				return nil, fmt.Errorf("benchmark %s: %w", id, err)
			}
			b.TargetDate = &t
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// Actions

const upsertAction = `
	INSERT INTO actions (id, benchmark_id, title, frequency, anchor_link, kickstart_version, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		title = excluded.title,
		frequency = excluded.frequency,
		anchor_link = excluded.anchor_link,
		kickstart_version = excluded.kickstart_version`

func (q *Queries) SaveAction(a models.ElementalAction) error {
	db, err := q.conn()
	if err != nil {
		return err
	}
	return q.saveAction(context.Background(), db, a)
}

func (q *Queries) saveAction(ctx context.Context, ex execer, a models.ElementalAction) error {
	return q.exec(ctx, ex, upsertAction,
		string(a.ID), string(a.BenchmarkID), a.Title, a.Frequency.String(),
		a.AnchorLink, a.KickstartVersion, formatTime(a.CreatedAt))
}

func (q *Queries) GetAllActions(ctx context.Context) ([]models.ElementalAction, error) {
	rows, err := q.query(ctx, `
		SELECT id, benchmark_id, title, frequency, anchor_link, kickstart_version, created_at
		FROM actions ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.ElementalAction
	for rows.Next() {
		var a models.ElementalAction
		var id, benchmarkID, frequency, createdAt string
		if err := rows.Scan(&id, &benchmarkID, &a.Title, &frequency, &a.AnchorLink, &a.KickstartVersion, &createdAt); err != nil {
			return nil, err
		}
		a.ID = models.ActionID(id)
		a.BenchmarkID = models.BenchmarkID(benchmarkID)
		if a.Frequency, err = models.ParseFrequency(frequency); err != nil {
			return nil, fmt.Errorf("action %s: invalid frequency: %w", id, err)
		}
		if a.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
			return nil, fmt.Errorf("action %s: %w", id, err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Daily logs

const upsertLog = `
	INSERT INTO daily_logs (id, action_id, log_date, status, created_at)
	VALUES (?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET status = excluded.status`

func (q *Queries) SaveLog(l models.DailyLog) error {
	db, err := q.conn()
	if err != nil {
		return err
	}
	return q.saveLog(context.Background(), db, l)
}

func (q *Queries) saveLog(ctx context.Context, ex execer, l models.DailyLog) error {
	return q.exec(ctx, ex, upsertLog,
		string(l.ID), string(l.ActionID), l.LogDate.String(), l.Status, formatTime(l.CreatedAt))
}

func (q *Queries) GetAllLogs(ctx context.Context) ([]models.DailyLog, error) {
	rows, err := q.query(ctx, `
		SELECT id, action_id, log_date, status, created_at
		FROM daily_logs ORDER BY log_date, action_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.DailyLog
	for rows.Next() {
		var l models.DailyLog
		var id, actionID, logDate, createdAt string
		if err := rows.Scan(&id, &actionID, &logDate, &l.Status, &createdAt); err != nil {
			return nil, err
		}
		l.ID = models.LogID(id)
		l.ActionID = models.ActionID(actionID)
		if l.LogDate, err = models.ParseDate(logDate); err != nil {
			return nil, fmt.Errorf("daily log %s: %w", id, err)
		}
		if l.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
			return nil, fmt.Errorf("daily log %s: %w", id, err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// Reflections

const insertReflection = `
	INSERT INTO reflections (id, persona_id, period_type, user_input, ai_feedback, momentum_score, transcript, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

func (q *Queries) AddReflection(r models.Reflection) error {
	db, err := q.conn()
	if err != nil {
		return err
	}
	return q.addReflection(context.Background(), db, r)
}

func (q *Queries) addReflection(ctx context.Context, ex execer, r models.Reflection) error {
	transcript := r.Transcript
	if transcript == nil {
		transcript = []models.Message{}
	}
	raw, err := json.Marshal(transcript)
	if err != nil {
		return fmt.Errorf("failed to encode transcript: %w", err)
	}
	return q.exec(ctx, ex, insertReflection,
		string(r.ID), string(r.PersonaID), string(r.PeriodType), r.UserInput, r.AIFeedback,
		r.MomentumScore, string(raw), formatTime(r.CreatedAt))
}

func (q *Queries) GetAllReflections(ctx context.Context) ([]models.Reflection, error) {
	rows, err := q.query(ctx, `
		SELECT id, persona_id, period_type, user_input, ai_feedback, momentum_score, transcript, created_at
		FROM reflections ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Reflection
	for rows.Next() {
		var r models.Reflection
		var id, personaID, period, transcript, createdAt string
		if err := rows.Scan(&id, &personaID, &period, &r.UserInput, &r.AIFeedback, &r.MomentumScore, &transcript, &createdAt); err != nil {
			return nil, err
		}
		r.ID = models.ReflectionID(id)
		r.PersonaID = models.PersonaID(personaID)
		r.PeriodType = models.PeriodType(period)
		if transcript != "" && transcript != "[]" {
			if err := json.Unmarshal([]byte(transcript), &r.Transcript); err != nil {
				return nil, fmt.Errorf("reflection %s: invalid transcript: %w", id, err)
			}
		}
		if r.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
			return nil, fmt.Errorf("reflection %s: %w", id, err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
