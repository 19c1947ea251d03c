package sqldb

import (
	"context"
	"fmt"

	"github.com/julianstephens/becoming/internal/models"
)

// DeleteRecords removes logs, then actions, benchmarks and personas in one transaction.
func (q *Queries) DeleteRecords(r models.Removal) error {
	if r.Empty() {
		return nil
	}
	ctx := context.Background()
	tx, err := q.begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, id := range r.Logs {
		if err := q.exec(ctx, tx, "DELETE FROM daily_logs WHERE id = ?", string(id)); err != nil {
			return fmt.Errorf("failed to delete daily log %s: %w", id, err)
		}
	}
	for _, id := range r.Actions {
		if err := q.exec(ctx, tx, "DELETE FROM daily_logs WHERE action_id = ?", string(id)); err != nil {
			return fmt.Errorf("failed to delete logs of action %s: %w", id, err)
		}
		if err := q.exec(ctx, tx, "DELETE FROM actions WHERE id = ?", string(id)); err != nil {
			return fmt.Errorf("failed to delete action %s: %w", id, err)
		}
	}
	for _, id := range r.Benchmarks {
		if err := q.exec(ctx, tx, "DELETE FROM benchmarks WHERE id = ?", string(id)); err != nil {
			return fmt.Errorf("failed to delete benchmark %s: %w", id, err)
		}
	}
	for _, id := range r.Personas {
		if err := q.exec(ctx, tx, "DELETE FROM personas WHERE id = ?", string(id)); err != nil {
			return fmt.Errorf("failed to delete persona %s: %w", id, err)
		}
	}

	return tx.Commit()
}

// ReplaceAll swaps the stored records for ds. Settings are left alone.
func (q *Queries) ReplaceAll(ds models.Dataset) error {
	ctx := context.Background()
	tx, err := q.begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"daily_logs", "actions", "benchmarks", "personas", "reflections"} {
		if err := q.exec(ctx, tx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	for _, p := range ds.Personas {
		if err := q.savePersona(ctx, tx, p); err != nil {
			return fmt.Errorf("failed to insert persona %s: %w", p.ID, err)
		}
	}
	for _, b := range ds.Benchmarks {
		if err := q.saveBenchmark(ctx, tx, b); err != nil {
			return fmt.Errorf("failed to insert benchmark %s: %w", b.ID, err)
		}
	}
	for _, a := range ds.Actions {
		if err := q.saveAction(ctx, tx, a); err != nil {
			return fmt.Errorf("failed to insert action %s: %w", a.ID, err)
		}
	}
	for _, l := range ds.Logs {
		if err := q.saveLog(ctx, tx, l); err != nil {
			return fmt.Errorf("failed to insert daily log %s: %w", l.ID, err)
		}
	}
	for _, r := range ds.Reflections {
		if err := q.addReflection(ctx, tx, r); err != nil {
			return fmt.Errorf("failed to insert reflection %s: %w", r.ID, err)
		}
	}

	return tx.Commit()
}
