// Package sqldb holds the queries shared by the SQLite and PostgreSQL backends.
// Queries are written with "?" placeholders and rebound for PostgreSQL.
package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/julianstephens/becoming/internal/constants"
	"github.com/julianstephens/becoming/internal/models"
)

type Dialect int

const (
	SQLite Dialect = iota
	Postgres
)

// ErrNotOpen is returned for queries issued before the store is opened or after Close.
var ErrNotOpen = errors.New("database is not open")

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Queries runs the record queries against an open database.
type Queries struct {
	db      *sql.DB
	dialect Dialect
}

func New(db *sql.DB, dialect Dialect) *Queries {
	return &Queries{db: db, dialect: dialect}
}

func (q *Queries) DB() *sql.DB {
	if q == nil {
		return nil
	}
	return q.db
}

func (q *Queries) conn() (*sql.DB, error) {
	if q == nil || q.db == nil {
		return nil, ErrNotOpen
	}
	return q.db, nil
}

func (q *Queries) begin(ctx context.Context) (*sql.Tx, error) {
	db, err := q.conn()
	if err != nil {
		return nil, err
	}
	return db.BeginTx(ctx, nil)
}

// Rebind rewrites "?" placeholders as "$1", "$2", ... for PostgreSQL.
func Rebind(d Dialect, query string) string {
	if d != Postgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (q *Queries) exec(ctx context.Context, ex execer, query string, args ...any) error {
	_, err := ex.ExecContext(ctx, Rebind(q.dialect, query), args...)
	return err
}

func (q *Queries) query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	db, err := q.conn()
	if err != nil {
		return nil, err
	}
	return db.QueryContext(ctx, Rebind(q.dialect, query), args...)
}

// Settings

func (q *Queries) GetSettings() (models.Settings, error) {
	rows, err := q.query(context.Background(), "SELECT key, value FROM settings")
	if err != nil {
		return models.Settings{}, err
	}
	defer rows.Close()

	settings := models.Settings{}
	count := 0
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return models.Settings{}, err
		}
		switch key {
		case constants.SettingTimezone:
			settings.Timezone = value
		case constants.SettingActivePersona:
			settings.ActivePersona = models.PersonaID(value)
		}
		count++
	}
	if err := rows.Err(); err != nil {
		return models.Settings{}, err
	}

	if count == 0 {
		return models.Settings{}, fmt.Errorf("settings not found")
	}
	return settings, nil
}

func (q *Queries) SaveSettings(settings models.Settings) error {
	ctx := context.Background()
	tx, err := q.begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	const upsert = `INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`

	if err := q.exec(ctx, tx, upsert, constants.SettingTimezone, settings.Timezone); err != nil {
		return err
	}
	if err := q.exec(ctx, tx, upsert, constants.SettingActivePersona, string(settings.ActivePersona)); err != nil {
		return err
	}
	return tx.Commit()
}

// timeLayout is RFC 3339 with fixed-width nanoseconds so stored text sorts chronologically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(field, s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse %s: %w", field, err)
	}
	return t, nil
}
