package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/becoming/internal/logger"
	"github.com/julianstephens/becoming/internal/migration"
	"github.com/julianstephens/becoming/internal/models"
	"github.com/julianstephens/becoming/internal/storage"
	"github.com/julianstephens/becoming/internal/storage/sqldb"
	"github.com/julianstephens/becoming/migrations"
)

type Store struct {
	*sqldb.Queries

	path string
	db   *sql.DB
}

var _ storage.Provider = (*Store)(nil)

// Applied to every pooled connection.
const dsnPragmas = "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"

func NewStore(path string) *Store {
	return &Store{path: path}
}

func (s *Store) open() error {
	db, err := sql.Open("sqlite", s.path+dsnPragmas)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db
	s.Queries = sqldb.New(db, sqldb.SQLite)
	return nil
}

func (s *Store) Init() error {
	if s.db == nil {
		if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
		if err := s.open(); err != nil {
			return err
		}
	}

	runner, err := s.MigrationRunner()
	if err != nil {
		return err
	}
	if _, err := runner.ApplyMigrations(logger.Lines("migration")); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if _, err := s.GetSettings(); err != nil {
		if err := s.SaveSettings(models.Settings{Timezone: "Local"}); err != nil {
			return fmt.Errorf("failed to save default settings: %w", err)
		}
	}
	return nil
}

func (s *Store) Load() error {
	if s.db != nil {
		return nil
	}
	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return storage.ErrNotInitialized
	}
	if err := s.open(); err != nil {
		return err
	}

	runner, err := s.MigrationRunner()
	if err != nil {
		return err
	}
	return runner.ValidateVersion()
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	s.Queries = nil
	return err
}

// MigrationRunner returns a runner bound to the embedded SQLite migrations.
func (s *Store) MigrationRunner() (*migration.Runner, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database is not open")
	}
	sub, err := migrations.SQLite()
	if err != nil {
		return nil, fmt.Errorf("failed to access sqlite migrations: %w", err)
	}
	return migration.NewRunner(s.db, sub), nil
}

func (s *Store) GetConfigPath() string {
	return s.path
}

// GetDB returns the underlying connection, or nil before Init/Load.
func (s *Store) GetDB() *sql.DB {
	return s.db
}
