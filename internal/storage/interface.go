package storage

import (
	"context"
	"errors"

	"github.com/julianstephens/becoming/internal/migration"
	"github.com/julianstephens/becoming/internal/models"
)

// ErrNotInitialized is returned by Load when the database has never been created.
var ErrNotInitialized = errors.New("storage not initialized, run 'becoming init' first")

type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Settings
	GetSettings() (models.Settings, error)
	SaveSettings(models.Settings) error

	// Personas, benchmarks and actions are upserted by ID.
	SavePersona(models.Persona) error
	GetAllPersonas(ctx context.Context) ([]models.Persona, error)
	SaveBenchmark(models.Benchmark) error
	GetAllBenchmarks(ctx context.Context) ([]models.Benchmark, error)
	SaveAction(models.ElementalAction) error
	GetAllActions(ctx context.Context) ([]models.ElementalAction, error)

	// Daily logs
	SaveLog(models.DailyLog) error
	GetAllLogs(ctx context.Context) ([]models.DailyLog, error)

	// Reflections are append-only.
	AddReflection(models.Reflection) error
	GetAllReflections(ctx context.Context) ([]models.Reflection, error)

	// DeleteRecords removes everything in r inside one transaction.
	DeleteRecords(r models.Removal) error

	// Bulk replacement used by import.
	ReplaceAll(models.Dataset) error

	// Utils
	MigrationRunner() (*migration.Runner, error)
	GetConfigPath() string
}
