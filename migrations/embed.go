// Package migrations embeds the versioned SQL schema for each backend.
package migrations

import (
	"embed"
	"io/fs"
)

//go:embed sqlite/*.sql postgres/*.sql
var FS embed.FS

// SQLite returns the migrations for the SQLite backend.
func SQLite() (fs.FS, error) {
	return fs.Sub(FS, "sqlite")
}

// Postgres returns the migrations for the PostgreSQL backend.
func Postgres() (fs.FS, error) {
	return fs.Sub(FS, "postgres")
}
