package database

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrationsFS embed.FS

// Migrate applies the versioned schema migrations for the configured backend.
// Runs once at startup; the schema is never altered at request time.
func Migrate(db *DB) error {
	src, err := iofs.New(migrationsFS, "migrations/"+db.Driver())
	if err != nil {
		return fmt.Errorf("failed to load migrations: %w", err)
	}

	var target database.Driver
	switch db.Driver() {
	case DriverPostgres:
		target, err = migratepgx.WithInstance(db.DB.DB, &migratepgx.Config{})
	case DriverSQLite:
		target, err = migratesqlite.WithInstance(db.DB.DB, &migratesqlite.Config{})
	default:
		return fmt.Errorf("unsupported database driver %q", db.Driver())
	}
	if err != nil {
		return fmt.Errorf("failed to init migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, db.Driver(), target)
	if err != nil {
		return fmt.Errorf("failed to init migrations: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}
