package database

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// DB wraps sqlx over one of the two supported backends. Queries are written
// once with `?` placeholders; Rebind maps them to the backend's style, so
// callers never branch on the driver.
type DB struct {
	*sqlx.DB
	driver string
}

func New(driver, uri string) (*DB, error) {
	var name string
	switch driver {
	case DriverPostgres:
		name = "pgx"
	case DriverSQLite:
		name = "sqlite"
		sqlx.BindDriver("sqlite", sqlx.QUESTION)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	raw, err := sql.Open(name, uri)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	if driver == DriverSQLite {
		// modernc's in-memory databases are per-connection.
		raw.SetMaxOpenConns(1)
	}
	if err = raw.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping db: %w", err)
	}

	return &DB{DB: sqlx.NewDb(raw, name), driver: driver}, nil
}

func (d *DB) Driver() string { return d.driver }

// InsertReturningID runs an INSERT and reports the new row id. This is the
// single place the two dialects diverge: Postgres needs RETURNING, SQLite
// reports the id on the result.
func (d *DB) InsertReturningID(ctx context.Context, query string, args ...any) (int64, error) {
	if d.driver == DriverPostgres {
		var id int64
		if err := d.QueryRowxContext(ctx, d.Rebind(query+" RETURNING id"), args...).Scan(&id); err != nil {
			return 0, err
		}
		return id, nil
	}

	res, err := d.ExecContext(ctx, d.Rebind(query), args...)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func Close(ctx context.Context, db *DB) {
	if err := db.Close(); err != nil {
		fmt.Printf("failed to close DB: %v\n", err)
	}
}
