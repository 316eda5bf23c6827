package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib" // driver: pgx
	_ "modernc.org/sqlite"             // driver: sqlite
)

type Driver string

const (
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
)

// Open opens a DB and ensures the progress schema exists.
func Open(ctx context.Context, driver Driver, dsn string) (*sql.DB, error) {
	var drvName string
	switch driver {
	case DriverSQLite:
		drvName = "sqlite" // modernc driver
		if dsn == "" {
			dsn = "file:quiz-progress.db?cache=shared&mode=rwc&_pragma=busy_timeout(5000)"
		}
	case DriverPostgres:
		drvName = "pgx" // pgx stdlib driver
		if dsn == "" {
			dsn = "postgres://localhost:5432/classnotes?sslmode=disable"
		}
	default:
		return nil, fmt.Errorf("unsupported driver: %s", driver)
	}

	db, err := sql.Open(drvName, dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}

	if err := ensureSchema(ctx, db, driver); err != nil {
		return nil, err
	}
	return db, nil
}

func ensureSchema(ctx context.Context, db *sql.DB, driver Driver) error {
	var schema string
	switch driver {
	case DriverSQLite:
		schema = schemaSQLite
	case DriverPostgres:
		schema = schemaPostgres
	}
	_, err := db.ExecContext(ctx, schema)
	return err
}

const schemaSQLite = `
CREATE TABLE IF NOT EXISTS quiz_progress (
  learner_id TEXT NOT NULL,
  lecture_id TEXT NOT NULL,
  current_index INTEGER NOT NULL DEFAULT 0,
  answers_json TEXT NOT NULL,
  updated_at INTEGER NOT NULL,
  PRIMARY KEY (learner_id, lecture_id)
);

CREATE TABLE IF NOT EXISTS quiz_attempts (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  learner_id TEXT NOT NULL,
  lecture_id TEXT NOT NULL,
  attempted_at INTEGER NOT NULL,
  score REAL NOT NULL DEFAULT 0,
  points_total REAL NOT NULL DEFAULT 0,
  percent INTEGER NOT NULL DEFAULT 0,
  duration_seconds INTEGER NOT NULL DEFAULT 0
);
`

const schemaPostgres = `
CREATE TABLE IF NOT EXISTS quiz_progress (
  learner_id TEXT NOT NULL,
  lecture_id TEXT NOT NULL,
  current_index INTEGER NOT NULL DEFAULT 0,
  answers_json TEXT NOT NULL,
  updated_at BIGINT NOT NULL,
  PRIMARY KEY (learner_id, lecture_id)
);

CREATE TABLE IF NOT EXISTS quiz_attempts (
  id BIGSERIAL PRIMARY KEY,
  learner_id TEXT NOT NULL,
  lecture_id TEXT NOT NULL,
  attempted_at BIGINT NOT NULL,
  score DOUBLE PRECISION NOT NULL DEFAULT 0,
  points_total DOUBLE PRECISION NOT NULL DEFAULT 0,
  percent INTEGER NOT NULL DEFAULT 0,
  duration_seconds BIGINT NOT NULL DEFAULT 0
);
`
