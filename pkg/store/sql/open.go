package sql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/de-tools/variation-atlas/pkg/store/duckdb"
	_ "github.com/jackc/pgx/v5/stdlib"
)

const postgresRunsSchema = `
	CREATE TABLE IF NOT EXISTS analysis_runs (
		id TEXT PRIMARY KEY,
		source_key TEXT NOT NULL,
		start_date TEXT,
		end_date TEXT,
		status TEXT NOT NULL,
		products BIGINT NOT NULL DEFAULT 0,
		variations BIGINT NOT NULL DEFAULT 0,
		total_units DOUBLE PRECISION NOT NULL DEFAULT 0,
		error TEXT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	CREATE INDEX IF NOT EXISTS analysis_runs_created_at ON analysis_runs (created_at);
`

// DialectFor tells which database a DSN points at. postgres:// and postgresql:// URLs
// go to PostgreSQL, anything else is a DuckDB file path (or ":memory:").
func DialectFor(dsn string) duckdb.Dialect {
	lower := strings.ToLower(dsn)
	if strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://") {
		return duckdb.DialectPostgres
	}
	return duckdb.DialectDuckDB
}

// Open connects to the run history database and makes sure its schema exists.
func Open(ctx context.Context, dsn string) (*sql.DB, duckdb.Dialect, error) {
	dialect := DialectFor(dsn)
	if dialect == duckdb.DialectDuckDB {
		db, err := duckdb.NewDB(duckdb.Settings{DbPath: dsn})
		if err != nil {
			return nil, "", fmt.Errorf("failed to open duckdb %s: %w", dsn, err)
		}
		return db, dialect, nil
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, "", fmt.Errorf("failed to connect to postgres: %w", err)
	}
	if err := Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, "", err
	}
	return db, dialect, nil
}

// Migrate creates the PostgreSQL run history schema.
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, postgresRunsSchema); err != nil {
		return fmt.Errorf("failed to create analysis_runs: %w", err)
	}
	return nil
}
