package runs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/de-tools/variation-atlas/pkg/models/store"
	"github.com/de-tools/variation-atlas/pkg/store/duckdb"
	"github.com/jmoiron/sqlx"
)

const DefaultListLimit = 50

var ErrNotFound = errors.New("analysis run not found")

// Store keeps the history of analysis runs. Writes join a transaction carried in ctx
// (duckdb.WithTransaction) when there is one.
type Store interface {
	Add(ctx context.Context, run store.AnalysisRun) error
	List(ctx context.Context, limit int) ([]store.AnalysisRun, error)
	Get(ctx context.Context, id string) (*store.AnalysisRun, error)
}

type runStore struct {
	db      *sql.DB
	dialect duckdb.Dialect
}

func NewStore(db *sql.DB, dialect duckdb.Dialect) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	if dialect == "" {
		dialect = duckdb.DialectDuckDB
	}
	return &runStore{
		db:      db,
		dialect: dialect,
	}, nil
}

const selectColumns = `id, source_key, start_date, end_date, status, products, variations, total_units, error, created_at`

// rebind rewrites ? placeholders into $n for PostgreSQL.
func (s *runStore) rebind(query string) string {
	if s.dialect != duckdb.DialectPostgres {
		return query
	}
	return sqlx.Rebind(sqlx.DOLLAR, query)
}

func (s *runStore) Add(ctx context.Context, run store.AnalysisRun) error {
	query := s.rebind(`
		INSERT INTO analysis_runs (
			id, source_key, start_date, end_date, status,
			products, variations, total_units, error, created_at
		) VALUES (
			?, ?, ?, ?, ?, ?, ?, ?, ?, ?
		)`)
	args := []any{
		run.ID,
		run.SourceKey,
		run.StartDate,
		run.EndDate,
		run.Status,
		run.Products,
		run.Variations,
		run.TotalUnits,
		run.Error,
		run.CreatedAt,
	}

	var err error
	if tx := duckdb.GetTransaction(ctx); tx != nil {
		_, err = tx.ExecContext(ctx, query, args...)
	} else {
		_, err = s.db.ExecContext(ctx, query, args...)
	}
	if err != nil {
		return fmt.Errorf("insert analysis run %s: %w", run.ID, err)
	}
	return nil
}

// List returns the most recent runs first. A non-positive limit means DefaultListLimit.
func (s *runStore) List(ctx context.Context, limit int) ([]store.AnalysisRun, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	query := s.rebind(`
		SELECT ` + selectColumns + `
		FROM analysis_runs
		ORDER BY created_at DESC, id
		LIMIT ?`)

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query analysis runs: %w", err)
	}
	defer rows.Close()

	runs := make([]store.AnalysisRun, 0)
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate analysis runs: %w", err)
	}
	return runs, nil
}

func (s *runStore) Get(ctx context.Context, id string) (*store.AnalysisRun, error) {
	query := s.rebind(`
		SELECT ` + selectColumns + `
		FROM analysis_runs
		WHERE id = ?`)

	run, err := scanRun(s.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return run, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*store.AnalysisRun, error) {
	var (
		run        store.AnalysisRun
		start, end sql.NullString
		runErr     sql.NullString
	)
	err := row.Scan(
		&run.ID,
		&run.SourceKey,
		&start,
		&end,
		&run.Status,
		&run.Products,
		&run.Variations,
		&run.TotalUnits,
		&runErr,
		&run.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scan analysis run: %w", err)
	}

	run.StartDate = start.String
	run.EndDate = end.String
	if runErr.Valid {
		msg := runErr.String
		run.Error = &msg
	}
	return &run, nil
}
