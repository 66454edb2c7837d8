package sql

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/de-tools/variation-atlas/pkg/store/duckdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDialectFor(t *testing.T) {
	assert.Equal(t, duckdb.DialectPostgres, DialectFor("postgres://atlas@localhost/atlas"))
	assert.Equal(t, duckdb.DialectPostgres, DialectFor("PostgreSQL://atlas@db:5432/atlas?sslmode=disable"))
	assert.Equal(t, duckdb.DialectDuckDB, DialectFor("atlas.db"))
	assert.Equal(t, duckdb.DialectDuckDB, DialectFor(":memory:"))
}

func TestOpen_DuckDB(t *testing.T) {
	db, dialect, err := Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	assert.Equal(t, duckdb.DialectDuckDB, dialect)
	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM analysis_runs").Scan(&count))
	assert.Equal(t, 0, count)
}

func TestMigrate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS analysis_runs")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE TABLE").WillReturnError(assert.AnError)

	require.NoError(t, Migrate(context.Background(), db))
	assert.ErrorIs(t, Migrate(context.Background(), db), assert.AnError)
	require.NoError(t, mock.ExpectationsWereMet())
}
