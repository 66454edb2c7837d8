package duckdb

import (
	"context"
	"database/sql"
)

type txKey struct{}

// Dialect names the SQL flavour behind a *sql.DB. Run history is kept either in the
// embedded database or in PostgreSQL.
type Dialect string

const (
	DialectDuckDB   Dialect = "duckdb"
	DialectPostgres Dialect = "postgres"
)

func WithTransaction(ctx context.Context, tx *sql.Tx) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

func GetTransaction(ctx context.Context) *sql.Tx {
	tx, _ := ctx.Value(txKey{}).(*sql.Tx)
	return tx
}
