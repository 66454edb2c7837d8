package duckdb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"

	"github.com/marcboeker/go-duckdb/v2"
)

const AnalysisRunsSchema = `
	CREATE TABLE IF NOT EXISTS analysis_runs (
		id VARCHAR PRIMARY KEY,
		source_key VARCHAR NOT NULL,
		start_date VARCHAR,
		end_date VARCHAR,
		status VARCHAR NOT NULL,
		products BIGINT NOT NULL DEFAULT 0,
		variations BIGINT NOT NULL DEFAULT 0,
		total_units DOUBLE NOT NULL DEFAULT 0,
		error VARCHAR NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
`

const AnalysisRunsCreatedIndex = `
	CREATE INDEX IF NOT EXISTS analysis_runs_created_at ON analysis_runs (created_at);
`

var bootQueries = []string{
	AnalysisRunsSchema,
	AnalysisRunsCreatedIndex,
}

type Settings struct {
	DbPath string
}

func NewDB(settings Settings) (*sql.DB, error) {
	c, err := duckdb.NewConnector(fmt.Sprintf("%s?threads=4", settings.DbPath), func(exec driver.ExecerContext) error {
		bootQueries := append([]string{}, bootQueries...)

		for _, query := range bootQueries {
			_, err := exec.ExecContext(context.Background(), query, nil)
			if err != nil {
				return err
			}
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	db := sql.OpenDB(c)
	return db, nil
}
