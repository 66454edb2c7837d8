package commands

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/de-tools/variation-atlas/pkg/services/config"
	"github.com/de-tools/variation-atlas/pkg/store/duckdb/runs"
	atlassql "github.com/de-tools/variation-atlas/pkg/store/sql"
)

// Env carries what the root command resolves before a subcommand runs.
type Env struct {
	Config *config.Config
}

func (e *Env) config() *config.Config {
	if e == nil || e.Config == nil {
		cfg, err := config.LoadConfig("")
		if err != nil {
			return &config.Config{}
		}
		return cfg
	}
	return e.Config
}

func openRunStore(ctx context.Context, dsn string) (*sql.DB, runs.Store, error) {
	db, dialect, err := atlassql.Open(ctx, dsn)
	if err != nil {
		return nil, nil, err
	}
	store, err := runs.NewStore(db, dialect)
	if err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("failed to create run store: %w", err)
	}
	return db, store, nil
}
