package commands

import (
	"fmt"
	"text/template"

	"github.com/de-tools/variation-atlas/pkg/adapters"
	"github.com/de-tools/variation-atlas/pkg/models/domain"
	"github.com/de-tools/variation-atlas/pkg/store/duckdb/runs"
	"github.com/spf13/cobra"
)

type RunsCmd struct {
	env   *Env
	limit int
	db    string
}

func NewRunsCmd(env *Env) *cobra.Command {
	rc := &RunsCmd{env: env}
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recorded analysis runs, newest first",
		RunE:  rc.run,
	}

	cmd.Flags().IntVar(&rc.limit, "limit", runs.DefaultListLimit, "Maximum number of runs to list")
	cmd.Flags().StringVar(&rc.db, "db", "", "Run history database (default from config)")

	return cmd
}

const runsTemplate = `{{if not .}}No runs recorded.
{{else}}{{printf "%-36s  %-20s  %-9s  %8s  %10s  %12s  %s" "ID" "CREATED" "STATUS" "PRODUCTS" "VARIATIONS" "UNITS" "SOURCE"}}
{{range .}}{{printf "%-36s  %-20s  %-9s  %8d  %10d  %12.0f  %s" .ID (.CreatedAt.Format "2006-01-02 15:04:05") .Status .Products .Variations .TotalUnits .SourceKey}}{{if .Error}}
    error: {{deref .Error}}{{end}}
{{end}}{{end}}`

var runsTmpl = template.Must(template.New("runs").Funcs(template.FuncMap{
	"deref": func(s *string) string { return *s },
}).Parse(runsTemplate))

func (rc *RunsCmd) run(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	dsn := firstNonEmpty(rc.db, rc.env.config().Database.DSN)
	if dsn == "" {
		return fmt.Errorf("no run history database configured, use --db")
	}

	db, store, err := openRunStore(ctx, dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	stored, err := store.List(ctx, rc.limit)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	history := make([]domain.AnalysisRun, 0, len(stored))
	for i := range stored {
		history = append(history, *adapters.MapStoreRunToDomain(&stored[i]))
	}
	return runsTmpl.Execute(cmd.OutOrStdout(), history)
}
