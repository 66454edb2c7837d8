package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/de-tools/variation-atlas/pkg/models/domain"
	"github.com/de-tools/variation-atlas/pkg/runtime/terminal/export"
	"github.com/de-tools/variation-atlas/pkg/services/analysis"
	"github.com/de-tools/variation-atlas/pkg/services/config"
	"github.com/de-tools/variation-atlas/pkg/store/blob"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type AnalyzeCmd struct {
	env           *Env
	file          string
	key           string
	profile       string
	storageConfig string
	startDate     string
	endDate       string
	format        string
	output        string
	db            string
	noRecord      bool
}

func NewAnalyzeCmd(env *Env) *cobra.Command {
	ac := &AnalyzeCmd{env: env}
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze a variation performance spreadsheet",
		Example: `  atlas analyze --file vendas.xlsx --start 01/01/2024 --end 31/01/2024
  atlas analyze --key uploads/jan.xlsx --profile prod --format xlsx --output jan.xlsx`,
		RunE: ac.run,
	}

	cmd.Flags().StringVar(&ac.file, "file", "", "Local XLSX file to analyze")
	cmd.Flags().StringVar(&ac.key, "key", "", "Key of the XLSX file in the storage profile")
	cmd.Flags().StringVar(&ac.profile, "profile", "", "Storage profile name (default from config)")
	cmd.Flags().StringVar(&ac.storageConfig, "storage-config", "", "Path to the storage profiles ini file (default from config)")
	cmd.Flags().StringVar(&ac.startDate, "start", "", "Analysis period start, as shown in the report")
	cmd.Flags().StringVar(&ac.endDate, "end", "", "Analysis period end, as shown in the report")
	cmd.Flags().StringVar(&ac.format, "format", export.FormatMarkdown,
		fmt.Sprintf("Output format (%s)", strings.Join(export.Formats, ", ")))
	cmd.Flags().StringVarP(&ac.output, "output", "o", "", "Write to this file instead of stdout")
	cmd.Flags().StringVar(&ac.db, "db", "", "Run history database (default from config)")
	cmd.Flags().BoolVar(&ac.noRecord, "no-record", false, "Do not record the run in run history")

	cmd.MarkFlagsMutuallyExclusive("file", "key")
	cmd.MarkFlagsOneRequired("file", "key")

	return cmd
}

func (ac *AnalyzeCmd) run(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	cfg := ac.env.config()

	if !export.IsSupported(ac.format) {
		return fmt.Errorf("unsupported format %q, expected one of %s", ac.format, strings.Join(export.Formats, ", "))
	}
	if export.IsBinary(ac.format) && ac.output == "" {
		return fmt.Errorf("format %s requires --output", ac.format)
	}

	opts := analysis.Options{}
	if !ac.noRecord {
		dsn := firstNonEmpty(ac.db, cfg.Database.DSN)
		if dsn != "" {
			db, store, err := openRunStore(ctx, dsn)
			if err != nil {
				return err
			}
			defer db.Close()
			opts.Runs = store
		}
	}

	var (
		outcome *domain.AnalysisOutcome
		err     error
	)
	if ac.key != "" {
		opts.Blobs, err = ac.blobStore(cmd, cfg)
		if err != nil {
			return err
		}
		outcome, err = analysis.NewService(opts).Analyze(ctx, domain.AnalysisRequest{
			SourceKey: ac.key,
			StartDate: ac.startDate,
			EndDate:   ac.endDate,
		})
	} else {
		payload, readErr := os.ReadFile(ac.file)
		if readErr != nil {
			return fmt.Errorf("failed to read %s: %w", ac.file, readErr)
		}
		outcome, err = analysis.NewService(opts).AnalyzeBytes(ctx, filepath.Base(ac.file), payload, ac.startDate, ac.endDate)
	}
	if err != nil {
		return err
	}

	write := func(w io.Writer) error { return export.Write(w, ac.format, outcome) }
	if ac.output == "" {
		return write(cmd.OutOrStdout())
	}

	if err := writeFile(ac.output, write); err != nil {
		return err
	}
	zerolog.Ctx(ctx).Info().Str("run_id", outcome.RunID).Str("output", ac.output).Msg("report written")
	return nil
}

// writeFile creates path and fills it with write. A failed write or close removes the
// partial file.
func writeFile(path string, write func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", path, closeErr)
		}
		if err != nil {
			_ = os.Remove(path)
		}
	}()

	return write(f)
}

func (ac *AnalyzeCmd) blobStore(cmd *cobra.Command, cfg *config.Config) (blob.Store, error) {
	profile, err := config.ResolveStorageProfile(
		cmd.Context(),
		firstNonEmpty(ac.storageConfig, cfg.Storage.Config),
		firstNonEmpty(ac.profile, cfg.Storage.Profile),
	)
	if err != nil {
		return nil, err
	}
	return blob.New(cmd.Context(), profile)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
