package main

import (
	"fmt"
	"os"

	"github.com/de-tools/variation-atlas/pkg/observability/metrics"
	"github.com/de-tools/variation-atlas/pkg/server"
	"github.com/de-tools/variation-atlas/pkg/services/analysis"
	"github.com/de-tools/variation-atlas/pkg/services/config"
	"github.com/de-tools/variation-atlas/pkg/store/blob"
	"github.com/de-tools/variation-atlas/pkg/store/duckdb"
	"github.com/de-tools/variation-atlas/pkg/store/duckdb/runs"
	atlassql "github.com/de-tools/variation-atlas/pkg/store/sql"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var cfgPath string

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the web server for Variation Atlas",
		RunE:  runServer,
	}

	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", "",
		"Path to the application config file (defaults and ATLAS_* variables when empty)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Error loading .env file: %v\n", err)
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		return err
	}

	logger := zerolog.New(os.Stdout).Level(cfg.Log.ZerologLevel()).With().Timestamp().Logger()
	ctx := logger.WithContext(cmd.Context())

	db, dialect, err := atlassql.Open(ctx, cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("failed to open run history: %w", err)
	}
	defer func() { _ = db.Close() }()

	runStore, err := runs.NewStore(db, dialect)
	if err != nil {
		return fmt.Errorf("failed to create run store: %w", err)
	}
	metrics.Init(db, logger)

	profile, err := config.ResolveStorageProfile(ctx, cfg.Storage.Config, cfg.Storage.Profile)
	if err != nil {
		return fmt.Errorf("failed to resolve storage profile: %w", err)
	}
	blobs, err := blob.New(ctx, profile)
	if err != nil {
		return fmt.Errorf("failed to create blob store: %w", err)
	}

	logger.Info().Msgf("Run history stored in %s (%s).", dialect, redactDSN(cfg.Database.DSN))
	logger.Info().Msgf("Storage profile `%s` of type `%s`.", profile.Name, profile.Type)

	svc := analysis.NewService(analysis.Options{
		Blobs: blobs,
		Runs:  runStore,
	})

	api := server.NewWebAPI(logger, server.Config{
		Addr: cfg.Server.Addr(),
		Dependencies: server.Dependencies{
			Analysis:       svc,
			Blobs:          blobs,
			Runs:           runStore,
			MaxUpload:      cfg.Server.MaxUploadBytes(),
			AllowedOrigins: cfg.Server.AllowedOrigins,
		},
	})
	return api.Start()
}

func redactDSN(dsn string) string {
	if atlassql.DialectFor(dsn) == duckdb.DialectPostgres {
		return "postgres://***"
	}
	return dsn
}
