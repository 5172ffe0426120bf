package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/guttosm/salespulse/config"
	"github.com/guttosm/salespulse/internal/app"
	"github.com/guttosm/salespulse/internal/dashboard"
	"github.com/guttosm/salespulse/internal/domain/models"
	"github.com/guttosm/salespulse/internal/logger"
)

// newRootCmd builds the command tree. Configuration and logging are
// initialized once before any subcommand runs.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "salespulse",
		Short:         "Product transaction dashboard backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load configuration from environment or .env file
			config.LoadConfig()
			logger.Init()
		},
	}

	api := newAPICmd()
	root.AddCommand(api, newSeedCmd(), newMigrateCmd(), newSnapshotCmd())
	root.RunE = api.RunE
	root.Flags().AddFlagSet(api.Flags())

	return root
}

func newAPICmd() *cobra.Command {
	var port string
	cmd := &cobra.Command{
		Use:   "api",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			if port == "" {
				port = config.AppConfig.Server.Port
			}
			logger.L().Info().Msg("starting API server")

			router, cleanup, err := app.InitializeApp()
			if err != nil {
				return fmt.Errorf("app init: %w", err)
			}
			return serve(cmd.Context(), router, port, cleanup)
		},
	}
	cmd.Flags().StringVar(&port, "port", "", "Port for the API server (default SERVER_PORT)")
	return cmd
}

func newSeedCmd() *cobra.Command {
	var timeout time.Duration
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Fetch the feed and replace every stored transaction",
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := app.BuildDependencies(config.AppConfig)
			if err != nil {
				return err
			}
			defer deps.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			n, err := deps.Seeder.Reseed(ctx)
			if err != nil {
				return err
			}
			logger.L().Info().Int("rows", n).Str("feed", deps.Feed.URL()).Msg("seed completed successfully")
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "seeded %d transactions\n", n)
			return nil
		},
	}
	cmd.Flags().DurationVar(&timeout, "timeout", time.Minute, "Upper bound for fetch plus replace")
	return cmd
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			if config.AppConfig.StorageDriver != config.DriverPostgres {
				return fmt.Errorf("migrate requires STORAGE_DRIVER=%s, got %q", config.DriverPostgres, config.AppConfig.StorageDriver)
			}
			db, err := app.InitPostgres(config.AppConfig)
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()
			return app.RunMigrations(db)
		},
	}
}

func newSnapshotCmd() *cobra.Command {
	var (
		server string
		f      = models.FilterCriteria{Month: dashboard.InitialMonth, Page: 1, PerPage: models.DefaultPerPage}
	)
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Print one dashboard snapshot from a running API",
		RunE: func(cmd *cobra.Command, args []string) error {
			if server == "" {
				server = "http://localhost:" + config.AppConfig.Server.Port
			}
			snap, err := dashboard.NewClient(server, nil).FetchSnapshot(cmd.Context(), f)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(snap)
		},
	}
	cmd.Flags().StringVar(&server, "server", "", "API base URL (default http://localhost:SERVER_PORT)")
	cmd.Flags().IntVar(&f.Month, "month", f.Month, "Month 1-12, 0 for all")
	cmd.Flags().StringVar(&f.Search, "search", "", "Substring of title, description or price")
	cmd.Flags().IntVar(&f.Page, "page", f.Page, "1-based page")
	cmd.Flags().IntVar(&f.PerPage, "per-page", f.PerPage, "Page size")
	return cmd
}
