package main

import (
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/phrazzld/scry-notes/internal/config"
	"github.com/phrazzld/scry-notes/internal/platform/logger"
	"github.com/phrazzld/scry-notes/internal/platform/postgres"
	"github.com/spf13/cobra"
)

// migrateCommands are the goose commands accepted by the migrate subcommand.
var migrateCommands = []string{"up", "down", "status", "version"}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "scry-notes",
		Short:        "Note store with spaced-repetition review scheduling",
		SilenceUsage: true,
	}

	root.AddCommand(newServeCmd(), newMigrateCmd())
	return root
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := loadConfigAndLogger()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			app, err := newApplication(ctx, cfg, log)
			if err != nil {
				return fmt.Errorf("failed to initialize application: %w", err)
			}

			return app.startHTTPServer(ctx, app.setupRouter())
		},
	}
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "migrate {up|down|status|version}",
		Short:     "Manage the PostgreSQL schema",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: migrateCommands,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfigAndLogger()
			if err != nil {
				return err
			}
			if cfg.Database.Driver != driverPostgres {
				return fmt.Errorf("migrations require the %q driver, configured driver is %q",
					driverPostgres, cfg.Database.Driver)
			}

			ctx := cmd.Context()
			db, err := setupAppDatabase(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer func() {
				if err := db.Close(); err != nil {
					log.Error("failed to close database connection", "error", err)
				}
			}()

			log.Info("running migration", slog.String("command", args[0]))
			if err := postgres.Migrate(ctx, db.DB, args[0], log); err != nil {
				return fmt.Errorf("migration %s failed: %w", args[0], err)
			}
			log.Info("migration finished", slog.String("command", args[0]))
			return nil
		},
	}
}

// loadConfigAndLogger loads configuration and sets up the JSON logger it names.
func loadConfigAndLogger() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	log.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"database_driver", cfg.Database.Driver)
	if cfg.Database.URL != "" {
		log.Debug("Database configuration", "url_present", true)
	}

	return cfg, log, nil
}
