package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	"github.com/phrazzld/scry-notes/internal/config"
	"github.com/phrazzld/scry-notes/internal/domain/srs"
	"github.com/phrazzld/scry-notes/internal/platform/filestore"
	"github.com/phrazzld/scry-notes/internal/platform/memory"
	"github.com/phrazzld/scry-notes/internal/platform/postgres"
	"github.com/phrazzld/scry-notes/internal/service"
	"github.com/phrazzld/scry-notes/internal/store"
	"github.com/spf13/afero"
)

// Supported values of database.driver.
const (
	driverPostgres = "postgres"
	driverMemory   = "memory"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger

	// db is nil when the memory driver is selected.
	db *sqlx.DB

	noteStore   store.NoteStore
	srsService  srs.Service
	noteService service.NoteService
	fileStore   *filestore.LocalStore
}

// newApplication creates a new application instance with all dependencies initialized.
// The note store is chosen by cfg.Database.Driver; with the postgres driver the
// schema is migrated first when auto-migrate is enabled.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
	}

	switch cfg.Database.Driver {
	case driverPostgres:
		db, err := setupAppDatabase(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		app.db = db

		if cfg.Database.AutoMigrate {
			if err := postgres.Migrate(ctx, db.DB, "up", logger); err != nil {
				app.cleanup()
				return nil, fmt.Errorf("failed to apply migrations: %w", err)
			}
		}
		app.noteStore = postgres.NewPostgresNoteStore(db, logger)
	case driverMemory:
		logger.Warn("using in-memory note store; notes are lost on restart")
		app.noteStore = memory.NewNoteStore(logger)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}

	app.srsService = srs.NewDefaultService()

	var err error
	app.noteService, err = service.NewNoteService(
		app.noteStore,
		app.srsService,
		service.SystemClock{},
		logger,
	)
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to create note service: %w", err)
	}

	app.fileStore, err = filestore.NewLocalStore(
		afero.NewOsFs(),
		cfg.Storage.UploadDir,
		app.maxUploadBytes(),
		logger,
	)
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to initialize upload storage: %w", err)
	}

	logger.Info("application initialized",
		"database_driver", cfg.Database.Driver,
		"upload_dir", cfg.Storage.UploadDir)
	return app, nil
}

// maxUploadBytes converts the configured upload limit to bytes.
func (app *application) maxUploadBytes() int64 {
	return int64(app.config.Storage.MaxUploadMB) << 20
}

// cleanup releases resources held by the application.
func (app *application) cleanup() {
	if app.db == nil {
		return
	}
	if err := app.db.Close(); err != nil {
		app.logger.Error("failed to close database connection", "error", err)
		return
	}
	app.logger.Info("database connection closed")
	app.db = nil
}
