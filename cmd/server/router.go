package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/scry-notes/internal/api"
	apiMiddleware "github.com/phrazzld/scry-notes/internal/api/middleware"
	"github.com/phrazzld/scry-notes/internal/api/shared"
	"github.com/phrazzld/scry-notes/internal/platform/filestore"
)

// setupRouter creates and configures the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware(app.logger))

	noteHandler := api.NewNoteHandler(app.noteService, app.logger)
	uploadHandler := api.NewUploadHandler(app.fileStore, app.maxUploadBytes(), app.logger)

	r.Route("/api", func(r chi.Router) {
		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			shared.RespondWithError(w, r, http.StatusNotFound, "Resource not found")
		})
		r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
			shared.RespondWithError(w, r, http.StatusMethodNotAllowed, "Method not allowed")
		})

		r.Get("/notes", noteHandler.ListNotes)
		r.Post("/notes", noteHandler.CreateNote)
		r.Get("/notes/{id}", noteHandler.GetNote)
		r.Put("/notes/{id}", noteHandler.UpdateNote)
		r.Delete("/notes/{id}", noteHandler.DeleteNote)
		r.Post("/notes/{id}/review", noteHandler.AdvanceReview)

		r.Get("/reviews", noteHandler.ListDue)

		r.Post("/upload", uploadHandler.Upload)
	})

	r.Get(filestore.URLPrefix+"{name}", uploadHandler.ServeFile)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	if dir := app.config.Server.StaticDir; dir != "" {
		app.logger.Info("serving static frontend", "dir", dir)
		r.Handle("/*", http.FileServer(http.Dir(dir)))
	}

	return r
}
