package api

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/scry-notes/internal/api/shared"
	"github.com/phrazzld/scry-notes/internal/platform/filestore"
	"github.com/phrazzld/scry-notes/internal/platform/logger"
	"github.com/spf13/afero"
)

// uploadFormField is the multipart field carrying the file.
const uploadFormField = "file"

// multipartOverhead is allowed on top of the file limit for form boundaries and headers.
const multipartOverhead = 1 << 20

// FileStore stores and retrieves uploaded files.
type FileStore interface {
	Save(ctx context.Context, originalName string, r io.Reader) (string, error)
	Open(name string) (afero.File, os.FileInfo, error)
}

// UploadHandler handles attachment uploads and downloads
type UploadHandler struct {
	files    FileStore
	maxBytes int64
	logger   *slog.Logger
}

// NewUploadHandler creates a new UploadHandler. maxBytes bounds the request body.
func NewUploadHandler(files FileStore, maxBytes int64, logger *slog.Logger) *UploadHandler {
	if files == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("file store cannot be nil for UploadHandler")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &UploadHandler{
		files:    files,
		maxBytes: maxBytes,
		logger:   logger.With(slog.String("component", "upload_handler")),
	}
}

// Upload handles POST /api/upload
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	if h.maxBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes+multipartOverhead)
	}

	file, header, err := r.FormFile(uploadFormField)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			HandleAPIError(w, r, err, "")
			return
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "No file uploaded", err)
		return
	}
	defer file.Close()

	name, err := h.files.Save(r.Context(), header.Filename, file)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to store upload")
		return
	}

	log.Debug("upload accepted", slog.String("stored_name", name))
	shared.RespondWithJSON(w, r, http.StatusCreated, UploadResponse{Path: filestore.URLPath(name)})
}

// ServeFile handles GET /uploads/{name}
func (h *UploadHandler) ServeFile(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	f, info, err := h.files.Open(name)
	if err != nil {
		if errors.Is(err, filestore.ErrInvalidFilename) {
			// Names that try to escape the upload directory are reported as missing.
			err = filestore.ErrFileNotFound
		}
		HandleAPIError(w, r, err, "Failed to read file")
		return
	}
	defer f.Close()

	http.ServeContent(w, r, info.Name(), info.ModTime(), f)
}
