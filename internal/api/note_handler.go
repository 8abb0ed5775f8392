package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/scry-notes/internal/api/shared"
	"github.com/phrazzld/scry-notes/internal/domain"
	"github.com/phrazzld/scry-notes/internal/platform/logger"
	"github.com/phrazzld/scry-notes/internal/service"
)

// NoteHandler handles note and review HTTP requests
type NoteHandler struct {
	notes  service.NoteService
	logger *slog.Logger
}

// NewNoteHandler creates a new NoteHandler
func NewNoteHandler(notes service.NoteService, logger *slog.Logger) *NoteHandler {
	if notes == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("note service cannot be nil for NoteHandler")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &NoteHandler{
		notes:  notes,
		logger: logger.With(slog.String("component", "note_handler")),
	}
}

// ListNotes handles GET /api/notes
func (h *NoteHandler) ListNotes(w http.ResponseWriter, r *http.Request) {
	notes, err := h.notes.List(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list notes")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, notesToResponse(notes))
}

// CreateNote handles POST /api/notes
func (h *NoteHandler) CreateNote(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req CreateNoteRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		if errors.Is(err, shared.ErrEmptyBody) {
			HandleAPIError(w, r, err, "")
			return
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	if err := shared.ValidateRequest(&req); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			HandleValidationError(w, r, err)
			return
		}
		HandleAPIError(w, r, err, "")
		return
	}

	note, err := h.notes.Create(r.Context(), service.CreateNoteParams{
		Title:   req.Title,
		Content: req.Content,
		Tags:    req.Tags,
		PDFPath: req.PDFPath,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create note")
		return
	}

	log.Debug("note created via API", slog.Int64("note_id", note.ID))
	shared.RespondWithJSON(w, r, http.StatusCreated, noteToResponse(note))
}

// GetNote handles GET /api/notes/{id}
func (h *NoteHandler) GetNote(w http.ResponseWriter, r *http.Request) {
	id, err := getPathID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	note, err := h.notes.GetByID(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get note")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, noteToResponse(note))
}

// UpdateNote handles PUT /api/notes/{id}
func (h *NoteHandler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	id, err := getPathID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	var req UpdateNoteRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		if errors.Is(err, shared.ErrEmptyBody) {
			HandleAPIError(w, r, err, "")
			return
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	note, err := h.notes.Update(r.Context(), id, req.ToPatch())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update note")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, noteToResponse(note))
}

// DeleteNote handles DELETE /api/notes/{id}
func (h *NoteHandler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	id, err := getPathID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.notes.Delete(r.Context(), id); err != nil {
		HandleAPIError(w, r, err, "Failed to delete note")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, DeleteResponse{OK: true})
}

// AdvanceReview handles POST /api/notes/{id}/review
func (h *NoteHandler) AdvanceReview(w http.ResponseWriter, r *http.Request) {
	id, err := getPathID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	note, err := h.notes.AdvanceReview(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to record review")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, noteToResponse(note))
}

// ListDue handles GET /api/reviews
// The optional asOf query parameter (RFC 3339) replaces the current time.
// An unescaped "+hh:mm" offset arrives as a space and is accepted as "+".
func (h *NoteHandler) ListDue(w http.ResponseWriter, r *http.Request) {
	asOf := h.notes.Now()
	if raw := r.URL.Query().Get("asOf"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, strings.ReplaceAll(raw, " ", "+"))
		if err != nil {
			HandleAPIError(w, r,
				fmt.Errorf("%w: asOf must be an RFC 3339 timestamp", domain.ErrInvalidFormat), "")
			return
		}
		asOf = parsed
	}

	notes, err := h.notes.ListDue(r.Context(), asOf)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list due notes")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, notesToResponse(notes))
}
