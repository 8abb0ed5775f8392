package api

import (
	"github.com/phrazzld/scry-notes/internal/domain"
)

// CreateNoteRequest defines the payload for creating a note.
type CreateNoteRequest struct {
	Title   string `json:"title"   validate:"required"`
	Content string `json:"content"`
	Tags    string `json:"tags"`
	PDFPath string `json:"pdfPath"`
}

// UpdateNoteRequest defines the payload for a partial note update.
// Absent fields are left unchanged.
type UpdateNoteRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
	Tags    *string `json:"tags"`
	PDFPath *string `json:"pdfPath"`
}

// ToPatch converts the request into a domain patch.
func (r UpdateNoteRequest) ToPatch() domain.NotePatch {
	return domain.NotePatch{
		Title:   r.Title,
		Content: r.Content,
		Tags:    r.Tags,
		PDFPath: r.PDFPath,
	}
}

// NoteResponse is the wire form of a note.
type NoteResponse struct {
	ID           int64  `json:"id"`
	Title        string `json:"title"`
	Content      string `json:"content"`
	Tags         string `json:"tags"`
	CreatedAt    string `json:"createdAt"`
	NextReviewAt string `json:"nextReviewAt"`
	ReviewStage  int    `json:"reviewStage"`
	PDFPath      string `json:"pdfPath"`
}

// NotesResponse wraps a list of notes.
type NotesResponse struct {
	Notes []NoteResponse `json:"notes"`
}

// DeleteResponse acknowledges a deletion.
type DeleteResponse struct {
	OK bool `json:"ok"`
}

// UploadResponse carries the public path of a stored upload.
type UploadResponse struct {
	Path string `json:"path"`
}

func noteToResponse(n *domain.Note) NoteResponse {
	return NoteResponse{
		ID:           n.ID,
		Title:        n.Title,
		Content:      n.Content,
		Tags:         n.Tags,
		CreatedAt:    domain.FormatTimestamp(n.CreatedAt),
		NextReviewAt: domain.FormatTimestamp(n.NextReviewAt),
		ReviewStage:  n.ReviewStage,
		PDFPath:      n.PDFPath,
	}
}

func notesToResponse(notes []*domain.Note) NotesResponse {
	out := make([]NoteResponse, 0, len(notes))
	for _, n := range notes {
		out = append(out, noteToResponse(n))
	}
	return NotesResponse{Notes: out}
}
