package store

import (
	"context"
	"time"

	"github.com/phrazzld/scry-notes/internal/domain"
)

// ModifyFn mutates a note in place while the store holds it exclusively.
// Returning an error aborts the write and leaves the stored note untouched.
type ModifyFn func(note *domain.Note) error

// NoteStore defines the interface for note data persistence.
// Implementations hand out copies; callers never hold live references.
type NoteStore interface {
	// Create saves a new note and assigns its ID on the passed value.
	// Returns domain validation errors if the note is invalid.
	Create(ctx context.Context, note *domain.Note) error

	// GetByID retrieves a note by its ID.
	// Returns ErrNoteNotFound if the note does not exist.
	GetByID(ctx context.Context, id int64) (*domain.Note, error)

	// List returns all notes, newest CreatedAt first.
	List(ctx context.Context) ([]*domain.Note, error)

	// ListDue returns notes with NextReviewAt at or before asOf,
	// earliest due first.
	ListDue(ctx context.Context, asOf time.Time) ([]*domain.Note, error)

	// Modify runs fn against the current note and persists the result as one
	// atomic read-modify-write. No other Modify or Delete on the same id can
	// interleave. Returns ErrNoteNotFound if the note does not exist.
	Modify(ctx context.Context, id int64, fn ModifyFn) (*domain.Note, error)

	// Delete permanently removes a note.
	// Returns ErrNoteNotFound if the note does not exist.
	Delete(ctx context.Context, id int64) error
}
