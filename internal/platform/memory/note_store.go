package memory

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/phrazzld/scry-notes/internal/domain"
	"github.com/phrazzld/scry-notes/internal/platform/logger"
	"github.com/phrazzld/scry-notes/internal/store"
)

// NoteStore keeps notes in a map guarded by a single RWMutex.
// Every value crossing the API boundary is a copy.
type NoteStore struct {
	mu     sync.RWMutex
	notes  map[int64]*domain.Note
	nextID int64
	logger *slog.Logger
}

// Ensure NoteStore implements store.NoteStore interface
var _ store.NoteStore = (*NoteStore)(nil)

// NewNoteStore creates an empty store. If logger is nil, a default logger will be used.
func NewNoteStore(logger *slog.Logger) *NoteStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &NoteStore{
		notes:  make(map[int64]*domain.Note),
		nextID: 1,
		logger: logger.With(slog.String("component", "memory_note_store")),
	}
}

// Create implements store.NoteStore.Create
func (s *NoteStore) Create(ctx context.Context, note *domain.Note) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := note.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored := note.Clone()
	stored.ID = s.nextID
	stored.CreatedAt = domain.NormalizeTime(stored.CreatedAt)
	stored.NextReviewAt = domain.NormalizeTime(stored.NextReviewAt)
	s.nextID++
	s.notes[stored.ID] = stored

	note.ID = stored.ID
	logger.FromContextOrDefault(ctx, s.logger).Debug("note created",
		slog.Int64("note_id", stored.ID))
	return nil
}

// GetByID implements store.NoteStore.GetByID
func (s *NoteStore) GetByID(ctx context.Context, id int64) (*domain.Note, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	note, ok := s.notes[id]
	if !ok {
		return nil, store.ErrNoteNotFound
	}
	return note.Clone(), nil
}

// List implements store.NoteStore.List
func (s *NoteStore) List(ctx context.Context) ([]*domain.Note, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	notes := s.snapshot(func(*domain.Note) bool { return true })
	sort.Slice(notes, func(i, j int) bool {
		if !notes[i].CreatedAt.Equal(notes[j].CreatedAt) {
			return notes[i].CreatedAt.After(notes[j].CreatedAt)
		}
		return notes[i].ID > notes[j].ID
	})
	return notes, nil
}

// ListDue implements store.NoteStore.ListDue
func (s *NoteStore) ListDue(ctx context.Context, asOf time.Time) ([]*domain.Note, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	notes := s.snapshot(func(n *domain.Note) bool { return n.IsDue(asOf) })
	sort.Slice(notes, func(i, j int) bool {
		if !notes[i].NextReviewAt.Equal(notes[j].NextReviewAt) {
			return notes[i].NextReviewAt.Before(notes[j].NextReviewAt)
		}
		return notes[i].ID < notes[j].ID
	})
	return notes, nil
}

func (s *NoteStore) snapshot(keep func(*domain.Note) bool) []*domain.Note {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Note, 0, len(s.notes))
	for _, n := range s.notes {
		if keep(n) {
			out = append(out, n.Clone())
		}
	}
	return out
}

// Modify implements store.NoteStore.Modify
// The write lock is held across fn, so modifications never interleave.
func (s *NoteStore) Modify(ctx context.Context, id int64, fn store.ModifyFn) (*domain.Note, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.notes[id]
	if !ok {
		return nil, store.ErrNoteNotFound
	}

	working := current.Clone()
	if err := fn(working); err != nil {
		return nil, err
	}
	working.ID = id
	working.CreatedAt = current.CreatedAt
	working.NextReviewAt = domain.NormalizeTime(working.NextReviewAt)

	if err := working.Validate(); err != nil {
		return nil, err
	}

	s.notes[id] = working
	logger.FromContextOrDefault(ctx, s.logger).Debug("note modified",
		slog.Int64("note_id", id),
		slog.Int("review_stage", working.ReviewStage))
	return working.Clone(), nil
}

// Delete implements store.NoteStore.Delete
func (s *NoteStore) Delete(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.notes[id]; !ok {
		return store.ErrNoteNotFound
	}
	delete(s.notes, id)

	logger.FromContextOrDefault(ctx, s.logger).Debug("note deleted", slog.Int64("note_id", id))
	return nil
}
