package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/phrazzld/scry-notes/internal/domain"
	"github.com/phrazzld/scry-notes/internal/domain/srs"
	"github.com/phrazzld/scry-notes/internal/platform/logger"
	"github.com/phrazzld/scry-notes/internal/store"
	"golang.org/x/sync/singleflight"
)

// advanceTimeout bounds a shared review advance once it no longer follows
// any single caller's cancellation.
const advanceTimeout = 30 * time.Second

// CreateNoteParams carries the caller-supplied fields of a new note.
type CreateNoteParams struct {
	Title   string
	Content string
	Tags    string
	PDFPath string
}

// NoteService provides note and review operations.
type NoteService interface {
	// List returns every note, newest first.
	List(ctx context.Context) ([]*domain.Note, error)

	// ListDue returns the notes due at asOf, earliest first.
	ListDue(ctx context.Context, asOf time.Time) ([]*domain.Note, error)

	// Create stores a new note at stage 0, due one interval from now.
	Create(ctx context.Context, params CreateNoteParams) (*domain.Note, error)

	// GetByID retrieves a note by its ID.
	GetByID(ctx context.Context, id int64) (*domain.Note, error)

	// Update applies the supplied fields of patch. Scheduling fields never change.
	Update(ctx context.Context, id int64, patch domain.NotePatch) (*domain.Note, error)

	// Delete permanently removes a note.
	Delete(ctx context.Context, id int64) error

	// AdvanceReview records one successful review and reschedules the note.
	AdvanceReview(ctx context.Context, id int64) (*domain.Note, error)

	// Now reports the service clock, for transports that default a time argument.
	Now() time.Time
}

// noteServiceImpl implements the NoteService interface
type noteServiceImpl struct {
	notes     store.NoteStore
	scheduler srs.Service
	clock     Clock
	logger    *slog.Logger

	// advances coalesces overlapping AdvanceReview calls per note id.
	advances singleflight.Group
}

// NewNoteService creates a new NoteService.
// It returns an error if any of the required dependencies are nil.
func NewNoteService(
	notes store.NoteStore,
	scheduler srs.Service,
	clock Clock,
	logger *slog.Logger,
) (NoteService, error) {
	if notes == nil {
		return nil, fmt.Errorf("%w: note store cannot be nil", domain.ErrValidation)
	}
	if scheduler == nil {
		return nil, fmt.Errorf("%w: scheduler cannot be nil", domain.ErrValidation)
	}
	if clock == nil {
		clock = SystemClock{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &noteServiceImpl{
		notes:     notes,
		scheduler: scheduler,
		clock:     clock,
		logger:    logger.With(slog.String("component", "note_service")),
	}, nil
}

// Now implements NoteService.Now
func (s *noteServiceImpl) Now() time.Time {
	return s.clock.Now()
}

// List implements NoteService.List
func (s *noteServiceImpl) List(ctx context.Context) ([]*domain.Note, error) {
	notes, err := s.notes.List(ctx)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list notes",
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	return notes, nil
}

// ListDue implements NoteService.ListDue
func (s *noteServiceImpl) ListDue(ctx context.Context, asOf time.Time) ([]*domain.Note, error) {
	notes, err := s.notes.ListDue(ctx, asOf)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list due notes",
			slog.Time("as_of", asOf),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list notes due at %s: %w",
			domain.FormatTimestamp(asOf), err)
	}
	return notes, nil
}

// Create implements NoteService.Create
func (s *noteServiceImpl) Create(ctx context.Context, params CreateNoteParams) (*domain.Note, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	now := s.clock.Now()
	note, err := domain.NewNote(
		params.Title,
		params.Content,
		params.Tags,
		params.PDFPath,
		now,
		s.scheduler.FirstReview(now),
	)
	if err != nil {
		log.Debug("rejected note creation", slog.String("error", err.Error()))
		return nil, fmt.Errorf("invalid note: %w", err)
	}

	if err := s.notes.Create(ctx, note); err != nil {
		log.Error("failed to create note", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to create note: %w", err)
	}

	log.Info("note created",
		slog.Int64("note_id", note.ID),
		slog.Time("next_review_at", note.NextReviewAt))
	return note, nil
}

// GetByID implements NoteService.GetByID
func (s *noteServiceImpl) GetByID(ctx context.Context, id int64) (*domain.Note, error) {
	note, err := s.notes.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get note %d: %w", id, err)
	}
	return note, nil
}

// Update implements NoteService.Update
func (s *noteServiceImpl) Update(
	ctx context.Context,
	id int64,
	patch domain.NotePatch,
) (*domain.Note, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	note, err := s.notes.Modify(ctx, id, func(n *domain.Note) error {
		return n.ApplyPatch(patch)
	})
	if err != nil {
		log.Debug("note update failed",
			slog.Int64("note_id", id),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to update note %d: %w", id, err)
	}

	log.Info("note updated", slog.Int64("note_id", id))
	return note, nil
}

// Delete implements NoteService.Delete
func (s *noteServiceImpl) Delete(ctx context.Context, id int64) error {
	if err := s.notes.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete note %d: %w", id, err)
	}
	logger.FromContextOrDefault(ctx, s.logger).Info("note deleted", slog.Int64("note_id", id))
	return nil
}

// AdvanceReview implements NoteService.AdvanceReview
// Calls for the same id that overlap share a single store modification and
// its result. The shared call is detached from the first caller's
// cancellation and bounded by advanceTimeout instead.
func (s *noteServiceImpl) AdvanceReview(ctx context.Context, id int64) (*domain.Note, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	v, err, shared := s.advances.Do(strconv.FormatInt(id, 10), func() (interface{}, error) {
		sharedCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), advanceTimeout)
		defer cancel()

		now := s.clock.Now()
		return s.notes.Modify(sharedCtx, id, func(n *domain.Note) error {
			stage, next, err := s.scheduler.NextReview(n.ReviewStage, now)
			if err != nil {
				return err
			}
			n.ReviewStage = stage
			n.NextReviewAt = next
			return nil
		})
	})
	if err != nil {
		log.Debug("review advance failed",
			slog.Int64("note_id", id),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to advance review for note %d: %w", id, err)
	}

	note := v.(*domain.Note).Clone()
	log.Info("review advanced",
		slog.Int64("note_id", id),
		slog.Int("review_stage", note.ReviewStage),
		slog.Time("next_review_at", note.NextReviewAt),
		slog.Bool("final_stage", note.ReviewStage == s.scheduler.MaxStage()),
		slog.Bool("coalesced", shared))
	return note, nil
}
