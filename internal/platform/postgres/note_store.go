package postgres

import (
	"context"
	"log/slog"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/phrazzld/scry-notes/internal/domain"
	"github.com/phrazzld/scry-notes/internal/platform/logger"
	"github.com/phrazzld/scry-notes/internal/store"
)

// psql builds PostgreSQL-flavoured statements with $n placeholders.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var noteColumns = []string{
	"id",
	"title",
	"content",
	"tags",
	"created_at",
	"next_review_at",
	"review_stage",
	"pdf_path",
}

// noteRow is the database shape of a note. Timestamps are stored as
// fixed-width UTC text.
type noteRow struct {
	ID           int64  `db:"id"`
	Title        string `db:"title"`
	Content      string `db:"content"`
	Tags         string `db:"tags"`
	CreatedAt    string `db:"created_at"`
	NextReviewAt string `db:"next_review_at"`
	ReviewStage  int    `db:"review_stage"`
	PDFPath      string `db:"pdf_path"`
}

func (r *noteRow) toDomain(operation string) (*domain.Note, error) {
	createdAt, err := domain.ParseTimestamp(r.CreatedAt)
	if err != nil {
		return nil, store.NewStoreError(noteEntity, operation, "corrupt created_at", err)
	}
	nextReviewAt, err := domain.ParseTimestamp(r.NextReviewAt)
	if err != nil {
		return nil, store.NewStoreError(noteEntity, operation, "corrupt next_review_at", err)
	}

	return &domain.Note{
		ID:           r.ID,
		Title:        r.Title,
		Content:      r.Content,
		Tags:         r.Tags,
		CreatedAt:    createdAt,
		NextReviewAt: nextReviewAt,
		ReviewStage:  r.ReviewStage,
		PDFPath:      r.PDFPath,
	}, nil
}

// PostgresNoteStore implements the store.NoteStore interface
// using a PostgreSQL database as the storage backend.
type PostgresNoteStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewPostgresNoteStore creates a new PostgreSQL implementation of the NoteStore interface.
// The connection is owned by the caller. If logger is nil, a default logger will be used.
func NewPostgresNoteStore(db *sqlx.DB, logger *slog.Logger) *PostgresNoteStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresNoteStore{
		db:     db,
		logger: logger.With(slog.String("component", "note_store")),
	}
}

// Ensure PostgresNoteStore implements store.NoteStore interface
var _ store.NoteStore = (*PostgresNoteStore)(nil)

// Create implements store.NoteStore.Create
// It inserts the note and writes the generated ID back onto it.
func (s *PostgresNoteStore) Create(ctx context.Context, note *domain.Note) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := note.Validate(); err != nil {
		log.Warn("note validation failed during create",
			slog.String("error", err.Error()))
		return err
	}

	query, args, err := psql.Insert("notes").
		Columns("title", "content", "tags", "created_at", "next_review_at", "review_stage", "pdf_path").
		Values(
			note.Title,
			note.Content,
			note.Tags,
			domain.FormatTimestamp(note.CreatedAt),
			domain.FormatTimestamp(note.NextReviewAt),
			note.ReviewStage,
			note.PDFPath,
		).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return store.NewStoreError(noteEntity, "create", "failed to build query", err)
	}

	var id int64
	if err := sqlx.GetContext(ctx, s.db, &id, query, args...); err != nil {
		log.Error("failed to create note",
			slog.String("error", err.Error()))
		return MapError(err, "create")
	}

	note.ID = id
	log.Info("note created successfully",
		slog.Int64("note_id", id),
		slog.Time("next_review_at", note.NextReviewAt))
	return nil
}

// GetByID implements store.NoteStore.GetByID
func (s *PostgresNoteStore) GetByID(ctx context.Context, id int64) (*domain.Note, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	log.Debug("retrieving note by ID", slog.Int64("note_id", id))

	note, err := s.getByID(ctx, s.db, id, false)
	if err != nil {
		if store.IsNotFoundError(err) {
			log.Debug("note not found", slog.Int64("note_id", id))
		} else {
			log.Error("failed to get note", slog.Int64("note_id", id), slog.String("error", err.Error()))
		}
		return nil, err
	}
	return note, nil
}

// getByID loads one note through q. With forUpdate the row stays locked
// until the surrounding transaction ends.
func (s *PostgresNoteStore) getByID(
	ctx context.Context,
	q store.DBTX,
	id int64,
	forUpdate bool,
) (*domain.Note, error) {
	builder := psql.Select(noteColumns...).From("notes").Where(sq.Eq{"id": id})
	if forUpdate {
		builder = builder.Suffix("FOR UPDATE")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, store.NewStoreError(noteEntity, "get", "failed to build query", err)
	}

	var row noteRow
	if err := sqlx.GetContext(ctx, q, &row, query, args...); err != nil {
		return nil, MapError(err, "get")
	}
	return row.toDomain("get")
}

// List implements store.NoteStore.List
func (s *PostgresNoteStore) List(ctx context.Context) ([]*domain.Note, error) {
	builder := psql.Select(noteColumns...).
		From("notes").
		OrderBy("created_at DESC", "id DESC")
	return s.selectNotes(ctx, builder, "list")
}

// ListDue implements store.NoteStore.ListDue
func (s *PostgresNoteStore) ListDue(ctx context.Context, asOf time.Time) ([]*domain.Note, error) {
	builder := psql.Select(noteColumns...).
		From("notes").
		Where(sq.LtOrEq{"next_review_at": domain.FormatTimestamp(asOf)}).
		OrderBy("next_review_at ASC", "id ASC")
	return s.selectNotes(ctx, builder, "list_due")
}

func (s *PostgresNoteStore) selectNotes(
	ctx context.Context,
	builder sq.SelectBuilder,
	operation string,
) ([]*domain.Note, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, store.NewStoreError(noteEntity, operation, "failed to build query", err)
	}

	var rows []noteRow
	if err := sqlx.SelectContext(ctx, s.db, &rows, query, args...); err != nil {
		log.Error("failed to query notes",
			slog.String("operation", operation),
			slog.String("error", err.Error()))
		return nil, MapError(err, operation)
	}

	notes := make([]*domain.Note, 0, len(rows))
	for i := range rows {
		note, err := rows[i].toDomain(operation)
		if err != nil {
			log.Error("failed to decode note row",
				slog.Int64("note_id", rows[i].ID),
				slog.String("error", err.Error()))
			return nil, err
		}
		notes = append(notes, note)
	}
	return notes, nil
}

// Modify implements store.NoteStore.Modify
// The row is locked with SELECT ... FOR UPDATE for the whole read-modify-write,
// so concurrent Modify calls on the same id serialize in the database.
func (s *PostgresNoteStore) Modify(
	ctx context.Context,
	id int64,
	fn store.ModifyFn,
) (*domain.Note, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var updated *domain.Note
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sqlx.Tx) error {
		note, err := s.getByID(ctx, tx, id, true)
		if err != nil {
			return err
		}

		createdAt := note.CreatedAt
		if err := fn(note); err != nil {
			return err
		}
		note.ID = id
		note.CreatedAt = createdAt

		if err := note.Validate(); err != nil {
			return err
		}

		query, args, err := psql.Update("notes").
			Set("title", note.Title).
			Set("content", note.Content).
			Set("tags", note.Tags).
			Set("next_review_at", domain.FormatTimestamp(note.NextReviewAt)).
			Set("review_stage", note.ReviewStage).
			Set("pdf_path", note.PDFPath).
			Where(sq.Eq{"id": id}).
			ToSql()
		if err != nil {
			return store.NewStoreError(noteEntity, "modify", "failed to build query", err)
		}

		result, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return MapError(err, "modify")
		}
		if err := CheckRowsAffected(result, "modify"); err != nil {
			return err
		}

		updated = note
		return nil
	})
	if err != nil {
		log.Debug("note modification aborted",
			slog.Int64("note_id", id),
			slog.String("error", err.Error()))
		return nil, err
	}

	log.Debug("note modified",
		slog.Int64("note_id", id),
		slog.Int("review_stage", updated.ReviewStage))
	return updated, nil
}

// Delete implements store.NoteStore.Delete
func (s *PostgresNoteStore) Delete(ctx context.Context, id int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query, args, err := psql.Delete("notes").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return store.NewStoreError(noteEntity, "delete", "failed to build query", err)
	}

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to delete note",
			slog.Int64("note_id", id),
			slog.String("error", err.Error()))
		return MapError(err, "delete")
	}

	if err := CheckRowsAffected(result, "delete"); err != nil {
		return err
	}

	log.Info("note deleted successfully", slog.Int64("note_id", id))
	return nil
}
