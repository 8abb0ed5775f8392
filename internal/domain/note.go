package domain

import (
	"fmt"
	"strings"
	"time"
)

// TimestampLayout is the wire and storage format for note timestamps:
// ISO-8601, UTC, whole seconds. Being fixed-width, it sorts lexicographically
// in chronological order.
const TimestampLayout = "2006-01-02T15:04:05Z"

// Note is a short text entry scheduled for spaced-repetition review.
type Note struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Content      string    `json:"content"`
	Tags         string    `json:"tags"`
	CreatedAt    time.Time `json:"createdAt"`
	NextReviewAt time.Time `json:"nextReviewAt"`
	ReviewStage  int       `json:"reviewStage"`
	PDFPath      string    `json:"pdfPath"`
}

// NotePatch carries a partial edit. Nil fields are left untouched.
type NotePatch struct {
	Title   *string
	Content *string
	Tags    *string
	PDFPath *string
}

// NewNote builds an unsaved note at stage zero. The ID stays zero until the
// store assigns one. Timestamps are normalized to UTC second precision.
func NewNote(title, content, tags, pdfPath string, createdAt, nextReviewAt time.Time) (*Note, error) {
	note := &Note{
		Title:        title,
		Content:      content,
		Tags:         tags,
		CreatedAt:    NormalizeTime(createdAt),
		NextReviewAt: NormalizeTime(nextReviewAt),
		ReviewStage:  0,
		PDFPath:      pdfPath,
	}

	if err := note.Validate(); err != nil {
		return nil, err
	}

	return note, nil
}

// Validate checks if the Note has valid data.
// Returns an error wrapping ErrValidation if any field fails validation.
func (n *Note) Validate() error {
	if strings.TrimSpace(n.Title) == "" {
		return ErrEmptyTitle
	}

	if n.ReviewStage < 0 {
		return ErrNegativeReviewStage
	}

	if n.NextReviewAt.Before(n.CreatedAt) {
		return ErrReviewBeforeCreation
	}

	return nil
}

// ApplyPatch copies the supplied fields onto the note. Scheduling fields and
// the creation time are never touched. The note is left unchanged when the
// patch is invalid.
func (n *Note) ApplyPatch(patch NotePatch) error {
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return ErrEmptyTitle
	}

	if patch.Title != nil {
		n.Title = *patch.Title
	}
	if patch.Content != nil {
		n.Content = *patch.Content
	}
	if patch.Tags != nil {
		n.Tags = *patch.Tags
	}
	if patch.PDFPath != nil {
		n.PDFPath = *patch.PDFPath
	}

	return nil
}

// IsDue reports whether the note should be reviewed at asOf.
func (n *Note) IsDue(asOf time.Time) bool {
	return !n.NextReviewAt.After(NormalizeTime(asOf))
}

// Clone returns an independent copy of the note.
func (n *Note) Clone() *Note {
	if n == nil {
		return nil
	}
	c := *n
	return &c
}

// NormalizeTime converts t to UTC and drops sub-second precision.
func NormalizeTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Second)
}

// FormatTimestamp renders t in TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return NormalizeTime(t).Format(TimestampLayout)
}

// ParseTimestamp parses a TimestampLayout string.
func ParseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(TimestampLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: timestamp %q: %v", ErrInvalidFormat, s, err)
	}
	return t.UTC(), nil
}
