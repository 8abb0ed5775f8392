package domain

import (
	"errors"
	"testing"
	"time"
)

func strPtr(s string) *string { return &s }

func TestNewNote(t *testing.T) {
	t.Parallel()

	created := time.Date(2024, 3, 1, 9, 30, 15, 987654321, time.FixedZone("CET", 3600))
	next := created.Add(24 * time.Hour)

	note, err := NewNote("Title", "Body", "go,srs", "/uploads/a.pdf", created, next)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if note.ID != 0 {
		t.Errorf("Expected unsaved note to have zero ID, got %d", note.ID)
	}
	if note.ReviewStage != 0 {
		t.Errorf("Expected stage 0, got %d", note.ReviewStage)
	}
	if note.CreatedAt.Location() != time.UTC {
		t.Errorf("Expected CreatedAt in UTC, got %s", note.CreatedAt.Location())
	}
	if note.CreatedAt.Nanosecond() != 0 {
		t.Errorf("Expected CreatedAt truncated to seconds, got %d ns", note.CreatedAt.Nanosecond())
	}
	if got, want := FormatTimestamp(note.CreatedAt), "2024-03-01T08:30:15Z"; got != want {
		t.Errorf("Expected CreatedAt %s, got %s", want, got)
	}
	if note.PDFPath != "/uploads/a.pdf" {
		t.Errorf("Expected pdf path to be kept, got %q", note.PDFPath)
	}

	_, err = NewNote("", "Body", "", "", created, next)
	if !errors.Is(err, ErrEmptyTitle) || !errors.Is(err, ErrValidation) {
		t.Errorf("Expected ErrEmptyTitle wrapping ErrValidation, got %v", err)
	}

	_, err = NewNote("   ", "Body", "", "", created, next)
	if !errors.Is(err, ErrEmptyTitle) {
		t.Errorf("Expected whitespace title to be rejected, got %v", err)
	}

	_, err = NewNote("Title", "", "", "", created, created.Add(-time.Hour))
	if !errors.Is(err, ErrReviewBeforeCreation) {
		t.Errorf("Expected ErrReviewBeforeCreation, got %v", err)
	}
}

func TestNoteValidate(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	valid := Note{Title: "t", CreatedAt: now, NextReviewAt: now.Add(time.Hour)}

	if err := valid.Validate(); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}

	negative := valid
	negative.ReviewStage = -1
	if err := negative.Validate(); !errors.Is(err, ErrNegativeReviewStage) {
		t.Errorf("Expected ErrNegativeReviewStage, got %v", err)
	}

	sameInstant := valid
	sameInstant.NextReviewAt = now
	if err := sameInstant.Validate(); err != nil {
		t.Errorf("Expected due-at-creation note to be valid, got %v", err)
	}
}

func TestNoteApplyPatch(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	original := Note{
		ID:           7,
		Title:        "A",
		Content:      "B",
		Tags:         "x",
		CreatedAt:    now,
		NextReviewAt: now.Add(72 * time.Hour),
		ReviewStage:  1,
		PDFPath:      "",
	}

	t.Run("content only", func(t *testing.T) {
		note := original
		if err := note.ApplyPatch(NotePatch{Content: strPtr("x")}); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		want := original
		want.Content = "x"
		if note != want {
			t.Errorf("Expected %+v, got %+v", want, note)
		}
	})

	t.Run("all fields", func(t *testing.T) {
		note := original
		err := note.ApplyPatch(NotePatch{
			Title:   strPtr("T2"),
			Content: strPtr("C2"),
			Tags:    strPtr("y,z"),
			PDFPath: strPtr("/uploads/b.pdf"),
		})
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if note.Title != "T2" || note.Content != "C2" || note.Tags != "y,z" || note.PDFPath != "/uploads/b.pdf" {
			t.Errorf("Patch not applied: %+v", note)
		}
		if !note.CreatedAt.Equal(original.CreatedAt) ||
			!note.NextReviewAt.Equal(original.NextReviewAt) ||
			note.ReviewStage != original.ReviewStage {
			t.Errorf("Scheduling fields changed: %+v", note)
		}
	})

	t.Run("empty title rejected without partial write", func(t *testing.T) {
		note := original
		err := note.ApplyPatch(NotePatch{Title: strPtr(""), Content: strPtr("changed")})
		if !errors.Is(err, ErrEmptyTitle) {
			t.Fatalf("Expected ErrEmptyTitle, got %v", err)
		}
		if note != original {
			t.Errorf("Expected note unchanged, got %+v", note)
		}
	})

	t.Run("empty patch", func(t *testing.T) {
		note := original
		if err := note.ApplyPatch(NotePatch{}); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if note != original {
			t.Errorf("Expected note unchanged, got %+v", note)
		}
	})
}

func TestNoteIsDue(t *testing.T) {
	t.Parallel()

	due := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	note := Note{NextReviewAt: due}

	if note.IsDue(due.Add(-time.Second)) {
		t.Error("Expected note not due one second early")
	}
	if !note.IsDue(due) {
		t.Error("Expected note due at its review time")
	}
	if !note.IsDue(due.Add(500 * time.Millisecond)) {
		t.Error("Expected sub-second instants to compare at second precision")
	}
}

func TestNoteClone(t *testing.T) {
	t.Parallel()

	var nilNote *Note
	if nilNote.Clone() != nil {
		t.Error("Expected nil clone of nil note")
	}

	original := &Note{ID: 1, Title: "A"}
	clone := original.Clone()
	clone.Title = "B"

	if original.Title != "A" {
		t.Errorf("Expected original untouched, got %q", original.Title)
	}
}

func TestTimestampRoundTrip(t *testing.T) {
	t.Parallel()

	parsed, err := ParseTimestamp("2024-02-29T23:59:59Z")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if got := FormatTimestamp(parsed); got != "2024-02-29T23:59:59Z" {
		t.Errorf("Expected round trip, got %s", got)
	}

	_, err = ParseTimestamp("2024-02-29 23:59:59")
	if !errors.Is(err, ErrInvalidFormat) {
		t.Errorf("Expected ErrInvalidFormat, got %v", err)
	}
}
