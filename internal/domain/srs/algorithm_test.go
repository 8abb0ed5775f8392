package srs

import (
	"testing"
	"time"
)

func TestCalculateNextStage(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()

	testCases := []struct {
		name     string
		stage    int
		expected int
	}{
		{name: "first review", stage: 0, expected: 1},
		{name: "middle of ladder", stage: 2, expected: 3},
		{name: "reaching last rung", stage: 3, expected: 4},
		{name: "saturates at last rung", stage: 4, expected: 4},
		{name: "stage from a longer ladder is clamped", stage: 9, expected: 4},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := calculateNextStage(tc.stage, params); got != tc.expected {
				t.Errorf("calculateNextStage(%d) = %d, want %d", tc.stage, got, tc.expected)
			}
		})
	}
}

func TestIntervalFor(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()

	expected := []int{1, 3, 7, 14, 30}
	for stage, days := range expected {
		if got := intervalFor(stage, params); got != time.Duration(days)*24*time.Hour {
			t.Errorf("intervalFor(%d) = %s, want %d days", stage, got, days)
		}
	}

	if got := intervalFor(12, params); got != 30*24*time.Hour {
		t.Errorf("intervalFor beyond the ladder = %s, want final interval", got)
	}
}

func TestCalculateNextReview(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()
	now := time.Date(2024, 5, 10, 8, 0, 0, 999_000_000, time.UTC)

	stage, next := calculateNextReview(0, now, params)
	if stage != 1 {
		t.Errorf("Expected stage 1, got %d", stage)
	}
	want := time.Date(2024, 5, 13, 8, 0, 0, 0, time.UTC)
	if !next.Equal(want) {
		t.Errorf("Expected next review %s, got %s", want, next)
	}
}
