package srs

import (
	"time"

	"github.com/phrazzld/scry-notes/internal/domain"
)

const day = 24 * time.Hour

// calculateNextStage advances the stage by one, saturating at the last rung.
func calculateNextStage(stage int, params *Params) int {
	return min(stage+1, params.MaxStage())
}

// intervalFor returns the gap that follows reaching the given stage.
// The index is clamped so a stage beyond the ladder reuses the final interval.
func intervalFor(stage int, params *Params) time.Duration {
	index := min(stage, params.MaxStage())
	return time.Duration(params.IntervalDays[index]) * day
}

// calculateNextReview is the pure ladder step: the stage after a successful
// review and the instant the note falls due again.
func calculateNextReview(stage int, now time.Time, params *Params) (int, time.Time) {
	newStage := calculateNextStage(stage, params)
	next := domain.NormalizeTime(now).Add(intervalFor(newStage, params))
	return newStage, next
}
