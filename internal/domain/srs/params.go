package srs

import (
	"errors"
	"fmt"
)

// DefaultIntervalDays is the review ladder: the gap, in days, before the next
// review once a note reaches the matching stage.
var DefaultIntervalDays = []int{1, 3, 7, 14, 30}

// ErrInvalidParams is returned when a schedule cannot be used.
var ErrInvalidParams = errors.New("invalid srs params")

// Params defines the configurable parameters of the review ladder
type Params struct {
	// IntervalDays must be non-empty, positive and strictly ascending.
	IntervalDays []int
}

// NewDefaultParams creates a new Params instance with the default ladder
func NewDefaultParams() *Params {
	intervals := make([]int, len(DefaultIntervalDays))
	copy(intervals, DefaultIntervalDays)
	return &Params{IntervalDays: intervals}
}

// Validate checks that the ladder is usable.
func (p *Params) Validate() error {
	if p == nil || len(p.IntervalDays) == 0 {
		return fmt.Errorf("%w: interval schedule cannot be empty", ErrInvalidParams)
	}

	for i, days := range p.IntervalDays {
		if days <= 0 {
			return fmt.Errorf("%w: interval %d must be positive, got %d", ErrInvalidParams, i, days)
		}
		if i > 0 && days <= p.IntervalDays[i-1] {
			return fmt.Errorf(
				"%w: intervals must be strictly ascending (%d after %d)",
				ErrInvalidParams,
				days,
				p.IntervalDays[i-1],
			)
		}
	}

	return nil
}

// MaxStage is the last index of the ladder.
func (p *Params) MaxStage() int {
	return len(p.IntervalDays) - 1
}
