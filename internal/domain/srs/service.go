package srs

import (
	"errors"
	"fmt"
	"time"

	"github.com/phrazzld/scry-notes/internal/domain"
)

// Common errors
var (
	ErrInvalidStage = errors.New("review stage cannot be negative")
)

// Service defines the interface for review scheduling operations
type Service interface {
	// FirstReview returns when a note created at now first falls due.
	FirstReview(now time.Time) time.Time

	// NextReview computes the stage and due time after a review at now.
	NextReview(stage int, now time.Time) (int, time.Time, error)

	// MaxStage is the highest stage a note can reach.
	MaxStage() int
}

// defaultService is the standard implementation of the Service interface
type defaultService struct {
	params *Params
}

// NewDefaultService creates a new SRS service with the default ladder
func NewDefaultService() Service {
	return &defaultService{
		params: NewDefaultParams(),
	}
}

// NewServiceWithParams creates a new SRS service with a custom ladder
func NewServiceWithParams(params *Params) (Service, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	intervals := make([]int, len(params.IntervalDays))
	copy(intervals, params.IntervalDays)

	return &defaultService{
		params: &Params{IntervalDays: intervals},
	}, nil
}

// FirstReview implements Service.FirstReview
func (s *defaultService) FirstReview(now time.Time) time.Time {
	return domain.NormalizeTime(now).Add(intervalFor(0, s.params))
}

// NextReview implements Service.NextReview
func (s *defaultService) NextReview(stage int, now time.Time) (int, time.Time, error) {
	if stage < 0 {
		return 0, time.Time{}, fmt.Errorf("%w: got %d", ErrInvalidStage, stage)
	}

	newStage, next := calculateNextReview(stage, now, s.params)
	return newStage, next, nil
}

// MaxStage implements Service.MaxStage
func (s *defaultService) MaxStage() int {
	return s.params.MaxStage()
}
