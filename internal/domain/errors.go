// Package domain defines the core business entities and errors.
package domain

import (
	"errors"
	"fmt"
)

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidFormat is returned when data is not in the expected format.
	ErrInvalidFormat = errors.New("invalid format")

	// ErrEmptyTitle is returned when a note is created or edited without a title.
	ErrEmptyTitle = fmt.Errorf("%w: title cannot be empty", ErrValidation)

	// ErrNegativeReviewStage is returned when a note carries a stage below zero.
	ErrNegativeReviewStage = fmt.Errorf("%w: review stage cannot be negative", ErrValidation)

	// ErrReviewBeforeCreation is returned when a note would become due before it exists.
	ErrReviewBeforeCreation = fmt.Errorf(
		"%w: next review cannot precede creation time",
		ErrValidation,
	)
)
