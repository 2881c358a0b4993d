package service

import (
	"errors"
	"fmt"
	"syncfit/connect-api/internal/repository"
)

// Base errors. Specific errors wrap one of these so callers can classify
// them with errors.Is.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrConflict     = errors.New("conflict")
	ErrUnavailable  = errors.New("service unavailable")
)

// Not-found errors wrap repository.ErrNotFound.
var (
	ErrUserNotFound        = fmt.Errorf("user %w", repository.ErrNotFound)
	ErrTrainerNotFound     = fmt.Errorf("trainer %w", repository.ErrNotFound)
	ErrTimeSlotNotFound    = fmt.Errorf("time slot %w", repository.ErrNotFound)
	ErrApplicationNotFound = fmt.Errorf("pending trainer application %w", repository.ErrNotFound)
	ErrClassNotFound       = fmt.Errorf("class %w", repository.ErrNotFound)
	ErrImageNotFound       = fmt.Errorf("image %w", repository.ErrNotFound)
)

func invalid(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, msg)
}

// notFoundAs swaps repository.ErrNotFound for a more specific error and
// passes anything else through.
func notFoundAs(err, specific error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return specific
	}
	return err
}
