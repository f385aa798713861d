package model

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by the catalog, the services and the storage layer.
// Handlers translate them into HTTP status codes with errors.Is.
var (
	// ErrNotFound is returned for an unknown movie, room, screening or
	// reservation id.
	ErrNotFound = errors.New("not found")

	// ErrSeatUnavailable is returned when a requested seat is already
	// reserved. The concrete error is a *SeatUnavailableError.
	ErrSeatUnavailable = errors.New("seat unavailable")

	// ErrValidation marks malformed input: missing fields, non-positive
	// durations, seats outside the room grid and similar.
	ErrValidation = errors.New("validation failed")

	// ErrPersistence marks an unreadable or malformed stored catalog.
	ErrPersistence = errors.New("persistence failed")
)

// SeatUnavailableError carries the first conflicting seat of a rejected
// batch so callers can report it.
type SeatUnavailableError struct {
	Seat Seat
}

func (e *SeatUnavailableError) Error() string {
	return fmt.Sprintf("seat %s is not available", e.Seat)
}

// Is lets errors.Is(err, ErrSeatUnavailable) match.
func (e *SeatUnavailableError) Is(target error) bool { return target == ErrSeatUnavailable }

// Validationf builds an error wrapping ErrValidation.
func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// NotFoundf builds an error wrapping ErrNotFound.
func NotFoundf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}
