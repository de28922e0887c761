// Package service holds the booking workflows that span repositories, the
// cache and the event channel.
package service

import (
	"errors"

	"github.com/iliyamo/hotel-reservation/internal/utils"
)

var (
	// ErrRoomUnavailable means the room was taken, lost its price coverage
	// or disappeared between search and confirmation.  Clients should search
	// again.
	ErrRoomUnavailable = errors.New("room is no longer available for these dates")

	// ErrDuplicateBooking means a uniqueness constraint rejected the booking:
	// the idempotency token was already used or the guest already holds this
	// room from the same check-in day.
	ErrDuplicateBooking = errors.New("booking already exists")

	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ValidationError reports client input problems per field.  No transaction
// is opened when it is returned.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + utils.FormatValidationErrors(e.Fields)
}

func invalid(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

// IsConflict reports whether err is an availability conflict, as opposed to
// a validation or internal failure.
func IsConflict(err error) bool {
	return errors.Is(err, ErrRoomUnavailable) || errors.Is(err, ErrDuplicateBooking)
}
