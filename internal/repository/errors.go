// Package repository defines the MySQL data access layer and the error
// values shared across repositories.  Sentinel values let higher layers such
// as services and handlers distinguish failure scenarios without inspecting
// driver errors.
package repository

import (
	"errors"
	"fmt"
)

var (
	ErrRoomNotFound    = errors.New("room not found")
	ErrBookingNotFound = errors.New("booking not found")
	ErrGuestNotFound   = errors.New("guest not found")
	ErrStaffNotFound   = errors.New("staff account not found")

	// ErrConflict is returned when a state transition is not allowed, such
	// as cancelling a booking that is already cancelled.
	ErrConflict = errors.New("conflict")
)

// DuplicateError wraps a unique-key violation.  Key holds the violated
// index name when MySQL reported it.
type DuplicateError struct {
	Key string
	Err error
}

func (e *DuplicateError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("duplicate entry: %v", e.Err)
	}
	return fmt.Sprintf("duplicate entry on %s: %v", e.Key, e.Err)
}

func (e *DuplicateError) Unwrap() error { return e.Err }
