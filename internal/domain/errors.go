package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist in the database.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. missing required field, end date before start date).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrForbidden is returned when the acting user is not permitted to perform
// the operation (e.g. approving a rental on gear they do not own).
// Handlers should map this to HTTP 403.
var ErrForbidden = errors.New("forbidden")

// ErrInvalidState is returned when a rental or deposit transition is requested
// from a state that does not allow it (e.g. returning gear that was never
// picked up). Handlers should map this to HTTP 409.
var ErrInvalidState = errors.New("invalid state")

// ErrSelfBooking is returned when a renter attempts to book their own gear.
var ErrSelfBooking = errors.New("cannot rent your own gear")

// ConflictError reports that a requested rental window overlaps an existing
// active rental once the handoff buffer is applied. It carries enough detail
// for the client to show the clash and pick a different window.
// Handlers should map this to HTTP 409. Conflicts are never retried
// automatically.
type ConflictError struct {
	RentalID    uuid.UUID
	Window      TimeWindow
	Mode        RentalMode
	BufferHours int
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("gear unavailable: conflicts with rental %s (%s – %s, buffer %dh)",
		e.RentalID,
		e.Window.Start.Format(time.RFC3339),
		e.Window.End.Format(time.RFC3339),
		e.BufferHours)
}
