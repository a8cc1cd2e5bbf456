package domain

import (
	"time"

	"github.com/google/uuid"
)

// RentalStatus is the booking lifecycle of a rental.
// A rental moves forward REQUESTED → APPROVED → IN_PROGRESS → COMPLETED and
// may be cancelled at any pre-COMPLETED state.
type RentalStatus string

const (
	RentalRequested  RentalStatus = "REQUESTED"
	RentalApproved   RentalStatus = "APPROVED"
	RentalInProgress RentalStatus = "IN_PROGRESS"
	RentalCompleted  RentalStatus = "COMPLETED"
	RentalCancelled  RentalStatus = "CANCELLED"
)

// DepositStatus tracks the security deposit held against a rental.
type DepositStatus string

const (
	DepositPending  DepositStatus = "PENDING"
	DepositHeld     DepositStatus = "HELD"
	DepositCaptured DepositStatus = "CAPTURED"
	DepositReleased DepositStatus = "RELEASED"
)

// Rental represents a booking of one gear item by one renter for a window.
// Mode records how the window's endpoints were interpreted at booking time so
// later overlap checks normalize it the same way.
type Rental struct {
	ID                uuid.UUID     `json:"id"`
	GearItemID        uuid.UUID     `json:"gear_item_id"`
	RenterID          uuid.UUID     `json:"renter_id"`
	Window            TimeWindow    `json:"window"`
	Mode              RentalMode    `json:"rental_mode"`
	Status            RentalStatus  `json:"status"`
	DepositStatus     DepositStatus `json:"deposit_status"`
	DepositHeld       int           `json:"deposit_held"`
	PickupConfirmedAt *time.Time    `json:"pickup_confirmed_at,omitempty"`
	ReturnConfirmedAt *time.Time    `json:"return_confirmed_at,omitempty"`
	CreatedAt         time.Time     `json:"created_at"`
	UpdatedAt         time.Time     `json:"updated_at"`
}

// IsActive reports whether the rental counts toward availability.
// Only REQUESTED, APPROVED, and IN_PROGRESS rentals participate in overlap
// checks; completed and cancelled rentals free the window.
func (r Rental) IsActive() bool {
	switch r.Status {
	case RentalRequested, RentalApproved, RentalInProgress:
		return true
	}
	return false
}

// NormalizedWindow returns the rental's window normalized per its own stored
// mode. Each rental snaps according to how it was booked, not how the current
// query is phrased.
func (r Rental) NormalizedWindow() TimeWindow {
	return r.Window.Normalize(r.Mode)
}
