package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/campustrail/marketplace/internal/domain"
)

// GetAvailability handles GET /gear/{id}/availability.
// With ?from=&to= it answers for that window; without, it answers the
// open-ended "available going forward" question with a 14-day display window.
func (s *Server) GetAvailability(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	window, err := queryWindow(r, "from", "to")
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	result, err := s.rentals.CheckAvailability(r.Context(), id, window, queryMode(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// CreateRentalRequest is the body for POST /gear/{id}/rent.
type CreateRentalRequest struct {
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
	RentalMode string `json:"rental_mode"`
}

// CreateRental handles POST /gear/{id}/rent.
// Conflicting windows return 409 with the clashing rental's details.
func (s *Server) CreateRental(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, err := pathID(r)
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	var body CreateRentalRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	start, err := parseTimestamp(body.StartDate)
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	end, err := parseTimestamp(body.EndDate)
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	window, err := domain.NewTimeWindow(start, end)
	if err != nil {
		badRequest(w, "start_date must not be after end_date")
		return
	}

	created, err := s.rentals.CreateRental(r.Context(), id, userID, window, domain.ParseRentalMode(body.RentalMode))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// ApproveRental handles POST /rentals/{id}/approve.
func (s *Server) ApproveRental(w http.ResponseWriter, r *http.Request) {
	s.rentalAction(w, r, s.rentals.Approve)
}

// PickupRental handles POST /rentals/{id}/pickup.
func (s *Server) PickupRental(w http.ResponseWriter, r *http.Request) {
	s.rentalAction(w, r, s.rentals.Pickup)
}

// ReturnRental handles POST /rentals/{id}/return.
func (s *Server) ReturnRental(w http.ResponseWriter, r *http.Request) {
	s.rentalAction(w, r, s.rentals.Return)
}

// CancelRental handles POST /rentals/{id}/cancel.
func (s *Server) CancelRental(w http.ResponseWriter, r *http.Request) {
	s.rentalAction(w, r, s.rentals.Cancel)
}

// HoldDeposit handles POST /rentals/{id}/hold-deposit.
func (s *Server) HoldDeposit(w http.ResponseWriter, r *http.Request) {
	s.rentalAction(w, r, s.rentals.HoldDeposit)
}

// CaptureDeposit handles POST /rentals/{id}/capture-deposit.
func (s *Server) CaptureDeposit(w http.ResponseWriter, r *http.Request) {
	s.rentalAction(w, r, s.rentals.CaptureDeposit)
}

// ReleaseDeposit handles POST /rentals/{id}/release-deposit.
func (s *Server) ReleaseDeposit(w http.ResponseWriter, r *http.Request) {
	s.rentalAction(w, r, s.rentals.ReleaseDeposit)
}

// rentalAction is the shared shape of every rental state transition endpoint:
// authenticate, parse the rental id, delegate, return the updated rental.
func (s *Server) rentalAction(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, actorID, rentalID uuid.UUID) (domain.Rental, error)) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, err := pathID(r)
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	updated, err := op(r.Context(), userID, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// ListGearRentals handles GET /gear/{id}/rentals (owner only).
func (s *Server) ListGearRentals(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, err := pathID(r)
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	rentals, err := s.rentals.ListForGear(r.Context(), userID, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rentals)
}

// ListMyRentals handles GET /my/rentals.
func (s *Server) ListMyRentals(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	rentals, err := s.rentals.ListForRenter(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rentals)
}
