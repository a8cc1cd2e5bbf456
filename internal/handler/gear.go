package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/campustrail/marketplace/internal/domain"
)

// CreateGearRequest is the body for POST /gear.
type CreateGearRequest struct {
	Title         string `json:"title"`
	Description   string `json:"description"`
	DailyRate     int    `json:"daily_rate"`
	DepositAmount int    `json:"deposit_amount"`
	Condition     string `json:"condition"`
	BufferHours   *int   `json:"buffer_hours"`
}

// CreateGear handles POST /gear. New listings start in DRAFT status.
func (s *Server) CreateGear(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var body CreateGearRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	created, err := s.gear.Create(r.Context(), domain.GearItem{
		OwnerID:       userID,
		Title:         body.Title,
		Description:   body.Description,
		DailyRate:     body.DailyRate,
		DepositAmount: body.DepositAmount,
		Condition:     body.Condition,
		BufferHours:   body.BufferHours,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// ListGear handles GET /gear.
// With ?startDate=&endDate= (and optional ?mode=) each item is annotated with
// availability over that window; without them, with open-ended availability.
func (s *Server) ListGear(w http.ResponseWriter, r *http.Request) {
	window, err := queryWindow(r, "startDate", "endDate")
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	items, err := s.rentals.ListGearWithAvailability(r.Context(), window, queryMode(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// GetGear handles GET /gear/{id}.
func (s *Server) GetGear(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	gear, err := s.gear.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, gear)
}

// PublishGear handles POST /gear/{id}/publish.
func (s *Server) PublishGear(w http.ResponseWriter, r *http.Request) {
	s.gearStatusChange(w, r, s.gear.Publish)
}

// ArchiveGear handles POST /gear/{id}/archive.
func (s *Server) ArchiveGear(w http.ResponseWriter, r *http.Request) {
	s.gearStatusChange(w, r, s.gear.Archive)
}

// gearStatusChange is the shared shape of publish and archive.
func (s *Server) gearStatusChange(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, actorID, gearItemID uuid.UUID) (domain.GearItem, error)) {
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

// ListMyGear handles GET /my/gear.
func (s *Server) ListMyGear(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	items, err := s.gear.ListByOwner(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}
