package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/campustrail/marketplace/internal/domain"
)

// CreateItineraryRequest is the body for POST /itineraries.
type CreateItineraryRequest struct {
	Title       string   `json:"title"`
	Destination string   `json:"destination"`
	Description string   `json:"description"`
	StartDate   string   `json:"start_date"`
	EndDate     string   `json:"end_date"`
	MaxPeople   int      `json:"max_people"`
	TravelStyle string   `json:"travel_style"`
	Interests   []string `json:"interests"`
}

// CreateItinerary handles POST /itineraries.
func (s *Server) CreateItinerary(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var body CreateItineraryRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	window, err := bodyWindow(body.StartDate, body.EndDate)
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	created, err := s.travel.CreateItinerary(r.Context(), domain.Itinerary{
		CreatorID:   userID,
		Title:       body.Title,
		Destination: body.Destination,
		Description: body.Description,
		Window:      window,
		MaxPeople:   body.MaxPeople,
		Style:       body.TravelStyle,
		Interests:   body.Interests,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// GetItinerary handles GET /itineraries/{id}.
func (s *Server) GetItinerary(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	it, err := s.travel.GetItinerary(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, it)
}

// ListItineraries handles GET /itineraries.
func (s *Server) ListItineraries(w http.ResponseWriter, r *http.Request) {
	items, err := s.travel.ListItineraries(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// JoinRequest is the body for POST /itineraries/{id}/join.
type JoinRequest struct {
	Message string `json:"message"`
}

// RequestJoin handles POST /itineraries/{id}/join.
// An empty body is allowed; the message is optional.
func (s *Server) RequestJoin(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, err := pathID(r)
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	var body JoinRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			badRequest(w, "invalid request body")
			return
		}
	}

	join, err := s.travel.RequestJoin(r.Context(), userID, id, body.Message)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, join)
}

// ApproveJoin handles POST /itinerary-joins/{id}/approve.
func (s *Server) ApproveJoin(w http.ResponseWriter, r *http.Request) {
	s.joinAction(w, r, s.travel.ApproveJoin)
}

// RejectJoin handles POST /itinerary-joins/{id}/reject.
func (s *Server) RejectJoin(w http.ResponseWriter, r *http.Request) {
	s.joinAction(w, r, s.travel.RejectJoin)
}

// joinAction is the shared shape of the join decision endpoints: authenticate,
// parse the join ID, run the transition, return the updated join.
func (s *Server) joinAction(w http.ResponseWriter, r *http.Request, action func(ctx context.Context, actorID, joinID uuid.UUID) (domain.ItineraryJoin, error)) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, err := pathID(r)
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	join, err := action(r.Context(), userID, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, join)
}

// AddInterestsRequest is the body for the interest-update endpoints.
// A non-empty travel_style replaces the stored style.
type AddInterestsRequest struct {
	Interests   []string `json:"interests"`
	TravelStyle string   `json:"travel_style"`
}

// AddItineraryInterests handles POST /itineraries/{id}/interests.
func (s *Server) AddItineraryInterests(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, err := pathID(r)
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	var body AddInterestsRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	updated, err := s.travel.AddItineraryInterests(r.Context(), userID, id, body.TravelStyle, body.Interests)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// AddCompanionRequestInterests handles POST /companion-requests/{id}/interests.
func (s *Server) AddCompanionRequestInterests(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, err := pathID(r)
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	var body AddInterestsRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	updated, err := s.travel.AddCompanionRequestInterests(r.Context(), userID, id, body.TravelStyle, body.Interests)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// CreateCompanionRequestRequest is the body for POST /companion-requests.
type CreateCompanionRequestRequest struct {
	Destination string   `json:"destination"`
	Flexibility string   `json:"flexibility"`
	Notes       string   `json:"notes"`
	StartDate   string   `json:"start_date"`
	EndDate     string   `json:"end_date"`
	TravelStyle string   `json:"travel_style"`
	Interests   []string `json:"interests"`
}

// CreateCompanionRequest handles POST /companion-requests.
func (s *Server) CreateCompanionRequest(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var body CreateCompanionRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	window, err := bodyWindow(body.StartDate, body.EndDate)
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	created, err := s.travel.CreateCompanionRequest(r.Context(), domain.CompanionRequest{
		UserID:      userID,
		Destination: body.Destination,
		Flexibility: body.Flexibility,
		Notes:       body.Notes,
		Window:      window,
		Style:       body.TravelStyle,
		Interests:   body.Interests,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// GetCompanionRequest handles GET /companion-requests/{id}.
func (s *Server) GetCompanionRequest(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	cr, err := s.travel.GetCompanionRequest(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cr)
}

// ListCompanionRequests handles GET /companion-requests.
func (s *Server) ListCompanionRequests(w http.ResponseWriter, r *http.Request) {
	items, err := s.travel.ListCompanionRequests(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}
