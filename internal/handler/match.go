package handler

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/campustrail/marketplace/internal/domain"
	"github.com/campustrail/marketplace/internal/match"
)

// MatchesResponse wraps one page of ranked matches with paging metadata.
type MatchesResponse struct {
	SubjectID uuid.UUID            `json:"subject_id"`
	Meta      MatchesMeta          `json:"meta"`
	Matches   []domain.MatchResult `json:"matches"`
}

// MatchesMeta mirrors the pagination envelope used by the listing endpoints.
type MatchesMeta struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// CompanionRequestMatches handles GET /companion-requests/{id}/matches.
// Ranks itineraries against the companion request.
// Supports ?sort=score|startDate, ?sortDir=asc|desc, ?page=, ?pageSize=.
func (s *Server) CompanionRequestMatches(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	params := queryMatchParams(r)

	result, err := s.matches.ForCompanionRequest(r.Context(), id, params)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, matchesResponse(id, params, result))
}

// ItineraryMatches handles GET /itineraries/{id}/matches.
// Ranks companion requests against the itinerary.
func (s *Server) ItineraryMatches(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	params := queryMatchParams(r)

	result, err := s.matches.ForItinerary(r.Context(), id, params)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, matchesResponse(id, params, result))
}

func matchesResponse(id uuid.UUID, params domain.MatchParams, result match.Result) MatchesResponse {
	matches := result.Matches
	if matches == nil {
		matches = []domain.MatchResult{}
	}
	return MatchesResponse{
		SubjectID: id,
		Meta: MatchesMeta{
			Page:       params.Page,
			PageSize:   params.PageSize,
			Total:      result.Total,
			TotalPages: result.TotalPages,
		},
		Matches: matches,
	}
}
