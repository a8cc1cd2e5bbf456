package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/campustrail/marketplace/internal/domain"
	"github.com/campustrail/marketplace/internal/match"
	"github.com/campustrail/marketplace/internal/repo"
)

// MatchService ranks itineraries against companion requests and vice versa.
// Candidate retrieval comes from the repos; scoring and ranking are pure.
type MatchService struct {
	itineraries repo.ItineraryRepo
	companions  repo.CompanionRequestRepo
}

// NewMatchService constructs a MatchService backed by the provided repos.
func NewMatchService(itineraries repo.ItineraryRepo, companions repo.CompanionRequestRepo) *MatchService {
	return &MatchService{itineraries: itineraries, companions: companions}
}

// ForCompanionRequest ranks all itineraries against the given companion
// request. Fully booked itineraries are excluded.
// Returns domain.ErrNotFound if the companion request does not exist.
func (s *MatchService) ForCompanionRequest(ctx context.Context, requestID uuid.UUID, p domain.MatchParams) (match.Result, error) {
	cr, err := s.companions.GetByID(ctx, requestID)
	if err != nil {
		return match.Result{}, fmt.Errorf("service.MatchService.ForCompanionRequest: %w", err)
	}

	itineraries, err := s.itineraries.List(ctx)
	if err != nil {
		return match.Result{}, fmt.Errorf("service.MatchService.ForCompanionRequest: %w", err)
	}

	subject := match.Subject{
		Destination: cr.Destination,
		Window:      cr.Window,
		Style:       cr.Style,
		Interests:   cr.Interests,
	}

	candidates := make([]match.Candidate, 0, len(itineraries))
	for _, it := range itineraries {
		candidates = append(candidates, match.Candidate{
			ID:             it.ID,
			Kind:           domain.MatchItinerary,
			Title:          it.Title,
			Destination:    it.Destination,
			Window:         it.Window,
			Style:          it.Style,
			Interests:      it.Interests,
			SeatsRemaining: it.SeatsRemaining(),
		})
	}

	return match.Rank(subject, candidates, p), nil
}

// ForItinerary ranks all companion requests against the given itinerary.
// A fully booked itinerary short-circuits to an empty result — there is no
// point matching companions onto a trip with no seats.
// Returns domain.ErrNotFound if the itinerary does not exist.
func (s *MatchService) ForItinerary(ctx context.Context, itineraryID uuid.UUID, p domain.MatchParams) (match.Result, error) {
	it, err := s.itineraries.GetByID(ctx, itineraryID)
	if err != nil {
		return match.Result{}, fmt.Errorf("service.MatchService.ForItinerary: %w", err)
	}

	seats := it.SeatsRemaining()
	if seats == 0 {
		return match.Result{Matches: []domain.MatchResult{}}, nil
	}

	requests, err := s.companions.List(ctx)
	if err != nil {
		return match.Result{}, fmt.Errorf("service.MatchService.ForItinerary: %w", err)
	}

	subject := match.Subject{
		Destination: it.Destination,
		Window:      it.Window,
		Style:       it.Style,
		Interests:   it.Interests,
	}

	candidates := make([]match.Candidate, 0, len(requests))
	for _, cr := range requests {
		candidates = append(candidates, match.Candidate{
			ID:          cr.ID,
			Kind:        domain.MatchCompanionRequest,
			Destination: cr.Destination,
			Window:      cr.Window,
			Style:       cr.Style,
			Interests:   cr.Interests,
			// Seats remaining on the itinerary itself, carried on each match.
			SeatsRemaining: seats,
		})
	}

	return match.Rank(subject, candidates, p), nil
}
