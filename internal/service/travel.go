package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/campustrail/marketplace/internal/domain"
	"github.com/campustrail/marketplace/internal/repo"
)

// TravelService implements business logic for itineraries and companion
// requests, the two sides of the companion-matching engine.
type TravelService struct {
	itineraries repo.ItineraryRepo
	companions  repo.CompanionRequestRepo
}

// NewTravelService constructs a TravelService backed by the provided repos.
func NewTravelService(itineraries repo.ItineraryRepo, companions repo.CompanionRequestRepo) *TravelService {
	return &TravelService{itineraries: itineraries, companions: companions}
}

// CreateItinerary validates and persists a new itinerary. The creator is
// recorded as an approved host, so a fresh itinerary already counts one seat
// as taken.
func (s *TravelService) CreateItinerary(ctx context.Context, it domain.Itinerary) (domain.Itinerary, error) {
	if strings.TrimSpace(it.Title) == "" {
		return domain.Itinerary{}, fmt.Errorf("%w: title is required", domain.ErrValidation)
	}
	if strings.TrimSpace(it.Destination) == "" {
		return domain.Itinerary{}, fmt.Errorf("%w: destination is required", domain.ErrValidation)
	}
	if it.MaxPeople < 1 {
		return domain.Itinerary{}, fmt.Errorf("%w: max_people must be at least 1", domain.ErrValidation)
	}
	if it.Window.End.Before(it.Window.Start) {
		return domain.Itinerary{}, fmt.Errorf("%w: end_date must not precede start_date", domain.ErrValidation)
	}
	result, err := s.itineraries.Create(ctx, it)
	if err != nil {
		return domain.Itinerary{}, fmt.Errorf("service.TravelService.CreateItinerary: %w", err)
	}
	return result, nil
}

// GetItinerary returns a single itinerary by ID.
func (s *TravelService) GetItinerary(ctx context.Context, id uuid.UUID) (domain.Itinerary, error) {
	result, err := s.itineraries.GetByID(ctx, id)
	if err != nil {
		return domain.Itinerary{}, fmt.Errorf("service.TravelService.GetItinerary: %w", err)
	}
	return result, nil
}

// ListItineraries returns all itineraries ordered by start date.
// Always returns a non-nil slice.
func (s *TravelService) ListItineraries(ctx context.Context) ([]domain.Itinerary, error) {
	items, err := s.itineraries.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.TravelService.ListItineraries: %w", err)
	}
	if items == nil {
		return []domain.Itinerary{}, nil
	}
	return items, nil
}

// RequestJoin files a PENDING join request for an itinerary. A user gets one
// join row per itinerary; a second request in any status is rejected, and the
// creator's own HOST row means creators can never request to join their own
// trip.
func (s *TravelService) RequestJoin(ctx context.Context, actorID, itineraryID uuid.UUID, message string) (domain.ItineraryJoin, error) {
	if _, err := s.itineraries.GetByID(ctx, itineraryID); err != nil {
		return domain.ItineraryJoin{}, fmt.Errorf("service.TravelService.RequestJoin: %w", err)
	}

	_, err := s.itineraries.GetJoinByUser(ctx, itineraryID, actorID)
	switch {
	case err == nil:
		return domain.ItineraryJoin{}, fmt.Errorf("service.TravelService.RequestJoin: %w: already requested or joined", domain.ErrValidation)
	case !errors.Is(err, domain.ErrNotFound):
		return domain.ItineraryJoin{}, fmt.Errorf("service.TravelService.RequestJoin: %w", err)
	}

	join, err := s.itineraries.CreateJoin(ctx, itineraryID, actorID, message)
	if err != nil {
		return domain.ItineraryJoin{}, fmt.Errorf("service.TravelService.RequestJoin: %w", err)
	}
	return join, nil
}

// ApproveJoin moves a PENDING join to APPROVED, taking one of the itinerary's
// seats. Only the itinerary's creator may approve.
func (s *TravelService) ApproveJoin(ctx context.Context, actorID, joinID uuid.UUID) (domain.ItineraryJoin, error) {
	join, it, err := s.joinWithItinerary(ctx, joinID)
	if err != nil {
		return domain.ItineraryJoin{}, fmt.Errorf("service.TravelService.ApproveJoin: %w", err)
	}
	if it.CreatorID != actorID {
		return domain.ItineraryJoin{}, fmt.Errorf("service.TravelService.ApproveJoin: %w", domain.ErrForbidden)
	}
	if join.Status != domain.JoinPending {
		return domain.ItineraryJoin{}, fmt.Errorf("service.TravelService.ApproveJoin: %w: join is %s, not PENDING", domain.ErrInvalidState, join.Status)
	}

	approved, err := s.itineraries.UpdateJoinStatus(ctx, joinID, domain.JoinApproved)
	if err != nil {
		return domain.ItineraryJoin{}, fmt.Errorf("service.TravelService.ApproveJoin: %w", err)
	}
	return approved, nil
}

// RejectJoin moves a not-yet-finalized join to REJECTED. Only the itinerary's
// creator may reject; APPROVED and REJECTED joins are final.
func (s *TravelService) RejectJoin(ctx context.Context, actorID, joinID uuid.UUID) (domain.ItineraryJoin, error) {
	join, it, err := s.joinWithItinerary(ctx, joinID)
	if err != nil {
		return domain.ItineraryJoin{}, fmt.Errorf("service.TravelService.RejectJoin: %w", err)
	}
	if it.CreatorID != actorID {
		return domain.ItineraryJoin{}, fmt.Errorf("service.TravelService.RejectJoin: %w", domain.ErrForbidden)
	}
	if join.Status != domain.JoinPending {
		return domain.ItineraryJoin{}, fmt.Errorf("service.TravelService.RejectJoin: %w: join is already %s", domain.ErrInvalidState, join.Status)
	}

	rejected, err := s.itineraries.UpdateJoinStatus(ctx, joinID, domain.JoinRejected)
	if err != nil {
		return domain.ItineraryJoin{}, fmt.Errorf("service.TravelService.RejectJoin: %w", err)
	}
	return rejected, nil
}

// joinWithItinerary loads a join together with the itinerary it belongs to.
func (s *TravelService) joinWithItinerary(ctx context.Context, joinID uuid.UUID) (domain.ItineraryJoin, domain.Itinerary, error) {
	join, err := s.itineraries.GetJoin(ctx, joinID)
	if err != nil {
		return domain.ItineraryJoin{}, domain.Itinerary{}, err
	}
	it, err := s.itineraries.GetByID(ctx, join.ItineraryID)
	if err != nil {
		return domain.ItineraryJoin{}, domain.Itinerary{}, err
	}
	return join, it, nil
}

// AddItineraryInterests merges new interest tags into an itinerary; a
// non-empty style replaces the stored one. Only the creator may edit.
func (s *TravelService) AddItineraryInterests(ctx context.Context, actorID, itineraryID uuid.UUID, style string, interests []string) (domain.Itinerary, error) {
	if len(interests) == 0 && strings.TrimSpace(style) == "" {
		return domain.Itinerary{}, fmt.Errorf("%w: interests or travel_style required", domain.ErrValidation)
	}
	it, err := s.itineraries.GetByID(ctx, itineraryID)
	if err != nil {
		return domain.Itinerary{}, fmt.Errorf("service.TravelService.AddItineraryInterests: %w", err)
	}
	if it.CreatorID != actorID {
		return domain.Itinerary{}, fmt.Errorf("service.TravelService.AddItineraryInterests: %w", domain.ErrForbidden)
	}

	updated, err := s.itineraries.AddInterests(ctx, itineraryID, strings.TrimSpace(style), interests)
	if err != nil {
		return domain.Itinerary{}, fmt.Errorf("service.TravelService.AddItineraryInterests: %w", err)
	}
	return updated, nil
}

// AddCompanionRequestInterests merges new interest tags into a companion
// request; a non-empty style replaces the stored one. Only the owner may edit.
func (s *TravelService) AddCompanionRequestInterests(ctx context.Context, actorID, requestID uuid.UUID, style string, interests []string) (domain.CompanionRequest, error) {
	if len(interests) == 0 && strings.TrimSpace(style) == "" {
		return domain.CompanionRequest{}, fmt.Errorf("%w: interests or travel_style required", domain.ErrValidation)
	}
	cr, err := s.companions.GetByID(ctx, requestID)
	if err != nil {
		return domain.CompanionRequest{}, fmt.Errorf("service.TravelService.AddCompanionRequestInterests: %w", err)
	}
	if cr.UserID != actorID {
		return domain.CompanionRequest{}, fmt.Errorf("service.TravelService.AddCompanionRequestInterests: %w", domain.ErrForbidden)
	}

	updated, err := s.companions.AddInterests(ctx, requestID, strings.TrimSpace(style), interests)
	if err != nil {
		return domain.CompanionRequest{}, fmt.Errorf("service.TravelService.AddCompanionRequestInterests: %w", err)
	}
	return updated, nil
}

// CreateCompanionRequest validates and persists a new companion request.
func (s *TravelService) CreateCompanionRequest(ctx context.Context, cr domain.CompanionRequest) (domain.CompanionRequest, error) {
	if strings.TrimSpace(cr.Destination) == "" {
		return domain.CompanionRequest{}, fmt.Errorf("%w: destination is required", domain.ErrValidation)
	}
	if cr.Window.End.Before(cr.Window.Start) {
		return domain.CompanionRequest{}, fmt.Errorf("%w: end_date must not precede start_date", domain.ErrValidation)
	}
	result, err := s.companions.Create(ctx, cr)
	if err != nil {
		return domain.CompanionRequest{}, fmt.Errorf("service.TravelService.CreateCompanionRequest: %w", err)
	}
	return result, nil
}

// GetCompanionRequest returns a single companion request by ID.
func (s *TravelService) GetCompanionRequest(ctx context.Context, id uuid.UUID) (domain.CompanionRequest, error) {
	result, err := s.companions.GetByID(ctx, id)
	if err != nil {
		return domain.CompanionRequest{}, fmt.Errorf("service.TravelService.GetCompanionRequest: %w", err)
	}
	return result, nil
}

// ListCompanionRequests returns all companion requests ordered by start date.
// Always returns a non-nil slice.
func (s *TravelService) ListCompanionRequests(ctx context.Context) ([]domain.CompanionRequest, error) {
	items, err := s.companions.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.TravelService.ListCompanionRequests: %w", err)
	}
	if items == nil {
		return []domain.CompanionRequest{}, nil
	}
	return items, nil
}
