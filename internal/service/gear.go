package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/campustrail/marketplace/internal/domain"
	"github.com/campustrail/marketplace/internal/repo"
)

// GearService implements business logic for gear listings.
type GearService struct {
	gear repo.GearRepo
}

// NewGearService constructs a GearService backed by the provided GearRepo.
func NewGearService(gear repo.GearRepo) *GearService {
	return &GearService{gear: gear}
}

// Create validates and persists a new gear listing in DRAFT status.
// Returns domain.ErrValidation if input violates business rules.
func (s *GearService) Create(ctx context.Context, gear domain.GearItem) (domain.GearItem, error) {
	if err := validateGear(gear); err != nil {
		return domain.GearItem{}, err
	}
	gear.Status = domain.GearDraft
	result, err := s.gear.Create(ctx, gear)
	if err != nil {
		return domain.GearItem{}, fmt.Errorf("service.GearService.Create: %w", err)
	}
	return result, nil
}

// GetByID returns a single gear item by ID.
func (s *GearService) GetByID(ctx context.Context, id uuid.UUID) (domain.GearItem, error) {
	result, err := s.gear.GetByID(ctx, id)
	if err != nil {
		return domain.GearItem{}, fmt.Errorf("service.GearService.GetByID: %w", err)
	}
	return result, nil
}

// ListByOwner returns all gear items owned by ownerID, newest first.
// Always returns a non-nil slice so callers can safely range over it.
func (s *GearService) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.GearItem, error) {
	items, err := s.gear.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("service.GearService.ListByOwner: %w", err)
	}
	if items == nil {
		return []domain.GearItem{}, nil
	}
	return items, nil
}

// Publish makes a gear listing visible to renters. Only the owner may
// publish, and an archived item stays archived.
func (s *GearService) Publish(ctx context.Context, actorID, gearItemID uuid.UUID) (domain.GearItem, error) {
	gear, err := s.gear.GetByID(ctx, gearItemID)
	if err != nil {
		return domain.GearItem{}, fmt.Errorf("service.GearService.Publish: %w", err)
	}
	if gear.OwnerID != actorID {
		return domain.GearItem{}, fmt.Errorf("service.GearService.Publish: %w", domain.ErrForbidden)
	}
	if gear.Status == domain.GearArchived {
		return domain.GearItem{}, fmt.Errorf("service.GearService.Publish: %w: item is archived", domain.ErrInvalidState)
	}
	result, err := s.gear.UpdateStatus(ctx, gearItemID, domain.GearPublished)
	if err != nil {
		return domain.GearItem{}, fmt.Errorf("service.GearService.Publish: %w", err)
	}
	return result, nil
}

// Archive retires a gear listing. Only the owner may archive.
func (s *GearService) Archive(ctx context.Context, actorID, gearItemID uuid.UUID) (domain.GearItem, error) {
	gear, err := s.gear.GetByID(ctx, gearItemID)
	if err != nil {
		return domain.GearItem{}, fmt.Errorf("service.GearService.Archive: %w", err)
	}
	if gear.OwnerID != actorID {
		return domain.GearItem{}, fmt.Errorf("service.GearService.Archive: %w", domain.ErrForbidden)
	}
	result, err := s.gear.UpdateStatus(ctx, gearItemID, domain.GearArchived)
	if err != nil {
		return domain.GearItem{}, fmt.Errorf("service.GearService.Archive: %w", err)
	}
	return result, nil
}

// validateGear enforces business rules for new listings.
//   - Title must be non-empty (whitespace-only titles are rejected).
//   - DailyRate and DepositAmount must not be negative.
//   - BufferHours, if set, must not be negative.
func validateGear(gear domain.GearItem) error {
	if strings.TrimSpace(gear.Title) == "" {
		return fmt.Errorf("%w: title is required", domain.ErrValidation)
	}
	if gear.DailyRate < 0 {
		return fmt.Errorf("%w: daily_rate must not be negative", domain.ErrValidation)
	}
	if gear.DepositAmount < 0 {
		return fmt.Errorf("%w: deposit_amount must not be negative", domain.ErrValidation)
	}
	if gear.BufferHours != nil && *gear.BufferHours < 0 {
		return fmt.Errorf("%w: buffer_hours must not be negative", domain.ErrValidation)
	}
	return nil
}
