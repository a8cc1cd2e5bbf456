// Package service contains the business logic for the marketplace API.
// Services validate inputs, enforce business rules, and orchestrate repo calls.
// No SQL lives here — services depend on repo interfaces, not implementations.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/campustrail/marketplace/internal/availability"
	"github.com/campustrail/marketplace/internal/domain"
	"github.com/campustrail/marketplace/internal/repo"
)

// RentalService implements availability checks and the rental booking
// lifecycle. It holds both gear and rental repos because every rental
// operation needs the parent gear item for buffer and ownership rules.
type RentalService struct {
	gear    repo.GearRepo
	rentals repo.RentalRepo

	// bufferHours is the process-wide default handoff buffer, overridable
	// per gear item.
	bufferHours int

	// now is swappable in tests.
	now func() time.Time
}

// NewRentalService constructs a RentalService backed by the provided repos.
// defaultBufferHours is the buffer applied to items without a per-item override.
func NewRentalService(gear repo.GearRepo, rentals repo.RentalRepo, defaultBufferHours int) *RentalService {
	return &RentalService{
		gear:        gear,
		rentals:     rentals,
		bufferHours: defaultBufferHours,
		now:         time.Now,
	}
}

// CheckAvailability reports whether the gear item can be rented over the
// requested window. A nil window asks the open-ended "available going forward"
// question. Returns domain.ErrNotFound if the gear item does not exist.
func (s *RentalService) CheckAvailability(ctx context.Context, gearItemID uuid.UUID, window *domain.TimeWindow, mode domain.RentalMode) (availability.Result, error) {
	gear, err := s.gear.GetByID(ctx, gearItemID)
	if err != nil {
		return availability.Result{}, fmt.Errorf("service.RentalService.CheckAvailability: %w", err)
	}
	active, err := s.rentals.ListActiveByGear(ctx, gearItemID)
	if err != nil {
		return availability.Result{}, fmt.Errorf("service.RentalService.CheckAvailability: %w", err)
	}
	return availability.Check(gear, window, mode, active, s.now(), s.bufferHours), nil
}

// GearAvailability pairs a gear item with its availability over a query window.
type GearAvailability struct {
	Gear         domain.GearItem     `json:"gear"`
	Availability availability.Result `json:"availability"`
}

// ListGearWithAvailability returns every gear item annotated with its
// availability over the optional requested window.
func (s *RentalService) ListGearWithAvailability(ctx context.Context, window *domain.TimeWindow, mode domain.RentalMode) ([]GearAvailability, error) {
	items, err := s.gear.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.RentalService.ListGearWithAvailability: %w", err)
	}

	now := s.now()
	out := make([]GearAvailability, 0, len(items))
	for _, g := range items {
		active, err := s.rentals.ListActiveByGear(ctx, g.ID)
		if err != nil {
			return nil, fmt.Errorf("service.RentalService.ListGearWithAvailability: %w", err)
		}
		out = append(out, GearAvailability{
			Gear:         g,
			Availability: availability.Check(g, window, mode, active, now, s.bufferHours),
		})
	}
	return out, nil
}

// CreateRental books the gear item for the renter over the requested window.
//
// The window is normalized per mode and the conflict scan runs inside the
// repo's serialized check-then-create, so two overlapping requests for the
// same item can never both succeed. Returns domain.ErrSelfBooking when the
// renter owns the gear, a *domain.ConflictError when an active rental's
// buffered window overlaps, and domain.ErrNotFound for unknown gear.
func (s *RentalService) CreateRental(ctx context.Context, gearItemID, renterID uuid.UUID, window domain.TimeWindow, mode domain.RentalMode) (domain.Rental, error) {
	if window.Start.After(window.End) {
		return domain.Rental{}, fmt.Errorf("service.RentalService.CreateRental: %w: start must not be after end", domain.ErrValidation)
	}

	gear, err := s.gear.GetByID(ctx, gearItemID)
	if err != nil {
		return domain.Rental{}, fmt.Errorf("service.RentalService.CreateRental: %w", err)
	}
	if gear.OwnerID == renterID {
		return domain.Rental{}, fmt.Errorf("service.RentalService.CreateRental: %w", domain.ErrSelfBooking)
	}

	buffer := gear.EffectiveBuffer(s.bufferHours)
	normalized := window.Normalize(mode)

	rental := domain.Rental{
		GearItemID:    gearItemID,
		RenterID:      renterID,
		Window:        normalized,
		Mode:          mode,
		Status:        domain.RentalRequested,
		DepositStatus: domain.DepositPending,
		DepositHeld:   gear.DepositAmount,
	}

	created, err := s.rentals.CreateIfAvailable(ctx, rental, func(active []domain.Rental) error {
		for _, existing := range active {
			if !existing.IsActive() {
				continue
			}
			if domain.Overlaps(normalized, 0, existing.NormalizedWindow(), buffer) {
				return &domain.ConflictError{
					RentalID:    existing.ID,
					Window:      existing.Window,
					Mode:        existing.Mode,
					BufferHours: buffer,
				}
			}
		}
		return nil
	})
	if err != nil {
		return domain.Rental{}, fmt.Errorf("service.RentalService.CreateRental: %w", err)
	}
	return created, nil
}

// Approve moves a REQUESTED rental to APPROVED. Only the gear owner may approve.
func (s *RentalService) Approve(ctx context.Context, actorID, rentalID uuid.UUID) (domain.Rental, error) {
	return s.transition(ctx, "Approve", actorID, rentalID, domain.RentalApproved,
		ownerOnly, domain.RentalRequested)
}

// Pickup moves a rental to IN_PROGRESS and stamps the pickup time.
// Either party may confirm pickup; renters may pick up straight from
// REQUESTED when the owner hands over without a formal approval.
func (s *RentalService) Pickup(ctx context.Context, actorID, rentalID uuid.UUID) (domain.Rental, error) {
	return s.transition(ctx, "Pickup", actorID, rentalID, domain.RentalInProgress,
		ownerOrRenter, domain.RentalRequested, domain.RentalApproved)
}

// Return moves an IN_PROGRESS rental to COMPLETED and stamps the return time.
func (s *RentalService) Return(ctx context.Context, actorID, rentalID uuid.UUID) (domain.Rental, error) {
	return s.transition(ctx, "Return", actorID, rentalID, domain.RentalCompleted,
		ownerOrRenter, domain.RentalInProgress)
}

// Cancel moves any pre-COMPLETED rental to CANCELLED, freeing its window.
func (s *RentalService) Cancel(ctx context.Context, actorID, rentalID uuid.UUID) (domain.Rental, error) {
	return s.transition(ctx, "Cancel", actorID, rentalID, domain.RentalCancelled,
		ownerOrRenter, domain.RentalRequested, domain.RentalApproved, domain.RentalInProgress)
}

// authRule decides whether the actor may operate on the rental.
type authRule func(gear domain.GearItem, rental domain.Rental, actorID uuid.UUID) bool

func ownerOnly(gear domain.GearItem, _ domain.Rental, actorID uuid.UUID) bool {
	return gear.OwnerID == actorID
}

func renterOnly(_ domain.GearItem, rental domain.Rental, actorID uuid.UUID) bool {
	return rental.RenterID == actorID
}

func ownerOrRenter(gear domain.GearItem, rental domain.Rental, actorID uuid.UUID) bool {
	return gear.OwnerID == actorID || rental.RenterID == actorID
}

// transition loads the rental and its gear, checks authorization and the
// allowed source states, then persists the new status.
func (s *RentalService) transition(ctx context.Context, op string, actorID, rentalID uuid.UUID, to domain.RentalStatus, allowed authRule, from ...domain.RentalStatus) (domain.Rental, error) {
	rental, gear, err := s.load(ctx, op, rentalID)
	if err != nil {
		return domain.Rental{}, err
	}
	if !allowed(gear, rental, actorID) {
		return domain.Rental{}, fmt.Errorf("service.RentalService.%s: %w", op, domain.ErrForbidden)
	}
	if !statusIn(rental.Status, from) {
		return domain.Rental{}, fmt.Errorf("service.RentalService.%s: %w: rental is %s", op, domain.ErrInvalidState, rental.Status)
	}
	updated, err := s.rentals.UpdateStatus(ctx, rentalID, to)
	if err != nil {
		return domain.Rental{}, fmt.Errorf("service.RentalService.%s: %w", op, err)
	}
	return updated, nil
}

// HoldDeposit moves the deposit from PENDING to HELD at the gear item's
// current deposit amount. Only the renter may hold their own deposit.
func (s *RentalService) HoldDeposit(ctx context.Context, actorID, rentalID uuid.UUID) (domain.Rental, error) {
	rental, gear, err := s.load(ctx, "HoldDeposit", rentalID)
	if err != nil {
		return domain.Rental{}, err
	}
	if !renterOnly(gear, rental, actorID) {
		return domain.Rental{}, fmt.Errorf("service.RentalService.HoldDeposit: %w", domain.ErrForbidden)
	}
	if rental.DepositStatus != domain.DepositPending {
		return domain.Rental{}, fmt.Errorf("service.RentalService.HoldDeposit: %w: deposit is %s", domain.ErrInvalidState, rental.DepositStatus)
	}
	updated, err := s.rentals.UpdateDeposit(ctx, rentalID, domain.DepositHeld, gear.DepositAmount)
	if err != nil {
		return domain.Rental{}, fmt.Errorf("service.RentalService.HoldDeposit: %w", err)
	}
	return updated, nil
}

// CaptureDeposit moves a HELD deposit to CAPTURED (e.g. after damage).
// Only the gear owner may capture.
func (s *RentalService) CaptureDeposit(ctx context.Context, actorID, rentalID uuid.UUID) (domain.Rental, error) {
	rental, gear, err := s.load(ctx, "CaptureDeposit", rentalID)
	if err != nil {
		return domain.Rental{}, err
	}
	if !ownerOnly(gear, rental, actorID) {
		return domain.Rental{}, fmt.Errorf("service.RentalService.CaptureDeposit: %w", domain.ErrForbidden)
	}
	if rental.DepositStatus != domain.DepositHeld {
		return domain.Rental{}, fmt.Errorf("service.RentalService.CaptureDeposit: %w: deposit is %s", domain.ErrInvalidState, rental.DepositStatus)
	}
	updated, err := s.rentals.UpdateDeposit(ctx, rentalID, domain.DepositCaptured, rental.DepositHeld)
	if err != nil {
		return domain.Rental{}, fmt.Errorf("service.RentalService.CaptureDeposit: %w", err)
	}
	return updated, nil
}

// ReleaseDeposit returns the deposit to the renter. Either party may release;
// valid from PENDING, HELD, or CAPTURED.
func (s *RentalService) ReleaseDeposit(ctx context.Context, actorID, rentalID uuid.UUID) (domain.Rental, error) {
	rental, gear, err := s.load(ctx, "ReleaseDeposit", rentalID)
	if err != nil {
		return domain.Rental{}, err
	}
	if !ownerOrRenter(gear, rental, actorID) {
		return domain.Rental{}, fmt.Errorf("service.RentalService.ReleaseDeposit: %w", domain.ErrForbidden)
	}
	switch rental.DepositStatus {
	case domain.DepositPending, domain.DepositHeld, domain.DepositCaptured:
	default:
		return domain.Rental{}, fmt.Errorf("service.RentalService.ReleaseDeposit: %w: deposit is %s", domain.ErrInvalidState, rental.DepositStatus)
	}
	updated, err := s.rentals.UpdateDeposit(ctx, rentalID, domain.DepositReleased, rental.DepositHeld)
	if err != nil {
		return domain.Rental{}, fmt.Errorf("service.RentalService.ReleaseDeposit: %w", err)
	}
	return updated, nil
}

// ListForGear returns all rentals for a gear item, newest first.
// Only the owner may view an item's rental history.
func (s *RentalService) ListForGear(ctx context.Context, actorID, gearItemID uuid.UUID) ([]domain.Rental, error) {
	gear, err := s.gear.GetByID(ctx, gearItemID)
	if err != nil {
		return nil, fmt.Errorf("service.RentalService.ListForGear: %w", err)
	}
	if gear.OwnerID != actorID {
		return nil, fmt.Errorf("service.RentalService.ListForGear: %w", domain.ErrForbidden)
	}
	rentals, err := s.rentals.ListByGear(ctx, gearItemID)
	if err != nil {
		return nil, fmt.Errorf("service.RentalService.ListForGear: %w", err)
	}
	if rentals == nil {
		return []domain.Rental{}, nil
	}
	return rentals, nil
}

// ListForRenter returns the renter's own rentals, newest first.
// Always returns a non-nil slice so callers can safely range over it.
func (s *RentalService) ListForRenter(ctx context.Context, renterID uuid.UUID) ([]domain.Rental, error) {
	rentals, err := s.rentals.ListByRenter(ctx, renterID)
	if err != nil {
		return nil, fmt.Errorf("service.RentalService.ListForRenter: %w", err)
	}
	if rentals == nil {
		return []domain.Rental{}, nil
	}
	return rentals, nil
}

// load fetches a rental and its parent gear item.
func (s *RentalService) load(ctx context.Context, op string, rentalID uuid.UUID) (domain.Rental, domain.GearItem, error) {
	rental, err := s.rentals.GetByID(ctx, rentalID)
	if err != nil {
		return domain.Rental{}, domain.GearItem{}, fmt.Errorf("service.RentalService.%s: %w", op, err)
	}
	gear, err := s.gear.GetByID(ctx, rental.GearItemID)
	if err != nil {
		return domain.Rental{}, domain.GearItem{}, fmt.Errorf("service.RentalService.%s: %w", op, err)
	}
	return rental, gear, nil
}

func statusIn(s domain.RentalStatus, allowed []domain.RentalStatus) bool {
	for _, a := range allowed {
		if s == a {
			return true
		}
	}
	return false
}
