package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/campustrail/marketplace/internal/domain"
	"github.com/campustrail/marketplace/internal/repo"
)

// ExportService assembles a flat export of an owner's gear and rental history.
type ExportService struct {
	gear    repo.GearRepo
	rentals repo.RentalRepo
}

// NewExportService constructs an ExportService backed by the provided repos.
func NewExportService(gear repo.GearRepo, rentals repo.RentalRepo) *ExportService {
	return &ExportService{gear: gear, rentals: rentals}
}

// Export returns one RentalExportRow per rental across all of the owner's
// gear. Items with no rentals contribute one row with empty rental fields.
// The scope is the owner's own data, so no further authorization applies.
func (s *ExportService) Export(ctx context.Context, ownerID uuid.UUID) ([]domain.RentalExportRow, error) {
	items, err := s.gear.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("service.ExportService.Export: %w", err)
	}

	rows := []domain.RentalExportRow{}
	for _, g := range items {
		rentals, err := s.rentals.ListByGear(ctx, g.ID)
		if err != nil {
			return nil, fmt.Errorf("service.ExportService.Export: %w", err)
		}
		if len(rentals) == 0 {
			rows = append(rows, domain.RentalExportRow{
				GearItemID: g.ID.String(),
				GearTitle:  g.Title,
				GearStatus: string(g.Status),
			})
			continue
		}
		for _, r := range rentals {
			rows = append(rows, domain.RentalExportRow{
				GearItemID:    g.ID.String(),
				GearTitle:     g.Title,
				GearStatus:    string(g.Status),
				RentalID:      r.ID.String(),
				RenterID:      r.RenterID.String(),
				StartDate:     r.Window.Start.Format(time.RFC3339),
				EndDate:       r.Window.End.Format(time.RFC3339),
				RentalMode:    string(r.Mode),
				Status:        string(r.Status),
				DepositStatus: string(r.DepositStatus),
				DepositHeld:   r.DepositHeld,
				PickedUpAt:    r.PickupConfirmedAt,
				ReturnedAt:    r.ReturnConfirmedAt,
			})
		}
	}
	return rows, nil
}
