package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campustrail/marketplace/internal/domain"
	"github.com/campustrail/marketplace/internal/service"
)

func TestExportService_Export(t *testing.T) {
	owner := uuid.New()
	rented := gearFixture(owner)
	idle := gearFixture(owner)
	idle.Title = "climbing rope"

	rental := rentalFixture(rented.ID, uuid.New())
	rental.Status = domain.RentalCompleted
	picked := oct(10, 9)
	rental.PickupConfirmedAt = &picked

	gearRepo := &mockGearRepo{
		listByOwner: func(_ context.Context, id uuid.UUID) ([]domain.GearItem, error) {
			assert.Equal(t, owner, id)
			return []domain.GearItem{rented, idle}, nil
		},
	}
	rentalRepo := &mockRentalRepo{
		listByGear: func(_ context.Context, gearItemID uuid.UUID) ([]domain.Rental, error) {
			if gearItemID == rented.ID {
				return []domain.Rental{rental}, nil
			}
			return nil, nil
		},
	}
	svc := service.NewExportService(gearRepo, rentalRepo)

	rows, err := svc.Export(context.Background(), owner)

	require.NoError(t, err)
	require.Len(t, rows, 2)

	// Item with a rental: full row.
	assert.Equal(t, rented.ID.String(), rows[0].GearItemID)
	assert.Equal(t, rental.ID.String(), rows[0].RentalID)
	assert.Equal(t, rental.Window.Start.Format(time.RFC3339), rows[0].StartDate)
	assert.Equal(t, string(domain.RentalCompleted), rows[0].Status)
	require.NotNil(t, rows[0].PickedUpAt)
	assert.Nil(t, rows[0].ReturnedAt)

	// Item without rentals: gear columns only, rental columns zero.
	assert.Equal(t, idle.ID.String(), rows[1].GearItemID)
	assert.Equal(t, "climbing rope", rows[1].GearTitle)
	assert.Empty(t, rows[1].RentalID)
	assert.Empty(t, rows[1].StartDate)
}

func TestExportService_Export_NoGear(t *testing.T) {
	gearRepo := &mockGearRepo{
		listByOwner: func(_ context.Context, _ uuid.UUID) ([]domain.GearItem, error) { return nil, nil },
	}
	svc := service.NewExportService(gearRepo, &mockRentalRepo{})

	rows, err := svc.Export(context.Background(), uuid.New())

	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}
