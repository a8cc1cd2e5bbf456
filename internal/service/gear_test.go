package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campustrail/marketplace/internal/domain"
	"github.com/campustrail/marketplace/internal/service"
)

// echoGearRepo echoes whatever Create receives — useful for validation tests
// that only care about the service's own logic.
func echoGearRepo() *mockGearRepo {
	return &mockGearRepo{
		create: func(_ context.Context, g domain.GearItem) (domain.GearItem, error) { return g, nil },
	}
}

func newGearInput() domain.GearItem {
	return domain.GearItem{
		OwnerID:       uuid.New(),
		Title:         "4-season tent",
		DailyRate:     150,
		DepositAmount: 1000,
	}
}

func TestGearService_Create_Valid(t *testing.T) {
	svc := service.NewGearService(echoGearRepo())

	got, err := svc.Create(context.Background(), newGearInput())

	require.NoError(t, err)
	assert.Equal(t, "4-season tent", got.Title)
	// New listings always start as drafts, whatever the caller sent.
	assert.Equal(t, domain.GearDraft, got.Status)
}

func TestGearService_Create_ForcesDraftStatus(t *testing.T) {
	svc := service.NewGearService(echoGearRepo())

	gear := newGearInput()
	gear.Status = domain.GearPublished

	got, err := svc.Create(context.Background(), gear)

	require.NoError(t, err)
	assert.Equal(t, domain.GearDraft, got.Status)
}

func TestGearService_Create_MissingTitle(t *testing.T) {
	svc := service.NewGearService(echoGearRepo())

	gear := newGearInput()
	gear.Title = "   " // whitespace-only should be treated as empty

	_, err := svc.Create(context.Background(), gear)

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestGearService_Create_NegativeRate(t *testing.T) {
	svc := service.NewGearService(echoGearRepo())

	gear := newGearInput()
	gear.DailyRate = -1

	_, err := svc.Create(context.Background(), gear)

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestGearService_Create_NegativeBufferOverride(t *testing.T) {
	svc := service.NewGearService(echoGearRepo())

	gear := newGearInput()
	bad := -5
	gear.BufferHours = &bad

	_, err := svc.Create(context.Background(), gear)

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestGearService_Publish_ByOwner(t *testing.T) {
	owner := uuid.New()
	gear := gearFixture(owner)
	gear.Status = domain.GearDraft

	r := gearRepoReturning(gear)
	r.updateStatus = func(_ context.Context, _ uuid.UUID, status domain.GearStatus) (domain.GearItem, error) {
		updated := gear
		updated.Status = status
		return updated, nil
	}
	svc := service.NewGearService(r)

	got, err := svc.Publish(context.Background(), owner, gear.ID)

	require.NoError(t, err)
	assert.Equal(t, domain.GearPublished, got.Status)
}

func TestGearService_Publish_NonOwnerForbidden(t *testing.T) {
	gear := gearFixture(uuid.New())
	svc := service.NewGearService(gearRepoReturning(gear))

	_, err := svc.Publish(context.Background(), uuid.New(), gear.ID)

	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestGearService_Publish_ArchivedStaysArchived(t *testing.T) {
	owner := uuid.New()
	gear := gearFixture(owner)
	gear.Status = domain.GearArchived
	svc := service.NewGearService(gearRepoReturning(gear))

	_, err := svc.Publish(context.Background(), owner, gear.ID)

	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestGearService_Archive_ByOwner(t *testing.T) {
	owner := uuid.New()
	gear := gearFixture(owner)

	r := gearRepoReturning(gear)
	r.updateStatus = func(_ context.Context, _ uuid.UUID, status domain.GearStatus) (domain.GearItem, error) {
		updated := gear
		updated.Status = status
		return updated, nil
	}
	svc := service.NewGearService(r)

	got, err := svc.Archive(context.Background(), owner, gear.ID)

	require.NoError(t, err)
	assert.Equal(t, domain.GearArchived, got.Status)
}

func TestGearService_ListByOwner_NilBecomesEmpty(t *testing.T) {
	r := &mockGearRepo{
		listByOwner: func(_ context.Context, _ uuid.UUID) ([]domain.GearItem, error) { return nil, nil },
	}
	svc := service.NewGearService(r)

	got, err := svc.ListByOwner(context.Background(), uuid.New())

	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestGearService_GetByID_NotFound(t *testing.T) {
	r := &mockGearRepo{
		getByID: func(_ context.Context, _ uuid.UUID) (domain.GearItem, error) {
			return domain.GearItem{}, domain.ErrNotFound
		},
	}
	svc := service.NewGearService(r)

	_, err := svc.GetByID(context.Background(), uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}
