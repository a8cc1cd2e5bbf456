package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campustrail/marketplace/internal/availability"
	"github.com/campustrail/marketplace/internal/domain"
	"github.com/campustrail/marketplace/internal/handler"
)

func rentalFixture() domain.Rental {
	return domain.Rental{
		ID:         uuid.New(),
		GearItemID: uuid.New(),
		RenterID:   uuid.New(),
		Window: domain.TimeWindow{
			Start: time.Date(2025, 10, 10, 0, 0, 0, 0, time.UTC),
			End:   time.Date(2025, 10, 12, 23, 59, 59, 999e6, time.UTC),
		},
		Mode:          domain.ModeDay,
		Status:        domain.RentalRequested,
		DepositStatus: domain.DepositPending,
	}
}

// ---- GET /gear/{id}/availability --------------------------------------------

func TestGetAvailability_200_Windowed(t *testing.T) {
	gearID := uuid.New()
	svc := &mockRentalServicer{
		checkAvailability: func(_ context.Context, id uuid.UUID, window *domain.TimeWindow, mode domain.RentalMode) (availability.Result, error) {
			assert.Equal(t, gearID, id)
			require.NotNil(t, window)
			assert.Equal(t, time.Date(2025, 10, 10, 0, 0, 0, 0, time.UTC), window.Start)
			assert.Equal(t, domain.ModePartial, mode)
			return availability.Result{GearItemID: id, IsAvailable: true, SeatsRemaining: 1}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet,
		"/gear/"+gearID.String()+"/availability?from=2025-10-10&to=2025-10-12&mode=partial", nil)
	rec := httptest.NewRecorder()

	newTestHandler(serverDeps{rentals: svc}).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeJSON[availability.Result](t, rec.Body)
	assert.True(t, resp.IsAvailable)
}

func TestGetAvailability_200_OpenEnded(t *testing.T) {
	svc := &mockRentalServicer{
		checkAvailability: func(_ context.Context, _ uuid.UUID, window *domain.TimeWindow, _ domain.RentalMode) (availability.Result, error) {
			// No query window means the open-ended question.
			assert.Nil(t, window)
			return availability.Result{IsAvailable: true}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/gear/"+uuid.NewString()+"/availability", nil)
	rec := httptest.NewRecorder()

	newTestHandler(serverDeps{rentals: svc}).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGetAvailability_400_HalfOpenWindow(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/gear/"+uuid.NewString()+"/availability?from=2025-10-10", nil)
	rec := httptest.NewRecorder()

	newTestHandler(serverDeps{rentals: &mockRentalServicer{}}).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// ---- POST /gear/{id}/rent ---------------------------------------------------

func TestCreateRental_201(t *testing.T) {
	fixture := rentalFixture()
	svc := &mockRentalServicer{
		createRental: func(_ context.Context, gearItemID, renterID uuid.UUID, window domain.TimeWindow, mode domain.RentalMode) (domain.Rental, error) {
			assert.Equal(t, fixture.GearItemID, gearItemID)
			assert.Equal(t, fixture.RenterID, renterID)
			assert.Equal(t, domain.ModeDay, mode)
			return fixture, nil
		},
	}

	body := jsonBody(t, map[string]any{
		"start_date": "2025-10-10",
		"end_date":   "2025-10-12",
	})
	req := asUser(httptest.NewRequest(http.MethodPost, "/gear/"+fixture.GearItemID.String()+"/rent", body), fixture.RenterID)
	rec := httptest.NewRecorder()

	newTestHandler(serverDeps{rentals: svc}).ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	resp := decodeJSON[domain.Rental](t, rec.Body)
	assert.Equal(t, fixture.ID, resp.ID)
	assert.Equal(t, domain.RentalRequested, resp.Status)
}

func TestCreateRental_409_ConflictBody(t *testing.T) {
	clashing := rentalFixture()
	svc := &mockRentalServicer{
		createRental: func(_ context.Context, _, _ uuid.UUID, _ domain.TimeWindow, _ domain.RentalMode) (domain.Rental, error) {
			return domain.Rental{}, &domain.ConflictError{
				RentalID:    clashing.ID,
				Window:      clashing.Window,
				Mode:        clashing.Mode,
				BufferHours: 12,
			}
		},
	}

	body := jsonBody(t, map[string]any{
		"start_date": "2025-10-11",
		"end_date":   "2025-10-13",
	})
	req := asUser(httptest.NewRequest(http.MethodPost, "/gear/"+uuid.NewString()+"/rent", body), uuid.New())
	rec := httptest.NewRecorder()

	newTestHandler(serverDeps{rentals: svc}).ServeHTTP(rec, req)

	require.Equal(t, http.StatusConflict, rec.Code)
	resp := decodeJSON[handler.ErrorResponse](t, rec.Body)
	assert.Equal(t, "booking_conflict", resp.Error.Code)
	require.NotNil(t, resp.Error.Conflict)
	assert.Equal(t, clashing.ID.String(), resp.Error.Conflict.RentalID)
	assert.Equal(t, 12, resp.Error.Conflict.BufferHours)
	assert.Equal(t, "DAY", resp.Error.Conflict.RentalMode)
}

func TestCreateRental_400_SelfBooking(t *testing.T) {
	svc := &mockRentalServicer{
		createRental: func(_ context.Context, _, _ uuid.UUID, _ domain.TimeWindow, _ domain.RentalMode) (domain.Rental, error) {
			return domain.Rental{}, domain.ErrSelfBooking
		},
	}

	body := jsonBody(t, map[string]any{
		"start_date": "2025-10-10",
		"end_date":   "2025-10-12",
	})
	req := asUser(httptest.NewRequest(http.MethodPost, "/gear/"+uuid.NewString()+"/rent", body), uuid.New())
	rec := httptest.NewRecorder()

	newTestHandler(serverDeps{rentals: svc}).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeJSON[handler.ErrorResponse](t, rec.Body)
	assert.Equal(t, "self_booking", resp.Error.Code)
}

func TestCreateRental_400_InvertedDates(t *testing.T) {
	body := jsonBody(t, map[string]any{
		"start_date": "2025-10-12",
		"end_date":   "2025-10-10",
	})
	req := asUser(httptest.NewRequest(http.MethodPost, "/gear/"+uuid.NewString()+"/rent", body), uuid.New())
	rec := httptest.NewRecorder()

	newTestHandler(serverDeps{rentals: &mockRentalServicer{}}).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateRental_401_NoIdentity(t *testing.T) {
	body := jsonBody(t, map[string]any{
		"start_date": "2025-10-10",
		"end_date":   "2025-10-12",
	})
	req := httptest.NewRequest(http.MethodPost, "/gear/"+uuid.NewString()+"/rent", body)
	rec := httptest.NewRecorder()

	newTestHandler(serverDeps{rentals: &mockRentalServicer{}}).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

// ---- POST /rentals/{id}/* ---------------------------------------------------

func TestRentalActions_RouteToService(t *testing.T) {
	fixture := rentalFixture()
	actor := uuid.New()

	for _, action := range []string{
		"approve", "pickup", "return", "cancel",
		"hold-deposit", "capture-deposit", "release-deposit",
	} {
		called := false
		svc := &mockRentalServicer{
			action: func(_ context.Context, actorID, rentalID uuid.UUID) (domain.Rental, error) {
				called = true
				assert.Equal(t, actor, actorID)
				assert.Equal(t, fixture.ID, rentalID)
				return fixture, nil
			},
		}

		req := asUser(httptest.NewRequest(http.MethodPost, "/rentals/"+fixture.ID.String()+"/"+action, nil), actor)
		rec := httptest.NewRecorder()

		newTestHandler(serverDeps{rentals: svc}).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code, "action %s", action)
		assert.True(t, called, "action %s", action)
	}
}

func TestApproveRental_409_WrongState(t *testing.T) {
	svc := &mockRentalServicer{
		action: func(_ context.Context, _, _ uuid.UUID) (domain.Rental, error) {
			return domain.Rental{}, domain.ErrInvalidState
		},
	}

	req := asUser(httptest.NewRequest(http.MethodPost, "/rentals/"+uuid.NewString()+"/approve", nil), uuid.New())
	rec := httptest.NewRecorder()

	newTestHandler(serverDeps{rentals: svc}).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
	resp := decodeJSON[handler.ErrorResponse](t, rec.Body)
	assert.Equal(t, "invalid_state", resp.Error.Code)
}

// ---- listings ---------------------------------------------------------------

func TestListGearRentals_403_NonOwner(t *testing.T) {
	svc := &mockRentalServicer{
		listForGear: func(_ context.Context, _, _ uuid.UUID) ([]domain.Rental, error) {
			return nil, domain.ErrForbidden
		},
	}

	req := asUser(httptest.NewRequest(http.MethodGet, "/gear/"+uuid.NewString()+"/rentals", nil), uuid.New())
	rec := httptest.NewRecorder()

	newTestHandler(serverDeps{rentals: svc}).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestListMyRentals_200(t *testing.T) {
	renter := uuid.New()
	svc := &mockRentalServicer{
		listForRenter: func(_ context.Context, id uuid.UUID) ([]domain.Rental, error) {
			assert.Equal(t, renter, id)
			return []domain.Rental{rentalFixture()}, nil
		},
	}

	req := asUser(httptest.NewRequest(http.MethodGet, "/my/rentals", nil), renter)
	rec := httptest.NewRecorder()

	newTestHandler(serverDeps{rentals: svc}).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeJSON[[]domain.Rental](t, rec.Body)
	assert.Len(t, resp, 1)
}
