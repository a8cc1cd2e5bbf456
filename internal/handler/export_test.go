package handler_test

import (
	"context"
	"encoding/csv"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campustrail/marketplace/internal/domain"
)

func exportRows() []domain.RentalExportRow {
	return []domain.RentalExportRow{
		{
			GearItemID:    uuid.NewString(),
			GearTitle:     "4-season tent",
			GearStatus:    "PUBLISHED",
			RentalID:      uuid.NewString(),
			RenterID:      uuid.NewString(),
			StartDate:     "2025-10-10T00:00:00Z",
			EndDate:       "2025-10-12T23:59:59Z",
			RentalMode:    "DAY",
			Status:        "COMPLETED",
			DepositStatus: "RELEASED",
			DepositHeld:   1000,
		},
		{
			GearItemID: uuid.NewString(),
			GearTitle:  "climbing rope",
			GearStatus: "DRAFT",
		},
	}
}

func TestGetExport_JSON(t *testing.T) {
	owner := uuid.New()
	svc := &mockExportServicer{
		export: func(_ context.Context, id uuid.UUID) ([]domain.RentalExportRow, error) {
			assert.Equal(t, owner, id)
			return exportRows(), nil
		},
	}

	req := asUser(httptest.NewRequest(http.MethodGet, "/my/export", nil), owner)
	rec := httptest.NewRecorder()

	newTestHandler(serverDeps{export: svc}).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	resp := decodeJSON[[]domain.RentalExportRow](t, rec.Body)
	assert.Len(t, resp, 2)
}

func TestGetExport_CSV(t *testing.T) {
	rows := exportRows()
	svc := &mockExportServicer{
		export: func(_ context.Context, _ uuid.UUID) ([]domain.RentalExportRow, error) {
			return rows, nil
		},
	}

	req := asUser(httptest.NewRequest(http.MethodGet, "/my/export?format=csv", nil), uuid.New())
	rec := httptest.NewRecorder()

	newTestHandler(serverDeps{export: svc}).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")

	records, err := csv.NewReader(rec.Body).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3) // header + 2 rows
	assert.Equal(t, "gear_item_id", records[0][0])
	assert.Equal(t, rows[0].GearTitle, records[1][1])
	// The rental-less item has empty rental columns.
	assert.Equal(t, "climbing rope", records[2][1])
	assert.Empty(t, records[2][3])
}

func TestGetExport_401_NoIdentity(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/my/export", nil)
	rec := httptest.NewRecorder()

	newTestHandler(serverDeps{export: &mockExportServicer{}}).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
