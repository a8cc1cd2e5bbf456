// Package handler — export.go implements GET /my/export.
// Returns the authenticated owner's gear and rental history as a flat table.
// Supports content negotiation via ?format=csv (CSV) or default (JSON).
package handler

import (
	"bytes"
	"encoding/csv"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/campustrail/marketplace/internal/domain"
)

// csvHeaders defines the column names written as the first row of any CSV export.
var csvHeaders = []string{
	"gear_item_id", "gear_title", "gear_status",
	"rental_id", "renter_id", "start_date", "end_date", "rental_mode",
	"status", "deposit_status", "deposit_held", "picked_up_at", "returned_at",
}

// GetExport handles GET /my/export.
// It returns a flat table of every gear item and rental combination owned by
// the caller. Use ?format=csv to receive CSV; default is JSON.
func (s *Server) GetExport(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	rows, err := s.export.Export(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	if strings.EqualFold(r.URL.Query().Get("format"), "csv") {
		writeCSV(w, rows)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// writeCSV encodes export rows as CSV.
func writeCSV(w http.ResponseWriter, rows []domain.RentalExportRow) {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)

	//nolint:errcheck — writes to bytes.Buffer never fail.
	cw.Write(csvHeaders)
	for _, row := range rows {
		//nolint:errcheck
		cw.Write(csvRecord(row))
	}
	cw.Flush()

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="rentals.csv"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func csvRecord(row domain.RentalExportRow) []string {
	return []string{
		row.GearItemID, row.GearTitle, row.GearStatus,
		row.RentalID, row.RenterID, row.StartDate, row.EndDate, row.RentalMode,
		row.Status, row.DepositStatus, strconv.Itoa(row.DepositHeld),
		formatOptionalTime(row.PickedUpAt), formatOptionalTime(row.ReturnedAt),
	}
}

// formatOptionalTime renders a nullable timestamp as RFC 3339 or empty string.
func formatOptionalTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}
