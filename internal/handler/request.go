package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/campustrail/marketplace/internal/domain"
)

// userIDHeader carries the authenticated user's identity. Authentication
// itself happens upstream (gateway or middleware); by the time a request
// reaches these handlers the header holds a verified user ID.
const userIDHeader = "X-User-ID"

// currentUser extracts the authenticated user ID from the request.
// Writes a 401 and returns false when the header is missing or malformed.
func currentUser(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.Header.Get(userIDHeader))
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: ErrorDetail{
			Code: "unauthorized", Message: "missing or invalid " + userIDHeader + " header",
		}})
		return uuid.Nil, false
	}
	return id, true
}

// pathID parses the {id} URL parameter as a UUID.
func pathID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid id: must be a UUID")
	}
	return id, nil
}

// parseTimestamp accepts either a bare date ("2006-01-02") or an RFC 3339
// timestamp. Bare dates are interpreted as midnight UTC; DAY-mode
// normalization snaps them regardless.
func parseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: use YYYY-MM-DD or RFC 3339", s)
	}
	return t, nil
}

// queryWindow reads an optional date window from the named query parameters.
// Both or neither must be present; a half-open pair or an inverted range is
// an error. Returns nil when neither parameter is set.
func queryWindow(r *http.Request, startParam, endParam string) (*domain.TimeWindow, error) {
	rawStart := r.URL.Query().Get(startParam)
	rawEnd := r.URL.Query().Get(endParam)
	if rawStart == "" && rawEnd == "" {
		return nil, nil
	}
	if rawStart == "" || rawEnd == "" {
		return nil, fmt.Errorf("provide both %s and %s or neither", startParam, endParam)
	}
	start, err := parseTimestamp(rawStart)
	if err != nil {
		return nil, err
	}
	end, err := parseTimestamp(rawEnd)
	if err != nil {
		return nil, err
	}
	w, err := domain.NewTimeWindow(start, end)
	if err != nil {
		return nil, fmt.Errorf("%s must not be after %s", startParam, endParam)
	}
	return &w, nil
}

// bodyWindow parses the required start/end date pair from a request body.
func bodyWindow(rawStart, rawEnd string) (domain.TimeWindow, error) {
	if rawStart == "" || rawEnd == "" {
		return domain.TimeWindow{}, fmt.Errorf("start_date and end_date are required")
	}
	start, err := parseTimestamp(rawStart)
	if err != nil {
		return domain.TimeWindow{}, err
	}
	end, err := parseTimestamp(rawEnd)
	if err != nil {
		return domain.TimeWindow{}, err
	}
	w, err := domain.NewTimeWindow(start, end)
	if err != nil {
		return domain.TimeWindow{}, fmt.Errorf("end_date must not precede start_date")
	}
	return w, nil
}

// queryMode reads the rental mode from the ?mode= parameter, defaulting to DAY.
func queryMode(r *http.Request) domain.RentalMode {
	return domain.ParseRentalMode(r.URL.Query().Get("mode"))
}

// queryMatchParams reads ranking options from listing query parameters.
// Values are clamped, not rejected.
func queryMatchParams(r *http.Request) domain.MatchParams {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	pageSize, _ := strconv.Atoi(q.Get("pageSize"))
	return domain.NewMatchParams(q.Get("sort"), q.Get("sortDir"), page, pageSize)
}
