package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/campustrail/marketplace/internal/domain"
)

// ErrorResponse is the uniform error body for all endpoints.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries a machine-readable code and a human-readable message.
// Conflict is set only for booking conflicts.
type ErrorDetail struct {
	Code     string          `json:"code"`
	Message  string          `json:"message"`
	Conflict *ConflictDetail `json:"conflict,omitempty"`
}

// ConflictDetail describes the rental a booking attempt clashed with, so the
// client can show the occupied window and the buffer that extended it.
type ConflictDetail struct {
	RentalID    string    `json:"rental_id"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	RentalMode  string    `json:"rental_mode"`
	BufferHours int       `json:"buffer_hours"`
}

// writeJSON encodes v with the given status. Encoding failures are ignored —
// by the time Encode fails the status line is already on the wire.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps a service error onto the HTTP status taxonomy and writes
// the uniform error body. Unknown errors become an opaque 500.
func writeError(w http.ResponseWriter, err error) {
	var conflict *domain.ConflictError
	switch {
	case errors.As(err, &conflict):
		writeJSON(w, http.StatusConflict, ErrorResponse{Error: ErrorDetail{
			Code:    "booking_conflict",
			Message: "gear unavailable for the selected dates",
			Conflict: &ConflictDetail{
				RentalID:    conflict.RentalID.String(),
				StartDate:   conflict.Window.Start,
				EndDate:     conflict.Window.End,
				RentalMode:  string(conflict.Mode),
				BufferHours: conflict.BufferHours,
			},
		}})
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: ErrorDetail{
			Code: "not_found", Message: "not found",
		}})
	case errors.Is(err, domain.ErrValidation):
		writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{Error: ErrorDetail{
			Code: "validation_error", Message: unwrapMessage(err),
		}})
	case errors.Is(err, domain.ErrSelfBooking):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: ErrorDetail{
			Code: "self_booking", Message: "cannot rent your own gear",
		}})
	case errors.Is(err, domain.ErrForbidden):
		writeJSON(w, http.StatusForbidden, ErrorResponse{Error: ErrorDetail{
			Code: "forbidden", Message: "forbidden",
		}})
	case errors.Is(err, domain.ErrInvalidState):
		writeJSON(w, http.StatusConflict, ErrorResponse{Error: ErrorDetail{
			Code: "invalid_state", Message: unwrapMessage(err),
		}})
	default:
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: ErrorDetail{
			Code: "internal", Message: "internal server error",
		}})
	}
}

// badRequest writes a 400 for requests rejected before reaching the service
// layer (e.g. missing or malformed body).
func badRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: ErrorDetail{
		Code: "bad_request", Message: message,
	}})
}

// unwrapMessage extracts the human-readable part from a wrapped sentinel error.
// e.g. "service.GearService.Create: validation error: title is required" →
// "title is required". Falls back to the full message when no marker is found.
func unwrapMessage(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	for _, marker := range []string{
		domain.ErrValidation.Error() + ": ",
		domain.ErrInvalidState.Error() + ": ",
	} {
		if i := strings.LastIndex(msg, marker); i >= 0 {
			return msg[i+len(marker):]
		}
	}
	if i := strings.LastIndex(msg, ": "); i >= 0 {
		return msg[i+2:]
	}
	return msg
}
