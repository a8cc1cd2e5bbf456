// Package availability decides whether a gear item can be rented for a given
// window. It is pure over its inputs: callers fetch the item's active rentals
// and pass them in, so the engine is safe to call concurrently and trivial to
// test without a database.
package availability

import (
	"time"

	"github.com/google/uuid"

	"github.com/campustrail/marketplace/internal/domain"
)

// DisplayWindowDays is the forward-looking span reported by open-ended
// queries that supply no explicit window. It shapes the response's display
// window only; the availability boolean is independent of it.
const DisplayWindowDays = 14

// Result is the outcome of an availability check.
// SeatsRemaining is binary — a gear item supports at most one concurrent
// active rental. NextAvailable is set only when the item is unavailable for a
// windowed query and is the buffered end of the latest-ending overlapping
// rental.
type Result struct {
	GearItemID           uuid.UUID         `json:"gear_item_id"`
	Window               domain.TimeWindow `json:"window"`
	Mode                 domain.RentalMode `json:"rental_mode"`
	BufferHours          int               `json:"buffer_hours"`
	IsAvailable          bool              `json:"is_available"`
	SeatsRemaining       int               `json:"seats_remaining"`
	NextAvailable        *time.Time        `json:"next_available_date,omitempty"`
	OverlappingRentalIDs []uuid.UUID       `json:"overlapping_rental_ids"`
}

// Check decides availability for gear over the requested window.
//
// When requested is non-nil (windowed query), the window is normalized per
// mode, each active rental's window is normalized per its own stored mode,
// and the item's handoff buffer is applied to the rental side of every
// overlap test.
//
// When requested is nil (open query), the item is unavailable iff any active
// rental's buffered end is still at or after now, and the reported window is
// a DisplayWindowDays-long view starting at now.
//
// Inactive rentals in the input are ignored, so callers may pass an
// unfiltered rental list.
func Check(gear domain.GearItem, requested *domain.TimeWindow, mode domain.RentalMode, rentals []domain.Rental, now time.Time, defaultBufferHours int) Result {
	buffer := gear.EffectiveBuffer(defaultBufferHours)

	if requested == nil {
		return checkOpen(gear, mode, rentals, now, buffer)
	}

	window := requested.Normalize(mode)
	res := Result{
		GearItemID:           gear.ID,
		Window:               window,
		Mode:                 mode,
		BufferHours:          buffer,
		IsAvailable:          true,
		SeatsRemaining:       1,
		OverlappingRentalIDs: []uuid.UUID{},
	}

	var latestEnd time.Time
	for _, r := range rentals {
		if !r.IsActive() {
			continue
		}
		rw := r.NormalizedWindow()
		if !domain.Overlaps(window, 0, rw, buffer) {
			continue
		}
		res.OverlappingRentalIDs = append(res.OverlappingRentalIDs, r.ID)
		if rw.End.After(latestEnd) {
			latestEnd = rw.End
		}
	}

	if len(res.OverlappingRentalIDs) > 0 {
		res.IsAvailable = false
		res.SeatsRemaining = 0
		next := latestEnd.Add(time.Duration(buffer) * time.Hour)
		res.NextAvailable = &next
	}
	return res
}

// checkOpen answers "is it available right now / going forward".
func checkOpen(gear domain.GearItem, mode domain.RentalMode, rentals []domain.Rental, now time.Time, buffer int) Result {
	window := domain.TimeWindow{
		Start: now,
		End:   now.Add(DisplayWindowDays * 24 * time.Hour),
	}.Normalize(mode)

	res := Result{
		GearItemID:           gear.ID,
		Window:               window,
		Mode:                 mode,
		BufferHours:          buffer,
		IsAvailable:          true,
		SeatsRemaining:       1,
		OverlappingRentalIDs: []uuid.UUID{},
	}

	for _, r := range rentals {
		if !r.IsActive() {
			continue
		}
		bufferedEnd := r.NormalizedWindow().End.Add(time.Duration(buffer) * time.Hour)
		if !bufferedEnd.Before(now) {
			res.IsAvailable = false
			res.SeatsRemaining = 0
			res.OverlappingRentalIDs = append(res.OverlappingRentalIDs, r.ID)
		}
	}
	return res
}
