// Package domain contains the core data types for the CampusTrail marketplace.
// This package has zero external dependencies beyond uuid and is imported by
// every other internal package (availability, match, repo, service, handler).
package domain

import (
	"fmt"
	"strings"
	"time"
)

// RentalMode controls how a window's endpoints are interpreted before any
// overlap testing.
type RentalMode string

const (
	// ModeDay snaps the window to full calendar days: start is floored to
	// 00:00:00.000 and end is ceiled to 23:59:59.999.
	ModeDay RentalMode = "DAY"

	// ModePartial uses the raw timestamps unchanged, allowing sub-day rentals.
	ModePartial RentalMode = "PARTIAL"
)

// ParseRentalMode normalizes a caller-supplied mode string.
// Input is case-insensitive; anything other than "partial" falls back to DAY,
// matching the lenient query-parameter handling of the public API.
func ParseRentalMode(s string) RentalMode {
	if strings.EqualFold(strings.TrimSpace(s), string(ModePartial)) {
		return ModePartial
	}
	return ModeDay
}

// TimeWindow is a closed interval [Start, End].
// Invariant: Start <= End. Construct via NewTimeWindow to enforce it.
type TimeWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// NewTimeWindow builds a TimeWindow, rejecting inverted ranges.
func NewTimeWindow(start, end time.Time) (TimeWindow, error) {
	if start.After(end) {
		return TimeWindow{}, fmt.Errorf("%w: start must not be after end", ErrValidation)
	}
	return TimeWindow{Start: start, End: end}, nil
}

// Normalize applies the mode's endpoint snapping and returns the result.
// DAY mode floors Start to midnight and ceils End to the last millisecond of
// its calendar day; PARTIAL returns the window unchanged. Normalization is
// idempotent: normalizing an already-normalized window is a no-op.
func (w TimeWindow) Normalize(mode RentalMode) TimeWindow {
	if mode != ModeDay {
		return w
	}
	s := w.Start
	e := w.End
	start := time.Date(s.Year(), s.Month(), s.Day(), 0, 0, 0, 0, s.Location())
	end := time.Date(e.Year(), e.Month(), e.Day(), 23, 59, 59, 999e6, e.Location())
	return TimeWindow{Start: start, End: end}
}

// Buffered returns the window expanded by bufferHours on both ends.
// The buffered view is used only for overlap testing and is never persisted.
func (w TimeWindow) Buffered(bufferHours int) TimeWindow {
	d := time.Duration(bufferHours) * time.Hour
	return TimeWindow{Start: w.Start.Add(-d), End: w.End.Add(d)}
}

// Overlaps reports whether the two windows intersect once each is expanded by
// its own buffer. The test is closed-interval: touching endpoints count as
// overlapping. Commutative by construction. Callers must normalize each
// window before calling; Overlaps itself applies no snapping.
func Overlaps(a TimeWindow, aBufferHours int, b TimeWindow, bBufferHours int) bool {
	ba := a.Buffered(aBufferHours)
	bb := b.Buffered(bBufferHours)
	return !ba.Start.After(bb.End) && !ba.End.Before(bb.Start)
}

// OverlapDays returns the number of calendar days (rounded up) shared by the
// two windows, or 0 when they do not intersect. Applying it to a window
// against itself yields the window's own span in days.
func OverlapDays(a, b TimeWindow) int {
	start := a.Start
	if b.Start.After(start) {
		start = b.Start
	}
	end := a.End
	if b.End.Before(end) {
		end = b.End
	}
	diff := end.Sub(start)
	if diff <= 0 {
		return 0
	}
	const day = 24 * time.Hour
	days := int(diff / day)
	if diff%day != 0 {
		days++
	}
	return days
}

// Days returns the window's own span in whole days, rounded up.
func (w TimeWindow) Days() int {
	return OverlapDays(w, w)
}

// Intersects reports whether the two raw windows share any instant, with no
// buffering or snapping applied. Used by match filtering, where the handoff
// buffer is irrelevant.
func (w TimeWindow) Intersects(other TimeWindow) bool {
	return !w.Start.After(other.End) && !w.End.Before(other.Start)
}
