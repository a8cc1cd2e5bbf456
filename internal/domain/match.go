package domain

import (
	"strings"

	"github.com/google/uuid"
)

// MatchKind identifies what kind of record a MatchResult points at.
type MatchKind string

const (
	MatchItinerary        MatchKind = "itinerary"
	MatchCompanionRequest MatchKind = "companionRequest"
)

// MatchResult is one ranked candidate. It is ephemeral — computed per query,
// never persisted.
type MatchResult struct {
	Kind               MatchKind  `json:"type"`
	CounterpartID      uuid.UUID  `json:"counterpart_id"`
	Title              string     `json:"title,omitempty"`
	Destination        string     `json:"destination"`
	Window             TimeWindow `json:"window"`
	TravelStyle        string     `json:"travel_style,omitempty"`
	SharedInterests    int        `json:"shared_interests"`
	OverlapDays        int        `json:"overlap_days"`
	CompatibilityScore int        `json:"compatibility_score"`
	SeatsRemaining     int        `json:"seats_remaining"`
}

// MatchSortKey enumerates the recognized ranking sort keys.
type MatchSortKey string

const (
	SortByScore     MatchSortKey = "score"
	SortByStartDate MatchSortKey = "startDate"
)

// MatchSortDir enumerates sort directions.
type MatchSortDir string

const (
	SortAsc  MatchSortDir = "asc"
	SortDesc MatchSortDir = "desc"
)

// MatchParams carries validated ranking options from the HTTP layer.
// Page is 1-indexed. PageSize is clamped to [1,50] by NewMatchParams.
type MatchParams struct {
	SortKey  MatchSortKey
	SortDir  MatchSortDir
	Page     int
	PageSize int
}

// NewMatchParams builds MatchParams from loose query values.
// Unrecognized sort keys fall back to score, unrecognized directions to desc;
// page and pageSize are clamped rather than rejected, matching the lenient
// handling of listing query parameters elsewhere in the API.
func NewMatchParams(sortKey, sortDir string, page, pageSize int) MatchParams {
	p := MatchParams{SortKey: SortByScore, SortDir: SortDesc, Page: 1, PageSize: 10}
	if strings.EqualFold(sortKey, string(SortByStartDate)) {
		p.SortKey = SortByStartDate
	}
	if strings.EqualFold(sortDir, string(SortAsc)) {
		p.SortDir = SortAsc
	}
	if page >= 1 {
		p.Page = page
	}
	if pageSize >= 1 {
		p.PageSize = pageSize
		if p.PageSize > 50 {
			p.PageSize = 50
		}
	}
	return p
}

// Offset returns the zero-based slice offset for the current page.
func (p MatchParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}
