package match

import (
	"sort"

	"github.com/google/uuid"

	"github.com/campustrail/marketplace/internal/domain"
)

// Subject is the record matches are computed for, reduced to the fields the
// scorer needs. Both itineraries and companion requests reduce to this shape.
type Subject struct {
	Destination string
	Window      domain.TimeWindow
	Style       string
	Interests   []string
}

// Candidate is one record to rank against a Subject.
// SeatsRemaining is meaningful only for itinerary candidates; fully booked
// itineraries are excluded from results.
type Candidate struct {
	ID             uuid.UUID
	Kind           domain.MatchKind
	Title          string
	Destination    string
	Window         domain.TimeWindow
	Style          string
	Interests      []string
	SeatsRemaining int
}

// Result is one page of ranked matches plus paging totals.
type Result struct {
	Matches    []domain.MatchResult `json:"matches"`
	Total      int                  `json:"total"`
	TotalPages int                  `json:"total_pages"`
}

// Rank scores every candidate against the subject, filters, sorts, and
// paginates.
//
// Candidates whose raw window does not intersect the subject's at all are
// dropped before scoring, as are itinerary candidates with no seats left.
// Sorting is stable: candidates with equal keys keep their input order.
//
// Params should come from domain.NewMatchParams; paging fields outside its
// clamped ranges are normalized here the same way.
func Rank(subject Subject, candidates []Candidate, p domain.MatchParams) Result {
	if p.Page < 1 || p.PageSize < 1 || p.PageSize > 50 {
		p = domain.NewMatchParams(string(p.SortKey), string(p.SortDir), p.Page, p.PageSize)
	}
	durSubject := subject.Window.Days()

	results := make([]domain.MatchResult, 0, len(candidates))
	for _, c := range candidates {
		if !subject.Window.Intersects(c.Window) {
			continue
		}
		if c.Kind == domain.MatchItinerary && c.SeatsRemaining == 0 {
			continue
		}

		overlap := domain.OverlapDays(subject.Window, c.Window)
		shared := SharedInterests(subject.Interests, c.Interests)
		score := Score(ScoreInput{
			DestA:           c.Destination,
			DestB:           subject.Destination,
			StyleA:          c.Style,
			StyleB:          subject.Style,
			OverlapDays:     overlap,
			DurationA:       c.Window.Days(),
			DurationB:       durSubject,
			SharedInterests: shared,
		})

		results = append(results, domain.MatchResult{
			Kind:               c.Kind,
			CounterpartID:      c.ID,
			Title:              c.Title,
			Destination:        c.Destination,
			Window:             c.Window,
			TravelStyle:        c.Style,
			SharedInterests:    shared,
			OverlapDays:        overlap,
			CompatibilityScore: score,
			SeatsRemaining:     c.SeatsRemaining,
		})
	}

	sortResults(results, p)

	total := len(results)
	totalPages := (total + p.PageSize - 1) / p.PageSize

	lo := p.Offset()
	if lo > total {
		lo = total
	}
	hi := lo + p.PageSize
	if hi > total {
		hi = total
	}

	return Result{Matches: results[lo:hi], Total: total, TotalPages: totalPages}
}

// sortResults orders results by the requested key and direction.
func sortResults(results []domain.MatchResult, p domain.MatchParams) {
	asc := p.SortDir == domain.SortAsc
	sort.SliceStable(results, func(i, j int) bool {
		var less bool
		switch p.SortKey {
		case domain.SortByStartDate:
			less = results[i].Window.Start.Before(results[j].Window.Start)
			if !asc {
				less = results[j].Window.Start.Before(results[i].Window.Start)
			}
			return less
		default: // score
			if asc {
				return results[i].CompatibilityScore < results[j].CompatibilityScore
			}
			return results[i].CompatibilityScore > results[j].CompatibilityScore
		}
	})
}
