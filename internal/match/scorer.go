// Package match ranks itineraries against companion requests (and vice
// versa) using a deterministic compatibility score. All functions here are
// pure and safe for concurrent use.
package match

import (
	"math"
	"strings"
)

// Score weights. Each component is capped before summing, so the total is
// naturally bounded to [0,100].
const (
	destinationExactPoints   = 40
	destinationPartialPoints = 20
	overlapMaxPoints         = 30
	stylePoints              = 20
	interestPointsEach       = 2
	interestMaxPoints        = 10
)

// ScoreInput carries the pre-computed features for one subject/candidate pair.
// OverlapDays and the durations are in whole days (see domain.OverlapDays);
// SharedInterests excludes the travel-style tag.
type ScoreInput struct {
	DestA, DestB    string
	StyleA, StyleB  string
	OverlapDays     int
	DurationA       int
	DurationB       int
	SharedInterests int
}

// Score combines destination similarity, date-overlap ratio, travel-style
// equality, and shared-interest count into a single integer in [0,100].
// Only the overlap term is rounded; the components are summed afterward.
func Score(in ScoreInput) int {
	score := destinationPoints(in.DestA, in.DestB)

	minDur := min(in.DurationA, in.DurationB)
	if minDur < 1 {
		minDur = 1
	}
	ratio := math.Min(1, float64(in.OverlapDays)/float64(minDur))
	score += int(math.Round(ratio * overlapMaxPoints))

	if in.StyleA != "" && in.StyleB != "" && strings.EqualFold(in.StyleA, in.StyleB) {
		score += stylePoints
	}

	score += min(interestMaxPoints, in.SharedInterests*interestPointsEach)
	return score
}

// destinationPoints scores destination similarity: exact case-insensitive
// match earns full points, a substring match either direction earns half,
// anything else earns nothing.
func destinationPoints(a, b string) int {
	la := strings.ToLower(a)
	lb := strings.ToLower(b)
	switch {
	case la == lb:
		return destinationExactPoints
	case la != "" && lb != "" && (strings.Contains(la, lb) || strings.Contains(lb, la)):
		return destinationPartialPoints
	}
	return 0
}

// SharedInterests counts the values present in both sets, case-sensitively,
// ignoring duplicates. Style tags are a separate field and never appear here.
func SharedInterests(a, b []string) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	set := make(map[string]struct{}, len(a))
	for _, v := range a {
		set[v] = struct{}{}
	}
	seen := make(map[string]struct{}, len(b))
	shared := 0
	for _, v := range b {
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		if _, ok := set[v]; ok {
			shared++
		}
	}
	return shared
}
