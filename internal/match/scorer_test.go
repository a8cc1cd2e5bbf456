package match_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/campustrail/marketplace/internal/match"
)

func TestScore_AllComponentsMaxed(t *testing.T) {
	score := match.Score(match.ScoreInput{
		DestA:           "Manali",
		DestB:           "Manali",
		StyleA:          "Budget",
		StyleB:          "Budget",
		OverlapDays:     5,
		DurationA:       5,
		DurationB:       5,
		SharedInterests: 7, // capped at 10 points
	})

	assert.Equal(t, 100, score)
}

func TestScore_NothingInCommon(t *testing.T) {
	score := match.Score(match.ScoreInput{
		DestA:       "Manali",
		DestB:       "Goa",
		StyleA:      "Budget",
		StyleB:      "Luxury",
		OverlapDays: 0,
		DurationA:   5,
		DurationB:   3,
	})

	assert.Equal(t, 0, score)
}

// TestScore_WorkedExample pins the reference case: substring destination
// (+20), 3 shared days of a 5-day shorter trip rounds to +18, equal style
// (+20), two shared interests (+4) → 62.
func TestScore_WorkedExample(t *testing.T) {
	score := match.Score(match.ScoreInput{
		DestA:           "Manali",
		DestB:           "Manali Valley",
		StyleA:          "Budget",
		StyleB:          "budget",
		OverlapDays:     3,
		DurationA:       5,
		DurationB:       9,
		SharedInterests: 2,
	})

	assert.Equal(t, 62, score)
}

func TestScore_DestinationSubstringEitherDirection(t *testing.T) {
	base := match.ScoreInput{DurationA: 1, DurationB: 1}

	a := base
	a.DestA, a.DestB = "Old Manali", "manali"
	b := base
	b.DestA, b.DestB = "manali", "Old Manali"

	assert.Equal(t, 20, match.Score(a))
	assert.Equal(t, 20, match.Score(b))
}

func TestScore_EmptyDestinationNeverPartialMatches(t *testing.T) {
	// "" is a substring of everything; it must not earn partial credit.
	score := match.Score(match.ScoreInput{
		DestA:     "",
		DestB:     "Manali",
		DurationA: 1,
		DurationB: 1,
	})

	assert.Equal(t, 0, score)
}

func TestScore_StyleRequiresBothSet(t *testing.T) {
	score := match.Score(match.ScoreInput{
		DestA:     "x",
		DestB:     "y",
		StyleA:    "",
		StyleB:    "",
		DurationA: 1,
		DurationB: 1,
	})

	assert.Equal(t, 0, score)
}

func TestScore_OverlapRatioCappedAtOne(t *testing.T) {
	// Overlap can exceed the shorter duration after day rounding; the ratio
	// is capped so the component never exceeds its 30 points.
	score := match.Score(match.ScoreInput{
		DestA:       "Manali",
		DestB:       "Goa",
		OverlapDays: 10,
		DurationA:   3,
		DurationB:   8,
	})

	assert.Equal(t, 30, score)
}

func TestScore_ZeroDurationTreatedAsOneDay(t *testing.T) {
	score := match.Score(match.ScoreInput{
		DestA:       "Manali",
		DestB:       "Goa",
		OverlapDays: 1,
		DurationA:   0,
		DurationB:   0,
	})

	assert.Equal(t, 30, score)
}

func TestScore_Bounds(t *testing.T) {
	// A grab-bag of inputs; every score must land in [0,100].
	inputs := []match.ScoreInput{
		{},
		{DestA: "a", DestB: "a", StyleA: "s", StyleB: "s", OverlapDays: 100, DurationA: 1, DurationB: 1, SharedInterests: 100},
		{DestA: "abc", DestB: "b", OverlapDays: 1, DurationA: 2, DurationB: 7, SharedInterests: 3},
	}
	for _, in := range inputs {
		score := match.Score(in)
		assert.GreaterOrEqual(t, score, 0)
		assert.LessOrEqual(t, score, 100)
	}
}

// ---- SharedInterests -------------------------------------------------------

func TestSharedInterests(t *testing.T) {
	assert.Equal(t, 2, match.SharedInterests(
		[]string{"trekking", "photography", "food"},
		[]string{"photography", "trekking", "nightlife"},
	))
}

func TestSharedInterests_DuplicatesCountOnce(t *testing.T) {
	assert.Equal(t, 1, match.SharedInterests(
		[]string{"trekking"},
		[]string{"trekking", "trekking", "trekking"},
	))
}

func TestSharedInterests_CaseSensitive(t *testing.T) {
	assert.Equal(t, 0, match.SharedInterests([]string{"Trekking"}, []string{"trekking"}))
}

func TestSharedInterests_EmptySides(t *testing.T) {
	assert.Equal(t, 0, match.SharedInterests(nil, []string{"trekking"}))
	assert.Equal(t, 0, match.SharedInterests([]string{"trekking"}, nil))
}
