package ratings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func match(red []string, redScore int, blue []string, blueScore int) Match {
	return Match{
		Red:  Alliance{Teams: red, Score: redScore},
		Blue: Alliance{Teams: blue, Score: blueScore},
	}
}

func TestSolve_SingleMatchTwoTeams(t *testing.T) {
	result := Solve([]Match{match([]string{"1A"}, 50, []string{"2B"}, 30)}, []string{"1A", "2B"})

	require.True(t, result.Solved(), "identity-like matrix should solve: %s", result.Reason)
	assert.InDelta(t, 50, result.Ratings["1A"].OPR, 0.001)
	assert.InDelta(t, 30, result.Ratings["2B"].OPR, 0.001)
	assert.InDelta(t, 30, result.Ratings["1A"].DPR, 0.001)
	assert.InDelta(t, 50, result.Ratings["2B"].DPR, 0.001)
	assert.InDelta(t, 20, result.Ratings["1A"].CCWM, 0.001)
	assert.InDelta(t, -20, result.Ratings["2B"].CCWM, 0.001)
}

func TestSolve_FourTeamScenario(t *testing.T) {
	// Every pair partners at least once; A and B partner twice, as do C and D.
	matches := []Match{
		match([]string{"A", "B"}, 10, []string{"C", "D"}, 6),
		match([]string{"A", "C"}, 8, []string{"B", "D"}, 4),
		match([]string{"A", "D"}, 7, []string{"B", "C"}, 9),
		match([]string{"A", "B"}, 11, []string{"C", "D"}, 5),
	}
	// A = [[4 2 1 1] [2 4 1 1] [1 1 4 2] [1 1 2 4]]
	// B_opr = [36 34 28 22], B_dpr = [24 26 32 38]
	result := Solve(matches, []string{"A", "B", "C", "D"})
	require.True(t, result.Solved(), result.Reason)

	expected := map[string]TeamRating{
		"A": {OPR: 5.5, DPR: 2, CCWM: 3.5},
		"B": {OPR: 4.5, DPR: 3, CCWM: 1.5},
		"C": {OPR: 4, DPR: 3.5, CCWM: 0.5},
		"D": {OPR: 1, DPR: 6.5, CCWM: -5.5},
	}
	for team, want := range expected {
		got := result.Ratings[team]
		assert.InDelta(t, want.OPR, got.OPR, 0.001, "opr %s", team)
		assert.InDelta(t, want.DPR, got.DPR, 0.001, "dpr %s", team)
		assert.InDelta(t, want.CCWM, got.CCWM, 0.001, "ccwm %s", team)
	}
}

func TestSolve_Indeterminate(t *testing.T) {
	t.Run("fixed partners make the matrix singular", func(t *testing.T) {
		matches := []Match{
			match([]string{"A", "B"}, 10, []string{"C", "D"}, 6),
			match([]string{"A", "B"}, 12, []string{"C", "D"}, 3),
		}
		result := Solve(matches, []string{"A", "B", "C", "D"})
		assert.False(t, result.Solved())
		assert.Equal(t, StatusIndeterminate, result.Status)
		assert.Nil(t, result.Ratings, "indeterminate results must not carry ratings")
		assert.NotEmpty(t, result.Reason)
	})

	t.Run("team without matches leaves an empty row", func(t *testing.T) {
		matches := []Match{match([]string{"A"}, 10, []string{"B"}, 6)}
		result := Solve(matches, []string{"A", "B", "C"})
		assert.Equal(t, StatusIndeterminate, result.Status)
	})

	t.Run("no matches", func(t *testing.T) {
		result := Solve(nil, []string{"A"})
		assert.Equal(t, StatusIndeterminate, result.Status)
	})
}

func TestSolve_DuplicateTeamInAllianceCountsOnce(t *testing.T) {
	result := Solve([]Match{match([]string{"1A", "1A"}, 40, []string{"2B"}, 20)}, []string{"1A", "2B"})
	require.True(t, result.Solved(), result.Reason)
	assert.InDelta(t, 40, result.Ratings["1A"].OPR, 0.001)
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 1.23, Round2(1.234))
	assert.Equal(t, 1.24, Round2(1.235000001))
	assert.Equal(t, -5.5, Round2(-5.499999999))
}
