package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairwaycup/matchplay/models"
)

func ptr(f float64) *float64 { return &f }

func testPod() models.Pod {
	return models.Pod{
		Name: "Pod 1",
		Players: []models.Player{
			{Pod: "Pod 1", Name: "Alice", Handicap: ptr(5.4)},
			{Pod: "Pod 1", Name: "Bob", Handicap: ptr(8.2)},
			{Pod: "Pod 1", Name: "Carol", Handicap: ptr(14.0)},
			{Pod: "Pod 1", Name: "Dave"},
		},
	}
}

func TestComputeStandings(t *testing.T) {
	pod := testPod()
	results := []models.MatchResult{
		{Pod: "Pod 1", PlayerA: "Alice", PlayerB: "Bob", Winner: "Alice", Margin: 3},
		{Pod: "Pod 1", PlayerA: "Alice", PlayerB: "Carol", Winner: models.WinnerTie},
		{Pod: "Pod 1", PlayerA: "Bob", PlayerB: "Carol", Winner: "Carol", Margin: 1},
	}

	rows := ComputeStandings(pod, results)
	require.Len(t, rows, 4)

	byName := make(map[string]models.StandingsRow, len(rows))
	for _, r := range rows {
		byName[r.Name] = r
	}

	assert.Equal(t, 1.5, byName["Alice"].Points)
	assert.Equal(t, 3, byName["Alice"].Margin)
	assert.Equal(t, 2, byName["Alice"].Played)

	assert.Equal(t, 0.0, byName["Bob"].Points)
	assert.Equal(t, -4, byName["Bob"].Margin)

	assert.Equal(t, 1.5, byName["Carol"].Points)
	assert.Equal(t, 1, byName["Carol"].Margin)

	// No matches entered is a valid zero row, not missing data.
	assert.Equal(t, 0.0, byName["Dave"].Points)
	assert.Equal(t, 0, byName["Dave"].Margin)
	assert.Equal(t, 0, byName["Dave"].Played)
}

func TestComputeStandingsDeterministic(t *testing.T) {
	pod := testPod()
	results := []models.MatchResult{
		{Pod: "Pod 1", PlayerA: "Alice", PlayerB: "Bob", Winner: "Bob", Margin: 5},
		{Pod: "Pod 1", PlayerA: "Carol", PlayerB: "Dave", Winner: models.WinnerTie},
	}
	first := ComputeStandings(pod, results)
	second := ComputeStandings(pod, results)
	assert.Equal(t, first, second)
}

func TestComputeStandingsPointsConservation(t *testing.T) {
	pod := models.Pod{Name: "Pod 1", Players: []models.Player{{Name: "Alice"}, {Name: "Bob"}}}

	t.Run("decisive result awards exactly one point", func(t *testing.T) {
		rows := ComputeStandings(pod, []models.MatchResult{
			{Pod: "Pod 1", PlayerA: "Alice", PlayerB: "Bob", Winner: "Alice", Margin: 7},
		})
		assert.Equal(t, 1.0, rows[0].Points+rows[1].Points)
	})

	t.Run("tie awards half a point each", func(t *testing.T) {
		rows := ComputeStandings(pod, []models.MatchResult{
			{Pod: "Pod 1", PlayerA: "Alice", PlayerB: "Bob", Winner: models.WinnerTie},
		})
		assert.Equal(t, 0.5, rows[0].Points)
		assert.Equal(t, 0.5, rows[1].Points)
	})
}

func TestComputeStandingsMarginAntisymmetry(t *testing.T) {
	pod := models.Pod{Name: "Pod 1", Players: []models.Player{{Name: "Alice"}, {Name: "Bob"}}}
	rows := ComputeStandings(pod, []models.MatchResult{
		{Pod: "Pod 1", PlayerA: "Alice", PlayerB: "Bob", Winner: "Bob", Margin: 9},
	})
	assert.Equal(t, 0, rows[0].Margin+rows[1].Margin)
	assert.Equal(t, -9, rows[0].Margin)
	assert.Equal(t, 9, rows[1].Margin)
}

func TestComputeStandingsIgnoresOtherPods(t *testing.T) {
	pod := models.Pod{Name: "Pod 1", Players: []models.Player{{Name: "Alice"}, {Name: "Bob"}}}
	rows := ComputeStandings(pod, []models.MatchResult{
		{Pod: "Pod 2", PlayerA: "Alice", PlayerB: "Bob", Winner: "Alice", Margin: 3},
	})
	assert.Equal(t, 0.0, rows[0].Points)
	assert.Equal(t, 0, rows[0].Played)
}

func TestSortStandings(t *testing.T) {
	rows := []models.StandingsRow{
		{Name: "Carol", Points: 2, Margin: -1},
		{Name: "Alice", Points: 2, Margin: 4},
		{Name: "Bob", Points: 3, Margin: 0},
		{Name: "Dave", Points: 2, Margin: 4},
	}
	SortStandings(rows)
	assert.Equal(t, "Bob", rows[0].Name)
	assert.Equal(t, "Alice", rows[1].Name) // name breaks the exact tie with Dave
	assert.Equal(t, "Dave", rows[2].Name)
	assert.Equal(t, "Carol", rows[3].Name)
}

func TestMarginLabels(t *testing.T) {
	v, ok := MarginValue("3 and 2")
	require.True(t, ok)
	assert.Equal(t, 5, v)

	label, ok := MarginLabel(1)
	require.True(t, ok)
	assert.Equal(t, "1 up", label)

	_, ok = MarginValue("10 and 9")
	assert.False(t, ok)

	assert.Len(t, MarginLabels(), 9)
}
