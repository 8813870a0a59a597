package engine

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairwaycup/matchplay/models"
)

// resolvedPods builds n cleanly-resolved pods. Winners are "W<i>" with
// descending strength, runner-ups "R<i>" with points/margins arranged so
// R1 > R2 > ... in the wildcard ranking.
func resolvedPods(n int) Resolution {
	var res Resolution
	for i := 1; i <= n; i++ {
		res.Places = append(res.Places, PodPlaces{
			Pod:       fmt.Sprintf("Pod %d", i),
			First:     models.StandingsRow{Name: fmt.Sprintf("W%d", i), Points: 3, Margin: 10, Played: 3},
			Second:    models.StandingsRow{Name: fmt.Sprintf("R%d", i), Points: 2, Margin: 20 - i, Played: 3},
			HasSecond: true,
		})
	}
	return res
}

func TestBuildField(t *testing.T) {
	field, err := BuildField(resolvedPods(13), DefaultFieldConfig())
	require.NoError(t, err)
	require.Len(t, field, 16)

	// 13 guaranteed seeds in pod order, then the 3 best runner-ups.
	assert.Equal(t, "W1", field[0].Name)
	assert.Equal(t, "W13", field[12].Name)
	assert.Equal(t, "R1", field[13].Name)
	assert.Equal(t, "R2", field[14].Name)
	assert.Equal(t, "R3", field[15].Name)

	for i, e := range field {
		assert.Equal(t, i+1, e.Seed)
	}
	assert.Equal(t, models.PlaceFirst, field[0].Place)
	assert.Equal(t, models.PlaceSecond, field[15].Place)
}

func TestBuildFieldAtomicOnNotReadyPod(t *testing.T) {
	// A pod with no completed matches blocks the whole field; the other
	// 12 resolved pods are not padded out with extra wildcards.
	res := resolvedPods(12)
	res.NotReady = []string{"Pod 13"}
	_, err := BuildField(res, DefaultFieldConfig())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotReady)
}

func TestBuildFieldAtomicOnShortField(t *testing.T) {
	// 13 winners but only 2 eligible runner-ups: 15 entrants is not a
	// field, and no partial field is returned.
	res := resolvedPods(13)
	for i := 2; i < len(res.Places); i++ {
		res.Places[i].HasSecond = false
		res.Places[i].Second = models.StandingsRow{}
	}
	_, err := BuildField(res, DefaultFieldConfig())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFieldIncomplete)
}

func TestBuildFieldRefusesUnresolvedTie(t *testing.T) {
	res := resolvedPods(13)
	res.Pending = append(res.Pending, PendingTie{
		Pod: "Pod 7", Place: models.PlaceFirst, Players: []string{"W7", "R7"},
	})
	_, err := BuildField(res, DefaultFieldConfig())
	assert.ErrorIs(t, err, ErrUnresolvedTie)
}

func TestBuildFieldRejectsDuplicateNames(t *testing.T) {
	res := resolvedPods(13)
	res.Places[1].First.Name = "W1"
	_, err := BuildField(res, DefaultFieldConfig())
	assert.ErrorIs(t, err, ErrDuplicateEntrant)
}

func TestBuildFieldWildcardCutoffPolicy(t *testing.T) {
	res := resolvedPods(13)
	// Three runner-ups dead even on (points, margin) fighting for the
	// last wildcard slot; two clear ones above them.
	for i := range res.Places {
		res.Places[i].Second.Points = 1
		res.Places[i].Second.Margin = 0
	}
	res.Places[0].Second = models.StandingsRow{Name: "R1", Points: 2, Margin: 5, Played: 3}
	res.Places[1].Second = models.StandingsRow{Name: "R2", Points: 2, Margin: 3, Played: 3}
	res.Places[2].Second = models.StandingsRow{Name: "R3", Points: 1, Margin: 0, Handicap: ptr(9.0), Played: 3}
	res.Places[3].Second = models.StandingsRow{Name: "R4", Points: 1, Margin: 0, Handicap: ptr(4.5), Played: 3}
	res.Places[4].Second = models.StandingsRow{Name: "R5", Points: 1, Margin: 0, Played: 3}

	field, err := BuildField(res, DefaultFieldConfig())
	require.NoError(t, err)
	// Lowest handicap takes the cutoff slot; missing handicap ranks last.
	assert.Equal(t, "R4", field[15].Name)
}

func TestPodLess(t *testing.T) {
	assert.True(t, PodLess("Pod 2", "Pod 10"))
	assert.False(t, PodLess("Pod 10", "Pod 2"))
	// Names without trailing numbers fall back to lexical order.
	assert.True(t, PodLess("Back Nine", "Front Nine"))
	assert.True(t, PodLess("Pod 3", "The Quarry"))
}

func TestPairingPolicies(t *testing.T) {
	field, err := BuildField(resolvedPods(13), DefaultFieldConfig())
	require.NoError(t, err)

	t.Run("adjacent", func(t *testing.T) {
		matches, err := PairingAdjacent.PairR16(field)
		require.NoError(t, err)
		require.Len(t, matches, 8)
		assert.Equal(t, "W1", matches[0].Player1)
		assert.Equal(t, "W2", matches[0].Player2)
		assert.Equal(t, "W3", matches[1].Player1)
		// Right half starts at slot 4 with seed 9.
		assert.Equal(t, 4, matches[4].SlotIndex)
		assert.Equal(t, "W9", matches[4].Player1)
		assert.Equal(t, "W10", matches[4].Player2)
		assert.Equal(t, "R2", matches[7].Player1)
		assert.Equal(t, "R3", matches[7].Player2)
	})

	t.Run("seeded", func(t *testing.T) {
		matches, err := PairingSeeded.PairR16(field)
		require.NoError(t, err)
		require.Len(t, matches, 8)
		// 1v8 within the left half.
		assert.Equal(t, "W1", matches[0].Player1)
		assert.Equal(t, "W8", matches[0].Player2)
		assert.Equal(t, "W4", matches[1].Player1)
		assert.Equal(t, "W5", matches[1].Player2)
		// 9v16 within the right half.
		assert.Equal(t, "W9", matches[4].Player1)
		assert.Equal(t, "R3", matches[4].Player2)
	})

	t.Run("unknown policy", func(t *testing.T) {
		_, err := PairingPolicy("random").PairR16(field)
		assert.ErrorIs(t, err, ErrUnknownPairing)
	})

	t.Run("short field", func(t *testing.T) {
		_, err := PairingAdjacent.PairR16(field[:15])
		assert.ErrorIs(t, err, ErrFieldIncomplete)
	})
}
