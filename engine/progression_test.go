package engine

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairwaycup/matchplay/models"
)

func testBracket(t *testing.T) *Bracket {
	t.Helper()
	field, err := BuildField(resolvedPods(13), DefaultFieldConfig())
	require.NoError(t, err)
	b, err := NewBracket(field, PairingAdjacent)
	require.NoError(t, err)
	return b
}

// decideAll plays out every slot in order, always picking Player1.
func decideAll(t *testing.T, b *Bracket) {
	t.Helper()
	for _, round := range []models.Round{models.RoundR16, models.RoundQF, models.RoundSF, models.RoundFinal} {
		for slot := 0; slot < models.MatchesInRound(round); slot++ {
			m, err := b.Match(round, slot)
			require.NoError(t, err)
			require.NoError(t, b.Decide(round, slot, m.Player1, nil))
		}
	}
}

func TestBracketDecideRequiresFeeders(t *testing.T) {
	b := testBracket(t)

	err := b.Decide(models.RoundQF, 0, "W1", nil)
	assert.ErrorIs(t, err, ErrFeedersIncomplete)

	require.NoError(t, b.Decide(models.RoundR16, 0, "W1", nil))
	err = b.Decide(models.RoundQF, 0, "W1", nil)
	assert.ErrorIs(t, err, ErrFeedersIncomplete)

	require.NoError(t, b.Decide(models.RoundR16, 1, "W3", nil))
	require.NoError(t, b.Decide(models.RoundQF, 0, "W1", nil))
}

func TestBracketDecideGuards(t *testing.T) {
	b := testBracket(t)

	t.Run("winner must be an entrant", func(t *testing.T) {
		err := b.Decide(models.RoundR16, 0, "W9", nil)
		assert.ErrorIs(t, err, ErrUnknownEntrant)
	})

	t.Run("no ties in knockout", func(t *testing.T) {
		assert.ErrorIs(t, b.Decide(models.RoundR16, 0, models.WinnerTie, nil), ErrTieNotAllowed)
		assert.ErrorIs(t, b.Decide(models.RoundR16, 0, "", nil), ErrTieNotAllowed)
	})

	t.Run("double decide rejected", func(t *testing.T) {
		require.NoError(t, b.Decide(models.RoundR16, 0, "W1", nil))
		assert.ErrorIs(t, b.Decide(models.RoundR16, 0, "W2", nil), ErrAlreadyDecided)
	})

	t.Run("bad address", func(t *testing.T) {
		assert.ErrorIs(t, b.Decide(models.Round("r32"), 0, "W1", nil), ErrUnknownRound)
		assert.ErrorIs(t, b.Decide(models.RoundQF, 4, "W1", nil), ErrSlotOutOfRange)
	})
}

func TestBracketAdvancePropagatesWinners(t *testing.T) {
	b := testBracket(t)
	label := "2 and 1"
	require.NoError(t, b.Decide(models.RoundR16, 0, "W2", &label))
	require.NoError(t, b.Decide(models.RoundR16, 1, "W4", nil))

	qf, err := b.Match(models.RoundQF, 0)
	require.NoError(t, err)
	assert.Equal(t, "W2", qf.Player1)
	assert.Equal(t, "W4", qf.Player2)

	r16, err := b.Match(models.RoundR16, 0)
	require.NoError(t, err)
	require.NotNil(t, r16.MarginLabel)
	assert.Equal(t, "2 and 1", *r16.MarginLabel)
}

func TestBracketUnlockCascades(t *testing.T) {
	b := testBracket(t)
	decideAll(t, b)

	// Unlocking an R16 slot resets every downstream decision that fed on
	// its winner, all the way to the Final.
	reset, err := b.Unlock(models.RoundR16, 0)
	require.NoError(t, err)
	assert.Equal(t, []SlotRef{
		{Round: models.RoundR16, Slot: 0},
		{Round: models.RoundQF, Slot: 0},
		{Round: models.RoundSF, Slot: 0},
		{Round: models.RoundFinal, Slot: 0},
	}, reset)

	// Untouched subtrees keep their decisions.
	m, err := b.Match(models.RoundQF, 1)
	require.NoError(t, err)
	assert.True(t, m.Decided())

	// Slots downstream of the unlock have no entrants until it is
	// re-decided.
	sf, err := b.Match(models.RoundSF, 0)
	require.NoError(t, err)
	assert.Empty(t, sf.Player1)
	assert.Empty(t, sf.Player2)

	// Unlocking an undecided slot is a no-op.
	again, err := b.Unlock(models.RoundR16, 0)
	require.NoError(t, err)
	assert.Nil(t, again)
}

func TestBracketUnlockThenReplay(t *testing.T) {
	b := testBracket(t)
	decideAll(t, b)

	_, err := b.Unlock(models.RoundR16, 0)
	require.NoError(t, err)

	// Flip the corrected match the other way and replay the subtree.
	require.NoError(t, b.Decide(models.RoundR16, 0, "W2", nil))
	qf, err := b.Match(models.RoundQF, 0)
	require.NoError(t, err)
	assert.Equal(t, "W2", qf.Player1)
	assert.Equal(t, "W3", qf.Player2)

	require.NoError(t, b.Decide(models.RoundQF, 0, "W2", nil))
	require.NoError(t, b.Decide(models.RoundSF, 0, "W2", nil))
	require.NoError(t, b.Decide(models.RoundFinal, 0, "W2", nil))

	snap, err := b.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, "W2", snap.Champion)
}

func TestBracketSnapshot(t *testing.T) {
	b := testBracket(t)

	_, err := b.Snapshot()
	assert.ErrorIs(t, err, ErrFinalNotDecided)

	decideAll(t, b)
	snap, err := b.Snapshot()
	require.NoError(t, err)

	assert.Equal(t, []string{"W1", "W3", "W5", "W7"}, snap.R16Left)
	assert.Equal(t, []string{"W9", "W11", "W13", "R2"}, snap.R16Right)
	assert.Equal(t, []string{"W1", "W5"}, snap.QFLeft)
	assert.Equal(t, []string{"W9", "W13"}, snap.QFRight)
	assert.Equal(t, []string{"W1"}, snap.SFLeft)
	assert.Equal(t, []string{"W9"}, snap.SFRight)
	assert.Equal(t, "W1", snap.Champion)
}

func TestRestoreBracket(t *testing.T) {
	b := testBracket(t)
	w1, w3 := "W1", "W3"
	require.NoError(t, b.Decide(models.RoundR16, 0, w1, nil))
	require.NoError(t, b.Decide(models.RoundR16, 1, w3, nil))
	require.NoError(t, b.Decide(models.RoundQF, 0, w3, nil))

	restored, err := RestoreBracket(b.Entrants, b.Matches())
	require.NoError(t, err)
	assert.Equal(t, b.Matches(), restored.Matches())

	// Restored state enforces the same feeder guard.
	err = restored.Decide(models.RoundSF, 0, w3, nil)
	assert.ErrorIs(t, err, ErrFeedersIncomplete)

	t.Run("rejects bad slots", func(t *testing.T) {
		_, err := RestoreBracket(b.Entrants, []models.BracketMatch{
			{Round: models.RoundQF, SlotIndex: 9},
		})
		assert.ErrorIs(t, err, ErrSlotOutOfRange)

		_, err = RestoreBracket(b.Entrants, []models.BracketMatch{
			{Round: models.Round("quarter"), SlotIndex: 0},
		})
		assert.ErrorIs(t, err, ErrUnknownRound)
	})
}

func TestRestoreBracketRejectsInconsistentState(t *testing.T) {
	b := testBracket(t)

	t.Run("decided ahead of feeders", func(t *testing.T) {
		// A lone decided Final can never come out of Decide; restoring
		// it must fail instead of feeding Snapshot undecided slots.
		w := "W1"
		_, err := RestoreBracket(b.Entrants, []models.BracketMatch{
			{Round: models.RoundFinal, SlotIndex: 0, Winner: &w},
		})
		assert.ErrorIs(t, err, ErrInconsistentState)
	})

	t.Run("winner not a feeder winner", func(t *testing.T) {
		played := testBracket(t)
		decideAll(t, played)
		matches := played.Matches()
		ghost := "W3"
		for i := range matches {
			if matches[i].Round == models.RoundSF && matches[i].SlotIndex == 0 {
				matches[i].Winner = &ghost
			}
		}
		_, err := RestoreBracket(played.Entrants, matches)
		assert.ErrorIs(t, err, ErrInconsistentState)
	})

	t.Run("r16 winner not an entrant", func(t *testing.T) {
		ghost := "Nobody"
		_, err := RestoreBracket(b.Entrants, []models.BracketMatch{
			{Round: models.RoundR16, SlotIndex: 0, Player1: "W1", Player2: "W2", Winner: &ghost},
		})
		assert.ErrorIs(t, err, ErrInconsistentState)
	})
}

func TestBracketMatchesOrder(t *testing.T) {
	b := testBracket(t)
	all := b.Matches()
	require.Len(t, all, 15)
	for i, m := range all {
		var want models.Round
		switch {
		case i < 8:
			want = models.RoundR16
		case i < 12:
			want = models.RoundQF
		case i < 14:
			want = models.RoundSF
		default:
			want = models.RoundFinal
		}
		assert.Equal(t, want, m.Round, fmt.Sprintf("index %d", i))
	}
}
