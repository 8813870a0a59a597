package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairwaycup/matchplay/models"
)

func confirmedOutcome() *models.FinalResult {
	return &models.FinalResult{
		R16Left:  []string{"Alice", "Bob", "Carol", "Dave"},
		R16Right: []string{"Erin", "Frank", "Grace", "Heidi"},
		QFLeft:   []string{"Alice", "Carol"},
		QFRight:  []string{"Erin", "Grace"},
		SFLeft:   []string{"Alice"},
		SFRight:  []string{"Erin"},
		Champion: "Alice",
	}
}

func TestScorePredictionPositional(t *testing.T) {
	actual := confirmedOutcome()

	// Three of four left R16 picks match their slot. "Zed" in slot 1 is
	// worth nothing even though the other picks line up.
	pred := &models.Prediction{
		R16Left: []string{"Alice", "Zed", "Carol", "Dave"},
	}
	assert.Equal(t, 3, ScorePrediction(pred, actual))

	// The right player in the wrong slot also earns nothing.
	shuffled := &models.Prediction{
		R16Left: []string{"Bob", "Alice", "Dave", "Carol"},
	}
	assert.Equal(t, 0, ScorePrediction(shuffled, actual))
}

func TestScorePredictionWeights(t *testing.T) {
	actual := confirmedOutcome()

	t.Run("champion only", func(t *testing.T) {
		pred := &models.Prediction{Champion: "Alice"}
		assert.Equal(t, 10, ScorePrediction(pred, actual))
	})

	t.Run("perfect slate", func(t *testing.T) {
		pred := &models.Prediction{
			R16Left:  actual.R16Left,
			R16Right: actual.R16Right,
			QFLeft:   actual.QFLeft,
			QFRight:  actual.QFRight,
			SFLeft:   actual.SFLeft,
			SFRight:  actual.SFRight,
			Champion: actual.Champion,
		}
		// 8*1 + 4*3 + 2*5 + 10
		assert.Equal(t, 40, ScorePrediction(pred, actual))
	})

	t.Run("rounds weigh independently", func(t *testing.T) {
		pred := &models.Prediction{
			QFRight: []string{"Erin", "Grace"},
			SFLeft:  []string{"Alice"},
		}
		assert.Equal(t, 2*PointsQF+PointsSF, ScorePrediction(pred, actual))
	})

	t.Run("empty slate", func(t *testing.T) {
		assert.Equal(t, 0, ScorePrediction(&models.Prediction{}, actual))
	})
}

func TestRankLeaderboard(t *testing.T) {
	actual := confirmedOutcome()
	base := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	preds := []*models.Prediction{
		{Name: "late", Champion: "Alice", SubmittedAt: base.Add(2 * time.Hour)},
		{Name: "early", Champion: "Alice", SubmittedAt: base},
		{Name: "sharp", R16Left: actual.R16Left, Champion: "Alice", SubmittedAt: base.Add(time.Hour)},
		{Name: "blank", SubmittedAt: base},
	}

	rows := RankLeaderboard(preds, actual)
	require.Len(t, rows, 4)

	assert.Equal(t, "sharp", rows[0].Name)
	assert.Equal(t, 14, rows[0].Score)

	// Equal scores order by earlier submission.
	assert.Equal(t, "early", rows[1].Name)
	assert.Equal(t, "late", rows[2].Name)
	assert.Equal(t, "blank", rows[3].Name)

	// Ranks are sequential even across ties.
	for i, r := range rows {
		assert.Equal(t, i+1, r.Rank)
	}
}

func TestRankLeaderboardEmpty(t *testing.T) {
	rows := RankLeaderboard(nil, confirmedOutcome())
	assert.Empty(t, rows)
}
