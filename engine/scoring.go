package engine

import (
	"sort"
	"time"

	"github.com/fairwaycup/matchplay/models"
)

// Per-correct-slot weights by round. The champion pick is a single
// 10-point slot.
const (
	PointsR16      = 1
	PointsQF       = 3
	PointsSF       = 5
	PointsChampion = 10
)

// ScorePrediction grades a slate against the confirmed outcome.
// Scoring is positional: the pick for slot k earns points only if it
// matches the actual winner of slot k; the right player in the wrong
// slot is worth nothing. Left and right halves score independently and
// sum.
func ScorePrediction(pred *models.Prediction, actual *models.FinalResult) int {
	if pred == nil || actual == nil {
		return 0
	}
	score := 0
	score += scoreSlots(pred.R16Left, actual.R16Left, PointsR16)
	score += scoreSlots(pred.R16Right, actual.R16Right, PointsR16)
	score += scoreSlots(pred.QFLeft, actual.QFLeft, PointsQF)
	score += scoreSlots(pred.QFRight, actual.QFRight, PointsQF)
	score += scoreSlots(pred.SFLeft, actual.SFLeft, PointsSF)
	score += scoreSlots(pred.SFRight, actual.SFRight, PointsSF)
	if pred.Champion != "" && pred.Champion == actual.Champion {
		score += PointsChampion
	}
	return score
}

func scoreSlots(picks, winners []string, weight int) int {
	n := len(picks)
	if len(winners) < n {
		n = len(winners)
	}
	score := 0
	for i := 0; i < n; i++ {
		if picks[i] != "" && picks[i] == winners[i] {
			score += weight
		}
	}
	return score
}

// LeaderboardRow is one graded prediction with its 1-indexed rank.
type LeaderboardRow struct {
	Rank        int       `json:"rank"`
	Name        string    `json:"name"`
	Score       int       `json:"score"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// RankLeaderboard grades every prediction and orders them: score
// descending, then submission time ascending (tie goes to the earlier
// submission). Ranks are sequential, not dense: equal scores still get
// distinct positions.
func RankLeaderboard(preds []*models.Prediction, actual *models.FinalResult) []LeaderboardRow {
	rows := make([]LeaderboardRow, 0, len(preds))
	for _, p := range preds {
		rows = append(rows, LeaderboardRow{
			Name:        p.Name,
			Score:       ScorePrediction(p, actual),
			SubmittedAt: p.SubmittedAt,
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Score != rows[j].Score {
			return rows[i].Score > rows[j].Score
		}
		if !rows[i].SubmittedAt.Equal(rows[j].SubmittedAt) {
			return rows[i].SubmittedAt.Before(rows[j].SubmittedAt)
		}
		return rows[i].Name < rows[j].Name
	})
	for i := range rows {
		rows[i].Rank = i + 1
	}
	return rows
}
