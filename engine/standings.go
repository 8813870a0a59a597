package engine

import (
	"sort"

	"github.com/fairwaycup/matchplay/models"
)

// ComputeStandings folds a pod's match results into one row per roster
// player. It is a pure function over its inputs: a win is worth 1 point
// plus the entered margin, a tie 0.5 points with margin untouched, a
// loss subtracts the margin. A player with no matches yields a valid
// zero row.
//
// Results belonging to other pods are ignored, so callers may pass the
// full result set unfiltered.
func ComputeStandings(pod models.Pod, results []models.MatchResult) []models.StandingsRow {
	rows := make([]models.StandingsRow, 0, len(pod.Players))
	for _, player := range pod.Players {
		row := models.StandingsRow{
			Name:     player.Name,
			Handicap: player.Handicap,
		}
		for _, res := range results {
			if res.Pod != pod.Name || !res.Involves(player.Name) {
				continue
			}
			row.Played++
			switch {
			case res.Winner == player.Name:
				row.Points += 1
				row.Margin += res.Margin
			case res.IsTie():
				row.Points += 0.5
			default:
				row.Margin -= res.Margin
			}
		}
		rows = append(rows, row)
	}
	return rows
}

// SortStandings orders rows by points, then margin, both descending,
// with name ascending as a stable final key. The input is sorted in
// place and returned for convenience.
func SortStandings(rows []models.StandingsRow) []models.StandingsRow {
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Points != rows[j].Points {
			return rows[i].Points > rows[j].Points
		}
		if rows[i].Margin != rows[j].Margin {
			return rows[i].Margin > rows[j].Margin
		}
		return rows[i].Name < rows[j].Name
	})
	return rows
}
