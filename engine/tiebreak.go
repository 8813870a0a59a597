package engine

import (
	"sort"

	"github.com/fairwaycup/matchplay/models"
)

// PodPlaces holds a pod's resolved finishing order. Second is the zero
// row when the pod cannot produce a runner-up.
type PodPlaces struct {
	Pod       string             `json:"pod"`
	First     models.StandingsRow `json:"first"`
	Second    models.StandingsRow `json:"second"`
	HasSecond bool               `json:"has_second"`
}

// PendingTie names the players still tied for a pod place. An admin
// selection naming one of them resolves it.
type PendingTie struct {
	Pod     string       `json:"pod"`
	Place   models.Place `json:"place"`
	Players []string     `json:"players"`
}

// Resolution is the outcome of a tiebreak pass. The resolver is
// re-entrant: call it again with more selections as they trickle in.
type Resolution struct {
	Places []PodPlaces `json:"places"`
	// Pending lists ties that still need a human selection.
	Pending []PendingTie `json:"pending,omitempty"`
	// NotReady lists pods with no entered results; they are excluded
	// from both readiness and seeding.
	NotReady []string `json:"not_ready,omitempty"`
	// NoRunnerUp lists pods where fewer than two players have played,
	// so no 2nd place exists.
	NoRunnerUp []string `json:"no_runner_up,omitempty"`
}

// Resolved reports whether every pod with entered results has both
// places determined.
func (r *Resolution) Resolved() bool {
	return len(r.Pending) == 0
}

// PlacesFor returns the resolved places for a pod, if present.
func (r *Resolution) PlacesFor(pod string) (PodPlaces, bool) {
	for _, p := range r.Places {
		if p.Pod == pod {
			return p, true
		}
	}
	return PodPlaces{}, false
}

// ResolveTiebreaks determines 1st and 2nd place for every pod.
// standings maps pod name to its computed rows; selections are the
// admin choices made so far. No ambient state: the same inputs always
// produce the same resolution.
func ResolveTiebreaks(standings map[string][]models.StandingsRow, selections []models.TiebreakSelection) Resolution {
	var res Resolution

	pods := make([]string, 0, len(standings))
	for pod := range standings {
		pods = append(pods, pod)
	}
	sort.Sort(byPodNumber(pods))

	for _, pod := range pods {
		rows := append([]models.StandingsRow(nil), standings[pod]...)
		if playedCount(rows) == 0 {
			res.NotReady = append(res.NotReady, pod)
			continue
		}
		SortStandings(rows)

		first, tiedFirst := pickPlace(rows, selectionFor(selections, pod, models.PlaceFirst))
		if first == nil {
			res.Pending = append(res.Pending, PendingTie{Pod: pod, Place: models.PlaceFirst, Players: tiedFirst})
			continue
		}

		places := PodPlaces{Pod: pod, First: *first}

		if playedCount(rows) < 2 {
			res.NoRunnerUp = append(res.NoRunnerUp, pod)
			res.Places = append(res.Places, places)
			continue
		}

		remaining := make([]models.StandingsRow, 0, len(rows)-1)
		for _, row := range rows {
			if row.Name != first.Name {
				remaining = append(remaining, row)
			}
		}
		second, tiedSecond := pickPlace(remaining, selectionFor(selections, pod, models.PlaceSecond))
		if second == nil {
			res.Pending = append(res.Pending, PendingTie{Pod: pod, Place: models.PlaceSecond, Players: tiedSecond})
			continue
		}
		places.Second = *second
		places.HasSecond = true
		res.Places = append(res.Places, places)
	}

	return res
}

// pickPlace returns the top row if it stands alone on (points, margin),
// or the row named by a valid selection among the tied group. When the
// tie stands it returns nil plus the tied names.
func pickPlace(rows []models.StandingsRow, selected string) (*models.StandingsRow, []string) {
	if len(rows) == 0 {
		return nil, nil
	}
	top := rows[0]
	tied := []models.StandingsRow{top}
	for _, row := range rows[1:] {
		if row.Points == top.Points && row.Margin == top.Margin {
			tied = append(tied, row)
		}
	}
	if len(tied) == 1 {
		return &tied[0], nil
	}
	// A selection only counts if it names one of the tied players.
	for i := range tied {
		if tied[i].Name == selected {
			return &tied[i], nil
		}
	}
	names := make([]string, len(tied))
	for i, row := range tied {
		names[i] = row.Name
	}
	return nil, names
}

func selectionFor(selections []models.TiebreakSelection, pod string, place models.Place) string {
	for _, s := range selections {
		if s.Pod == pod && s.Place == place {
			return s.Player
		}
	}
	return ""
}

func playedCount(rows []models.StandingsRow) int {
	n := 0
	for _, row := range rows {
		if row.Played > 0 {
			n++
		}
	}
	return n
}
