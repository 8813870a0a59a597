package models

// StandingsRow is a derived view over a pod's match results. It is
// recomputed on demand and never persisted as authoritative.
//
// Margin is the tiebreak convention from the scorecard, not a true
// score differential: a win adds the entered margin, a loss subtracts
// it, a tie leaves it untouched.
type StandingsRow struct {
	Name     string   `json:"name"`
	Handicap *float64 `json:"handicap,omitempty"`
	Points   float64  `json:"points"`
	Margin   int      `json:"margin"`
	Played   int      `json:"played"`
}

// Place identifies which pod finishing position a tiebreak selection
// applies to.
type Place string

const (
	PlaceFirst  Place = "1st"
	PlaceSecond Place = "2nd"
)

// TiebreakSelection records an admin's choice between players tied on
// (points, margin) for a pod place. It exists only while a real tie
// exists; seeding cannot proceed for the pod without it.
type TiebreakSelection struct {
	Pod    string `json:"pod" db:"pod"`
	Place  Place  `json:"place" db:"place"`
	Player string `json:"player" db:"player"`
}
