package models

// Player is one roster entry. Handicap is the player's handicap index,
// kept optional because not every entrant reports one; it only feeds
// wildcard tiebreaks and the duel simulator, never match scoring.
type Player struct {
	ID       int      `json:"id" db:"id"`
	Pod      string   `json:"pod" db:"pod"`
	Name     string   `json:"name" db:"name"`
	Handicap *float64 `json:"handicap,omitempty" db:"handicap"`
}

// Pod is a named round-robin group.
type Pod struct {
	Name    string   `json:"name"`
	Players []Player `json:"players"`
}
