package models

import "time"

// WinnerTie is stored in MatchResult.Winner when a group-stage match is
// halved. Knockout matches never carry it.
const WinnerTie = "Tie"

// MatchResult is one head-to-head group-stage result. PlayerA and
// PlayerB are kept in sorted order so the unordered pair forms the
// natural key (pod, player_a, player_b); a later submission for the
// same pair replaces the earlier one.
type MatchResult struct {
	ID        int       `json:"id" db:"id"`
	Pod       string    `json:"pod" db:"pod"`
	PlayerA   string    `json:"player_a" db:"player_a"`
	PlayerB   string    `json:"player_b" db:"player_b"`
	Winner    string    `json:"winner" db:"winner"`
	Margin    int       `json:"margin" db:"margin"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// NormalizePair orders the pair so (PlayerA, PlayerB) is the canonical
// key regardless of entry order.
func (m *MatchResult) NormalizePair() {
	if m.PlayerA > m.PlayerB {
		m.PlayerA, m.PlayerB = m.PlayerB, m.PlayerA
	}
}

// Involves reports whether the named player is one of the two
// participants.
func (m *MatchResult) Involves(name string) bool {
	return m.PlayerA == name || m.PlayerB == name
}

// IsTie reports whether the match was halved.
func (m *MatchResult) IsTie() bool {
	return m.Winner == WinnerTie
}
