package models

import (
	"strings"
	"time"
)

// Prediction is one submitter's full bracket slate. Exactly one
// prediction is allowed per distinct name (case-insensitive); the
// submission timestamp breaks leaderboard ties.
type Prediction struct {
	ID          int       `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	R16Left     []string  `json:"r16_left" db:"r16_left"`
	R16Right    []string  `json:"r16_right" db:"r16_right"`
	QFLeft      []string  `json:"qf_left" db:"qf_left"`
	QFRight     []string  `json:"qf_right" db:"qf_right"`
	SFLeft      []string  `json:"sf_left" db:"sf_left"`
	SFRight     []string  `json:"sf_right" db:"sf_right"`
	Champion    string    `json:"champion" db:"champion"`
	SubmittedAt time.Time `json:"submitted_at" db:"submitted_at"`
}

// NormalizedName returns the case-folded key used for duplicate
// detection.
func (p *Prediction) NormalizedName() string {
	return strings.ToLower(strings.TrimSpace(p.Name))
}
