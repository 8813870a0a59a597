package models

import "time"

// Round identifies one of the four single-elimination rounds.
type Round string

const (
	RoundR16   Round = "r16"
	RoundQF    Round = "qf"
	RoundSF    Round = "sf"
	RoundFinal Round = "final"
)

// MatchesInRound returns how many slots a round has in a 16-player
// bracket, or 0 for an unknown round.
func MatchesInRound(r Round) int {
	switch r {
	case RoundR16:
		return 8
	case RoundQF:
		return 4
	case RoundSF:
		return 2
	case RoundFinal:
		return 1
	}
	return 0
}

// NextRound returns the round fed by r, or "" for the final.
func NextRound(r Round) Round {
	switch r {
	case RoundR16:
		return RoundQF
	case RoundQF:
		return RoundSF
	case RoundSF:
		return RoundFinal
	}
	return ""
}

// BracketEntrant is one of the 16 seeds. The set is created whole at
// finalization and replaced whole on re-finalization.
type BracketEntrant struct {
	Seed      int      `json:"seed" db:"seed"`
	Name      string   `json:"name" db:"name"`
	Handicap  *float64 `json:"handicap,omitempty" db:"handicap"`
	OriginPod string   `json:"origin_pod" db:"origin_pod"`
	Place     Place    `json:"place" db:"place"`
}

// BracketMatch is one slot in the knockout tree. Winner is nil until
// the admin decides the match; MarginLabel ("2 and 1", ...) is display
// only and carries no scoring weight.
type BracketMatch struct {
	Round       Round   `json:"round" db:"round"`
	SlotIndex   int     `json:"slot_index" db:"slot_index"`
	Player1     string  `json:"player1" db:"player1"`
	Player2     string  `json:"player2" db:"player2"`
	Winner      *string `json:"winner,omitempty" db:"winner"`
	MarginLabel *string `json:"margin_label,omitempty" db:"margin_label"`
}

// Decided reports whether the slot has a confirmed winner.
func (m *BracketMatch) Decided() bool {
	return m != nil && m.Winner != nil && *m.Winner != ""
}

// FinalResult is the confirmed actual outcome of every round, written
// when the Final's winner is confirmed. It is the sole scoring oracle
// for predictions.
type FinalResult struct {
	ID        int       `json:"id" db:"id"`
	R16Left   []string  `json:"r16_left" db:"r16_left"`
	R16Right  []string  `json:"r16_right" db:"r16_right"`
	QFLeft    []string  `json:"qf_left" db:"qf_left"`
	QFRight   []string  `json:"qf_right" db:"qf_right"`
	SFLeft    []string  `json:"sf_left" db:"sf_left"`
	SFRight   []string  `json:"sf_right" db:"sf_right"`
	Champion  string    `json:"champion" db:"champion"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
