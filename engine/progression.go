package engine

import (
	"fmt"

	"github.com/fairwaycup/matchplay/models"
)

// SlotRef addresses one match slot in the knockout tree.
type SlotRef struct {
	Round models.Round `json:"round"`
	Slot  int          `json:"slot_index"`
}

// Bracket is the knockout state machine: a fixed tree of match slots
// (R16 8, QF 4, SF 2, Final 1) where each slot moves Unplayed ->
// Decided exactly once, and an explicit unlock is the only way back.
//
// The struct is a plain snapshot; all methods are synchronous and keep
// no ambient state. Persisting the result of a mutation is the
// caller's job.
type Bracket struct {
	Entrants []models.BracketEntrant
	rounds   map[models.Round][]models.BracketMatch
}

var roundSequence = []models.Round{models.RoundR16, models.RoundQF, models.RoundSF, models.RoundFinal}

// NewBracket builds a fresh bracket for a complete field: R16 slots are
// paired by policy, later rounds start empty.
func NewBracket(field []models.BracketEntrant, pairing PairingPolicy) (*Bracket, error) {
	r16, err := pairing.PairR16(field)
	if err != nil {
		return nil, err
	}
	b := &Bracket{
		Entrants: field,
		rounds:   emptyRounds(),
	}
	copy(b.rounds[models.RoundR16], r16)
	return b, nil
}

// RestoreBracket rebuilds a bracket from persisted slots. Missing slots
// stay unplayed; out-of-range slots are rejected. Slot sets that could
// not have been produced by Decide, such as a decided match whose
// feeders are undecided, are rejected with ErrInconsistentState so
// later operations can rely on the feeder invariant.
func RestoreBracket(field []models.BracketEntrant, matches []models.BracketMatch) (*Bracket, error) {
	b := &Bracket{
		Entrants: field,
		rounds:   emptyRounds(),
	}
	for _, m := range matches {
		slots, ok := b.rounds[m.Round]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownRound, string(m.Round))
		}
		if m.SlotIndex < 0 || m.SlotIndex >= len(slots) {
			return nil, fmt.Errorf("%w: %s[%d]", ErrSlotOutOfRange, m.Round, m.SlotIndex)
		}
		slots[m.SlotIndex] = m
	}
	if err := b.validate(); err != nil {
		return nil, err
	}
	b.advance()
	return b, nil
}

// validate checks the feeder invariant over the raw restored slots: a
// decided match implies both feeders are decided and its winner is one
// of the feeder winners (or, in R16, one of the seeded players).
func (b *Bracket) validate() error {
	for slot := range b.rounds[models.RoundR16] {
		m := b.rounds[models.RoundR16][slot]
		if m.Decided() && *m.Winner != m.Player1 && *m.Winner != m.Player2 {
			return fmt.Errorf("%w: %s[%d] winner %q is not an entrant", ErrInconsistentState, m.Round, slot, *m.Winner)
		}
	}
	for _, round := range roundSequence[1:] {
		for slot := range b.rounds[round] {
			m := b.rounds[round][slot]
			if !m.Decided() {
				continue
			}
			prev, f1, f2 := feeders(round, slot)
			m1 := b.rounds[prev][f1]
			m2 := b.rounds[prev][f2]
			if !m1.Decided() || !m2.Decided() {
				return fmt.Errorf("%w: %s[%d] decided before its feeders", ErrInconsistentState, round, slot)
			}
			if *m.Winner != *m1.Winner && *m.Winner != *m2.Winner {
				return fmt.Errorf("%w: %s[%d] winner %q is not a feeder winner", ErrInconsistentState, round, slot, *m.Winner)
			}
		}
	}
	return nil
}

func emptyRounds() map[models.Round][]models.BracketMatch {
	rounds := make(map[models.Round][]models.BracketMatch, len(roundSequence))
	for _, r := range roundSequence {
		slots := make([]models.BracketMatch, models.MatchesInRound(r))
		for i := range slots {
			slots[i] = models.BracketMatch{Round: r, SlotIndex: i}
		}
		rounds[r] = slots
	}
	return rounds
}

// Match returns a copy of the addressed slot.
func (b *Bracket) Match(round models.Round, slot int) (models.BracketMatch, error) {
	slots, ok := b.rounds[round]
	if !ok {
		return models.BracketMatch{}, fmt.Errorf("%w: %q", ErrUnknownRound, string(round))
	}
	if slot < 0 || slot >= len(slots) {
		return models.BracketMatch{}, fmt.Errorf("%w: %s[%d]", ErrSlotOutOfRange, round, slot)
	}
	return slots[slot], nil
}

// Matches returns all slots in bracket order (R16 first).
func (b *Bracket) Matches() []models.BracketMatch {
	out := make([]models.BracketMatch, 0, 15)
	for _, r := range roundSequence {
		out = append(out, b.rounds[r]...)
	}
	return out
}

// feeders returns the two previous-round slots that feed the addressed
// match. R16 has none.
func feeders(round models.Round, slot int) (models.Round, int, int) {
	switch round {
	case models.RoundQF:
		return models.RoundR16, slot * 2, slot*2 + 1
	case models.RoundSF:
		return models.RoundQF, slot * 2, slot*2 + 1
	case models.RoundFinal:
		return models.RoundSF, 0, 1
	}
	return "", 0, 0
}

// Decide confirms a winner for a slot. The slot must be undecided, the
// match's entrants must be well-defined (both feeders decided), and the
// winner must be one of them; a winner that no longer matches the
// current feeder state surfaces as ErrUnknownEntrant rather than being
// accepted stale. Ties are rejected at the knockout stage. marginLabel
// is display-only.
func (b *Bracket) Decide(round models.Round, slot int, winner string, marginLabel *string) error {
	slots, ok := b.rounds[round]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownRound, string(round))
	}
	if slot < 0 || slot >= len(slots) {
		return fmt.Errorf("%w: %s[%d]", ErrSlotOutOfRange, round, slot)
	}
	m := &slots[slot]
	if m.Decided() {
		return fmt.Errorf("%w: %s[%d]", ErrAlreadyDecided, round, slot)
	}
	if winner == models.WinnerTie || winner == "" {
		return ErrTieNotAllowed
	}

	if round != models.RoundR16 {
		prev, f1, f2 := feeders(round, slot)
		m1 := b.rounds[prev][f1]
		m2 := b.rounds[prev][f2]
		if !m1.Decided() || !m2.Decided() {
			return fmt.Errorf("%w: %s[%d]", ErrFeedersIncomplete, round, slot)
		}
		m.Player1 = *m1.Winner
		m.Player2 = *m2.Winner
	}
	if winner != m.Player1 && winner != m.Player2 {
		return fmt.Errorf("%w: %q in %s[%d] (%s vs %s)", ErrUnknownEntrant, winner, round, slot, m.Player1, m.Player2)
	}

	m.Winner = &winner
	m.MarginLabel = marginLabel
	b.advance()
	return nil
}

// Unlock reverts a decided slot to unplayed and cascades the reset to
// every later-round slot that consumed its winner (a reachability walk
// down the dependency tree). It returns every slot that was reset,
// starting with the addressed one; an already-unplayed slot yields nil.
func (b *Bracket) Unlock(round models.Round, slot int) ([]SlotRef, error) {
	slots, ok := b.rounds[round]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownRound, string(round))
	}
	if slot < 0 || slot >= len(slots) {
		return nil, fmt.Errorf("%w: %s[%d]", ErrSlotOutOfRange, round, slot)
	}
	if !slots[slot].Decided() {
		return nil, nil
	}

	var reset []SlotRef
	b.reset(round, slot, &reset)
	b.advance()
	return reset, nil
}

func (b *Bracket) reset(round models.Round, slot int, acc *[]SlotRef) {
	m := &b.rounds[round][slot]
	if !m.Decided() {
		return
	}
	m.Winner = nil
	m.MarginLabel = nil
	*acc = append(*acc, SlotRef{Round: round, Slot: slot})
	if next := models.NextRound(round); next != "" {
		b.reset(next, slot/2, acc)
	}
}

// advance fills in the entrants of every slot whose feeders are both
// decided, and clears entrants where they are not. Decisions are never
// touched here; only the derived player fields.
func (b *Bracket) advance() {
	for _, round := range roundSequence[1:] {
		for slot := range b.rounds[round] {
			m := &b.rounds[round][slot]
			prev, f1, f2 := feeders(round, slot)
			m1 := b.rounds[prev][f1]
			m2 := b.rounds[prev][f2]
			if m1.Decided() && m2.Decided() {
				m.Player1 = *m1.Winner
				m.Player2 = *m2.Winner
			} else {
				m.Player1 = ""
				m.Player2 = ""
			}
		}
	}
}

// Snapshot flattens the fully-decided bracket into the FinalResult
// record that grades predictions. It fails until the Final is decided;
// a decided Final implies every earlier slot is decided too.
func (b *Bracket) Snapshot() (*models.FinalResult, error) {
	final := b.rounds[models.RoundFinal][0]
	if !final.Decided() {
		return nil, ErrFinalNotDecided
	}
	winners := func(round models.Round, from, to int) []string {
		out := make([]string, 0, to-from)
		for slot := from; slot < to; slot++ {
			out = append(out, *b.rounds[round][slot].Winner)
		}
		return out
	}
	return &models.FinalResult{
		R16Left:  winners(models.RoundR16, 0, 4),
		R16Right: winners(models.RoundR16, 4, 8),
		QFLeft:   winners(models.RoundQF, 0, 2),
		QFRight:  winners(models.RoundQF, 2, 4),
		SFLeft:   winners(models.RoundSF, 0, 1),
		SFRight:  winners(models.RoundSF, 1, 2),
		Champion: *final.Winner,
	}, nil
}
