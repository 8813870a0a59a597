package engine

import (
	"fmt"

	"github.com/fairwaycup/matchplay/models"
)

// PairingPolicy names the formula that turns the seeded field into R16
// matches. The field is always split into a left half (seeds 1-8) and a
// right half (seeds 9-16); policies differ in how a half is paired.
type PairingPolicy string

const (
	// PairingAdjacent pairs neighbouring seeds within each half:
	// 1v2, 3v4, 5v6, 7v8.
	PairingAdjacent PairingPolicy = "adjacent"
	// PairingSeeded uses bracket-standard pairing within each half:
	// 1v8, 4v5, 2v7, 3v6.
	PairingSeeded PairingPolicy = "seeded"
)

// Valid reports whether the policy is one of the known formulas.
func (p PairingPolicy) Valid() bool {
	return p == PairingAdjacent || p == PairingSeeded
}

// halfOrder returns, per policy, the order in which a half's 8 entrants
// meet: consecutive pairs of the returned indices form matches.
func (p PairingPolicy) halfOrder() []int {
	switch p {
	case PairingSeeded:
		return []int{0, 7, 3, 4, 1, 6, 2, 5}
	default:
		return []int{0, 1, 2, 3, 4, 5, 6, 7}
	}
}

// PairR16 produces the 8 round-of-16 matches for a complete field.
// Slots 0-3 are the left half, 4-7 the right half; this slot layout is
// what the progression engine's feeder arithmetic relies on.
func (p PairingPolicy) PairR16(field []models.BracketEntrant) ([]models.BracketMatch, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPairing, string(p))
	}
	if len(field) != DefaultFieldSize {
		return nil, fmt.Errorf("%w: pairing requires %d entrants, got %d", ErrFieldIncomplete, DefaultFieldSize, len(field))
	}

	order := p.halfOrder()
	matches := make([]models.BracketMatch, 0, 8)
	for half := 0; half < 2; half++ {
		base := half * 8
		for i := 0; i < 8; i += 2 {
			matches = append(matches, models.BracketMatch{
				Round:     models.RoundR16,
				SlotIndex: half*4 + i/2,
				Player1:   field[base+order[i]].Name,
				Player2:   field[base+order[i+1]].Name,
			})
		}
	}
	return matches, nil
}
