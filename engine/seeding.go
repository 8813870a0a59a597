package engine

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/fairwaycup/matchplay/models"
)

// DefaultFieldSize is the knockout field the tournament runs with.
const DefaultFieldSize = 16

// FieldConfig controls how the knockout field is assembled.
type FieldConfig struct {
	FieldSize int
	Pairing   PairingPolicy
}

// DefaultFieldConfig returns the tournament's standard configuration.
func DefaultFieldConfig() FieldConfig {
	return FieldConfig{FieldSize: DefaultFieldSize, Pairing: PairingAdjacent}
}

// BuildField assembles the seeded field from a tiebreak resolution:
// every pod winner takes a guaranteed seed, then runner-ups compete
// cross-pod for the remaining wildcard slots.
//
// The operation is atomic: it either returns a complete field of
// exactly cfg.FieldSize distinct entrants, or an error and nothing.
// Wildcard cutoff ties are broken by points, margin, handicap (lowest
// first, missing handicap last), then name.
func BuildField(res Resolution, cfg FieldConfig) ([]models.BracketEntrant, error) {
	if cfg.FieldSize == 0 {
		cfg.FieldSize = DefaultFieldSize
	}
	if len(res.Pending) > 0 {
		tie := res.Pending[0]
		return nil, fmt.Errorf("%w: %s %s between %s", ErrUnresolvedTie, tie.Pod, tie.Place, strings.Join(tie.Players, ", "))
	}
	if len(res.NotReady) > 0 {
		return nil, fmt.Errorf("%w: no completed matches in %s", ErrNotReady, strings.Join(res.NotReady, ", "))
	}

	places := append([]PodPlaces(nil), res.Places...)
	sort.Slice(places, func(i, j int) bool { return PodLess(places[i].Pod, places[j].Pod) })

	field := make([]models.BracketEntrant, 0, cfg.FieldSize)
	for _, p := range places {
		field = append(field, models.BracketEntrant{
			Name:      p.First.Name,
			Handicap:  p.First.Handicap,
			OriginPod: p.Pod,
			Place:     models.PlaceFirst,
		})
	}
	if len(field) > cfg.FieldSize {
		return nil, fmt.Errorf("%w: %d pod winners exceed field of %d", ErrFieldIncomplete, len(field), cfg.FieldSize)
	}

	wildcards := make([]PodPlaces, 0, len(places))
	for _, p := range places {
		if p.HasSecond {
			wildcards = append(wildcards, p)
		}
	}
	sort.Slice(wildcards, func(i, j int) bool {
		return wildcardLess(wildcards[i].Second, wildcards[j].Second)
	})

	need := cfg.FieldSize - len(field)
	if need > len(wildcards) {
		return nil, fmt.Errorf("%w: have %d entrants for a field of %d", ErrFieldIncomplete, len(field)+len(wildcards), cfg.FieldSize)
	}
	for _, p := range wildcards[:need] {
		field = append(field, models.BracketEntrant{
			Name:      p.Second.Name,
			Handicap:  p.Second.Handicap,
			OriginPod: p.Pod,
			Place:     models.PlaceSecond,
		})
	}

	seen := make(map[string]struct{}, len(field))
	for i := range field {
		if _, dup := seen[field[i].Name]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateEntrant, field[i].Name)
		}
		seen[field[i].Name] = struct{}{}
		field[i].Seed = i + 1
	}
	return field, nil
}

// wildcardLess ranks runner-ups for the wildcard slots: points desc,
// margin desc, handicap asc (nil last), name asc.
func wildcardLess(a, b models.StandingsRow) bool {
	if a.Points != b.Points {
		return a.Points > b.Points
	}
	if a.Margin != b.Margin {
		return a.Margin > b.Margin
	}
	switch {
	case a.Handicap != nil && b.Handicap != nil && *a.Handicap != *b.Handicap:
		return *a.Handicap < *b.Handicap
	case a.Handicap != nil && b.Handicap == nil:
		return true
	case a.Handicap == nil && b.Handicap != nil:
		return false
	}
	return a.Name < b.Name
}

// PodLess orders pod names by trailing number when both carry one
// ("Pod 2" before "Pod 10"), falling back to lexical order.
func PodLess(a, b string) bool {
	an, aok := trailingNumber(a)
	bn, bok := trailingNumber(b)
	if aok && bok && an != bn {
		return an < bn
	}
	return a < b
}

func trailingNumber(s string) (int, bool) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(fields[len(fields)-1])
	if err != nil {
		return 0, false
	}
	return n, true
}

type byPodNumber []string

func (p byPodNumber) Len() int           { return len(p) }
func (p byPodNumber) Swap(i, j int)      { p[i], p[j] = p[j], p[i] }
func (p byPodNumber) Less(i, j int) bool { return PodLess(p[i], p[j]) }
