package simulation

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/fairwaycup/matchplay/engine"
)

const DefaultRounds = 10000

var ErrBadInput = errors.New("bad simulation input")

// PlayerInput describes one side of a duel.
type PlayerInput struct {
	Name          string  `json:"name"`
	HandicapIndex float64 `json:"handicap_index"`
}

// Options configures a duel run.
type Options struct {
	Course string `json:"course"`
	Rounds int    `json:"rounds"`
	Seed   int64  `json:"seed"`
}

// MarginCount is one victory margin with its frequency across the run.
type MarginCount struct {
	Margin string `json:"margin"`
	Count  int    `json:"count"`
}

// DuelResult aggregates a Monte Carlo run of net match-play duels.
type DuelResult struct {
	Course  string        `json:"course"`
	Player1 string        `json:"player1"`
	Player2 string        `json:"player2"`
	Rounds  int           `json:"rounds"`
	Wins1   int           `json:"player1_wins"`
	Wins2   int           `json:"player2_wins"`
	Ties    int           `json:"ties"`
	Margins []MarginCount `json:"margins"`
}

func (r DuelResult) Win1Pct() float64 { return 100 * float64(r.Wins1) / float64(r.Rounds) }
func (r DuelResult) Win2Pct() float64 { return 100 * float64(r.Wins2) / float64(r.Rounds) }
func (r DuelResult) TiePct() float64  { return 100 * float64(r.Ties) / float64(r.Rounds) }

// CourseHandicap converts a handicap index to strokes on a given
// course: index scaled by slope/113, adjusted by rating against par 72.
func CourseHandicap(index, slope, rating float64) float64 {
	return index*(slope/113) + (rating - 72)
}

// Simulator runs net match-play duels on a course. Not safe for
// concurrent use; each caller gets its own instance.
type Simulator struct {
	course Course
	rng    *rand.Rand
}

// NewSimulator builds a simulator for the named course. A zero seed
// asks for a random run; pass a fixed seed for reproducibility.
func NewSimulator(courseName string, seed int64) (*Simulator, error) {
	course, err := CourseByName(courseName)
	if err != nil {
		return nil, err
	}
	src := rand.NewSource(seed)
	if seed == 0 {
		src = rand.NewSource(rand.Int63())
	}
	return &Simulator{course: course, rng: rand.New(src)}, nil
}

// Duel runs the requested number of simulated matches and
// aggregates outcomes and victory margins.
func (s *Simulator) Duel(p1, p2 PlayerInput, rounds int) (*DuelResult, error) {
	if p1.Name == "" || p2.Name == "" {
		return nil, fmt.Errorf("%w: both players need a name", ErrBadInput)
	}
	if p1.Name == p2.Name {
		return nil, fmt.Errorf("%w: a player cannot duel themselves", ErrBadInput)
	}
	if rounds <= 0 {
		rounds = DefaultRounds
	}

	hcp1 := CourseHandicap(p1.HandicapIndex, s.course.Slope, s.course.Rating)
	hcp2 := CourseHandicap(p2.HandicapIndex, s.course.Slope, s.course.Rating)
	strokes1 := s.allocateStrokes(hcp1, hcp2)
	strokes2 := s.allocateStrokes(hcp2, hcp1)

	res := &DuelResult{
		Course:  s.course.Name,
		Player1: p1.Name,
		Player2: p2.Name,
		Rounds:  rounds,
	}
	margins := make(map[string]int)
	for i := 0; i < rounds; i++ {
		lead, remaining := s.playMatch(p1.HandicapIndex, p2.HandicapIndex, strokes1, strokes2)
		switch {
		case lead > 0:
			res.Wins1++
		case lead < 0:
			res.Wins2++
		default:
			res.Ties++
			continue
		}
		margins[marginLabel(lead, remaining)]++
	}
	res.Margins = sortMargins(margins)
	return res, nil
}

// allocateStrokes gives the weaker player their stroke difference on
// the hardest holes, wrapping past 18 for very large differences. The
// stronger player plays off scratch.
func (s *Simulator) allocateStrokes(own, opp float64) [18]int {
	var strokes [18]int
	diff := int(math.Round(own - opp))
	if diff <= 0 {
		return strokes
	}
	order := s.course.strokeOrder()
	for i := 0; i < diff; i++ {
		strokes[order[i%18]]++
	}
	return strokes
}

// holeStdDev buckets scoring volatility by handicap index: better
// players are steadier hole to hole.
func holeStdDev(index float64) float64 {
	buckets := []float64{0.6, 0.8, 1.0, 1.2, 1.4}
	b := int(index / 5)
	if b < 0 {
		b = 0
	}
	if b >= len(buckets) {
		b = len(buckets) - 1
	}
	return buckets[b]
}

// holeScore draws a gross score for one hole: normal around par plus
// the player's per-hole expectation, truncated to [par-1, par+4] by
// rejection sampling.
func (s *Simulator) holeScore(par int, index float64) int {
	mean := float64(par) + index/18
	sd := holeStdDev(index)
	lower, upper := float64(par-1), float64(par+4)
	for {
		v := s.rng.NormFloat64()*sd + mean
		if v >= lower && v <= upper {
			return int(math.Round(v))
		}
	}
}

// playMatch runs one 18-hole net match and returns the final lead
// (positive favours player 1) and the holes left unplayed after the
// close-out. A full-distance match returns remaining 0.
func (s *Simulator) playMatch(idx1, idx2 float64, strokes1, strokes2 [18]int) (lead, remaining int) {
	for h := 0; h < 18; h++ {
		net1 := s.holeScore(s.course.Pars[h], idx1) - strokes1[h]
		net2 := s.holeScore(s.course.Pars[h], idx2) - strokes2[h]
		if net1 < net2 {
			lead++
		} else if net2 < net1 {
			lead--
		}
		remaining = 17 - h
		if abs(lead) > remaining {
			return lead, remaining
		}
	}
	return lead, 0
}

// marginLabel renders a close-out in match-play notation. A win with
// holes to spare reads "3 and 2"; a win at the last reads "1 up".
func marginLabel(lead, remaining int) string {
	up := abs(lead)
	if remaining == 0 {
		return fmt.Sprintf("%d up", up)
	}
	return fmt.Sprintf("%d and %d", up, remaining)
}

// sortMargins orders margins from the narrowest win upward, using the
// shared margin scale where it applies and falling back to the label.
func sortMargins(counts map[string]int) []MarginCount {
	out := make([]MarginCount, 0, len(counts))
	for label, n := range counts {
		out = append(out, MarginCount{Margin: label, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		vi, iok := engine.MarginValue(out[i].Margin)
		vj, jok := engine.MarginValue(out[j].Margin)
		if iok && jok && vi != vj {
			return vi < vj
		}
		return out[i].Margin < out[j].Margin
	})
	return out
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
