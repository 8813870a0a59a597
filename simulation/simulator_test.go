package simulation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCourseCatalog(t *testing.T) {
	assert.Equal(t, []string{"Cypress", "Pecan"}, CourseNames())

	cypress, err := CourseByName("Cypress")
	require.NoError(t, err)
	assert.Equal(t, 72, cypress.Par())
	assert.Equal(t, 130.0, cypress.Slope)

	pecan, err := CourseByName("Pecan")
	require.NoError(t, err)
	assert.Equal(t, 72, pecan.Par())

	_, err = CourseByName("Augusta")
	assert.ErrorIs(t, err, ErrUnknownCourse)
}

func TestCourseHandicap(t *testing.T) {
	// 113 slope at a 72.0 rating is the neutral course.
	assert.InDelta(t, 10.0, CourseHandicap(10, 113, 72.0), 1e-9)
	// Steeper slope inflates the index, an above-72 rating adds on top:
	// 10 * (130/113) + 0.3.
	assert.InDelta(t, 11.804, CourseHandicap(10, 130, 72.3), 0.001)
	// A sub-72 rating deducts.
	assert.InDelta(t, 9.3, CourseHandicap(10, 113, 71.3), 1e-9)
}

func TestAllocateStrokes(t *testing.T) {
	s, err := NewSimulator("Cypress", 1)
	require.NoError(t, err)

	t.Run("stronger player gets none", func(t *testing.T) {
		strokes := s.allocateStrokes(4.0, 12.0)
		assert.Equal(t, [18]int{}, strokes)
	})

	t.Run("difference lands on hardest holes", func(t *testing.T) {
		strokes := s.allocateStrokes(12.0, 9.0)
		total := 0
		for _, n := range strokes {
			total += n
		}
		assert.Equal(t, 3, total)
		// Cypress stroke indexes 1, 2, 3 sit on holes 5, 15 and 8.
		assert.Equal(t, 1, strokes[4])
		assert.Equal(t, 1, strokes[14])
		assert.Equal(t, 1, strokes[7])
	})

	t.Run("wraps past eighteen", func(t *testing.T) {
		strokes := s.allocateStrokes(20.0, 0.0)
		assert.Equal(t, 2, strokes[4])
		assert.Equal(t, 2, strokes[14])
		assert.Equal(t, 1, strokes[13])
	})
}

func TestHoleStdDevBuckets(t *testing.T) {
	assert.Equal(t, 0.6, holeStdDev(2))
	assert.Equal(t, 0.8, holeStdDev(7.5))
	assert.Equal(t, 1.4, holeStdDev(31))
	assert.Equal(t, 0.6, holeStdDev(-2))
}

func TestMarginLabel(t *testing.T) {
	assert.Equal(t, "1 up", marginLabel(1, 0))
	assert.Equal(t, "2 up", marginLabel(-2, 0))
	assert.Equal(t, "3 and 2", marginLabel(3, 2))
	assert.Equal(t, "9 and 8", marginLabel(-9, 8))
}

func TestDuel(t *testing.T) {
	s, err := NewSimulator("Pecan", 42)
	require.NoError(t, err)

	res, err := s.Duel(
		PlayerInput{Name: "Alice", HandicapIndex: 5.0},
		PlayerInput{Name: "Bob", HandicapIndex: 18.0},
		2000,
	)
	require.NoError(t, err)

	assert.Equal(t, 2000, res.Rounds)
	assert.Equal(t, 2000, res.Wins1+res.Wins2+res.Ties)
	assert.InDelta(t, 100.0, res.Win1Pct()+res.Win2Pct()+res.TiePct(), 1e-9)

	// With full stroke allocation the duel stays competitive: neither
	// side should sweep a 2000-match sample.
	assert.Greater(t, res.Wins1, 0)
	assert.Greater(t, res.Wins2, 0)

	total := 0
	for _, m := range res.Margins {
		assert.NotEmpty(t, m.Margin)
		total += m.Count
	}
	assert.Equal(t, res.Wins1+res.Wins2, total)
}

func TestDuelDeterministicWithSeed(t *testing.T) {
	run := func() *DuelResult {
		s, err := NewSimulator("Cypress", 7)
		require.NoError(t, err)
		res, err := s.Duel(
			PlayerInput{Name: "Alice", HandicapIndex: 8.0},
			PlayerInput{Name: "Bob", HandicapIndex: 11.5},
			500,
		)
		require.NoError(t, err)
		return res
	}
	assert.Equal(t, run(), run())
}

func TestDuelValidation(t *testing.T) {
	s, err := NewSimulator("Cypress", 1)
	require.NoError(t, err)

	_, err = s.Duel(PlayerInput{Name: ""}, PlayerInput{Name: "Bob"}, 10)
	assert.ErrorIs(t, err, ErrBadInput)

	_, err = s.Duel(PlayerInput{Name: "Bob"}, PlayerInput{Name: "Bob"}, 10)
	assert.ErrorIs(t, err, ErrBadInput)
}
