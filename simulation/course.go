package simulation

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownCourse is returned when a duel names a course that is not
// in the catalog.
var ErrUnknownCourse = errors.New("unknown course")

// Course holds the hole-by-hole data a net match needs. StrokeIndex is
// the hole handicap ranking: 1 marks the hardest hole, which receives
// the first allocated stroke.
type Course struct {
	Name        string  `json:"name"`
	Yardages    [18]int `json:"yardages"`
	Pars        [18]int `json:"pars"`
	StrokeIndex [18]int `json:"stroke_index"`
	Slope       float64 `json:"slope"`
	Rating      float64 `json:"rating"`
}

// Par returns the course total par.
func (c Course) Par() int {
	total := 0
	for _, p := range c.Pars {
		total += p
	}
	return total
}

// strokeOrder returns hole indices sorted hardest first.
func (c Course) strokeOrder() [18]int {
	var order [18]int
	for i := range order {
		order[i] = i
	}
	sort.Slice(order[:], func(i, j int) bool {
		return c.StrokeIndex[order[i]] < c.StrokeIndex[order[j]]
	})
	return order
}

var courses = map[string]Course{
	"Cypress": {
		Name:        "Cypress",
		Yardages:    [18]int{367, 355, 504, 164, 366, 539, 125, 387, 346, 338, 525, 398, 353, 128, 418, 163, 397, 426},
		Pars:        [18]int{4, 4, 5, 3, 4, 5, 3, 4, 4, 4, 5, 4, 4, 3, 4, 3, 4, 5},
		StrokeIndex: [18]int{7, 13, 11, 15, 1, 5, 17, 3, 9, 10, 12, 4, 14, 18, 2, 16, 8, 6},
		Slope:       130,
		Rating:      71.3,
	},
	"Pecan": {
		Name:        "Pecan",
		Yardages:    [18]int{349, 488, 328, 179, 420, 539, 167, 396, 437, 375, 542, 358, 137, 353, 480, 189, 424, 388},
		Pars:        [18]int{4, 5, 4, 3, 4, 5, 3, 4, 4, 4, 5, 4, 3, 4, 5, 3, 4, 4},
		StrokeIndex: [18]int{7, 17, 11, 15, 5, 1, 13, 9, 3, 8, 6, 14, 16, 10, 18, 12, 4, 2},
		Slope:       132,
		Rating:      72.0,
	},
}

// CourseByName looks up a course in the catalog.
func CourseByName(name string) (Course, error) {
	c, ok := courses[name]
	if !ok {
		return Course{}, fmt.Errorf("%w: %q", ErrUnknownCourse, name)
	}
	return c, nil
}

// CourseNames lists the catalog in stable order.
func CourseNames() []string {
	names := make([]string, 0, len(courses))
	for name := range courses {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
