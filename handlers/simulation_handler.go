package handlers

import (
	"errors"
	"net/http"

	"github.com/fairwaycup/matchplay/simulation"
)

type SimulationHandler struct{}

func NewSimulationHandler() *SimulationHandler {
	return &SimulationHandler{}
}

// GetCourses lists the courses available for duel simulation.
func (h *SimulationHandler) GetCourses(w http.ResponseWriter, r *http.Request) {
	if err := writeJSON(w, http.StatusOK, jsonResponse{"courses": simulation.CourseNames()}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// SimulateDuel runs a Monte Carlo net match-play duel between two
// handicap indexes on a chosen course.
func (h *SimulationHandler) SimulateDuel(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Course  string                 `json:"course"`
		Player1 simulation.PlayerInput `json:"player1"`
		Player2 simulation.PlayerInput `json:"player2"`
		Rounds  int                    `json:"rounds"`
		Seed    int64                  `json:"seed"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	sim, err := simulation.NewSimulator(input.Course, input.Seed)
	if err != nil {
		if errors.Is(err, simulation.ErrUnknownCourse) {
			badRequestResponse(w, r, err)
			return
		}
		serverErrorResponse(w, r, err)
		return
	}
	result, err := sim.Duel(input.Player1, input.Player2, input.Rounds)
	if err != nil {
		if errors.Is(err, simulation.ErrBadInput) {
			badRequestResponse(w, r, err)
			return
		}
		serverErrorResponse(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"duel": result}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
