package handlers

import (
	"net/http"

	"github.com/fairwaycup/matchplay/engine"
	"github.com/fairwaycup/matchplay/models"
	"github.com/fairwaycup/matchplay/services"
)

type StandingsHandler struct {
	standingsService services.StandingsService
}

func NewStandingsHandler(standingsService services.StandingsService) *StandingsHandler {
	return &StandingsHandler{standingsService: standingsService}
}

func (h *StandingsHandler) GetPods(w http.ResponseWriter, r *http.Request) {
	pods, err := h.standingsService.ListPods(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"pods": pods}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ReplaceRoster swaps a pod's membership during tournament setup.
func (h *StandingsHandler) ReplaceRoster(w http.ResponseWriter, r *http.Request) {
	var input services.ReplaceRosterInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	players, err := h.standingsService.ReplaceRoster(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"players": players}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *StandingsHandler) GetStandings(w http.ResponseWriter, r *http.Request) {
	standings, err := h.standingsService.Standings(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"standings": standings}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetMarginLabels serves the match-play result vocabulary that result
// entry accepts.
func (h *StandingsHandler) GetMarginLabels(w http.ResponseWriter, r *http.Request) {
	if err := writeJSON(w, http.StatusOK, jsonResponse{"margins": engine.MarginLabels()}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *StandingsHandler) GetResultsLog(w http.ResponseWriter, r *http.Request) {
	results, err := h.standingsService.ResultsLog(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"results": results}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *StandingsHandler) RecordResult(w http.ResponseWriter, r *http.Request) {
	var input services.RecordResultInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	result, err := h.standingsService.RecordResult(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"result": result}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *StandingsHandler) DeleteResult(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Pod     string `json:"pod"`
		PlayerA string `json:"player_a"`
		PlayerB string `json:"player_b"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.standingsService.DeleteResult(r.Context(), input.Pod, input.PlayerA, input.PlayerB); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *StandingsHandler) GetTiebreaks(w http.ResponseWriter, r *http.Request) {
	res, err := h.standingsService.TiebreakStatus(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"resolution": res}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *StandingsHandler) ClearTiebreaks(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Pod   string       `json:"pod"`
		Place models.Place `json:"place"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	res, err := h.standingsService.ClearTiebreaks(r.Context(), input.Pod, input.Place)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"resolution": res}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *StandingsHandler) SelectTiebreak(w http.ResponseWriter, r *http.Request) {
	var input models.TiebreakSelection
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	res, err := h.standingsService.SelectTiebreakWinner(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"resolution": res}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
