package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fairwaycup/matchplay/services"
)

type PredictionHandler struct {
	predictionService services.PredictionService
}

func NewPredictionHandler(predictionService services.PredictionService) *PredictionHandler {
	return &PredictionHandler{predictionService: predictionService}
}

func (h *PredictionHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var input services.SubmitPredictionInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	pred, err := h.predictionService.Submit(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"prediction": pred}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetPrediction lets a participant pull their submitted slate back up.
func (h *PredictionHandler) GetPrediction(w http.ResponseWriter, r *http.Request) {
	pred, err := h.predictionService.Get(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"prediction": pred}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *PredictionHandler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	snap, err := h.predictionService.Leaderboard(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"leaderboard": snap}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// RefreshLeaderboard forces a regrade outside the scheduled cadence.
func (h *PredictionHandler) RefreshLeaderboard(w http.ResponseWriter, r *http.Request) {
	snap, err := h.predictionService.Refresh(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"leaderboard": snap}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
