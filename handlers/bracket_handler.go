package handlers

import (
	"net/http"

	"github.com/fairwaycup/matchplay/models"
	"github.com/fairwaycup/matchplay/services"
)

type BracketHandler struct {
	bracketService services.BracketService
}

func NewBracketHandler(bracketService services.BracketService) *BracketHandler {
	return &BracketHandler{bracketService: bracketService}
}

func (h *BracketHandler) GetBracket(w http.ResponseWriter, r *http.Request) {
	view, err := h.bracketService.View(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"bracket": view}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// FinalizeField seeds the knockout field from current standings. Any
// previous knockout progress is wiped.
func (h *BracketHandler) FinalizeField(w http.ResponseWriter, r *http.Request) {
	view, err := h.bracketService.FinalizeField(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"bracket": view}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *BracketHandler) DecideMatch(w http.ResponseWriter, r *http.Request) {
	var input services.DecideMatchInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	view, err := h.bracketService.DecideMatch(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"bracket": view}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *BracketHandler) UnlockMatch(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Round     models.Round `json:"round"`
		SlotIndex int          `json:"slot_index"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	reset, err := h.bracketService.UnlockMatch(r.Context(), input.Round, input.SlotIndex)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"reset": reset}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ConfirmFinal freezes the decided bracket as the official outcome that
// grades predictions.
func (h *BracketHandler) ConfirmFinal(w http.ResponseWriter, r *http.Request) {
	result, err := h.bracketService.ConfirmFinal(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"final_result": result}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
