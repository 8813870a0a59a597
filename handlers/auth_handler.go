package handlers

import (
	"context"
	"net/http"

	"github.com/fairwaycup/matchplay/services"
)

type AuthHandler struct {
	authService services.AuthService
}

func NewAuthHandler(authService services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// LoginViewer exchanges the shared tournament password for a viewer
// token.
func (h *AuthHandler) LoginViewer(w http.ResponseWriter, r *http.Request) {
	h.login(w, r, h.authService.LoginViewer)
}

// LoginAdmin exchanges the admin password for an admin token.
func (h *AuthHandler) LoginAdmin(w http.ResponseWriter, r *http.Request) {
	h.login(w, r, h.authService.LoginAdmin)
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request, fn func(context.Context, services.LoginInput) (string, error)) {
	var input services.LoginInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	token, err := fn(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"token": token}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
