package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/tripatlas/destinations/internal/domain"
)

// Register creates a new user account and returns a fresh bearer token.
func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Validation Error", "Invalid JSON format")
		return
	}

	resp, err := h.authService.Register(r.Context(), &req)
	if err != nil {
		handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

// Login authenticates an existing user and returns a bearer token.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Validation Error", "Invalid JSON format")
		return
	}

	resp, err := h.authService.Login(r.Context(), &req)
	if err != nil {
		handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// Me returns the identity resolved by the auth middleware.
func (h *Handlers) Me(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized", "Not authenticated")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"user": user})
}

// DeleteAccount removes the authenticated user and all their destinations.
func (h *Handlers) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized", "Not authenticated")
		return
	}

	if err := h.authService.DeleteAccount(r.Context(), user.ID); err != nil {
		handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Account deleted"})
}
