package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/tripatlas/destinations/internal/domain"
	"github.com/tripatlas/destinations/internal/service"
)

// ListDestinations returns one page of destinations, optionally filtered by
// type and country code.
func (h *Handlers) ListDestinations(w http.ResponseWriter, r *http.Request) {
	q := service.ListQuery{
		Type:        r.URL.Query().Get("type"),
		CountryCode: r.URL.Query().Get("countryCode"),
	}

	if v := r.URL.Query().Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "Validation Error", "Page must be an integer greater than 0")
			return
		}
		q.Page = n
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 100 {
			writeError(w, http.StatusBadRequest, "Validation Error", "Limit must be an integer between 1 and 100")
			return
		}
		q.Limit = n
	}

	page, err := h.destinationService.List(r.Context(), q)
	if err != nil {
		handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, page)
}

func (h *Handlers) GetDestination(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Validation Error", "Invalid destination ID")
		return
	}

	d, err := h.destinationService.Get(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, d)
}

func (h *Handlers) CreateDestination(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized", "Not authenticated")
		return
	}

	var req domain.CreateDestinationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Validation Error", "Invalid JSON format")
		return
	}

	d, err := h.destinationService.Create(r.Context(), user.ID, &req)
	if err != nil {
		handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, d)
}

func (h *Handlers) UpdateDestination(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized", "Not authenticated")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Validation Error", "Invalid destination ID")
		return
	}

	var patch domain.DestinationPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "Validation Error", "Invalid JSON format")
		return
	}

	d, err := h.destinationService.Update(r.Context(), id, user.ID, patch)
	if err != nil {
		handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, d)
}

func (h *Handlers) DeleteDestination(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized", "Not authenticated")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Validation Error", "Invalid destination ID")
		return
	}

	if err := h.destinationService.Delete(r.Context(), id, user.ID); err != nil {
		handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Destination deleted"})
}
