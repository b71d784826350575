package recommend

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/socialrhythm/rhythm-backend/internal/common/utils"
	"github.com/socialrhythm/rhythm-backend/internal/geo"
	"github.com/socialrhythm/rhythm-backend/internal/place"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// GetSuggestions handles GET /suggestions?user_id=N with optional
// lat, lng, place_id, limit and alternatives query params.
func (h *Handler) GetSuggestions(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(r.URL.Query().Get("user_id"), 10, 64)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	var location *geo.Coordinates
	latStr, lngStr := r.URL.Query().Get("lat"), r.URL.Query().Get("lng")
	if latStr != "" && lngStr != "" {
		lat, latErr := strconv.ParseFloat(latStr, 64)
		lng, lngErr := strconv.ParseFloat(lngStr, 64)
		if latErr != nil || lngErr != nil {
			utils.RespondWithError(w, http.StatusBadRequest, "Invalid coordinates")
			return
		}
		location = &geo.Coordinates{Lat: lat, Lng: lng}
	}

	opts := Options{}
	if v := r.URL.Query().Get("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			opts.MaxSuggestions = parsed
		}
	}
	if v := r.URL.Query().Get("alternatives"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			opts.MaxAlternatives = parsed
		}
	}

	suggestions, err := h.service.SuggestionsForUser(
		r.Context(), userID, location, r.URL.Query().Get("place_id"), opts,
	)
	if err != nil {
		if errors.Is(err, place.ErrNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate suggestions")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, suggestions)
}

// RefreshPlaces handles POST /suggestions/refresh.
func (h *Handler) RefreshPlaces(w http.ResponseWriter, r *http.Request) {
	if err := h.service.RefreshPlaces(r.Context()); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to refresh place list")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "refreshed"})
}
