package place

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/socialrhythm/rhythm-backend/internal/common/utils"
	"github.com/socialrhythm/rhythm-backend/internal/geo"
)

const defaultNearbyRadiusMeters = 2000.0

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) CreatePlace(w http.ResponseWriter, r *http.Request) {
	var dto CreatePlaceDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := dto.Validate(); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	p, err := h.service.CreatePlace(r.Context(), &dto)
	if err != nil {
		if errors.Is(err, ErrInvalidCategory) {
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create place")
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, p)
}

func (h *Handler) GetPlace(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	p, err := h.service.GetPlace(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to get place")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, p)
}

func (h *Handler) UpdatePlace(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var dto UpdatePlaceDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := dto.Validate(); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	p, err := h.service.UpdatePlace(r.Context(), id, &dto)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, ErrInvalidCategory):
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update place")
		}
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, p)
}

func (h *Handler) DeletePlace(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.service.DeletePlace(r.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to delete place")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handler) ListPlaces(w http.ResponseWriter, r *http.Request) {
	category := Category(r.URL.Query().Get("category"))

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}

	places, err := h.service.ListPlaces(r.Context(), category, limit)
	if err != nil {
		if errors.Is(err, ErrInvalidCategory) {
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to list places")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, places)
}

// NearbyPlaces handles GET /places/nearby?lat=&lng=&radius_meters=&category=.
func (h *Handler) NearbyPlaces(w http.ResponseWriter, r *http.Request) {
	lat, latErr := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	lng, lngErr := strconv.ParseFloat(r.URL.Query().Get("lng"), 64)
	if latErr != nil || lngErr != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "lat and lng are required")
		return
	}

	radius := defaultNearbyRadiusMeters
	if v := r.URL.Query().Get("radius_meters"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed > 0 {
			radius = parsed
		}
	}

	results, err := h.service.NearbyPlaces(
		r.Context(),
		geo.Coordinates{Lat: lat, Lng: lng},
		radius,
		Category(r.URL.Query().Get("category")),
	)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to search nearby places")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, results)
}

func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var dto UpdateStatusDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := dto.Validate(); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	status := Status{
		IsOpen:        dto.IsOpen,
		QueueLength:   dto.QueueLength,
		EstimatedWait: dto.EstimatedWait,
		Density:       dto.Density,
	}
	if err := h.service.UpdateStatus(r.Context(), id, status); err != nil {
		if errors.Is(err, ErrNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update place status")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}
