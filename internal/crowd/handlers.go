package crowd

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/socialrhythm/rhythm-backend/internal/common/utils"
	"github.com/socialrhythm/rhythm-backend/internal/place"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// GetPrediction handles GET /places/{id}/crowd?time=RFC3339.
// Missing time defaults to now.
func (h *Handler) GetPrediction(w http.ResponseWriter, r *http.Request) {
	placeID := mux.Vars(r)["id"]

	target := time.Now()
	if raw := r.URL.Query().Get("time"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, "Invalid time, expected RFC3339")
			return
		}
		target = t
	}

	pred, err := h.service.PredictForPlace(r.Context(), placeID, target)
	if err != nil {
		if err == place.ErrNotFound {
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to predict crowd level")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, pred)
}

// GetTrend handles GET /places/{id}/crowd/trend?start=...&end=...&interval_minutes=30.
func (h *Handler) GetTrend(w http.ResponseWriter, r *http.Request) {
	placeID := mux.Vars(r)["id"]

	start, err := time.Parse(time.RFC3339, r.URL.Query().Get("start"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid start time, expected RFC3339")
		return
	}
	end, err := time.Parse(time.RFC3339, r.URL.Query().Get("end"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid end time, expected RFC3339")
		return
	}

	interval := defaultTrendInterval
	if raw := r.URL.Query().Get("interval_minutes"); raw != "" {
		minutes, err := strconv.Atoi(raw)
		if err != nil || minutes <= 0 {
			utils.RespondWithError(w, http.StatusBadRequest, "Invalid interval_minutes")
			return
		}
		interval = time.Duration(minutes) * time.Minute
	}

	points, err := h.service.TrendForPlace(r.Context(), placeID, start, end, interval)
	if err != nil {
		switch err {
		case place.ErrNotFound:
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
		case ErrInvalidTimeRange:
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to predict crowd trend")
		}
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, points)
}
