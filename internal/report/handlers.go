package report

import (
	"encoding/json"
	"errors"
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

// SubmitReport handles POST /reports?user_id=N.
func (h *Handler) SubmitReport(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(r.URL.Query().Get("user_id"), 10, 64)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	var dto SubmitReportDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := dto.Validate(); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	submitted, err := h.service.SubmitReport(r.Context(), userID, &dto)
	if err != nil {
		switch {
		case errors.Is(err, place.ErrNotFound):
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, ErrInvalidCrowdLevel):
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, ErrTooManyReports):
			utils.RespondWithError(w, http.StatusTooManyRequests, err.Error())
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to submit report")
		}
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, submitted)
}

func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	found, err := h.service.GetReport(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to get report")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, found)
}

// GetPlaceReports handles GET /places/{id}/reports?since=RFC3339.
func (h *Handler) GetPlaceReports(w http.ResponseWriter, r *http.Request) {
	placeID := mux.Vars(r)["id"]

	var since time.Time
	if v := r.URL.Query().Get("since"); v != "" {
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, "Invalid since timestamp")
			return
		}
		since = parsed
	}

	reports, err := h.service.ListPlaceReports(r.Context(), placeID, since)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to list reports")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, reports)
}

// AttachPhoto handles POST /reports/{id}/photo with a multipart form.
func (h *Handler) AttachPhoto(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	file, header, err := r.FormFile("photo")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Missing photo file")
		return
	}
	defer file.Close()

	url, err := h.service.AttachPhoto(r.Context(), id, file, header)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to attach photo")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"photo_url": url})
}

// DeleteReport handles DELETE /reports/{id}?user_id=N.
func (h *Handler) DeleteReport(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	userID, err := strconv.ParseInt(r.URL.Query().Get("user_id"), 10, 64)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	if err := h.service.DeleteReport(r.Context(), id, userID); err != nil {
		if errors.Is(err, ErrNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to delete report")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
