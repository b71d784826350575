package matching

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/socialrhythm/rhythm-backend/internal/common/utils"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// GetCompatibility handles GET /users/{id}/compatibility/{other_id}.
func (h *Handler) GetCompatibility(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "id")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}
	otherID, err := pathID(r, "other_id")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	score, factors, err := h.service.CalculateCompatibility(r.Context(), userID, otherID)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to calculate compatibility")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, &CompatibilityResponse{
		User1ID: userID,
		User2ID: otherID,
		Score:   score,
		Quality: QualityForScore(score),
		Factors: factors,
	})
}

// DiscoverCompanions handles GET /users/{id}/companions/discover.
// Optional query params: limit, min_score, mode (nearby|interests),
// radius_meters for the nearby mode.
func (h *Handler) DiscoverCompanions(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "id")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	opts := FindOptions{IncludeFactors: r.URL.Query().Get("include_factors") == "true"}
	if limit := r.URL.Query().Get("limit"); limit != "" {
		if l, err := strconv.Atoi(limit); err == nil {
			opts.Limit = l
		}
	}
	if minScore := r.URL.Query().Get("min_score"); minScore != "" {
		if m, err := strconv.ParseFloat(minScore, 64); err == nil {
			opts.MinScore = m
		}
	}

	var proposals []*Proposal
	switch r.URL.Query().Get("mode") {
	case "nearby":
		radius := 0.0
		if v := r.URL.Query().Get("radius_meters"); v != "" {
			if parsed, err := strconv.ParseFloat(v, 64); err == nil {
				radius = parsed
			}
		}
		proposals, err = h.service.QuickNearbyCompanions(r.Context(), userID, radius, opts)
	case "interests":
		proposals, err = h.service.InterestCompanions(r.Context(), userID, opts)
	default:
		proposals, err = h.service.DiscoverCompanions(r.Context(), userID, opts)
	}

	if err != nil {
		switch {
		case errors.Is(err, ErrProfileNotFound):
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, ErrLocationUnavailable):
			utils.RespondWithError(w, http.StatusUnprocessableEntity, err.Error())
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to discover companions")
		}
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, proposals)
}

// CreateMatch handles POST /companions.
func (h *Handler) CreateMatch(w http.ResponseWriter, r *http.Request) {
	var dto CreateMatchDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := dto.Validate(); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	match, err := h.service.CreateCompanionMatch(r.Context(), dto.UserID, dto.OtherUserID)
	if err != nil {
		switch {
		case errors.Is(err, ErrCannotMatchSelf):
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, ErrAlreadyMatched):
			utils.RespondWithError(w, http.StatusConflict, err.Error())
		case errors.Is(err, ErrProfileNotFound):
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create companion match")
		}
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, match)
}

// GetMatches handles GET /users/{id}/companions.
func (h *Handler) GetMatches(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "id")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	active := true
	if r.URL.Query().Get("active") == "false" {
		active = false
	}

	matches, err := h.service.GetCompanionMatches(r.Context(), userID, active)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to get companion matches")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, matches)
}

// Unmatch handles DELETE /companions/{id}?user_id=N.
func (h *Handler) Unmatch(w http.ResponseWriter, r *http.Request) {
	matchID, err := pathID(r, "id")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid match ID")
		return
	}

	userID, err := strconv.ParseInt(r.URL.Query().Get("user_id"), 10, 64)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	if err := h.service.Unmatch(r.Context(), matchID, userID); err != nil {
		if errors.Is(err, ErrMatchNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to unmatch")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "unmatched"})
}

func pathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)[name], 10, 64)
}
