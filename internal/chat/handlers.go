package chat

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/socialrhythm/rhythm-backend/internal/common/utils"
	"github.com/socialrhythm/rhythm-backend/internal/matching"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type Handler struct {
	service Service
	hub     *Hub
}

func NewHandler(service Service, hub *Hub) *Handler {
	return &Handler{service: service, hub: hub}
}

// ServeWS handles GET /chat/ws?user_id=N, upgrading to a websocket.
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(r.URL.Query().Get("user_id"), 10, 64)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	NewClient(h.hub, conn, userID).Start()
}

type sendMessageDTO struct {
	Content string `json:"content"`
}

// SendMessage handles POST /chat/{match_id}/messages?user_id=N.
func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	matchID, userID, ok := h.conversationIDs(w, r)
	if !ok {
		return
	}

	var dto sendMessageDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	message, err := h.service.SendMessage(r.Context(), matchID, userID, dto.Content)
	if err != nil {
		h.respondServiceError(w, err, "Failed to send message")
		return
	}

	h.hub.SendToMatch(r.Context(), matchID, userID, envelope(WSTypeMessage, message))
	utils.RespondWithJSON(w, http.StatusCreated, message)
}

// GetMessages handles GET /chat/{match_id}/messages?user_id=N with
// optional before (RFC3339) and limit params.
func (h *Handler) GetMessages(w http.ResponseWriter, r *http.Request) {
	matchID, userID, ok := h.conversationIDs(w, r)
	if !ok {
		return
	}

	var before time.Time
	if v := r.URL.Query().Get("before"); v != "" {
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, "Invalid before timestamp")
			return
		}
		before = parsed
	}

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}

	messages, err := h.service.GetMessages(r.Context(), matchID, userID, before, limit)
	if err != nil {
		h.respondServiceError(w, err, "Failed to get messages")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, messages)
}

// MarkRead handles POST /chat/{match_id}/read?user_id=N.
func (h *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	matchID, userID, ok := h.conversationIDs(w, r)
	if !ok {
		return
	}

	if err := h.service.MarkRead(r.Context(), matchID, userID); err != nil {
		h.respondServiceError(w, err, "Failed to mark messages read")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "read"})
}

// UnreadCount handles GET /chat/{match_id}/unread?user_id=N.
func (h *Handler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	matchID, userID, ok := h.conversationIDs(w, r)
	if !ok {
		return
	}

	count, err := h.service.UnreadCount(r.Context(), matchID, userID)
	if err != nil {
		h.respondServiceError(w, err, "Failed to count unread messages")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]int{"unread": count})
}

func (h *Handler) conversationIDs(w http.ResponseWriter, r *http.Request) (matchID, userID int64, ok bool) {
	matchID, err := strconv.ParseInt(mux.Vars(r)["match_id"], 10, 64)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid match ID")
		return 0, 0, false
	}

	userID, err = strconv.ParseInt(r.URL.Query().Get("user_id"), 10, 64)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid user ID")
		return 0, 0, false
	}

	return matchID, userID, true
}

func (h *Handler) respondServiceError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, matching.ErrMatchNotFound):
		utils.RespondWithError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrNotParticipant):
		utils.RespondWithError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, ErrMatchInactive):
		utils.RespondWithError(w, http.StatusGone, err.Error())
	case errors.Is(err, ErrEmptyMessage):
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
	default:
		utils.RespondWithError(w, http.StatusInternalServerError, fallback)
	}
}
