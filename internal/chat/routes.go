package chat

import (
	"github.com/gorilla/mux"
)

func RegisterRoutes(router *mux.Router, handler *Handler) {
	api := router.PathPrefix("/api/v1/chat").Subrouter()

	api.HandleFunc("/ws", handler.ServeWS).Methods("GET")
	api.HandleFunc("/{match_id}/messages", handler.SendMessage).Methods("POST")
	api.HandleFunc("/{match_id}/messages", handler.GetMessages).Methods("GET")
	api.HandleFunc("/{match_id}/read", handler.MarkRead).Methods("POST")
	api.HandleFunc("/{match_id}/unread", handler.UnreadCount).Methods("GET")
}
