package recommend

import (
	"github.com/gorilla/mux"
)

func RegisterRoutes(router *mux.Router, handler *Handler) {
	api := router.PathPrefix("/api/v1/suggestions").Subrouter()

	api.HandleFunc("", handler.GetSuggestions).Methods("GET")
	api.HandleFunc("/refresh", handler.RefreshPlaces).Methods("POST")
}
