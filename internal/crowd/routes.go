package crowd

import (
	"github.com/gorilla/mux"
)

func RegisterRoutes(router *mux.Router, handler *Handler) {
	api := router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/places/{id}/crowd", handler.GetPrediction).Methods("GET")
	api.HandleFunc("/places/{id}/crowd/trend", handler.GetTrend).Methods("GET")
}
