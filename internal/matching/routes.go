package matching

import (
	"github.com/gorilla/mux"
)

func RegisterRoutes(router *mux.Router, handler *Handler) {
	api := router.PathPrefix("/api/v1").Subrouter()

	// Scoring and discovery
	api.HandleFunc("/users/{id}/compatibility/{other_id}", handler.GetCompatibility).Methods("GET")
	api.HandleFunc("/users/{id}/companions/discover", handler.DiscoverCompanions).Methods("GET")

	// Companion matches
	api.HandleFunc("/companions", handler.CreateMatch).Methods("POST")
	api.HandleFunc("/users/{id}/companions", handler.GetMatches).Methods("GET")
	api.HandleFunc("/companions/{id}", handler.Unmatch).Methods("DELETE")
}
