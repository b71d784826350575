package place

import (
	"github.com/gorilla/mux"
)

func RegisterRoutes(router *mux.Router, handler *Handler) {
	api := router.PathPrefix("/api/v1/places").Subrouter()

	// Static path before the {id} wildcard
	api.HandleFunc("/nearby", handler.NearbyPlaces).Methods("GET")

	api.HandleFunc("", handler.CreatePlace).Methods("POST")
	api.HandleFunc("", handler.ListPlaces).Methods("GET")
	api.HandleFunc("/{id}", handler.GetPlace).Methods("GET")
	api.HandleFunc("/{id}", handler.UpdatePlace).Methods("PUT")
	api.HandleFunc("/{id}", handler.DeletePlace).Methods("DELETE")
	api.HandleFunc("/{id}/status", handler.UpdateStatus).Methods("PUT")
}
