package user

import (
	"github.com/gorilla/mux"
)

func RegisterRoutes(router *mux.Router, handler *Handler) {
	api := router.PathPrefix("/api/v1/users").Subrouter()

	api.HandleFunc("", handler.CreateUser).Methods("POST")
	api.HandleFunc("/{id}", handler.GetUser).Methods("GET")
	api.HandleFunc("/{id}", handler.UpdateUser).Methods("PUT")
	api.HandleFunc("/{id}/location", handler.UpdateLocation).Methods("PUT")
	api.HandleFunc("/{id}/preferences", handler.GetPreferences).Methods("GET")
	api.HandleFunc("/{id}/preferences", handler.SavePreferences).Methods("PUT")
}
