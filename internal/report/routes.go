package report

import (
	"github.com/gorilla/mux"
)

func RegisterRoutes(router *mux.Router, handler *Handler) {
	api := router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/reports", handler.SubmitReport).Methods("POST")
	api.HandleFunc("/reports/{id}", handler.GetReport).Methods("GET")
	api.HandleFunc("/reports/{id}", handler.DeleteReport).Methods("DELETE")
	api.HandleFunc("/reports/{id}/photo", handler.AttachPhoto).Methods("POST")
	api.HandleFunc("/places/{id}/reports", handler.GetPlaceReports).Methods("GET")
}
