package routes

import (
	"silentaid/handlers"
	"silentaid/middleware"

	"github.com/gorilla/mux"
)

func SetupRoutes(apiHandler *handlers.APIHandler) *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/", handlers.RootHandler).Methods("GET")
	router.HandleFunc("/health", handlers.HealthHandler).Methods("GET")
	router.HandleFunc("/api/contacts", middleware.ErrorHandler(apiHandler.CreateContactHandler)).Methods("POST")
	router.HandleFunc("/api/contacts", middleware.ErrorHandler(apiHandler.ListContactsHandler)).Methods("GET")
	router.HandleFunc("/api/sos", middleware.ErrorHandler(apiHandler.CreateAlertHandler)).Methods("POST")
	router.HandleFunc("/api/alerts", middleware.ErrorHandler(apiHandler.ListAlertsHandler)).Methods("GET")
	router.HandleFunc("/api/alerts/{id}", middleware.ErrorHandler(apiHandler.GetAlertHandler)).Methods("GET")
	router.HandleFunc("/dashboard", middleware.ErrorHandler(apiHandler.DashboardHandler)).Methods("GET")

	return router
}
