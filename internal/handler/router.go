package handler

import (
	"net/http"

	"mass-sign-client/internal/config"
	"mass-sign-client/internal/metrics"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

// NewRouter creates a new HTTP router with all routes configured
func NewRouter(container *config.Container) http.Handler {
	router := mux.NewRouter()

	// Health check endpoint
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok","service":"mass-sign-client"}`))
	}).Methods("GET")

	router.Handle("/metrics", metrics.Handler()).Methods("GET")

	workflowHandler := NewWorkflowHandler(container.Workflow, container.Logger)

	// API prefix
	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(RequestLogger(container.Logger))
	api.Use(metrics.Instrument)

	api.HandleFunc("/state", workflowHandler.GetState).Methods("GET")

	api.HandleFunc("/files", workflowHandler.UploadFiles).Methods("POST")
	api.HandleFunc("/files", workflowHandler.ClearFiles).Methods("DELETE")
	api.HandleFunc("/files/{index}", workflowHandler.RemoveFile).Methods("DELETE")

	api.HandleFunc("/credentials", workflowHandler.UpdateCredentials).Methods("PUT")

	api.HandleFunc("/sign", workflowHandler.RequestSign).Methods("POST")
	api.HandleFunc("/otp/confirm", workflowHandler.ConfirmOTP).Methods("POST")
	api.HandleFunc("/otp/cancel", workflowHandler.CancelOTP).Methods("POST")

	api.HandleFunc("/load-more", workflowHandler.LoadMore).Methods("POST")
	api.HandleFunc("/finish", workflowHandler.Finish).Methods("POST")

	// Configure CORS
	c := cors.New(cors.Options{
		AllowedOrigins: container.Config.GetAllowedOrigins(),
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept",
			"Authorization",
			"Content-Type",
		},
		AllowCredentials: true,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	})

	return c.Handler(router)
}
