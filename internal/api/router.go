package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterConfig holds settings for the HTTP router
type RouterConfig struct {
	JWTSecret    string
	RateLimitRPS int
}

// NewRouter registers all routes and wraps them in the middleware chain
func NewRouter(cfg RouterConfig, signals *SignalHandler, gatherer prometheus.Gatherer) http.Handler {
	router := mux.NewRouter()

	// API v1 routes
	v1 := router.PathPrefix("/api/v1").Subrouter()
	v1.HandleFunc("/report", signals.GetReport).Methods("GET")
	v1.HandleFunc("/signals", signals.ListSignals).Methods("GET")
	v1.HandleFunc("/signals/{symbol}", signals.GetSignals).Methods("GET")

	// Health check endpoints
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
	}).Methods("GET")

	router.HandleFunc("/live", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "alive"})
	}).Methods("GET")

	// Metrics endpoint
	router.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})).Methods("GET")

	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respondWithError(w, http.StatusNotFound, "Not found")
	})

	middlewares := ChainMiddleware(
		RequestIDMiddleware(),
		CORSMiddleware(),
		LoggingMiddleware(),
		ErrorHandlingMiddleware(),
		AuthMiddleware(NewAuthManager(cfg.JWTSecret)),
		RateLimitMiddleware(cfg.RateLimitRPS),
	)

	return middlewares(router)
}
