// Package api exposes the aggregation layer over REST.
package api

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/arrdeck/arrdeck/internal/calendar"
	"github.com/arrdeck/arrdeck/internal/connector"
	"github.com/arrdeck/arrdeck/internal/metrics"
	"github.com/arrdeck/arrdeck/internal/storage"
	"github.com/arrdeck/arrdeck/pkg/config"
	"github.com/arrdeck/arrdeck/pkg/interfaces"
)

// Server wires the HTTP surface over the aggregation services.
type Server struct {
	store    *storage.Store
	manager  *connector.Manager
	calendar *calendar.Service
	engine   *metrics.Engine
	cache    interfaces.Cache
	logger   interfaces.Logger
	cfg      *config.AppConfig
}

// NewServer creates the API server.
func NewServer(
	store *storage.Store,
	manager *connector.Manager,
	calendarSvc *calendar.Service,
	engine *metrics.Engine,
	cache interfaces.Cache,
	logger interfaces.Logger,
	cfg *config.AppConfig,
) *Server {
	return &Server{
		store:    store,
		manager:  manager,
		calendar: calendarSvc,
		engine:   engine,
		cache:    cache,
		logger:   logger,
		cfg:      cfg,
	}
}

// Router builds the route table.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.logMiddleware)

	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	if s.cfg.Metrics.Enabled {
		r.Handle(s.cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
	}

	v1 := r.PathPrefix("/api/v1").Subrouter()

	v1.HandleFunc("/services", s.handleListServices).Methods(http.MethodGet)
	v1.HandleFunc("/services", s.handleSaveService).Methods(http.MethodPost)
	v1.HandleFunc("/services/test", s.handleTestAllServices).Methods(http.MethodPost)
	v1.HandleFunc("/services/{id}", s.handleUpdateService).Methods(http.MethodPut)
	v1.HandleFunc("/services/{id}", s.handleRemoveService).Methods(http.MethodDelete)
	v1.HandleFunc("/services/{id}/test", s.handleTestService).Methods(http.MethodPost)
	v1.HandleFunc("/services/{id}/health", s.handleServiceHealth).Methods(http.MethodGet)
	v1.HandleFunc("/services/{id}/logs", s.handleServiceLogs).Methods(http.MethodGet)

	v1.HandleFunc("/calendar/releases", s.handleCalendarReleases).Methods(http.MethodGet)
	v1.HandleFunc("/calendar/stats", s.handleCalendarStats).Methods(http.MethodGet)

	v1.HandleFunc("/metrics/services/{id}", s.handleServiceMetrics).Methods(http.MethodGet)
	v1.HandleFunc("/metrics/aggregated", s.handleAggregatedMetrics).Methods(http.MethodGet)

	return r
}

func (s *Server) logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("http request",
			interfaces.String("method", r.Method),
			interfaces.String("path", r.URL.Path),
			interfaces.Duration("elapsed", time.Since(start)))
	})
}
