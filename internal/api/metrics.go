package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/arrdeck/arrdeck/internal/querycache"
	"github.com/arrdeck/arrdeck/pkg/interfaces"
	"github.com/arrdeck/arrdeck/pkg/models"
)

const (
	defaultMetricsWindow = 24 * time.Hour
	metricsSnapshotTTL   = 30 * time.Second
)

// parseTimeRange reads the metrics window from query parameters,
// defaulting to the last 24 hours.
func parseTimeRange(r *http.Request) (models.TimeRange, error) {
	q := r.URL.Query()
	now := time.Now()
	window := models.TimeRange{Start: now.Add(-defaultMetricsWindow), End: now}

	if raw := q.Get("start"); raw != "" {
		start, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return window, err
		}
		window.Start = start
	}
	if raw := q.Get("end"); raw != "" {
		end, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return window, err
		}
		window.End = end
	}
	return window, nil
}

func (s *Server) handleServiceMetrics(w http.ResponseWriter, r *http.Request) {
	window, err := parseTimeRange(r)
	if err != nil {
		s.respondBadRequest(w, "start and end must be RFC 3339")
		return
	}
	id := mux.Vars(r)["id"]

	// Snapshots are cached under the service's type scope so registry
	// events also invalidate them; the window is quantized to the minute
	// so now-relative defaults hit the same key.
	var key string
	if conn, ok := s.manager.GetConnector(id); ok {
		key = fmt.Sprintf("%smetrics:%s:%d:%d",
			querycache.TypePrefix(string(conn.Config().Type)),
			id, window.Start.Unix()/60, window.End.Unix()/60)
		if cached, err := s.cache.Get(r.Context(), key); err == nil {
			if snapshot, ok := cached.(models.ServiceMetrics); ok {
				s.respondJSON(w, http.StatusOK, snapshot)
				return
			}
		}
	}

	snapshot := s.engine.CalculateMetrics(r.Context(), id, window)
	if key != "" {
		if err := s.cache.Set(r.Context(), key, snapshot, metricsSnapshotTTL); err != nil {
			s.logger.Warn("failed to cache metrics snapshot", interfaces.Error(err))
		}
	}
	s.respondJSON(w, http.StatusOK, snapshot)
}

func (s *Server) handleAggregatedMetrics(w http.ResponseWriter, r *http.Request) {
	window, err := parseTimeRange(r)
	if err != nil {
		s.respondBadRequest(w, "start and end must be RFC 3339")
		return
	}

	serviceIDs := splitCSV(r.URL.Query().Get("serviceIds"))
	if len(serviceIDs) == 0 {
		for _, conn := range s.manager.All() {
			serviceIDs = append(serviceIDs, conn.Config().ID)
		}
	}
	s.respondJSON(w, http.StatusOK, s.engine.GetAggregatedMetrics(r.Context(), serviceIDs, window))
}
