package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/arrdeck/arrdeck/pkg/models"
)

// parseCalendarFilters reads filter criteria from query parameters.
// Multi-valued criteria are comma separated.
func parseCalendarFilters(r *http.Request) (models.CalendarFilters, error) {
	q := r.URL.Query()
	filters := models.CalendarFilters{
		Search:    q.Get("search"),
		Monitored: models.MonitoredFilter(q.Get("monitored")),
	}

	start, end := q.Get("start"), q.Get("end")
	if start != "" && end != "" {
		from, err := time.Parse(time.RFC3339, start)
		if err != nil {
			return filters, err
		}
		to, err := time.Parse(time.RFC3339, end)
		if err != nil {
			return filters, err
		}
		filters.DateRange = &models.DateRange{Start: from, End: to}
	}

	for _, v := range splitCSV(q.Get("types")) {
		filters.MediaTypes = append(filters.MediaTypes, models.MediaType(v))
	}
	for _, v := range splitCSV(q.Get("statuses")) {
		filters.Statuses = append(filters.Statuses, models.ReleaseStatus(v))
	}
	filters.ServiceIDs = splitCSV(q.Get("serviceIds"))
	for _, v := range splitCSV(q.Get("serviceTypes")) {
		filters.ServiceTypes = append(filters.ServiceTypes, models.ServiceType(v))
	}
	return filters, nil
}

func splitCSV(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (s *Server) handleCalendarReleases(w http.ResponseWriter, r *http.Request) {
	filters, err := parseCalendarFilters(r)
	if err != nil {
		s.respondBadRequest(w, "start and end must be RFC 3339")
		return
	}
	releases, err := s.calendar.GetReleases(r.Context(), filters)
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, releases)
}

func (s *Server) handleCalendarStats(w http.ResponseWriter, r *http.Request) {
	filters, err := parseCalendarFilters(r)
	if err != nil {
		s.respondBadRequest(w, "start and end must be RFC 3339")
		return
	}
	stats, err := s.calendar.GetStats(r.Context(), filters)
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, stats)
}
