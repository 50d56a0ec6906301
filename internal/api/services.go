package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/arrdeck/arrdeck/internal/querycache"
	"github.com/arrdeck/arrdeck/pkg/interfaces"
	"github.com/arrdeck/arrdeck/pkg/models"
)

const overviewTTL = time.Minute

type serviceOverview struct {
	Services []serviceSummary `json:"services"`
	Total    int              `json:"total"`
	Active   int              `json:"active"`
}

type serviceSummary struct {
	ID         string             `json:"id"`
	Name       string             `json:"name"`
	Type       models.ServiceType `json:"type"`
	URL        string             `json:"url"`
	Enabled    bool               `json:"enabled"`
	Registered bool               `json:"registered"`
	CreatedAt  time.Time          `json:"createdAt"`
	UpdatedAt  time.Time          `json:"updatedAt"`
}

type saveServiceRequest struct {
	ID      string             `json:"id"`
	Name    string             `json:"name"`
	Type    models.ServiceType `json:"type"`
	URL     string             `json:"url"`
	APIKey  string             `json:"apiKey"`
	Enabled *bool              `json:"enabled"`
}

func (s *Server) handleListServices(w http.ResponseWriter, r *http.Request) {
	if cached, err := s.cache.Get(r.Context(), querycache.KeyServicesOverview); err == nil {
		if overview, ok := cached.(serviceOverview); ok {
			s.respondJSON(w, http.StatusOK, overview)
			return
		}
	}

	configs, err := s.store.List(r.Context())
	if err != nil {
		s.respondError(w, err)
		return
	}

	overview := serviceOverview{Services: make([]serviceSummary, 0, len(configs))}
	for _, cfg := range configs {
		_, registered := s.manager.GetConnector(cfg.ID)
		overview.Services = append(overview.Services, serviceSummary{
			ID:         cfg.ID,
			Name:       cfg.Name,
			Type:       cfg.Type,
			URL:        cfg.URL,
			Enabled:    cfg.Enabled,
			Registered: registered,
			CreatedAt:  cfg.CreatedAt,
			UpdatedAt:  cfg.UpdatedAt,
		})
		overview.Total++
		if registered {
			overview.Active++
		}
	}

	if err := s.cache.Set(r.Context(), querycache.KeyServicesOverview, overview, overviewTTL); err != nil {
		s.logger.Warn("failed to cache services overview", interfaces.Error(err))
	}
	s.respondJSON(w, http.StatusOK, overview)
}

func (s *Server) handleSaveService(w http.ResponseWriter, r *http.Request) {
	var req saveServiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondBadRequest(w, "invalid request body")
		return
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	s.saveService(w, r, req, http.StatusCreated)
}

func (s *Server) handleUpdateService(w http.ResponseWriter, r *http.Request) {
	var req saveServiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondBadRequest(w, "invalid request body")
		return
	}
	req.ID = mux.Vars(r)["id"]
	s.saveService(w, r, req, http.StatusOK)
}

func (s *Server) saveService(w http.ResponseWriter, r *http.Request, req saveServiceRequest, okStatus int) {
	enabled := true
	if req.Enabled != nil {
		enabled = *req.Enabled
	}
	cfg := models.ServiceConfig{
		ID:      req.ID,
		Name:    req.Name,
		Type:    req.Type,
		URL:     req.URL,
		APIKey:  req.APIKey,
		Enabled: enabled,
	}
	if err := cfg.Validate(); err != nil {
		s.respondBadRequest(w, err.Error())
		return
	}

	if existing, err := s.store.Get(r.Context(), cfg.ID); err == nil {
		cfg.CreatedAt = existing.CreatedAt
		if cfg.APIKey == "" {
			cfg.APIKey = existing.APIKey
		}
	}

	if err := s.store.Save(r.Context(), cfg); err != nil {
		s.respondError(w, err)
		return
	}

	if enabled {
		if err := s.manager.AddConnector(r.Context(), cfg); err != nil {
			s.respondError(w, err)
			return
		}
	} else {
		s.manager.RemoveConnector(r.Context(), cfg.ID)
	}

	saved, err := s.store.Get(r.Context(), cfg.ID)
	if err != nil {
		s.respondError(w, err)
		return
	}
	saved.APIKey = ""
	s.respondJSON(w, okStatus, saved)
}

func (s *Server) handleRemoveService(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := s.store.Remove(r.Context(), id); err != nil {
		s.respondError(w, err)
		return
	}
	s.manager.RemoveConnector(r.Context(), id)
	s.respondJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleTestAllServices(w http.ResponseWriter, r *http.Request) {
	results := s.manager.TestAllConnections(r.Context())
	s.respondJSON(w, http.StatusOK, results)
}

func (s *Server) handleTestService(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	conn, ok := s.manager.GetConnector(id)
	if !ok {
		s.respondJSON(w, http.StatusNotFound, errorBody{Error: "service is not registered"})
		return
	}
	s.respondJSON(w, http.StatusOK, conn.TestConnection(r.Context()))
}

func (s *Server) handleServiceHealth(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	conn, ok := s.manager.GetConnector(id)
	if !ok {
		s.respondJSON(w, http.StatusNotFound, errorBody{Error: "service is not registered"})
		return
	}
	s.respondJSON(w, http.StatusOK, conn.GetHealth(r.Context()))
}

func (s *Server) handleServiceLogs(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	conn, ok := s.manager.GetConnector(id)
	if !ok {
		s.respondJSON(w, http.StatusNotFound, errorBody{Error: "service is not registered"})
		return
	}

	var since time.Time
	if raw := r.URL.Query().Get("since"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			s.respondBadRequest(w, "since must be RFC 3339")
			return
		}
		since = parsed
	}
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			s.respondBadRequest(w, "limit must be a non-negative integer")
			return
		}
		limit = parsed
	}

	entries, err := conn.GetLogs(r.Context(), since, limit)
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, entries)
}
