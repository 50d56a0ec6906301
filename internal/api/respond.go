package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/arrdeck/arrdeck/internal/storage"
	"github.com/arrdeck/arrdeck/pkg/apierror"
	"github.com/arrdeck/arrdeck/pkg/interfaces"
)

type errorBody struct {
	Error          string `json:"error"`
	Code           string `json:"code,omitempty"`
	UpstreamStatus int    `json:"upstreamStatus,omitempty"`
	NetworkError   bool   `json:"networkError,omitempty"`
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", interfaces.Error(err))
	}
}

// respondError maps an error to an HTTP status. Upstream failures keep
// the gateway distinction: unreachable backends are 502, everything the
// backend itself rejected is relayed with its upstream status in the
// body.
func (s *Server) respondError(w http.ResponseWriter, err error) {
	if errors.Is(err, storage.ErrNotFound) {
		s.respondJSON(w, http.StatusNotFound, errorBody{Error: err.Error()})
		return
	}

	apiErr, ok := apierror.As(err)
	if !ok {
		s.respondJSON(w, http.StatusInternalServerError, errorBody{Error: err.Error()})
		return
	}

	body := errorBody{
		Error:          apiErr.Message,
		Code:           apiErr.Code,
		UpstreamStatus: apiErr.StatusCode,
		NetworkError:   apiErr.IsNetworkError,
	}
	if apiErr.IsNetworkError || apiErr.StatusCode > 0 {
		s.respondJSON(w, http.StatusBadGateway, body)
		return
	}
	s.respondJSON(w, http.StatusInternalServerError, body)
}

func (s *Server) respondBadRequest(w http.ResponseWriter, message string) {
	s.respondJSON(w, http.StatusBadRequest, errorBody{Error: message})
}
