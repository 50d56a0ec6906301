package jellyseerr_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arrdeck/arrdeck/internal/connector/jellyseerr"
	"github.com/arrdeck/arrdeck/internal/httpclient"
	"github.com/arrdeck/arrdeck/pkg/logger"
	"github.com/arrdeck/arrdeck/pkg/models"
	"github.com/arrdeck/arrdeck/pkg/retry"
)

func newConnector(t *testing.T, handler http.Handler) *jellyseerr.Connector {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := models.ServiceConfig{
		ID:      "requests-1",
		Name:    "Requests",
		Type:    models.ServiceTypeJellyseerr,
		URL:     server.URL,
		APIKey:  "secret",
		Enabled: true,
	}
	client := httpclient.New(httpclient.Config{
		BaseURL:     server.URL,
		APIKey:      "secret",
		ServiceType: string(cfg.Type),
	})
	return jellyseerr.New(cfg, client, logger.NewNoop(), retry.Options{
		MaxRetries:    1,
		BaseDelay:     time.Microsecond,
		MaxDelay:      time.Microsecond,
		BackoffFactor: 2,
	})
}

func TestGetVersionAndTestConnection(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/status", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret", r.Header.Get("X-Api-Key"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"version": "2.1.0", "commitTag": "v2.1.0", "updateAvailable": false}`))
	})
	conn := newConnector(t, mux)

	version, err := conn.GetVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2.1.0", version)

	result := conn.TestConnection(context.Background())
	assert.True(t, result.Success)
	assert.Equal(t, "2.1.0", result.Version)

	health := conn.GetHealth(context.Background())
	assert.Equal(t, models.HealthStateHealthy, health.Status)
}

func TestGetHealthUnreachable(t *testing.T) {
	conn := newConnector(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))

	health := conn.GetHealth(context.Background())
	assert.Equal(t, models.HealthStateUnhealthy, health.Status)
	assert.NotEmpty(t, health.Message)
}

func TestGetLogsPrefixesLabelAndFiltersSince(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/settings/logs", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "50", r.URL.Query().Get("take"))
		assert.Equal(t, "0", r.URL.Query().Get("skip"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"results": [
			{"timestamp": "2025-06-15T12:00:00Z", "level": "error", "label": "jobs", "message": "Sync failed"},
			{"timestamp": "2025-06-15T08:00:00Z", "level": "info", "label": "", "message": "Old line"},
			{"timestamp": "not-a-date", "level": "info", "label": "api", "message": "Dropped"}
		]}`))
	})
	conn := newConnector(t, mux)

	since := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	logs, err := conn.GetLogs(context.Background(), since, 50)
	require.NoError(t, err)

	// The pre-window line and the unparseable timestamp are dropped.
	require.Len(t, logs, 1)
	assert.Equal(t, "[jobs] Sync failed", logs[0].Message)
	assert.Equal(t, models.LogLevelError, logs[0].Level)
	assert.Equal(t, "requests-1", logs[0].ServiceID)
}

func TestGetRequestsMapsStatusAndRequester(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/request", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "pending", r.URL.Query().Get("filter"))
		assert.Equal(t, "added", r.URL.Query().Get("sort"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"pageInfo": {"pages": 1, "results": 2},
			"results": [
				{"id": 1, "status": 1,
				 "media": {"mediaType": "movie", "tmdbId": 438631},
				 "requestedBy": {"displayName": "alice", "email": "alice@example.com"}},
				{"id": 2, "status": 3,
				 "media": {"mediaType": "tv", "tvdbId": 362472},
				 "requestedBy": {"displayName": "", "email": "bob@example.com"}}
			]
		}`))
	})
	conn := newConnector(t, mux)

	requests, err := conn.GetRequests(context.Background(), "pending", 20)
	require.NoError(t, err)
	require.Len(t, requests, 2)

	assert.Equal(t, models.MediaTypeMovie, requests[0].MediaType)
	assert.Equal(t, "pending", requests[0].Status)
	assert.Equal(t, "alice", requests[0].RequestedBy)
	assert.Equal(t, int64(438631), requests[0].TMDBID)

	// Display name falls back to the account email.
	assert.Equal(t, models.MediaTypeSeries, requests[1].MediaType)
	assert.Equal(t, "declined", requests[1].Status)
	assert.Equal(t, "bob@example.com", requests[1].RequestedBy)
	assert.Equal(t, int64(362472), requests[1].TVDBID)
}

func TestGetRequestCounts(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/request/count", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"total": 12, "pending": 3, "approved": 7, "declined": 2}`))
	})
	conn := newConnector(t, mux)

	counts, err := conn.GetRequestCounts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 12, counts.Total)
	assert.Equal(t, 3, counts.Pending)
	assert.Equal(t, 7, counts.Approved)
	assert.Equal(t, 2, counts.Declined)
}

func TestApproveAndDeclineRequest(t *testing.T) {
	var approved, declined bool
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/request/42/approve", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		approved = true
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/api/v1/request/42/decline", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		declined = true
		w.WriteHeader(http.StatusOK)
	})
	conn := newConnector(t, mux)

	require.NoError(t, conn.ApproveRequest(context.Background(), 42))
	require.NoError(t, conn.DeclineRequest(context.Background(), 42))
	assert.True(t, approved)
	assert.True(t, declined)
}
