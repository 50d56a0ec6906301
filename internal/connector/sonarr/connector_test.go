package sonarr_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arrdeck/arrdeck/internal/connector/sonarr"
	"github.com/arrdeck/arrdeck/internal/httpclient"
	"github.com/arrdeck/arrdeck/pkg/apierror"
	"github.com/arrdeck/arrdeck/pkg/logger"
	"github.com/arrdeck/arrdeck/pkg/models"
	"github.com/arrdeck/arrdeck/pkg/retry"
)

func newConnector(t *testing.T, handler http.Handler) *sonarr.Connector {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := models.ServiceConfig{
		ID:      "sonarr-1",
		Name:    "TV",
		Type:    models.ServiceTypeSonarr,
		URL:     server.URL,
		APIKey:  "secret",
		Enabled: true,
	}
	client := httpclient.New(httpclient.Config{
		BaseURL:     server.URL,
		APIKey:      "secret",
		ServiceType: string(cfg.Type),
	})
	return sonarr.New(cfg, client, logger.NewNoop(), retry.Options{
		MaxRetries:    1,
		BaseDelay:     time.Microsecond,
		MaxDelay:      time.Microsecond,
		BackoffFactor: 2,
	})
}

func TestGetCalendarEmbedsSeries(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v3/calendar", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "true", r.URL.Query().Get("includeSeries"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id": 11, "seriesId": 5, "title": "Pilot", "seasonNumber": 1, "episodeNumber": 1,
			 "airDateUtc": "2026-09-02T01:00:00Z", "monitored": true,
			 "series": {"id": 5, "title": "Severance", "year": 2022}},
			{"id": 12, "seriesId": 6, "title": "Orphan", "seasonNumber": 2, "episodeNumber": 3,
			 "airDateUtc": "2026-09-03T01:00:00Z", "monitored": false}
		]`))
	})
	conn := newConnector(t, mux)

	from := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	episodes, err := conn.GetCalendar(context.Background(), from, from.AddDate(0, 0, 7))
	require.NoError(t, err)
	require.Len(t, episodes, 2)

	require.NotNil(t, episodes[0].Series)
	assert.Equal(t, "Severance", episodes[0].Series.Title)
	assert.Nil(t, episodes[1].Series)
	require.NotNil(t, episodes[1].AirDate)
	assert.Equal(t, 3, episodes[1].AirDate.Day())
}

func TestGetSeriesByIDErrorContext(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v3/series/9", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "missing", http.StatusNotFound)
	})
	conn := newConnector(t, mux)

	_, err := conn.GetSeriesByID(context.Background(), 9)
	require.Error(t, err)

	apiErr, ok := apierror.As(err)
	require.True(t, ok)
	assert.Equal(t, 404, apiErr.StatusCode)
	assert.Equal(t, "GetSeriesByID", apiErr.Context.Operation)
	assert.Equal(t, "/api/v3/series/9", apiErr.Context.Endpoint)
	assert.Equal(t, "sonarr-1", apiErr.Context.ServiceID)
}

func TestAddSeriesBuildsPathAndOptions(t *testing.T) {
	var posted map[string]interface{}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v3/series", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&posted))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": 41, "title": "What If...?", "year": 2021}`))
	})
	conn := newConnector(t, mux)

	series, err := conn.AddSeries(context.Background(), sonarr.AddSeriesPayload{
		Title:          "What If...?",
		Year:           2021,
		TVDBID:         362472,
		RootFolderPath: "/mnt/media/tv/",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(41), series.ID)

	assert.Equal(t, "/mnt/media/tv/What If... (2021)", posted["path"])
	assert.Equal(t, map[string]interface{}{
		"searchForMissingEpisodes": true,
		"monitor":                  "all",
	}, posted["addOptions"])
}

func TestSetMonitoredReplacesOnlyTheFlag(t *testing.T) {
	fetched := map[string]interface{}{
		"id":        float64(5),
		"title":     "Severance",
		"monitored": false,
		"seasons":   []interface{}{map[string]interface{}{"seasonNumber": float64(1)}},
	}

	var put map[string]interface{}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v3/series/5", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			require.NoError(t, json.NewEncoder(w).Encode(fetched))
		case http.MethodPut:
			require.NoError(t, json.NewDecoder(r.Body).Decode(&put))
		default:
			t.Fatalf("unexpected method %s", r.Method)
		}
	})
	conn := newConnector(t, mux)

	require.NoError(t, conn.SetMonitored(context.Background(), 5, true))

	want := map[string]interface{}{}
	for k, v := range fetched {
		want[k] = v
	}
	want["monitored"] = true
	assert.Equal(t, want, put)
}

func TestLookupByTVDBIDReturnsFirstMatch(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v3/series/lookup", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "tvdb:362472", r.URL.Query().Get("term"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id": 0, "title": "What If...?", "year": 2021}, {"id": 0, "title": "Other"}]`))
	})
	conn := newConnector(t, mux)

	series := conn.LookupByTVDBID(context.Background(), 362472)
	require.NotNil(t, series)
	assert.Equal(t, "What If...?", series.Title)
}

func TestLookupByTVDBIDEmptyAndFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v3/series/lookup", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	})
	conn := newConnector(t, mux)
	assert.Nil(t, conn.LookupByTVDBID(context.Background(), 1))

	failing := newConnector(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	assert.Nil(t, failing.LookupByTVDBID(context.Background(), 1))
}
