package radarr_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arrdeck/arrdeck/internal/connector/radarr"
	"github.com/arrdeck/arrdeck/internal/httpclient"
	"github.com/arrdeck/arrdeck/pkg/apierror"
	"github.com/arrdeck/arrdeck/pkg/logger"
	"github.com/arrdeck/arrdeck/pkg/models"
	"github.com/arrdeck/arrdeck/pkg/retry"
)

func newConnector(t *testing.T, handler http.Handler) *radarr.Connector {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := models.ServiceConfig{
		ID:      "radarr-1",
		Name:    "Movies",
		Type:    models.ServiceTypeRadarr,
		URL:     server.URL,
		APIKey:  "secret",
		Enabled: true,
	}
	client := httpclient.New(httpclient.Config{
		BaseURL:     server.URL,
		APIKey:      "secret",
		ServiceType: string(cfg.Type),
	})
	return radarr.New(cfg, client, logger.NewNoop(), retry.Options{
		MaxRetries:    1,
		BaseDelay:     time.Microsecond,
		MaxDelay:      time.Microsecond,
		BackoffFactor: 2,
	})
}

func TestGetMoviesResolvesImageURLs(t *testing.T) {
	var serverURL string
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v3/movie", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret", r.Header.Get("X-Api-Key"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id": 7, "title": "Dune", "year": 2021, "monitored": true, "images": [
				{"coverType": "poster", "url": "/MediaCover/7/poster.jpg"},
				{"coverType": "fanart", "url": "/MediaCover/7/fanart.jpg", "remoteUrl": "https://cdn.example.com/fanart.jpg"}
			]}
		]`))
	})
	conn := newConnector(t, mux)
	serverURL = conn.Client().BaseURL()

	movies, err := conn.GetMovies(context.Background())
	require.NoError(t, err)
	require.Len(t, movies, 1)

	assert.Equal(t, serverURL+"/MediaCover/7/poster.jpg?apikey=secret", movies[0].PosterURL)
	assert.Equal(t, "https://cdn.example.com/fanart.jpg", movies[0].BackdropURL)
}

func TestGetMoviesErrorCarriesOperationContext(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v3/movie", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusUnauthorized)
	})
	conn := newConnector(t, mux)

	_, err := conn.GetMovies(context.Background())
	require.Error(t, err)

	apiErr, ok := apierror.As(err)
	require.True(t, ok)
	assert.Equal(t, 401, apiErr.StatusCode)
	assert.Equal(t, "GetMovies", apiErr.Context.Operation)
	assert.Equal(t, "/api/v3/movie", apiErr.Context.Endpoint)
	assert.Equal(t, "radarr-1", apiErr.Context.ServiceID)
	assert.Equal(t, "radarr", apiErr.Context.ServiceType)
}

func TestAddMovieBuildsSanitizedPathAndOptions(t *testing.T) {
	var posted map[string]interface{}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v3/movie", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&posted))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": 99, "title": "The Batman: Dawn", "year": 2022}`))
	})
	conn := newConnector(t, mux)

	movie, err := conn.AddMovie(context.Background(), radarr.AddMoviePayload{
		Title:          "The Batman: Dawn",
		Year:           2022,
		TMDBID:         414906,
		RootFolderPath: "/mnt/media/movies/",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(99), movie.ID)

	assert.Equal(t, "/mnt/media/movies/The Batman Dawn (2022)", posted["path"])
	assert.Equal(t, map[string]interface{}{
		"searchOnAdd":    true,
		"searchForMovie": true,
		"monitor":        "movie",
	}, posted["addOptions"])
	assert.Equal(t, true, posted["monitored"])
}

func TestSetMonitoredReplacesOnlyTheFlag(t *testing.T) {
	fetched := map[string]interface{}{
		"id":               float64(88),
		"title":            "Arrival",
		"monitored":        true,
		"qualityProfileId": float64(4),
		"tags":             []interface{}{"a", "b"},
	}

	var put map[string]interface{}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v3/movie/88", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			w.Header().Set("Content-Type", "application/json")
			require.NoError(t, json.NewEncoder(w).Encode(fetched))
		case http.MethodPut:
			require.NoError(t, json.NewDecoder(r.Body).Decode(&put))
			w.WriteHeader(http.StatusAccepted)
		default:
			t.Fatalf("unexpected method %s", r.Method)
		}
	})
	conn := newConnector(t, mux)

	require.NoError(t, conn.SetMonitored(context.Background(), 88, false))

	want := map[string]interface{}{}
	for k, v := range fetched {
		want[k] = v
	}
	want["monitored"] = false
	assert.Equal(t, want, put)
}

func TestGetCalendarForwardsWindow(t *testing.T) {
	from := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v3/calendar", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, from.Format(time.RFC3339), r.URL.Query().Get("start"))
		assert.Equal(t, to.Format(time.RFC3339), r.URL.Query().Get("end"))
		assert.Equal(t, "true", r.URL.Query().Get("unmonitored"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id": 3, "title": "Tenet", "year": 2020, "inCinemas": "2026-08-10T00:00:00Z"}]`))
	})
	conn := newConnector(t, mux)

	movies, err := conn.GetCalendar(context.Background(), from, to)
	require.NoError(t, err)
	require.Len(t, movies, 1)
	require.NotNil(t, movies[0].InCinemas)
	assert.Equal(t, 10, movies[0].InCinemas.Day())
}

func TestLookupByTMDBIDIsBestEffort(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v3/movie/lookup/tmdb", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	conn := newConnector(t, mux)

	assert.Nil(t, conn.LookupByTMDBID(context.Background(), 123))
}
