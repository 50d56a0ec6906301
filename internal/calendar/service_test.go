package calendar_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arrdeck/arrdeck/internal/calendar"
	"github.com/arrdeck/arrdeck/internal/connector"
	"github.com/arrdeck/arrdeck/pkg/apierror"
	"github.com/arrdeck/arrdeck/pkg/logger"
	"github.com/arrdeck/arrdeck/pkg/models"
)

type baseFake struct {
	cfg models.ServiceConfig
}

func (f *baseFake) Config() models.ServiceConfig { return f.cfg }

func (f *baseFake) GetHealth(context.Context) models.ServiceHealth {
	return models.ServiceHealth{Status: models.HealthStateHealthy}
}

func (f *baseFake) GetVersion(context.Context) (string, error) { return "4.0.0", nil }

func (f *baseFake) TestConnection(context.Context) models.TestResult {
	return models.TestResult{Success: true}
}

func (f *baseFake) GetLogs(context.Context, time.Time, int) ([]models.LogEntry, error) {
	return nil, nil
}

type fakeSonarr struct {
	baseFake
	episodes    []models.Episode
	calendarErr error
	series      map[int64]*models.Series
	seriesCalls int
}

func (f *fakeSonarr) GetCalendar(context.Context, time.Time, time.Time) ([]models.Episode, error) {
	return f.episodes, f.calendarErr
}

func (f *fakeSonarr) GetSeriesByID(_ context.Context, id int64) (*models.Series, error) {
	f.seriesCalls++
	if s, ok := f.series[id]; ok {
		return s, nil
	}
	return nil, apierror.FromStatus(404, "")
}

type fakeRadarr struct {
	baseFake
	movies      []models.Movie
	calendarErr error
}

func (f *fakeRadarr) GetCalendar(context.Context, time.Time, time.Time) ([]models.Movie, error) {
	return f.movies, f.calendarErr
}

type fakeSource struct {
	byType map[models.ServiceType][]connector.Connector
}

func (s *fakeSource) GetConnectorsByType(t models.ServiceType) []connector.Connector {
	return s.byType[t]
}

func timePtr(t time.Time) *time.Time { return &t }

func newFixture() (*fakeSonarr, *fakeRadarr, *calendar.Service) {
	now := time.Now()
	son := &fakeSonarr{
		baseFake: baseFake{cfg: models.ServiceConfig{ID: "tv-1", Name: "TV", Type: models.ServiceTypeSonarr}},
		episodes: []models.Episode{
			{
				ID: 11, SeriesID: 5, Title: "Pilot", SeasonNumber: 1, EpisodeNumber: 1,
				AirDate: timePtr(now.AddDate(0, 0, 2)), Monitored: true,
				Series: &models.Series{ID: 5, Title: "Severance", Year: 2022, PosterURL: "http://tv/poster.jpg"},
			},
			{
				ID: 12, SeriesID: 6, Title: "Orphan", SeasonNumber: 2, EpisodeNumber: 3,
				AirDate: timePtr(now.AddDate(0, 0, 30)), Monitored: false,
			},
			{
				ID: 13, SeriesID: 6, Title: "Finale", SeasonNumber: 2, EpisodeNumber: 4,
				AirDate: timePtr(now.AddDate(0, 0, 37)), Monitored: false,
			},
		},
		series: map[int64]*models.Series{
			6: {ID: 6, Title: "Dark", Year: 2017},
		},
	}
	rad := &fakeRadarr{
		baseFake: baseFake{cfg: models.ServiceConfig{ID: "mv-1", Name: "Movies", Type: models.ServiceTypeRadarr}},
		movies: []models.Movie{
			{ID: 7, Title: "Dune", Year: 2021, Monitored: true, InCinemas: timePtr(now.AddDate(0, 0, -10))},
			{ID: 8, Title: "Tenet", Year: 2020, Monitored: false}, // no date, skipped
		},
	}
	source := &fakeSource{byType: map[models.ServiceType][]connector.Connector{
		models.ServiceTypeSonarr: {son},
		models.ServiceTypeRadarr: {rad},
	}}
	return son, rad, calendar.NewService(source, logger.NewNoop())
}

func TestGetReleasesMergesAndSorts(t *testing.T) {
	_, _, svc := newFixture()

	releases, err := svc.GetReleases(context.Background(), models.CalendarFilters{})
	require.NoError(t, err)
	// 3 episodes + 1 movie with a date.
	require.Len(t, releases, 4)

	for i := 1; i < len(releases); i++ {
		assert.False(t, releases[i].ReleaseDate.Before(releases[i-1].ReleaseDate))
	}

	byID := map[string]models.MediaRelease{}
	for _, r := range releases {
		byID[r.ID] = r
	}
	pilot := byID["sonarr-tv-1-episode-11"]
	assert.Equal(t, "Severance", pilot.SeriesTitle)
	assert.Equal(t, "http://tv/poster.jpg", pilot.PosterURL)
	assert.Equal(t, models.ReleaseStatusUpcoming, pilot.Status)

	dune := byID["radarr-mv-1-movie-7"]
	assert.Equal(t, models.MediaTypeMovie, dune.Type)
	assert.Equal(t, models.ReleaseStatusReleased, dune.Status)
}

func TestGetReleasesResolvesMissingSeriesOnce(t *testing.T) {
	son, _, svc := newFixture()

	releases, err := svc.GetReleases(context.Background(), models.CalendarFilters{
		ServiceTypes: []models.ServiceType{models.ServiceTypeSonarr},
	})
	require.NoError(t, err)
	require.Len(t, releases, 3)

	// Two episodes of series 6, one lookup.
	assert.Equal(t, 1, son.seriesCalls)
	byID := map[string]models.MediaRelease{}
	for _, r := range releases {
		byID[r.ID] = r
	}
	assert.Equal(t, "Dark", byID["sonarr-tv-1-episode-12"].SeriesTitle)
	assert.Equal(t, "Dark", byID["sonarr-tv-1-episode-13"].SeriesTitle)
}

func TestGetReleasesToleratesFailingService(t *testing.T) {
	son, _, svc := newFixture()
	son.calendarErr = apierror.FromStatus(503, "")

	releases, err := svc.GetReleases(context.Background(), models.CalendarFilters{})
	require.NoError(t, err)
	require.Len(t, releases, 1)
	assert.Equal(t, models.MediaTypeMovie, releases[0].Type)
}

func TestGetReleasesFilterPipeline(t *testing.T) {
	_, _, svc := newFixture()

	t.Run("media type", func(t *testing.T) {
		releases, err := svc.GetReleases(context.Background(), models.CalendarFilters{
			MediaTypes: []models.MediaType{models.MediaTypeMovie},
		})
		require.NoError(t, err)
		require.Len(t, releases, 1)
	})

	t.Run("status", func(t *testing.T) {
		releases, err := svc.GetReleases(context.Background(), models.CalendarFilters{
			Statuses: []models.ReleaseStatus{models.ReleaseStatusReleased},
		})
		require.NoError(t, err)
		require.Len(t, releases, 1)
		assert.Equal(t, "Dune", releases[0].Title)
	})

	t.Run("monitored tri-state", func(t *testing.T) {
		monitored, err := svc.GetReleases(context.Background(), models.CalendarFilters{
			Monitored: models.MonitoredFilterMonitored,
		})
		require.NoError(t, err)
		assert.Len(t, monitored, 2)

		unmonitored, err := svc.GetReleases(context.Background(), models.CalendarFilters{
			Monitored: models.MonitoredFilterUnmonitored,
		})
		require.NoError(t, err)
		assert.Len(t, unmonitored, 2)
	})

	t.Run("search matches series title", func(t *testing.T) {
		releases, err := svc.GetReleases(context.Background(), models.CalendarFilters{
			Search: "severance",
		})
		require.NoError(t, err)
		require.Len(t, releases, 1)
		assert.Equal(t, "Pilot", releases[0].Title)
	})

	t.Run("service id", func(t *testing.T) {
		releases, err := svc.GetReleases(context.Background(), models.CalendarFilters{
			ServiceIDs: []string{"mv-1"},
		})
		require.NoError(t, err)
		require.Len(t, releases, 1)
	})

	t.Run("date range bound", func(t *testing.T) {
		now := time.Now()
		releases, err := svc.GetReleases(context.Background(), models.CalendarFilters{
			DateRange: &models.DateRange{Start: now, End: now.AddDate(0, 0, 7)},
		})
		require.NoError(t, err)
		require.Len(t, releases, 1)
		assert.Equal(t, "Pilot", releases[0].Title)
	})
}

func TestGetStats(t *testing.T) {
	_, _, svc := newFixture()

	stats, err := svc.GetStats(context.Background(), models.CalendarFilters{})
	require.NoError(t, err)

	assert.Equal(t, 4, stats.TotalReleases)
	assert.Equal(t, 3, stats.UpcomingReleases)
	assert.Equal(t, 2, stats.MonitoredReleases)
	assert.Equal(t, 3, stats.ByType[models.MediaTypeEpisode])
	assert.Equal(t, 1, stats.ByType[models.MediaTypeMovie])
	assert.Equal(t, 1, stats.ByStatus[models.ReleaseStatusReleased])
	// Released ten days ago falls outside the current Sun-Sat week.
	assert.Equal(t, 0, stats.ReleasedThisWeek)
}

func TestReleaseStatusBoundary(t *testing.T) {
	now := time.Now()
	son := &fakeSonarr{
		baseFake: baseFake{cfg: models.ServiceConfig{ID: "tv-1", Type: models.ServiceTypeSonarr}},
		episodes: []models.Episode{
			{ID: 1, SeriesID: 5, Title: "Past", AirDate: timePtr(now.Add(-time.Hour)),
				Series: &models.Series{ID: 5, Title: "S"}},
			{ID: 2, SeriesID: 5, Title: "Soon", AirDate: timePtr(now.AddDate(0, 0, 3)),
				Series: &models.Series{ID: 5, Title: "S"}},
			{ID: 3, SeriesID: 5, Title: "Later", AirDate: timePtr(now.AddDate(0, 0, 60)),
				Series: &models.Series{ID: 5, Title: "S"}},
		},
	}
	source := &fakeSource{byType: map[models.ServiceType][]connector.Connector{
		models.ServiceTypeSonarr: {son},
	}}
	svc := calendar.NewService(source, logger.NewNoop())

	releases, err := svc.GetReleases(context.Background(), models.CalendarFilters{})
	require.NoError(t, err)
	require.Len(t, releases, 3)

	byTitle := map[string]models.ReleaseStatus{}
	for _, r := range releases {
		byTitle[r.Title] = r.Status
	}
	assert.Equal(t, models.ReleaseStatusReleased, byTitle["Past"])
	// Near and distant future both classify as upcoming.
	assert.Equal(t, models.ReleaseStatusUpcoming, byTitle["Soon"])
	assert.Equal(t, models.ReleaseStatusUpcoming, byTitle["Later"])
}
