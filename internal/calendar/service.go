// Package calendar merges upcoming releases from every enabled Sonarr
// and Radarr connector into a single filtered timeline.
package calendar

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/arrdeck/arrdeck/internal/connector"
	"github.com/arrdeck/arrdeck/pkg/interfaces"
	"github.com/arrdeck/arrdeck/pkg/models"
)

// Default aggregation window around today.
const (
	defaultLookbackDays  = 30
	defaultLookaheadDays = 90
)

// ConnectorSource yields the active connectors to aggregate over.
type ConnectorSource interface {
	GetConnectorsByType(t models.ServiceType) []connector.Connector
}

// EpisodeCalendar is the slice of the Sonarr connector the aggregator
// needs.
type EpisodeCalendar interface {
	Config() models.ServiceConfig
	GetCalendar(ctx context.Context, from, to time.Time) ([]models.Episode, error)
	GetSeriesByID(ctx context.Context, id int64) (*models.Series, error)
}

// MovieCalendar is the slice of the Radarr connector the aggregator
// needs.
type MovieCalendar interface {
	Config() models.ServiceConfig
	GetCalendar(ctx context.Context, from, to time.Time) ([]models.Movie, error)
}

// Service aggregates per-backend calendars. It holds no release state;
// every query recomputes from the live connectors.
type Service struct {
	source ConnectorSource
	logger interfaces.Logger
	now    func() time.Time
}

// NewService creates a calendar aggregator over the given connector
// source.
func NewService(source ConnectorSource, logger interfaces.Logger) *Service {
	return &Service{source: source, logger: logger, now: time.Now}
}

// GetReleases queries every eligible connector for releases in the
// filter window and merges the results. A connector that fails is
// logged and skipped so the remaining services still produce a result.
func (s *Service) GetReleases(ctx context.Context, filters models.CalendarFilters) ([]models.MediaRelease, error) {
	from, to := s.window(filters)

	var (
		mu       sync.Mutex
		releases []models.MediaRelease
	)
	collect := func(batch []models.MediaRelease) {
		mu.Lock()
		releases = append(releases, batch...)
		mu.Unlock()
	}

	p := pool.New().WithContext(ctx)

	if s.typeWanted(filters, models.ServiceTypeSonarr) {
		for _, conn := range s.source.GetConnectorsByType(models.ServiceTypeSonarr) {
			src, ok := conn.(EpisodeCalendar)
			if !ok {
				continue
			}
			p.Go(func(ctx context.Context) error {
				batch, err := s.episodeReleases(ctx, src, from, to)
				if err != nil {
					s.logger.Warn("Skipping calendar source after fetch failure",
						interfaces.String("service_id", src.Config().ID),
						interfaces.String("service_type", string(models.ServiceTypeSonarr)),
						interfaces.Error(err))
					return nil
				}
				collect(batch)
				return nil
			})
		}
	}

	if s.typeWanted(filters, models.ServiceTypeRadarr) {
		for _, conn := range s.source.GetConnectorsByType(models.ServiceTypeRadarr) {
			src, ok := conn.(MovieCalendar)
			if !ok {
				continue
			}
			p.Go(func(ctx context.Context) error {
				batch, err := s.movieReleases(ctx, src, from, to)
				if err != nil {
					s.logger.Warn("Skipping calendar source after fetch failure",
						interfaces.String("service_id", src.Config().ID),
						interfaces.String("service_type", string(models.ServiceTypeRadarr)),
						interfaces.Error(err))
					return nil
				}
				collect(batch)
				return nil
			})
		}
	}

	if err := p.Wait(); err != nil {
		return nil, err
	}

	releases = s.applyFilters(releases, filters)
	sort.Slice(releases, func(i, j int) bool {
		return releases[i].ReleaseDate.Before(releases[j].ReleaseDate)
	})
	return releases, nil
}

// GetStats computes summary counts over the filtered release set.
func (s *Service) GetStats(ctx context.Context, filters models.CalendarFilters) (models.CalendarStats, error) {
	releases, err := s.GetReleases(ctx, filters)
	if err != nil {
		return models.CalendarStats{}, err
	}

	weekStart, weekEnd := localWeek(s.now())
	stats := models.CalendarStats{
		ByType:   make(map[models.MediaType]int),
		ByStatus: make(map[models.ReleaseStatus]int),
	}
	for _, r := range releases {
		stats.TotalReleases++
		if r.Status == models.ReleaseStatusUpcoming {
			stats.UpcomingReleases++
		}
		if r.Status == models.ReleaseStatusReleased &&
			!r.ReleaseDate.Before(weekStart) && r.ReleaseDate.Before(weekEnd) {
			stats.ReleasedThisWeek++
		}
		if r.Monitored {
			stats.MonitoredReleases++
		}
		stats.ByType[r.Type]++
		stats.ByStatus[r.Status]++
	}
	return stats, nil
}

func (s *Service) window(filters models.CalendarFilters) (time.Time, time.Time) {
	if filters.DateRange != nil {
		return filters.DateRange.Start, filters.DateRange.End
	}
	now := s.now()
	return now.AddDate(0, 0, -defaultLookbackDays), now.AddDate(0, 0, defaultLookaheadDays)
}

func (s *Service) typeWanted(filters models.CalendarFilters, t models.ServiceType) bool {
	if len(filters.ServiceTypes) == 0 {
		return true
	}
	for _, ft := range filters.ServiceTypes {
		if ft == t {
			return true
		}
	}
	return false
}

func (s *Service) episodeReleases(ctx context.Context, src EpisodeCalendar, from, to time.Time) ([]models.MediaRelease, error) {
	episodes, err := src.GetCalendar(ctx, from, to)
	if err != nil {
		return nil, err
	}

	cfg := src.Config()
	now := s.now()

	// Series metadata fetched during this call, so episodes of the same
	// show resolve it once.
	seriesByID := make(map[int64]*models.Series)
	resolveSeries := func(id int64) *models.Series {
		if cached, ok := seriesByID[id]; ok {
			return cached
		}
		series, err := src.GetSeriesByID(ctx, id)
		if err != nil {
			s.logger.Warn("Failed to resolve series metadata for calendar entry",
				interfaces.String("service_id", cfg.ID),
				interfaces.Int64("series_id", id),
				interfaces.Error(err))
			series = nil
		}
		seriesByID[id] = series
		return series
	}

	releases := make([]models.MediaRelease, 0, len(episodes))
	for _, ep := range episodes {
		if ep.AirDate == nil {
			continue
		}
		series := ep.Series
		if series == nil {
			series = resolveSeries(ep.SeriesID)
		}

		release := models.MediaRelease{
			ID:            models.ReleaseID(cfg.Type, cfg.ID, models.MediaTypeEpisode, ep.ID),
			Title:         ep.Title,
			Type:          models.MediaTypeEpisode,
			ReleaseDate:   *ep.AirDate,
			Status:        determineReleaseStatus(*ep.AirDate, now),
			Monitored:     ep.Monitored,
			ServiceID:     cfg.ID,
			ServiceType:   cfg.Type,
			ServiceName:   cfg.Name,
			Overview:      ep.Overview,
			SeasonNumber:  ep.SeasonNumber,
			EpisodeNumber: ep.EpisodeNumber,
		}
		if series != nil {
			release.SeriesTitle = series.Title
			release.PosterURL = series.PosterURL
			release.Year = series.Year
		}
		releases = append(releases, release)
	}
	return releases, nil
}

func (s *Service) movieReleases(ctx context.Context, src MovieCalendar, from, to time.Time) ([]models.MediaRelease, error) {
	movies, err := src.GetCalendar(ctx, from, to)
	if err != nil {
		return nil, err
	}

	cfg := src.Config()
	now := s.now()

	releases := make([]models.MediaRelease, 0, len(movies))
	for _, movie := range movies {
		date := movieReleaseDate(movie)
		if date == nil {
			continue
		}
		releases = append(releases, models.MediaRelease{
			ID:          models.ReleaseID(cfg.Type, cfg.ID, models.MediaTypeMovie, movie.ID),
			Title:       movie.Title,
			Type:        models.MediaTypeMovie,
			ReleaseDate: *date,
			Status:      determineReleaseStatus(*date, now),
			Monitored:   movie.Monitored,
			ServiceID:   cfg.ID,
			ServiceType: cfg.Type,
			ServiceName: cfg.Name,
			Overview:    movie.Overview,
			PosterURL:   movie.PosterURL,
			Year:        movie.Year,
		})
	}
	return releases, nil
}

// movieReleaseDate picks the first known date among the movie's release
// milestones.
func movieReleaseDate(movie models.Movie) *time.Time {
	for _, date := range []*time.Time{movie.ReleaseDate, movie.InCinemas, movie.DigitalRelease} {
		if date != nil {
			return date
		}
	}
	return nil
}

// determineReleaseStatus classifies a release date relative to now.
// Dates within the next week take the same status as later ones; a
// distinct "releasing soon" value has not been introduced to avoid a
// silent behavior change for consumers grouping by status.
func determineReleaseStatus(date, now time.Time) models.ReleaseStatus {
	if date.Before(now) {
		return models.ReleaseStatusReleased
	}
	if diffDays := int(date.Sub(now).Hours() / 24); diffDays <= 7 {
		return models.ReleaseStatusUpcoming
	}
	return models.ReleaseStatusUpcoming
}

// applyFilters narrows the merged set. All criteria are conjunctive.
func (s *Service) applyFilters(releases []models.MediaRelease, filters models.CalendarFilters) []models.MediaRelease {
	out := releases[:0]
	search := strings.ToLower(strings.TrimSpace(filters.Search))
	for _, r := range releases {
		if len(filters.MediaTypes) > 0 && !containsMediaType(filters.MediaTypes, r.Type) {
			continue
		}
		if len(filters.Statuses) > 0 && !containsStatus(filters.Statuses, r.Status) {
			continue
		}
		if len(filters.ServiceIDs) > 0 && !containsString(filters.ServiceIDs, r.ServiceID) {
			continue
		}
		if len(filters.ServiceTypes) > 0 && !containsServiceType(filters.ServiceTypes, r.ServiceType) {
			continue
		}
		switch filters.Monitored {
		case models.MonitoredFilterMonitored:
			if !r.Monitored {
				continue
			}
		case models.MonitoredFilterUnmonitored:
			if r.Monitored {
				continue
			}
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(r.Title), search) &&
			!strings.Contains(strings.ToLower(r.SeriesTitle), search) {
			continue
		}
		if filters.DateRange != nil &&
			(r.ReleaseDate.Before(filters.DateRange.Start) || r.ReleaseDate.After(filters.DateRange.End)) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// localWeek returns the [Sunday 00:00, next Sunday 00:00) bounds of the
// week containing t, in t's location.
func localWeek(t time.Time) (time.Time, time.Time) {
	year, month, day := t.Date()
	midnight := time.Date(year, month, day, 0, 0, 0, 0, t.Location())
	start := midnight.AddDate(0, 0, -int(midnight.Weekday()))
	return start, start.AddDate(0, 0, 7)
}

func containsMediaType(haystack []models.MediaType, needle models.MediaType) bool {
	for _, v := range haystack {
		if v == needle {
			return true
		}
	}
	return false
}

func containsStatus(haystack []models.ReleaseStatus, needle models.ReleaseStatus) bool {
	for _, v := range haystack {
		if v == needle {
			return true
		}
	}
	return false
}

func containsServiceType(haystack []models.ServiceType, needle models.ServiceType) bool {
	for _, v := range haystack {
		if v == needle {
			return true
		}
	}
	return false
}

func containsString(haystack []string, needle string) bool {
	for _, v := range haystack {
		if v == needle {
			return true
		}
	}
	return false
}
