// Package radarr implements the connector for Radarr (movie management)
// against its v3 API.
package radarr

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/arrdeck/arrdeck/internal/connector/arr"
	"github.com/arrdeck/arrdeck/internal/httpclient"
	"github.com/arrdeck/arrdeck/pkg/apierror"
	"github.com/arrdeck/arrdeck/pkg/interfaces"
	"github.com/arrdeck/arrdeck/pkg/models"
	"github.com/arrdeck/arrdeck/pkg/retry"
)

const apiPrefix = "/api/v3"

// Connector is the Radarr backend client.
type Connector struct {
	arr.Base
}

// New creates a Radarr connector bound to cfg.
func New(cfg models.ServiceConfig, client *httpclient.Client, logger interfaces.Logger, retryOpts retry.Options) *Connector {
	return &Connector{Base: arr.NewBase(cfg, client, apiPrefix, logger, retryOpts)}
}

// GetMovies lists every movie in the library.
func (c *Connector) GetMovies(ctx context.Context) ([]models.Movie, error) {
	endpoint := apiPrefix + "/movie"
	return retry.Do(ctx, func(ctx context.Context) ([]models.Movie, error) {
		var resources []movieResource
		if err := c.Client().Get(ctx, endpoint, nil, &resources); err != nil {
			return nil, apierror.LogAndNormalize(c.Logger(), err, c.ErrContext("GetMovies", endpoint), "Failed to fetch movies.")
		}
		movies := make([]models.Movie, 0, len(resources))
		for _, res := range resources {
			movies = append(movies, c.mapMovie(res))
		}
		return movies, nil
	}, c.RetryOptions("GetMovies", endpoint))
}

// GetMovieByID fetches a single movie.
func (c *Connector) GetMovieByID(ctx context.Context, id int64) (*models.Movie, error) {
	endpoint := fmt.Sprintf("%s/movie/%d", apiPrefix, id)
	var res movieResource
	if err := c.Client().Get(ctx, endpoint, nil, &res); err != nil {
		return nil, apierror.LogAndNormalize(c.Logger(), err, c.ErrContext("GetMovieByID", endpoint), "Failed to fetch movie.")
	}
	movie := c.mapMovie(res)
	return &movie, nil
}

// AddMoviePayload carries the fields needed to create a movie.
type AddMoviePayload struct {
	Title            string
	Year             int
	TMDBID           int64
	QualityProfileID int64
	RootFolderPath   string
}

// AddMovie creates a movie in Radarr. The library path is
// "{rootFolderPath}{sanitizedTitle} ({year})" and the movie is monitored
// and searched immediately.
func (c *Connector) AddMovie(ctx context.Context, payload AddMoviePayload) (*models.Movie, error) {
	endpoint := apiPrefix + "/movie"
	req := addMovieRequest{
		Title:            payload.Title,
		TMDBID:           payload.TMDBID,
		Year:             payload.Year,
		QualityProfileID: payload.QualityProfileID,
		RootFolderPath:   payload.RootFolderPath,
		Monitored:        true,
		Path:             fmt.Sprintf("%s%s (%d)", payload.RootFolderPath, arr.SanitizePathTitle(payload.Title), payload.Year),
		AddOptions: movieAddOptions{
			SearchOnAdd:    true,
			SearchForMovie: true,
			Monitor:        "movie",
		},
	}

	var res movieResource
	if err := c.Client().Post(ctx, endpoint, req, &res); err != nil {
		return nil, apierror.LogAndNormalize(c.Logger(), err, c.ErrContext("AddMovie", endpoint), "Failed to add movie.")
	}
	movie := c.mapMovie(res)
	return &movie, nil
}

// SetMonitored flips only the monitored flag. Radarr requires full
// resource replacement, so the current resource is fetched and written
// back with just that field changed.
func (c *Connector) SetMonitored(ctx context.Context, id int64, monitored bool) error {
	endpoint := fmt.Sprintf("%s/movie/%d", apiPrefix, id)

	var resource map[string]interface{}
	if err := c.Client().Get(ctx, endpoint, nil, &resource); err != nil {
		return apierror.LogAndNormalize(c.Logger(), err, c.ErrContext("SetMonitored", endpoint), "Failed to fetch movie for update.")
	}
	resource["monitored"] = monitored

	if err := c.Client().Put(ctx, endpoint, resource, nil); err != nil {
		return apierror.LogAndNormalize(c.Logger(), err, c.ErrContext("SetMonitored", endpoint), "Failed to update movie.")
	}
	return nil
}

// GetCalendar fetches the movies releasing in [from, to].
func (c *Connector) GetCalendar(ctx context.Context, from, to time.Time) ([]models.Movie, error) {
	endpoint := apiPrefix + "/calendar"
	query := url.Values{
		"start":       {from.Format(time.RFC3339)},
		"end":         {to.Format(time.RFC3339)},
		"unmonitored": {"true"},
	}

	return retry.Do(ctx, func(ctx context.Context) ([]models.Movie, error) {
		var resources []movieResource
		if err := c.Client().Get(ctx, endpoint, query, &resources); err != nil {
			return nil, apierror.LogAndNormalize(c.Logger(), err, c.ErrContext("GetCalendar", endpoint), "Failed to fetch calendar.")
		}
		movies := make([]models.Movie, 0, len(resources))
		for _, res := range resources {
			movies = append(movies, c.mapMovie(res))
		}
		return movies, nil
	}, c.RetryOptions("GetCalendar", endpoint))
}

// GetQueue fetches the download queue.
func (c *Connector) GetQueue(ctx context.Context) ([]models.QueueItem, error) {
	endpoint := apiPrefix + "/queue"
	query := url.Values{"pageSize": {"200"}}

	return retry.Do(ctx, func(ctx context.Context) ([]models.QueueItem, error) {
		var page arr.Page[arr.QueueRecord]
		if err := c.Client().Get(ctx, endpoint, query, &page); err != nil {
			return nil, apierror.LogAndNormalize(c.Logger(), err, c.ErrContext("GetQueue", endpoint), "Failed to fetch queue.")
		}
		return arr.Queue(page.Records), nil
	}, c.RetryOptions("GetQueue", endpoint))
}

// LookupByTMDBID searches Radarr's lookup endpoint for a movie by TMDB
// id. Lookups are best-effort enrichment: on failure it logs a warning
// and returns nil rather than an error.
func (c *Connector) LookupByTMDBID(ctx context.Context, tmdbID int64) *models.Movie {
	endpoint := apiPrefix + "/movie/lookup/tmdb"
	query := url.Values{"tmdbId": {strconv.FormatInt(tmdbID, 10)}}

	var resources []movieResource
	if err := c.Client().Get(ctx, endpoint, query, &resources); err != nil {
		c.Logger().Warn("movie lookup failed",
			interfaces.String("service_id", c.Config().ID),
			interfaces.Int64("tmdb_id", tmdbID),
			interfaces.Error(err))
		return nil
	}
	if len(resources) == 0 {
		return nil
	}
	movie := c.mapMovie(resources[0])
	return &movie
}

func (c *Connector) mapMovie(res movieResource) models.Movie {
	poster, backdrop := arr.ImageURLs(res.Images, c.Client().BaseURL(), c.Client().APIKey())
	movie := models.Movie{
		ID:              res.ID,
		Title:           res.Title,
		SortTitle:       res.SortTitle,
		Year:            res.Year,
		TMDBID:          res.TMDBID,
		IMDBID:          res.IMDBID,
		Overview:        res.Overview,
		Status:          res.Status,
		Monitored:       res.Monitored,
		HasFile:         res.HasFile,
		Path:            res.Path,
		PosterURL:       poster,
		BackdropURL:     backdrop,
		Runtime:         res.Runtime,
		SizeOnDisk:      res.SizeOnDisk,
		ReleaseDate:     res.ReleaseDate,
		InCinemas:       res.InCinemas,
		DigitalRelease:  res.DigitalRelease,
		PhysicalRelease: res.PhysicalRelease,
		Added:           res.Added,
	}
	if res.MovieFile != nil {
		movie.Quality = res.MovieFile.Quality.Quality.Name
	}
	return movie
}
