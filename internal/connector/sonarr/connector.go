// Package sonarr implements the connector for Sonarr (TV series
// management) against its v3 API.
package sonarr

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/arrdeck/arrdeck/internal/connector/arr"
	"github.com/arrdeck/arrdeck/internal/httpclient"
	"github.com/arrdeck/arrdeck/pkg/apierror"
	"github.com/arrdeck/arrdeck/pkg/interfaces"
	"github.com/arrdeck/arrdeck/pkg/models"
	"github.com/arrdeck/arrdeck/pkg/retry"
)

const apiPrefix = "/api/v3"

// Connector is the Sonarr backend client.
type Connector struct {
	arr.Base
}

// New creates a Sonarr connector bound to cfg.
func New(cfg models.ServiceConfig, client *httpclient.Client, logger interfaces.Logger, retryOpts retry.Options) *Connector {
	return &Connector{Base: arr.NewBase(cfg, client, apiPrefix, logger, retryOpts)}
}

// GetSeries lists every series in the library.
func (c *Connector) GetSeries(ctx context.Context) ([]models.Series, error) {
	endpoint := apiPrefix + "/series"
	return retry.Do(ctx, func(ctx context.Context) ([]models.Series, error) {
		var resources []seriesResource
		if err := c.Client().Get(ctx, endpoint, nil, &resources); err != nil {
			return nil, apierror.LogAndNormalize(c.Logger(), err, c.ErrContext("GetSeries", endpoint), "Failed to fetch series.")
		}
		series := make([]models.Series, 0, len(resources))
		for _, res := range resources {
			series = append(series, c.mapSeries(res))
		}
		return series, nil
	}, c.RetryOptions("GetSeries", endpoint))
}

// GetSeriesByID fetches a single series.
func (c *Connector) GetSeriesByID(ctx context.Context, id int64) (*models.Series, error) {
	endpoint := fmt.Sprintf("%s/series/%d", apiPrefix, id)
	var res seriesResource
	if err := c.Client().Get(ctx, endpoint, nil, &res); err != nil {
		return nil, apierror.LogAndNormalize(c.Logger(), err, c.ErrContext("GetSeriesByID", endpoint), "Failed to fetch series.")
	}
	series := c.mapSeries(res)
	return &series, nil
}

// AddSeries creates a series in Sonarr. The library path is derived from
// the root folder and a sanitized title.
func (c *Connector) AddSeries(ctx context.Context, payload AddSeriesPayload) (*models.Series, error) {
	endpoint := apiPrefix + "/series"
	req := addSeriesRequest{
		Title:            payload.Title,
		TVDBID:           payload.TVDBID,
		TitleSlug:        payload.TitleSlug,
		QualityProfileID: payload.QualityProfileID,
		RootFolderPath:   payload.RootFolderPath,
		Monitored:        true,
		SeasonFolder:     true,
		Path:             fmt.Sprintf("%s%s (%d)", payload.RootFolderPath, arr.SanitizePathTitle(payload.Title), payload.Year),
		AddOptions: seriesAddOptions{
			SearchForMissingEpisodes: true,
			Monitor:                  "all",
		},
	}

	var res seriesResource
	if err := c.Client().Post(ctx, endpoint, req, &res); err != nil {
		return nil, apierror.LogAndNormalize(c.Logger(), err, c.ErrContext("AddSeries", endpoint), "Failed to add series.")
	}
	series := c.mapSeries(res)
	return &series, nil
}

// AddSeriesPayload carries the fields needed to create a series.
type AddSeriesPayload struct {
	Title            string
	Year             int
	TVDBID           int64
	TitleSlug        string
	QualityProfileID int64
	RootFolderPath   string
}

// SetMonitored flips only the monitored flag. Sonarr requires full
// resource replacement on update, so the current resource is fetched
// and written back otherwise untouched.
func (c *Connector) SetMonitored(ctx context.Context, id int64, monitored bool) error {
	endpoint := fmt.Sprintf("%s/series/%d", apiPrefix, id)

	var resource map[string]interface{}
	if err := c.Client().Get(ctx, endpoint, nil, &resource); err != nil {
		return apierror.LogAndNormalize(c.Logger(), err, c.ErrContext("SetMonitored", endpoint), "Failed to fetch series for update.")
	}
	resource["monitored"] = monitored

	if err := c.Client().Put(ctx, endpoint, resource, nil); err != nil {
		return apierror.LogAndNormalize(c.Logger(), err, c.ErrContext("SetMonitored", endpoint), "Failed to update series.")
	}
	return nil
}

// GetCalendar fetches the episodes airing in [from, to], with series
// metadata embedded where the backend provides it.
func (c *Connector) GetCalendar(ctx context.Context, from, to time.Time) ([]models.Episode, error) {
	endpoint := apiPrefix + "/calendar"
	query := url.Values{
		"start":         {from.Format(time.RFC3339)},
		"end":           {to.Format(time.RFC3339)},
		"includeSeries": {"true"},
	}

	return retry.Do(ctx, func(ctx context.Context) ([]models.Episode, error) {
		var resources []episodeResource
		if err := c.Client().Get(ctx, endpoint, query, &resources); err != nil {
			return nil, apierror.LogAndNormalize(c.Logger(), err, c.ErrContext("GetCalendar", endpoint), "Failed to fetch calendar.")
		}
		episodes := make([]models.Episode, 0, len(resources))
		for _, res := range resources {
			episodes = append(episodes, c.mapEpisode(res))
		}
		return episodes, nil
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

// LookupByTVDBID searches Sonarr's lookup endpoint for a series by TVDB
// id. Lookups are best-effort enrichment: on failure it logs a warning
// and returns nil rather than an error.
func (c *Connector) LookupByTVDBID(ctx context.Context, tvdbID int64) *models.Series {
	endpoint := apiPrefix + "/series/lookup"
	query := url.Values{"term": {fmt.Sprintf("tvdb:%d", tvdbID)}}

	var resources []seriesResource
	if err := c.Client().Get(ctx, endpoint, query, &resources); err != nil {
		c.Logger().Warn("series lookup failed",
			interfaces.String("service_id", c.Config().ID),
			interfaces.Int64("tvdb_id", tvdbID),
			interfaces.Error(err))
		return nil
	}
	if len(resources) == 0 {
		return nil
	}
	series := c.mapSeries(resources[0])
	return &series
}

func (c *Connector) mapSeries(res seriesResource) models.Series {
	poster, backdrop := arr.ImageURLs(res.Images, c.Client().BaseURL(), c.Client().APIKey())
	series := models.Series{
		ID:          res.ID,
		Title:       res.Title,
		SortTitle:   res.SortTitle,
		Year:        res.Year,
		TVDBID:      res.TVDBID,
		IMDBID:      res.IMDBID,
		Overview:    res.Overview,
		Status:      res.Status,
		Network:     res.Network,
		Monitored:   res.Monitored,
		Path:        res.Path,
		PosterURL:   poster,
		BackdropURL: backdrop,
		Added:       res.Added,
	}
	if res.Statistics != nil {
		series.SeasonCount = res.Statistics.SeasonCount
		series.EpisodeCount = res.Statistics.EpisodeCount
		series.SizeOnDisk = res.Statistics.SizeOnDisk
	}
	return series
}

func (c *Connector) mapEpisode(res episodeResource) models.Episode {
	ep := models.Episode{
		ID:            res.ID,
		SeriesID:      res.SeriesID,
		Title:         res.Title,
		SeasonNumber:  res.SeasonNumber,
		EpisodeNumber: res.EpisodeNumber,
		AirDate:       res.AirDateUTC,
		Overview:      res.Overview,
		Monitored:     res.Monitored,
		HasFile:       res.HasFile,
	}
	if res.Series != nil {
		series := c.mapSeries(*res.Series)
		ep.Series = &series
	}
	return ep
}
