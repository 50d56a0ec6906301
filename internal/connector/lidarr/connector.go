// Package lidarr implements the connector for Lidarr (music management)
// against its v1 API.
package lidarr

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

const apiPrefix = "/api/v1"

// Connector is the Lidarr backend client.
type Connector struct {
	arr.Base
}

// New creates a Lidarr connector bound to cfg.
func New(cfg models.ServiceConfig, client *httpclient.Client, logger interfaces.Logger, retryOpts retry.Options) *Connector {
	return &Connector{Base: arr.NewBase(cfg, client, apiPrefix, logger, retryOpts)}
}

type artistResource struct {
	ID         int64               `json:"id"`
	ArtistName string              `json:"artistName"`
	Monitored  bool                `json:"monitored"`
	Path       string              `json:"path"`
	Status     string              `json:"status"`
	Images     []arr.ImageResource `json:"images"`
	Statistics *struct {
		AlbumCount int `json:"albumCount"`
	} `json:"statistics"`
}

type albumResource struct {
	ID          int64               `json:"id"`
	ArtistID    int64               `json:"artistId"`
	Title       string              `json:"title"`
	Monitored   bool                `json:"monitored"`
	ReleaseDate *time.Time          `json:"releaseDate"`
	AlbumType   string              `json:"albumType"`
	Images      []arr.ImageResource `json:"images"`
	Artist      *artistResource     `json:"artist"`
}

// GetArtists lists every artist in the library.
func (c *Connector) GetArtists(ctx context.Context) ([]models.Artist, error) {
	endpoint := apiPrefix + "/artist"
	return retry.Do(ctx, func(ctx context.Context) ([]models.Artist, error) {
		var resources []artistResource
		if err := c.Client().Get(ctx, endpoint, nil, &resources); err != nil {
			return nil, apierror.LogAndNormalize(c.Logger(), err, c.ErrContext("GetArtists", endpoint), "Failed to fetch artists.")
		}
		artists := make([]models.Artist, 0, len(resources))
		for _, res := range resources {
			artists = append(artists, c.mapArtist(res))
		}
		return artists, nil
	}, c.RetryOptions("GetArtists", endpoint))
}

// SetArtistMonitored flips only the monitored flag, writing the fetched
// resource back whole per the backend's replacement semantics.
func (c *Connector) SetArtistMonitored(ctx context.Context, id int64, monitored bool) error {
	endpoint := fmt.Sprintf("%s/artist/%d", apiPrefix, id)

	var resource map[string]interface{}
	if err := c.Client().Get(ctx, endpoint, nil, &resource); err != nil {
		return apierror.LogAndNormalize(c.Logger(), err, c.ErrContext("SetArtistMonitored", endpoint), "Failed to fetch artist for update.")
	}
	resource["monitored"] = monitored

	if err := c.Client().Put(ctx, endpoint, resource, nil); err != nil {
		return apierror.LogAndNormalize(c.Logger(), err, c.ErrContext("SetArtistMonitored", endpoint), "Failed to update artist.")
	}
	return nil
}

// GetCalendar fetches albums releasing in [from, to].
func (c *Connector) GetCalendar(ctx context.Context, from, to time.Time) ([]models.Album, error) {
	endpoint := apiPrefix + "/calendar"
	query := url.Values{
		"start": {from.Format(time.RFC3339)},
		"end":   {to.Format(time.RFC3339)},
	}

	return retry.Do(ctx, func(ctx context.Context) ([]models.Album, error) {
		var resources []albumResource
		if err := c.Client().Get(ctx, endpoint, query, &resources); err != nil {
			return nil, apierror.LogAndNormalize(c.Logger(), err, c.ErrContext("GetCalendar", endpoint), "Failed to fetch calendar.")
		}
		albums := make([]models.Album, 0, len(resources))
		for _, res := range resources {
			albums = append(albums, c.mapAlbum(res))
		}
		return albums, nil
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

func (c *Connector) mapArtist(res artistResource) models.Artist {
	poster, _ := arr.ImageURLs(res.Images, c.Client().BaseURL(), c.Client().APIKey())
	artist := models.Artist{
		ID:        res.ID,
		Name:      res.ArtistName,
		Monitored: res.Monitored,
		Path:      res.Path,
		Status:    res.Status,
		PosterURL: poster,
	}
	if res.Statistics != nil {
		artist.AlbumCount = res.Statistics.AlbumCount
	}
	return artist
}

func (c *Connector) mapAlbum(res albumResource) models.Album {
	poster, _ := arr.ImageURLs(res.Images, c.Client().BaseURL(), c.Client().APIKey())
	album := models.Album{
		ID:          res.ID,
		ArtistID:    res.ArtistID,
		Title:       res.Title,
		Monitored:   res.Monitored,
		ReleaseDate: res.ReleaseDate,
		AlbumType:   res.AlbumType,
		PosterURL:   poster,
	}
	if res.Artist != nil {
		album.ArtistName = res.Artist.ArtistName
	}
	return album
}
