package sonarr

import (
	"time"

	"github.com/arrdeck/arrdeck/internal/connector/arr"
)

// seriesResource is the wire shape of a Sonarr series.
type seriesResource struct {
	ID         int64               `json:"id"`
	Title      string              `json:"title"`
	SortTitle  string              `json:"sortTitle"`
	Year       int                 `json:"year"`
	TVDBID     int64               `json:"tvdbId"`
	IMDBID     string              `json:"imdbId"`
	TitleSlug  string              `json:"titleSlug"`
	Overview   string              `json:"overview"`
	Status     string              `json:"status"`
	Network    string              `json:"network"`
	Monitored  bool                `json:"monitored"`
	Path       string              `json:"path"`
	Images     []arr.ImageResource `json:"images"`
	Seasons    []seasonResource    `json:"seasons"`
	Statistics *seriesStatistics   `json:"statistics"`
	Added      *time.Time          `json:"added"`
}

type seasonResource struct {
	SeasonNumber int  `json:"seasonNumber"`
	Monitored    bool `json:"monitored"`
}

type seriesStatistics struct {
	SeasonCount  int   `json:"seasonCount"`
	EpisodeCount int   `json:"episodeCount"`
	SizeOnDisk   int64 `json:"sizeOnDisk"`
}

// episodeResource is the wire shape of a Sonarr episode / calendar entry.
type episodeResource struct {
	ID            int64           `json:"id"`
	SeriesID      int64           `json:"seriesId"`
	Title         string          `json:"title"`
	SeasonNumber  int             `json:"seasonNumber"`
	EpisodeNumber int             `json:"episodeNumber"`
	AirDateUTC    *time.Time      `json:"airDateUtc"`
	Overview      string          `json:"overview"`
	Monitored     bool            `json:"monitored"`
	HasFile       bool            `json:"hasFile"`
	Series        *seriesResource `json:"series"`
}

// addSeriesRequest is the payload posted to create a series.
type addSeriesRequest struct {
	Title            string           `json:"title"`
	TVDBID           int64            `json:"tvdbId"`
	TitleSlug        string           `json:"titleSlug,omitempty"`
	QualityProfileID int64            `json:"qualityProfileId"`
	RootFolderPath   string           `json:"rootFolderPath"`
	Monitored        bool             `json:"monitored"`
	SeasonFolder     bool             `json:"seasonFolder"`
	Path             string           `json:"path"`
	AddOptions       seriesAddOptions `json:"addOptions"`
}

type seriesAddOptions struct {
	SearchForMissingEpisodes bool   `json:"searchForMissingEpisodes"`
	Monitor                  string `json:"monitor"`
}
