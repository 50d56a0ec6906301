package models

import "time"

// MediaType represents the kind of media an entity describes.
type MediaType string

const (
	MediaTypeMovie   MediaType = "movie"
	MediaTypeSeries  MediaType = "series"
	MediaTypeEpisode MediaType = "episode"
	MediaTypeAlbum   MediaType = "album"
)

// Movie is the normalized projection of a Radarr movie resource.
type Movie struct {
	ID              int64      `json:"id"`
	Title           string     `json:"title"`
	SortTitle       string     `json:"sortTitle,omitempty"`
	Year            int        `json:"year"`
	TMDBID          int64      `json:"tmdbId,omitempty"`
	IMDBID          string     `json:"imdbId,omitempty"`
	Overview        string     `json:"overview,omitempty"`
	Status          string     `json:"status,omitempty"`
	Monitored       bool       `json:"monitored"`
	HasFile         bool       `json:"hasFile"`
	Path            string     `json:"path,omitempty"`
	PosterURL       string     `json:"posterUrl,omitempty"`
	BackdropURL     string     `json:"backdropUrl,omitempty"`
	Runtime         int        `json:"runtime,omitempty"`
	SizeOnDisk      int64      `json:"sizeOnDisk,omitempty"`
	Quality         string     `json:"quality,omitempty"`
	ReleaseDate     *time.Time `json:"releaseDate,omitempty"`
	InCinemas       *time.Time `json:"inCinemas,omitempty"`
	DigitalRelease  *time.Time `json:"digitalRelease,omitempty"`
	PhysicalRelease *time.Time `json:"physicalRelease,omitempty"`
	Added           *time.Time `json:"added,omitempty"`
}

// Series is the normalized projection of a Sonarr series resource.
type Series struct {
	ID           int64      `json:"id"`
	Title        string     `json:"title"`
	SortTitle    string     `json:"sortTitle,omitempty"`
	Year         int        `json:"year"`
	TVDBID       int64      `json:"tvdbId,omitempty"`
	IMDBID       string     `json:"imdbId,omitempty"`
	Overview     string     `json:"overview,omitempty"`
	Status       string     `json:"status,omitempty"`
	Network      string     `json:"network,omitempty"`
	Monitored    bool       `json:"monitored"`
	Path         string     `json:"path,omitempty"`
	PosterURL    string     `json:"posterUrl,omitempty"`
	BackdropURL  string     `json:"backdropUrl,omitempty"`
	SeasonCount  int        `json:"seasonCount,omitempty"`
	EpisodeCount int        `json:"episodeCount,omitempty"`
	SizeOnDisk   int64      `json:"sizeOnDisk,omitempty"`
	Added        *time.Time `json:"added,omitempty"`
}

// Episode is the normalized projection of a Sonarr calendar/episode resource.
type Episode struct {
	ID            int64      `json:"id"`
	SeriesID      int64      `json:"seriesId"`
	Title         string     `json:"title"`
	SeasonNumber  int        `json:"seasonNumber"`
	EpisodeNumber int        `json:"episodeNumber"`
	AirDate       *time.Time `json:"airDate,omitempty"`
	Overview      string     `json:"overview,omitempty"`
	Monitored     bool       `json:"monitored"`
	HasFile       bool       `json:"hasFile"`

	// Series is populated when the backend embeds series metadata in the
	// calendar payload; callers fall back to GetSeriesByID otherwise.
	Series *Series `json:"series,omitempty"`
}

// Artist is the normalized projection of a Lidarr artist resource.
type Artist struct {
	ID         int64  `json:"id"`
	Name       string `json:"artistName"`
	Monitored  bool   `json:"monitored"`
	AlbumCount int    `json:"albumCount,omitempty"`
	PosterURL  string `json:"posterUrl,omitempty"`
	Path       string `json:"path,omitempty"`
	Status     string `json:"status,omitempty"`
}

// Album is the normalized projection of a Lidarr album resource.
type Album struct {
	ID          int64      `json:"id"`
	ArtistID    int64      `json:"artistId"`
	Title       string     `json:"title"`
	ArtistName  string     `json:"artistName,omitempty"`
	Monitored   bool       `json:"monitored"`
	ReleaseDate *time.Time `json:"releaseDate,omitempty"`
	AlbumType   string     `json:"albumType,omitempty"`
	PosterURL   string     `json:"posterUrl,omitempty"`
}

// QueueItem is the normalized projection of a backend download-queue record.
type QueueItem struct {
	ID                  int64      `json:"id"`
	Title               string     `json:"title"`
	Status              string     `json:"status"`
	Protocol            string     `json:"protocol,omitempty"`
	Indexer             string     `json:"indexer,omitempty"`
	DownloadClient      string     `json:"downloadClient,omitempty"`
	Size                int64      `json:"size"`
	SizeLeft            int64      `json:"sizeleft"`
	Progress            float64    `json:"progress"`
	TimeLeft            string     `json:"timeleft,omitempty"`
	EstimatedCompletion *time.Time `json:"estimatedCompletionTime,omitempty"`
	ErrorMessage        string     `json:"errorMessage,omitempty"`
	StatusMessages      []string   `json:"statusMessages,omitempty"`
}

// MediaRequest is the normalized projection of a Jellyseerr media request.
type MediaRequest struct {
	ID          int64      `json:"id"`
	MediaType   MediaType  `json:"mediaType"`
	Title       string     `json:"title,omitempty"`
	TMDBID      int64      `json:"tmdbId,omitempty"`
	TVDBID      int64      `json:"tvdbId,omitempty"`
	Status      string     `json:"status"`
	RequestedBy string     `json:"requestedBy,omitempty"`
	CreatedAt   *time.Time `json:"createdAt,omitempty"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
}

// Indexer is the normalized projection of a Prowlarr indexer resource.
type Indexer struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Protocol string `json:"protocol,omitempty"`
	Privacy  string `json:"privacy,omitempty"`
	Enable   bool   `json:"enable"`
	Priority int    `json:"priority,omitempty"`
}

// IndexerStats summarizes per-indexer query/grab counts reported by Prowlarr.
type IndexerStats struct {
	IndexerID             int64  `json:"indexerId"`
	IndexerName           string `json:"indexerName"`
	AverageResponseTime   int64  `json:"averageResponseTime"`
	NumberOfQueries       int    `json:"numberOfQueries"`
	NumberOfGrabs         int    `json:"numberOfGrabs"`
	NumberOfFailedQueries int    `json:"numberOfFailedQueries"`
	NumberOfFailedGrabs   int    `json:"numberOfFailedGrabs"`
}
