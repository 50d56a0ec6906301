package radarr

import (
	"time"

	"github.com/arrdeck/arrdeck/internal/connector/arr"
)

// movieResource is the wire shape of a Radarr movie.
type movieResource struct {
	ID              int64               `json:"id"`
	Title           string              `json:"title"`
	SortTitle       string              `json:"sortTitle"`
	Year            int                 `json:"year"`
	TMDBID          int64               `json:"tmdbId"`
	IMDBID          string              `json:"imdbId"`
	Overview        string              `json:"overview"`
	Status          string              `json:"status"`
	Monitored       bool                `json:"monitored"`
	HasFile         bool                `json:"hasFile"`
	Path            string              `json:"path"`
	Runtime         int                 `json:"runtime"`
	SizeOnDisk      int64               `json:"sizeOnDisk"`
	Images          []arr.ImageResource `json:"images"`
	MovieFile       *movieFile          `json:"movieFile"`
	ReleaseDate     *time.Time          `json:"releaseDate"`
	InCinemas       *time.Time          `json:"inCinemas"`
	DigitalRelease  *time.Time          `json:"digitalRelease"`
	PhysicalRelease *time.Time          `json:"physicalRelease"`
	Added           *time.Time          `json:"added"`
}

type movieFile struct {
	ID      int64 `json:"id"`
	Size    int64 `json:"size"`
	Quality struct {
		Quality struct {
			Name string `json:"name"`
		} `json:"quality"`
	} `json:"quality"`
}

// addMovieRequest is the payload posted to create a movie.
type addMovieRequest struct {
	Title            string          `json:"title"`
	TMDBID           int64           `json:"tmdbId"`
	Year             int             `json:"year"`
	QualityProfileID int64           `json:"qualityProfileId"`
	RootFolderPath   string          `json:"rootFolderPath"`
	Monitored        bool            `json:"monitored"`
	Path             string          `json:"path"`
	AddOptions       movieAddOptions `json:"addOptions"`
}

type movieAddOptions struct {
	SearchOnAdd    bool   `json:"searchOnAdd"`
	SearchForMovie bool   `json:"searchForMovie"`
	Monitor        string `json:"monitor"`
}
