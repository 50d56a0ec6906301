package models

import (
	"fmt"
	"time"
)

// ReleaseStatus classifies a calendar entry relative to today.
type ReleaseStatus string

const (
	ReleaseStatusUpcoming  ReleaseStatus = "upcoming"
	ReleaseStatusReleased  ReleaseStatus = "released"
	ReleaseStatusDelayed   ReleaseStatus = "delayed"
	ReleaseStatusCancelled ReleaseStatus = "cancelled"
)

// MediaRelease is a unified calendar entry synthesized from a Sonarr
// episode or a Radarr movie. It is computed fresh per query and never
// persisted.
type MediaRelease struct {
	// ID is "{serviceType}-{serviceID}-{entityKind}-{entityID}", unique
	// across services without any coordinating authority.
	ID            string        `json:"id"`
	Title         string        `json:"title"`
	Type          MediaType     `json:"type"`
	ReleaseDate   time.Time     `json:"releaseDate"`
	Status        ReleaseStatus `json:"status"`
	Monitored     bool          `json:"monitored"`
	ServiceID     string        `json:"serviceId"`
	ServiceType   ServiceType   `json:"serviceType"`
	ServiceName   string        `json:"serviceName,omitempty"`
	Overview      string        `json:"overview,omitempty"`
	PosterURL     string        `json:"posterUrl,omitempty"`
	SeriesTitle   string        `json:"seriesTitle,omitempty"`
	SeasonNumber  int           `json:"seasonNumber,omitempty"`
	EpisodeNumber int           `json:"episodeNumber,omitempty"`
	Year          int           `json:"year,omitempty"`
}

// ReleaseID builds the composite calendar entry id.
func ReleaseID(serviceType ServiceType, serviceID string, kind MediaType, entityID int64) string {
	return fmt.Sprintf("%s-%s-%s-%d", serviceType, serviceID, kind, entityID)
}

// DateRange is an inclusive calendar window.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// MonitoredFilter is a tri-state filter over the monitored flag.
type MonitoredFilter string

const (
	MonitoredFilterAll         MonitoredFilter = ""
	MonitoredFilterMonitored   MonitoredFilter = "monitored"
	MonitoredFilterUnmonitored MonitoredFilter = "unmonitored"
)

// CalendarFilters narrows an aggregated release query. All criteria are
// conjunctive; zero values mean "no restriction".
type CalendarFilters struct {
	DateRange    *DateRange      `json:"dateRange,omitempty"`
	MediaTypes   []MediaType     `json:"mediaTypes,omitempty"`
	Statuses     []ReleaseStatus `json:"statuses,omitempty"`
	ServiceIDs   []string        `json:"serviceIds,omitempty"`
	ServiceTypes []ServiceType   `json:"serviceTypes,omitempty"`
	Monitored    MonitoredFilter `json:"monitored,omitempty"`
	Search       string          `json:"search,omitempty"`
}

// CalendarStats summarizes a filtered release set.
type CalendarStats struct {
	TotalReleases     int                   `json:"totalReleases"`
	UpcomingReleases  int                   `json:"upcomingReleases"`
	ReleasedThisWeek  int                   `json:"releasedThisWeek"`
	MonitoredReleases int                   `json:"monitoredReleases"`
	ByType            map[MediaType]int     `json:"byType"`
	ByStatus          map[ReleaseStatus]int `json:"byStatus"`
}
