// Package arr holds wire shapes and mapping helpers shared by the
// Sonarr, Radarr, Lidarr and Prowlarr connectors, which expose near
// identical system endpoints.
package arr

import "time"

// HealthResource is one item from a backend's /health endpoint.
type HealthResource struct {
	ID      int64  `json:"id"`
	Source  string `json:"source"`
	Type    string `json:"type"` // error, warning, notice, info
	Message string `json:"message"`
	WikiURL string `json:"wikiUrl"`
}

// SystemStatus is the subset of /system/status the connectors consume.
type SystemStatus struct {
	Version   string `json:"version"`
	AppName   string `json:"appName"`
	Branch    string `json:"branch"`
	OSName    string `json:"osName"`
	StartTime string `json:"startTime"`
}

// ImageResource is one entry of a media resource's images[] array.
type ImageResource struct {
	CoverType string `json:"coverType"` // poster, fanart, banner, ...
	URL       string `json:"url"`
	RemoteURL string `json:"remoteUrl"`
}

// Page is the standard paged envelope used by queue and log endpoints.
type Page[T any] struct {
	Page          int    `json:"page"`
	PageSize      int    `json:"pageSize"`
	SortKey       string `json:"sortKey"`
	SortDirection string `json:"sortDirection"`
	TotalRecords  int    `json:"totalRecords"`
	Records       []T    `json:"records"`
}

// QueueRecord is the common shape of a download-queue record.
type QueueRecord struct {
	ID                      int64           `json:"id"`
	Title                   string          `json:"title"`
	Status                  string          `json:"status"`
	Protocol                string          `json:"protocol"`
	Indexer                 string          `json:"indexer"`
	DownloadClient          string          `json:"downloadClient"`
	Size                    int64           `json:"size"`
	SizeLeft                int64           `json:"sizeleft"`
	TimeLeft                string          `json:"timeleft"`
	EstimatedCompletionTime *time.Time      `json:"estimatedCompletionTime"`
	ErrorMessage            string          `json:"errorMessage"`
	StatusMessages          []StatusMessage `json:"statusMessages"`
}

// StatusMessage carries detailed per-record queue diagnostics.
type StatusMessage struct {
	Title    string   `json:"title"`
	Messages []string `json:"messages"`
}

// LogRecord is one line from a backend's /log endpoint.
type LogRecord struct {
	ID        int64     `json:"id"`
	Time      time.Time `json:"time"`
	Level     string    `json:"level"`
	Logger    string    `json:"logger"`
	Message   string    `json:"message"`
	Exception string    `json:"exception"`
}
