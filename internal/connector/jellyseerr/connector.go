// Package jellyseerr implements the connector for Jellyseerr (request
// management). Its API differs from the *arr family: no paged /log
// endpoint, no /health resource list, and request moderation verbs.
package jellyseerr

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/arrdeck/arrdeck/internal/httpclient"
	"github.com/arrdeck/arrdeck/pkg/apierror"
	"github.com/arrdeck/arrdeck/pkg/interfaces"
	"github.com/arrdeck/arrdeck/pkg/models"
	"github.com/arrdeck/arrdeck/pkg/retry"
)

const apiPrefix = "/api/v1"

// Connector is the Jellyseerr backend client.
type Connector struct {
	cfg       models.ServiceConfig
	client    *httpclient.Client
	logger    interfaces.Logger
	retryOpts retry.Options
}

// New creates a Jellyseerr connector bound to cfg.
func New(cfg models.ServiceConfig, client *httpclient.Client, logger interfaces.Logger, retryOpts retry.Options) *Connector {
	return &Connector{cfg: cfg, client: client, logger: logger, retryOpts: retryOpts}
}

// Config returns the bound service configuration.
func (c *Connector) Config() models.ServiceConfig { return c.cfg }

type statusResponse struct {
	Version         string `json:"version"`
	CommitTag       string `json:"commitTag"`
	UpdateAvailable bool   `json:"updateAvailable"`
}

type requestPage struct {
	PageInfo struct {
		Pages   int `json:"pages"`
		Results int `json:"results"`
	} `json:"pageInfo"`
	Results []requestResource `json:"results"`
}

type requestResource struct {
	ID        int64      `json:"id"`
	Status    int        `json:"status"`
	CreatedAt *time.Time `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt"`
	Media     struct {
		MediaType string `json:"mediaType"`
		TMDBID    int64  `json:"tmdbId"`
		TVDBID    int64  `json:"tvdbId"`
	} `json:"media"`
	RequestedBy struct {
		DisplayName string `json:"displayName"`
		Email       string `json:"email"`
	} `json:"requestedBy"`
}

// RequestCounts mirrors the backend's request tallies.
type RequestCounts struct {
	Total      int `json:"total"`
	Pending    int `json:"pending"`
	Approved   int `json:"approved"`
	Processing int `json:"processing"`
	Available  int `json:"available"`
	Declined   int `json:"declined"`
}

type logsResponse struct {
	Results []logRecord `json:"results"`
}

type logRecord struct {
	Timestamp string `json:"timestamp"`
	Level     string `json:"level"`
	Label     string `json:"label"`
	Message   string `json:"message"`
}

func (c *Connector) errContext(operation, endpoint string) apierror.Context {
	return apierror.Context{
		ServiceID:   c.cfg.ID,
		ServiceType: string(c.cfg.Type),
		Operation:   operation,
		Endpoint:    endpoint,
	}
}

func (c *Connector) retryOptions(operation, endpoint string) retry.Options {
	opts := c.retryOpts
	opts.Context = c.errContext(operation, endpoint)
	opts.Logger = c.logger
	return opts
}

// GetVersion returns the backend's reported version.
func (c *Connector) GetVersion(ctx context.Context) (string, error) {
	endpoint := apiPrefix + "/status"
	var status statusResponse
	if err := c.client.Get(ctx, endpoint, nil, &status); err != nil {
		return "", apierror.LogAndNormalize(c.logger, err, c.errContext("GetVersion", endpoint), "Failed to read service version.")
	}
	return status.Version, nil
}

// GetHealth probes the status endpoint. Jellyseerr has no health
// resource list, so reachability is the whole signal.
func (c *Connector) GetHealth(ctx context.Context) models.ServiceHealth {
	now := time.Now()
	if _, err := c.GetVersion(ctx); err != nil {
		return models.ServiceHealth{
			Status:      models.HealthStateUnhealthy,
			Message:     err.Error(),
			LastChecked: now,
		}
	}
	return models.ServiceHealth{Status: models.HealthStateHealthy, LastChecked: now}
}

// TestConnection measures reachability and latency.
func (c *Connector) TestConnection(ctx context.Context) models.TestResult {
	start := time.Now()
	version, err := c.GetVersion(ctx)
	latency := time.Since(start)
	if err != nil {
		return models.TestResult{Success: false, Latency: latency, Message: err.Error()}
	}
	return models.TestResult{Success: true, Latency: latency, Version: version}
}

// GetLogs fetches recent application log lines from the settings API.
func (c *Connector) GetLogs(ctx context.Context, since time.Time, limit int) ([]models.LogEntry, error) {
	if limit <= 0 {
		limit = 500
	}
	endpoint := apiPrefix + "/settings/logs"
	query := url.Values{
		"take": {strconv.Itoa(limit)},
		"skip": {"0"},
	}

	var resp logsResponse
	if err := c.client.Get(ctx, endpoint, query, &resp); err != nil {
		return nil, apierror.LogAndNormalize(c.logger, err, c.errContext("GetLogs", endpoint), "Failed to fetch service logs.")
	}

	entries := make([]models.LogEntry, 0, len(resp.Results))
	for _, rec := range resp.Results {
		ts, err := time.Parse(time.RFC3339, rec.Timestamp)
		if err != nil {
			continue
		}
		if !since.IsZero() && ts.Before(since) {
			continue
		}
		message := rec.Message
		if rec.Label != "" {
			message = fmt.Sprintf("[%s] %s", rec.Label, rec.Message)
		}
		entries = append(entries, models.LogEntry{
			Timestamp: ts,
			Level:     mapLogLevel(rec.Level),
			Message:   message,
			ServiceID: c.cfg.ID,
		})
	}
	return entries, nil
}

// GetRequests lists media requests, optionally filtered by backend
// status keyword (all, pending, approved, available, processing).
func (c *Connector) GetRequests(ctx context.Context, filter string, limit int) ([]models.MediaRequest, error) {
	if limit <= 0 {
		limit = 100
	}
	if filter == "" {
		filter = "all"
	}
	endpoint := apiPrefix + "/request"
	query := url.Values{
		"take":   {strconv.Itoa(limit)},
		"filter": {filter},
		"sort":   {"added"},
	}

	return retry.Do(ctx, func(ctx context.Context) ([]models.MediaRequest, error) {
		var page requestPage
		if err := c.client.Get(ctx, endpoint, query, &page); err != nil {
			return nil, apierror.LogAndNormalize(c.logger, err, c.errContext("GetRequests", endpoint), "Failed to fetch requests.")
		}
		requests := make([]models.MediaRequest, 0, len(page.Results))
		for _, res := range page.Results {
			requests = append(requests, mapRequest(res))
		}
		return requests, nil
	}, c.retryOptions("GetRequests", endpoint))
}

// GetRequestCounts fetches the request tallies shown on the dashboard.
func (c *Connector) GetRequestCounts(ctx context.Context) (RequestCounts, error) {
	endpoint := apiPrefix + "/request/count"
	return retry.Do(ctx, func(ctx context.Context) (RequestCounts, error) {
		var counts RequestCounts
		if err := c.client.Get(ctx, endpoint, nil, &counts); err != nil {
			return RequestCounts{}, apierror.LogAndNormalize(c.logger, err, c.errContext("GetRequestCounts", endpoint), "Failed to fetch request counts.")
		}
		return counts, nil
	}, c.retryOptions("GetRequestCounts", endpoint))
}

// ApproveRequest approves a pending request.
func (c *Connector) ApproveRequest(ctx context.Context, id int64) error {
	endpoint := fmt.Sprintf("%s/request/%d/approve", apiPrefix, id)
	if err := c.client.Post(ctx, endpoint, nil, nil); err != nil {
		return apierror.LogAndNormalize(c.logger, err, c.errContext("ApproveRequest", endpoint), "Failed to approve request.")
	}
	return nil
}

// DeclineRequest declines a pending request.
func (c *Connector) DeclineRequest(ctx context.Context, id int64) error {
	endpoint := fmt.Sprintf("%s/request/%d/decline", apiPrefix, id)
	if err := c.client.Post(ctx, endpoint, nil, nil); err != nil {
		return apierror.LogAndNormalize(c.logger, err, c.errContext("DeclineRequest", endpoint), "Failed to decline request.")
	}
	return nil
}

// Backend request status codes.
const (
	statusPendingApproval = 1
	statusApproved        = 2
	statusDeclined        = 3
)

func mapRequest(res requestResource) models.MediaRequest {
	req := models.MediaRequest{
		ID:          res.ID,
		TMDBID:      res.Media.TMDBID,
		TVDBID:      res.Media.TVDBID,
		RequestedBy: res.RequestedBy.DisplayName,
		CreatedAt:   res.CreatedAt,
		UpdatedAt:   res.UpdatedAt,
	}
	if req.RequestedBy == "" {
		req.RequestedBy = res.RequestedBy.Email
	}
	switch res.Media.MediaType {
	case "movie":
		req.MediaType = models.MediaTypeMovie
	case "tv":
		req.MediaType = models.MediaTypeSeries
	}
	switch res.Status {
	case statusPendingApproval:
		req.Status = "pending"
	case statusApproved:
		req.Status = "approved"
	case statusDeclined:
		req.Status = "declined"
	default:
		req.Status = "unknown"
	}
	return req
}

func mapLogLevel(level string) models.LogLevel {
	switch level {
	case "error":
		return models.LogLevelError
	case "warn", "warning":
		return models.LogLevelWarn
	case "debug":
		return models.LogLevelDebug
	default:
		return models.LogLevelInfo
	}
}
