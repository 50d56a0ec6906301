package arr

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/arrdeck/arrdeck/internal/httpclient"
	"github.com/arrdeck/arrdeck/pkg/apierror"
	"github.com/arrdeck/arrdeck/pkg/interfaces"
	"github.com/arrdeck/arrdeck/pkg/models"
	"github.com/arrdeck/arrdeck/pkg/retry"
)

// Base carries the plumbing every *arr connector shares: the bound
// client, API path prefix, retry policy and the system endpoints
// (health, status, logs) whose shapes are identical across backends.
type Base struct {
	cfg       models.ServiceConfig
	client    *httpclient.Client
	prefix    string
	logger    interfaces.Logger
	retryOpts retry.Options
}

// NewBase builds the shared plumbing. prefix is the versioned API root,
// e.g. "/api/v3" for Sonarr and Radarr, "/api/v1" for Lidarr and
// Prowlarr.
func NewBase(cfg models.ServiceConfig, client *httpclient.Client, prefix string, logger interfaces.Logger, retryOpts retry.Options) Base {
	return Base{
		cfg:       cfg,
		client:    client,
		prefix:    prefix,
		logger:    logger,
		retryOpts: retryOpts,
	}
}

// Config returns the bound service configuration.
func (b *Base) Config() models.ServiceConfig { return b.cfg }

// Client returns the bound HTTP client.
func (b *Base) Client() *httpclient.Client { return b.client }

// Prefix returns the versioned API root path.
func (b *Base) Prefix() string { return b.prefix }

// Logger returns the connector's logger.
func (b *Base) Logger() interfaces.Logger { return b.logger }

// ErrContext tags an error with this connector's identity and the
// failing operation.
func (b *Base) ErrContext(operation, endpoint string) apierror.Context {
	return apierror.Context{
		ServiceID:   b.cfg.ID,
		ServiceType: string(b.cfg.Type),
		Operation:   operation,
		Endpoint:    endpoint,
	}
}

// RetryOptions returns the connector's retry policy tagged for the
// given operation.
func (b *Base) RetryOptions(operation, endpoint string) retry.Options {
	opts := b.retryOpts
	opts.Context = b.ErrContext(operation, endpoint)
	opts.Logger = b.logger
	return opts
}

// GetHealth probes the backend health endpoint. A transport failure
// yields an unhealthy snapshot instead of an error.
func (b *Base) GetHealth(ctx context.Context) models.ServiceHealth {
	endpoint := b.prefix + "/health"
	var items []HealthResource
	if err := b.client.Get(ctx, endpoint, nil, &items); err != nil {
		apiErr := apierror.LogAndNormalize(b.logger, err, b.ErrContext("GetHealth", endpoint), "Health check failed.")
		return UnreachableHealth(apiErr)
	}
	return Health(items)
}

// GetVersion returns the backend's reported version.
func (b *Base) GetVersion(ctx context.Context) (string, error) {
	endpoint := b.prefix + "/system/status"
	var status SystemStatus
	if err := b.client.Get(ctx, endpoint, nil, &status); err != nil {
		return "", apierror.LogAndNormalize(b.logger, err, b.ErrContext("GetVersion", endpoint), "Failed to read service version.")
	}
	return status.Version, nil
}

// TestConnection measures reachability and latency using the status
// endpoint. Failures are reported in the result, not returned.
func (b *Base) TestConnection(ctx context.Context) models.TestResult {
	start := time.Now()
	version, err := b.GetVersion(ctx)
	latency := time.Since(start)
	if err != nil {
		return models.TestResult{Success: false, Latency: latency, Message: err.Error()}
	}
	return models.TestResult{Success: true, Latency: latency, Version: version}
}

// GetLogs fetches recent backend log lines, newest first, dropping
// anything older than since.
func (b *Base) GetLogs(ctx context.Context, since time.Time, limit int) ([]models.LogEntry, error) {
	if limit <= 0 {
		limit = 500
	}
	endpoint := b.prefix + "/log"
	query := url.Values{
		"page":          {"1"},
		"pageSize":      {strconv.Itoa(limit)},
		"sortKey":       {"time"},
		"sortDirection": {"descending"},
	}

	var page Page[LogRecord]
	if err := b.client.Get(ctx, endpoint, query, &page); err != nil {
		return nil, apierror.LogAndNormalize(b.logger, err, b.ErrContext("GetLogs", endpoint), "Failed to fetch service logs.")
	}

	entries := Logs(page.Records, b.cfg.ID)
	if !since.IsZero() {
		filtered := entries[:0]
		for _, e := range entries {
			if !e.Timestamp.Before(since) {
				filtered = append(filtered, e)
			}
		}
		entries = filtered
	}
	return entries, nil
}
