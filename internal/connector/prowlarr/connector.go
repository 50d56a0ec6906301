// Package prowlarr implements the connector for Prowlarr (indexer
// management) against its v1 API.
package prowlarr

import (
	"context"
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

// Connector is the Prowlarr backend client.
type Connector struct {
	arr.Base
}

// New creates a Prowlarr connector bound to cfg.
func New(cfg models.ServiceConfig, client *httpclient.Client, logger interfaces.Logger, retryOpts retry.Options) *Connector {
	return &Connector{Base: arr.NewBase(cfg, client, apiPrefix, logger, retryOpts)}
}

type indexerResource struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Protocol string `json:"protocol"`
	Privacy  string `json:"privacy"`
	Enable   bool   `json:"enable"`
	Priority int    `json:"priority"`
}

type indexerStatsResponse struct {
	Indexers []indexerStatsResource `json:"indexers"`
}

type indexerStatsResource struct {
	IndexerID             int64  `json:"indexerId"`
	IndexerName           string `json:"indexerName"`
	AverageResponseTime   int64  `json:"averageResponseTime"`
	NumberOfQueries       int    `json:"numberOfQueries"`
	NumberOfGrabs         int    `json:"numberOfGrabs"`
	NumberOfFailedQueries int    `json:"numberOfFailedQueries"`
	NumberOfFailedGrabs   int    `json:"numberOfFailedGrabs"`
}

// GetIndexers lists the configured indexers.
func (c *Connector) GetIndexers(ctx context.Context) ([]models.Indexer, error) {
	endpoint := apiPrefix + "/indexer"
	return retry.Do(ctx, func(ctx context.Context) ([]models.Indexer, error) {
		var resources []indexerResource
		if err := c.Client().Get(ctx, endpoint, nil, &resources); err != nil {
			return nil, apierror.LogAndNormalize(c.Logger(), err, c.ErrContext("GetIndexers", endpoint), "Failed to fetch indexers.")
		}
		indexers := make([]models.Indexer, 0, len(resources))
		for _, res := range resources {
			indexers = append(indexers, models.Indexer{
				ID:       res.ID,
				Name:     res.Name,
				Protocol: res.Protocol,
				Privacy:  res.Privacy,
				Enable:   res.Enable,
				Priority: res.Priority,
			})
		}
		return indexers, nil
	}, c.RetryOptions("GetIndexers", endpoint))
}

// GetIndexerStats fetches per-indexer query and grab statistics for the
// given window. A zero range asks the backend for its default window.
func (c *Connector) GetIndexerStats(ctx context.Context, from, to time.Time) ([]models.IndexerStats, error) {
	endpoint := apiPrefix + "/indexerstats"
	query := url.Values{}
	if !from.IsZero() {
		query.Set("startDate", from.Format(time.RFC3339))
	}
	if !to.IsZero() {
		query.Set("endDate", to.Format(time.RFC3339))
	}

	return retry.Do(ctx, func(ctx context.Context) ([]models.IndexerStats, error) {
		var resp indexerStatsResponse
		if err := c.Client().Get(ctx, endpoint, query, &resp); err != nil {
			return nil, apierror.LogAndNormalize(c.Logger(), err, c.ErrContext("GetIndexerStats", endpoint), "Failed to fetch indexer statistics.")
		}
		stats := make([]models.IndexerStats, 0, len(resp.Indexers))
		for _, res := range resp.Indexers {
			stats = append(stats, models.IndexerStats{
				IndexerID:             res.IndexerID,
				IndexerName:           res.IndexerName,
				AverageResponseTime:   res.AverageResponseTime,
				NumberOfQueries:       res.NumberOfQueries,
				NumberOfGrabs:         res.NumberOfGrabs,
				NumberOfFailedQueries: res.NumberOfFailedQueries,
				NumberOfFailedGrabs:   res.NumberOfFailedGrabs,
			})
		}
		return stats, nil
	}, c.RetryOptions("GetIndexerStats", endpoint))
}
