package metrics

import (
	"context"
	"time"

	"github.com/arrdeck/arrdeck/internal/connector"
	"github.com/arrdeck/arrdeck/pkg/models"
)

const fetchLogsLimit = 1000

// ConnectorRegistry is the slice of the connector manager the registry
// adapters need.
type ConnectorRegistry interface {
	GetConnector(id string) (connector.Connector, bool)
}

// RegistryHealthChecker probes health through the live connector
// registry.
type RegistryHealthChecker struct {
	registry ConnectorRegistry
}

// NewRegistryHealthChecker creates a health checker over the registry.
func NewRegistryHealthChecker(registry ConnectorRegistry) *RegistryHealthChecker {
	return &RegistryHealthChecker{registry: registry}
}

// CheckHealth probes one service. An unregistered id reports unhealthy
// rather than erroring, matching the health contract.
func (c *RegistryHealthChecker) CheckHealth(ctx context.Context, serviceID string) models.ServiceHealth {
	conn, ok := c.registry.GetConnector(serviceID)
	if !ok {
		return models.ServiceHealth{
			Status:      models.HealthStateUnhealthy,
			Message:     "service is not registered",
			LastChecked: time.Now(),
		}
	}
	return conn.GetHealth(ctx)
}

// RegistryLogProvider fetches logs through the live connector registry.
type RegistryLogProvider struct {
	registry ConnectorRegistry
}

// NewRegistryLogProvider creates a log provider over the registry.
func NewRegistryLogProvider(registry ConnectorRegistry) *RegistryLogProvider {
	return &RegistryLogProvider{registry: registry}
}

// FetchLogs returns the service's log lines inside the window. An
// unregistered id yields no logs.
func (p *RegistryLogProvider) FetchLogs(ctx context.Context, serviceID string, window models.TimeRange) ([]models.LogEntry, error) {
	conn, ok := p.registry.GetConnector(serviceID)
	if !ok {
		return nil, nil
	}
	entries, err := conn.GetLogs(ctx, window.Start, fetchLogsLimit)
	if err != nil {
		return nil, err
	}
	inWindow := entries[:0]
	for _, e := range entries {
		if e.Timestamp.Before(window.End) {
			inWindow = append(inWindow, e)
		}
	}
	return inWindow, nil
}
