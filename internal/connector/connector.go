// Package connector defines the capability contract every backend
// client implements and the registry that owns the active set of
// connectors for the session.
package connector

import (
	"context"
	"time"

	"github.com/arrdeck/arrdeck/pkg/models"
)

// Connector is the shared capability contract across all backends.
// Backend-specific operations (movie CRUD, indexer stats, request
// management) live on the concrete types; callers that need them
// type-assert against narrow interfaces of their own.
type Connector interface {
	// Config returns the service configuration the connector is bound to.
	Config() models.ServiceConfig

	// GetHealth probes the backend's health endpoint. Transport failures
	// are reported through the returned status, never as an error.
	GetHealth(ctx context.Context) models.ServiceHealth

	// GetVersion returns the backend's reported version.
	GetVersion(ctx context.Context) (string, error)

	// TestConnection measures reachability and latency.
	TestConnection(ctx context.Context) models.TestResult

	// GetLogs fetches recent backend log lines for the metrics engine.
	GetLogs(ctx context.Context, since time.Time, limit int) ([]models.LogEntry, error)
}

// QueueProvider is implemented by connectors whose backend exposes a
// download queue.
type QueueProvider interface {
	GetQueue(ctx context.Context) ([]models.QueueItem, error)
}

// Factory constructs a connector for a service configuration. The
// container wires the real per-backend factory; tests substitute fakes.
type Factory func(cfg models.ServiceConfig) (Connector, error)
