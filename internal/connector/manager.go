package connector

import (
	"context"
	"sync"

	"github.com/sourcegraph/conc/pool"

	"github.com/arrdeck/arrdeck/pkg/events"
	"github.com/arrdeck/arrdeck/pkg/interfaces"
	"github.com/arrdeck/arrdeck/pkg/models"
)

// ConfigStore is the slice of the persistence layer the manager needs
// to rebuild its registry on startup.
type ConfigStore interface {
	List(ctx context.Context) ([]models.ServiceConfig, error)
}

// Manager owns the active set of connectors, keyed by service config id.
// There is at most one connector per id; a config change replaces the
// connector wholesale rather than mutating it in place.
//
// Construct one Manager per process and inject it where needed; there is
// no package-level instance.
type Manager struct {
	mu       sync.RWMutex
	registry map[string]Connector

	store   ConfigStore
	bus     interfaces.EventBus
	factory Factory
	logger  interfaces.Logger
}

// NewManager creates a connector manager.
func NewManager(store ConfigStore, bus interfaces.EventBus, factory Factory, logger interfaces.Logger) *Manager {
	return &Manager{
		registry: make(map[string]Connector),
		store:    store,
		bus:      bus,
		factory:  factory,
		logger:   logger,
	}
}

// LoadSavedServices rebuilds the registry from persisted configurations,
// creating one connector per enabled config. Configs that fail to
// produce a connector are logged and skipped.
func (m *Manager) LoadSavedServices(ctx context.Context) error {
	configs, err := m.store.List(ctx)
	if err != nil {
		return err
	}

	for _, cfg := range configs {
		if !cfg.Enabled {
			m.mu.Lock()
			delete(m.registry, cfg.ID)
			m.mu.Unlock()
			continue
		}
		if err := m.AddConnector(ctx, cfg); err != nil {
			m.logger.Warn("skipping saved service",
				interfaces.String("service_id", cfg.ID),
				interfaces.String("service_type", string(cfg.Type)),
				interfaces.Error(err))
		}
	}

	m.logger.Info("loaded saved services", interfaces.Int("count", m.Count()))
	return nil
}

// AddConnector registers a connector for cfg.ID, replacing any existing
// entry. It serves both "add new" and "edit existing". The registry
// mutation always succeeds once the connector is constructed; the
// freshness event is best-effort.
func (m *Manager) AddConnector(ctx context.Context, cfg models.ServiceConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	conn, err := m.factory(cfg)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.registry[cfg.ID] = conn
	m.mu.Unlock()

	m.logger.Info("connector registered",
		interfaces.String("service_id", cfg.ID),
		interfaces.String("service_type", string(cfg.Type)))

	m.publish(ctx, events.NewServiceEvent(EventConnectorAdded, cfg.ID, map[string]interface{}{
		EventKeyServiceType: string(cfg.Type),
		EventKeyServiceName: cfg.Name,
	}))
	return nil
}

// RemoveConnector deletes the registry entry for id. Removing an unknown
// id is a no-op; the removal event still fires with the type when known.
func (m *Manager) RemoveConnector(ctx context.Context, id string) {
	m.mu.Lock()
	conn, existed := m.registry[id]
	delete(m.registry, id)
	m.mu.Unlock()

	data := map[string]interface{}{}
	if existed {
		data[EventKeyServiceType] = string(conn.Config().Type)
	}

	m.logger.Info("connector removed",
		interfaces.String("service_id", id),
		interfaces.Bool("existed", existed))

	m.publish(ctx, events.NewServiceEvent(EventConnectorRemoved, id, data))
}

// GetConnector returns the connector bound to id, if registered.
func (m *Manager) GetConnector(id string) (Connector, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	conn, ok := m.registry[id]
	return conn, ok
}

// GetConnectorsByType returns every registered connector of the given type.
func (m *Manager) GetConnectorsByType(t models.ServiceType) []Connector {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []Connector
	for _, conn := range m.registry {
		if conn.Config().Type == t {
			out = append(out, conn)
		}
	}
	return out
}

// All returns every registered connector.
func (m *Manager) All() []Connector {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Connector, 0, len(m.registry))
	for _, conn := range m.registry {
		out = append(out, conn)
	}
	return out
}

// Count returns the number of registered connectors.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.registry)
}

// TestAllConnections probes every registered connector concurrently.
// Failures are independent: one unreachable service never blocks the
// probes of its siblings.
func (m *Manager) TestAllConnections(ctx context.Context) map[string]models.TestResult {
	conns := m.All()

	var mu sync.Mutex
	results := make(map[string]models.TestResult, len(conns))
	typesSeen := make(map[models.ServiceType]struct{})

	p := pool.New()
	for _, conn := range conns {
		p.Go(func() {
			res := conn.TestConnection(ctx)
			mu.Lock()
			results[conn.Config().ID] = res
			typesSeen[conn.Config().Type] = struct{}{}
			mu.Unlock()
		})
	}
	p.Wait()

	observed := make([]string, 0, len(typesSeen))
	for t := range typesSeen {
		observed = append(observed, string(t))
	}
	m.publish(ctx, events.NewEvent(EventConnectionsTested, map[string]interface{}{
		EventKeyServiceTypes: observed,
	}))

	return results
}

// publish emits a registry event. Delivery is best-effort: a failing
// bus must never roll back or fail the registry mutation it follows.
func (m *Manager) publish(ctx context.Context, event interfaces.Event) {
	if m.bus == nil {
		return
	}
	if err := m.bus.Publish(ctx, event); err != nil {
		m.logger.Warn("registry event publish failed",
			interfaces.String("event_type", event.EventType()),
			interfaces.Error(err))
	}
}
