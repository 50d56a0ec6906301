//go:build wireinject
// +build wireinject

package container

import (
	"github.com/google/wire"

	"github.com/arrdeck/arrdeck/internal/api"
	"github.com/arrdeck/arrdeck/internal/calendar"
	"github.com/arrdeck/arrdeck/internal/connector"
	"github.com/arrdeck/arrdeck/internal/metrics"
	"github.com/arrdeck/arrdeck/internal/querycache"
	"github.com/arrdeck/arrdeck/internal/storage"
	"github.com/arrdeck/arrdeck/pkg/config"
	"github.com/arrdeck/arrdeck/pkg/events"
	"github.com/arrdeck/arrdeck/pkg/interfaces"
)

// InitializeApp wires the application from its configuration.
func InitializeApp(cfg *config.AppConfig, logger interfaces.Logger) (*App, func(), error) {
	wire.Build(
		provideDB,
		provideEncryptor,
		storage.NewStore,
		wire.Bind(new(connector.ConfigStore), new(*storage.Store)),

		events.NewInMemoryEventBus,
		wire.Bind(new(interfaces.EventBus), new(*events.InMemoryEventBus)),

		provideCache,
		wire.Bind(new(interfaces.Cache), new(*querycache.Cache)),
		querycache.NewInvalidator,

		NewConnectorFactory,
		connector.NewManager,
		wire.Bind(new(calendar.ConnectorSource), new(*connector.Manager)),
		wire.Bind(new(metrics.ConnectorRegistry), new(*connector.Manager)),

		calendar.NewService,

		metrics.NewRegistryHealthChecker,
		wire.Bind(new(metrics.HealthChecker), new(*metrics.RegistryHealthChecker)),
		metrics.NewRegistryLogProvider,
		wire.Bind(new(metrics.LogProvider), new(*metrics.RegistryLogProvider)),
		metrics.NewEngine,

		api.NewServer,

		wire.Struct(new(App), "*"),
	)
	return nil, nil, nil
}
