// Package container assembles the application object graph.
package container

import (
	"gorm.io/gorm"

	"github.com/arrdeck/arrdeck/internal/api"
	"github.com/arrdeck/arrdeck/internal/calendar"
	"github.com/arrdeck/arrdeck/internal/connector"
	"github.com/arrdeck/arrdeck/internal/metrics"
	"github.com/arrdeck/arrdeck/internal/querycache"
	"github.com/arrdeck/arrdeck/internal/storage"
	"github.com/arrdeck/arrdeck/pkg/config"
	"github.com/arrdeck/arrdeck/pkg/encryption"
	"github.com/arrdeck/arrdeck/pkg/events"
	"github.com/arrdeck/arrdeck/pkg/interfaces"
)

// App holds the wired application components.
type App struct {
	Config      *config.AppConfig
	Logger      interfaces.Logger
	Store       *storage.Store
	Bus         *events.InMemoryEventBus
	Cache       *querycache.Cache
	Invalidator *querycache.Invalidator
	Manager     *connector.Manager
	Calendar    *calendar.Service
	Engine      *metrics.Engine
	Server      *api.Server
}

func provideDB(cfg *config.AppConfig, logger interfaces.Logger) (*gorm.DB, func(), error) {
	return storage.Open(cfg.Database, logger)
}

func provideEncryptor(cfg *config.AppConfig) (*encryption.Encryptor, error) {
	return encryption.NewEncryptor(cfg.Encryption.Key)
}

func provideCache() (*querycache.Cache, func()) {
	cache := querycache.NewCache()
	return cache, cache.Close
}
