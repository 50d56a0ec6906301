package container

import (
	"fmt"

	"github.com/arrdeck/arrdeck/internal/connector"
	"github.com/arrdeck/arrdeck/internal/connector/jellyseerr"
	"github.com/arrdeck/arrdeck/internal/connector/lidarr"
	"github.com/arrdeck/arrdeck/internal/connector/prowlarr"
	"github.com/arrdeck/arrdeck/internal/connector/radarr"
	"github.com/arrdeck/arrdeck/internal/connector/sonarr"
	"github.com/arrdeck/arrdeck/internal/httpclient"
	"github.com/arrdeck/arrdeck/pkg/config"
	"github.com/arrdeck/arrdeck/pkg/interfaces"
	"github.com/arrdeck/arrdeck/pkg/models"
	"github.com/arrdeck/arrdeck/pkg/retry"
)

// NewConnectorFactory builds the dispatch from service type to concrete
// connector. Each connector gets its own client bound to the service's
// URL and key, sharing the configured timeout and retry policy.
func NewConnectorFactory(cfg *config.AppConfig, logger interfaces.Logger) connector.Factory {
	retryOpts := retry.Options{
		MaxRetries:    cfg.Connector.MaxRetries,
		BaseDelay:     cfg.Connector.BaseDelay,
		MaxDelay:      cfg.Connector.MaxDelay,
		BackoffFactor: cfg.Connector.BackoffFactor,
	}

	return func(svc models.ServiceConfig) (connector.Connector, error) {
		client := httpclient.New(httpclient.Config{
			BaseURL:     svc.URL,
			APIKey:      svc.APIKey,
			Timeout:     cfg.Connector.Timeout,
			ServiceType: string(svc.Type),
		})

		switch svc.Type {
		case models.ServiceTypeSonarr:
			return sonarr.New(svc, client, logger, retryOpts), nil
		case models.ServiceTypeRadarr:
			return radarr.New(svc, client, logger, retryOpts), nil
		case models.ServiceTypeLidarr:
			return lidarr.New(svc, client, logger, retryOpts), nil
		case models.ServiceTypeProwlarr:
			return prowlarr.New(svc, client, logger, retryOpts), nil
		case models.ServiceTypeJellyseerr:
			return jellyseerr.New(svc, client, logger, retryOpts), nil
		default:
			return nil, fmt.Errorf("no connector available for service type %q", svc.Type)
		}
	}
}
