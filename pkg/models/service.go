package models

import (
	"fmt"
	"time"
)

// ServiceType identifies which backend a service configuration points at.
type ServiceType string

const (
	ServiceTypeSonarr     ServiceType = "sonarr"
	ServiceTypeRadarr     ServiceType = "radarr"
	ServiceTypeProwlarr   ServiceType = "prowlarr"
	ServiceTypeLidarr     ServiceType = "lidarr"
	ServiceTypeJellyseerr ServiceType = "jellyseerr"
)

// KnownServiceTypes lists every backend the connector layer can talk to.
var KnownServiceTypes = []ServiceType{
	ServiceTypeSonarr,
	ServiceTypeRadarr,
	ServiceTypeProwlarr,
	ServiceTypeLidarr,
	ServiceTypeJellyseerr,
}

// Valid reports whether t is a backend this build knows how to connect to.
func (t ServiceType) Valid() bool {
	for _, known := range KnownServiceTypes {
		if t == known {
			return true
		}
	}
	return false
}

// ServiceConfig describes one registered connection to a backend service.
// The API key is encrypted at rest by the storage layer; the in-memory
// projection always carries plaintext.
type ServiceConfig struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Type      ServiceType `json:"type"`
	URL       string      `json:"url"`
	APIKey    string      `json:"apiKey,omitempty"`
	Enabled   bool        `json:"enabled"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

// Validate checks the fields a connector needs before it can be constructed.
func (c *ServiceConfig) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("service config is missing an id")
	}
	if !c.Type.Valid() {
		return fmt.Errorf("unknown service type %q", c.Type)
	}
	if c.URL == "" {
		return fmt.Errorf("service %s has no URL", c.ID)
	}
	return nil
}
