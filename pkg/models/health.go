package models

import "time"

// HealthState is the normalized overall health of one service.
type HealthState string

const (
	HealthStateHealthy   HealthState = "healthy"
	HealthStateDegraded  HealthState = "degraded"
	HealthStateUnhealthy HealthState = "unhealthy"
)

// HealthSeverity is the normalized severity of a single backend health item.
type HealthSeverity string

const (
	HealthSeverityError   HealthSeverity = "error"
	HealthSeverityWarning HealthSeverity = "warning"
	HealthSeverityInfo    HealthSeverity = "info"
)

// HealthMessage is one normalized backend health-check item.
type HealthMessage struct {
	Source   string         `json:"source,omitempty"`
	Severity HealthSeverity `json:"severity"`
	Message  string         `json:"message"`
	WikiURL  string         `json:"wikiUrl,omitempty"`
}

// ServiceHealth is the result of probing one service's health endpoint.
// A transport failure is reported through Status, not an error return.
type ServiceHealth struct {
	Status      HealthState     `json:"status"`
	Message     string          `json:"message,omitempty"`
	Messages    []HealthMessage `json:"messages,omitempty"`
	LastChecked time.Time       `json:"lastChecked"`
}

// TestResult is the outcome of a connectivity probe against one service.
type TestResult struct {
	Success bool          `json:"success"`
	Latency time.Duration `json:"latency"`
	Version string        `json:"version,omitempty"`
	Message string        `json:"message,omitempty"`
}
