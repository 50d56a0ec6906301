package models

import "time"

// TimeRange is the half-open window over which metrics are computed.
type TimeRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Duration returns the width of the window.
func (r TimeRange) Duration() time.Duration {
	return r.End.Sub(r.Start)
}

// TopError is one deduplicated error message with its occurrence count.
type TopError struct {
	Message string `json:"message"`
	Count   int    `json:"count"`
}

// ErrorMetric summarizes the error content of a log window.
type ErrorMetric struct {
	TotalErrors   int              `json:"totalErrors"`
	ErrorsByLevel map[LogLevel]int `json:"errorsByLevel"`
	ErrorRate     float64          `json:"errorRate"`
	TopErrors     []TopError       `json:"topErrors"`
}

// LogBucket is one fixed-width time bucket of log activity.
type LogBucket struct {
	Start  time.Time        `json:"start"`
	Total  int              `json:"total"`
	Levels map[LogLevel]int `json:"levels"`
}

// ServiceMetrics is the derived, read-only metrics snapshot for one service.
type ServiceMetrics struct {
	ServiceID string        `json:"serviceId"`
	Range     TimeRange     `json:"range"`
	Health    ServiceHealth `json:"health"`
	TotalLogs int           `json:"totalLogs"`
	Errors    ErrorMetric   `json:"errors"`
	Buckets   []LogBucket   `json:"buckets"`
}

// AggregatedMetrics composes per-service metrics across several services.
type AggregatedMetrics struct {
	Range     TimeRange                 `json:"range"`
	Services  map[string]ServiceMetrics `json:"services"`
	TotalLogs int                       `json:"totalLogs"`
	Errors    ErrorMetric               `json:"errors"`
}
