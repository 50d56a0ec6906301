package httpclient

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "arrdeck_outbound_requests_total",
			Help: "Outbound requests to backend services, by service type, method and status.",
		},
		[]string{"service_type", "method", "status"},
	)

	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "arrdeck_outbound_request_duration_seconds",
			Help:    "Latency of outbound requests to backend services.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service_type", "method"},
	)
)

func observeRequest(serviceType, method, status string, elapsed time.Duration) {
	if serviceType == "" {
		serviceType = "unknown"
	}
	requestsTotal.WithLabelValues(serviceType, method, status).Inc()
	requestDuration.WithLabelValues(serviceType, method).Observe(elapsed.Seconds())
}
