// Package metrics derives health and error summaries from backend log
// streams: fixed-width time bucketing, message normalization for
// deduplication, and error-rate calculation.
package metrics

import (
	"context"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/arrdeck/arrdeck/pkg/interfaces"
	"github.com/arrdeck/arrdeck/pkg/models"
)

// Bucket widths by window size.
const (
	bucketHour = time.Hour
	bucketSix  = 6 * time.Hour
	bucketDay  = 24 * time.Hour
)

const normalizedMessageMax = 100

// HealthChecker probes one service's current health.
type HealthChecker interface {
	CheckHealth(ctx context.Context, serviceID string) models.ServiceHealth
}

// LogProvider fetches one service's log lines within a window.
type LogProvider interface {
	FetchLogs(ctx context.Context, serviceID string, window models.TimeRange) ([]models.LogEntry, error)
}

// Engine computes metrics snapshots. It owns neither collaborator; both
// are injected so tests can substitute fixtures.
type Engine struct {
	health HealthChecker
	logs   LogProvider
	logger interfaces.Logger
}

// NewEngine creates a metrics engine over the given collaborators.
func NewEngine(health HealthChecker, logs LogProvider, logger interfaces.Logger) *Engine {
	return &Engine{health: health, logs: logs, logger: logger}
}

// BucketSize picks the bucket width for a window: one hour up to and
// including 24h, six hours up to 7 days, otherwise one day.
func BucketSize(window models.TimeRange) time.Duration {
	d := window.Duration()
	switch {
	case d <= 24*time.Hour:
		return bucketHour
	case d <= 7*24*time.Hour:
		return bucketSix
	default:
		return bucketDay
	}
}

// GroupLogsByBucket assigns each log line to the bucket containing its
// timestamp. Buckets are created only when a line falls into them.
func GroupLogsByBucket(logs []models.LogEntry, size time.Duration) map[time.Time][]models.LogEntry {
	buckets := make(map[time.Time][]models.LogEntry)
	sizeMs := size.Milliseconds()
	for _, entry := range logs {
		startMs := entry.Timestamp.UnixMilli() / sizeMs * sizeMs
		key := time.UnixMilli(startMs).UTC()
		buckets[key] = append(buckets[key], entry)
	}
	return buckets
}

var (
	isoTimestampRe = regexp.MustCompile(`\d{4}-\d{2}-\d{2}[T ]\d{2}:\d{2}:\d{2}(?:\.\d+)?(?:Z|[+-]\d{2}:?\d{2})?`)
	uuidRe         = regexp.MustCompile(`(?i)[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}`)
	integerRunRe   = regexp.MustCompile(`\d+`)
)

// NormalizeErrorMessage strips the volatile fragments of a log message
// (timestamps, UUIDs, numbers) and collapses whitespace so lines
// differing only by embedded identifiers group under one key. The
// result never exceeds 100 characters, and renormalizing an already
// normalized message is a no-op.
func NormalizeErrorMessage(message string) string {
	s := isoTimestampRe.ReplaceAllString(message, "")
	s = uuidRe.ReplaceAllString(s, "")
	s = integerRunRe.ReplaceAllString(s, "")
	s = strings.Join(strings.Fields(s), " ")
	if len(s) > normalizedMessageMax {
		s = s[:normalizedMessageMax]
	}
	return s
}

// CalculateErrorMetric summarizes the error content of a log window.
// Error and warn lines count as errors; an empty window yields a zero
// rate rather than dividing by zero.
func CalculateErrorMetric(logs []models.LogEntry) models.ErrorMetric {
	metric := models.ErrorMetric{
		ErrorsByLevel: make(map[models.LogLevel]int),
		TopErrors:     []models.TopError{},
	}
	counts := make(map[string]int)
	for _, entry := range logs {
		if entry.Level != models.LogLevelError && entry.Level != models.LogLevelWarn {
			continue
		}
		metric.TotalErrors++
		metric.ErrorsByLevel[entry.Level]++
		counts[NormalizeErrorMessage(entry.Message)]++
	}
	if len(logs) > 0 {
		metric.ErrorRate = float64(metric.TotalErrors) / float64(len(logs)) * 100
	}
	for message, count := range counts {
		metric.TopErrors = append(metric.TopErrors, models.TopError{Message: message, Count: count})
	}
	sort.Slice(metric.TopErrors, func(i, j int) bool {
		if metric.TopErrors[i].Count != metric.TopErrors[j].Count {
			return metric.TopErrors[i].Count > metric.TopErrors[j].Count
		}
		return metric.TopErrors[i].Message < metric.TopErrors[j].Message
	})
	return metric
}

// CalculateMetrics builds the metrics snapshot for one service over the
// window. A log fetch failure degrades to a health-only snapshot.
func (e *Engine) CalculateMetrics(ctx context.Context, serviceID string, window models.TimeRange) models.ServiceMetrics {
	snapshot := models.ServiceMetrics{
		ServiceID: serviceID,
		Range:     window,
		Health:    e.health.CheckHealth(ctx, serviceID),
	}

	logs, err := e.logs.FetchLogs(ctx, serviceID, window)
	if err != nil {
		e.logger.Warn("Metrics computed without logs after fetch failure",
			interfaces.String("service_id", serviceID),
			interfaces.Error(err))
		logs = nil
	}

	snapshot.TotalLogs = len(logs)
	snapshot.Errors = CalculateErrorMetric(logs)
	snapshot.Buckets = bucketSummaries(logs, BucketSize(window))
	return snapshot
}

// GetAggregatedMetrics computes per-service snapshots concurrently and
// folds them into one combined view.
func (e *Engine) GetAggregatedMetrics(ctx context.Context, serviceIDs []string, window models.TimeRange) models.AggregatedMetrics {
	aggregated := models.AggregatedMetrics{
		Range:    window,
		Services: make(map[string]models.ServiceMetrics, len(serviceIDs)),
	}

	var mu sync.Mutex
	p := pool.New().WithContext(ctx)
	for _, serviceID := range serviceIDs {
		p.Go(func(ctx context.Context) error {
			snapshot := e.CalculateMetrics(ctx, serviceID, window)
			mu.Lock()
			aggregated.Services[serviceID] = snapshot
			mu.Unlock()
			return nil
		})
	}
	// Per-service work never returns an error; failures degrade inside
	// CalculateMetrics.
	_ = p.Wait()

	combined := models.ErrorMetric{
		ErrorsByLevel: make(map[models.LogLevel]int),
		TopErrors:     []models.TopError{},
	}
	topByMessage := make(map[string]int)
	for _, snapshot := range aggregated.Services {
		aggregated.TotalLogs += snapshot.TotalLogs
		combined.TotalErrors += snapshot.Errors.TotalErrors
		for level, count := range snapshot.Errors.ErrorsByLevel {
			combined.ErrorsByLevel[level] += count
		}
		for _, top := range snapshot.Errors.TopErrors {
			topByMessage[top.Message] += top.Count
		}
	}
	if aggregated.TotalLogs > 0 {
		combined.ErrorRate = float64(combined.TotalErrors) / float64(aggregated.TotalLogs) * 100
	}
	for message, count := range topByMessage {
		combined.TopErrors = append(combined.TopErrors, models.TopError{Message: message, Count: count})
	}
	sort.Slice(combined.TopErrors, func(i, j int) bool {
		if combined.TopErrors[i].Count != combined.TopErrors[j].Count {
			return combined.TopErrors[i].Count > combined.TopErrors[j].Count
		}
		return combined.TopErrors[i].Message < combined.TopErrors[j].Message
	})
	aggregated.Errors = combined
	return aggregated
}

func bucketSummaries(logs []models.LogEntry, size time.Duration) []models.LogBucket {
	grouped := GroupLogsByBucket(logs, size)
	buckets := make([]models.LogBucket, 0, len(grouped))
	for start, entries := range grouped {
		bucket := models.LogBucket{
			Start:  start,
			Total:  len(entries),
			Levels: make(map[models.LogLevel]int),
		}
		for _, entry := range entries {
			bucket.Levels[entry.Level]++
		}
		buckets = append(buckets, bucket)
	}
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].Start.Before(buckets[j].Start) })
	return buckets
}
