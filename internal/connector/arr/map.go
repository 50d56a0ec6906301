package arr

import (
	"strings"
	"time"

	"github.com/arrdeck/arrdeck/pkg/models"
)

// Severity normalizes a backend health item type.
func Severity(itemType string) models.HealthSeverity {
	switch strings.ToLower(itemType) {
	case "error":
		return models.HealthSeverityError
	case "warning":
		return models.HealthSeverityWarning
	default: // notice, info and anything new
		return models.HealthSeverityInfo
	}
}

// Health maps backend health items into the normalized health snapshot.
// Overall status is degraded as soon as any item carries error severity.
func Health(items []HealthResource) models.ServiceHealth {
	health := models.ServiceHealth{
		Status:      models.HealthStateHealthy,
		LastChecked: time.Now(),
	}
	for _, item := range items {
		msg := models.HealthMessage{
			Source:   item.Source,
			Severity: Severity(item.Type),
			Message:  item.Message,
			WikiURL:  item.WikiURL,
		}
		health.Messages = append(health.Messages, msg)
		if msg.Severity == models.HealthSeverityError {
			health.Status = models.HealthStateDegraded
		}
	}
	if health.Status != models.HealthStateHealthy {
		health.Message = "Service reported health issues."
	}
	return health
}

// UnreachableHealth is the health snapshot for a failed probe. Health
// probes report through the status field, never an error return.
func UnreachableHealth(err error) models.ServiceHealth {
	return models.ServiceHealth{
		Status:      models.HealthStateUnhealthy,
		Message:     err.Error(),
		LastChecked: time.Now(),
	}
}

// ImageURLs resolves poster and backdrop URLs from a resource's images
// array. Remote (absolute) URLs pass through unchanged; local relative
// URLs are anchored to the service base URL with the API key appended so
// they load without a session.
func ImageURLs(images []ImageResource, baseURL, apiKey string) (posterURL, backdropURL string) {
	for _, img := range images {
		var resolved string
		switch {
		case img.RemoteURL != "" && isAbsolute(img.RemoteURL):
			resolved = img.RemoteURL
		case img.URL != "":
			resolved = img.URL
			if !isAbsolute(resolved) {
				resolved = baseURL + resolved
				if apiKey != "" {
					sep := "?"
					if strings.Contains(resolved, "?") {
						sep = "&"
					}
					resolved += sep + "apikey=" + apiKey
				}
			}
		default:
			continue
		}

		switch strings.ToLower(img.CoverType) {
		case "poster":
			if posterURL == "" {
				posterURL = resolved
			}
		case "fanart":
			if backdropURL == "" {
				backdropURL = resolved
			}
		}
	}
	return posterURL, backdropURL
}

// SanitizePathTitle strips characters that are illegal in library paths
// from a title and collapses any resulting whitespace runs.
func SanitizePathTitle(title string) string {
	var b strings.Builder
	for _, r := range title {
		switch r {
		case ':', '\\', '/', '*', '?', '"', '<', '>', '|':
			continue
		default:
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func isAbsolute(u string) bool {
	return strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://")
}

// Queue maps the common queue record shape into the normalized model.
func Queue(records []QueueRecord) []models.QueueItem {
	items := make([]models.QueueItem, 0, len(records))
	for _, rec := range records {
		item := models.QueueItem{
			ID:                  rec.ID,
			Title:               rec.Title,
			Status:              rec.Status,
			Protocol:            rec.Protocol,
			Indexer:             rec.Indexer,
			DownloadClient:      rec.DownloadClient,
			Size:                rec.Size,
			SizeLeft:            rec.SizeLeft,
			TimeLeft:            rec.TimeLeft,
			EstimatedCompletion: rec.EstimatedCompletionTime,
			ErrorMessage:        rec.ErrorMessage,
		}
		if rec.Size > 0 {
			item.Progress = float64(rec.Size-rec.SizeLeft) / float64(rec.Size) * 100
		}
		for _, sm := range rec.StatusMessages {
			item.StatusMessages = append(item.StatusMessages, sm.Messages...)
		}
		items = append(items, item)
	}
	return items
}

// Logs maps backend log records into normalized entries tagged with the
// owning service id.
func Logs(records []LogRecord, serviceID string) []models.LogEntry {
	entries := make([]models.LogEntry, 0, len(records))
	for _, rec := range records {
		entries = append(entries, models.LogEntry{
			ID:        rec.ID,
			Timestamp: rec.Time,
			Level:     LogLevel(rec.Level),
			Logger:    rec.Logger,
			Message:   rec.Message,
			Exception: rec.Exception,
			ServiceID: serviceID,
		})
	}
	return entries
}

// LogLevel normalizes a backend log level string.
func LogLevel(level string) models.LogLevel {
	switch strings.ToLower(level) {
	case "fatal", "error":
		return models.LogLevelError
	case "warn", "warning":
		return models.LogLevelWarn
	case "debug":
		return models.LogLevelDebug
	case "trace":
		return models.LogLevelTrace
	default:
		return models.LogLevelInfo
	}
}
