// Package apierror defines the single normalized error type surfaced by
// every connector, manager, and aggregation operation.
package apierror

import (
	"errors"
	"fmt"
)

// Context tags an error with where it came from so callers can filter
// and log by origin.
type Context struct {
	ServiceID   string `json:"serviceId,omitempty"`
	ServiceType string `json:"serviceType,omitempty"`
	Operation   string `json:"operation,omitempty"`
	Endpoint    string `json:"endpoint,omitempty"`
}

// APIError is the normalized failure shape. Variants are distinguished by
// fields, not subtypes: a network failure has IsNetworkError set and no
// StatusCode, an HTTP failure carries the status, a wrapped generic error
// carries its cause.
type APIError struct {
	Message        string                 `json:"message"`
	StatusCode     int                    `json:"statusCode,omitempty"`
	Code           string                 `json:"code,omitempty"`
	IsNetworkError bool                   `json:"isNetworkError"`
	Details        map[string]interface{} `json:"details,omitempty"`
	Context        Context                `json:"context,omitempty"`
	Cause          error                  `json:"-"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s (status %d)", e.Message, e.StatusCode)
	}
	return e.Message
}

// Unwrap returns the wrapped cause, if any.
func (e *APIError) Unwrap() error {
	return e.Cause
}

// IsClientError reports whether the error represents a 4xx response.
func (e *APIError) IsClientError() bool {
	return e.StatusCode >= 400 && e.StatusCode < 500
}

// IsServerError reports whether the error represents a 5xx response.
func (e *APIError) IsServerError() bool {
	return e.StatusCode >= 500
}

// Retryable reports whether the failure class is worth retrying: pure
// network failures and 5xx responses. Client errors never are.
func (e *APIError) Retryable() bool {
	return e.IsNetworkError || e.IsServerError()
}

// New creates an APIError with just a message.
func New(message string) *APIError {
	return &APIError{Message: message}
}

// FromStatus creates an APIError for an HTTP status code using the fixed
// status message table.
func FromStatus(status int, fallback string) *APIError {
	msg, ok := statusMessages[status]
	if !ok {
		switch {
		case status >= 500:
			msg = "The service reported an internal error. Try again later."
		case fallback != "":
			msg = fallback
		default:
			msg = fmt.Sprintf("Request failed with status %d.", status)
		}
	}
	return &APIError{Message: msg, StatusCode: status}
}

// As extracts an *APIError from an error chain.
func As(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsNetwork reports whether err normalizes to a network failure.
func IsNetwork(err error) bool {
	if apiErr, ok := As(err); ok {
		return apiErr.IsNetworkError
	}
	return false
}

// statusMessages maps HTTP status codes to user-facing messages. The UI
// renders these directly, so they are phrased for end users.
var statusMessages = map[int]string{
	400: "Bad request. Check the request parameters.",
	401: "Invalid API key. Check the service credentials.",
	403: "Access forbidden. The API key lacks permission for this operation.",
	404: "Resource not found.",
	408: "The request timed out. The service may be overloaded.",
	409: "Conflict. The resource already exists or is in use.",
	422: "The service rejected the request payload.",
	429: "Too many requests. Slow down and try again shortly.",
	500: "The service reported an internal error. Try again later.",
	502: "Bad gateway. The service is unreachable behind its proxy.",
	503: "The service is temporarily unavailable.",
	504: "Gateway timeout. The service took too long to respond.",
}
