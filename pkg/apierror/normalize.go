package apierror

import (
	"context"
	"errors"
	"net"
	"net/url"
	"syscall"

	"github.com/arrdeck/arrdeck/pkg/interfaces"
)

// HTTPError is the shape the transport layer's error must satisfy for
// status classification. Anything else that fails a request is treated
// as a network or generic failure.
type HTTPError interface {
	error
	HTTPStatus() int
	ResponseBody() []byte
}

// Normalize converts any failure into an *APIError. It is idempotent:
// an error that already is (or wraps) an APIError is returned with the
// given context merged in and is otherwise unchanged. Normalize never
// returns nil.
func Normalize(err error, ctx Context, fallback string) *APIError {
	if fallback == "" {
		fallback = "An unexpected error occurred."
	}
	if err == nil {
		return &APIError{Message: fallback, Context: ctx}
	}

	if apiErr, ok := As(err); ok {
		mergeContext(&apiErr.Context, ctx)
		return apiErr
	}

	if httpErr, ok := asHTTPError(err); ok {
		apiErr := FromStatus(httpErr.HTTPStatus(), fallback)
		apiErr.Context = ctx
		apiErr.Cause = err
		apiErr.Details = map[string]interface{}{
			"status": httpErr.HTTPStatus(),
		}
		if body := httpErr.ResponseBody(); len(body) > 0 {
			apiErr.Details["responseBody"] = string(body)
		}
		return apiErr
	}

	if isNetworkFailure(err) {
		return &APIError{
			Message:        "Unable to reach the service. Check the URL and your network connection.",
			IsNetworkError: true,
			Code:           networkCode(err),
			Context:        ctx,
			Cause:          err,
		}
	}

	return &APIError{
		Message: err.Error(),
		Context: ctx,
		Cause:   err,
		Details: map[string]interface{}{"fallback": fallback},
	}
}

// LogAndNormalize normalizes err and logs it at a severity matching its
// class: error for network and 5xx failures, warn for 4xx, error for
// anything else.
func LogAndNormalize(log interfaces.Logger, err error, ctx Context, fallback string) *APIError {
	apiErr := Normalize(err, ctx, fallback)

	fields := []interfaces.Field{
		interfaces.String("operation", ctx.Operation),
		interfaces.String("endpoint", ctx.Endpoint),
		interfaces.String("service_id", ctx.ServiceID),
		interfaces.String("service_type", ctx.ServiceType),
		interfaces.Error(apiErr),
	}
	if apiErr.StatusCode > 0 {
		fields = append(fields, interfaces.Int("status", apiErr.StatusCode))
	}

	if apiErr.IsClientError() {
		log.Warn("request rejected by service", fields...)
	} else {
		log.Error("request failed", fields...)
	}
	return apiErr
}

func mergeContext(dst *Context, src Context) {
	if dst.ServiceID == "" {
		dst.ServiceID = src.ServiceID
	}
	if dst.ServiceType == "" {
		dst.ServiceType = src.ServiceType
	}
	if dst.Operation == "" {
		dst.Operation = src.Operation
	}
	if dst.Endpoint == "" {
		dst.Endpoint = src.Endpoint
	}
}

func asHTTPError(err error) (HTTPError, bool) {
	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		return httpErr, true
	}
	return nil, false
}

// isNetworkFailure recognizes failures where no HTTP response was
// received at all: DNS errors, refused or reset connections, timeouts
// and cancelled contexts.
func isNetworkFailure(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	return errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ECONNABORTED) ||
		errors.Is(err, syscall.ETIMEDOUT)
}

func networkCode(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "ETIMEDOUT"
	case errors.Is(err, syscall.ECONNREFUSED):
		return "ECONNREFUSED"
	case errors.Is(err, syscall.ECONNRESET):
		return "ECONNRESET"
	case errors.Is(err, syscall.ECONNABORTED):
		return "ECONNABORTED"
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return "ENOTFOUND"
	}
	return "ERR_NETWORK"
}
