// Package retry wraps operations against backend services with capped
// exponential backoff. Only transient failures (network errors and 5xx
// responses) are retried; client errors surface immediately.
package retry

import (
	"context"
	"math"
	"time"

	retrygo "github.com/avast/retry-go/v4"

	"github.com/arrdeck/arrdeck/pkg/apierror"
	"github.com/arrdeck/arrdeck/pkg/interfaces"
)

// Options controls the backoff schedule and retry predicate.
type Options struct {
	// MaxRetries is the number of retries after the first attempt.
	MaxRetries int
	// BaseDelay is the delay before the first retry.
	BaseDelay time.Duration
	// MaxDelay caps the backoff growth.
	MaxDelay time.Duration
	// BackoffFactor multiplies the delay after each attempt.
	BackoffFactor float64
	// RetryIf decides whether a failure is worth retrying. Defaults to
	// DefaultRetryIf.
	RetryIf func(error) bool
	// Context tags the normalized error when attempts are exhausted.
	Context apierror.Context
	// Logger receives one line per retry. Defaults to no logging.
	Logger interfaces.Logger
}

// DefaultOptions mirror the connector layer's standard policy.
func DefaultOptions() Options {
	return Options{
		MaxRetries:    3,
		BaseDelay:     time.Second,
		MaxDelay:      10 * time.Second,
		BackoffFactor: 2,
	}
}

// DefaultRetryIf retries pure network failures and 5xx responses, never
// client errors.
func DefaultRetryIf(err error) bool {
	return apierror.Normalize(err, apierror.Context{}, "").Retryable()
}

// Do runs op, retrying per opts. The error returned after exhaustion is
// always a normalized *apierror.APIError.
func Do[T any](ctx context.Context, op func(context.Context) (T, error), opts Options) (T, error) {
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = DefaultOptions().MaxRetries
	}
	if opts.BaseDelay <= 0 {
		opts.BaseDelay = DefaultOptions().BaseDelay
	}
	if opts.MaxDelay <= 0 {
		opts.MaxDelay = DefaultOptions().MaxDelay
	}
	if opts.BackoffFactor <= 1 {
		opts.BackoffFactor = DefaultOptions().BackoffFactor
	}
	retryIf := opts.RetryIf
	if retryIf == nil {
		retryIf = DefaultRetryIf
	}

	result, err := retrygo.DoWithData(
		func() (T, error) { return op(ctx) },
		retrygo.Context(ctx),
		retrygo.Attempts(uint(opts.MaxRetries)+1),
		retrygo.RetryIf(retryIf),
		retrygo.LastErrorOnly(true),
		retrygo.DelayType(func(n uint, _ error, _ *retrygo.Config) time.Duration {
			return backoffDelay(n, opts)
		}),
		retrygo.OnRetry(func(n uint, err error) {
			if opts.Logger == nil {
				return
			}
			opts.Logger.Warn("retrying operation",
				interfaces.Int("attempt", int(n)+1),
				interfaces.Int("max_retries", opts.MaxRetries),
				interfaces.Duration("next_retry_in", backoffDelay(n, opts)),
				interfaces.String("operation", opts.Context.Operation),
				interfaces.Error(err))
		}),
	)
	if err != nil {
		return result, apierror.Normalize(err, opts.Context, "Operation failed after retries.")
	}
	return result, nil
}

// backoffDelay computes min(base * factor^attempt, max).
func backoffDelay(attempt uint, opts Options) time.Duration {
	delay := float64(opts.BaseDelay) * math.Pow(opts.BackoffFactor, float64(attempt))
	if capped := float64(opts.MaxDelay); delay > capped {
		delay = capped
	}
	return time.Duration(delay)
}
