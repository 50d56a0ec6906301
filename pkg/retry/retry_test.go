package retry_test

import (
	"context"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arrdeck/arrdeck/pkg/apierror"
	"github.com/arrdeck/arrdeck/pkg/retry"
)

// fastOptions keeps test backoff in the microsecond range.
func fastOptions() retry.Options {
	return retry.Options{
		MaxRetries:    3,
		BaseDelay:     time.Microsecond,
		MaxDelay:      10 * time.Microsecond,
		BackoffFactor: 2,
	}
}

func TestDoReturnsFirstSuccess(t *testing.T) {
	calls := 0
	result, err := retry.Do(context.Background(), func(context.Context) (string, error) {
		calls++
		return "ok", nil
	}, fastOptions())

	require.NoError(t, err)
	assert.Equal(t, "ok", result)
	assert.Equal(t, 1, calls)
}

func TestDoRetriesTransientFailures(t *testing.T) {
	calls := 0
	result, err := retry.Do(context.Background(), func(context.Context) (int, error) {
		calls++
		if calls < 3 {
			return 0, syscall.ECONNREFUSED
		}
		return 42, nil
	}, fastOptions())

	require.NoError(t, err)
	assert.Equal(t, 42, result)
	assert.Equal(t, 3, calls)
}

func TestDoDoesNotRetryClientErrors(t *testing.T) {
	calls := 0
	_, err := retry.Do(context.Background(), func(context.Context) (int, error) {
		calls++
		return 0, apierror.FromStatus(404, "")
	}, fastOptions())

	require.Error(t, err)
	assert.Equal(t, 1, calls)

	apiErr, ok := apierror.As(err)
	require.True(t, ok)
	assert.Equal(t, 404, apiErr.StatusCode)
}

func TestDoExhaustionYieldsNormalizedError(t *testing.T) {
	opts := fastOptions()
	opts.Context = apierror.Context{Operation: "GetMovies", Endpoint: "/api/v3/movie"}

	calls := 0
	_, err := retry.Do(context.Background(), func(context.Context) (int, error) {
		calls++
		return 0, apierror.FromStatus(503, "")
	}, opts)

	require.Error(t, err)
	assert.Equal(t, opts.MaxRetries+1, calls)

	apiErr, ok := apierror.As(err)
	require.True(t, ok)
	assert.Equal(t, 503, apiErr.StatusCode)
	assert.Equal(t, "GetMovies", apiErr.Context.Operation)
	assert.Equal(t, "/api/v3/movie", apiErr.Context.Endpoint)
}

func TestDoHonorsCustomPredicate(t *testing.T) {
	opts := fastOptions()
	opts.RetryIf = func(error) bool { return false }

	calls := 0
	_, err := retry.Do(context.Background(), func(context.Context) (int, error) {
		calls++
		return 0, syscall.ECONNREFUSED
	}, opts)

	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestDoStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	_, err := retry.Do(ctx, func(context.Context) (int, error) {
		calls++
		return 0, syscall.ECONNREFUSED
	}, fastOptions())

	require.Error(t, err)
	assert.LessOrEqual(t, calls, 1)
}
