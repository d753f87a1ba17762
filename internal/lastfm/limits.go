package lastfm

import (
	"context"
	"errors"
	"fmt"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/llehouerou/starchart/internal/logging"
	"github.com/llehouerou/starchart/internal/metrics"
)

// ErrUnavailable is returned while the circuit breaker rejects calls.
var ErrUnavailable = errors.New("last.fm temporarily unavailable")

// Limits configures request pacing and failure isolation.
type Limits struct {
	RequestsPerSecond float64       `koanf:"requests_per_second"` // Last.fm allows about 5 per second per key
	Burst             int           `koanf:"burst"`               // tokens available at once
	BreakerFailures   uint32        `koanf:"breaker_failures"`    // consecutive failures that open the breaker
	BreakerTimeout    time.Duration `koanf:"breaker_timeout"`     // open duration before a trial request
}

// DefaultLimits returns conservative limits for a single API key.
func DefaultLimits() Limits {
	return Limits{
		RequestsPerSecond: 4,
		Burst:             4,
		BreakerFailures:   5,
		BreakerTimeout:    30 * time.Second,
	}
}

func (l Limits) withDefaults() Limits {
	d := DefaultLimits()
	if l.RequestsPerSecond <= 0 {
		l.RequestsPerSecond = d.RequestsPerSecond
	}
	if l.Burst <= 0 {
		l.Burst = d.Burst
	}
	if l.BreakerFailures == 0 {
		l.BreakerFailures = d.BreakerFailures
	}
	if l.BreakerTimeout <= 0 {
		l.BreakerTimeout = d.BreakerTimeout
	}
	return l
}

func newBreaker(name string, l Limits) *gobreaker.CircuitBreaker[any] {
	metrics.BreakerState.WithLabelValues(name).Set(float64(gobreaker.StateClosed))
	return gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     l.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= l.BreakerFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit breaker state change")
			metrics.BreakerState.WithLabelValues(name).Set(float64(to))
		},
	})
}

// call paces fn on the limiter and runs it through the breaker. The method
// name labels the fetch metrics.
func call[T any](ctx context.Context, c *Client, method string, fn func() (T, error)) (T, error) {
	var zero T
	if err := c.limiter.Wait(ctx); err != nil {
		return zero, fmt.Errorf("%s: %w", method, err)
	}

	start := time.Now()
	res, err := c.breaker.Execute(func() (any, error) {
		return fn()
	})
	metrics.RecordFetch(method, time.Since(start), err)

	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return zero, fmt.Errorf("%s: %w", method, ErrUnavailable)
		}
		return zero, fmt.Errorf("%s: %w", method, err)
	}
	typed, ok := res.(T)
	if !ok {
		return zero, fmt.Errorf("%s: unexpected result type %T", method, res)
	}
	return typed, nil
}
