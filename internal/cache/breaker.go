// NewsXpress - News Article Recommendation Service
// Copyright 2026 Dhruvil Patel
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Dhruvil05Patel/NewsXpress

package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/Dhruvil05Patel/NewsXpress/internal/logging"
	"github.com/Dhruvil05Patel/NewsXpress/internal/metrics"
)

// BreakerSettings configures a BreakerStore.
type BreakerSettings struct {
	Name string

	// ConsecutiveFailures opens the circuit. Zero means 5.
	ConsecutiveFailures uint32

	// Timeout is how long the circuit stays open before a half-open trial request.
	// Zero means 30s.
	Timeout time.Duration
}

// BreakerStore wraps a Store with a circuit breaker. While the circuit is
// open every call fails fast with ErrStoreUnavailable, so a dead backend
// costs a cache miss instead of a timeout on every request.
type BreakerStore struct {
	inner Store
	cb    *gobreaker.CircuitBreaker[any]
	name  string
}

// NewBreakerStore wraps inner.
func NewBreakerStore(inner Store, settings BreakerSettings) *BreakerStore {
	if settings.Name == "" {
		settings.Name = "cache-store"
	}
	if settings.ConsecutiveFailures == 0 {
		settings.ConsecutiveFailures = 5
	}
	if settings.Timeout <= 0 {
		settings.Timeout = 30 * time.Second
	}
	threshold := settings.ConsecutiveFailures

	metrics.CircuitBreakerState.WithLabelValues(settings.Name).Set(0) // 0 = closed

	cb := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        settings.Name,
		MaxRequests: 1, // Single trial request in half-open state
		Timeout:     settings.Timeout,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			shouldTrip := counts.ConsecutiveFailures >= threshold
			if shouldTrip {
				logging.Warn().
					Str("breaker", settings.Name).
					Uint32("consecutive_failures", counts.ConsecutiveFailures).
					Msg("[CIRCUIT BREAKER] Opening circuit")
			}
			return shouldTrip
		},

		// Caller cancellation says nothing about backend health.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr := stateToString(from)
			toStr := stateToString(to)

			logging.Info().Str("breaker", name).Str("from", fromStr).Str("to", toStr).Msg("[CIRCUIT BREAKER] State transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
		},
	})

	return &BreakerStore{inner: inner, cb: cb, name: settings.Name}
}

// execute runs fn through the breaker and records the outcome.
func (b *BreakerStore) execute(fn func() (any, error)) (any, error) {
	result, err := b.cb.Execute(fn)
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(b.name, "rejected").Inc()
			return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
		}
		metrics.CircuitBreakerRequests.WithLabelValues(b.name, "failure").Inc()
		return nil, err
	}
	metrics.CircuitBreakerRequests.WithLabelValues(b.name, "success").Inc()
	return result, nil
}

type getResult struct {
	value []byte
	found bool
}

func (b *BreakerStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	res, err := b.execute(func() (any, error) {
		v, ok, err := b.inner.Get(ctx, key)
		return getResult{value: v, found: ok}, err
	})
	if err != nil {
		return nil, false, err
	}
	r, _ := res.(getResult)
	return r.value, r.found, nil
}

func (b *BreakerStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	_, err := b.execute(func() (any, error) {
		return nil, b.inner.Set(ctx, key, value, ttl)
	})
	return err
}

func (b *BreakerStore) Delete(ctx context.Context, key string) (bool, error) {
	res, err := b.execute(func() (any, error) {
		return b.inner.Delete(ctx, key)
	})
	if err != nil {
		return false, err
	}
	existed, _ := res.(bool)
	return existed, nil
}

func (b *BreakerStore) DeletePrefix(ctx context.Context, prefix string) (int, error) {
	res, err := b.execute(func() (any, error) {
		return b.inner.DeletePrefix(ctx, prefix)
	})
	if err != nil {
		return 0, err
	}
	n, _ := res.(int)
	return n, nil
}

func (b *BreakerStore) Keys(ctx context.Context, prefix string) ([]string, error) {
	res, err := b.execute(func() (any, error) {
		return b.inner.Keys(ctx, prefix)
	})
	if err != nil {
		return nil, err
	}
	keys, _ := res.([]string)
	return keys, nil
}

func (b *BreakerStore) Len(ctx context.Context) (int, error) {
	res, err := b.execute(func() (any, error) {
		return b.inner.Len(ctx)
	})
	if err != nil {
		return 0, err
	}
	n, _ := res.(int)
	return n, nil
}

// Close closes the wrapped store directly.
func (b *BreakerStore) Close() error {
	return b.inner.Close()
}

// BreakerState returns "closed", "half-open" or "open".
func (b *BreakerStore) BreakerState() string {
	return stateToString(b.cb.State())
}

// Evictions forwards to the wrapped store when it counts evictions.
func (b *BreakerStore) Evictions() int64 {
	if r, ok := b.inner.(evictionReporter); ok {
		return r.Evictions()
	}
	return 0
}

// LastCleanup forwards to the wrapped store when it runs a janitor.
func (b *BreakerStore) LastCleanup() time.Time {
	if r, ok := b.inner.(evictionReporter); ok {
		return r.LastCleanup()
	}
	return time.Time{}
}

// stateToFloat converts circuit breaker state to numeric value for metrics
func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

// stateToString converts circuit breaker state to string for logging
func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
