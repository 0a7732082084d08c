// NewsXpress - News Article Recommendation Service
// Copyright 2026 Dhruvil Patel
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Dhruvil05Patel/NewsXpress

package cache

import (
	"context"
	"errors"
	"time"
)

// ErrStoreUnavailable is returned when the backing store cannot serve a
// request, including when the circuit breaker is open.
var ErrStoreUnavailable = errors.New("cache store unavailable")

// Store is a key-value store with per-entry TTL and prefix operations.
// Implementations must be safe for concurrent use.
type Store interface {
	// Get returns the value for key. A missing or expired key returns
	// (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores value with absolute expiry now+ttl, overwriting any
	// existing entry.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes key and reports whether it existed.
	Delete(ctx context.Context, key string) (bool, error)

	// DeletePrefix removes every key starting with prefix and returns the
	// number removed.
	DeletePrefix(ctx context.Context, prefix string) (int, error)

	// Keys returns the live keys starting with prefix.
	Keys(ctx context.Context, prefix string) ([]string, error)

	// Len returns the number of live keys.
	Len(ctx context.Context) (int, error)

	Close() error
}

// evictionReporter is implemented by stores that count expired evictions.
type evictionReporter interface {
	Evictions() int64
	LastCleanup() time.Time
}

// breakerReporter is implemented by stores wrapped in a circuit breaker.
type breakerReporter interface {
	BreakerState() string
}
