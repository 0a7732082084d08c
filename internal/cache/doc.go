// NewsXpress - News Article Recommendation Service
// Copyright 2026 Dhruvil Patel
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Dhruvil05Patel/NewsXpress

/*
Package cache provides the namespaced TTL cache for recommendation results.

# Overview

Every key lives under the "rec" namespace and has the shape

	rec:<strategy>:<scope>:<id>:<param-signature>

where scope is "article", "user" or "global". Key builds these; ids and
parameter values are percent-escaped so they can never introduce a segment
separator or a wildcard.

Because the scope segment is shared by every strategy, entity invalidation
needs no strategy list:

	m.ClearUserCache(ctx, "u42")      // rec:*:user:u42:*
	m.ClearArticleCache(ctx, "a1")    // rec:*:article:a1:*
	m.Invalidate(ctx, "reload")       // everything

# Stores

Manager sits on a Store:

  - MemoryStore: map plus a byte trie over keys, so prefix deletes touch
    only matching keys. A janitor goroutine sweeps expired entries.
  - BadgerStore: BadgerDB with native per-entry TTL. Survives restarts.
  - BreakerStore: wraps either in a sony/gobreaker circuit breaker. When the
    circuit is open calls fail with ErrStoreUnavailable.

# Failure Model

Manager.Get never returns an error. Store failures are logged at debug level
and counted as misses, so a broken cache degrades to recomputation.

A failed Invalidate is different: entries it should have removed may still
be readable, so the manager stops serving from the store until a purge
succeeds. Gets retry the purge at most every DefaultPurgeRetryInterval.

# Usage Example

	store := cache.NewBreakerStore(cache.NewMemoryStore(time.Minute), cache.BreakerSettings{})
	m := cache.NewManager(store, cache.BackendMemory, true, logger)
	defer m.Close()

	key := cache.Key("similar", cache.ScopeArticle, "a1", cache.Params{"top_n": 10})
	var recs []Recommendation
	if !m.GetJSON(ctx, key, &recs) {
	    recs = compute()
	    _ = m.SetJSON(ctx, key, recs, 30*time.Minute)
	}

# Thread Safety

All exported types are safe for concurrent use.
*/
package cache
