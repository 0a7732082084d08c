// NewsXpress - News Article Recommendation Service
// Copyright 2026 Dhruvil Patel
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Dhruvil05Patel/NewsXpress

// Package recommend serves ranked news article recommendations from
// precomputed model artifacts.
//
// # Artifacts
//
// Two artifact families are read from storage.Store:
//
//   - content: article-article similarity matrix, id index and metadata
//   - collaborative: user similarity, user interaction vectors, article
//     feature vectors and label classes
//
// Families load independently. If one is missing or malformed the other is
// still served and the strategies that need the absent family return empty
// results. Loader.Load never fails; it reports a LoadOutcome.
//
// # Strategies
//
//   - Similar: a row of the similarity matrix, ties in row order
//   - Collaborative: similarity-weighted neighbour interactions, optionally
//     blended with profile/feature cosine affinity
//   - Hybrid: normalized content (seeded by recently read articles) plus
//     collaborative scores, weighted and summed
//   - Trending: log-damped popularity with exponential age decay, inside a
//     publish-date window
//
// Unknown users or articles produce empty results, never errors.
//
// # Usage
//
//	store, _ := storage.NewStore("/data/models")
//	engine, _ := recommend.NewEngine(recommend.DefaultConfig(), recommend.NewLoader(store, logger), logger)
//	engine.Load(ctx)
//
//	svc := recommend.NewService(engine, cacheManager, logger)
//	res := svc.Similar(ctx, "a1", 10, nil)
//
// # Thread Safety
//
// The engine publishes artifacts through an atomic pointer. Readers load the
// pointer once per call, so a reload never exposes a partially replaced
// snapshot and never blocks a request.
package recommend
