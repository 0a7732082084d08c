// NewsXpress - News Article Recommendation Service
// Copyright 2026 Dhruvil Patel
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Dhruvil05Patel/NewsXpress

package recommend

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/Dhruvil05Patel/NewsXpress/internal/metrics"
	"github.com/Dhruvil05Patel/NewsXpress/internal/recommend/storage"
)

// Engine computes ranked recommendations from the current artifact snapshot.
// It is safe for concurrent use: readers load the snapshot pointer once per
// call and never observe a partially replaced artifact set.
type Engine struct {
	config *Config
	logger zerolog.Logger
	loader *Loader

	snapshot atomic.Pointer[Snapshot]
	version  atomic.Int64

	// lazy loading on first use, retried at most once per lazyRetry
	// until a snapshot is published
	lazy      bool
	lazyRetry time.Duration
	lazyMu    sync.Mutex
	lazyNext  time.Time

	activity ActivitySource
	now      func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock replaces time.Now for trending.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithActivitySource supplies windowed popularity for trending.
func WithActivitySource(src ActivitySource) Option {
	return func(e *Engine) { e.activity = src }
}

// DefaultLazyRetryInterval spaces lazy load attempts while no snapshot
// has been published.
const DefaultLazyRetryInterval = 5 * time.Second

// WithLazyLoad defers the first load until a strategy is called. A failed
// attempt is retried on a later call, no sooner than retry after it
// (DefaultLazyRetryInterval if retry is not positive).
func WithLazyLoad(retry time.Duration) Option {
	return func(e *Engine) {
		e.lazy = true
		e.lazyRetry = retry
		if e.lazyRetry <= 0 {
			e.lazyRetry = DefaultLazyRetryInterval
		}
	}
}

// NewEngine creates a new recommendation engine. It performs no I/O; call
// Load (or use WithLazyLoad) before serving.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, loader *Loader, logger zerolog.Logger, opts ...Option) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	e := &Engine{
		config: cfg.Clone(),
		logger: logger.With().Str("component", "recommend").Logger(),
		loader: loader,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Config returns a copy of the engine configuration.
func (e *Engine) Config() *Config {
	return e.config.Clone()
}

// Load runs the loader and, unless every family failed, atomically
// publishes the new snapshot. A failed load keeps the previous snapshot.
func (e *Engine) Load(ctx context.Context) LoadOutcome {
	var out LoadOutcome
	if e.loader == nil {
		out = (&Loader{logger: e.logger}).Load(ctx)
	} else {
		out = e.loader.Load(ctx)
	}

	if !out.Success() {
		e.logger.Error().
			AnErr("content_err", out.ContentErr).
			AnErr("collaborative_err", out.CollaborativeErr).
			Bool("serving_previous", e.snapshot.Load() != nil).
			Msg("artifact load failed, keeping previous snapshot")
		return out
	}

	out.Snapshot.Version = e.version.Add(1)
	e.snapshot.Store(out.Snapshot)
	metrics.SnapshotVersion.Set(float64(out.Snapshot.Version))

	e.logger.Info().
		Str("status", out.Status.String()).
		Int64("version", out.Snapshot.Version).
		Bool("content", out.Snapshot.Content != nil).
		Bool("collaborative", out.Snapshot.Collaborative != nil).
		Msg("artifact snapshot published")
	return out
}

// current returns the published snapshot, loading it first in lazy mode.
func (e *Engine) current(ctx context.Context) *Snapshot {
	snap := e.snapshot.Load()
	if snap != nil || !e.lazy {
		return snap
	}

	e.lazyMu.Lock()
	defer e.lazyMu.Unlock()
	if snap = e.snapshot.Load(); snap != nil {
		return snap
	}
	now := e.now()
	if now.Before(e.lazyNext) {
		return nil
	}
	e.lazyNext = now.Add(e.lazyRetry)
	if out := e.Load(ctx); !out.Success() {
		e.logger.Warn().Dur("retry_in", e.lazyRetry).Msg("lazy artifact load failed, serving empty results")
	}
	return e.snapshot.Load()
}

// Snapshot returns the published snapshot or nil.
func (e *Engine) Snapshot() *Snapshot {
	return e.snapshot.Load()
}

// limit applies the top-N contract: non-positive returns 0, large values
// are capped at MaxTopN.
func (e *Engine) limit(topN int) int {
	if topN <= 0 {
		return 0
	}
	if topN > e.config.Limits.MaxTopN {
		return e.config.Limits.MaxTopN
	}
	return topN
}

// Similar returns the articles most similar to articleID. Ties keep
// original row order. The article itself, NaN scores and excluded ids are
// dropped. An unknown article returns an empty result.
func (e *Engine) Similar(ctx context.Context, articleID string, topN int, exclude []string) []Recommendation {
	n := e.limit(topN)
	snap := e.current(ctx)
	if n == 0 || snap == nil || snap.Content == nil {
		return []Recommendation{}
	}
	content := snap.Content
	row, ok := content.Index[articleID]
	if !ok {
		return []Recommendation{}
	}

	sims := content.Similarity[row]
	items := make([]scored, 0, len(sims))
	for j, s := range sims {
		// NaN has no order; dropping it first keeps the stable sort sound.
		if j == row || !finite(s) {
			continue
		}
		items = append(items, scored{id: content.Articles[j].ID, score: s})
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].score > items[j].score })

	items = dropExcluded(items, toSet(exclude))
	return toRecommendations(snap, truncate(items, n))
}

// Collaborative scores articles for userID from similar users'
// interactions, blended with profile/feature affinity when configured.
// Unknown users get an empty result; there is no fallback strategy.
func (e *Engine) Collaborative(ctx context.Context, userID string, topN int, exclude []string) []Recommendation {
	n := e.limit(topN)
	snap := e.current(ctx)
	if n == 0 || snap == nil {
		return []Recommendation{}
	}

	items := e.collaborativeScores(snap, userID)
	sort.SliceStable(items, func(i, j int) bool { return items[i].score > items[j].score })
	items = dropExcluded(items, toSet(exclude))
	return toRecommendations(snap, truncate(items, n))
}

// collaborativeScores returns positive scores in interaction column order.
// Articles the user already interacted with are skipped.
func (e *Engine) collaborativeScores(snap *Snapshot, userID string) []scored {
	cf := snap.Collaborative
	if cf == nil {
		return nil
	}
	u, ok := cf.UserIndex[userID]
	if !ok {
		return nil
	}

	cols := len(cf.ArticleIDs)
	neighbour := make([]float64, cols)
	var total float64
	for v, sim := range cf.UserSimilarity[u] {
		if v == u || !finite(sim) || sim <= 0 {
			continue
		}
		total += sim
		for a, val := range cf.Interactions[v] {
			neighbour[a] += sim * val
		}
	}
	if total > 0 {
		for a := range neighbour {
			neighbour[a] /= total
		}
	}

	own := cf.Interactions[u]
	w := e.config.Collaborative.FeatureWeight
	profile := userProfile(cf, own)

	items := make([]scored, 0, cols)
	for a, id := range cf.ArticleIDs {
		if own[a] > 0 {
			continue
		}
		score := neighbour[a]
		if w > 0 && profile != nil {
			if feat, ok := cf.ArticleFeatures[id]; ok {
				score = (1-w)*score + w*cosine(profile, feat)
			}
		}
		if !finite(score) || score <= 0 {
			continue
		}
		items = append(items, scored{id: id, score: score})
	}
	return items
}

// userProfile sums article feature vectors weighted by the user's
// interactions. It returns nil when there are no features to sum.
func userProfile(cf *CollaborativeArtifacts, own []float64) []float64 {
	if len(cf.ArticleFeatures) == 0 {
		return nil
	}
	var profile []float64
	for a, id := range cf.ArticleIDs {
		if own[a] == 0 {
			continue
		}
		feat, ok := cf.ArticleFeatures[id]
		if !ok {
			continue
		}
		if profile == nil {
			profile = make([]float64, len(feat))
		}
		for i, f := range feat {
			profile[i] += own[a] * f
		}
	}
	return profile
}

// Hybrid merges content scores seeded by recentIDs with collaborative
// scores for userID. Each side is normalized, weighted, summed and
// deduplicated by article id. Ties break by article id.
func (e *Engine) Hybrid(ctx context.Context, userID string, recentIDs []string, topN int, exclude []string) []Recommendation {
	n := e.limit(topN)
	snap := e.current(ctx)
	if n == 0 || snap == nil {
		return []Recommendation{}
	}

	content := contentSeedScores(snap, recentIDs)
	collab := make(map[string]float64)
	for _, it := range e.collaborativeScores(snap, userID) {
		collab[it.id] = it.score
	}

	mode := e.config.Hybrid.Normalization
	normalize(content, mode)
	normalize(collab, mode)

	cw, fw := e.config.Hybrid.ContentWeight, e.config.Hybrid.CollaborativeWeight
	// Both maps are keyed by article id, so the union is already
	// deduplicated; a strategy that did not score an article adds 0.
	combined := make(map[string]float64, len(content)+len(collab))
	for id, s := range content {
		combined[id] = cw * s
	}
	for id, s := range collab {
		combined[id] += fw * s
	}

	items := make([]scored, 0, len(combined))
	for id, s := range combined {
		if finite(s) {
			items = append(items, scored{id: id, score: s})
		}
	}
	sortByScoreThenID(items)
	items = dropExcluded(items, toSet(exclude))
	return toRecommendations(snap, truncate(items, n))
}

// contentSeedScores takes, for every article, the maximum similarity to
// any seed found in the index. Seeds themselves are dropped.
func contentSeedScores(snap *Snapshot, seeds []string) map[string]float64 {
	scores := make(map[string]float64)
	if snap.Content == nil || len(seeds) == 0 {
		return scores
	}
	content := snap.Content
	seedSet := toSet(seeds)

	for _, seed := range seeds {
		row, ok := content.Index[seed]
		if !ok {
			continue
		}
		for j, s := range content.Similarity[row] {
			id := content.Articles[j].ID
			if _, isSeed := seedSet[id]; isSeed || !finite(s) {
				continue
			}
			if prev, ok := scores[id]; !ok || s > prev {
				scores[id] = s
			}
		}
	}
	return scores
}

// Trending ranks articles published within the last windowDays by
// log-damped popularity decayed with the configured half-life. Scores are
// scaled to [0, 1]. Ties break by most recent publish time, then id.
func (e *Engine) Trending(ctx context.Context, topN, windowDays int) []Recommendation {
	n := e.limit(topN)
	snap := e.current(ctx)
	if n == 0 || snap == nil || snap.Content == nil {
		return []Recommendation{}
	}
	if windowDays <= 0 {
		windowDays = e.config.Trending.WindowDays
	}

	now := e.now()
	since := now.Add(-time.Duration(windowDays) * 24 * time.Hour)
	activity := e.windowActivity(ctx, since)
	halfLife := e.config.Trending.HalfLife.Hours()

	type candidate struct {
		scored
		published time.Time
	}
	candidates := make([]candidate, 0)
	best := 0.0
	for _, a := range snap.Content.Articles {
		if a.PublishedAt.IsZero() || a.PublishedAt.Before(since) || a.PublishedAt.After(now) {
			continue
		}
		pop := a.Popularity
		if activity != nil {
			pop = activity[a.ID]
		}
		age := now.Sub(a.PublishedAt).Hours()
		score := math.Log1p(math.Max(pop, 0)) * math.Exp2(-age/halfLife)
		if !finite(score) {
			continue
		}
		best = math.Max(best, score)
		candidates = append(candidates, candidate{scored: scored{id: a.ID, score: score}, published: a.PublishedAt})
	}

	if best > 0 {
		for i := range candidates {
			candidates[i].score /= best
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		ci, cj := candidates[i], candidates[j]
		if ci.score != cj.score {
			return ci.score > cj.score
		}
		if !ci.published.Equal(cj.published) {
			return ci.published.After(cj.published)
		}
		return ci.id < cj.id
	})

	items := make([]scored, 0, n)
	for _, c := range candidates {
		if len(items) == n {
			break
		}
		items = append(items, c.scored)
	}
	return toRecommendations(snap, items)
}

// windowActivity returns activity weights from the activity source, or nil
// when the builder-computed popularity should be used instead.
func (e *Engine) windowActivity(ctx context.Context, since time.Time) map[string]float64 {
	if e.activity == nil {
		return nil
	}
	activity, err := e.activity.ArticleActivity(ctx, since)
	if err != nil {
		e.logger.Warn().Err(err).Msg("activity source unavailable, using article popularity")
		return nil
	}
	if len(activity) == 0 {
		return nil
	}
	return activity
}

// ModelInfo describes the published snapshot.
func (e *Engine) ModelInfo() ModelInfo {
	snap := e.snapshot.Load()
	if snap == nil {
		return ModelInfo{}
	}

	info := ModelInfo{
		Loaded:                 true,
		ContentAvailable:       snap.Content != nil,
		CollaborativeAvailable: snap.Collaborative != nil,
		Version:                snap.Version,
		LoadedAt:               snap.LoadedAt,
	}
	if snap.Content != nil {
		info.ArticleCount = len(snap.Content.Articles)
		info.Artifacts = append(info.Artifacts, artifactInfo(FamilyContent, snap.ContentMeta))
	}
	if snap.Collaborative != nil {
		info.UserCount = len(snap.Collaborative.UserIndex)
		info.Artifacts = append(info.Artifacts, artifactInfo(FamilyCollaborative, snap.CollaborativeMeta))
	}
	return info
}

func artifactInfo(family string, meta *storage.ArtifactMetadata) ArtifactInfo {
	info := ArtifactInfo{Family: family}
	if meta != nil {
		info.Version = meta.Version
		info.TrainedAt = meta.TrainedAt
		info.ItemCount = meta.ItemCount
		info.UserCount = meta.UserCount
		info.Checksum = meta.Checksum
	}
	return info
}
