// NewsXpress - News Article Recommendation Service
// Copyright 2026 Dhruvil Patel
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Dhruvil05Patel/NewsXpress

package recommend

import (
	"context"
	"time"
)

// Strategy names. They double as the strategy segment of cache keys.
const (
	StrategySimilar       = "similar"
	StrategyCollaborative = "collaborative"
	StrategyHybrid        = "hybrid"
	StrategyTrending      = "trending"
)

// Strategies lists every strategy the engine serves.
var Strategies = []string{
	StrategySimilar,
	StrategyCollaborative,
	StrategyHybrid,
	StrategyTrending,
}

// Article is one row of the article metadata table.
type Article struct {
	ID          string    `json:"article_id"`
	Title       string    `json:"title"`
	Summary     string    `json:"summary,omitempty"`
	URL         string    `json:"url,omitempty"`
	Source      string    `json:"source,omitempty"`
	Topic       string    `json:"topic,omitempty"`
	Subtopic    string    `json:"subtopic,omitempty"`
	PublishedAt time.Time `json:"published_at"`

	// Popularity is the builder-computed popularity used by trending when no
	// activity source is available.
	Popularity float64 `json:"popularity,omitempty"`
}

// Recommendation is a scored article.
type Recommendation struct {
	Article

	// Score is finite. Its range depends on the strategy: similarity scores
	// come straight from the matrix, hybrid and trending scores are in [0, 1].
	Score float64 `json:"score"`
}

// ActivitySource reports interaction weight per article since a point in
// time. The DuckDB activity store implements it.
type ActivitySource interface {
	ArticleActivity(ctx context.Context, since time.Time) (map[string]float64, error)
}

// ModelInfo describes the currently served snapshot.
type ModelInfo struct {
	Loaded                 bool      `json:"models_loaded"`
	ContentAvailable       bool      `json:"content_available"`
	CollaborativeAvailable bool      `json:"collaborative_available"`
	Version                int64     `json:"version"`
	LoadedAt               time.Time `json:"loaded_at,omitempty"`

	ArticleCount int `json:"article_count"`
	UserCount    int `json:"user_count"`

	Artifacts []ArtifactInfo `json:"artifacts,omitempty"`
}

// ArtifactInfo is stored metadata for one loaded family.
type ArtifactInfo struct {
	Family    string    `json:"family"`
	Version   int       `json:"version"`
	TrainedAt time.Time `json:"trained_at"`
	ItemCount int       `json:"item_count"`
	UserCount int       `json:"user_count"`
	Checksum  string    `json:"checksum"`
}
