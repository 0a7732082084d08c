// NewsXpress - News Article Recommendation Service
// Copyright 2026 Dhruvil Patel
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Dhruvil05Patel/NewsXpress

package recommend

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/Dhruvil05Patel/NewsXpress/internal/recommend/storage"
)

// testNow is the fixed clock used by fixtures.
var testNow = time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

// testContent returns four articles A-D.
//
//	   A    B    C    D
//	A 1.0  0.8  0.3  0.8
//	B 0.8  1.0  0.5  0.1
//	C 0.3  0.5  1.0  NaN
//	D 0.8  0.1  NaN  1.0
func testContent() *ContentArtifacts {
	return &ContentArtifacts{
		Index: map[string]int{"A": 0, "B": 1, "C": 2, "D": 3},
		Similarity: [][]float64{
			{1.0, 0.8, 0.3, 0.8},
			{0.8, 1.0, 0.5, 0.1},
			{0.3, 0.5, 1.0, math.NaN()},
			{0.8, 0.1, math.NaN(), 1.0},
		},
		Articles: []Article{
			{ID: "A", Title: "Alpha", Topic: "politics", PublishedAt: testNow.Add(-1 * time.Hour), Popularity: 100},
			{ID: "B", Title: "Bravo", Topic: "sports", PublishedAt: testNow.Add(-50 * time.Hour), Popularity: 100},
			{ID: "C", Title: "Charlie", Topic: "tech", PublishedAt: testNow.Add(-10 * 24 * time.Hour), Popularity: 1000},
			{ID: "D", Title: "Delta", Topic: "tech", PublishedAt: testNow.Add(-1 * time.Hour), Popularity: 0},
		},
	}
}

// testCollaborative returns three users over articles A-D.
//
//	interactions   A  B  C  D      similarity  u1   u2   u3
//	u1             1  0  0  0      u1          1.0  0.8  0.2
//	u2             1  1  0  0      u2          0.8  1.0  0.0
//	u3             0  0  1  0      u3          0.2  0.0  1.0
func testCollaborative() *CollaborativeArtifacts {
	return &CollaborativeArtifacts{
		UserIndex: map[string]int{"u1": 0, "u2": 1, "u3": 2},
		UserSimilarity: [][]float64{
			{1.0, 0.8, 0.2},
			{0.8, 1.0, 0.0},
			{0.2, 0.0, 1.0},
		},
		Interactions: [][]float64{
			{1, 0, 0, 0},
			{1, 1, 0, 0},
			{0, 0, 1, 0},
		},
		ArticleIDs: []string{"A", "B", "C", "D"},
		ArticleFeatures: map[string][]float64{
			"A": {1, 0},
			"B": {1, 0},
			"C": {0, 1},
			"D": {1, 1},
		},
		Labels: []string{"politics", "tech"},
	}
}

// noFeatureConfig disables the feature blend so collaborative scores are
// pure neighbour scores.
func noFeatureConfig() *Config {
	cfg := DefaultConfig()
	cfg.Collaborative.FeatureWeight = 0
	return cfg
}

// newTestStore writes the given families to a fresh store.
func newTestStore(t *testing.T, content *ContentArtifacts, collab *CollaborativeArtifacts) *storage.Store {
	t.Helper()
	store, err := storage.NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	meta := storage.ArtifactMetadata{TrainedAt: testNow.Add(-time.Hour)}
	if err := WriteArtifacts(context.Background(), store, content, collab, meta); err != nil {
		t.Fatalf("WriteArtifacts() error = %v", err)
	}
	return store
}

// newTestEngine returns a loaded engine over both fixture families.
func newTestEngine(t *testing.T, cfg *Config, opts ...Option) *Engine {
	t.Helper()
	store := newTestStore(t, testContent(), testCollaborative())
	opts = append([]Option{WithClock(func() time.Time { return testNow })}, opts...)
	e, err := NewEngine(cfg, NewLoader(store, zerolog.Nop()), zerolog.Nop(), opts...)
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	if out := e.Load(context.Background()); out.Status != LoadSuccess {
		t.Fatalf("Load() status = %v, content=%v collab=%v", out.Status, out.ContentErr, out.CollaborativeErr)
	}
	return e
}

func ids(recs []Recommendation) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.ID
	}
	return out
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}
