// NewsXpress - News Article Recommendation Service
// Copyright 2026 Dhruvil Patel
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Dhruvil05Patel/NewsXpress

package recommend

import (
	"math"
	"sort"
)

// scored is an intermediate (article, score) pair.
type scored struct {
	id    string
	score float64
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// toSet builds a lookup set from ids.
func toSet(ids []string) map[string]struct{} {
	if len(ids) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// dropExcluded filters items in place. Unknown exclude ids are ignored.
func dropExcluded(items []scored, exclude map[string]struct{}) []scored {
	if len(exclude) == 0 {
		return items
	}
	kept := items[:0]
	for _, it := range items {
		if _, skip := exclude[it.id]; !skip {
			kept = append(kept, it)
		}
	}
	return kept
}

func truncate(items []scored, n int) []scored {
	if len(items) > n {
		return items[:n]
	}
	return items
}

// sortByScoreThenID sorts descending by score, ties by id ascending.
func sortByScoreThenID(items []scored) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].score != items[j].score {
			return items[i].score > items[j].score
		}
		return items[i].id < items[j].id
	})
}

// normalize rescales scores in place.
func normalize(scores map[string]float64, mode Normalization) {
	if len(scores) == 0 || mode == NormalizeNone {
		return
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	maxAbs := 0.0
	for _, s := range scores {
		lo = math.Min(lo, s)
		hi = math.Max(hi, s)
		maxAbs = math.Max(maxAbs, math.Abs(s))
	}

	switch mode {
	case NormalizeMax:
		if maxAbs == 0 {
			return
		}
		for id, s := range scores {
			scores[id] = s / maxAbs
		}
	default:
		span := hi - lo
		for id, s := range scores {
			if span == 0 {
				// A single distinct value carries full weight.
				scores[id] = 1
				continue
			}
			scores[id] = (s - lo) / span
		}
	}
}

// cosine returns the cosine similarity of a and b, 0 for zero vectors.
func cosine(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// toRecommendations attaches metadata from snap.
func toRecommendations(snap *Snapshot, items []scored) []Recommendation {
	recs := make([]Recommendation, 0, len(items))
	for _, it := range items {
		recs = append(recs, Recommendation{Article: snap.article(it.id), Score: it.score})
	}
	return recs
}
