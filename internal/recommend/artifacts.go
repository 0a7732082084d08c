// NewsXpress - News Article Recommendation Service
// Copyright 2026 Dhruvil Patel
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Dhruvil05Patel/NewsXpress

package recommend

import (
	"fmt"
	"time"

	"github.com/Dhruvil05Patel/NewsXpress/internal/recommend/storage"
)

// Artifact family names as stored in storage.Store.
const (
	FamilyContent       = "content"
	FamilyCollaborative = "collaborative"
)

// ContentArtifacts is the content-based family: an article-article
// similarity matrix, the id to row mapping and row-aligned metadata.
type ContentArtifacts struct {
	// Index maps article id to matrix row. Bijective over [0, len(Articles)).
	Index map[string]int

	// Similarity is square; Similarity[i][j] is the similarity of row i to row j.
	Similarity [][]float64

	// Articles is aligned to row order.
	Articles []Article
}

// CollaborativeArtifacts is the collaborative family.
type CollaborativeArtifacts struct {
	// UserIndex maps user id to row in UserSimilarity and Interactions.
	UserIndex map[string]int

	// UserSimilarity is square with len(UserIndex) rows.
	UserSimilarity [][]float64

	// Interactions holds one feature vector per user, one column per
	// entry of ArticleIDs.
	Interactions [][]float64

	// ArticleIDs names the interaction matrix columns.
	ArticleIDs []string

	// ArticleFeatures maps article id to its feature vector. Optional.
	ArticleFeatures map[string][]float64

	// Labels are the label encoder classes naming each feature dimension.
	Labels []string
}

// Snapshot is one immutable, atomically published artifact set. A nil
// family means that family is unavailable.
type Snapshot struct {
	Content       *ContentArtifacts
	Collaborative *CollaborativeArtifacts

	ContentMeta       *storage.ArtifactMetadata
	CollaborativeMeta *storage.ArtifactMetadata

	Version  int64
	LoadedAt time.Time
}

// article returns metadata for id, or a bare Article when the content
// family is unavailable or does not know id.
func (s *Snapshot) article(id string) Article {
	if s != nil && s.Content != nil {
		if row, ok := s.Content.Index[id]; ok {
			return s.Content.Articles[row]
		}
	}
	return Article{ID: id}
}

func (c *ContentArtifacts) validate() error {
	n := len(c.Articles)
	if n == 0 {
		return fmt.Errorf("%w: content family has no articles", ErrArtifactInvalid)
	}
	if err := validateIndex(c.Index, n, "article index"); err != nil {
		return err
	}
	if err := validateSquare(c.Similarity, n, "similarity matrix"); err != nil {
		return err
	}
	for id, row := range c.Index {
		if c.Articles[row].ID != id {
			return fmt.Errorf("%w: article index maps %q to row %d holding %q",
				ErrArtifactInvalid, id, row, c.Articles[row].ID)
		}
	}
	return nil
}

func (c *CollaborativeArtifacts) validate() error {
	users := len(c.UserIndex)
	if users == 0 {
		return fmt.Errorf("%w: collaborative family has no users", ErrArtifactInvalid)
	}
	if err := validateIndex(c.UserIndex, users, "user index"); err != nil {
		return err
	}
	if err := validateSquare(c.UserSimilarity, users, "user similarity matrix"); err != nil {
		return err
	}
	if len(c.Interactions) != users {
		return fmt.Errorf("%w: interactions has %d rows, want %d", ErrArtifactInvalid, len(c.Interactions), users)
	}
	cols := len(c.ArticleIDs)
	for i, row := range c.Interactions {
		if len(row) != cols {
			return fmt.Errorf("%w: interactions row %d has %d columns, want %d", ErrArtifactInvalid, i, len(row), cols)
		}
	}
	seen := make(map[string]struct{}, cols)
	for _, id := range c.ArticleIDs {
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%w: duplicate article column %q", ErrArtifactInvalid, id)
		}
		seen[id] = struct{}{}
	}

	dim := -1
	for id, vec := range c.ArticleFeatures {
		if dim < 0 {
			dim = len(vec)
		}
		if len(vec) != dim {
			return fmt.Errorf("%w: feature vector for %q has %d dimensions, want %d", ErrArtifactInvalid, id, len(vec), dim)
		}
	}
	if dim >= 0 && len(c.Labels) > 0 && len(c.Labels) != dim {
		return fmt.Errorf("%w: %d labels for %d feature dimensions", ErrArtifactInvalid, len(c.Labels), dim)
	}
	return nil
}

// validateIndex checks that index is a bijection onto [0, n).
func validateIndex(index map[string]int, n int, what string) error {
	if len(index) != n {
		return fmt.Errorf("%w: %s has %d entries, want %d", ErrArtifactInvalid, what, len(index), n)
	}
	rows := make([]bool, n)
	for id, row := range index {
		if row < 0 || row >= n {
			return fmt.Errorf("%w: %s maps %q to out-of-range row %d", ErrArtifactInvalid, what, id, row)
		}
		if rows[row] {
			return fmt.Errorf("%w: %s maps two ids to row %d", ErrArtifactInvalid, what, row)
		}
		rows[row] = true
	}
	return nil
}

func validateSquare(m [][]float64, n int, what string) error {
	if len(m) != n {
		return fmt.Errorf("%w: %s has %d rows, want %d", ErrArtifactInvalid, what, len(m), n)
	}
	for i, row := range m {
		if len(row) != n {
			return fmt.Errorf("%w: %s row %d has %d columns, want %d", ErrArtifactInvalid, what, i, len(row), n)
		}
	}
	return nil
}
