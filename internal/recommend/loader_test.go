// NewsXpress - News Article Recommendation Service
// Copyright 2026 Dhruvil Patel
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Dhruvil05Patel/NewsXpress

package recommend

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"

	"github.com/Dhruvil05Patel/NewsXpress/internal/metrics"
	"github.com/Dhruvil05Patel/NewsXpress/internal/recommend/storage"
)

func TestLoader_Outcomes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		content      *ContentArtifacts
		collab       *CollaborativeArtifacts
		status       LoadStatus
		contentErr   error
		collabErr    error
		wantSnapshot bool
		wantContent  bool
		wantCollab   bool
	}{
		{
			name:         "both families",
			content:      testContent(),
			collab:       testCollaborative(),
			status:       LoadSuccess,
			wantSnapshot: true,
			wantContent:  true,
			wantCollab:   true,
		},
		{
			name:         "content only",
			content:      testContent(),
			status:       LoadPartial,
			collabErr:    ErrArtifactMissing,
			wantSnapshot: true,
			wantContent:  true,
		},
		{
			name:         "collaborative only",
			collab:       testCollaborative(),
			status:       LoadPartial,
			contentErr:   ErrArtifactMissing,
			wantSnapshot: true,
			wantCollab:   true,
		},
		{
			name:       "nothing built",
			status:     LoadFailure,
			contentErr: ErrArtifactMissing,
			collabErr:  ErrArtifactMissing,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			store := newTestStore(t, tt.content, tt.collab)
			out := NewLoader(store, zerolog.Nop()).Load(context.Background())

			if out.Status != tt.status {
				t.Errorf("Status = %v, want %v", out.Status, tt.status)
			}
			if tt.contentErr == nil && out.ContentErr != nil {
				t.Errorf("ContentErr = %v, want nil", out.ContentErr)
			}
			if tt.contentErr != nil && !errors.Is(out.ContentErr, tt.contentErr) {
				t.Errorf("ContentErr = %v, want %v", out.ContentErr, tt.contentErr)
			}
			if tt.collabErr == nil && out.CollaborativeErr != nil {
				t.Errorf("CollaborativeErr = %v, want nil", out.CollaborativeErr)
			}
			if tt.collabErr != nil && !errors.Is(out.CollaborativeErr, tt.collabErr) {
				t.Errorf("CollaborativeErr = %v, want %v", out.CollaborativeErr, tt.collabErr)
			}
			if (out.Snapshot != nil) != tt.wantSnapshot {
				t.Fatalf("Snapshot = %v, want present=%v", out.Snapshot, tt.wantSnapshot)
			}
			if out.Snapshot == nil {
				return
			}
			if (out.Snapshot.Content != nil) != tt.wantContent {
				t.Errorf("Content present = %v, want %v", out.Snapshot.Content != nil, tt.wantContent)
			}
			if (out.Snapshot.Collaborative != nil) != tt.wantCollab {
				t.Errorf("Collaborative present = %v, want %v", out.Snapshot.Collaborative != nil, tt.wantCollab)
			}
		})
	}
}

func TestLoader_InvalidFamily(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store, err := storage.NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}

	// Bypass WriteArtifacts validation to persist a malformed family.
	bad := testContent()
	bad.Similarity = bad.Similarity[:2]
	if _, err := store.Save(ctx, FamilyContent, bad, storage.ArtifactMetadata{}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := WriteArtifacts(ctx, store, nil, testCollaborative(), storage.ArtifactMetadata{}); err != nil {
		t.Fatalf("WriteArtifacts() error = %v", err)
	}

	before := testutil.ToFloat64(metrics.ArtifactLoads.WithLabelValues(FamilyContent, "invalid"))
	out := NewLoader(store, zerolog.Nop()).Load(ctx)

	if out.Status != LoadPartial {
		t.Errorf("Status = %v, want partial", out.Status)
	}
	if !errors.Is(out.ContentErr, ErrArtifactInvalid) {
		t.Errorf("ContentErr = %v, want ErrArtifactInvalid", out.ContentErr)
	}
	if after := testutil.ToFloat64(metrics.ArtifactLoads.WithLabelValues(FamilyContent, "invalid")); after-before < 1 {
		t.Error("invalid load was not counted")
	}
}

func TestLoader_PicksUpNewVersions(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newTestStore(t, testContent(), testCollaborative())
	loader := NewLoader(store, zerolog.Nop())

	first := loader.Load(ctx)
	if first.Snapshot.ContentMeta.Version != 1 {
		t.Fatalf("first content version = %d", first.Snapshot.ContentMeta.Version)
	}

	updated := testContent()
	updated.Articles[0].Title = "Alpha v2"
	if err := WriteArtifacts(ctx, store, updated, nil, storage.ArtifactMetadata{}); err != nil {
		t.Fatalf("WriteArtifacts() error = %v", err)
	}

	second := loader.Load(ctx)
	if second.Snapshot.ContentMeta.Version != 2 {
		t.Errorf("second content version = %d, want 2", second.Snapshot.ContentMeta.Version)
	}
	if second.Snapshot.Content.Articles[0].Title != "Alpha v2" {
		t.Errorf("loaded stale content: %q", second.Snapshot.Content.Articles[0].Title)
	}
}

func TestWriteArtifacts_Validates(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store, _ := storage.NewStore(t.TempDir())

	tests := []struct {
		name    string
		content *ContentArtifacts
		collab  *CollaborativeArtifacts
	}{
		{
			name: "index out of range",
			content: func() *ContentArtifacts {
				c := testContent()
				c.Index["D"] = 7
				return c
			}(),
		},
		{
			name: "index disagrees with metadata",
			content: func() *ContentArtifacts {
				c := testContent()
				c.Index["A"], c.Index["B"] = 1, 0
				return c
			}(),
		},
		{
			name: "ragged interactions",
			collab: func() *CollaborativeArtifacts {
				c := testCollaborative()
				c.Interactions[1] = []float64{1}
				return c
			}(),
		},
		{
			name: "feature dimension mismatch",
			collab: func() *CollaborativeArtifacts {
				c := testCollaborative()
				c.ArticleFeatures["D"] = []float64{1, 1, 1}
				return c
			}(),
		},
		{
			name: "duplicate article column",
			collab: func() *CollaborativeArtifacts {
				c := testCollaborative()
				c.ArticleIDs[3] = "A"
				return c
			}(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := WriteArtifacts(ctx, store, tt.content, tt.collab, storage.ArtifactMetadata{})
			if !errors.Is(err, ErrArtifactInvalid) {
				t.Errorf("WriteArtifacts() error = %v, want ErrArtifactInvalid", err)
			}
		})
	}
}

func TestLoadStatus_String(t *testing.T) {
	t.Parallel()

	for status, want := range map[LoadStatus]string{
		LoadSuccess:    "success",
		LoadPartial:    "partial",
		LoadFailure:    "failure",
		LoadStatus(42): "unknown",
	} {
		if got := status.String(); got != want {
			t.Errorf("LoadStatus(%d).String() = %q, want %q", status, got, want)
		}
	}
}
