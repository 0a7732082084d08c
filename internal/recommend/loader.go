// NewsXpress - News Article Recommendation Service
// Copyright 2026 Dhruvil Patel
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Dhruvil05Patel/NewsXpress

package recommend

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/Dhruvil05Patel/NewsXpress/internal/metrics"
	"github.com/Dhruvil05Patel/NewsXpress/internal/recommend/storage"
)

// LoadStatus classifies a load attempt.
type LoadStatus int

const (
	// LoadFailure means no family loaded.
	LoadFailure LoadStatus = iota
	// LoadPartial means exactly one family loaded.
	LoadPartial
	// LoadSuccess means every family loaded.
	LoadSuccess
)

// String returns a human-readable name for the status.
func (s LoadStatus) String() string {
	switch s {
	case LoadSuccess:
		return "success"
	case LoadPartial:
		return "partial"
	case LoadFailure:
		return "failure"
	default:
		return "unknown"
	}
}

// LoadOutcome is the typed result of Loader.Load.
type LoadOutcome struct {
	Status LoadStatus

	// ContentErr and CollaborativeErr wrap ErrArtifactMissing or
	// ErrArtifactInvalid when the family did not load.
	ContentErr       error
	CollaborativeErr error

	// Snapshot is nil when Status is LoadFailure.
	Snapshot *Snapshot
}

// Success reports whether the outcome carries a servable snapshot.
//
//nolint:gocritic // value receiver keeps LoadOutcome usable as a plain value
func (o LoadOutcome) Success() bool {
	return o.Status != LoadFailure
}

// ArtifactReader is the read side of storage.Store.
type ArtifactReader interface {
	Load(ctx context.Context, name string, version int, target any) (*storage.ArtifactMetadata, error)
}

// ArtifactWriter is the write side of storage.Store.
type ArtifactWriter interface {
	Save(ctx context.Context, name string, data any, meta storage.ArtifactMetadata) (storage.ArtifactMetadata, error)
}

// rescanner is implemented by stores that can observe external writes.
type rescanner interface {
	Rescan() error
}

// Loader reads artifact families from a store. Construction performs no I/O.
type Loader struct {
	store  ArtifactReader
	logger zerolog.Logger
}

// NewLoader creates a loader over store.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewLoader(store ArtifactReader, logger zerolog.Logger) *Loader {
	return &Loader{
		store:  store,
		logger: logger.With().Str("component", "loader").Logger(),
	}
}

// Load attempts each family independently. It never returns an error: a
// missing or malformed family is recorded in the outcome and the other
// family still loads.
func (l *Loader) Load(ctx context.Context) LoadOutcome {
	var out LoadOutcome

	if l.store == nil {
		out.ContentErr = fmt.Errorf("%s: %w", FamilyContent, ErrArtifactMissing)
		out.CollaborativeErr = fmt.Errorf("%s: %w", FamilyCollaborative, ErrArtifactMissing)
		return out
	}

	if rs, ok := l.store.(rescanner); ok {
		if err := rs.Rescan(); err != nil {
			l.logger.Warn().Err(err).Msg("artifact store rescan failed, using known versions")
		}
	}

	var content ContentArtifacts
	contentMeta, err := l.store.Load(ctx, FamilyContent, 0, &content)
	if err == nil {
		err = content.validate()
	}
	out.ContentErr = classify(FamilyContent, err)
	l.record(FamilyContent, out.ContentErr, contentMeta)

	var collab CollaborativeArtifacts
	collabMeta, err := l.store.Load(ctx, FamilyCollaborative, 0, &collab)
	if err == nil {
		err = collab.validate()
	}
	out.CollaborativeErr = classify(FamilyCollaborative, err)
	l.record(FamilyCollaborative, out.CollaborativeErr, collabMeta)

	switch {
	case out.ContentErr == nil && out.CollaborativeErr == nil:
		out.Status = LoadSuccess
	case out.ContentErr == nil || out.CollaborativeErr == nil:
		out.Status = LoadPartial
	default:
		out.Status = LoadFailure
		return out
	}

	snap := &Snapshot{LoadedAt: time.Now().UTC()}
	if out.ContentErr == nil {
		snap.Content = &content
		snap.ContentMeta = contentMeta
	}
	if out.CollaborativeErr == nil {
		snap.Collaborative = &collab
		snap.CollaborativeMeta = collabMeta
	}
	out.Snapshot = snap
	return out
}

// classify maps a load error onto the artifact sentinels.
func classify(family string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrArtifactInvalid), errors.Is(err, ErrArtifactMissing):
		return err
	case errors.Is(err, storage.ErrNotFound):
		return fmt.Errorf("%s: %w", family, ErrArtifactMissing)
	default:
		return fmt.Errorf("%s: %w: %v", family, ErrArtifactInvalid, err)
	}
}

func (l *Loader) record(family string, err error, meta *storage.ArtifactMetadata) {
	status := "loaded"
	switch {
	case errors.Is(err, ErrArtifactMissing):
		status = "missing"
		l.logger.Warn().Str("family", family).Msg("artifact family missing, dependent strategies degraded")
	case err != nil:
		status = "invalid"
		l.logger.Error().Err(err).Str("family", family).Msg("artifact family invalid, dependent strategies degraded")
	default:
		ev := l.logger.Info().Str("family", family)
		if meta != nil {
			ev = ev.Int("version", meta.Version).Time("trained_at", meta.TrainedAt)
		}
		ev.Msg("artifact family loaded")
	}
	metrics.ArtifactLoads.WithLabelValues(family, status).Inc()
}

// WriteArtifacts validates and persists a snapshot in the layout Loader
// reads. A nil family is skipped. The in-process model builder and test
// fixtures use it.
//
//nolint:gocritic // meta passed by value is acceptable for this write operation
func WriteArtifacts(ctx context.Context, store ArtifactWriter, content *ContentArtifacts, collab *CollaborativeArtifacts, meta storage.ArtifactMetadata) error {
	if content != nil {
		if err := content.validate(); err != nil {
			return fmt.Errorf("content: %w", err)
		}
		m := meta
		m.ItemCount = len(content.Articles)
		if _, err := store.Save(ctx, FamilyContent, content, m); err != nil {
			return fmt.Errorf("save content artifacts: %w", err)
		}
	}
	if collab != nil {
		if err := collab.validate(); err != nil {
			return fmt.Errorf("collaborative: %w", err)
		}
		m := meta
		m.ItemCount = len(collab.ArticleIDs)
		m.UserCount = len(collab.UserIndex)
		if _, err := store.Save(ctx, FamilyCollaborative, collab, m); err != nil {
			return fmt.Errorf("save collaborative artifacts: %w", err)
		}
	}
	return nil
}
