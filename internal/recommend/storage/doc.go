// NewsXpress - News Article Recommendation Service
// Copyright 2026 Dhruvil Patel
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Dhruvil05Patel/NewsXpress

// Package storage persists precomputed recommendation artifacts.
//
// The model builder writes one artifact per family (content, collaborative)
// and the loader reads the latest version of each. Every version is a
// separate file, so a reader never observes a half-written artifact set.
//
// # Storage Format
//
//	filename: {name}_v{version}.gob.gz
//
//	structure:
//	  - Metadata (ArtifactMetadata)
//	  - CompressedData (gzip-compressed gob-encoded artifact)
//
// The metadata carries a SHA-256 checksum of the uncompressed payload,
// verified on every Load. Writes go through a temporary file and a rename.
//
// # Usage Example
//
//	store, err := storage.NewStore("/data/models")
//	if err != nil {
//	    return err
//	}
//
//	meta, err := store.Save(ctx, "content", artifacts, storage.ArtifactMetadata{
//	    ItemCount: len(artifacts.Articles),
//	    TrainedAt: time.Now(),
//	})
//
//	var loaded recommend.ContentArtifacts
//	meta, err = store.Load(ctx, "content", 0, &loaded) // 0 = latest version
//	if errors.Is(err, storage.ErrNotFound) {
//	    // family not built yet
//	}
//
// An external builder process may add versions while the service runs;
// call Rescan before Load to pick them up.
package storage
