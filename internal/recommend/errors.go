// NewsXpress - News Article Recommendation Service
// Copyright 2026 Dhruvil Patel
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Dhruvil05Patel/NewsXpress

package recommend

import "errors"

var (
	// ErrArtifactMissing marks an artifact family that has not been built.
	// The strategies depending on it degrade to empty results.
	ErrArtifactMissing = errors.New("artifact family missing")

	// ErrArtifactInvalid marks an artifact family that could not be decoded
	// or whose dimensions are inconsistent.
	ErrArtifactInvalid = errors.New("artifact family invalid")

	// ErrUnknownMethod is returned for an unsupported personalized method.
	ErrUnknownMethod = errors.New("unknown recommendation method")
)
