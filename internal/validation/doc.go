// NewsXpress - News Article Recommendation Service
// Copyright 2026 Dhruvil Patel
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Dhruvil05Patel/NewsXpress

// Package validation provides struct validation using go-playground/validator v10.
//
// The package provides:
//   - Thread-safe singleton validator (initialized once, cached struct info)
//   - Field names reported by their json/query tag ("top_n", not "TopN")
//   - The entityid custom validator for article and user identifiers
//   - APIError conversion producing the VALIDATION_ERROR format
//
// # Quick Start
//
//	type TrendingRequest struct {
//	    TopN int `json:"top_n" validate:"gte=1,lte=100"`
//	    Days int `json:"days" validate:"gte=1,lte=365"`
//	}
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
//	    return
//	}
//
// # Custom Validators
//
// entityid: a non-empty identifier of at most 128 bytes with no control
// characters, no whitespace and none of the cache key metacharacters '*'
// and ':'. Article and user ids are embedded in cache keys and patterns, so
// the API rejects ids that would need escaping there.
package validation
