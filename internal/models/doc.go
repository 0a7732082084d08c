// NewsXpress - News Article Recommendation Service
// Copyright 2026 Dhruvil Patel
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Dhruvil05Patel/NewsXpress

/*
Package models defines the JSON envelope shared by every HTTP endpoint.

Key Components:

  - APIResponse: status + data + metadata + optional error
  - Metadata: response time, request id and whether the payload came from
    the recommendation cache
  - APIError: machine-readable code plus message and details

Domain payloads (recommendations, cache stats, model info) are defined by the
packages that own them and embedded as Data.
*/
package models
