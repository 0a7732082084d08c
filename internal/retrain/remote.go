// NewsXpress - News Article Recommendation Service
// Copyright 2026 Dhruvil Patel
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Dhruvil05Patel/NewsXpress

package retrain

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/Dhruvil05Patel/NewsXpress/internal/recommend"
)

// DefaultReloadTimeout bounds one reload call to the serving process.
const DefaultReloadTimeout = 30 * time.Second

// maxErrorBody caps how much of a failed response is kept in the error.
const maxErrorBody = 4096

// ErrReloadRequest wraps transport failures and unexpected responses from
// the reload endpoint.
var ErrReloadRequest = errors.New("reload request failed")

// RemoteReloader asks a running API process to reload its artifacts through
// POST /api/models/reload. The serving process clears its own cache as part
// of the reload, so a coordinator using it needs no Invalidator.
type RemoteReloader struct {
	url    string
	client *http.Client
	logger zerolog.Logger
}

// NewRemoteReloader creates a reloader for the given endpoint URL. A
// non-positive timeout means DefaultReloadTimeout.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewRemoteReloader(url string, timeout time.Duration, logger zerolog.Logger) *RemoteReloader {
	if timeout <= 0 {
		timeout = DefaultReloadTimeout
	}
	return &RemoteReloader{
		url:    url,
		client: &http.Client{Timeout: timeout},
		logger: logger.With().Str("component", "remote_reload").Str("url", url).Logger(),
	}
}

// reloadEnvelope is the subset of the API envelope the reloader reads.
type reloadEnvelope struct {
	Status string `json:"status"`
	Data   *struct {
		Status             string `json:"status"`
		ContentError       string `json:"content_error"`
		CollaborativeError string `json:"collaborative_error"`
		Model              struct {
			Version int64 `json:"version"`
		} `json:"model"`
	} `json:"data"`
	Error *struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

// Load implements Reloader. Transport errors and unreadable responses are
// reported as a failed load with the error on both families.
func (r *RemoteReloader) Load(ctx context.Context) recommend.LoadOutcome {
	env, err := r.post(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("Serving process could not be asked to reload")
		return recommend.LoadOutcome{Status: recommend.LoadFailure, ContentErr: err, CollaborativeErr: err}
	}

	if env.Data == nil {
		out := recommend.LoadOutcome{Status: recommend.LoadFailure}
		msg := "no data in reload response"
		if env.Error != nil {
			msg = env.Error.Code + ": " + env.Error.Message
			out.ContentErr = detailError(env.Error.Details, "content_error")
			out.CollaborativeErr = detailError(env.Error.Details, "collaborative_error")
		}
		if out.ContentErr == nil && out.CollaborativeErr == nil {
			out.ContentErr = fmt.Errorf("%w: %s", ErrReloadRequest, msg)
		}
		return out
	}

	out := recommend.LoadOutcome{Status: parseLoadStatus(env.Data.Status)}
	if env.Data.ContentError != "" {
		out.ContentErr = errors.New(env.Data.ContentError)
	}
	if env.Data.CollaborativeError != "" {
		out.CollaborativeErr = errors.New(env.Data.CollaborativeError)
	}
	r.logger.Info().
		Str("status", out.Status.String()).
		Int64("version", env.Data.Model.Version).
		Msg("Serving process reloaded artifacts")
	return out
}

func (r *RemoteReloader) post(ctx context.Context) (*reloadEnvelope, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %w", ErrReloadRequest, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReloadRequest, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %w", ErrReloadRequest, err)
	}

	var env reloadEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		if len(body) > maxErrorBody {
			body = body[:maxErrorBody]
		}
		return nil, fmt.Errorf("%w: status %d: %s", ErrReloadRequest, resp.StatusCode, string(body))
	}
	if resp.StatusCode != http.StatusOK && env.Error == nil {
		return nil, fmt.Errorf("%w: status %d", ErrReloadRequest, resp.StatusCode)
	}
	return &env, nil
}

func parseLoadStatus(s string) recommend.LoadStatus {
	switch s {
	case recommend.LoadSuccess.String():
		return recommend.LoadSuccess
	case recommend.LoadPartial.String():
		return recommend.LoadPartial
	default:
		return recommend.LoadFailure
	}
}

func detailError(details map[string]any, key string) error {
	if s, ok := details[key].(string); ok && s != "" {
		return errors.New(s)
	}
	return nil
}
