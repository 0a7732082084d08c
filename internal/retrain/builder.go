// NewsXpress - News Article Recommendation Service
// Copyright 2026 Dhruvil Patel
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Dhruvil05Patel/NewsXpress

package retrain

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/rs/zerolog"
)

// Builder rebuilds every model artifact family. It reports false, or an
// error, when the build did not produce usable artifacts.
type Builder interface {
	TrainAll(ctx context.Context) (bool, error)
}

// BuilderFunc adapts a function to Builder.
type BuilderFunc func(ctx context.Context) (bool, error)

// TrainAll calls f.
func (f BuilderFunc) TrainAll(ctx context.Context) (bool, error) {
	return f(ctx)
}

// ErrNoCommand is returned by NewCommandBuilder for an empty command.
var ErrNoCommand = errors.New("model builder command is empty")

// maxOutputTail bounds how much builder output is kept for logging.
const maxOutputTail = 4096

// CommandBuilder runs an external model builder process. Exit status 0 is
// success and any other exit status is a failed build. The process is not
// cancelled when ctx is, so a retrain that has started always runs to
// completion.
type CommandBuilder struct {
	argv   []string
	dir    string
	env    []string
	logger zerolog.Logger
}

// NewCommandBuilder creates a builder for argv. extraEnv entries (KEY=VALUE)
// are appended to the current process environment.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewCommandBuilder(argv []string, dir string, extraEnv []string, logger zerolog.Logger) (*CommandBuilder, error) {
	if len(argv) == 0 || strings.TrimSpace(argv[0]) == "" {
		return nil, ErrNoCommand
	}
	return &CommandBuilder{
		argv:   append([]string(nil), argv...),
		dir:    dir,
		env:    append([]string(nil), extraEnv...),
		logger: logger.With().Str("component", "model-builder").Logger(),
	}, nil
}

// TrainAll runs the command and waits for it to exit.
func (b *CommandBuilder) TrainAll(ctx context.Context) (bool, error) {
	//nolint:gosec // command comes from operator configuration
	cmd := exec.CommandContext(context.WithoutCancel(ctx), b.argv[0], b.argv[1:]...)
	cmd.Dir = b.dir
	cmd.Env = append(os.Environ(), b.env...)

	var out tailBuffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	b.logger.Info().Strs("command", b.argv).Str("dir", b.dir).Msg("Starting model builder")

	err := cmd.Run()
	var exitErr *exec.ExitError
	switch {
	case err == nil:
		b.logger.Debug().Str("output", out.String()).Msg("Model builder finished")
		return true, nil
	case errors.As(err, &exitErr):
		b.logger.Warn().
			Int("exit_code", exitErr.ExitCode()).
			Str("output", out.String()).
			Msg("Model builder exited with failure")
		return false, nil
	default:
		return false, fmt.Errorf("run model builder %q: %w", b.argv[0], err)
	}
}

// tailBuffer keeps the last maxOutputTail bytes written to it.
type tailBuffer struct {
	buf bytes.Buffer
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	n := len(p)
	t.buf.Write(p)
	if over := t.buf.Len() - maxOutputTail; over > 0 {
		t.buf.Next(over)
	}
	return n, nil
}

func (t *tailBuffer) String() string {
	return strings.TrimSpace(t.buf.String())
}
