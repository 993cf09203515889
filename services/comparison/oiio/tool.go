// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package oiio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"
)

// Runner executes an external command.
//
// All oiiotool invocations in the pipeline go through this interface so
// command execution can be mocked in unit tests. Implementations must be
// safe for concurrent use.
type Runner interface {
	// Run executes the command synchronously and returns its stdout.
	// The returned error is a *ExecError when the process ran and failed.
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecRunner is the production Runner backed by os/exec.
type ExecRunner struct{}

// Run executes the command, capturing stdout and stderr separately.
func (ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		return nil, &ExecError{
			Name:     name,
			Args:     args,
			ExitCode: exitCode,
			Stderr:   strings.TrimSpace(stderr.String()),
			Err:      err,
		}
	}
	return stdout.Bytes(), nil
}

// RunnerFunc adapts a function to the Runner interface for tests.
type RunnerFunc func(ctx context.Context, name string, args ...string) ([]byte, error)

// Run calls f.
func (f RunnerFunc) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return f(ctx, name, args...)
}

// Tool is a handle on the oiiotool executable.
//
// The zero value is not usable; construct with NewTool. The executable is
// resolved by the caller (usually once at startup through FindTool) rather
// than at package load so a missing binary is a reportable error instead
// of an init-time crash.
type Tool struct {
	exe    string
	runner Runner
	log    *slog.Logger
}

// NewTool creates a Tool for the given executable path.
//
// A nil runner defaults to ExecRunner. A nil logger defaults to
// slog.Default().
func NewTool(exe string, runner Runner, log *slog.Logger) *Tool {
	if runner == nil {
		runner = ExecRunner{}
	}
	if log == nil {
		log = slog.Default()
	}
	return &Tool{exe: exe, runner: runner, log: log}
}

// FindTool locates the oiiotool executable on PATH.
func FindTool() (string, error) {
	path, err := exec.LookPath("oiiotool")
	if err != nil {
		return "", fmt.Errorf("oiiotool not found on PATH: %w", err)
	}
	return path, nil
}

// Exe returns the executable path the tool was constructed with.
func (t *Tool) Exe() string {
	return t.exe
}

// Run executes the assembled argument list.
//
// The call blocks until the process exits. No retry or timeout is applied
// here; cancellation is the caller's responsibility through ctx.
func (t *Tool) Run(ctx context.Context, args []string) error {
	t.log.Debug("running oiiotool", "args", strings.Join(args, " "))
	if _, err := t.runner.Run(ctx, t.exe, args...); err != nil {
		return err
	}
	return nil
}

// ImageSize probes the pixel dimensions of an image.
//
// It loads the image and echoes its width and height, parsed from stdout
// as two newline-separated integers.
func (t *Tool) ImageSize(ctx context.Context, path string) (width, height int, err error) {
	args := []string{
		"-i", path,
		"--echo", "{TOP.width}",
		"--echo", "{TOP.height}",
	}
	out, err := t.runner.Run(ctx, t.exe, args...)
	if err != nil {
		return 0, 0, err
	}

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	if len(lines) < 2 {
		return 0, 0, fmt.Errorf("unexpected oiiotool probe output: %q", string(out))
	}
	width, err = strconv.Atoi(strings.TrimSpace(lines[0]))
	if err != nil {
		return 0, 0, fmt.Errorf("parsing probed width: %w", err)
	}
	height, err = strconv.Atoi(strings.TrimSpace(lines[1]))
	if err != nil {
		return 0, 0, fmt.Errorf("parsing probed height: %w", err)
	}
	return width, height, nil
}
