// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package oiio composes oiiotool command lines for the comparison pipeline.
//
// The package is split in two layers:
//
//   - Fragment builders: pure functions that translate a semantic image
//     operation (display conversion, exposure banding, mosaic assembly,
//     export) into an ordered slice of oiiotool argument tokens. They
//     perform no I/O and are deterministic given their inputs, which keeps
//     every higher-level generator testable without running oiiotool.
//
//   - Tool boundary: the Runner interface and the Tool type, which execute
//     a fully assembled token list as an external process. Subprocess
//     failures surface as *ExecError carrying the command and exit status.
//
// Fragments are combined by plain concatenation. The export fragment is
// always appended last.
package oiio

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for command composition.
var (
	// ErrEvenBandCount is returned when an exposure-band fragment is
	// requested with an even band count. Bands are symmetric around a
	// zero-offset center band, so the count must be odd.
	ErrEvenBandCount = errors.New("band count must be odd")
)

// ExecError describes a failed oiiotool invocation.
//
// It carries the full argument list, the process exit code and the
// captured stderr so callers can report the failure without re-running
// the command. There is no retry at this layer; a failed render aborts
// its containment scope and the driver decides whether to continue.
type ExecError struct {
	// Name is the executable that was invoked.
	Name string

	// Args is the argument list passed to the executable.
	Args []string

	// ExitCode is the process exit code, or -1 if the process did not
	// run (e.g. executable not found, context cancelled).
	ExitCode int

	// Stderr is the trimmed standard error output, possibly empty.
	Stderr string

	// Err is the underlying error from os/exec.
	Err error
}

// Error implements the error interface.
func (e *ExecError) Error() string {
	msg := fmt.Sprintf("%s exited with code %d", e.Name, e.ExitCode)
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

// Unwrap returns the underlying os/exec error.
func (e *ExecError) Unwrap() error {
	return e.Err
}

// CommandLine returns the invocation as a single printable string.
func (e *ExecError) CommandLine() string {
	return e.Name + " " + strings.Join(e.Args, " ")
}
