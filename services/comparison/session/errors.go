// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package session records comparison generation: which generator ran
// with which renderer against which asset, and where the result landed.
//
// The package's serialization is a contract: the reporting layer only
// ever consumes the session manifest, never the in-memory objects, so a
// Render must be exactly reconstructable from its manifest entry.
package session

import "errors"

// Sentinel errors for generation and manifest loading.
var (
	// ErrUnknownGenerator is returned when a manifest references a
	// generator shortname no registered generator claims.
	ErrUnknownGenerator = errors.New("unknown generator shortname")

	// ErrDuplicateShortname is returned by ValidateGenerators when two
	// registered generators claim the same shortname, which would break
	// manifest round-trips.
	ErrDuplicateShortname = errors.New("duplicate generator shortname")

	// ErrRendererRequired is returned when a generator that renders
	// through a picture formation is invoked without one.
	ErrRendererRequired = errors.New("generator requires a renderer")

	// ErrSourceCount is returned when a generator is given the wrong
	// number of source images.
	ErrSourceCount = errors.New("wrong number of source images")
)
