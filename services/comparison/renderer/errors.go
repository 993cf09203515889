// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package renderer

import "errors"

// Sentinel errors for renderer construction and lookup.
var (
	// ErrUnsupportedColorspace is returned when a descriptor's source
	// colorspace is not the ACES2065-1 reference encoding. Only
	// reference-encoded plates are supported at this time.
	ErrUnsupportedColorspace = errors.New("only ACES2065-1 encoded sources are supported")

	// ErrUnknownRenderer is returned by registry lookups for an
	// identifier no builder claims. This is a user error, not a crash.
	ErrUnknownRenderer = errors.New("unknown renderer identifier")

	// ErrDuplicateIdentifier is returned when two registered builders
	// claim the same identifier. Identifiers double as filesystem-safe
	// output stems, so a collision would silently overwrite renders.
	ErrDuplicateIdentifier = errors.New("duplicate renderer identifier")

	// ErrConfigMissing is returned when a build finished without
	// producing the expected OCIO config file. A renderer in this state
	// must not be used for descriptor construction.
	ErrConfigMissing = errors.New("expected OCIO config missing after build")
)
