// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package session

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/AleutianAI/picturelab/services/comparison/oiio"
	"github.com/AleutianAI/picturelab/services/comparison/renderer"
)

// Generator is one method of producing a comparison image with oiiotool.
//
// Generators are stateless beyond their construction parameters. Those
// parameters round-trip through JSON (the struct's json tags are the
// manifest params object), keyed by a stable shortname, so any Render
// can be reconstructed from a manifest.
type Generator interface {
	// Shortname is the stable token identifying the generator variant.
	// It must be unique across all registered generators.
	Shortname() string

	// Describe returns a one-line human description of the variant.
	Describe() string

	// Run produces dstPath from srcPaths, rendered through rend. Whether
	// rend may be nil and how many sources are expected is
	// variant-specific.
	Run(ctx context.Context, tool *oiio.Tool, srcPaths []string, dstPath string, rend *renderer.Descriptor) error
}

// Generators lists every known generator constructor, in registration
// order. The list is explicit rather than discovered so manifest
// dispatch stays exhaustive and deterministic.
var Generators = []func() Generator{
	func() Generator { return &ExposureBands{} },
	func() Generator { return &FullFrame{} },
	func() Generator { return &Combined{} },
}

// ValidateGenerators checks the registration invariant: every
// generator's shortname and description is distinct. Call it once at
// startup; a collision is a programming error that would corrupt
// manifest round-trips.
func ValidateGenerators() error {
	shortnames := make(map[string]bool)
	descriptions := make(map[string]bool)
	for _, newGen := range Generators {
		g := newGen()
		if shortnames[g.Shortname()] {
			return fmt.Errorf("%w: %q", ErrDuplicateShortname, g.Shortname())
		}
		shortnames[g.Shortname()] = true
		if descriptions[g.Describe()] {
			return fmt.Errorf("%w: description %q reused", ErrDuplicateShortname, g.Describe())
		}
		descriptions[g.Describe()] = true
	}
	return nil
}

// NewGenerator reconstructs a generator from its manifest form: the
// shortname plus the params object.
func NewGenerator(shortname string, params json.RawMessage) (Generator, error) {
	for _, newGen := range Generators {
		g := newGen()
		if g.Shortname() != shortname {
			continue
		}
		if len(params) > 0 {
			if err := json.Unmarshal(params, g); err != nil {
				return nil, fmt.Errorf("parsing params for generator %q: %w", shortname, err)
			}
		}
		return g, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownGenerator, shortname)
}

// requireSingleSource enforces the 1-source + renderer contract shared
// by the exposure and full-frame generators.
func requireSingleSource(shortname string, srcPaths []string, rend *renderer.Descriptor) error {
	if len(srcPaths) != 1 {
		return fmt.Errorf("%w: generator %q takes exactly 1 source, got %d", ErrSourceCount, shortname, len(srcPaths))
	}
	if rend == nil {
		return fmt.Errorf("%w: generator %q", ErrRendererRequired, shortname)
	}
	return nil
}
