// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package renderer

import (
	"fmt"
	"path/filepath"

	"github.com/AleutianAI/picturelab/services/comparison/fetch"
)

// Registry maps renderer identifiers to their builders.
//
// The builder set is fixed at construction: every known builder is
// registered rooted under its own subdirectory of rootDir, and identifier
// uniqueness is validated once, at construction, rather than per lookup.
// Derived builders (ACESv2.0, native, 2499DRT) share their base builder's
// directory so the shared resources are only ever built once.
type Registry struct {
	byID  map[string]Builder
	order []string
}

// NewRegistry constructs the registry of all known renderer builders.
//
// rootDir is the renderer cache directory; each builder owns the
// subdirectory named after its identifier. Returns
// ErrDuplicateIdentifier when two builders claim the same identifier.
func NewRegistry(rootDir string, client *fetch.Client) (*Registry, error) {
	aces2gm := newACES2gmBuilder(subdir(rootDir, "ACESv2.0-gm"), client)
	openDRT := newOpenDRTBuilder(subdir(rootDir, "OpenDRT"), client)

	builders := []Builder{
		newAgXBuilder(subdir(rootDir, "AgX"), client),
		newAgXBlenderBuilder(subdir(rootDir, "AgX.blender"), client),
		newAgXcBuilder(subdir(rootDir, "AgXc"), client),
		newTCAMBuilder(subdir(rootDir, "TCAMv3"), client),
		newARRIBuilder(subdir(rootDir, "ARRIreveal"), client),
		newACES13gmBuilder(subdir(rootDir, "ACESv1.3-gm"), client),
		aces2gm,
		newACES2Builder(aces2gm),
		newNativeBuilder(aces2gm),
		openDRT,
		newDRT2499Builder(openDRT),
		newKodak2383Builder(subdir(rootDir, "Kodak2383"), client),
	}

	reg := &Registry{byID: make(map[string]Builder, len(builders))}
	for _, b := range builders {
		id := b.Identifier()
		if _, exists := reg.byID[id]; exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateIdentifier, id)
		}
		reg.byID[id] = b
		reg.order = append(reg.order, id)
	}
	return reg, nil
}

// Get returns the builder for the given identifier.
func (r *Registry) Get(identifier string) (Builder, error) {
	b, ok := r.byID[identifier]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownRenderer, identifier)
	}
	return b, nil
}

// Identifiers returns every registered identifier in registration order.
func (r *Registry) Identifiers() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

func subdir(rootDir, name string) string {
	return filepath.Join(rootDir, name)
}
