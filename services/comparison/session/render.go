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

// Render is one planned comparison image: sources, a destination, an
// optional renderer and the generator producing it.
type Render struct {
	// DstPath is the output image location.
	DstPath string

	// SrcPaths are the input images, in order.
	SrcPaths []string

	// Renderer selects the picture formation, or nil for generators
	// that do not render through one.
	Renderer *renderer.Descriptor

	// Generator produces DstPath from SrcPaths.
	Generator Generator
}

// Run executes the render with the given oiiotool wrapper.
func (r *Render) Run(ctx context.Context, tool *oiio.Tool) error {
	return r.Generator.Run(ctx, tool, r.SrcPaths, r.DstPath, r.Renderer)
}

// renderJSON is the manifest shape of a Render. The generator field is
// a 2-element array: its shortname then its params object.
type renderJSON struct {
	DstPath   string            `json:"dst_path"`
	SrcPaths  []string          `json:"src_paths"`
	Renderer  json.RawMessage   `json:"renderer"`
	Generator []json.RawMessage `json:"generator"`
}

// MarshalJSON implements json.Marshaler.
func (r *Render) MarshalJSON() ([]byte, error) {
	shortname, err := json.Marshal(r.Generator.Shortname())
	if err != nil {
		return nil, err
	}
	params, err := json.Marshal(r.Generator)
	if err != nil {
		return nil, fmt.Errorf("serializing generator %q params: %w", r.Generator.Shortname(), err)
	}

	out := renderJSON{
		DstPath:   r.DstPath,
		SrcPaths:  r.SrcPaths,
		Renderer:  json.RawMessage("null"),
		Generator: []json.RawMessage{shortname, params},
	}
	if r.Renderer != nil {
		raw, err := json.Marshal(r.Renderer)
		if err != nil {
			return nil, err
		}
		out.Renderer = raw
	}
	return json.Marshal(out)
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *Render) UnmarshalJSON(data []byte) error {
	var in renderJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	if len(in.Generator) != 2 {
		return fmt.Errorf("render %q: generator field needs [shortname, params], got %d elements", in.DstPath, len(in.Generator))
	}

	var shortname string
	if err := json.Unmarshal(in.Generator[0], &shortname); err != nil {
		return fmt.Errorf("render %q: %w", in.DstPath, err)
	}
	gen, err := NewGenerator(shortname, in.Generator[1])
	if err != nil {
		return fmt.Errorf("render %q: %w", in.DstPath, err)
	}

	var rend *renderer.Descriptor
	if len(in.Renderer) > 0 && string(in.Renderer) != "null" {
		rend = &renderer.Descriptor{}
		if err := json.Unmarshal(in.Renderer, rend); err != nil {
			return fmt.Errorf("render %q: %w", in.DstPath, err)
		}
	}

	r.DstPath = in.DstPath
	r.SrcPaths = in.SrcPaths
	r.Renderer = rend
	r.Generator = gen
	return nil
}
