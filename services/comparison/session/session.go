// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package session models a comparison session: the ordered collection
// of renders planned for one asset, serializable to a JSON manifest
// and reconstructable from it.
package session

import (
	"encoding/json"
	"fmt"

	"github.com/AleutianAI/picturelab/services/comparison/asset"
	"github.com/AleutianAI/picturelab/services/comparison/renderer"
)

// Session collects the renders planned for a single asset. Renders
// keep their insertion order through serialization.
type Session struct {
	Asset *asset.Asset

	renders []*Render
}

// New returns an empty session for the given asset.
func New(a *asset.Asset) *Session {
	return &Session{Asset: a}
}

// AddRender appends a planned render to the session.
func (s *Session) AddRender(dstPath string, srcPaths []string, rend *renderer.Descriptor, gen Generator) *Render {
	r := &Render{
		DstPath:   dstPath,
		SrcPaths:  srcPaths,
		Renderer:  rend,
		Generator: gen,
	}
	s.renders = append(s.renders, r)
	return r
}

// Renders returns the planned renders in insertion order.
func (s *Session) Renders() []*Render {
	return s.renders
}

// sessionJSON is the manifest shape of a Session. The asset is stored
// by descriptor path so a manifest can be re-resolved against disk.
type sessionJSON struct {
	Asset   string    `json:"asset"`
	Renders []*Render `json:"renders"`
}

// MarshalJSON implements json.Marshaler.
func (s *Session) MarshalJSON() ([]byte, error) {
	return json.Marshal(sessionJSON{
		Asset:   s.Asset.JSONPath(),
		Renders: s.renders,
	})
}

// ToJSON serializes the session manifest, indented for readability.
func (s *Session) ToJSON() ([]byte, error) {
	return json.MarshalIndent(s, "", "    ")
}

// FromJSON reconstructs a session from its manifest. The asset is
// referenced by descriptor path only; call Asset.Load to resolve its
// content from disk.
func FromJSON(data []byte) (*Session, error) {
	var in sessionJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("parsing session manifest: %w", err)
	}
	return &Session{Asset: asset.New(in.Asset), renders: in.Renders}, nil
}
