// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package renderer models picture-formation algorithms as immutable
// descriptors sourced from OCIO config files, and knows how to build the
// on-disk resources each one needs.
//
// A Descriptor is the lightweight record the rest of the pipeline passes
// around: which config file to load and which display/view/look selects
// the transform within it. Builders are the heavyweight side: they fetch
// archives, unpack them and, for vendor LUTs, patch a stock ACES config
// before a Descriptor pointing at the result can exist.
package renderer

import (
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/AleutianAI/picturelab/services/comparison/oiio"
)

// ReferenceColorspace marks pixels encoded in ACES2065-1, the archival
// encoding every library plate is normalized to. The sigils keep the
// marker from colliding with real OCIO colorspace names.
const ReferenceColorspace = "@ACES2065-1@"

var validate = validator.New()

// Descriptor describes how to evaluate one image formation sourced from
// an OCIO config file.
//
// Descriptors are immutable value records: derive variants by copying the
// value and overriding fields (see the native and ACESv2.0 builders), not
// by mutating a shared instance. Filename is the canonical identity, used
// as a map key and as the output filename stem; Name is only a display
// label.
type Descriptor struct {
	Name        string `json:"name" validate:"required"`
	Filename    string `json:"filename" validate:"required"`
	Description string `json:"description"`

	// ConfigPath is the filesystem path of the OCIO config to load.
	ConfigPath string `json:"config_path" validate:"required"`

	// SRGBLin names the config's linear sRGB colorspace. Configs rarely
	// agree on what that entry is called, but almost all of them have
	// one, which is why the pipeline converts through it.
	SRGBLin string `json:"srgb_lin" validate:"required"`

	Display string `json:"display" validate:"required"`
	View    string `json:"view" validate:"required"`

	// Look optionally names an OCIO look applied before the display
	// transform. Empty means no look.
	Look string `json:"look"`

	// SrcColorspace is the encoding of the session's source pixels.
	SrcColorspace string `json:"src_colorspace"`

	SourceURL  string   `json:"source_url"`
	References []string `json:"references"`
}

// OIIOArgs returns the oiiotool fragment rendering the image stack
// through this picture formation.
//
// The fragment first converts the reference encoding to the config's
// linear sRGB space with a fixed primaries matrix, then applies the OCIO
// display conversion. Source pixels in any encoding other than
// ReferenceColorspace are unsupported and fail fast.
func (d Descriptor) OIIOArgs() ([]string, error) {
	if d.SrcColorspace != ReferenceColorspace {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedColorspace, d.SrcColorspace)
	}
	command := oiio.AP0ToSRGBArgs()
	command = append(command, oiio.DisplayConvertArgs(
		d.ConfigPath, d.SRGBLin, d.Display, d.View, d.Look,
	)...)
	return command, nil
}

// Validate checks that the descriptor is complete enough to render with.
func (d Descriptor) Validate() error {
	if err := validate.Struct(d); err != nil {
		return fmt.Errorf("invalid renderer descriptor %q: %w", d.Filename, err)
	}
	return nil
}

// MarshalJSON emits the descriptor with a non-null references list, which
// downstream manifest consumers rely on.
func (d Descriptor) MarshalJSON() ([]byte, error) {
	type alias Descriptor
	a := alias(d)
	if a.References == nil {
		a.References = []string{}
	}
	return json.Marshal(a)
}

// FromJSON parses a descriptor previously serialized with ToJSON.
func FromJSON(data []byte) (Descriptor, error) {
	var d Descriptor
	if err := json.Unmarshal(data, &d); err != nil {
		return Descriptor{}, fmt.Errorf("parsing renderer descriptor: %w", err)
	}
	return d, nil
}

// ToJSON serializes the descriptor with stable indentation.
func (d Descriptor) ToJSON() ([]byte, error) {
	data, err := json.MarshalIndent(d, "", "    ")
	if err != nil {
		return nil, fmt.Errorf("serializing renderer descriptor %q: %w", d.Filename, err)
	}
	return data, nil
}
