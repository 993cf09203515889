// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package renderer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDescriptor() Descriptor {
	return Descriptor{
		Name:          "AgX",
		Filename:      "AgX",
		Description:   "The original AgX algorithm by Troy Sobotka.",
		ConfigPath:    "/workbench/renderers/AgX/AgX-main/config.ocio",
		SRGBLin:       "Linear BT.709",
		Display:       "sRGB",
		View:          "Appearance Punchy",
		SrcColorspace: ReferenceColorspace,
		SourceURL:     "https://github.com/sobotka/AgX/archive/refs/heads/main.zip",
	}
}

func TestDescriptor_OIIOArgs(t *testing.T) {
	t.Run("matrix precedes display conversion", func(t *testing.T) {
		args, err := testDescriptor().OIIOArgs()
		require.NoError(t, err)

		require.Equal(t, "--ccmatrix:transpose=1", args[0])
		joined := strings.Join(args, "\x00")
		matrixIdx := strings.Index(joined, "--ccmatrix")
		configIdx := strings.Index(joined, "--colorconfig")
		displayIdx := strings.Index(joined, "--ociodisplay")
		assert.Less(t, matrixIdx, configIdx)
		assert.Less(t, configIdx, displayIdx)
	})

	t.Run("look is colorspace preserving", func(t *testing.T) {
		d := testDescriptor()
		d.Look = "ACES 1.3 Reference Gamut Compression"
		args, err := d.OIIOArgs()
		require.NoError(t, err)
		assert.Contains(t, args, `--ociolook:from="Linear BT.709":to="Linear BT.709"`)
	})

	t.Run("non reference colorspace fails fast", func(t *testing.T) {
		d := testDescriptor()
		d.SrcColorspace = "Linear Rec.709"
		_, err := d.OIIOArgs()
		assert.ErrorIs(t, err, ErrUnsupportedColorspace)
	})
}

func TestDescriptor_Validate(t *testing.T) {
	require.NoError(t, testDescriptor().Validate())

	d := testDescriptor()
	d.Filename = ""
	assert.Error(t, d.Validate())
}

func TestDescriptor_JSONRoundTrip(t *testing.T) {
	d := testDescriptor()
	d.Look = "AgX - Punchy"
	d.References = []string{"https://github.com/sobotka/AgX"}

	data, err := d.ToJSON()
	require.NoError(t, err)

	// Manifest field names are a fixed contract.
	for _, key := range []string{
		`"name"`, `"filename"`, `"description"`, `"config_path"`,
		`"srgb_lin"`, `"display"`, `"view"`, `"look"`,
		`"src_colorspace"`, `"source_url"`, `"references"`,
	} {
		assert.Contains(t, string(data), key)
	}

	back, err := FromJSON(data)
	require.NoError(t, err)
	assert.Equal(t, d, back)
}

func TestDescriptor_MarshalEmptyReferences(t *testing.T) {
	data, err := testDescriptor().ToJSON()
	require.NoError(t, err)
	assert.Contains(t, string(data), `"references": []`)
}

func TestDescriptor_FieldOverrideDerivation(t *testing.T) {
	base := testDescriptor()
	derived := base
	derived.Name = "Native (no image formation)"
	derived.Filename = "native"
	derived.View = "Un-tone-mapped"
	derived.Look = ""

	// The base record is untouched by deriving a variant.
	assert.Equal(t, "AgX", base.Filename)
	assert.Equal(t, "Appearance Punchy", base.View)
	assert.Equal(t, "native", derived.Filename)
	assert.Equal(t, base.ConfigPath, derived.ConfigPath, "derived variants share the built config")
}
