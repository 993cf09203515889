// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package ociocfg

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `ocio_profile_version: 2

search_path: ""

roles:
  scene_linear: ACES2065-1

displays:
  sRGB - 2.2:
    - !<View> {name: Raw, colorspace: Raw}

colorspaces:
  - !<ColorSpace>
    name: ACES2065-1
  - !<ColorSpace>
    name: ARRI LogC4
  - !<ColorSpace>
    name: Raw
`

func TestParse(t *testing.T) {
	t.Run("valid document", func(t *testing.T) {
		cfg, err := Parse([]byte(sampleConfig))
		require.NoError(t, err)
		assert.Equal(t, []string{"ACES2065-1", "ARRI LogC4", "Raw"}, cfg.ColorSpaceNames())
	})

	t.Run("non mapping document", func(t *testing.T) {
		_, err := Parse([]byte("- a\n- b\n"))
		assert.ErrorIs(t, err, ErrMalformedConfig)
	})
}

func TestConfig_Patch(t *testing.T) {
	cfg, err := Parse([]byte(sampleConfig))
	require.NoError(t, err)

	err = cfg.AddColorSpace("ARRI Gamma24 Rec709-D65 v1",
		ColorSpaceTransform("ACES2065-1", "ARRI LogC4"),
		FileTransform("ARRI_LogC4-to-Gamma24_Rec709-D65_v1-65.cube", "linear"),
	)
	require.NoError(t, err)
	require.NoError(t, cfg.AddDisplayView("sRGB - 2.2", "ARRI Reveal", "ARRI Gamma24 Rec709-D65 v1"))
	cfg.SetSearchPath(".")
	require.NoError(t, cfg.Validate())

	data, err := cfg.Marshal()
	require.NoError(t, err)
	text := string(data)

	assert.Contains(t, text, "!<ColorSpace>")
	assert.NotContains(t, text, "%3C", "type tags must not be percent-escaped")
	assert.Contains(t, text, "name: ARRI Gamma24 Rec709-D65 v1")
	assert.Contains(t, text, "!<GroupTransform>")
	assert.Contains(t, text, "!<ColorSpaceTransform>")
	assert.Contains(t, text, "!<FileTransform>")
	assert.Contains(t, text, "name: ARRI Reveal")
	assert.Contains(t, text, "search_path: .")

	// The transform chain keeps its fixed order.
	csIdx := strings.Index(text, "!<ColorSpaceTransform>")
	ftIdx := strings.Index(text, "!<FileTransform>")
	assert.Less(t, csIdx, ftIdx, "colorspace conversion must precede the LUT")

	t.Run("round trips through parse", func(t *testing.T) {
		reparsed, err := Parse(data)
		require.NoError(t, err)
		require.NoError(t, reparsed.Validate())
		assert.Contains(t, reparsed.ColorSpaceNames(), "ARRI Gamma24 Rec709-D65 v1")

		// The added nodes must come back with the same tag shape the
		// stock config's nodes parse to.
		reemitted, err := reparsed.Marshal()
		require.NoError(t, err)
		assert.Contains(t, string(reemitted), "!<ColorSpaceTransform>")
		assert.Contains(t, string(reemitted), "!<View>")
	})
}

func TestConfig_Validate(t *testing.T) {
	t.Run("unknown view colorspace fails", func(t *testing.T) {
		cfg, err := Parse([]byte(sampleConfig))
		require.NoError(t, err)
		require.NoError(t, cfg.AddDisplayView("sRGB - 2.2", "Broken", "No Such Space"))
		assert.ErrorIs(t, cfg.Validate(), ErrInconsistentConfig)
	})

	t.Run("view_transform views are not checked", func(t *testing.T) {
		doc := strings.Replace(sampleConfig,
			"- !<View> {name: Raw, colorspace: Raw}",
			"- !<View> {name: Film, view_transform: ACES 2.0, display_colorspace: <USE_DISPLAY_NAME>}",
			1)
		cfg, err := Parse([]byte(doc))
		require.NoError(t, err)
		assert.NoError(t, cfg.Validate())
	})

	t.Run("shared view references are not checked", func(t *testing.T) {
		doc := strings.Replace(sampleConfig,
			"- !<View> {name: Raw, colorspace: Raw}",
			"- !<Views> [ACES 1.0 - SDR Video]",
			1)
		cfg, err := Parse([]byte(doc))
		require.NoError(t, err)
		assert.NoError(t, cfg.Validate())
	})

	t.Run("mangled colorspace tag fails", func(t *testing.T) {
		doc := strings.Replace(sampleConfig, "- !<ColorSpace>\n    name: Raw", "- !bogus\n    name: Raw", 1)
		cfg, err := Parse([]byte(doc))
		require.NoError(t, err)
		assert.ErrorIs(t, cfg.Validate(), ErrInconsistentConfig)
	})

	t.Run("mangled view tag fails", func(t *testing.T) {
		doc := strings.Replace(sampleConfig,
			"- !<View> {name: Raw, colorspace: Raw}",
			"- !bogus {name: Raw, colorspace: Raw}",
			1)
		cfg, err := Parse([]byte(doc))
		require.NoError(t, err)
		assert.ErrorIs(t, cfg.Validate(), ErrInconsistentConfig)
	})

	t.Run("new display is created on demand", func(t *testing.T) {
		cfg, err := Parse([]byte(sampleConfig))
		require.NoError(t, err)
		require.NoError(t, cfg.AddDisplayView("Rec.1886", "Raw", "Raw"))
		require.NoError(t, cfg.Validate())
	})
}

func TestConfig_WriteFile(t *testing.T) {
	cfg, err := Parse([]byte(sampleConfig))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "config.ocio")
	require.NoError(t, cfg.WriteFile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	_, err = Parse(data)
	require.NoError(t, err)

	t.Run("inconsistent patch never reaches disk", func(t *testing.T) {
		cfg, err := Parse([]byte(sampleConfig))
		require.NoError(t, err)
		require.NoError(t, cfg.AddDisplayView("sRGB - 2.2", "Broken", "No Such Space"))

		path := filepath.Join(t.TempDir(), "config.ocio")
		assert.ErrorIs(t, cfg.WriteFile(path), ErrInconsistentConfig)
		_, statErr := os.Stat(path)
		assert.True(t, os.IsNotExist(statErr), "a failed write must not leave a config behind")
	})
}
