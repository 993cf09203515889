// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.NotEmpty(t, cfg.Paths.WorkDir)
	assert.NotEmpty(t, cfg.Paths.AssetDir)
	assert.Equal(t, 300, cfg.Fetch.TimeoutSeconds)
	assert.Equal(t, "info", cfg.Logging.Level)

	// The default must pass its own validation rules.
	require.NoError(t, validate.Struct(cfg))
}

func TestDefaultConfigRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	data, err := yaml.Marshal(cfg)
	require.NoError(t, err)

	got, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestParse(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		doc := `
paths:
  work_dir: /srv/picturelab
  asset_dir: /srv/picturelab/assets
oiio:
  binary: /usr/bin/oiiotool
fetch:
  timeout_seconds: 60
logging:
  level: debug
  json: true
`
		cfg, err := Parse([]byte(doc))
		require.NoError(t, err)
		assert.Equal(t, "/srv/picturelab", cfg.Paths.WorkDir)
		assert.Equal(t, "/usr/bin/oiiotool", cfg.OIIO.Binary)
		assert.Equal(t, 60, cfg.Fetch.TimeoutSeconds)
		assert.Equal(t, "debug", cfg.Logging.Level)
		assert.True(t, cfg.Logging.JSON)
	})

	t.Run("missing work dir", func(t *testing.T) {
		doc := `
paths:
  asset_dir: /srv/picturelab/assets
fetch:
  timeout_seconds: 60
logging:
  level: info
`
		_, err := Parse([]byte(doc))
		assert.Error(t, err)
	})

	t.Run("bad log level", func(t *testing.T) {
		doc := `
paths:
  work_dir: /srv/picturelab
  asset_dir: /srv/picturelab/assets
fetch:
  timeout_seconds: 60
logging:
  level: verbose
`
		_, err := Parse([]byte(doc))
		assert.Error(t, err)
	})

	t.Run("zero timeout rejected", func(t *testing.T) {
		doc := `
paths:
  work_dir: /srv/picturelab
  asset_dir: /srv/picturelab/assets
fetch:
  timeout_seconds: 0
logging:
  level: info
`
		_, err := Parse([]byte(doc))
		assert.Error(t, err)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		_, err := Parse([]byte("paths: ["))
		assert.Error(t, err)
	})
}

func TestDerivedPaths(t *testing.T) {
	cfg := PictureLabConfig{
		Paths: PathsConfig{WorkDir: "/work", AssetDir: "/work/assets"},
	}
	assert.Equal(t, filepath.Join("/work", "comparisons-generate", "renderers"), cfg.RendererDir())
	assert.Equal(t, filepath.Join("/work", "comparisons", "emily"), cfg.ComparisonDir("emily"))
}
