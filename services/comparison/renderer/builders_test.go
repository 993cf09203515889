// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package renderer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckBuilt(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.ocio")

	assert.ErrorIs(t, checkBuilt(configPath), ErrConfigMissing)

	require.NoError(t, os.WriteFile(configPath, []byte("ocio_profile_version: 2"), 0o644))
	assert.NoError(t, checkBuilt(configPath))
}

func TestFindFile(t *testing.T) {
	dir := t.TempDir()
	nested := filepath.Join(dir, "arri", "luts", "rec709")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	want := filepath.Join(nested, arriLUTName)
	require.NoError(t, os.WriteFile(want, []byte("LUT_3D_SIZE 65"), 0o644))

	t.Run("finds nested file", func(t *testing.T) {
		got, err := findFile(dir, arriLUTName)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := findFile(dir, "nope.cube")
		assert.ErrorIs(t, err, ErrConfigMissing)
	})
}

func TestCopyDir(t *testing.T) {
	src := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(src, "luts"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "config.ocio"), []byte("a"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "luts", "agx.spi1d"), []byte("b"), 0o644))

	dst := filepath.Join(t.TempDir(), "ocio")
	require.NoError(t, copyDir(src, dst))

	assert.FileExists(t, filepath.Join(dst, "config.ocio"))
	assert.FileExists(t, filepath.Join(dst, "luts", "agx.spi1d"))
}
