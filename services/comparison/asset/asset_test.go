// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package asset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeDescriptor(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestAsset_Load(t *testing.T) {
	dir := t.TempDir()
	path := writeDescriptor(t, dir, "lamp.json",
		`{"identifier": "CAlc.D8.lamp", "image_path": "lamp.exr", "metadata": {"author": "lxm"}}`)

	a := New(path)
	require.NoError(t, a.Load())
	assert.Equal(t, "CAlc.D8.lamp", a.Identifier)
	assert.Equal(t, filepath.Join(dir, "lamp.exr"), a.ImagePath, "relative image path resolves against the descriptor dir")
	assert.Equal(t, path, a.JSONPath())
}

func TestFind(t *testing.T) {
	dir := t.TempDir()
	writeDescriptor(t, dir, "a/first.json", `{"identifier": "first", "image_path": "first.exr"}`)
	writeDescriptor(t, dir, "b/second.json", `{"identifier": "second", "image_path": "second.exr"}`)
	writeDescriptor(t, dir, "junk.json", `not json at all`)

	t.Run("finds nested descriptor", func(t *testing.T) {
		a, err := Find("second", dir)
		require.NoError(t, err)
		assert.Equal(t, "second", a.Identifier)
	})

	t.Run("unknown identifier", func(t *testing.T) {
		_, err := Find("nope", dir)
		assert.ErrorIs(t, err, ErrAssetNotFound)
	})
}
