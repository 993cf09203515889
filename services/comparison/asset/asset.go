// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package asset reads the per-plate JSON descriptors of the reference
// image library. The comparison core only consumes an asset's identifier
// and image path; everything else in the descriptor is opaque metadata.
package asset

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ErrAssetNotFound is returned when no descriptor matches an identifier.
var ErrAssetNotFound = errors.New("asset not found")

// Asset is one reference plate of the library.
//
// An Asset is addressed by the path of its JSON descriptor; descriptor
// fields are populated by Load. The descriptor path, not the pixel data,
// is what sessions record.
type Asset struct {
	jsonPath string

	Identifier string         `json:"identifier"`
	ImagePath  string         `json:"image_path"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

// New creates an Asset handle for the given descriptor path without
// touching the filesystem.
func New(jsonPath string) *Asset {
	return &Asset{jsonPath: jsonPath}
}

// JSONPath returns the path of the asset's JSON descriptor.
func (a *Asset) JSONPath() string {
	return a.jsonPath
}

// Load reads the descriptor and resolves ImagePath relative to the
// descriptor's directory when it is not absolute.
func (a *Asset) Load() error {
	data, err := os.ReadFile(a.jsonPath)
	if err != nil {
		return fmt.Errorf("reading asset descriptor: %w", err)
	}
	if err := json.Unmarshal(data, a); err != nil {
		return fmt.Errorf("parsing asset descriptor %s: %w", a.jsonPath, err)
	}
	if a.ImagePath != "" && !filepath.IsAbs(a.ImagePath) {
		a.ImagePath = filepath.Join(filepath.Dir(a.jsonPath), a.ImagePath)
	}
	return nil
}

// Find locates the asset with the given identifier under rootDir.
//
// Every *.json file under rootDir is treated as a candidate descriptor;
// unreadable or non-asset JSON files are skipped.
func Find(identifier, rootDir string) (*Asset, error) {
	var found *Asset
	err := filepath.WalkDir(rootDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || found != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".json") {
			return nil
		}
		candidate := New(path)
		if loadErr := candidate.Load(); loadErr != nil {
			return nil
		}
		if candidate.Identifier == identifier {
			found = candidate
			return fs.SkipAll
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", rootDir, err)
	}
	if found == nil {
		return nil, fmt.Errorf("%w: %q under %s", ErrAssetNotFound, identifier, rootDir)
	}
	return found, nil
}
