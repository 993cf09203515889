// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package config

import (
	"os"
	"path/filepath"
)

type PictureLabConfig struct {
	// Paths: where assets live and where generated work goes
	Paths PathsConfig `yaml:"paths" validate:"required"`

	// OIIO: the oiiotool binary used for all image processing
	OIIO OIIOConfig `yaml:"oiio"`

	// Fetch: HTTP download behavior for renderer resources
	Fetch FetchConfig `yaml:"fetch"`

	// Logging: structured log output
	Logging LoggingConfig `yaml:"logging"`
}

type PathsConfig struct {
	WorkDir  string `yaml:"work_dir" validate:"required"`  // e.g. ~/.picturelab/workbench
	AssetDir string `yaml:"asset_dir" validate:"required"` // directory scanned for asset descriptors
}

type OIIOConfig struct {
	// Binary is the oiiotool executable. Empty means resolve from PATH.
	Binary string `yaml:"binary,omitempty"`
}

type FetchConfig struct {
	TimeoutSeconds int `yaml:"timeout_seconds" validate:"gte=1,lte=3600"`
}

type LoggingConfig struct {
	Level string `yaml:"level" validate:"oneof=debug info warn error"`
	Dir   string `yaml:"dir,omitempty"`
	JSON  bool   `yaml:"json"`
}

// RendererDir is the default directory renderer resources are built
// into, under the work directory.
func (c PictureLabConfig) RendererDir() string {
	return filepath.Join(c.Paths.WorkDir, "comparisons-generate", "renderers")
}

// ComparisonDir is the default output directory for one asset's
// comparison images.
func (c PictureLabConfig) ComparisonDir(assetID string) string {
	return filepath.Join(c.Paths.WorkDir, "comparisons", assetID)
}

func DefaultConfig() PictureLabConfig {
	workDir := "~/.picturelab/workbench"
	if home, err := os.UserHomeDir(); err == nil {
		workDir = filepath.Join(home, ".picturelab", "workbench")
	}
	return PictureLabConfig{
		Paths: PathsConfig{
			WorkDir:  workDir,
			AssetDir: filepath.Join(workDir, "assets"),
		},
		OIIO:  OIIOConfig{Binary: ""},
		Fetch: FetchConfig{TimeoutSeconds: 300},
		Logging: LoggingConfig{
			Level: "info",
			JSON:  false,
		},
	}
}
