// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package session

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/AleutianAI/picturelab/services/comparison/oiio"
	"github.com/AleutianAI/picturelab/services/comparison/renderer"
)

// Comparison images are written as 8-bit high-quality JPEGs.
const (
	exportBitdepth    = "uint8"
	exportCompression = "jpeg:98"
)

// stem returns the file name without its extension.
func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// rendererLabel formats the display/view/look selection of a renderer
// the way comparison footers print it.
func rendererLabel(rend *renderer.Descriptor) string {
	look := ""
	if rend.Look != "" {
		look = fmt.Sprintf(", look='%s'", rend.Look)
	}
	return fmt.Sprintf("(display='%s', view='%s'%s)", rend.Display, rend.View, look)
}

// ----------------------------------------------------------------------------
// ExposureBands
// ----------------------------------------------------------------------------

// ExposureBands renders vertical strips of the source at gradually
// increasing exposure, mosaicked into one labeled row.
type ExposureBands struct {
	// BandOffset is the horizontal position of the sampled strip as a
	// fraction of the image width, in the 0-1 range.
	BandOffset float64 `json:"band_offset"`
}

// Shortname implements Generator.
func (g *ExposureBands) Shortname() string { return "exposures" }

// Describe implements Generator.
func (g *ExposureBands) Describe() string {
	return "generate bands of gradually increasing exposure"
}

// Run implements Generator. It requires exactly one source path and a
// renderer.
func (g *ExposureBands) Run(ctx context.Context, tool *oiio.Tool, srcPaths []string, dstPath string, rend *renderer.Descriptor) error {
	if err := requireSingleSource(g.Shortname(), srcPaths, rend); err != nil {
		return err
	}
	srcPath := srcPaths[0]

	ocioArgs, err := rend.OIIOArgs()
	if err != nil {
		return err
	}
	args, err := oiio.ExposureBandsArgs(srcPath, oiio.ExposureBandOpts{
		Count:   7,
		Step:    2,
		Width:   0.2,
		XOffset: g.BandOffset,
		Extra:   ocioArgs,
	})
	if err != nil {
		return err
	}

	textLeft := fmt.Sprintf("%s - %s", stem(srcPath), rend.Name)
	textRight := rendererLabel(rend)
	args = append(args,
		"--resize:filter=box", "0x864",
		"--cut", "0,0,{TOP.width},{TOP.height+100}",
		"--text:x=40:y={TOP.height-45}:shadow=0:size=34:color=1,1,1,1:yalign=center", textLeft,
		"--text:x={TOP.width-40}:y={TOP.height-45}:shadow=0:size=24:color=1,1,1,1:yalign=center:xalign=right", textRight,
	)
	args = append(args, oiio.ExportArgs(dstPath, exportBitdepth, exportCompression, false)...)
	return tool.Run(ctx, args)
}

// ----------------------------------------------------------------------------
// FullFrame
// ----------------------------------------------------------------------------

// FullFrame renders the whole image area resized to a target height,
// with a legend in a bottom footer.
type FullFrame struct {
	// MaxHeight is the target pixel height of the rendered frame,
	// excluding the footer.
	MaxHeight int `json:"max_height"`
}

// Shortname implements Generator.
func (g *FullFrame) Shortname() string { return "full" }

// Describe implements Generator.
func (g *FullFrame) Describe() string {
	return "render the whole area of the image and resize it"
}

// Run implements Generator. It requires exactly one source path and a
// renderer.
func (g *FullFrame) Run(ctx context.Context, tool *oiio.Tool, srcPaths []string, dstPath string, rend *renderer.Descriptor) error {
	if err := requireSingleSource(g.Shortname(), srcPaths, rend); err != nil {
		return err
	}
	srcPath := srcPaths[0]

	ocioArgs, err := rend.OIIOArgs()
	if err != nil {
		return err
	}

	args := []string{"-i", srcPath}
	args = append(args, ocioArgs...)
	args = append(args,
		"--ch", "R,G,B",
		"--resize:filter=box", fmt.Sprintf("0x%d", g.MaxHeight),
		// The footer holds two lines of text on the left, one on the
		// right.
		"--cut", "0,0,{TOP.width},{TOP.height+100}",
		"--text:x=40:y={TOP.height-47}:shadow=0:size=34:color=1,1,1,1:yalign=bottom", rend.Name,
		"--text:x=40:y={TOP.height-42}:shadow=0:size=24:color=1,1,1,1:yalign=top", rendererLabel(rend),
		"--text:x={TOP.width-40}:y={TOP.height-45}:shadow=0:size=34:color=1,1,1,1:yalign=center:xalign=right", stem(srcPath),
	)
	args = append(args, oiio.ExportArgs(dstPath, exportBitdepth, exportCompression, false)...)
	return tool.Run(ctx, args)
}

// ----------------------------------------------------------------------------
// Combined
// ----------------------------------------------------------------------------

// Combined mosaics already-rendered comparison outputs into a single
// at-a-glance grid. It does not render through a picture formation
// itself, so the renderer argument is ignored.
type Combined struct{}

// Shortname implements Generator.
//
// The sigils keep the token from colliding with a renderer-backed
// generator name in output filenames.
func (g *Combined) Shortname() string { return "__combined__" }

// Describe implements Generator.
func (g *Combined) Describe() string {
	return "combine previously rendered comparisons into a mosaic"
}

// Run implements Generator. It accepts any non-zero number of sources.
func (g *Combined) Run(ctx context.Context, tool *oiio.Tool, srcPaths []string, dstPath string, rend *renderer.Descriptor) error {
	if len(srcPaths) == 0 {
		return fmt.Errorf("%w: generator %q needs at least 1 source", ErrSourceCount, g.Shortname())
	}

	var args []string
	for _, srcPath := range srcPaths {
		args = append(args, "-i", srcPath)
	}
	args = append(args, oiio.AutoMosaicArgs(len(srcPaths))...)
	args = append(args, oiio.ExportArgs(dstPath, exportBitdepth, exportCompression, false)...)
	return tool.Run(ctx, args)
}
