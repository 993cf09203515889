// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package oiio

import (
	"fmt"
	"math"
	"strconv"
)

// ap0ToSRGB is the 3x3 color-primaries matrix converting ACES2065-1 (AP0)
// primaries to sRGB primaries, CAT02 chromatic adaptation, row-major.
// https://www.colour-science.org:8010/apps/rgb_colourspace_transformation_matrix
var ap0ToSRGB = [9]float64{
	2.521649, -1.136889, -0.384918,
	-0.275214, 1.369705, -0.094392,
	-0.015925, -0.147806, 1.163806,
}

// AP0ToSRGBArgs returns the fragment converting the current image stack
// from ACES2065-1 primaries to linear sRGB primaries.
//
// The matrix is emitted transpose-ordered and comma-joined, which is how
// oiiotool's --ccmatrix expects a row-major matrix.
func AP0ToSRGBArgs() []string {
	joined := ""
	for i, v := range ap0ToSRGB {
		if i > 0 {
			joined += ","
		}
		joined += strconv.FormatFloat(v, 'f', -1, 64)
	}
	return []string{"--ccmatrix:transpose=1", joined}
}

// DisplayConvertArgs returns the fragment applying an OCIO display
// conversion sourced from the given config file.
//
// When look is non-empty it is applied before the display transform as a
// colorspace-preserving step: the look's from and to colorspaces are both
// srcColorspace. This is a fixed policy, not a configurable option.
//
// Inputs:
//
//	config - filesystem path to an existing OCIO config file
//	srcColorspace - name of the colorspace the image stack is encoded in
//	display - name of the OCIO display
//	view - name of the OCIO view for that display
//	look - optional name of an OCIO look, "" for none
func DisplayConvertArgs(config, srcColorspace, display, view, look string) []string {
	command := []string{"--colorconfig", config}
	if look != "" {
		command = append(command,
			fmt.Sprintf("--ociolook:from=%q:to=%q", srcColorspace, srcColorspace),
			look,
		)
	}
	command = append(command,
		fmt.Sprintf("--ociodisplay:from=%q", srcColorspace),
		display,
		view,
	)
	return command
}

// ExposureBandOpts parameterizes an exposure-band fragment.
type ExposureBandOpts struct {
	// Count is the number of bands to generate. Must be odd so the bands
	// are symmetric around a zero-offset center band.
	Count int

	// Step is the exposure offset in stops between adjacent bands.
	Step int

	// Width is the width of each band as a fraction of the source image
	// width, in the 0-1 range.
	Width float64

	// XOffset is the horizontal offset of the band as a fraction of the
	// source image width, in the 0-1 range.
	XOffset float64

	// Extra holds optional tokens applied to each band after the exposure
	// multiply and before the label is burned in. Typically a display
	// conversion fragment.
	Extra []string
}

// ExposureOffsets returns the exposure offsets for count bands separated
// by step stops, centered on zero.
//
// For count=7 step=2 the result is [-6 -4 -2 0 2 4 6].
func ExposureOffsets(count, step int) ([]int, error) {
	if count%2 == 0 {
		return nil, fmt.Errorf("%w; got %d", ErrEvenBandCount, count)
	}
	offsets := make([]int, 0, count)
	for i := 0; i < count; i++ {
		offsets = append(offsets, step*(i-count/2))
	}
	return offsets, nil
}

// ExposureBandsArgs returns the fragment rendering vertical strips of the
// source image at gradually increasing exposure, mosaicked into one row.
//
// For each of the Count exposure offsets, the fragment reloads the source
// image, crops a Width-fraction strip at XOffset, multiplies pixel values
// by 2^offset, applies the Extra tokens, then burns in a signed label of
// the offset. A final --mosaic Countx1 directive assembles the row.
func ExposureBandsArgs(srcPath string, opts ExposureBandOpts) ([]string, error) {
	offsets, err := ExposureOffsets(opts.Count, opts.Step)
	if err != nil {
		return nil, err
	}

	xExpr := "0"
	if opts.XOffset > 0 {
		xExpr = fmt.Sprintf("{TOP.width//%.2f}", 1/opts.XOffset)
	}
	cutExpr := fmt.Sprintf("{TOP.width//%.2f}x{TOP.height}+%s+0", 1/opts.Width, xExpr)

	var command []string
	for _, offset := range offsets {
		gain := math.Round(math.Pow(2, float64(offset))*100) / 100
		command = append(command,
			"-i", srcPath,
			"--cut", cutExpr,
			"--mulc", strconv.FormatFloat(gain, 'f', -1, 64),
		)
		command = append(command, opts.Extra...)
		command = append(command,
			"--text:x={TOP.width/2}:y={TOP.height-25}:shadow=4:size=44:color=1,1,1,1",
			fmt.Sprintf("%+d", offset),
		)
	}
	command = append(command, "--mosaic", fmt.Sprintf("%dx1", len(offsets)))
	return command, nil
}

// MosaicGrid returns the near-square (columns, rows) grid for n images,
// with columns = ceil(sqrt(n)) and rows = ceil(n/columns).
func MosaicGrid(n int) (columns, rows int) {
	columns = int(math.Ceil(math.Sqrt(float64(n))))
	rows = int(math.Ceil(float64(n) / float64(columns)))
	return columns, rows
}

// AutoMosaicArgs returns the fragment assembling the n images currently
// loaded on the image stack into a near-square mosaic.
func AutoMosaicArgs(n int) []string {
	columns, rows := MosaicGrid(n)
	return []string{"--mosaic", fmt.Sprintf("%dx%d", columns, rows)}
}

// ExportArgs returns the fragment writing the current image stack to
// dstPath. It is always the last fragment appended to a command.
//
// Inputs:
//
//	dstPath - destination file path; the extension selects the format
//	bitdepth - target bit depth, format dependent (e.g. "uint8")
//	compression - optional compression spec (e.g. "jpeg:98"), "" for none
//	srgbEncoded - true to apply the sRGB transfer function before writing
func ExportArgs(dstPath, bitdepth, compression string, srgbEncoded bool) []string {
	command := []string{"-d", bitdepth}
	if srgbEncoded {
		command = append(command, "--colorconvert", "linear", "sRGB")
	}
	if compression != "" {
		command = append(command, "--compression", compression)
	}
	command = append(command, "-o", dstPath)
	return command
}
