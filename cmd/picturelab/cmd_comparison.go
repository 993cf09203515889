// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/picturelab/cmd/picturelab/config"
	"github.com/AleutianAI/picturelab/pkg/ux"
	"github.com/AleutianAI/picturelab/services/comparison/asset"
	"github.com/AleutianAI/picturelab/services/comparison/fetch"
	"github.com/AleutianAI/picturelab/services/comparison/oiio"
	"github.com/AleutianAI/picturelab/services/comparison/renderer"
	"github.com/AleutianAI/picturelab/services/comparison/session"
)

// comparisonDstName is the output naming scheme for one generator x
// renderer pair.
func comparisonDstName(assetID, shortname, rendererFilename string) string {
	return fmt.Sprintf("%s.%s.%s.jpg", assetID, shortname, rendererFilename)
}

// combinedDstName is the output naming scheme for a generator's
// combined mosaic.
func combinedDstName(assetID, shortname string) string {
	return fmt.Sprintf("%s.%s.__combined__.jpg", assetID, shortname)
}

// resolveRendererDir applies the flag override on top of the config
// default.
func resolveRendererDir() string {
	if rendererDir != "" {
		return rendererDir
	}
	return config.Global.RendererDir()
}

// newFetchClient builds the HTTP client renderer builders download
// their resources with.
func newFetchClient() *fetch.Client {
	timeout := time.Duration(config.Global.Fetch.TimeoutSeconds) * time.Second
	return fetch.NewClient(timeout, appLogger.Slog())
}

// newTool resolves the oiiotool binary and wraps it.
func newTool() (*oiio.Tool, error) {
	exe := config.Global.OIIO.Binary
	if exe == "" {
		found, err := oiio.FindTool()
		if err != nil {
			return nil, err
		}
		exe = found
	}
	return oiio.NewTool(exe, oiio.ExecRunner{}, appLogger.Slog()), nil
}

// buildRenderers builds every registered renderer under dir, skipping
// the ones whose config already exists unless force is set, and writes
// each descriptor next to the built resources as {filename}.json.
//
// The returned descriptors keep registration order, which is also the
// tiling order of combined images.
func buildRenderers(ctx context.Context, reg *renderer.Registry, dir string, force bool) ([]renderer.Descriptor, error) {
	descriptors := make([]renderer.Descriptor, 0, len(reg.Identifiers()))
	for _, id := range reg.Identifiers() {
		builder, err := reg.Get(id)
		if err != nil {
			return nil, err
		}

		_, statErr := os.Stat(builder.ConfigPath())
		if statErr == nil && !force {
			appLogger.Debug("renderer already built", "identifier", id, "config", builder.ConfigPath())
		} else {
			err = ux.WithSpinner(fmt.Sprintf("building renderer %s", id), func() error {
				return builder.Build(ctx)
			})
			if err != nil {
				return nil, fmt.Errorf("building renderer %q: %w", id, err)
			}
		}

		desc := builder.Renderer()
		data, err := desc.ToJSON()
		if err != nil {
			return nil, err
		}
		descriptorPath := filepath.Join(dir, desc.Filename+".json")
		appLogger.Info("writing renderer descriptor", "path", descriptorPath)
		if err := os.WriteFile(descriptorPath, data, 0644); err != nil {
			return nil, fmt.Errorf("writing descriptor for %q: %w", id, err)
		}
		descriptors = append(descriptors, desc)
	}
	return descriptors, nil
}

// totalRenderCount is the number of images one generate run produces:
// one per generator x renderer pair, plus one combined mosaic per
// generator when enabled.
func totalRenderCount(generators, renderers int, combined bool) int {
	perGenerator := renderers
	if combined {
		perGenerator++
	}
	return generators * perGenerator
}

// showProgress paints a transient progress bar under the status lines.
// A carriage return leaves it to be overwritten by the next line.
func showProgress(rendered, total int) {
	if !ux.ShouldShowProgress() {
		return
	}
	fmt.Printf("%s\r", ux.ProgressBar(rendered, total, 24))
}

// runComparisonGenerate drives the full pipeline for one asset: build
// renderers, render every generator x renderer pair, optionally combine
// each generator's outputs, and write the session manifest.
func runComparisonGenerate(cmd *cobra.Command, args []string) {
	start := time.Now()
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	assetID := args[0]

	dir := resolveRendererDir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		ux.Error("creating renderer directory: " + err.Error())
		os.Exit(1)
	}

	reg, err := renderer.NewRegistry(dir, newFetchClient())
	if err != nil {
		ux.Error(err.Error())
		os.Exit(1)
	}
	appLogger.Info("building renderers", "dir", dir)
	descriptors, err := buildRenderers(ctx, reg, dir, false)
	if err != nil {
		ux.Error(err.Error())
		os.Exit(1)
	}

	if buildRendererOnly {
		ux.Success(fmt.Sprintf("renderers built in %.1fs", time.Since(start).Seconds()))
		return
	}

	ast, err := asset.Find(assetID, config.Global.Paths.AssetDir)
	if err != nil {
		ux.Error(err.Error())
		os.Exit(1)
	}

	outDir := targetDir
	if outDir == "" {
		outDir = config.Global.ComparisonDir(ast.Identifier)
	}
	// Previous runs for the same asset are replaced wholesale.
	if err := os.RemoveAll(outDir); err != nil {
		ux.Error("clearing target directory: " + err.Error())
		os.Exit(1)
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		ux.Error("creating target directory: " + err.Error())
		os.Exit(1)
	}

	var generators []session.Generator
	if cmd.Flags().Changed("generator-exposures") {
		generators = append(generators, &session.ExposureBands{BandOffset: generatorExposures})
	}
	if cmd.Flags().Changed("generator-full") {
		generators = append(generators, &session.FullFrame{MaxHeight: generatorFull})
	}
	if len(generators) == 0 {
		ux.Warning("no generator selected; only renderer descriptors were produced")
		return
	}

	tool, err := newTool()
	if err != nil {
		ux.Error(err.Error())
		os.Exit(1)
	}
	if width, height, err := tool.ImageSize(ctx, ast.ImagePath); err == nil {
		appLogger.Debug("asset image size", "width", width, "height", height)
	}

	totalRenders := totalRenderCount(len(generators), len(descriptors), combinedRenderers)

	sess := session.New(ast)
	rendered := 0

	for _, gen := range generators {
		var produced []string

		for i := range descriptors {
			desc := &descriptors[i]
			dstName := comparisonDstName(ast.Identifier, gen.Shortname(), desc.Filename)
			dstPath := filepath.Join(outDir, dstName)

			r := sess.AddRender(dstPath, []string{ast.ImagePath}, desc, gen)
			appLogger.Info("generating comparison", "dst", dstPath)
			if err := r.Run(ctx, tool); err != nil {
				ux.RenderStatus(dstPath, ux.IconError, err.Error())
				ux.Error(err.Error())
				os.Exit(1)
			}
			ux.RenderStatus(dstPath, ux.IconSuccess, "")
			produced = append(produced, dstPath)
			rendered++
			showProgress(rendered, totalRenders)
		}

		// An extra comparison without a renderer, mosaicking what the
		// generator just produced.
		if combinedRenderers {
			dstName := combinedDstName(ast.Identifier, gen.Shortname())
			dstPath := filepath.Join(outDir, dstName)

			r := sess.AddRender(dstPath, produced, nil, &session.Combined{})
			appLogger.Info("generating combined image", "dst", dstPath)
			if err := r.Run(ctx, tool); err != nil {
				ux.RenderStatus(dstPath, ux.IconError, err.Error())
				ux.Error(err.Error())
				os.Exit(1)
			}
			ux.RenderStatus(dstPath, ux.IconSuccess, "")
			rendered++
			showProgress(rendered, totalRenders)
		}
	}

	manifest, err := sess.ToJSON()
	if err != nil {
		ux.Error("serializing session manifest: " + err.Error())
		os.Exit(1)
	}
	manifestPath := filepath.Join(outDir, ast.Identifier+".metadata.json")
	appLogger.Info("writing session manifest", "path", manifestPath)
	if err := os.WriteFile(manifestPath, manifest, 0644); err != nil {
		ux.Error("writing session manifest: " + err.Error())
		os.Exit(1)
	}

	ux.Summary(rendered, 0, 0)
	ux.Success(fmt.Sprintf("finished in %.1fs", time.Since(start).Seconds()))
}
