// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/picturelab/cmd/picturelab/config"
	"github.com/AleutianAI/picturelab/pkg/logging"
	"github.com/AleutianAI/picturelab/pkg/ux"
	"github.com/AleutianAI/picturelab/services/comparison/session"
)

// --- Global Command Variables ---
var (
	generatorExposures float64 // x offset of the exposure band in 0-1 range
	generatorFull      int     // target height in pixels for the full frame render
	combinedRenderers  bool
	buildRendererOnly  bool
	targetDir          string
	rendererDir        string
	forceBuild         bool
	outputMode         string // UX output mode (rich/plain)
	logLevel           string

	appLogger *logging.Logger

	rootCmd = &cobra.Command{
		Use:   "picturelab",
		Short: "A cli to compare image formation algorithms on reference imagery",
		Long: `picturelab renders reference assets through a set of picture
				formation algorithms (OCIO configs driven through oiiotool)
				and assembles labeled comparison images.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// A generator registration collision would corrupt every
			// manifest this run writes, so refuse to start on one.
			if err := session.ValidateGenerators(); err != nil {
				ux.Error(err.Error())
				os.Exit(1)
			}

			// Initialize UX output mode from flag or environment
			if outputMode != "" {
				ux.SetMode(ux.ParseMode(outputMode))
			} else {
				ux.InitMode()
			}

			if err := config.Load(); err != nil {
				ux.Error("loading configuration: " + err.Error())
				os.Exit(1)
			}

			level := logging.LevelInfo
			name := logLevel
			if name == "" {
				name = config.Global.Logging.Level
			}
			if parsed, err := logging.ParseLevel(name); err == nil {
				level = parsed
			}
			appLogger = logging.New(logging.Config{
				Level:   level,
				LogDir:  config.Global.Logging.Dir,
				Service: "picturelab",
				JSON:    config.Global.Logging.JSON,
			})
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if appLogger != nil {
				_ = appLogger.Close()
			}
		},
	}

	// --- Comparisons ---
	comparisonCmd = &cobra.Command{
		Use:   "comparison",
		Short: "Generate comparison images for an asset",
	}
	generateCmd = &cobra.Command{
		Use:   "generate [asset-id]",
		Short: "Render an asset through every picture formation and assemble comparisons",
		Args:  cobra.ExactArgs(1),
		Run:   runComparisonGenerate, // Defined in cmd_comparison.go
	}

	// --- Renderers ---
	rendererCmd = &cobra.Command{
		Use:   "renderer",
		Short: "Manage picture formation renderers and their OCIO configs",
	}
	rendererBuildCmd = &cobra.Command{
		Use:   "build [identifier]",
		Short: "Download and assemble the resources of a single renderer",
		Args:  cobra.ExactArgs(1),
		Run:   runRendererBuild, // Defined in cmd_renderer.go
	}
	rendererListCmd = &cobra.Command{
		Use:   "list",
		Short: "List the known renderer identifiers and their build state",
		Run:   runRendererList, // Defined in cmd_renderer.go
	}
)

// init runs when the Go program starts
func init() {
	rootCmd.PersistentFlags().StringVar(&outputMode, "output", "",
		"Output style: rich (default when interactive) or plain (scripting)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"Log level override: debug, info, warn, or error")

	rootCmd.AddCommand(comparisonCmd)
	comparisonCmd.AddCommand(generateCmd)
	generateCmd.Flags().Float64Var(&generatorExposures, "generator-exposures", 0,
		"Generate bands of gradually increasing exposure. Value is the x offset of the sampled band in the 0-1 range.")
	generateCmd.Flags().IntVar(&generatorFull, "generator-full", 0,
		"Render the whole area of the image, resized to the given height in pixels.")
	generateCmd.Flags().BoolVar(&combinedRenderers, "combined-renderers", false,
		"Create an additional image per generator combining all renderer outputs.")
	generateCmd.Flags().StringVar(&targetDir, "target-dir", "",
		"Output directory (default: {work_dir}/comparisons/{asset-id}).")
	generateCmd.Flags().StringVar(&rendererDir, "renderer-dir", "",
		"Directory renderer resources are built into (default: {work_dir}/comparisons-generate/renderers).")
	generateCmd.Flags().BoolVar(&buildRendererOnly, "build-renderer-only", false,
		"Only build the renderers, skip all asset processing.")

	rootCmd.AddCommand(rendererCmd)
	rendererCmd.AddCommand(rendererBuildCmd)
	rendererBuildCmd.Flags().StringVar(&rendererDir, "renderer-dir", "",
		"Directory renderer resources are built into (default: {work_dir}/comparisons-generate/renderers).")
	rendererBuildCmd.Flags().BoolVar(&forceBuild, "force", false,
		"Rebuild even if the renderer's config already exists.")
	rendererCmd.AddCommand(rendererListCmd)
	rendererListCmd.Flags().StringVar(&rendererDir, "renderer-dir", "",
		"Directory renderer resources are built into (default: {work_dir}/comparisons-generate/renderers).")
}
