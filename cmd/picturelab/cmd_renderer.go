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

	"github.com/spf13/cobra"

	"github.com/AleutianAI/picturelab/pkg/ux"
	"github.com/AleutianAI/picturelab/services/comparison/renderer"
)

// runRendererBuild builds a single renderer by identifier.
func runRendererBuild(cmd *cobra.Command, args []string) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	identifier := args[0]

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
	builder, err := reg.Get(identifier)
	if err != nil {
		ux.Error(err.Error())
		ux.Info("known renderers: " + fmt.Sprint(reg.Identifiers()))
		os.Exit(1)
	}

	if _, err := os.Stat(builder.ConfigPath()); err == nil && !forceBuild {
		ux.Warning(fmt.Sprintf("%s is already built at %s (use --force to rebuild)",
			identifier, builder.ConfigPath()))
		return
	}

	err = ux.WithSpinner("building renderer "+identifier, func() error {
		return builder.Build(ctx)
	})
	if err != nil {
		ux.Error(err.Error())
		os.Exit(1)
	}

	desc := builder.Renderer()
	data, err := desc.ToJSON()
	if err != nil {
		ux.Error(err.Error())
		os.Exit(1)
	}
	descriptorPath := filepath.Join(dir, desc.Filename+".json")
	if err := os.WriteFile(descriptorPath, data, 0644); err != nil {
		ux.Error("writing descriptor: " + err.Error())
		os.Exit(1)
	}
	ux.Success("built " + identifier)
}

// runRendererList prints every known renderer with its build state.
func runRendererList(cmd *cobra.Command, args []string) {
	dir := resolveRendererDir()

	reg, err := renderer.NewRegistry(dir, newFetchClient())
	if err != nil {
		ux.Error(err.Error())
		os.Exit(1)
	}

	ux.Title("renderers")
	for _, id := range reg.Identifiers() {
		builder, err := reg.Get(id)
		if err != nil {
			continue
		}
		desc := builder.Renderer()
		icon := ux.IconPending
		reason := "not built"
		if _, err := os.Stat(builder.ConfigPath()); err == nil {
			icon = ux.IconSuccess
			reason = desc.Name
		}
		ux.RenderStatus(id, icon, reason)
	}
}
