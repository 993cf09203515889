// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package ux

import (
	"os"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"
)

// Mode defines the richness of CLI output
type Mode string

const (
	// ModeRich enables colors, icons, and boxes
	ModeRich Mode = "rich"

	// ModePlain outputs plain text suitable for scripting and parsing
	ModePlain Mode = "plain"
)

var (
	currentMode = ModeRich
	modeMu      sync.RWMutex
)

// GetMode returns the current output mode
func GetMode() Mode {
	modeMu.RLock()
	defer modeMu.RUnlock()
	return currentMode
}

// SetMode updates the current output mode
func SetMode(m Mode) {
	modeMu.Lock()
	defer modeMu.Unlock()
	currentMode = m
}

// ParseMode converts a string to a Mode
func ParseMode(s string) Mode {
	switch strings.ToLower(s) {
	case "rich", "r", "full":
		return ModeRich
	case "plain", "p", "machine", "quiet":
		return ModePlain
	default:
		return ModeRich
	}
}

// InitMode initializes the output mode from environment and terminal state
func InitMode() {
	// Check environment variable first
	if envMode := os.Getenv("PICTURELAB_OUTPUT"); envMode != "" {
		SetMode(ParseMode(envMode))
		return
	}

	// Check if we're in a non-interactive context
	if !isTerminal() {
		SetMode(ModePlain)
		return
	}

	SetMode(ModeRich)
}

// isTerminal checks if stdout is a terminal
func isTerminal() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// ShouldShowProgress returns true if we should show progress indicators
func ShouldShowProgress() bool {
	return GetMode() != ModePlain
}
