// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package ux

import (
	"errors"
	"testing"
	"time"
)

func TestSpinner_StartStop(t *testing.T) {
	original := GetMode()
	defer SetMode(original)
	SetMode(ModeRich)

	spin := NewSpinner("downloading config")
	spin.Start()
	time.Sleep(10 * time.Millisecond)
	spin.Stop()

	// A stopped spinner can be stopped again safely.
	spin.Stop()
}

func TestSpinner_PlainMode(t *testing.T) {
	original := GetMode()
	defer SetMode(original)
	SetMode(ModePlain)

	spin := NewSpinner("building renderer")
	spin.Start()
	spin.Stop()
}

func TestWithSpinner(t *testing.T) {
	original := GetMode()
	defer SetMode(original)
	SetMode(ModePlain)

	t.Run("success", func(t *testing.T) {
		if err := WithSpinner("rendering", func() error { return nil }); err != nil {
			t.Errorf("WithSpinner() error = %v", err)
		}
	})

	t.Run("error propagates", func(t *testing.T) {
		wantErr := errors.New("oiiotool failed")
		err := WithSpinner("rendering", func() error { return wantErr })
		if !errors.Is(err, wantErr) {
			t.Errorf("WithSpinner() error = %v, want %v", err, wantErr)
		}
	})
}

func TestProgressSpinner(t *testing.T) {
	original := GetMode()
	defer SetMode(original)
	SetMode(ModePlain)

	spin := NewProgressSpinner("rendering comparisons", 4)
	spin.Increment()
	spin.Increment()

	spin.mu.Lock()
	got := spin.message
	spin.mu.Unlock()
	if got != "rendering comparisons [2/4]" {
		t.Errorf("progress message = %q, want %q", got, "rendering comparisons [2/4]")
	}

	spin.SetProgress(4)
	spin.mu.Lock()
	got = spin.message
	spin.mu.Unlock()
	if got != "rendering comparisons [4/4]" {
		t.Errorf("progress message = %q, want %q", got, "rendering comparisons [4/4]")
	}
}
