// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package fetch

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ExtractZip extracts the archive's content into the directory the
// archive is stored in, optionally removing the archive afterwards.
//
// Entry paths are validated against the extraction root so a crafted
// archive cannot write outside it.
func ExtractZip(zipPath string, removeZip bool) (string, error) {
	extractRoot := filepath.Dir(zipPath)

	reader, err := zip.OpenReader(zipPath)
	if err != nil {
		return "", fmt.Errorf("failed to open archive %s: %w", zipPath, err)
	}

	for _, entry := range reader.File {
		if err := extractZipEntry(entry, extractRoot); err != nil {
			if closeErr := reader.Close(); closeErr != nil {
				return "", fmt.Errorf("extracting %s: %w (also failed to close archive: %v)", entry.Name, err, closeErr)
			}
			return "", fmt.Errorf("extracting %s: %w", entry.Name, err)
		}
	}
	if err := reader.Close(); err != nil {
		return "", fmt.Errorf("failed to close archive %s: %w", zipPath, err)
	}

	if removeZip {
		if err := os.Remove(zipPath); err != nil {
			return "", fmt.Errorf("failed to remove archive %s: %w", zipPath, err)
		}
	}
	return extractRoot, nil
}

func extractZipEntry(entry *zip.File, extractRoot string) error {
	targetPath := filepath.Join(extractRoot, entry.Name)
	if !strings.HasPrefix(filepath.Clean(targetPath), filepath.Clean(extractRoot)+string(os.PathSeparator)) {
		return fmt.Errorf("invalid entry path: %q", entry.Name)
	}

	if entry.FileInfo().IsDir() {
		return os.MkdirAll(targetPath, 0o755)
	}

	if err := os.MkdirAll(filepath.Dir(targetPath), 0o755); err != nil {
		return err
	}

	src, err := entry.Open()
	if err != nil {
		return err
	}
	defer func() {
		_ = src.Close()
	}()

	dst, err := os.OpenFile(targetPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, entry.Mode())
	if err != nil {
		return err
	}
	if _, err := io.Copy(dst, src); err != nil {
		if closeErr := dst.Close(); closeErr != nil {
			return fmt.Errorf("%w (also failed to close %s: %v)", err, targetPath, closeErr)
		}
		return err
	}
	return dst.Close()
}
