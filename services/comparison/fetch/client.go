// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package fetch downloads and unpacks the remote resources (OCIO configs,
// LUT packages, source archives) that renderer builders depend on.
package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultTimeout bounds a single download. Renderer archives can reach a
// few hundred megabytes on slow mirrors.
const DefaultTimeout = 5 * time.Minute

// Client performs HTTP downloads with atomic on-disk placement.
//
// Files are first written to a temporary sibling of the destination and
// renamed into place on success, so a partially downloaded file never
// masquerades as a built resource.
type Client struct {
	http *http.Client
	log  *slog.Logger
}

// NewClient creates a Client with the given timeout.
//
// A zero timeout uses DefaultTimeout. A nil logger defaults to
// slog.Default().
func NewClient(timeout time.Duration, log *slog.Logger) *Client {
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	if log == nil {
		log = slog.Default()
	}
	return &Client{
		http: &http.Client{Timeout: timeout},
		log:  log,
	}
}

// Download fetches rawURL with a GET request and writes it to dstPath.
func (c *Client) Download(ctx context.Context, rawURL, dstPath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("building request for %s: %w", rawURL, err)
	}
	return c.do(req, rawURL, dstPath)
}

// DownloadForm fetches rawURL with a POST request carrying a form-encoded
// body and writes the response to dstPath.
//
// Some vendors (e.g. FilmLight) only serve their colorspace packages
// behind a form submission, so a plain GET is not enough.
func (c *Client) DownloadForm(ctx context.Context, rawURL, dstPath string, params url.Values, headers map[string]string) error {
	body := strings.NewReader(params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, body)
	if err != nil {
		return fmt.Errorf("building request for %s: %w", rawURL, err)
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	if req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	return c.do(req, rawURL, dstPath)
}

func (c *Client) do(req *http.Request, rawURL, dstPath string) error {
	c.log.Debug("downloading", "url", rawURL, "dst", dstPath)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to download %s: %w", rawURL, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.log.Error("failed to close response body", "error", err)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download of %s failed with status %d", rawURL, resp.StatusCode)
	}

	if err := os.MkdirAll(filepath.Dir(dstPath), 0o755); err != nil {
		return fmt.Errorf("failed to create destination directory: %w", err)
	}

	tmpPath := dstPath + ".partial-" + uuid.NewString()
	tmpFile, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", tmpPath, err)
	}

	if _, err := io.Copy(tmpFile, resp.Body); err != nil {
		if closeErr := tmpFile.Close(); closeErr != nil {
			c.log.Error("failed to close partial download", "path", tmpPath, "error", closeErr)
		}
		if removeErr := os.Remove(tmpPath); removeErr != nil {
			c.log.Error("failed to remove partial download", "path", tmpPath, "error", removeErr)
		}
		return fmt.Errorf("failed to write %s: %w", dstPath, err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", tmpPath, err)
	}

	if err := os.Rename(tmpPath, dstPath); err != nil {
		return fmt.Errorf("failed to finalize %s: %w", dstPath, err)
	}
	return nil
}
