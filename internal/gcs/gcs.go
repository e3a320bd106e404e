// Copyright (c) 2026 Alan Beebe [www.alanbeebe.com]
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.
//
// Created: August 27, 2026

// Package gcs lists Cloud Storage buckets through the JSON API using a
// bearer token resolved elsewhere. It deliberately speaks plain REST rather
// than the storage SDK so the caller controls exactly which credential is
// presented.
package gcs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
)

// DefaultBaseURL is the Cloud Storage JSON API endpoint.
const DefaultBaseURL = "https://storage.googleapis.com"

var (
	// ErrAuthenticationFailed is returned when the storage API rejects the
	// bearer token (HTTP 401).
	ErrAuthenticationFailed = errors.New("storage API rejected the access token")

	// ErrPermissionDenied is returned when the token is valid but lacks
	// permission to list the project's buckets (HTTP 403).
	ErrPermissionDenied = errors.New("access token lacks permission to list buckets")
)

// ListError is returned for any other non-success response from the storage
// API, carrying the status code and body.
type ListError struct {
	StatusCode int
	Body       string
}

func (e *ListError) Error() string {
	return fmt.Sprintf("bucket listing failed with status %d: %s", e.StatusCode, e.Body)
}

// NewClient initializes a storage client from the provided configuration,
// applying defaults for any optional fields that were left unset.
func NewClient(config Config) (*Client, error) {

	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}

	c := &Client{
		config:     config,
		httpClient: config.HTTPClient,
		log:        config.Log,
	}
	if c.httpClient == nil {
		c.httpClient = http.DefaultClient
	}
	if c.log == nil {
		c.log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return c, nil
}

// ListBuckets retrieves the buckets of the given project with a single
// authenticated GET. A 401 maps to ErrAuthenticationFailed, a 403 to
// ErrPermissionDenied, and any other non-success status to a ListError. An
// empty or absent items array yields an empty slice.
func (c *Client) ListBuckets(ctx context.Context, token, projectID string) ([]BucketSummary, error) {

	// Apply the per-call deadline
	if c.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.Timeout)
		defer cancel()
	}

	// Build the bucket-list request scoped to the project
	endpoint := fmt.Sprintf("%s/storage/v1/b?project=%s", c.config.BaseURL, url.QueryEscape(projectID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create bucket-list request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	// Issue the request
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach storage API: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read storage API response: %w", err)
	}

	// Map the failure statuses
	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, ErrAuthenticationFailed
	case resp.StatusCode == http.StatusForbidden:
		return nil, ErrPermissionDenied
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, &ListError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	// Project each bucket object down to the summary fields
	var listing struct {
		Items []struct {
			Name         string `json:"name"`
			Location     string `json:"location"`
			TimeCreated  string `json:"timeCreated"`
			StorageClass string `json:"storageClass"`
			ID           string `json:"id"`
		} `json:"items"`
	}
	if err := json.Unmarshal(body, &listing); err != nil {
		return nil, fmt.Errorf("failed to unmarshal bucket listing: %w", err)
	}
	buckets := make([]BucketSummary, 0, len(listing.Items))
	for _, item := range listing.Items {
		buckets = append(buckets, BucketSummary{
			Name:         item.Name,
			Location:     item.Location,
			Created:      item.TimeCreated,
			StorageClass: item.StorageClass,
			ID:           item.ID,
		})
	}

	return buckets, nil
}
