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

package gcs

import (
	"log/slog"
	"net/http"
	"time"
)

// Client issues authenticated calls against the Cloud Storage JSON API.
type Client struct {
	config     Config
	httpClient *http.Client
	log        *slog.Logger
}

// Config holds the storage client configuration. BaseURL is overridable so
// tests can point the client at a mock endpoint.
type Config struct {
	BaseURL    string        // Storage API base URL (defaults to Google's)
	Timeout    time.Duration // Per-call deadline for list requests
	Log        *slog.Logger  // Logger for request diagnostics
	HTTPClient *http.Client  // HTTP client for API calls
}

// BucketSummary is the projection of a storage bucket returned to API
// consumers.
type BucketSummary struct {
	Name         string `json:"name"`
	Location     string `json:"location"`
	Created      string `json:"created"`
	StorageClass string `json:"storageClass"`
	ID           string `json:"id"`
}
