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
// Created: August 28, 2026

package bucketlist

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/albeebe/bucketlist/internal/gcs"
)

// indexHTML is the landing page served at the root path.
const indexHTML = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>GCS Bucket Lister</title>
  <style>
    body { font-family: -apple-system, Helvetica, Arial, sans-serif; margin: 4rem auto; max-width: 40rem; color: #202124; }
    code { background: #f1f3f4; padding: 0.15rem 0.35rem; border-radius: 4px; }
  </style>
</head>
<body>
  <h1>GCS Bucket Lister</h1>
  <p>This service lists the Cloud Storage buckets of the active project.</p>
  <p>Fetch <code>GET /api/buckets</code> to retrieve the bucket list as JSON.</p>
</body>
</html>`

// bucketListResponse is the JSON body returned by the bucket-list endpoint.
type bucketListResponse struct {
	Message string              `json:"message"`
	Count   int                 `json:"count"`
	Buckets []gcs.BucketSummary `json:"buckets"`
}

// errorResponse is the JSON body returned for any failed request.
type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// RegisterRoutes wires the service's HTTP surface onto the router.
func (s *Service) RegisterRoutes() {
	s.AddEndpoint("GET", "/", handleIndex)
	s.AddEndpoint("GET", "/api/buckets", handleListBuckets)
}

// handleIndex serves the static landing page.
func handleIndex(s *Service, r *http.Request) *HTTPResponse {
	return HTML(http.StatusOK, indexHTML)
}

// handleListBuckets resolves credentials and the active project, lists the
// project's buckets, and returns them as JSON. Every request resolves from
// scratch; nothing is cached between requests.
func handleListBuckets(s *Service, r *http.Request) *HTTPResponse {

	// Resolve an access token through the credential fallback chain
	token, err := s.Credentials.ResolveAccessToken(r.Context())
	if err != nil {
		return s.bucketError(err)
	}

	// Resolve the active project through its own fallback chain
	project, err := s.Credentials.ResolveProjectID(r.Context())
	if err != nil {
		return s.bucketError(err)
	}

	// List the project's buckets
	buckets, err := s.Storage.ListBuckets(r.Context(), token, project)
	if err != nil {
		return s.bucketError(err)
	}

	return JSON(http.StatusOK, bucketListResponse{
		Message: fmt.Sprintf("Successfully retrieved %d bucket(s) from project '%s'", len(buckets), project),
		Count:   len(buckets),
		Buckets: buckets,
	})
}

// bucketError logs a failed bucket-list request and converts the error into
// the 500 response returned to the client.
func (s *Service) bucketError(err error) *HTTPResponse {
	s.Log.Error("failed to retrieve GCS buckets", slog.Any("error", err))
	return JSON(http.StatusInternalServerError, errorResponse{
		Error:   "Failed to retrieve GCS buckets",
		Details: err.Error(),
	})
}

// notFoundHandler responds to requests for paths the router does not serve.
func notFoundHandler(w http.ResponseWriter, r *http.Request) {
	sendResponse(w, JSON(http.StatusNotFound, errorResponse{Error: "not found"}))
}

// methodNotAllowedHandler responds to requests that hit a served path with an
// unsupported method.
func methodNotAllowedHandler(w http.ResponseWriter, r *http.Request) {
	sendResponse(w, JSON(http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"}))
}
