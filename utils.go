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

package bucketlist

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"cloud.google.com/go/compute/metadata"
	"github.com/albeebe/bucketlist/internal/router"
)

// Text sets the HTTP response with the provided status code and plain text body.
func Text(statusCode int, text string) *HTTPResponse {
	r := &HTTPResponse{
		Headers: http.Header{},
	}
	r.StatusCode = statusCode
	r.Headers.Set("Content-Type", "text/plain")
	r.Body = io.NopCloser(strings.NewReader(text))
	return r
}

// HTML sets the HTTP response with the provided status code and HTML body.
func HTML(statusCode int, html string) *HTTPResponse {
	r := &HTTPResponse{
		Headers: http.Header{},
	}
	r.StatusCode = statusCode
	r.Headers.Set("Content-Type", "text/html; charset=utf-8")
	r.Body = io.NopCloser(strings.NewReader(html))
	return r
}

// JSON sets the HTTP response with the provided status code and a JSON-encoded
// body generated from the provided object. If an error occurs during the JSON
// encoding process (e.g., unsupported types or invalid data), the function
// gracefully handles it by setting the response body to `null`. The response
// is streamed using a pipe to avoid loading the entire JSON payload into memory
// at once, making it suitable for handling large objects.
func JSON(statusCode int, obj interface{}) *HTTPResponse {
	r := &HTTPResponse{
		Headers: http.Header{},
	}
	r.StatusCode = statusCode
	r.Headers.Set("Content-Type", "application/json")
	pr, pw := io.Pipe()
	go func() {
		defer pw.Close()
		err := json.NewEncoder(pw).Encode(obj)
		if err != nil {
			pw.Write([]byte(`null`))
		}
	}()
	r.Body = pr
	return r
}

// Returns true if we're currently running on GCP
func runningInProduction() bool {
	return metadata.OnGCE()
}

// sendResponse is a helper that writes an HTTPResponse directly to an
// http.ResponseWriter, outside the endpoint-handler flow.
func sendResponse(w http.ResponseWriter, resp *HTTPResponse) {
	router.SendResponse(w, resp.StatusCode, resp.Headers, resp.Body)
}
