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
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/albeebe/bucketlist/internal/gcpauth"
	"github.com/albeebe/bucketlist/internal/gcs"
	"github.com/albeebe/bucketlist/internal/router"
)

type EndpointHandler func(*Service, *http.Request) *HTTPResponse

type Service struct {
	Context     context.Context
	Credentials *gcpauth.Client
	Storage     *gcs.Client
	Log         *slog.Logger
	Name        string
	internal    *internal
}

type Config struct {
	AccessToken            string        // Bearer token supplied directly through the environment (used as-is)
	CredentialsFile        string        // Path to a service account key JSON file
	CredentialsJSON        string        // Service account key JSON supplied inline
	DefaultCredentialsPath string        // Fallback path to a service account key file on local disk
	GcloudPath             string        // Path to the gcloud CLI binary
	Host                   string        // The host address where the service listens for incoming requests (e.g., ":8080")
	ProjectID              string        // Explicit project ID override
	RequestTimeout         time.Duration // Per-call deadline for network and subprocess calls
	StorageBaseURL         string        // Cloud Storage API base URL (defaults to Google's)
	TokenURL               string        // OAuth2 token endpoint (defaults to Google's)
}

type HTTPResponse struct {
	StatusCode int           // The HTTP status code of the response (e.g., 200, 404)
	Headers    http.Header   // The headers of the HTTP response (e.g., Content-Type, Set-Cookie)
	Body       io.ReadCloser // The response body, allowing streaming of the content and efficient memory usage
}

type State struct {
	Starting    func()          // Called when the service is starting
	Running     func()          // Called when the service is running
	Terminating func(err error) // Called when the service is terminating, with an optional error if it was due to a failure
}

type internal struct {
	cancel context.CancelFunc
	config *Config
	router *router.Router
}

// validate checks the Config struct for required fields and
// returns an error if any required fields are missing
func (config *Config) validate() error {

	if config.Host == "" {
		return fmt.Errorf("Host is empty")
	}

	return nil
}
