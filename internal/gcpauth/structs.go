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

package gcpauth

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// Client resolves Google Cloud credentials and project configuration for the
// service. All configuration is supplied explicitly through Config so that
// resolution never depends on hidden process state.
type Client struct {
	config     Config       // Resolver configuration (credential sources, endpoints, timeouts)
	httpClient *http.Client // HTTP client used for the token exchange
	log        *slog.Logger // Logger for per-source fallback diagnostics
}

// Config holds every external input the resolver consults. The credential
// source fields are all optional; the resolver tries them in a fixed priority
// order and uses the first one that yields a usable token.
type Config struct {
	CredentialsJSON        string        // Service account key JSON supplied inline
	CredentialsFile        string        // Path to a service account key JSON file
	AccessToken            string        // A directly usable bearer token (no exchange needed)
	ProjectID              string        // Explicit project ID override
	DefaultCredentialsPath string        // Fallback path to a service account key file on local disk
	GcloudPath             string        // Path to the gcloud CLI binary
	TokenURL               string        // OAuth2 token endpoint (defaults to Google's)
	Timeout                time.Duration // Per-call deadline for network and subprocess calls
	Log                    *slog.Logger  // Logger for fallback diagnostics
	HTTPClient             *http.Client  // HTTP client for the token exchange
}

// ServiceAccountKey is the subset of a Google service account key file that
// the resolver needs. It is parsed fresh for each resolution attempt and
// discarded after the token exchange.
type ServiceAccountKey struct {
	ClientEmail string `json:"client_email"` // Identity asserted in the signed JWT
	PrivateKey  string `json:"private_key"`  // RSA private key in PEM encapsulation
	ProjectID   string `json:"project_id"`   // Project the key belongs to (optional)
}

// validate checks the ServiceAccountKey struct for required fields and
// returns an error if any required fields are missing
func (k *ServiceAccountKey) validate() error {
	if k.ClientEmail == "" {
		return fmt.Errorf("client_email is empty")
	}
	if k.PrivateKey == "" {
		return fmt.Errorf("private_key is empty")
	}
	return nil
}
