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

// Package gcpauth resolves Google Cloud credentials and project configuration
// through an ordered chain of fallback sources: inline service account JSON,
// a key file named in the environment, a directly usable bearer token, a key
// file at a well-known local path, and finally the gcloud CLI. Service
// account keys are turned into access tokens by signing a JWT assertion and
// exchanging it at the OAuth2 token endpoint.
package gcpauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"
)

// New initializes a new credential resolver from the provided configuration,
// applying defaults for any optional fields that were left unset.
func New(config Config) (*Client, error) {

	// Apply defaults
	if config.TokenURL == "" {
		config.TokenURL = DefaultTokenURL
	}
	if config.GcloudPath == "" {
		config.GcloudPath = "gcloud"
	}
	if config.Timeout == 0 {
		config.Timeout = 10 * time.Second
	}

	// Configure the client
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

// credentialSource is one step of the fallback chain: a name for diagnostics
// and a function that either yields a bearer token or explains why it can't.
type credentialSource struct {
	name    string
	resolve func(ctx context.Context) (string, error)
}

// ResolveAccessToken tries each credential source in strict priority order
// and returns the first usable bearer token. A failure at one source is
// logged and swallowed; resolution only fails with ErrNoCredentials once
// every source has been exhausted.
func (c *Client) ResolveAccessToken(ctx context.Context) (string, error) {

	// The order of this list is a correctness requirement, not a preference
	sources := []credentialSource{
		{"inline service account JSON", c.tokenFromInlineJSON},
		{"service account file from environment", c.tokenFromCredentialsFile},
		{"environment access token", c.tokenFromEnvironmentToken},
		{"default service account file", c.tokenFromDefaultFile},
		{"gcloud CLI", c.tokenFromGcloud},
	}

	for _, source := range sources {
		token, err := source.resolve(ctx)
		if err != nil {
			c.logSourceFailure("credential", source.name, err)
			continue
		}
		c.log.Debug("resolved access token", slog.String("source", source.name))
		return token, nil
	}

	return "", ErrNoCredentials
}

// tokenFromInlineJSON exchanges a service account key supplied inline in the
// configuration for an access token.
func (c *Client) tokenFromInlineJSON(ctx context.Context) (string, error) {
	if c.config.CredentialsJSON == "" {
		return "", errNotConfigured
	}
	return c.tokenFromServiceAccount(ctx, []byte(c.config.CredentialsJSON))
}

// tokenFromCredentialsFile reads the service account key file named in the
// configuration and exchanges it for an access token.
func (c *Client) tokenFromCredentialsFile(ctx context.Context) (string, error) {
	if c.config.CredentialsFile == "" {
		return "", errNotConfigured
	}
	raw, err := os.ReadFile(c.config.CredentialsFile)
	if err != nil {
		return "", fmt.Errorf("failed to read credentials file: %w", err)
	}
	return c.tokenFromServiceAccount(ctx, raw)
}

// tokenFromEnvironmentToken returns a bearer token that was handed to the
// process directly. No exchange is needed; the token is used as-is.
func (c *Client) tokenFromEnvironmentToken(ctx context.Context) (string, error) {
	if c.config.AccessToken == "" {
		return "", errNotConfigured
	}
	return c.config.AccessToken, nil
}

// tokenFromDefaultFile reads the service account key at the default local
// path and exchanges it for an access token.
func (c *Client) tokenFromDefaultFile(ctx context.Context) (string, error) {
	if c.config.DefaultCredentialsPath == "" {
		return "", errNotConfigured
	}
	raw, err := os.ReadFile(c.config.DefaultCredentialsPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", errNotConfigured
		}
		return "", fmt.Errorf("failed to read default credentials file: %w", err)
	}
	return c.tokenFromServiceAccount(ctx, raw)
}

// tokenFromGcloud shells out to the gcloud CLI and treats its trimmed
// standard output as the bearer token.
func (c *Client) tokenFromGcloud(ctx context.Context) (string, error) {
	token, err := c.runGcloud(ctx, "auth", "print-access-token")
	if err != nil {
		return "", err
	}
	if token == "" {
		return "", errors.New("gcloud returned an empty access token")
	}
	return token, nil
}

// tokenFromServiceAccount parses a service account key, signs a JWT
// assertion, and exchanges it for an access token.
func (c *Client) tokenFromServiceAccount(ctx context.Context, raw []byte) (string, error) {

	// Parse and validate the key
	var key ServiceAccountKey
	if err := json.Unmarshal(raw, &key); err != nil {
		return "", fmt.Errorf("failed to parse service account JSON: %w", err)
	}
	if err := key.validate(); err != nil {
		return "", fmt.Errorf("service account key is invalid: %w", err)
	}

	// Sign the assertion and exchange it
	assertion, err := buildAssertion(&key, c.config.TokenURL, time.Now())
	if err != nil {
		return "", fmt.Errorf("failed to build assertion: %w", err)
	}
	token, err := c.exchange(ctx, assertion)
	if err != nil {
		return "", fmt.Errorf("failed to exchange assertion: %w", err)
	}

	return token, nil
}

// logSourceFailure records why a fallback source was skipped. Absent sources
// log at debug; sources that were configured but failed log at warn, since
// those usually point at a misconfiguration even though the chain continues.
func (c *Client) logSourceFailure(kind, name string, err error) {
	if errors.Is(err, errNotConfigured) {
		c.log.Debug(kind+" source not configured", slog.String("source", name))
		return
	}
	c.log.Warn(kind+" source failed, falling through", slog.String("source", name), slog.Any("error", err))
}
