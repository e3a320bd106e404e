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
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
)

// ResolveProjectID determines the active project through its own fallback
// chain, independent of credential resolution: the explicit override, the
// project_id field of each service account key source, and finally the
// gcloud CLI's configured project. Sources that yield an empty string are
// skipped. Exhaustion fails with ErrNoProject.
func (c *Client) ResolveProjectID(ctx context.Context) (string, error) {

	sources := []credentialSource{
		{"explicit project ID", c.projectFromConfig},
		{"inline service account JSON", c.projectFromInlineJSON},
		{"service account file from environment", c.projectFromCredentialsFile},
		{"default service account file", c.projectFromDefaultFile},
		{"gcloud CLI", c.projectFromGcloud},
	}

	for _, source := range sources {
		project, err := source.resolve(ctx)
		if err != nil {
			c.logSourceFailure("project", source.name, err)
			continue
		}
		if project == "" {
			c.log.Debug("project source yielded an empty project ID", slog.String("source", source.name))
			continue
		}
		c.log.Debug("resolved project ID", slog.String("source", source.name))
		return project, nil
	}

	return "", ErrNoProject
}

// projectFromConfig returns the explicitly configured project ID.
func (c *Client) projectFromConfig(ctx context.Context) (string, error) {
	if c.config.ProjectID == "" {
		return "", errNotConfigured
	}
	return c.config.ProjectID, nil
}

// projectFromInlineJSON extracts the project_id from the inline service
// account key.
func (c *Client) projectFromInlineJSON(ctx context.Context) (string, error) {
	if c.config.CredentialsJSON == "" {
		return "", errNotConfigured
	}
	return projectFromKeyJSON([]byte(c.config.CredentialsJSON))
}

// projectFromCredentialsFile extracts the project_id from the service
// account key file named in the configuration.
func (c *Client) projectFromCredentialsFile(ctx context.Context) (string, error) {
	if c.config.CredentialsFile == "" {
		return "", errNotConfigured
	}
	raw, err := os.ReadFile(c.config.CredentialsFile)
	if err != nil {
		return "", fmt.Errorf("failed to read credentials file: %w", err)
	}
	return projectFromKeyJSON(raw)
}

// projectFromDefaultFile extracts the project_id from the service account
// key at the default local path.
func (c *Client) projectFromDefaultFile(ctx context.Context) (string, error) {
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
	return projectFromKeyJSON(raw)
}

// projectFromGcloud asks the gcloud CLI for its currently configured project.
func (c *Client) projectFromGcloud(ctx context.Context) (string, error) {
	return c.runGcloud(ctx, "config", "get-value", "project")
}

// projectFromKeyJSON parses a service account key and returns its project_id,
// which may be empty.
func projectFromKeyJSON(raw []byte) (string, error) {
	var key ServiceAccountKey
	if err := json.Unmarshal(raw, &key); err != nil {
		return "", fmt.Errorf("failed to parse service account JSON: %w", err)
	}
	return key.ProjectID, nil
}
