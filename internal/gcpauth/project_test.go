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

package gcpauth

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveProjectIDPriorityOrder(t *testing.T) {
	inlineJSON := testKeyJSON(t, "inline@example.iam.gserviceaccount.com", "inline-project")
	fileKey := writeKeyFile(t, "file@example.iam.gserviceaccount.com", "file-project")
	defaultKey := writeKeyFile(t, "default@example.iam.gserviceaccount.com", "default-project")
	gcloud := writeFakeGcloud(t, "cli-token", "cli-project")

	tests := []struct {
		name    string
		config  Config
		project string
	}{
		{
			name: "explicit project wins over everything",
			config: Config{
				ProjectID:              "explicit-project",
				CredentialsJSON:        inlineJSON,
				CredentialsFile:        fileKey,
				DefaultCredentialsPath: defaultKey,
				GcloudPath:             gcloud,
			},
			project: "explicit-project",
		},
		{
			name: "inline JSON wins when no explicit project is set",
			config: Config{
				CredentialsJSON:        inlineJSON,
				CredentialsFile:        fileKey,
				DefaultCredentialsPath: defaultKey,
				GcloudPath:             gcloud,
			},
			project: "inline-project",
		},
		{
			name: "credentials file wins when inline is absent",
			config: Config{
				CredentialsFile:        fileKey,
				DefaultCredentialsPath: defaultKey,
				GcloudPath:             gcloud,
			},
			project: "file-project",
		},
		{
			name: "default file wins over gcloud",
			config: Config{
				DefaultCredentialsPath: defaultKey,
				GcloudPath:             gcloud,
			},
			project: "default-project",
		},
		{
			name: "gcloud is the last resort",
			config: Config{
				GcloudPath: gcloud,
			},
			project: "cli-project",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := New(tt.config)
			require.NoError(t, err)

			project, err := client.ResolveProjectID(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.project, project)
		})
	}
}

func TestResolveProjectIDSkipsEmptySources(t *testing.T) {
	// The inline key carries no project_id, so resolution must skip it and
	// keep walking the chain
	inlineJSON := testKeyJSON(t, "inline@example.iam.gserviceaccount.com", "")
	fileKey := writeKeyFile(t, "file@example.iam.gserviceaccount.com", "file-project")

	client, err := New(Config{
		CredentialsJSON: inlineJSON,
		CredentialsFile: fileKey,
		GcloudPath:      "/nonexistent/gcloud",
	})
	require.NoError(t, err)

	project, err := client.ResolveProjectID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "file-project", project)
}

func TestResolveProjectIDExhaustion(t *testing.T) {
	client, err := New(Config{
		DefaultCredentialsPath: filepath.Join(t.TempDir(), "missing.json"),
		GcloudPath:             "/nonexistent/gcloud",
	})
	require.NoError(t, err)

	_, err = client.ResolveProjectID(context.Background())
	require.ErrorIs(t, err, ErrNoProject)
}
