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
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testKeyJSON builds a syntactically valid service account key for the given
// identity. The private key is freshly generated, so assertions signed with
// it are structurally real.
func testKeyJSON(t *testing.T, email, project string) string {
	t.Helper()

	_, pemKey := generateTestKey(t)
	raw, err := json.Marshal(ServiceAccountKey{
		ClientEmail: email,
		PrivateKey:  pemKey,
		ProjectID:   project,
	})
	require.NoError(t, err)
	return string(raw)
}

// writeKeyFile writes a service account key to a temp file and returns its
// path.
func writeKeyFile(t *testing.T, email, project string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "key.json")
	require.NoError(t, os.WriteFile(path, []byte(testKeyJSON(t, email, project)), 0o600))
	return path
}

// newTokenEndpoint stands in for the OAuth2 token endpoint. It answers every
// exchange with a token derived from the assertion's issuer, so tests can
// tell which service account key won the fallback race. Each exchange bumps
// the counter.
func newTokenEndpoint(t *testing.T, calls *int32) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(calls, 1)
		require.NoError(t, r.ParseForm())
		require.Equal(t, jwtBearerGrantType, r.Form.Get("grant_type"))

		parts := strings.Split(r.Form.Get("assertion"), ".")
		require.Len(t, parts, 3)
		payload, err := base64.RawURLEncoding.DecodeString(parts[1])
		require.NoError(t, err)
		var claims struct {
			Iss string `json:"iss"`
		}
		require.NoError(t, json.Unmarshal(payload, &claims))

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"access_token": "token-for-%s"}`, claims.Iss)
	}))
	t.Cleanup(server.Close)
	return server
}

// writeFakeGcloud drops a shell script that mimics the two gcloud invocations
// the resolver makes, and returns its path.
func writeFakeGcloud(t *testing.T, token, project string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "gcloud")
	script := fmt.Sprintf("#!/bin/sh\nif [ \"$1\" = \"auth\" ]; then\n  echo \"%s\"\nelse\n  echo \"%s\"\nfi\n", token, project)
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}

func TestResolveAccessTokenPriorityOrder(t *testing.T) {
	var calls int32
	tokenServer := newTokenEndpoint(t, &calls)

	inlineJSON := testKeyJSON(t, "inline@example.iam.gserviceaccount.com", "")
	fileKey := writeKeyFile(t, "file@example.iam.gserviceaccount.com", "")
	defaultKey := writeKeyFile(t, "default@example.iam.gserviceaccount.com", "")
	gcloud := writeFakeGcloud(t, "cli-token", "cli-project")

	tests := []struct {
		name   string
		config Config
		token  string
	}{
		{
			name: "inline JSON wins over everything",
			config: Config{
				CredentialsJSON:        inlineJSON,
				CredentialsFile:        fileKey,
				AccessToken:            "env-token",
				DefaultCredentialsPath: defaultKey,
				GcloudPath:             gcloud,
			},
			token: "token-for-inline@example.iam.gserviceaccount.com",
		},
		{
			name: "credentials file wins when inline is absent",
			config: Config{
				CredentialsFile:        fileKey,
				AccessToken:            "env-token",
				DefaultCredentialsPath: defaultKey,
				GcloudPath:             gcloud,
			},
			token: "token-for-file@example.iam.gserviceaccount.com",
		},
		{
			name: "environment token wins over local fallbacks",
			config: Config{
				AccessToken:            "env-token",
				DefaultCredentialsPath: defaultKey,
				GcloudPath:             gcloud,
			},
			token: "env-token",
		},
		{
			name: "default file wins over gcloud",
			config: Config{
				DefaultCredentialsPath: defaultKey,
				GcloudPath:             gcloud,
			},
			token: "token-for-default@example.iam.gserviceaccount.com",
		},
		{
			name: "gcloud is the last resort",
			config: Config{
				DefaultCredentialsPath: filepath.Join(t.TempDir(), "missing.json"),
				GcloudPath:             gcloud,
			},
			token: "cli-token",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.config.TokenURL = tokenServer.URL
			client, err := New(tt.config)
			require.NoError(t, err)

			token, err := client.ResolveAccessToken(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.token, token)
		})
	}
}

func TestResolveAccessTokenFallsThroughBrokenSources(t *testing.T) {
	var calls int32
	tokenServer := newTokenEndpoint(t, &calls)

	// Inline JSON is present but unparseable, and the credentials file
	// doesn't exist. Both must be skipped, not fatal.
	client, err := New(Config{
		CredentialsJSON: "{not json",
		CredentialsFile: filepath.Join(t.TempDir(), "missing.json"),
		AccessToken:     "env-token",
		TokenURL:        tokenServer.URL,
		GcloudPath:      "/nonexistent/gcloud",
	})
	require.NoError(t, err)

	token, err := client.ResolveAccessToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "env-token", token)
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
}

func TestResolveAccessTokenExhaustion(t *testing.T) {
	var calls int32
	tokenServer := newTokenEndpoint(t, &calls)

	client, err := New(Config{
		TokenURL:               tokenServer.URL,
		DefaultCredentialsPath: filepath.Join(t.TempDir(), "missing.json"),
		GcloudPath:             "/nonexistent/gcloud",
	})
	require.NoError(t, err)

	_, err = client.ResolveAccessToken(context.Background())
	require.ErrorIs(t, err, ErrNoCredentials)

	// Exhaustion must not leave stray calls against the token endpoint
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
}

func TestResolveAccessTokenGcloudFailure(t *testing.T) {
	// A gcloud that exits nonzero surfaces as a SubprocessError from the
	// source, which the chain swallows before reporting exhaustion
	failing := filepath.Join(t.TempDir(), "gcloud")
	require.NoError(t, os.WriteFile(failing, []byte("#!/bin/sh\necho 'not logged in' >&2\nexit 1\n"), 0o755))

	client, err := New(Config{GcloudPath: failing})
	require.NoError(t, err)

	_, err = client.tokenFromGcloud(context.Background())
	var subErr *SubprocessError
	require.ErrorAs(t, err, &subErr)
	assert.Contains(t, subErr.Stderr, "not logged in")

	_, err = client.ResolveAccessToken(context.Background())
	require.ErrorIs(t, err, ErrNoCredentials)
}
