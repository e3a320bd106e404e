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
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// serviceAccountJSON builds a service account key with a freshly generated
// RSA private key, so the full sign-and-exchange path runs against real
// crypto.
func serviceAccountJSON(t *testing.T, email string) string {
	t.Helper()

	rsaKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	der, err := x509.MarshalPKCS8PrivateKey(rsaKey)
	require.NoError(t, err)
	pemKey := pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der})

	raw, err := json.Marshal(map[string]string{
		"type":         "service_account",
		"client_email": email,
		"private_key":  string(pemKey),
	})
	require.NoError(t, err)
	return string(raw)
}

// newTestService builds a fully wired service pointed at mocked Google
// endpoints. The gcloud path and default key path are dead ends so the
// fallback chain stays deterministic.
func newTestService(t *testing.T, config Config) *Service {
	t.Helper()

	// The OAuth2 token endpoint accepts any well-formed assertion
	tokenServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		require.Equal(t, "urn:ietf:params:oauth:grant-type:jwt-bearer", r.Form.Get("grant_type"))
		require.NotEmpty(t, r.Form.Get("assertion"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token": "integration-token"}`))
	}))
	t.Cleanup(tokenServer.Close)

	// The storage API verifies the exchanged token before answering
	storageServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/storage/v1/b", r.URL.Path)
		require.Equal(t, "Bearer integration-token", r.Header.Get("Authorization"))
		require.Equal(t, "override-project", r.URL.Query().Get("project"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"items": [
			{"id": "alpha", "name": "alpha", "location": "US", "storageClass": "STANDARD", "timeCreated": "2024-01-01T00:00:00.000Z"},
			{"id": "beta", "name": "beta", "location": "EU", "storageClass": "NEARLINE", "timeCreated": "2024-02-01T00:00:00.000Z"}
		]}`))
	}))
	t.Cleanup(storageServer.Close)

	config.Host = ":0"
	config.TokenURL = tokenServer.URL
	config.StorageBaseURL = storageServer.URL
	config.RequestTimeout = 5 * time.Second
	config.GcloudPath = "/nonexistent/gcloud"
	if config.DefaultCredentialsPath == "" {
		config.DefaultCredentialsPath = filepath.Join(t.TempDir(), "missing.json")
	}

	s, err := New("bucketlist-test", config)
	require.NoError(t, err)
	t.Cleanup(s.Shutdown)
	s.RegisterRoutes()
	return s
}

func TestListBucketsEndpoint(t *testing.T) {
	s := newTestService(t, Config{
		CredentialsJSON: serviceAccountJSON(t, "robot@example.iam.gserviceaccount.com"),
		ProjectID:       "override-project",
	})

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/buckets", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Message string `json:"message"`
		Count   int    `json:"count"`
		Buckets []struct {
			Name string `json:"name"`
		} `json:"buckets"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 2, body.Count)
	require.Len(t, body.Buckets, 2)
	assert.Equal(t, "alpha", body.Buckets[0].Name)
	assert.Equal(t, "beta", body.Buckets[1].Name)
	assert.Equal(t, "Successfully retrieved 2 bucket(s) from project 'override-project'", body.Message)
}

func TestListBucketsEndpointWithoutCredentials(t *testing.T) {
	s := newTestService(t, Config{ProjectID: "override-project"})

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/buckets", nil))

	require.Equal(t, http.StatusInternalServerError, w.Code)
	var body struct {
		Error   string `json:"error"`
		Details string `json:"details"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Failed to retrieve GCS buckets", body.Error)
	assert.NotEmpty(t, body.Details)
}

func TestIndexEndpoint(t *testing.T) {
	s := newTestService(t, Config{ProjectID: "override-project"})

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "GCS Bucket Lister")
}

func TestUnknownPathReturnsNotFound(t *testing.T) {
	s := newTestService(t, Config{ProjectID: "override-project"})

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/unknown", nil))

	require.Equal(t, http.StatusNotFound, w.Code)
	var body struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "not found", body.Error)
}

func TestWrongMethodReturnsMethodNotAllowed(t *testing.T) {
	s := newTestService(t, Config{ProjectID: "override-project"})

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/buckets", nil))

	require.Equal(t, http.StatusMethodNotAllowed, w.Code)
	var body struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "method not allowed", body.Error)
}

func TestParseClaims(t *testing.T) {
	// Payload {"iss":"robot@example.com","exp":1700003600}
	token := "eyJhbGciOiJSUzI1NiIsInR5cCI6IkpXVCJ9." +
		"eyJpc3MiOiJyb2JvdEBleGFtcGxlLmNvbSIsImV4cCI6MTcwMDAwMzYwMH0." +
		"c2lnbmF0dXJl"

	var claims struct {
		Iss string `json:"iss"`
		Exp int64  `json:"exp"`
	}
	require.NoError(t, ParseClaims(token, &claims))
	assert.Equal(t, "robot@example.com", claims.Iss)
	assert.Equal(t, int64(1700003600), claims.Exp)

	require.Error(t, ParseClaims("not-a-jwt", &claims))
}
