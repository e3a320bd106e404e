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

package gcs

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newStorageServer stands in for the Cloud Storage JSON API, answering every
// bucket-list request with the given status and body after verifying the
// request shape.
func newStorageServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/storage/v1/b", r.URL.Path)
		require.Equal(t, "test-project", r.URL.Query().Get("project"))
		require.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestListBuckets(t *testing.T) {
	server := newStorageServer(t, http.StatusOK, `{
		"kind": "storage#buckets",
		"items": [
			{
				"kind": "storage#bucket",
				"id": "my-data-bucket",
				"name": "my-data-bucket",
				"location": "US-CENTRAL1",
				"storageClass": "STANDARD",
				"timeCreated": "2024-01-15T09:30:00.000Z",
				"projectNumber": "123456789"
			},
			{
				"kind": "storage#bucket",
				"id": "my-archive-bucket",
				"name": "my-archive-bucket",
				"location": "EU",
				"storageClass": "COLDLINE",
				"timeCreated": "2023-06-01T12:00:00.000Z",
				"projectNumber": "123456789"
			}
		]
	}`)

	client, err := NewClient(Config{BaseURL: server.URL})
	require.NoError(t, err)

	buckets, err := client.ListBuckets(context.Background(), "test-token", "test-project")
	require.NoError(t, err)
	require.Len(t, buckets, 2)
	assert.Equal(t, BucketSummary{
		Name:         "my-data-bucket",
		Location:     "US-CENTRAL1",
		Created:      "2024-01-15T09:30:00.000Z",
		StorageClass: "STANDARD",
		ID:           "my-data-bucket",
	}, buckets[0])
	assert.Equal(t, "my-archive-bucket", buckets[1].Name)
	assert.Equal(t, "COLDLINE", buckets[1].StorageClass)
}

func TestListBucketsEmptyProject(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty items array", `{"kind": "storage#buckets", "items": []}`},
		{"absent items field", `{"kind": "storage#buckets"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newStorageServer(t, http.StatusOK, tt.body)

			client, err := NewClient(Config{BaseURL: server.URL})
			require.NoError(t, err)

			buckets, err := client.ListBuckets(context.Background(), "test-token", "test-project")
			require.NoError(t, err)
			assert.NotNil(t, buckets)
			assert.Empty(t, buckets)
		})
	}
}

func TestListBucketsErrorMapping(t *testing.T) {
	t.Run("401 maps to authentication failure", func(t *testing.T) {
		server := newStorageServer(t, http.StatusUnauthorized, `{"error": {"code": 401}}`)

		client, err := NewClient(Config{BaseURL: server.URL})
		require.NoError(t, err)

		_, err = client.ListBuckets(context.Background(), "test-token", "test-project")
		require.ErrorIs(t, err, ErrAuthenticationFailed)
	})

	t.Run("403 maps to permission denied", func(t *testing.T) {
		server := newStorageServer(t, http.StatusForbidden, `{"error": {"code": 403}}`)

		client, err := NewClient(Config{BaseURL: server.URL})
		require.NoError(t, err)

		_, err = client.ListBuckets(context.Background(), "test-token", "test-project")
		require.ErrorIs(t, err, ErrPermissionDenied)
	})

	t.Run("other statuses map to ListError", func(t *testing.T) {
		server := newStorageServer(t, http.StatusServiceUnavailable, "backend unavailable")

		client, err := NewClient(Config{BaseURL: server.URL})
		require.NoError(t, err)

		_, err = client.ListBuckets(context.Background(), "test-token", "test-project")
		var listErr *ListError
		require.ErrorAs(t, err, &listErr)
		assert.Equal(t, http.StatusServiceUnavailable, listErr.StatusCode)
		assert.Equal(t, "backend unavailable", listErr.Body)
	})
}
