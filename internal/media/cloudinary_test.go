// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package media

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/MKhiriev/go-car-market/internal/config"
	"github.com/MKhiriev/go-car-market/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewCloudinaryClient(config.Media{
		BaseURL:        srv.URL,
		CloudName:      "demo",
		APIKey:         "key",
		APISecret:      "secret",
		RequestTimeout: 5 * time.Second,
	}, logger.Nop())
}

func stageFiles(t *testing.T, count int) []string {
	t.Helper()

	dir := t.TempDir()
	paths := make([]string, 0, count)
	for i := 0; i < count; i++ {
		p := filepath.Join(dir, fmt.Sprintf("upload-%d.jpg", i))
		require.NoError(t, os.WriteFile(p, []byte("fake image bytes"), 0o600))
		paths = append(paths, p)
	}
	return paths
}

func requireAllRemoved(t *testing.T, paths []string) {
	t.Helper()

	for _, p := range paths {
		_, err := os.Stat(p)
		assert.ErrorIs(t, err, os.ErrNotExist, "staged file %s should have been removed", p)
	}
}

func TestUpload_Success(t *testing.T) {
	var calls int

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/demo/image/upload", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1 << 20))

		assert.Equal(t, "key", r.FormValue("api_key"))
		assert.NotEmpty(t, r.FormValue("timestamp"))
		assert.NotEmpty(t, r.FormValue("signature"))

		_, _, err := r.FormFile("file")
		require.NoError(t, err)

		calls++
		fmt.Fprintf(w, `{"secure_url":"https://media.example.com/img-%d.jpg","public_id":"img-%d"}`, calls, calls)
	}))

	paths := stageFiles(t, 2)

	urls, err := client.Upload(context.Background(), paths)
	require.NoError(t, err)

	assert.Equal(t, []string{"https://media.example.com/img-1.jpg", "https://media.example.com/img-2.jpg"}, urls)
	requireAllRemoved(t, paths)
}

func TestUpload_PartialFailureKeepsSuccessfulSubset(t *testing.T) {
	var calls int

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 2 {
			http.Error(w, "storage unavailable", http.StatusBadGateway)
			return
		}
		fmt.Fprintf(w, `{"secure_url":"https://media.example.com/img-%d.jpg","public_id":"img-%d"}`, calls, calls)
	}))

	paths := stageFiles(t, 3)

	urls, err := client.Upload(context.Background(), paths)
	require.NoError(t, err)

	assert.Equal(t, []string{"https://media.example.com/img-1.jpg", "https://media.example.com/img-3.jpg"}, urls)
	requireAllRemoved(t, paths)
}

func TestUpload_AllFailed(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "storage unavailable", http.StatusBadGateway)
	}))

	paths := stageFiles(t, 2)

	_, err := client.Upload(context.Background(), paths)
	assert.ErrorIs(t, err, ErrUploadFailed)

	requireAllRemoved(t, paths)
}

func TestUpload_NoFiles(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected for an empty upload")
	}))

	urls, err := client.Upload(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, urls)
}

func TestRemove_Success(t *testing.T) {
	var publicIDs []string

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/demo/image/destroy", r.URL.Path)
		require.NoError(t, r.ParseForm())

		assert.Equal(t, "key", r.FormValue("api_key"))
		assert.NotEmpty(t, r.FormValue("signature"))

		publicIDs = append(publicIDs, r.FormValue("public_id"))
		fmt.Fprint(w, `{"result":"ok"}`)
	}))

	err := client.Remove(context.Background(), []string{
		"https://media.example.com/abc123.jpg",
		"https://media.example.com/def456.png",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"abc123", "def456"}, publicIDs)
}

func TestRemove_AlreadyGone(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"result":"not found"}`)
	}))

	err := client.Remove(context.Background(), []string{"https://media.example.com/abc123.jpg"})
	assert.NoError(t, err)
}

func TestRemove_Failure(t *testing.T) {
	var calls int

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, `{"result":"ok"}`)
	}))

	err := client.Remove(context.Background(), []string{
		"https://media.example.com/abc123.jpg",
		"https://media.example.com/def456.jpg",
	})
	assert.ErrorIs(t, err, ErrRemoveFailed)

	// the second URL must still have been attempted
	assert.Equal(t, 2, calls)
}

func TestPublicIDFromURL(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{name: "jpg url", url: "https://media.example.com/v123/abc123.jpg", want: "abc123"},
		{name: "no extension", url: "https://media.example.com/abc123", want: "abc123"},
		{name: "nested path", url: "https://media.example.com/folder/sub/xyz.webp", want: "xyz"},
		{name: "empty", url: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PublicIDFromURL(tt.url))
		})
	}
}
