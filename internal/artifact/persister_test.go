// File: internal/artifact/persister_test.go
package artifact

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// A 1x1 transparent PNG, the smallest real payload worth asserting on.
var tinyPNG = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a,
	0x00, 0x00, 0x00, 0x0d, 0x49, 0x48, 0x44, 0x52,
	0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4,
	0x89, 0x00, 0x00, 0x00, 0x0a, 0x49, 0x44, 0x41,
	0x54, 0x78, 0x9c, 0x63, 0x00, 0x01, 0x00, 0x00,
	0x05, 0x00, 0x01, 0x0d, 0x0a, 0x2d, 0xb4, 0x00,
	0x00, 0x00, 0x00, 0x49, 0x45, 0x4e, 0x44, 0xae,
	0x42, 0x60, 0x82,
}

func newTestPersister(t *testing.T, client *http.Client) (*Persister, string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "results")
	return NewPersister(dir, client, zap.NewNop()), dir
}

func TestPersistDataURL(t *testing.T) {
	p, dir := newTestPersister(t, nil)

	source := "data:image/png;base64," + base64.StdEncoding.EncodeToString(tinyPNG)
	result := p.Persist(context.Background(), source)

	require.True(t, result.Success, "error: %s", result.Error)
	assert.Empty(t, result.ImageURL, "inline payloads are not echoed as URLs")
	assert.Contains(t, result.Filename, "generated_")
	assert.Equal(t, filepath.Join(dir, result.Filename), result.ImagePath)

	written, err := os.ReadFile(result.ImagePath)
	require.NoError(t, err)
	assert.Equal(t, tinyPNG, written)
}

func TestPersistDataURLBadPayload(t *testing.T) {
	p, dir := newTestPersister(t, nil)

	result := p.Persist(context.Background(), "data:image/png;base64,!!!not-base64!!!")
	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "decode")

	// Nothing should have been written.
	_, err := os.Stat(dir)
	assert.True(t, os.IsNotExist(err))
}

func TestPersistRemoteURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(tinyPNG)
	}))
	defer server.Close()

	p, _ := newTestPersister(t, server.Client())
	result := p.Persist(context.Background(), server.URL+"/asset.png")

	require.True(t, result.Success, "error: %s", result.Error)
	assert.Equal(t, server.URL+"/asset.png", result.ImageURL)

	written, err := os.ReadFile(result.ImagePath)
	require.NoError(t, err)
	assert.Equal(t, tinyPNG, written)
}

func TestPersistRemoteURLServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer server.Close()

	p, _ := newTestPersister(t, server.Client())
	result := p.Persist(context.Background(), server.URL+"/missing.png")

	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "download")
}

func TestPersistUnrecognizedSource(t *testing.T) {
	p, dir := newTestPersister(t, nil)

	result := p.Persist(context.Background(), "blob:chrome-internal/whatever")
	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "not a data URL")

	_, err := os.Stat(dir)
	assert.True(t, os.IsNotExist(err), "no results directory should be created for a failed run")
}
