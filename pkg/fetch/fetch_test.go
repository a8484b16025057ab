package fetch

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const unitBody = "[Unit]\nDescription=jDownloader 2\n\n[Service]\nExecStart=/usr/bin/java -jar /opt/jdownloader/JDownloader.jar\n"

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(unitBody))
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "units", "jdownloader2.service")
	err := New().Fetch(context.Background(), Options{URL: srv.URL, DestPath: dest})
	require.NoError(t, err)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, unitBody, string(data))

	// No temp file left behind.
	_, err = os.Stat(dest + ".downloading")
	assert.True(t, os.IsNotExist(err))
}

func TestFetch_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "unit.service")
	err := New().Fetch(context.Background(), Options{URL: srv.URL, DestPath: dest})
	assert.ErrorContains(t, err, "HTTP 404")

	// Neither the destination nor the temp file should exist.
	_, statErr := os.Stat(dest)
	assert.True(t, os.IsNotExist(statErr))
	_, statErr = os.Stat(dest + ".downloading")
	assert.True(t, os.IsNotExist(statErr))
}

func TestFetch_ChecksumMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(unitBody))
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "unit.service")
	err := New().Fetch(context.Background(), Options{
		URL:      srv.URL,
		DestPath: dest,
		SHA256:   "deadbeef",
	})
	assert.ErrorContains(t, err, "checksum mismatch")
}

func TestFetch_ChecksumMatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(unitBody))
	}))
	defer srv.Close()

	sum := sha256.Sum256([]byte(unitBody))
	dest := filepath.Join(t.TempDir(), "unit.service")
	err := New().Fetch(context.Background(), Options{
		URL:      srv.URL,
		DestPath: dest,
		SHA256:   hex.EncodeToString(sum[:]),
	})
	assert.NoError(t, err)
}
