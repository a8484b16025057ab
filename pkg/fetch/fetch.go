// Package fetch downloads installer payloads (systemd unit files) over HTTP.
package fetch

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// Fetcher downloads files to the host filesystem.
type Fetcher struct {
	client *http.Client
}

// New creates a fetcher with a request timeout suited to small payloads.
func New() *Fetcher {
	return &Fetcher{
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// NewWithClient creates a fetcher with a custom HTTP client (for testing).
func NewWithClient(client *http.Client) *Fetcher {
	return &Fetcher{client: client}
}

// Options configures a fetch.
type Options struct {
	URL      string
	DestPath string
	SHA256   string // expected checksum (optional)
}

// Fetch downloads a file to opts.DestPath. The file is written via a
// temporary path and renamed only on success, so a failed fetch leaves no
// partial file behind.
func (f *Fetcher) Fetch(ctx context.Context, opts Options) error {
	if err := os.MkdirAll(filepath.Dir(opts.DestPath), 0o755); err != nil {
		return fmt.Errorf("failed to create destination directory: %w", err)
	}

	tmpPath := opts.DestPath + ".downloading"
	out, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}

	renamed := false
	defer func() {
		out.Close()
		if !renamed {
			os.Remove(tmpPath)
		}
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, opts.URL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("fetch of %s failed: %w", opts.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch of %s failed: HTTP %d", opts.URL, resp.StatusCode)
	}

	if _, err := io.Copy(out, resp.Body); err != nil {
		return fmt.Errorf("fetch of %s failed: %w", opts.URL, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", tmpPath, err)
	}

	if opts.SHA256 != "" {
		hash, err := fileSHA256(tmpPath)
		if err != nil {
			return fmt.Errorf("failed to calculate checksum: %w", err)
		}
		if hash != opts.SHA256 {
			return fmt.Errorf("checksum mismatch for %s: expected %s, got %s", opts.URL, opts.SHA256, hash)
		}
	}

	if err := os.Rename(tmpPath, opts.DestPath); err != nil {
		return fmt.Errorf("failed to move download into place: %w", err)
	}
	renamed = true
	return nil
}

func fileSHA256(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
