// Package logging sets up the lxcup logger: styled output on stderr, teed
// into a per-run transcript file.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
)

// RunLogger wraps a logger together with its transcript file.
type RunLogger struct {
	*log.Logger
	// Path of the transcript file, empty if the file could not be opened.
	Path string

	file *os.File
}

// New creates a logger for one provisioning run. The transcript lands in
// logDir/lxcup-<runID>.log; if the directory cannot be created (not running
// as root, say) logging falls back to stderr only.
func New(logDir, runID string) *RunLogger {
	w := io.Writer(os.Stderr)
	rl := &RunLogger{}

	if err := os.MkdirAll(logDir, 0o755); err == nil {
		path := filepath.Join(logDir, fmt.Sprintf("lxcup-%s.log", runID))
		if f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644); err == nil {
			rl.file = f
			rl.Path = path
			w = io.MultiWriter(os.Stderr, f)
		}
	}

	rl.Logger = log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
	})
	return rl
}

// Close flushes and closes the transcript file.
func (rl *RunLogger) Close() error {
	if rl.file == nil {
		return nil
	}
	return rl.file.Close()
}
