package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_WritesTranscript(t *testing.T) {
	dir := t.TempDir()

	rl := New(dir, "test-run")
	require.NotEmpty(t, rl.Path)
	assert.Equal(t, filepath.Join(dir, "lxcup-test-run.log"), rl.Path)

	rl.Info("creating container", "ctid", 106)
	rl.Error("container start failed", "step", "start")
	require.NoError(t, rl.Close())

	data, err := os.ReadFile(rl.Path)
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, "creating container")
	assert.Contains(t, text, "ERRO")
	assert.Contains(t, text, "container start failed")
}

func TestNew_FallsBackWithoutLogDir(t *testing.T) {
	// A path under a file cannot be created as a directory.
	f := filepath.Join(t.TempDir(), "occupied")
	require.NoError(t, os.WriteFile(f, []byte("x"), 0o644))

	rl := New(filepath.Join(f, "logs"), "run")
	assert.Empty(t, rl.Path)
	rl.Info("still works")
	assert.NoError(t, rl.Close())
}
