package guest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaspreet-dot-casa/lxcup/pkg/apps"
)

func TestRenderInstaller(t *testing.T) {
	app := &apps.App{
		Name:     "jdownloader2",
		Packages: []string{"curl", "default-jre-headless"},
		SetupCommands: []string{
			"mkdir -p /opt/jdownloader",
			"curl -fsSL http://installer.jdownloader.org/JDownloader.jar -o /opt/jdownloader/JDownloader.jar",
		},
		UnitName: "jdownloader2.service",
	}

	script, err := RenderInstaller(app)
	require.NoError(t, err)
	text := string(script)

	// Fail-fast shell settings come first.
	assert.True(t, strings.HasPrefix(text, "#!/usr/bin/env bash"))
	assert.Contains(t, text, "set -euo pipefail")

	// Everything the installer does is kept in a guest-side transcript.
	assert.Contains(t, text, "tee -a /var/log/lxcup-install.log")

	// Package install with the full list on one apt-get invocation.
	assert.Contains(t, text, "apt-get install -y curl default-jre-headless")

	// App-specific setup commands appear in order.
	jarIdx := strings.Index(text, "JDownloader.jar -o")
	mkdirIdx := strings.Index(text, "mkdir -p /opt/jdownloader")
	require.Greater(t, jarIdx, 0)
	require.Greater(t, mkdirIdx, 0)
	assert.Less(t, mkdirIdx, jarIdx)

	// Unit is enabled and started.
	assert.Contains(t, text, "systemctl enable --now jdownloader2.service")

	// Console cosmetics.
	assert.Contains(t, text, "rm -f /etc/motd")
	assert.Contains(t, text, "--autologin root")
	assert.Contains(t, text, "systemctl restart container-getty@1.service")

	// Cleanup and self-removal.
	assert.Contains(t, text, "apt-get clean")
	assert.Contains(t, text, `rm -- "$0"`)

	// The IP report is the last command.
	lines := strings.Split(strings.TrimSpace(text), "\n")
	assert.Equal(t, "hostname -I | awk '{print $1}'", lines[len(lines)-1])
}

func TestRenderInstaller_NoPackages(t *testing.T) {
	app := &apps.App{
		Name:     "bare",
		UnitName: "bare.service",
	}

	script, err := RenderInstaller(app)
	require.NoError(t, err)
	assert.NotContains(t, string(script), "apt-get install -y\n")
}

func TestUnitPath(t *testing.T) {
	app := &apps.App{UnitName: "jellyfin.service"}
	assert.Equal(t, "/etc/systemd/system/jellyfin.service", UnitPath(app))
}
