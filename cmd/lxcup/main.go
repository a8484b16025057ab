// Package main provides the lxcup CLI for provisioning application LXC
// containers on a Proxmox VE host.
package main

import (
	"errors"
	"os"
	"os/exec"

	"github.com/spf13/cobra"
)

// version is set via -ldflags during build
var version = "dev"

func main() {
	rootCmd := newRootCmd()

	// Cobra handles error printing
	rootCmd.SilenceUsage = true

	if err := rootCmd.Execute(); err != nil {
		os.Exit(exitCode(err))
	}
}

// exitCode maps a command error to the process exit status. When a host
// command failed, its own exit status is propagated.
func exitCode(err error) int {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() > 0 {
		return exitErr.ExitCode()
	}
	return 1
}

// newRootCmd creates the root command for lxcup
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "lxcup",
		Short: "Proxmox LXC Application Provisioner",
		Long: `lxcup creates LXC containers on a Proxmox VE host and installs a
self-hosted application into them in one pass.

It supports:
  - One-command container creation with sensible per-app defaults
  - Interactive storage pool and application selection
  - Automatic OS template download and rootfs allocation
  - Rollback of partially created containers on failure`,
		Version: version,
	}

	rootCmd.AddCommand(
		newCreateCmd(),
		newAppsCmd(),
		newStorageCmd(),
		newTemplatesCmd(),
		newDoctorCmd(),
	)

	return rootCmd
}
