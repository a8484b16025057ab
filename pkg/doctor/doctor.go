// Package doctor checks that the host has everything provisioning needs:
// the Proxmox command-line tools, root privileges, the configured network
// bridge, and at least one storage pool for container root disks.
package doctor

import (
	"context"
	"os"
	"strings"

	"github.com/jaspreet-dot-casa/lxcup/pkg/config"
	"github.com/jaspreet-dot-casa/lxcup/pkg/pve"
)

// CheckStatus represents the status of a host check.
type CheckStatus int

const (
	// StatusOK indicates the requirement is satisfied.
	StatusOK CheckStatus = iota
	// StatusMissing indicates a required tool or resource is absent.
	StatusMissing
	// StatusError indicates an error occurred during the check.
	StatusError
	// StatusWarning indicates the host may work but needs attention.
	StatusWarning
)

// String returns the string representation of the status.
func (s CheckStatus) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusMissing:
		return "missing"
	case StatusError:
		return "error"
	case StatusWarning:
		return "warning"
	default:
		return "unknown"
	}
}

// Check is a single host check result.
type Check struct {
	ID          string
	Name        string
	Description string
	Status      CheckStatus
	Message     string
}

// Checker runs host readiness checks.
type Checker struct {
	executor pve.CommandExecutor
	settings *config.Settings
	euid     func() int
}

// NewChecker creates a checker against the real host.
func NewChecker(settings *config.Settings) *Checker {
	return &Checker{
		executor: &pve.RealExecutor{},
		settings: settings,
		euid:     os.Geteuid,
	}
}

// NewCheckerWithExecutor creates a checker with a custom executor (for testing).
func NewCheckerWithExecutor(exec pve.CommandExecutor, settings *config.Settings) *Checker {
	return &Checker{
		executor: exec,
		settings: settings,
		euid:     os.Geteuid,
	}
}

// hostTools are the Proxmox binaries provisioning shells out to.
var hostTools = []struct {
	id   string
	desc string
}{
	{"pct", "LXC container lifecycle management"},
	{"pvesm", "storage pool and volume management"},
	{"pveam", "OS template catalog and downloads"},
	{"pvesh", "Proxmox API access (container ID allocation)"},
}

// CheckAll runs every host check.
func (c *Checker) CheckAll(ctx context.Context) []Check {
	checks := make([]Check, 0, len(hostTools)+3)
	for _, tool := range hostTools {
		checks = append(checks, c.checkTool(tool.id, tool.desc))
	}
	checks = append(checks, c.checkRoot())
	checks = append(checks, c.checkBridge())
	checks = append(checks, c.checkStorage(ctx))
	return checks
}

// Failed reports whether any check is missing or errored. Warnings do not
// count as failure.
func Failed(checks []Check) bool {
	for _, check := range checks {
		if check.Status == StatusMissing || check.Status == StatusError {
			return true
		}
	}
	return false
}

func (c *Checker) checkTool(id, desc string) Check {
	check := Check{ID: id, Name: id, Description: desc}

	path, err := c.executor.LookPath(id)
	if err != nil {
		check.Status = StatusMissing
		check.Message = "not installed (is this a Proxmox VE host?)"
		return check
	}
	check.Status = StatusOK
	check.Message = path
	return check
}

func (c *Checker) checkRoot() Check {
	check := Check{
		ID:          "root",
		Name:        "root privileges",
		Description: "pct and pvesm require root",
	}
	if c.euid() != 0 {
		check.Status = StatusWarning
		check.Message = "not running as root; provisioning will fail"
		return check
	}
	check.Status = StatusOK
	check.Message = "running as root"
	return check
}

func (c *Checker) checkBridge() Check {
	bridge := c.settings.Bridge
	check := Check{
		ID:          "bridge",
		Name:        "network bridge",
		Description: "containers attach to " + bridge,
	}
	if !c.executor.FileExists("/sys/class/net/" + bridge) {
		check.Status = StatusMissing
		check.Message = bridge + " does not exist on this host"
		return check
	}
	check.Status = StatusOK
	check.Message = bridge
	return check
}

func (c *Checker) checkStorage(ctx context.Context) Check {
	check := Check{
		ID:          "storage",
		Name:        "container storage",
		Description: "a pool must accept container root disks",
	}

	client := pve.NewWithExecutor(c.executor)
	pools, err := client.RootDirPools(ctx)
	if err != nil {
		check.Status = StatusError
		check.Message = err.Error()
		return check
	}
	if len(pools) == 0 {
		check.Status = StatusMissing
		check.Message = "no active pool supports the rootdir content type"
		return check
	}

	names := make([]string, len(pools))
	for i, pool := range pools {
		names[i] = pool.Name
	}
	check.Status = StatusOK
	check.Message = strings.Join(names, ", ")
	return check
}
