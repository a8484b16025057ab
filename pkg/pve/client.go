package pve

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// hostTools are the Proxmox binaries the client shells out to.
var hostTools = []string{"pct", "pvesm", "pveam", "pvesh"}

// Client drives the Proxmox host tools.
type Client struct {
	exec CommandExecutor
}

// New creates a client backed by the real system executor.
func New() *Client {
	return &Client{exec: &RealExecutor{}}
}

// NewWithExecutor creates a client with a custom executor (for testing).
func NewWithExecutor(exec CommandExecutor) *Client {
	return &Client{exec: exec}
}

// CheckInstalled verifies the Proxmox host tools are available.
func (c *Client) CheckInstalled() error {
	for _, tool := range hostTools {
		if _, err := c.exec.LookPath(tool); err != nil {
			return fmt.Errorf("%s is not installed; lxcup must run on a Proxmox VE host", tool)
		}
	}
	return nil
}

// NextID reserves the next free container/VM identifier from the cluster.
func (c *Client) NextID(ctx context.Context) (int, error) {
	out, err := c.exec.Run(ctx, "pvesh", "get", "/cluster/nextid")
	if err != nil {
		return 0, fmt.Errorf("failed to get next free container ID: %w", err)
	}

	id, err := strconv.Atoi(strings.TrimSpace(out))
	if err != nil {
		return 0, fmt.Errorf("unexpected pvesh nextid output %q: %w", strings.TrimSpace(out), err)
	}

	return id, nil
}
