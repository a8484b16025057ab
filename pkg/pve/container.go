package pve

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

// ContainerConfig is the write-once descriptor consumed by Create.
type ContainerConfig struct {
	CTID         int
	Hostname     string
	TemplateVol  string // template volume ID, e.g. "local:vztmpl/debian-12-standard_12.7-1_amd64.tar.zst"
	RootFSVol    string // allocated rootfs volume ID
	RootFSSizeGB int
	OSType       string // e.g. "debian"
	Arch         string // e.g. "amd64"
	Cores        int
	MemoryMB     int
	Bridge       string // e.g. "vmbr0"
	IP           string // "dhcp" or CIDR static address
	Gateway      string // optional, static addressing only
	Unprivileged bool
	Features     string // e.g. "nesting=1"
	OnBoot       bool
}

// netConfig renders the -net0 argument.
func (cfg ContainerConfig) netConfig() string {
	net := fmt.Sprintf("name=eth0,bridge=%s,ip=%s", cfg.Bridge, cfg.IP)
	if cfg.Gateway != "" {
		net += ",gw=" + cfg.Gateway
	}
	return net
}

// Create creates the container. The rootfs volume must already be allocated.
func (c *Client) Create(ctx context.Context, cfg ContainerConfig) error {
	unprivileged := "0"
	if cfg.Unprivileged {
		unprivileged = "1"
	}
	onboot := "0"
	if cfg.OnBoot {
		onboot = "1"
	}

	args := []string{
		"create", fmt.Sprint(cfg.CTID), cfg.TemplateVol,
		"-arch", cfg.Arch,
		"-cores", fmt.Sprint(cfg.Cores),
		"-hostname", cfg.Hostname,
		"-memory", fmt.Sprint(cfg.MemoryMB),
		"-net0", cfg.netConfig(),
		"-onboot", onboot,
		"-ostype", cfg.OSType,
		"-rootfs", fmt.Sprintf("%s,size=%dG", cfg.RootFSVol, cfg.RootFSSizeGB),
		"-unprivileged", unprivileged,
	}
	if cfg.Features != "" {
		args = append(args, "-features", cfg.Features)
	}

	if _, err := c.exec.Run(ctx, "pct", args...); err != nil {
		return fmt.Errorf("failed to create container %d: %w", cfg.CTID, err)
	}
	return nil
}

// mountRe extracts the rootfs path from pct mount output:
// "mounted CT 106 in '/var/lib/lxc/106/rootfs'"
var mountRe = regexp.MustCompile(`'([^']+)'`)

// Mount mounts the container's rootfs on the host and returns the mountpoint.
func (c *Client) Mount(ctx context.Context, ctid int) (string, error) {
	out, err := c.exec.Run(ctx, "pct", "mount", fmt.Sprint(ctid))
	if err != nil {
		return "", fmt.Errorf("failed to mount container %d: %w", ctid, err)
	}
	m := mountRe.FindStringSubmatch(out)
	if m == nil {
		return "", fmt.Errorf("could not locate mountpoint in pct mount output %q", trimOneLine(out))
	}
	return m[1], nil
}

// Unmount unmounts a previously mounted container rootfs.
func (c *Client) Unmount(ctx context.Context, ctid int) error {
	if _, err := c.exec.Run(ctx, "pct", "unmount", fmt.Sprint(ctid)); err != nil {
		return fmt.Errorf("failed to unmount container %d: %w", ctid, err)
	}
	return nil
}

// Start starts the container.
func (c *Client) Start(ctx context.Context, ctid int) error {
	if _, err := c.exec.Run(ctx, "pct", "start", fmt.Sprint(ctid)); err != nil {
		return fmt.Errorf("failed to start container %d: %w", ctid, err)
	}
	return nil
}

// Stop stops the container.
func (c *Client) Stop(ctx context.Context, ctid int) error {
	if _, err := c.exec.Run(ctx, "pct", "stop", fmt.Sprint(ctid)); err != nil {
		return fmt.Errorf("failed to stop container %d: %w", ctid, err)
	}
	return nil
}

// Destroy destroys the container and the volumes it owns.
func (c *Client) Destroy(ctx context.Context, ctid int) error {
	if _, err := c.exec.Run(ctx, "pct", "destroy", fmt.Sprint(ctid)); err != nil {
		return fmt.Errorf("failed to destroy container %d: %w", ctid, err)
	}
	return nil
}

// Status reports the container state ("running", "stopped").
func (c *Client) Status(ctx context.Context, ctid int) (string, error) {
	out, err := c.exec.Run(ctx, "pct", "status", fmt.Sprint(ctid))
	if err != nil {
		return "", fmt.Errorf("failed to get status of container %d: %w", ctid, err)
	}
	return strings.TrimPrefix(trimOneLine(out), "status: "), nil
}

// Push copies a host file into the running container.
func (c *Client) Push(ctx context.Context, ctid int, src, dest, perms string) error {
	args := []string{"push", fmt.Sprint(ctid), src, dest}
	if perms != "" {
		args = append(args, "-perms", perms)
	}
	if _, err := c.exec.Run(ctx, "pct", args...); err != nil {
		return fmt.Errorf("failed to push %s into container %d: %w", src, ctid, err)
	}
	return nil
}

// Exec runs a command inside the running container and returns its output.
func (c *Client) Exec(ctx context.Context, ctid int, command ...string) (string, error) {
	args := append([]string{"exec", fmt.Sprint(ctid), "--"}, command...)
	out, err := c.exec.Run(ctx, "pct", args...)
	if err != nil {
		return out, fmt.Errorf("command failed in container %d: %w", ctid, err)
	}
	return out, nil
}

// ipv4Re matches the first dotted-quad in command output.
var ipv4Re = regexp.MustCompile(`(\d+\.\d+\.\d+\.\d+)`)

// IPv4 reads the container's assigned eth0 address.
func (c *Client) IPv4(ctx context.Context, ctid int) (string, error) {
	out, err := c.Exec(ctx, ctid, "ip", "-4", "-o", "addr", "show", "dev", "eth0")
	if err != nil {
		return "", err
	}
	m := ipv4Re.FindStringSubmatch(out)
	if m == nil {
		return "", fmt.Errorf("container %d has no IPv4 address on eth0", ctid)
	}
	return m[1], nil
}

// trimOneLine returns the first line of command output, trimmed.
func trimOneLine(out string) string {
	out = strings.TrimSpace(out)
	if i := strings.IndexByte(out, '\n'); i >= 0 {
		out = out[:i]
	}
	return out
}
