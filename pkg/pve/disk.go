package pve

import (
	"context"
	"fmt"
)

// RootFS describes an allocated container root filesystem.
type RootFS struct {
	// VolID is the storage-qualified volume identifier, e.g. "local:106/vm-106-disk-0.raw".
	VolID string
	// SizeGB is the requested size.
	SizeGB int
	// Warning is a non-fatal allocation note surfaced to the operator, if any.
	Warning string
}

// AllocRootFS allocates and, where the backend requires it, formats the root
// filesystem for a container. Naming and formatting depend on the backend:
// flat raw images on file backends get an ext4 filesystem, ZFS backends get
// a subvolume, LVM backends get a raw logical volume with a sparse warning.
func (c *Client) AllocRootFS(ctx context.Context, pool StoragePool, ctid, sizeGB int) (*RootFS, error) {
	fs := &RootFS{SizeGB: sizeGB}
	size := fmt.Sprintf("%dG", sizeGB)

	var name, ref string
	format := true

	switch pool.Backend() {
	case KindFile:
		// File backends qualify volumes with the owning container ID.
		name = fmt.Sprintf("vm-%d-disk-0.raw", ctid)
		ref = fmt.Sprintf("%d/%s", ctid, name)
	case KindZFS:
		name = fmt.Sprintf("subvol-%d-disk-0", ctid)
		ref = name
		format = false
	case KindLVM:
		name = fmt.Sprintf("vm-%d-disk-0", ctid)
		ref = name
		fs.Warning = fmt.Sprintf("storage type %s does not support sparse allocation", pool.Type)
	default:
		return nil, fmt.Errorf("storage type %s is not supported for container root disks", pool.Type)
	}

	if _, err := c.exec.Run(ctx, "pvesm", "alloc", pool.Name, fmt.Sprint(ctid), name, size); err != nil {
		return nil, fmt.Errorf("failed to allocate rootfs on %s: %w", pool.Name, err)
	}
	fs.VolID = pool.Name + ":" + ref

	if format {
		if err := c.formatVolume(ctx, fs.VolID); err != nil {
			return fs, err
		}
	}

	return fs, nil
}

// formatVolume resolves the host path of a volume and writes an ext4
// filesystem onto it. Formatting failure is fatal to provisioning.
func (c *Client) formatVolume(ctx context.Context, volID string) error {
	path, err := c.VolumePath(ctx, volID)
	if err != nil {
		return err
	}
	if _, err := c.exec.Run(ctx, "mkfs.ext4", "-q", path); err != nil {
		return fmt.Errorf("failed to format %s: %w", volID, err)
	}
	return nil
}

// VolumePath resolves a volume ID to its path on the host.
func (c *Client) VolumePath(ctx context.Context, volID string) (string, error) {
	out, err := c.exec.Run(ctx, "pvesm", "path", volID)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path of %s: %w", volID, err)
	}
	return trimOneLine(out), nil
}

// FreeVolume releases an allocated volume. Used by rollback when container
// creation never took ownership of the disk.
func (c *Client) FreeVolume(ctx context.Context, volID string) error {
	if _, err := c.exec.Run(ctx, "pvesm", "free", volID); err != nil {
		return fmt.Errorf("failed to free volume %s: %w", volID, err)
	}
	return nil
}
