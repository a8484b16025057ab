package pve

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// BackendKind classifies a storage backend by how container root disks are
// allocated on it.
type BackendKind int

const (
	// KindFile backends (dir, nfs) hold the rootfs as a flat raw image that
	// must be formatted after allocation.
	KindFile BackendKind = iota
	// KindZFS backends allocate a filesystem subvolume; no formatting.
	KindZFS
	// KindLVM backends allocate a logical volume; no sparse support.
	KindLVM
	// KindUnknown covers backends lxcup has no allocation rule for.
	KindUnknown
)

// StoragePool is one row of `pvesm status`, sizes in KiB.
type StoragePool struct {
	Name   string
	Type   string
	Active bool
	Total  int64
	Used   int64
	Avail  int64
}

// Backend returns the allocation rule for the pool's storage type.
func (p StoragePool) Backend() BackendKind {
	switch p.Type {
	case "dir", "nfs", "cifs":
		return KindFile
	case "zfspool":
		return KindZFS
	case "lvm", "lvmthin":
		return KindLVM
	default:
		return KindUnknown
	}
}

// FreeString formats the pool's available space for display. Display only;
// no selection decision is made on it.
func (p StoragePool) FreeString() string {
	return formatKiB(p.Avail)
}

// formatKiB renders a KiB count as a human-readable size.
func formatKiB(kib int64) string {
	const (
		mib = 1024
		gib = 1024 * mib
		tib = 1024 * gib
	)
	switch {
	case kib >= tib:
		return fmt.Sprintf("%.1f TiB", float64(kib)/float64(tib))
	case kib >= gib:
		return fmt.Sprintf("%.1f GiB", float64(kib)/float64(gib))
	case kib >= mib:
		return fmt.Sprintf("%.1f MiB", float64(kib)/float64(mib))
	default:
		return fmt.Sprintf("%d KiB", kib)
	}
}

// RootDirPools lists the active storage pools that can hold container root
// disks.
func (c *Client) RootDirPools(ctx context.Context) ([]StoragePool, error) {
	out, err := c.exec.Run(ctx, "pvesm", "status", "-content", "rootdir")
	if err != nil {
		return nil, fmt.Errorf("failed to list storage pools: %w", err)
	}

	pools := parsePoolStatus(out)

	active := pools[:0]
	for _, p := range pools {
		if p.Active {
			active = append(active, p)
		}
	}
	return active, nil
}

// parsePoolStatus parses `pvesm status` output. Expected format:
//
//	Name     Type     Status     Total      Used     Available    %
//	local    dir      active     98497780   2871568  90576820     2.92%
func parsePoolStatus(out string) []StoragePool {
	var pools []StoragePool

	for i, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 6 {
			continue
		}
		if i == 0 && fields[0] == "Name" {
			continue // header
		}

		total, err := strconv.ParseInt(fields[3], 10, 64)
		if err != nil {
			continue
		}
		used, _ := strconv.ParseInt(fields[4], 10, 64)
		avail, _ := strconv.ParseInt(fields[5], 10, 64)

		pools = append(pools, StoragePool{
			Name:   fields[0],
			Type:   fields[1],
			Active: fields[2] == "active",
			Total:  total,
			Used:   used,
			Avail:  avail,
		})
	}

	return pools
}
