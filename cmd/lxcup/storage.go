package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jaspreet-dot-casa/lxcup/pkg/pve"
)

// newStorageCmd creates the storage subcommand
func newStorageCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "storage",
		Short: "List storage pools eligible for container root disks",
		Long: `List the active storage pools on this host that accept the rootdir
content type. These are the pools 'lxcup create' can place containers on.`,
		RunE: runStorage,
	}
}

func runStorage(cmd *cobra.Command, _ []string) error {
	client := pve.New()
	if err := client.CheckInstalled(); err != nil {
		return err
	}

	pools, err := client.RootDirPools(cmd.Context())
	if err != nil {
		return err
	}
	if len(pools) == 0 {
		return fmt.Errorf("no storage pool supports container root disks")
	}

	fmt.Printf("%-16s %-10s %12s\n", "NAME", "TYPE", "FREE")
	for _, pool := range pools {
		fmt.Printf("%-16s %-10s %12s\n", pool.Name, pool.Type, pool.FreeString())
	}
	return nil
}
