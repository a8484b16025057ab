package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jaspreet-dot-casa/lxcup/pkg/apps"
)

// newAppsCmd creates the apps subcommand
func newAppsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "apps",
		Short: "List installable applications",
		Long:  `List the applications lxcup can install, with their container defaults.`,
		RunE:  runApps,
	}
}

func runApps(_ *cobra.Command, _ []string) error {
	catalog, err := apps.Load()
	if err != nil {
		return err
	}

	fmt.Printf("Found %d applications:\n\n", len(catalog.Apps))

	for _, app := range catalog.Apps {
		desc := app.Description
		if desc == "" {
			desc = "(no description)"
		}
		fmt.Printf("%s (%s):\n", app.Title, app.Name)
		fmt.Printf("  %s\n", desc)
		fmt.Printf("  Defaults: %d GiB disk, %d MiB memory, %d cores, template %s\n",
			app.DiskGB, app.MemoryMB, app.Cores, app.TemplatePrefix)
		if app.Port != 0 {
			fmt.Printf("  Web UI:   port %d\n", app.Port)
		}
		fmt.Println()
	}

	return nil
}
