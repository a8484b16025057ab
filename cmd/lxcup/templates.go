package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jaspreet-dot-casa/lxcup/pkg/apps"
	"github.com/jaspreet-dot-casa/lxcup/pkg/pve"
)

// newTemplatesCmd creates the templates subcommand
func newTemplatesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "templates",
		Short: "Show which OS template each application resolves to",
		Long: `Query the Proxmox template catalog and show, per application, the newest
matching OS template. This is the template 'lxcup create' would download.`,
		RunE: runTemplates,
	}
}

func runTemplates(cmd *cobra.Command, _ []string) error {
	client := pve.New()
	if err := client.CheckInstalled(); err != nil {
		return err
	}

	catalog, err := apps.Load()
	if err != nil {
		return err
	}

	available, err := client.AvailableTemplates(cmd.Context())
	if err != nil {
		return err
	}

	for _, app := range catalog.Apps {
		resolved, err := pve.ResolveTemplate(available, app.TemplatePrefix)
		if err != nil {
			fmt.Printf("%-14s %s\n", app.Name, err)
			continue
		}
		fmt.Printf("%-14s %s\n", app.Name, resolved)
	}
	return nil
}
