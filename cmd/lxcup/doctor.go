package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jaspreet-dot-casa/lxcup/pkg/config"
	"github.com/jaspreet-dot-casa/lxcup/pkg/doctor"
	"github.com/jaspreet-dot-casa/lxcup/pkg/tui"
)

// newDoctorCmd creates the doctor subcommand
func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check that this host can provision containers",
		Long: `Verify the Proxmox command-line tools, root privileges, the configured
network bridge, and container storage before running 'lxcup create'.`,
		RunE: runDoctor,
	}
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	settings, err := config.Load()
	if err != nil {
		return err
	}

	checker := doctor.NewChecker(settings)
	checks := checker.CheckAll(cmd.Context())

	fmt.Println(tui.TitleStyle.Render("Host checks"))
	for _, check := range checks {
		fmt.Printf("  %s %-18s %s\n", statusIcon(check.Status), check.Name, check.Message)
	}
	fmt.Println()

	if doctor.Failed(checks) {
		return fmt.Errorf("this host is not ready; fix the failing checks above")
	}
	fmt.Println(tui.SuccessStyle.Render("Ready to provision."))
	return nil
}

// statusIcon renders a check status. A check that errored is reported as
// such, not as an absent tool.
func statusIcon(status doctor.CheckStatus) string {
	switch status {
	case doctor.StatusOK:
		return tui.SuccessStyle.Render("ok     ")
	case doctor.StatusWarning:
		return tui.WarningStyle.Render("warn   ")
	case doctor.StatusError:
		return tui.ErrorStyle.Render("error  ")
	default:
		return tui.ErrorStyle.Render("missing")
	}
}
