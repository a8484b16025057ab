package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/jaspreet-dot-casa/lxcup/pkg/apps"
	"github.com/jaspreet-dot-casa/lxcup/pkg/config"
	"github.com/jaspreet-dot-casa/lxcup/pkg/create"
	"github.com/jaspreet-dot-casa/lxcup/pkg/fetch"
	"github.com/jaspreet-dot-casa/lxcup/pkg/logging"
	"github.com/jaspreet-dot-casa/lxcup/pkg/provision"
	"github.com/jaspreet-dot-casa/lxcup/pkg/pve"
	"github.com/jaspreet-dot-casa/lxcup/pkg/tui"
)

// createFlags holds the create command's flag values.
type createFlags struct {
	app           string
	ctid          int
	hostname      string
	storage       string
	diskGB        int
	memoryMB      int
	cores         int
	bridge        string
	ip            string
	gateway       string
	keepOnFailure bool
	plain         bool
	yes           bool
}

// newCreateCmd creates the create subcommand (main command)
func newCreateCmd() *cobra.Command {
	var flags createFlags

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a container and install an application into it",
		Long: `Create an LXC container on this Proxmox host and install the chosen
application: download the OS template, allocate the root filesystem, create
and start the container, then run the in-guest installer.

Without --app an interactive picker is shown. On failure every resource
created so far is rolled back unless --keep-on-failure is set.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCreate(cmd, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.app, "app", "a", "", "Application to install (see 'lxcup apps')")
	cmd.Flags().IntVar(&flags.ctid, "ctid", 0, "Container ID (defaults to the next free ID)")
	cmd.Flags().StringVar(&flags.hostname, "hostname", "", "Container hostname (defaults to the app name)")
	cmd.Flags().StringVarP(&flags.storage, "storage", "s", "", "Storage pool for the root disk")
	cmd.Flags().IntVar(&flags.diskGB, "disk", 0, "Root disk size in GiB (per-app default)")
	cmd.Flags().IntVar(&flags.memoryMB, "memory", 0, "Memory in MiB (per-app default)")
	cmd.Flags().IntVar(&flags.cores, "cores", 0, "CPU cores (per-app default)")
	cmd.Flags().StringVar(&flags.bridge, "bridge", "", "Network bridge (default from config)")
	cmd.Flags().StringVar(&flags.ip, "ip", "", "IP address in CIDR form, or 'dhcp'")
	cmd.Flags().StringVar(&flags.gateway, "gateway", "", "Default gateway for static addressing")
	cmd.Flags().BoolVar(&flags.keepOnFailure, "keep-on-failure", false, "Keep partial resources for debugging if provisioning fails")
	cmd.Flags().BoolVar(&flags.plain, "plain", false, "Line-oriented output instead of the progress UI")
	cmd.Flags().BoolVarP(&flags.yes, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}

func runCreate(cmd *cobra.Command, flags createFlags) error {
	settings, err := config.Load()
	if err != nil {
		return err
	}

	catalog, err := apps.Load()
	if err != nil {
		return err
	}

	app, err := resolveApp(catalog, flags)
	if err != nil {
		if errors.Is(err, tui.ErrCancelled) {
			fmt.Println("Aborted.")
			return nil
		}
		return err
	}

	if !flags.yes && !flags.plain {
		if !tui.ConfirmProvision(app, flags.ctid, flags.storage) {
			fmt.Println("Aborted.")
			return nil
		}
	}

	p := provision.New(pve.New(), fetch.New(), settings, log.Default())
	runLog := logging.New(settings.LogDir, p.RunID())
	defer runLog.Close()
	p.SetLogger(runLog.Logger)

	if !flags.plain && flags.storage == "" {
		p.SetPoolSelector(tui.SelectStoragePool)
	}

	// Operator interrupts cancel the run; the provisioner's rollback still
	// completes on a detached context.
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := provision.Options{
		App:           app,
		CTID:          flags.ctid,
		Hostname:      flags.hostname,
		Storage:       flags.storage,
		DiskGB:        flags.diskGB,
		MemoryMB:      flags.memoryMB,
		Cores:         flags.cores,
		Bridge:        flags.bridge,
		IP:            flags.ip,
		Gateway:       flags.gateway,
		KeepOnFailure: flags.keepOnFailure,
	}

	if flags.plain {
		err = create.RunPlain(ctx, p, opts)
	} else {
		err = create.Run(ctx, p, opts)
	}
	if err != nil && runLog.Path != "" {
		fmt.Fprintf(os.Stderr, "Full transcript: %s\n", runLog.Path)
	}
	return err
}

func resolveApp(catalog *apps.Catalog, flags createFlags) (*apps.App, error) {
	if flags.app != "" {
		return catalog.Get(flags.app)
	}
	if flags.plain {
		return nil, fmt.Errorf("--app is required with --plain")
	}
	return tui.SelectApp(catalog)
}
