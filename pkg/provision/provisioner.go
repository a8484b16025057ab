// Package provision sequences the creation of an application container:
// storage selection, template resolution, rootfs allocation, container
// create/start, and the guest-side install. Steps run strictly in series;
// the first failure rolls back every resource acquired so far.
package provision

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/jaspreet-dot-casa/lxcup/pkg/apps"
	"github.com/jaspreet-dot-casa/lxcup/pkg/config"
	"github.com/jaspreet-dot-casa/lxcup/pkg/fetch"
	"github.com/jaspreet-dot-casa/lxcup/pkg/guest"
	"github.com/jaspreet-dot-casa/lxcup/pkg/pve"
)

// PoolSelector resolves an interactive choice between multiple eligible
// storage pools. It is only consulted when more than one pool qualifies.
type PoolSelector func(pools []pve.StoragePool) (pve.StoragePool, error)

// Provisioner drives one container provisioning run.
type Provisioner struct {
	pve        *pve.Client
	fetcher    *fetch.Fetcher
	settings   *config.Settings
	log        *log.Logger
	selectPool PoolSelector
	runID      string
}

// New creates a provisioner.
func New(client *pve.Client, fetcher *fetch.Fetcher, settings *config.Settings, logger *log.Logger) *Provisioner {
	return &Provisioner{
		pve:      client,
		fetcher:  fetcher,
		settings: settings,
		log:      logger,
		runID:    uuid.NewString(),
	}
}

// RunID identifies this provisioning run (log file naming, guest metadata).
func (p *Provisioner) RunID() string {
	return p.runID
}

// SetLogger replaces the provisioner's logger. Useful when the run log file
// is named after the provisioner's own run ID.
func (p *Provisioner) SetLogger(logger *log.Logger) {
	p.log = logger
}

// SetPoolSelector installs the interactive pool chooser.
func (p *Provisioner) SetPoolSelector(fn PoolSelector) {
	p.selectPool = fn
}

// Options configures one provisioning run. Zero values fall back to the
// application catalog entry, then to host settings.
type Options struct {
	App      *apps.App
	CTID     int    // 0 reserves the next free ID
	Hostname string // defaults to the app name
	Storage  string // pool name; empty selects automatically or interactively
	DiskGB   int
	MemoryMB int
	Cores    int
	Bridge   string
	IP       string
	Gateway  string
	// KeepOnFailure skips rollback so a failed container can be inspected.
	KeepOnFailure bool
}

// Result is the outcome of a provisioning run.
type Result struct {
	Success  bool
	App      string
	CTID     int
	Hostname string
	IP       string
	Duration time.Duration
	Outputs  map[string]string
	Logs     []string
	Error    error
}

// Provision runs the full sequence. The returned Result is non-nil in every
// case; on failure Result.Error matches the returned error and all acquired
// resources have been released (unless KeepOnFailure was set).
func (p *Provisioner) Provision(ctx context.Context, opts Options, progress Callback) (*Result, error) {
	if progress == nil {
		progress = NoOpProgress
	}

	app := opts.App
	result := &Result{
		App:     app.Name,
		Outputs: make(map[string]string),
		Logs:    make([]string, 0),
	}
	start := time.Now()
	rc := &runContext{}

	fail := func(stage Stage, err error) (*Result, error) {
		progress(newErrorEvent(err.Error()))
		p.log.Error("provisioning failed", "step", stage.String(), "err", err)
		if opts.KeepOnFailure {
			p.log.Warn("keeping partial resources for inspection", "ctid", rc.ctid)
		} else {
			p.rollback(ctx, rc, result, progress)
		}
		result.Error = err
		result.Duration = time.Since(start)
		return result, err
	}

	// Stage 1: host environment.
	progress(newEvent(StageValidating, "Validating host environment...", 5))
	if err := p.pve.CheckInstalled(); err != nil {
		return fail(StageValidating, err)
	}

	// Stage 2: storage pool. Must resolve before any container ID is
	// reserved so a host with no eligible storage allocates nothing.
	progress(newEventWithCommand(StageStorage, "Discovering storage pools...",
		"pvesm status -content rootdir", 10))
	pools, err := p.pve.RootDirPools(ctx)
	if err != nil {
		return fail(StageStorage, err)
	}
	pool, err := p.choosePool(pools, opts.Storage)
	if err != nil {
		return fail(StageStorage, err)
	}
	result.Outputs["storage"] = pool.Name
	p.log.Info("storage pool selected", "pool", pool.Name, "type", pool.Type, "free", pool.FreeString())

	// Stage 3: container ID.
	ctid := opts.CTID
	if ctid == 0 {
		if ctid, err = p.pve.NextID(ctx); err != nil {
			return fail(StageStorage, err)
		}
	}
	rc.ctid = ctid
	hostname := opts.Hostname
	if hostname == "" {
		hostname = app.Name
	}
	result.CTID = ctid
	result.Hostname = hostname
	p.log.Info("container ID reserved", "ctid", ctid, "hostname", hostname)

	// Stage 4: OS template.
	progress(newEventWithCommand(StageTemplate, "Resolving OS template...",
		"pveam available -section system", 20))
	available, err := p.pve.AvailableTemplates(ctx)
	if err != nil {
		return fail(StageTemplate, err)
	}
	tmplName, err := pve.ResolveTemplate(available, app.TemplatePrefix)
	if err != nil {
		return fail(StageTemplate, err)
	}
	progress(newEventWithDetail(StageTemplate, "Downloading OS template...", tmplName, 25))
	tmplVol, err := p.pve.EnsureTemplate(ctx, p.settings.TemplateStorage, tmplName)
	if err != nil {
		return fail(StageTemplate, err)
	}
	result.Outputs["template"] = tmplName
	p.log.Info("template ready", "template", tmplVol)

	// Stage 5: rootfs allocation.
	diskGB := opts.DiskGB
	if diskGB == 0 {
		diskGB = app.DiskGB
	}
	progress(newEventWithDetail(StageDisk, "Allocating root filesystem...",
		fmt.Sprintf("%d GiB on %s", diskGB, pool.Name), 35))
	rootfs, err := p.pve.AllocRootFS(ctx, pool, ctid, diskGB)
	if rootfs != nil && rootfs.VolID != "" {
		volID := rootfs.VolID
		rc.acquire("rootfs volume", func(ctx context.Context) error {
			return p.pve.FreeVolume(ctx, volID)
		})
	}
	if err != nil {
		return fail(StageDisk, err)
	}
	if rootfs.Warning != "" {
		p.log.Warn(rootfs.Warning, "pool", pool.Name)
		progress(newEventWithDetail(StageDisk, "Allocating root filesystem...", rootfs.Warning, 38))
	}

	// Stage 6: create. Ownership of the rootfs volume passes to the
	// container: destroying it releases the disk, so the standalone free
	// entry is superseded.
	cfg := p.containerConfig(opts, app, ctid, hostname, tmplVol, rootfs)
	progress(newEventWithCommand(StageCreating, fmt.Sprintf("Creating container %d...", ctid),
		fmt.Sprintf("pct create %d %s", ctid, tmplVol), 45))
	if err := p.pve.Create(ctx, cfg); err != nil {
		return fail(StageCreating, err)
	}
	rc.supersede("rootfs volume")
	rc.acquire("container", func(ctx context.Context) error {
		return p.pve.Destroy(ctx, ctid)
	})

	// Stage 7: inject provision metadata through a mount window.
	progress(newEvent(StageConfiguring, "Writing provision metadata...", 55))
	if err := p.injectMetadata(ctx, ctid, app, hostname, tmplName); err != nil {
		return fail(StageConfiguring, err)
	}

	// Stage 8: start.
	progress(newEventWithCommand(StageStarting, "Starting container...",
		fmt.Sprintf("pct start %d", ctid), 65))
	if err := p.pve.Start(ctx, ctid); err != nil {
		return fail(StageStarting, err)
	}
	rc.acquire("running container", func(ctx context.Context) error {
		// The guest may already have gone down with the failure; only a
		// container still running needs an explicit stop.
		if status, statusErr := p.pve.Status(ctx, ctid); statusErr == nil && status != "running" {
			return nil
		}
		return p.pve.Stop(ctx, ctid)
	})

	// Stage 9: transfer the unit file and the installer script.
	progress(newEventWithDetail(StageTransfer, "Transferring installer...", app.UnitURL, 75))
	if err := p.transferPayloads(ctx, ctid, app); err != nil {
		return fail(StageTransfer, err)
	}

	// Stage 10: run the guest installer.
	progress(newEventWithCommand(StageInstalling, fmt.Sprintf("Installing %s...", app.Title),
		fmt.Sprintf("pct exec %d -- bash %s", ctid, guest.ScriptPath), 85))
	out, err := p.pve.Exec(ctx, ctid, "bash", guest.ScriptPath)
	result.Logs = append(result.Logs, nonEmptyLines(out)...)
	if err != nil {
		return fail(StageInstalling, err)
	}

	// Stage 11: read back the assigned address. The installer reports it as
	// its final output line; fall back to asking the container directly.
	progress(newEvent(StageVerifying, "Reading container address...", 95))
	ip := lastIPv4(out)
	if ip == "" {
		if ip, err = p.pve.IPv4(ctx, ctid); err != nil {
			return fail(StageVerifying, err)
		}
	}
	result.IP = ip
	result.Outputs["ip"] = ip
	result.Outputs["run_id"] = p.runID
	if app.Port != 0 {
		result.Outputs["url"] = fmt.Sprintf("http://%s:%d", ip, app.Port)
	}

	progress(newEvent(StageComplete, fmt.Sprintf("%s is ready", app.Title), 100))
	p.log.Info("provisioning complete", "ctid", ctid, "ip", ip, "duration", time.Since(start).Round(time.Second))

	result.Success = true
	result.Duration = time.Since(start)
	return result, nil
}

// choosePool reduces the eligible pools to exactly one, per the selection
// policy: zero is fatal, one is automatic, multiple go to the operator (or
// to the requested pool name when given).
func (p *Provisioner) choosePool(pools []pve.StoragePool, requested string) (pve.StoragePool, error) {
	if len(pools) == 0 {
		return pve.StoragePool{}, fmt.Errorf("no storage pool supports container root disks")
	}

	if requested != "" {
		for _, pool := range pools {
			if pool.Name == requested {
				return pool, nil
			}
		}
		return pve.StoragePool{}, fmt.Errorf("storage pool %q is not eligible for container root disks", requested)
	}

	if len(pools) == 1 {
		return pools[0], nil
	}

	if p.selectPool == nil {
		names := make([]string, len(pools))
		for i, pool := range pools {
			names[i] = pool.Name
		}
		return pve.StoragePool{}, fmt.Errorf("multiple storage pools are eligible (%s); pass --storage", strings.Join(names, ", "))
	}
	return p.selectPool(pools)
}

// containerConfig assembles the pct create descriptor from options, app
// defaults, and host settings.
func (p *Provisioner) containerConfig(opts Options, app *apps.App, ctid int, hostname, tmplVol string, rootfs *pve.RootFS) pve.ContainerConfig {
	cores := opts.Cores
	if cores == 0 {
		cores = app.Cores
	}
	memory := opts.MemoryMB
	if memory == 0 {
		memory = app.MemoryMB
	}
	bridge := opts.Bridge
	if bridge == "" {
		bridge = p.settings.Bridge
	}
	ip := opts.IP
	if ip == "" {
		ip = p.settings.IP
	}
	gateway := opts.Gateway
	if gateway == "" {
		gateway = p.settings.Gateway
	}

	return pve.ContainerConfig{
		CTID:         ctid,
		Hostname:     hostname,
		TemplateVol:  tmplVol,
		RootFSVol:    rootfs.VolID,
		RootFSSizeGB: rootfs.SizeGB,
		OSType:       app.OSType,
		Arch:         p.settings.Arch,
		Cores:        cores,
		MemoryMB:     memory,
		Bridge:       bridge,
		IP:           ip,
		Gateway:      gateway,
		Unprivileged: app.Unprivileged,
		Features:     app.Features,
		OnBoot:       p.settings.OnBoot,
	}
}

// transferPayloads fetches the app's systemd unit and pushes it plus the
// rendered installer script into the running container.
func (p *Provisioner) transferPayloads(ctx context.Context, ctid int, app *apps.App) error {
	tmpDir, err := os.MkdirTemp("", "lxcup-")
	if err != nil {
		return fmt.Errorf("failed to create staging directory: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	unitHost := filepath.Join(tmpDir, app.UnitName)
	if err := p.fetcher.Fetch(ctx, fetch.Options{URL: app.UnitURL, DestPath: unitHost}); err != nil {
		return err
	}
	if err := p.pve.Push(ctx, ctid, unitHost, guest.UnitPath(app), "0644"); err != nil {
		return err
	}

	script, err := guest.RenderInstaller(app)
	if err != nil {
		return err
	}
	scriptHost := filepath.Join(tmpDir, "lxcup-install.sh")
	if err := os.WriteFile(scriptHost, script, 0o700); err != nil {
		return fmt.Errorf("failed to stage installer script: %w", err)
	}
	return p.pve.Push(ctx, ctid, scriptHost, guest.ScriptPath, "0755")
}

// rollback releases acquired resources in reverse. It survives an
// already-cancelled run context so operator interrupts still tear down.
func (p *Provisioner) rollback(ctx context.Context, rc *runContext, result *Result, progress Callback) {
	if len(rc.resources) == 0 {
		return
	}

	progress(newEvent(StageCleanup, "Rolling back...", -1))
	p.log.Info("rolling back", "ctid", rc.ctid, "resources", len(rc.resources))

	cleanupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Minute)
	defer cancel()

	for _, err := range rc.unwind(cleanupCtx) {
		p.log.Error("rollback step failed", "err", err)
		result.Logs = append(result.Logs, "rollback: "+err.Error())
	}
}

var ipv4Re = regexp.MustCompile(`^(\d+\.\d+\.\d+\.\d+)$`)

// lastIPv4 returns the trailing IPv4 line of installer output, if any.
func lastIPv4(out string) string {
	lines := nonEmptyLines(out)
	if len(lines) == 0 {
		return ""
	}
	if m := ipv4Re.FindStringSubmatch(strings.TrimSpace(lines[len(lines)-1])); m != nil {
		return m[1]
	}
	return ""
}

func nonEmptyLines(out string) []string {
	var lines []string
	for _, line := range strings.Split(out, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
