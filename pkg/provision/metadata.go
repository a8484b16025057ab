package provision

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jaspreet-dot-casa/lxcup/pkg/apps"
)

// metadataPath is where the provision record lands inside the container,
// relative to its rootfs.
const metadataPath = "etc/lxcup/instance.yaml"

// instanceMetadata records how a container was provisioned. It is written
// into the container before first boot so the guest can identify itself.
type instanceMetadata struct {
	RunID     string    `yaml:"run_id"`
	App       string    `yaml:"app"`
	CTID      int       `yaml:"ctid"`
	Hostname  string    `yaml:"hostname"`
	Template  string    `yaml:"template"`
	CreatedAt time.Time `yaml:"created_at"`
}

// injectMetadata mounts the stopped container's rootfs, writes the provision
// record into it, and unmounts. The unmount runs even when the write fails.
func (p *Provisioner) injectMetadata(ctx context.Context, ctid int, app *apps.App, hostname, template string) error {
	meta := instanceMetadata{
		RunID:     p.runID,
		App:       app.Name,
		CTID:      ctid,
		Hostname:  hostname,
		Template:  template,
		CreatedAt: time.Now().UTC(),
	}

	data, err := yaml.Marshal(meta)
	if err != nil {
		return fmt.Errorf("failed to encode provision metadata: %w", err)
	}

	mountpoint, err := p.pve.Mount(ctx, ctid)
	if err != nil {
		return err
	}

	writeErr := writeMetadataFile(mountpoint, data)
	unmountErr := p.pve.Unmount(ctx, ctid)

	if writeErr != nil {
		return writeErr
	}
	return unmountErr
}

func writeMetadataFile(mountpoint string, data []byte) error {
	dest := filepath.Join(mountpoint, metadataPath)
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("failed to create metadata directory: %w", err)
	}
	if err := os.WriteFile(dest, data, 0o644); err != nil {
		return fmt.Errorf("failed to write provision metadata: %w", err)
	}
	return nil
}
