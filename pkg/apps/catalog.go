// Package apps holds the catalog of applications lxcup can install into a
// container.
package apps

import (
	_ "embed"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed apps.yaml
var catalogYAML []byte

// App describes one installable application: the container it needs and the
// guest-side install plan.
type App struct {
	Name        string `yaml:"name"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`

	// Container requirements.
	TemplatePrefix string `yaml:"template_prefix"`
	OSType         string `yaml:"ostype"`
	DiskGB         int    `yaml:"disk_gb"`
	MemoryMB       int    `yaml:"memory_mb"`
	Cores          int    `yaml:"cores"`
	Unprivileged   bool   `yaml:"unprivileged"`
	Features       string `yaml:"features"`
	Port           int    `yaml:"port"`

	// Guest install plan.
	Packages      []string `yaml:"packages"`
	SetupCommands []string `yaml:"setup_commands"`
	UnitName      string   `yaml:"unit_name"`
	UnitURL       string   `yaml:"unit_url"`
}

// Catalog is the set of known applications.
type Catalog struct {
	Apps []App `yaml:"apps"`
}

// Load parses the embedded catalog.
func Load() (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(catalogYAML, &c); err != nil {
		return nil, fmt.Errorf("failed to parse application catalog: %w", err)
	}

	for i, app := range c.Apps {
		if err := app.validate(); err != nil {
			return nil, fmt.Errorf("catalog entry %d (%s): %w", i, app.Name, err)
		}
	}
	return &c, nil
}

func (a App) validate() error {
	switch {
	case a.Name == "":
		return fmt.Errorf("missing name")
	case a.TemplatePrefix == "":
		return fmt.Errorf("missing template_prefix")
	case a.OSType == "":
		return fmt.Errorf("missing ostype")
	case a.UnitName == "" || a.UnitURL == "":
		return fmt.Errorf("missing systemd unit reference")
	case a.DiskGB <= 0 || a.MemoryMB <= 0 || a.Cores <= 0:
		return fmt.Errorf("invalid resource sizing")
	}
	return nil
}

// Get looks up an application by name.
func (c *Catalog) Get(name string) (*App, error) {
	for i := range c.Apps {
		if c.Apps[i].Name == name {
			return &c.Apps[i], nil
		}
	}
	return nil, fmt.Errorf("unknown application %q (available: %v)", name, c.Names())
}

// Names returns the sorted application names.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.Apps))
	for _, app := range c.Apps {
		names = append(names, app.Name)
	}
	sort.Strings(names)
	return names
}
