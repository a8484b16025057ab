// Package config loads lxcup host defaults from file and environment.
package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

// Settings are the host-side provisioning defaults. Per-app values from the
// catalog and command-line flags take precedence over these.
type Settings struct {
	// Bridge is the network bridge containers attach to.
	Bridge string `mapstructure:"bridge"`
	// IP is the container address config: "dhcp" or a CIDR static address.
	IP string `mapstructure:"ip"`
	// Gateway for static addressing; ignored with dhcp.
	Gateway string `mapstructure:"gateway"`
	// Arch of the container templates.
	Arch string `mapstructure:"arch"`
	// TemplateStorage is the pool OS templates are downloaded to.
	TemplateStorage string `mapstructure:"template_storage"`
	// LogDir receives the per-run transcript files.
	LogDir string `mapstructure:"log_dir"`
	// OnBoot starts provisioned containers when the host boots.
	OnBoot bool `mapstructure:"onboot"`
}

// Load reads settings from /etc/lxcup/config.yaml (or
// $XDG_CONFIG_HOME/lxcup/config.yaml), overridden by LXCUP_* environment
// variables. A missing config file is fine; defaults apply.
func Load() (*Settings, error) {
	v := viper.New()

	v.SetDefault("bridge", "vmbr0")
	v.SetDefault("ip", "dhcp")
	v.SetDefault("gateway", "")
	v.SetDefault("arch", "amd64")
	v.SetDefault("template_storage", "local")
	v.SetDefault("log_dir", "/var/log/lxcup")
	v.SetDefault("onboot", true)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("/etc/lxcup")
	v.AddConfigPath("$XDG_CONFIG_HOME/lxcup")
	v.AddConfigPath("$HOME/.config/lxcup")

	v.SetEnvPrefix("LXCUP")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &s, nil
}
