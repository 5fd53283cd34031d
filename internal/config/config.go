package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds user-set options from config.yaml. Every field is optional;
// the zero value means autodetect or unset.
type Config struct {
	// Backend forces a snapshot backend ("timeshift", "snapper",
	// "btrfs", "lvm") instead of autodetection.
	Backend string `yaml:"backend"`

	// Manager forces a package manager ("pacman", "dpkg", "rpm")
	// instead of autodetection.
	Manager string `yaml:"manager"`

	// TestCommand is the default command run by `pkgbisect check`.
	TestCommand string `yaml:"test_command"`
}

// Load reads the config file at path. A missing file is not an error and
// yields the zero config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return &cfg, nil
}
