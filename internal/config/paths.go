// Package config manages pkgbisect configuration and filesystem paths.
//
// The default root is ~/.pkgbisect/ containing sessions/ and config.yaml,
// overridable via the PKGBISECT_ROOT environment variable.
package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths contains all the filesystem paths used by pkgbisect.
type Paths struct {
	// Root is the base directory for all pkgbisect data
	// (default: ~/.pkgbisect)
	Root string

	// Sessions is the directory containing session state files
	Sessions string

	// Config is the path to the config file
	Config string
}

// DefaultPaths returns the default paths for pkgbisect. The root directory
// can be overridden with the PKGBISECT_ROOT environment variable.
func DefaultPaths() (*Paths, error) {
	root := os.Getenv("PKGBISECT_ROOT")
	if root == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		root = filepath.Join(home, ".pkgbisect")
	}

	return &Paths{
		Root:     root,
		Sessions: filepath.Join(root, "sessions"),
		Config:   filepath.Join(root, "config.yaml"),
	}, nil
}

// EnsureDirectories creates all necessary directories if they don't exist.
func (p *Paths) EnsureDirectories() error {
	for _, dir := range []string{p.Root, p.Sessions} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}
