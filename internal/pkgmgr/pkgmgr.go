// Package pkgmgr abstracts the host package manager.
//
// The bisection core only consumes manifests and emits operation sequences;
// this package binds those shapes to a concrete backend (pacman, dpkg or
// rpm): reading the installed-package manifest, rendering the shell command
// that realizes a planned operation, executing a plan, and suggesting
// remedies for an identified culprit.
package pkgmgr

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/pkgbisect/pkgbisect/internal/delta"
	"github.com/pkgbisect/pkgbisect/internal/plan"
)

var (
	// ErrNoManager indicates no supported package manager was found on
	// the host.
	ErrNoManager = errors.New("no supported package manager found (need pacman, dpkg or rpm)")

	// ErrUnknownManager indicates a configured manager name outside the
	// supported set.
	ErrUnknownManager = errors.New("unknown package manager")
)

// Manager provides the package-manager capability the engine depends on.
type Manager interface {
	// Name returns the backend name ("pacman", "dpkg", "rpm").
	Name() string

	// ListInstalled returns the manifest of currently installed packages.
	ListInstalled(ctx context.Context) (delta.Manifest, error)

	// Command renders the shell command realizing the operation. No-ops
	// render to the empty string.
	Command(op plan.Operation) string

	// Apply executes a plan's operations in order.
	Apply(ctx context.Context, ops []plan.Operation) error

	// Remedies returns suggested follow-up actions for the culprit,
	// most recommended first.
	Remedies(culprit delta.PackageDelta) []string
}

// Detect probes the host for a supported package manager, preferring pacman,
// then dpkg, then rpm.
func Detect() (Manager, error) {
	if _, err := exec.LookPath("pacman"); err == nil {
		return NewPacman(), nil
	}
	if _, err := exec.LookPath("dpkg"); err == nil {
		return NewDpkg(), nil
	}
	if _, err := exec.LookPath("rpm"); err == nil {
		return NewRpm(), nil
	}
	return nil, ErrNoManager
}

// ForName returns the manager with the given name, for configuration
// overrides.
func ForName(name string) (Manager, error) {
	switch name {
	case "pacman":
		return NewPacman(), nil
	case "dpkg":
		return NewDpkg(), nil
	case "rpm":
		return NewRpm(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownManager, name)
	}
}

// runCommand executes a command and returns its stdout.
func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("%s failed: %w", name, err)
	}
	return out, nil
}

// applyOps runs each rendered command through the shell, streaming output to
// the terminal. No-ops are skipped.
func applyOps(ctx context.Context, m Manager, ops []plan.Operation) error {
	for _, op := range ops {
		command := m.Command(op)
		if command == "" {
			continue
		}

		cmd := exec.CommandContext(ctx, "sh", "-c", command)
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
		cmd.Stdin = os.Stdin
		if err := cmd.Run(); err != nil {
			return fmt.Errorf("operation %s %s failed: %w", op.Op, op.Name, err)
		}
	}
	return nil
}
