package pkgmgr

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/pkgbisect/pkgbisect/internal/delta"
	"github.com/pkgbisect/pkgbisect/internal/plan"
)

// Pacman implements Manager for Arch-family systems.
type Pacman struct{}

// NewPacman creates a new Pacman manager.
func NewPacman() *Pacman {
	return &Pacman{}
}

// Name returns "pacman".
func (m *Pacman) Name() string { return "pacman" }

// ListInstalled parses `pacman -Q` into a manifest.
func (m *Pacman) ListInstalled(ctx context.Context) (delta.Manifest, error) {
	out, err := runCommand(ctx, "pacman", "-Q")
	if err != nil {
		return nil, err
	}
	return parseNameVersionLines(out)
}

// Command renders the shell command realizing the operation. Versioned
// installs go through the local package cache, which is where previously
// installed versions live on Arch.
func (m *Pacman) Command(op plan.Operation) string {
	switch op.Op {
	case plan.OpInstall:
		return fmt.Sprintf("sudo pacman -U --noconfirm /var/cache/pacman/pkg/%s-%s-*.pkg.tar.*",
			op.Name, op.Version)
	case plan.OpRemove:
		return fmt.Sprintf("sudo pacman -R --noconfirm %s", op.Name)
	default:
		return ""
	}
}

// Apply executes the plan's operations in order.
func (m *Pacman) Apply(ctx context.Context, ops []plan.Operation) error {
	return applyOps(ctx, m, ops)
}

// Remedies suggests follow-up actions for the culprit.
func (m *Pacman) Remedies(culprit delta.PackageDelta) []string {
	var out []string

	switch culprit.Kind {
	case delta.KindUpgraded:
		out = append(out,
			fmt.Sprintf("downgrade: %s", m.Command(plan.Operation{Op: plan.OpInstall, Name: culprit.Name, Version: culprit.FromVersion})),
			fmt.Sprintf("pin: add 'IgnorePkg = %s' to /etc/pacman.conf to skip future updates", culprit.Name),
			fmt.Sprintf("remove: %s", m.Command(plan.Operation{Op: plan.OpRemove, Name: culprit.Name})),
		)
	case delta.KindAdded:
		out = append(out,
			fmt.Sprintf("remove: %s", m.Command(plan.Operation{Op: plan.OpRemove, Name: culprit.Name})),
		)
	case delta.KindRemoved:
		out = append(out,
			fmt.Sprintf("reinstall: %s", m.Command(plan.Operation{Op: plan.OpInstall, Name: culprit.Name, Version: culprit.FromVersion})),
		)
	case delta.KindDowngraded:
		out = append(out,
			fmt.Sprintf("restore: %s", m.Command(plan.Operation{Op: plan.OpInstall, Name: culprit.Name, Version: culprit.FromVersion})),
			fmt.Sprintf("pin: add 'IgnorePkg = %s' to /etc/pacman.conf", culprit.Name),
		)
	}

	out = append(out, fmt.Sprintf("report: https://bugs.archlinux.org/?project=0&string=%s", culprit.Name))
	return out
}

// parseNameVersionLines parses "name version" pairs, one per line, the
// format shared by `pacman -Q` and rpm's queryformat output.
func parseNameVersionLines(out []byte) (delta.Manifest, error) {
	manifest := delta.Manifest{}

	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			return nil, fmt.Errorf("unparsable package line %q", line)
		}
		manifest[fields[0]] = fields[1]
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan package list: %w", err)
	}

	return manifest, nil
}
