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

// Dpkg implements Manager for Debian-family systems. Mutating commands go
// through apt-get; the manifest comes from dpkg itself.
type Dpkg struct{}

// NewDpkg creates a new Dpkg manager.
func NewDpkg() *Dpkg {
	return &Dpkg{}
}

// Name returns "dpkg".
func (m *Dpkg) Name() string { return "dpkg" }

// ListInstalled parses `dpkg -l` into a manifest, keeping only fully
// installed ("ii") packages.
func (m *Dpkg) ListInstalled(ctx context.Context) (delta.Manifest, error) {
	out, err := runCommand(ctx, "dpkg", "-l")
	if err != nil {
		return nil, err
	}
	return parseDpkgList(out)
}

// Command renders the shell command realizing the operation.
func (m *Dpkg) Command(op plan.Operation) string {
	switch op.Op {
	case plan.OpInstall:
		return fmt.Sprintf("sudo apt-get install -y --allow-downgrades %s=%s", op.Name, op.Version)
	case plan.OpRemove:
		return fmt.Sprintf("sudo apt-get remove -y %s", op.Name)
	default:
		return ""
	}
}

// Apply executes the plan's operations in order.
func (m *Dpkg) Apply(ctx context.Context, ops []plan.Operation) error {
	return applyOps(ctx, m, ops)
}

// Remedies suggests follow-up actions for the culprit.
func (m *Dpkg) Remedies(culprit delta.PackageDelta) []string {
	var out []string

	switch culprit.Kind {
	case delta.KindUpgraded:
		out = append(out,
			fmt.Sprintf("downgrade: %s", m.Command(plan.Operation{Op: plan.OpInstall, Name: culprit.Name, Version: culprit.FromVersion})),
			fmt.Sprintf("pin: sudo apt-mark hold %s", culprit.Name),
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
			fmt.Sprintf("pin: sudo apt-mark hold %s", culprit.Name),
		)
	}

	out = append(out, fmt.Sprintf("report: https://bugs.debian.org/%s", culprit.Name))
	return out
}

// parseDpkgList extracts name and version from `dpkg -l` output. Only lines
// with the "ii" desired/current status are installed packages.
func parseDpkgList(out []byte) (delta.Manifest, error) {
	manifest := delta.Manifest{}

	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "ii") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 3 {
			return nil, fmt.Errorf("unparsable dpkg line %q", line)
		}
		// Architecture-qualified names ("libc6:amd64") collapse to the
		// package name.
		name := strings.SplitN(fields[1], ":", 2)[0]
		manifest[name] = fields[2]
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan dpkg output: %w", err)
	}

	return manifest, nil
}
