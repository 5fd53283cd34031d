package pkgmgr

import (
	"context"
	"fmt"

	"github.com/pkgbisect/pkgbisect/internal/delta"
	"github.com/pkgbisect/pkgbisect/internal/plan"
)

// Rpm implements Manager for Fedora/RHEL-family systems. Mutating commands
// go through dnf; the manifest comes from rpm itself.
type Rpm struct{}

// NewRpm creates a new Rpm manager.
func NewRpm() *Rpm {
	return &Rpm{}
}

// Name returns "rpm".
func (m *Rpm) Name() string { return "rpm" }

// ListInstalled queries the rpm database with an explicit format so the
// output is unambiguous "name version" pairs instead of the default
// name-version-release blob.
func (m *Rpm) ListInstalled(ctx context.Context) (delta.Manifest, error) {
	out, err := runCommand(ctx, "rpm", "-qa", "--queryformat", "%{NAME} %{EVR}\\n")
	if err != nil {
		return nil, err
	}
	return parseNameVersionLines(out)
}

// Command renders the shell command realizing the operation.
func (m *Rpm) Command(op plan.Operation) string {
	switch op.Op {
	case plan.OpInstall:
		return fmt.Sprintf("sudo dnf install -y %s-%s", op.Name, op.Version)
	case plan.OpRemove:
		return fmt.Sprintf("sudo dnf remove -y %s", op.Name)
	default:
		return ""
	}
}

// Apply executes the plan's operations in order.
func (m *Rpm) Apply(ctx context.Context, ops []plan.Operation) error {
	return applyOps(ctx, m, ops)
}

// Remedies suggests follow-up actions for the culprit.
func (m *Rpm) Remedies(culprit delta.PackageDelta) []string {
	var out []string

	switch culprit.Kind {
	case delta.KindUpgraded:
		out = append(out,
			fmt.Sprintf("downgrade: sudo dnf downgrade -y %s-%s", culprit.Name, culprit.FromVersion),
			fmt.Sprintf("pin: add 'exclude=%s' to /etc/dnf/dnf.conf to skip future updates", culprit.Name),
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
			fmt.Sprintf("pin: add 'exclude=%s' to /etc/dnf/dnf.conf", culprit.Name),
		)
	}

	out = append(out, fmt.Sprintf("report: https://bugzilla.redhat.com/enter_bug.cgi?product=Fedora&component=%s", culprit.Name))
	return out
}
