package pkgmgr

import (
	"context"
	"fmt"

	"github.com/pkgbisect/pkgbisect/internal/delta"
	"github.com/pkgbisect/pkgbisect/internal/plan"
)

// FakeManager implements Manager with canned data for testing.
type FakeManager struct {
	// Installed is the manifest returned by ListInstalled.
	Installed delta.Manifest

	// Applied records every operation handed to Apply, in order.
	Applied []plan.Operation

	// Err, when set, is returned by ListInstalled and Apply.
	Err error
}

// NewFakeManager creates a FakeManager with the given manifest.
func NewFakeManager(installed delta.Manifest) *FakeManager {
	return &FakeManager{Installed: installed}
}

// Name returns "fake".
func (m *FakeManager) Name() string { return "fake" }

// ListInstalled returns the canned manifest.
func (m *FakeManager) ListInstalled(ctx context.Context) (delta.Manifest, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Installed, nil
}

// Command renders a recognizable fake command.
func (m *FakeManager) Command(op plan.Operation) string {
	switch op.Op {
	case plan.OpInstall:
		return fmt.Sprintf("fake install %s %s", op.Name, op.Version)
	case plan.OpRemove:
		return fmt.Sprintf("fake remove %s", op.Name)
	default:
		return ""
	}
}

// Apply records the operations.
func (m *FakeManager) Apply(ctx context.Context, ops []plan.Operation) error {
	if m.Err != nil {
		return m.Err
	}
	m.Applied = append(m.Applied, ops...)
	return nil
}

// Remedies returns one fake suggestion.
func (m *FakeManager) Remedies(culprit delta.PackageDelta) []string {
	return []string{fmt.Sprintf("fake remedy for %s", culprit.Name)}
}
