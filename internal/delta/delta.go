package delta

import (
	"errors"
	"fmt"
)

// Kind classifies how a package changed between the good and bad snapshots.
type Kind string

// Package change kinds.
const (
	KindAdded      Kind = "added"
	KindRemoved    Kind = "removed"
	KindUpgraded   Kind = "upgraded"
	KindDowngraded Kind = "downgraded"
)

// PackageDelta describes a single package's state change between two
// snapshots. FromVersion is empty iff the package was added; ToVersion is
// empty iff it was removed.
type PackageDelta struct {
	// Name is the package identifier, unique within a DeltaSet.
	Name string `json:"name"`

	// Kind is the change classification.
	Kind Kind `json:"kind"`

	// FromVersion is the version installed in the good snapshot.
	FromVersion string `json:"fromVersion,omitempty"`

	// ToVersion is the version installed in the bad snapshot.
	ToVersion string `json:"toVersion,omitempty"`
}

// Validate checks the internal consistency of the delta: the kind must match
// the presence of the version fields, and both-present versions must differ.
func (d PackageDelta) Validate() error {
	if d.Name == "" {
		return errors.New("delta has empty package name")
	}

	switch d.Kind {
	case KindAdded:
		if d.FromVersion != "" || d.ToVersion == "" {
			return fmt.Errorf("added delta %q must have only a target version", d.Name)
		}
	case KindRemoved:
		if d.FromVersion == "" || d.ToVersion != "" {
			return fmt.Errorf("removed delta %q must have only a source version", d.Name)
		}
	case KindUpgraded, KindDowngraded:
		if d.FromVersion == "" || d.ToVersion == "" {
			return fmt.Errorf("%s delta %q must have both versions", d.Kind, d.Name)
		}
		if d.FromVersion == d.ToVersion {
			return fmt.Errorf("%s delta %q has identical versions %q", d.Kind, d.Name, d.FromVersion)
		}
	default:
		return fmt.Errorf("delta %q has unknown kind %q", d.Name, d.Kind)
	}

	return nil
}

// String renders the delta in a compact human-readable form.
func (d PackageDelta) String() string {
	switch d.Kind {
	case KindAdded:
		return fmt.Sprintf("%s (added %s)", d.Name, d.ToVersion)
	case KindRemoved:
		return fmt.Sprintf("%s (removed, was %s)", d.Name, d.FromVersion)
	default:
		return fmt.Sprintf("%s (%s %s -> %s)", d.Name, d.Kind, d.FromVersion, d.ToVersion)
	}
}
