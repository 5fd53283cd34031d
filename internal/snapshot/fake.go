package snapshot

import (
	"context"
	"fmt"

	"github.com/pkgbisect/pkgbisect/internal/delta"
)

// FakeSource implements Source with canned snapshots and manifests for
// testing.
type FakeSource struct {
	// Snapshots is the canned listing.
	Snapshots []Snapshot

	// Manifests maps snapshot ids to their package manifests. IDs
	// present in Snapshots but absent here resolve to
	// ErrManifestUnavailable.
	Manifests map[string]delta.Manifest

	// Err, when set, is returned by List and Manifest.
	Err error
}

// NewFakeSource creates a FakeSource listing the given snapshots in order.
func NewFakeSource(snaps []Snapshot, manifests map[string]delta.Manifest) *FakeSource {
	return &FakeSource{Snapshots: snaps, Manifests: manifests}
}

// Name returns "fake".
func (s *FakeSource) Name() string { return "fake" }

// List returns the canned snapshots.
func (s *FakeSource) List(ctx context.Context) ([]Snapshot, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Snapshots, nil
}

// Manifest resolves against the canned map.
func (s *FakeSource) Manifest(ctx context.Context, id string) (delta.Manifest, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if m, ok := s.Manifests[id]; ok {
		return m, nil
	}
	for _, snap := range s.Snapshots {
		if snap.ID == id {
			return nil, fmt.Errorf("%w: fake snapshot %q has no manifest", ErrManifestUnavailable, id)
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrSnapshotNotFound, id)
}
