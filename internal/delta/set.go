package delta

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/pkgbisect/pkgbisect/internal/version"
)

// ErrMalformedManifest indicates a manifest entry with an empty name or an
// unusable version string. The input must be re-collected, not retried.
var ErrMalformedManifest = errors.New("malformed manifest")

// Manifest maps package names to installed versions at one snapshot.
type Manifest map[string]string

// DeltaSet is the ordered set of package changes between two snapshots.
// Entries are sorted lexicographically by name at construction and must not
// be mutated afterwards: a bisect session indexes into them.
type DeltaSet struct {
	// GoodSnapshotID identifies the snapshot where the system worked.
	GoodSnapshotID string `json:"goodSnapshotId"`

	// BadSnapshotID identifies the snapshot where the system was broken.
	BadSnapshotID string `json:"badSnapshotId"`

	// Entries is the deterministic sequence of package deltas.
	Entries []PackageDelta `json:"entries"`
}

// ComputeDelta classifies every package present in either manifest and
// returns the resulting DeltaSet. The result is deterministic for a given
// pair of manifests regardless of map iteration order.
func ComputeDelta(goodID, badID string, good, bad Manifest) (*DeltaSet, error) {
	if err := validateManifest(good); err != nil {
		return nil, fmt.Errorf("good snapshot %s: %w", goodID, err)
	}
	if err := validateManifest(bad); err != nil {
		return nil, fmt.Errorf("bad snapshot %s: %w", badID, err)
	}

	entries := make([]PackageDelta, 0)

	for name, goodVer := range good {
		badVer, inBad := bad[name]
		if !inBad {
			entries = append(entries, PackageDelta{
				Name:        name,
				Kind:        KindRemoved,
				FromVersion: goodVer,
			})
			continue
		}
		if goodVer == badVer {
			continue
		}

		kind := KindUpgraded
		if version.Less(badVer, goodVer) {
			kind = KindDowngraded
		}
		entries = append(entries, PackageDelta{
			Name:        name,
			Kind:        kind,
			FromVersion: goodVer,
			ToVersion:   badVer,
		})
	}

	for name, badVer := range bad {
		if _, inGood := good[name]; !inGood {
			entries = append(entries, PackageDelta{
				Name:      name,
				Kind:      KindAdded,
				ToVersion: badVer,
			})
		}
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name < entries[j].Name
	})

	return &DeltaSet{
		GoodSnapshotID: goodID,
		BadSnapshotID:  badID,
		Entries:        entries,
	}, nil
}

// Len returns the number of package deltas.
func (s *DeltaSet) Len() int {
	return len(s.Entries)
}

// ByKind returns the entries of the given kind, preserving entry order.
func (s *DeltaSet) ByKind(kind Kind) []PackageDelta {
	var out []PackageDelta
	for _, e := range s.Entries {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

// Validate checks the structural invariants of the set: every entry valid,
// names unique, entries sorted by name.
func (s *DeltaSet) Validate() error {
	if s.GoodSnapshotID == "" || s.BadSnapshotID == "" {
		return errors.New("delta set is missing snapshot identifiers")
	}

	for i, e := range s.Entries {
		if err := e.Validate(); err != nil {
			return err
		}
		if i > 0 && s.Entries[i-1].Name >= e.Name {
			return fmt.Errorf("entries out of order at %q", e.Name)
		}
	}

	return nil
}

func validateManifest(m Manifest) error {
	for name, ver := range m {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("%w: entry with empty package name", ErrMalformedManifest)
		}
		if strings.TrimSpace(ver) == "" {
			return fmt.Errorf("%w: package %q has empty version", ErrMalformedManifest, name)
		}
		if strings.ContainsAny(ver, " \t\n") {
			return fmt.Errorf("%w: package %q has unparsable version %q", ErrMalformedManifest, name, ver)
		}
	}
	return nil
}
