// Package delta models package-level changes between two system snapshots.
//
// A Manifest maps package names to installed versions at one snapshot. Two
// manifests are reduced to a DeltaSet: an ordered, immutable sequence of
// PackageDelta entries, one per package whose state differs. The entry order
// is fixed at construction (lexicographic by name) because the bisection
// search indexes into it — reordering entries mid-session would change which
// packages each recorded verdict covered.
//
// Key concepts:
//   - PackageDelta: one package's transition (added, removed, upgraded, downgraded)
//   - Manifest: name -> version mapping supplied by a snapshot backend
//   - DeltaSet: the deterministic, sorted set of deltas between two snapshots
package delta
