package engine

import (
	"github.com/pkgbisect/pkgbisect/internal/bisect"
	"github.com/pkgbisect/pkgbisect/internal/delta"
	"github.com/pkgbisect/pkgbisect/internal/plan"
	"github.com/pkgbisect/pkgbisect/internal/snapshot"
)

// StartResult represents the result of starting a session.
type StartResult struct {
	// Session is the newly created session.
	Session *bisect.Session

	// Candidate is the first suspect subset under test.
	Candidate []delta.PackageDelta

	// Plan materializes the first test state, the delta prefix up to
	// the candidate's upper boundary.
	Plan *plan.Plan
}

// VerdictResult represents the result of recording a verdict.
type VerdictResult struct {
	// Session is the updated session.
	Session *bisect.Session

	// Candidate is the next suspect subset. Nil once the session is
	// terminal.
	Candidate []delta.PackageDelta

	// Plan materializes the next test state relative to the previous
	// one. Exonerated prefix entries stay applied and become no-ops.
	// Nil once the session is terminal.
	Plan *plan.Plan

	// Culprit is the identified package change when the session reached
	// Found.
	Culprit *delta.PackageDelta

	// Remedies are manager-specific follow-up suggestions for the
	// culprit, most recommended first.
	Remedies []string
}

// StatusResult represents a session's current status.
type StatusResult struct {
	// Session is the inspected session.
	Session *bisect.Session

	// Candidate is the current suspect subset. Nil once the session
	// is terminal.
	Candidate []delta.PackageDelta

	// Culprit is set when the session reached Found.
	Culprit *delta.PackageDelta

	// Current reports whether this is the current session.
	Current bool
}

// AbandonResult represents the result of abandoning a session.
type AbandonResult struct {
	// Session is the abandoned session.
	Session *bisect.Session
}

// PlanResult represents the result of a plan operation.
type PlanResult struct {
	// Session is the planned-for session.
	Session *bisect.Session

	// Plan is the computed operation sequence.
	Plan *plan.Plan

	// Applied reports whether the plan was handed to the package
	// manager.
	Applied bool
}

// SnapshotInfo is one snapshot in a listing, with optional package count.
type SnapshotInfo struct {
	snapshot.Snapshot

	// PackageCount is the number of installed packages recorded in the
	// snapshot. -1 when unknown or not requested.
	PackageCount int `json:"packageCount"`
}

// SnapshotsResult represents the result of listing snapshots.
type SnapshotsResult struct {
	// Backend is the snapshot backend name.
	Backend string

	// Snapshots is the listing, oldest first.
	Snapshots []SnapshotInfo
}

// DiffResult represents the result of diffing two snapshots.
type DiffResult struct {
	// Delta is the computed delta set, entries sorted by name.
	Delta *delta.DeltaSet
}

// CheckResult represents the result of running the user test command.
type CheckResult struct {
	// Command is the command that ran.
	Command string

	// Passed reports whether the command exited zero.
	Passed bool
}

// SessionInfo is one session in a listing.
type SessionInfo struct {
	// ID is the session identifier.
	ID string

	// State is the session's lifecycle state.
	State bisect.State

	// Packages is the delta set size.
	Packages int

	// StepsTaken is the number of recorded verdicts.
	StepsTaken int

	// Current reports whether this is the current session.
	Current bool
}

// SessionsResult represents the result of listing sessions.
type SessionsResult struct {
	// Sessions is the listing, sorted by id.
	Sessions []SessionInfo
}
