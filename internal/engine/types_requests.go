package engine

import "github.com/pkgbisect/pkgbisect/internal/bisect"

// StartRequest represents a request to start a bisection session.
type StartRequest struct {
	// GoodID is the snapshot id of the last known-good state.
	GoodID string

	// BadID is the snapshot id of the first known-bad state.
	BadID string
}

// VerdictRequest represents a request to record a verdict.
type VerdictRequest struct {
	// SessionID is the session to record against. Empty means the
	// current session.
	SessionID string

	// Verdict is the reported outcome of testing the candidate state.
	Verdict bisect.Verdict
}

// StatusRequest represents a request for session status.
type StatusRequest struct {
	// SessionID is the session to inspect. Empty means the current
	// session.
	SessionID string
}

// AbandonRequest represents a request to abandon a session.
type AbandonRequest struct {
	// SessionID is the session to abandon. Empty means the current
	// session.
	SessionID string
}

// PlanRequest represents a request for a session's apply plan.
type PlanRequest struct {
	// SessionID is the session to plan for. Empty means the current
	// session.
	SessionID string

	// Revert plans a return to the full good-snapshot state instead of
	// the current candidate state.
	Revert bool

	// Apply hands the plan to the package manager after computing it.
	Apply bool
}

// SnapshotsRequest represents a request to list snapshots.
type SnapshotsRequest struct {
	// Verbose adds per-snapshot package counts, which requires reading
	// each snapshot's package database.
	Verbose bool
}

// DiffRequest represents a request to diff two snapshots.
type DiffRequest struct {
	// GoodID and BadID are the snapshots to compare.
	GoodID string
	BadID  string
}

// CheckRequest represents a request to run the user test command.
type CheckRequest struct {
	// Command is the shell command to run.
	Command string
}
