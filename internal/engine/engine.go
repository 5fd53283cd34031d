// Package engine provides the core business logic for pkgbisect operations.
//
// The engine package acts as the orchestration layer between CLI commands
// and lower-level operations. It coordinates snapshot manifest resolution,
// delta computation, the bisection state machine, plan generation and
// session persistence.
//
// Key components:
//   - Engine: Main orchestrator that coordinates all operations
//   - Start/Verdict/Abandon: Drives the bisection state machine
//   - Plan: Generates and optionally applies candidate package states
//   - Snapshots/Diff/Check: Supporting inspection operations
package engine

import (
	"github.com/pkgbisect/pkgbisect/internal/clock"
	"github.com/pkgbisect/pkgbisect/internal/pkgmgr"
	"github.com/pkgbisect/pkgbisect/internal/snapshot"
	"github.com/pkgbisect/pkgbisect/internal/store"
)

// Engine orchestrates all pkgbisect operations.
// It is the main API surface called by the CLI.
type Engine struct {
	snapshots snapshot.Source
	pkgs      pkgmgr.Manager
	sessions  store.SessionStore
	shell     Shell
	clock     clock.Clock
	newID     func() string
}

// New creates a new Engine with the given dependencies. snapshots and pkgs
// may be nil when host detection failed; operations that need them return
// ErrNoSnapshotBackend or ErrNoPackageManager. newID generates session
// identifiers.
func New(
	snapshots snapshot.Source,
	pkgs pkgmgr.Manager,
	sessions store.SessionStore,
	shell Shell,
	clk clock.Clock,
	newID func() string,
) *Engine {
	return &Engine{
		snapshots: snapshots,
		pkgs:      pkgs,
		sessions:  sessions,
		shell:     shell,
		clock:     clk,
		newID:     newID,
	}
}

func (e *Engine) requireSnapshots() error {
	if e.snapshots == nil {
		return ErrNoSnapshotBackend
	}
	return nil
}

func (e *Engine) requireManager() error {
	if e.pkgs == nil {
		return ErrNoPackageManager
	}
	return nil
}
