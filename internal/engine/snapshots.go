package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/pkgbisect/pkgbisect/internal/delta"
	"github.com/pkgbisect/pkgbisect/internal/store"
)

// Snapshots lists the backend's snapshots. With Verbose, each snapshot's
// package database is read for a package count; snapshots whose database
// cannot be read report -1.
func (e *Engine) Snapshots(ctx context.Context, req *SnapshotsRequest) (*SnapshotsResult, error) {
	if err := e.requireSnapshots(); err != nil {
		return nil, err
	}

	snaps, err := e.snapshots.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}

	result := &SnapshotsResult{Backend: e.snapshots.Name()}
	for _, s := range snaps {
		info := SnapshotInfo{Snapshot: s, PackageCount: -1}
		if req.Verbose {
			if m, err := e.snapshots.Manifest(ctx, s.ID); err == nil {
				info.PackageCount = len(m)
			}
		}
		result.Snapshots = append(result.Snapshots, info)
	}
	return result, nil
}

// Diff computes and returns the delta set between two snapshots without
// starting a session.
func (e *Engine) Diff(ctx context.Context, req *DiffRequest) (*DiffResult, error) {
	if err := e.requireSnapshots(); err != nil {
		return nil, err
	}

	good, err := e.snapshots.Manifest(ctx, req.GoodID)
	if err != nil {
		return nil, fmt.Errorf("failed to read good snapshot %q: %w", req.GoodID, err)
	}
	bad, err := e.snapshots.Manifest(ctx, req.BadID)
	if err != nil {
		return nil, fmt.Errorf("failed to read bad snapshot %q: %w", req.BadID, err)
	}

	set, err := delta.ComputeDelta(req.GoodID, req.BadID, good, bad)
	if err != nil {
		return nil, err
	}
	return &DiffResult{Delta: set}, nil
}

// Check runs the user test command and reports pass/fail.
func (e *Engine) Check(ctx context.Context, req *CheckRequest) (*CheckResult, error) {
	if req.Command == "" {
		return nil, ErrNoTestCommand
	}

	ok, err := e.shell.Run(ctx, req.Command)
	if err != nil {
		return nil, fmt.Errorf("failed to run test command: %w", err)
	}
	return &CheckResult{Command: req.Command, Passed: ok}, nil
}

// Sessions lists all persisted sessions.
func (e *Engine) Sessions(ctx context.Context) (*SessionsResult, error) {
	ids, err := e.sessions.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	current, err := e.sessions.Current()
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	result := &SessionsResult{}
	for _, id := range ids {
		session, err := e.sessions.Load(id)
		if err != nil {
			return nil, fmt.Errorf("failed to load session %s: %w", id, err)
		}
		result.Sessions = append(result.Sessions, SessionInfo{
			ID:         session.ID,
			State:      session.State,
			Packages:   session.Delta.Len(),
			StepsTaken: session.StepsTaken(),
			Current:    session.ID == current,
		})
	}
	return result, nil
}
