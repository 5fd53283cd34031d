package engine

import (
	"context"
	"fmt"

	"github.com/pkgbisect/pkgbisect/internal/bisect"
	"github.com/pkgbisect/pkgbisect/internal/delta"
	"github.com/pkgbisect/pkgbisect/internal/plan"
)

// Start creates a new bisection session between two snapshots, persists it
// and makes it the current session.
func (e *Engine) Start(ctx context.Context, req *StartRequest) (*StartResult, error) {
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

	session, err := bisect.Start(e.newID(), set, e.clock.Now())
	if err != nil {
		return nil, err
	}

	if err := e.sessions.Save(session); err != nil {
		return nil, fmt.Errorf("failed to persist session: %w", err)
	}
	if err := e.sessions.SetCurrent(session.ID); err != nil {
		return nil, fmt.Errorf("failed to set current session: %w", err)
	}

	candidate, err := session.NextCandidate()
	if err != nil {
		return nil, err
	}
	prefix, err := session.Prefix()
	if err != nil {
		return nil, err
	}

	return &StartResult{
		Session:   session,
		Candidate: candidate,
		Plan:      plan.Compute(set, prefix),
	}, nil
}
