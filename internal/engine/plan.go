package engine

import (
	"context"
	"fmt"

	"github.com/pkgbisect/pkgbisect/internal/bisect"
	"github.com/pkgbisect/pkgbisect/internal/plan"
)

// Plan computes the operation sequence for a session's current test state,
// or for the return to the full good state with Revert. With Apply set, the
// sequence is handed to the package manager.
func (e *Engine) Plan(ctx context.Context, req *PlanRequest) (*PlanResult, error) {
	session, err := e.loadSession(req.SessionID)
	if err != nil {
		return nil, err
	}

	var p *plan.Plan
	switch {
	case req.Revert:
		p = plan.Revert(session.Delta)
	case session.State == bisect.StateActive:
		prefix, err := session.Prefix()
		if err != nil {
			return nil, err
		}
		p = plan.Compute(session.Delta, prefix)
	default:
		// Terminal sessions have no candidate; the only meaningful
		// plan is the revert.
		return nil, fmt.Errorf("%w: session %s is %s (use --revert to restore the good state)",
			bisect.ErrSessionNotActive, session.ID, session.State)
	}

	result := &PlanResult{Session: session, Plan: p}

	if req.Apply {
		if err := e.requireManager(); err != nil {
			return nil, err
		}
		if err := e.pkgs.Apply(ctx, p.Operations); err != nil {
			return nil, fmt.Errorf("failed to apply plan: %w", err)
		}
		result.Applied = true
	}

	return result, nil
}
