package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/pkgbisect/pkgbisect/internal/bisect"
	"github.com/pkgbisect/pkgbisect/internal/plan"
	"github.com/pkgbisect/pkgbisect/internal/store"
)

// resolveSessionID maps an empty id to the current session.
func (e *Engine) resolveSessionID(id string) (string, error) {
	if id != "" {
		return id, nil
	}
	current, err := e.sessions.Current()
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", ErrNoActiveSession
		}
		return "", fmt.Errorf("failed to resolve current session: %w", err)
	}
	return current, nil
}

// loadSession resolves and loads a session.
func (e *Engine) loadSession(id string) (*bisect.Session, error) {
	resolved, err := e.resolveSessionID(id)
	if err != nil {
		return nil, err
	}
	return e.sessions.Load(resolved)
}

// Verdict records a good/bad outcome on the session and advances the
// bisection. When the session reaches Found, the result carries the culprit
// and manager-specific remedies; otherwise it carries the next candidate
// and the transition plan from the previous test state.
func (e *Engine) Verdict(ctx context.Context, req *VerdictRequest) (*VerdictResult, error) {
	session, err := e.loadSession(req.SessionID)
	if err != nil {
		return nil, err
	}

	prev, err := session.Prefix()
	if err != nil {
		return nil, err
	}

	if err := session.RecordVerdict(req.Verdict, e.clock.Now()); err != nil {
		return nil, err
	}
	if err := e.sessions.Save(session); err != nil {
		return nil, fmt.Errorf("failed to persist session: %w", err)
	}

	result := &VerdictResult{Session: session}

	switch session.State {
	case bisect.StateFound:
		culprit, ok := session.Culprit()
		if !ok {
			return nil, fmt.Errorf("session %s reports found without a result", session.ID)
		}
		result.Culprit = &culprit
		if e.pkgs != nil {
			result.Remedies = e.pkgs.Remedies(culprit)
		}
	case bisect.StateActive:
		candidate, err := session.NextCandidate()
		if err != nil {
			return nil, err
		}
		next, err := session.Prefix()
		if err != nil {
			return nil, err
		}
		result.Candidate = candidate
		result.Plan = plan.Transition(session.Delta, prev, next)
	}

	return result, nil
}
