package engine

import (
	"context"

	"github.com/pkgbisect/pkgbisect/internal/bisect"
)

// Status reports the current state of a session.
func (e *Engine) Status(ctx context.Context, req *StatusRequest) (*StatusResult, error) {
	session, err := e.loadSession(req.SessionID)
	if err != nil {
		return nil, err
	}

	result := &StatusResult{Session: session}

	if current, err := e.sessions.Current(); err == nil {
		result.Current = current == session.ID
	}

	switch session.State {
	case bisect.StateActive:
		candidate, err := session.NextCandidate()
		if err != nil {
			return nil, err
		}
		result.Candidate = candidate
	case bisect.StateFound:
		if culprit, ok := session.Culprit(); ok {
			result.Culprit = &culprit
		}
	}

	return result, nil
}

// Abandon moves a session to the terminal Abandoned state.
func (e *Engine) Abandon(ctx context.Context, req *AbandonRequest) (*AbandonResult, error) {
	session, err := e.loadSession(req.SessionID)
	if err != nil {
		return nil, err
	}

	if err := session.Abandon(e.clock.Now()); err != nil {
		return nil, err
	}
	if err := e.sessions.Save(session); err != nil {
		return nil, err
	}

	return &AbandonResult{Session: session}, nil
}
