package bisect

import (
	"errors"
	"math/bits"
	"time"

	"github.com/pkgbisect/pkgbisect/internal/delta"
)

var (
	// ErrEmptyDeltaSet indicates there is nothing to bisect: the good and
	// bad snapshots have identical package manifests.
	ErrEmptyDeltaSet = errors.New("no package changes between snapshots")

	// ErrSessionNotActive indicates an operation on a session that has
	// already reached a terminal state.
	ErrSessionNotActive = errors.New("session not active")

	// ErrUnknownVerdict indicates a verdict value outside good/bad.
	ErrUnknownVerdict = errors.New("unknown verdict")
)

// State is the lifecycle state of a session.
type State string

// Session states. Found and Abandoned are terminal.
const (
	StateActive    State = "active"
	StateFound     State = "found"
	StateAbandoned State = "abandoned"
)

// Verdict is the binary signal supplied per bisection step.
type Verdict string

// Verdicts. Bad means the issue is present in the candidate state.
const (
	VerdictGood Verdict = "good"
	VerdictBad  Verdict = "bad"
)

// Step is one recorded verdict in the session history. The history is
// append-only: bounds at every point can be replayed from it.
type Step struct {
	// Mid is the tested subset boundary: the candidate covered the index
	// range [lowerBound, Mid] of the active range at the time.
	Mid int `json:"mid"`

	// Verdict is the outcome reported for this candidate.
	Verdict Verdict `json:"verdict"`

	// RecordedAt is when the verdict was recorded.
	RecordedAt time.Time `json:"recordedAt"`
}

// Session is a bisection in progress over an immutable DeltaSet.
type Session struct {
	// ID is the persisted session identifier.
	ID string `json:"id"`

	// Delta is the set under test. Shared read-only; never mutated.
	Delta *delta.DeltaSet `json:"deltaSet"`

	// LowerBound and UpperBound delimit the inclusive range of
	// still-suspect entries.
	LowerBound int `json:"lowerBound"`
	UpperBound int `json:"upperBound"`

	// History is the append-only audit trail of verdicts.
	History []Step `json:"history"`

	// State is the lifecycle state.
	State State `json:"state"`

	// Result is the index of the identified culprit. Valid only when
	// State is StateFound.
	Result int `json:"result"`

	// CreatedAt and UpdatedAt track session lifecycle times.
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Revision is the persistence revision counter, managed by the
	// session store to reject concurrent stale saves.
	Revision int `json:"revision"`
}

// Start creates a new active session covering the full delta set.
func Start(id string, set *delta.DeltaSet, now time.Time) (*Session, error) {
	if set == nil || set.Len() == 0 {
		return nil, ErrEmptyDeltaSet
	}

	return &Session{
		ID:         id,
		Delta:      set,
		LowerBound: 0,
		UpperBound: set.Len() - 1,
		History:    []Step{},
		State:      StateActive,
		Result:     -1,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// Mid returns the midpoint of the current range: the boundary of the next
// candidate subset.
func (s *Session) Mid() int {
	return s.LowerBound + (s.UpperBound-s.LowerBound)/2
}

// NextCandidate returns the still-suspect entries covered by the next test:
// the range [LowerBound, Mid] of the active range. This is the slice a
// verdict narrows; the state actually materialized on the system is the
// larger Prefix.
func (s *Session) NextCandidate() ([]delta.PackageDelta, error) {
	if s.State != StateActive {
		return nil, ErrSessionNotActive
	}
	return s.Delta.Entries[s.LowerBound : s.Mid()+1], nil
}

// Prefix returns the entries to materialize at the bad-snapshot state for
// the next test: the cumulative prefix [0, Mid]. Entries below LowerBound
// are already exonerated but stay applied, so every tested state is the
// bad-snapshot state of an absolute prefix and interdependent changes keep
// manifesting together.
func (s *Session) Prefix() ([]delta.PackageDelta, error) {
	if s.State != StateActive {
		return nil, ErrSessionNotActive
	}
	return s.Delta.Entries[:s.Mid()+1], nil
}

// RecordVerdict narrows the range according to the verdict for the current
// candidate, appends it to the history and transitions to Found once a
// single suspect remains. A Good verdict on a single-entry range contradicts
// the search's monotonicity assumption and exhausts the search space, which
// abandons the session.
func (s *Session) RecordVerdict(v Verdict, now time.Time) error {
	if s.State != StateActive {
		return ErrSessionNotActive
	}
	if v != VerdictGood && v != VerdictBad {
		return ErrUnknownVerdict
	}

	mid := s.Mid()
	s.History = append(s.History, Step{Mid: mid, Verdict: v, RecordedAt: now})
	s.UpdatedAt = now

	if v == VerdictBad {
		// The culprit is within the tested prefix.
		s.UpperBound = mid
	} else {
		if mid == s.UpperBound {
			// The whole remaining range tested good: nothing left to
			// suspect. The bounds would invert, so the search ends.
			s.State = StateAbandoned
			return nil
		}
		s.LowerBound = mid + 1
	}

	if s.LowerBound == s.UpperBound {
		s.State = StateFound
		s.Result = s.LowerBound
	}

	return nil
}

// Abandon forces the session into the terminal Abandoned state.
func (s *Session) Abandon(now time.Time) error {
	if s.State != StateActive {
		return ErrSessionNotActive
	}
	s.State = StateAbandoned
	s.UpdatedAt = now
	return nil
}

// Culprit returns the identified delta once the session has found it.
func (s *Session) Culprit() (delta.PackageDelta, bool) {
	if s.State != StateFound {
		return delta.PackageDelta{}, false
	}
	return s.Delta.Entries[s.Result], true
}

// RangeSize returns the number of still-suspect entries.
func (s *Session) RangeSize() int {
	return s.UpperBound - s.LowerBound + 1
}

// RemainingSteps returns the worst-case number of verdicts left before the
// culprit is isolated: ceil(log2(range size)).
func (s *Session) RemainingSteps() int {
	return bits.Len(uint(s.RangeSize() - 1))
}

// StepsTaken returns the number of verdicts recorded so far.
func (s *Session) StepsTaken() int {
	return len(s.History)
}
