package store

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/pkgbisect/pkgbisect/internal/bisect"
	"github.com/pkgbisect/pkgbisect/internal/delta"
	"github.com/pkgbisect/pkgbisect/internal/hash"
)

// schemaVersion is bumped when the record layout changes incompatibly.
const schemaVersion = 1

// sessionRecord is the on-disk shape of a session. Required fields are
// pointers so a missing field is distinguishable from a zero value on load.
type sessionRecord struct {
	SchemaVersion  int                  `json:"schemaVersion"`
	ID             *string              `json:"id"`
	Revision       *int                 `json:"revision"`
	GoodSnapshotID *string              `json:"goodSnapshotId"`
	BadSnapshotID  *string              `json:"badSnapshotId"`
	Entries        []delta.PackageDelta `json:"entries"`
	EntriesDigest  *string              `json:"entriesDigest"`
	LowerBound     *int                 `json:"lowerBound"`
	UpperBound     *int                 `json:"upperBound"`
	History        []bisect.Step        `json:"history"`
	State          *string              `json:"state"`
	Result         *int                 `json:"result,omitempty"`
	CreatedAt      *time.Time           `json:"createdAt"`
	UpdatedAt      *time.Time           `json:"updatedAt"`
}

// newSessionRecord converts a session into its persisted form.
func newSessionRecord(s *bisect.Session, hasher hash.Hasher) (*sessionRecord, error) {
	digest, err := entriesDigest(s.Delta.Entries, hasher)
	if err != nil {
		return nil, err
	}

	state := string(s.State)
	rec := &sessionRecord{
		SchemaVersion:  schemaVersion,
		ID:             &s.ID,
		Revision:       &s.Revision,
		GoodSnapshotID: &s.Delta.GoodSnapshotID,
		BadSnapshotID:  &s.Delta.BadSnapshotID,
		Entries:        s.Delta.Entries,
		EntriesDigest:  &digest,
		LowerBound:     &s.LowerBound,
		UpperBound:     &s.UpperBound,
		History:        s.History,
		State:          &state,
		CreatedAt:      &s.CreatedAt,
		UpdatedAt:      &s.UpdatedAt,
	}
	if s.State == bisect.StateFound {
		result := s.Result
		rec.Result = &result
	}
	return rec, nil
}

// session rebuilds the in-memory session after validate has passed.
func (r *sessionRecord) session() *bisect.Session {
	s := &bisect.Session{
		ID: *r.ID,
		Delta: &delta.DeltaSet{
			GoodSnapshotID: *r.GoodSnapshotID,
			BadSnapshotID:  *r.BadSnapshotID,
			Entries:        r.Entries,
		},
		LowerBound: *r.LowerBound,
		UpperBound: *r.UpperBound,
		History:    r.History,
		State:      bisect.State(*r.State),
		Result:     -1,
		CreatedAt:  *r.CreatedAt,
		UpdatedAt:  *r.UpdatedAt,
		Revision:   *r.Revision,
	}
	if r.History == nil {
		s.History = []bisect.Step{}
	}
	if r.Result != nil {
		s.Result = *r.Result
	}
	return s
}

// validate checks a loaded record for structural integrity. Any failure maps
// to ErrCorruptState in the store.
func (r *sessionRecord) validate(hasher hash.Hasher) error {
	for name, field := range map[string]bool{
		"id":             r.ID == nil,
		"revision":       r.Revision == nil,
		"goodSnapshotId": r.GoodSnapshotID == nil,
		"badSnapshotId":  r.BadSnapshotID == nil,
		"entriesDigest":  r.EntriesDigest == nil,
		"lowerBound":     r.LowerBound == nil,
		"upperBound":     r.UpperBound == nil,
		"state":          r.State == nil,
		"createdAt":      r.CreatedAt == nil,
		"updatedAt":      r.UpdatedAt == nil,
	} {
		if field {
			return fmt.Errorf("missing required field %q", name)
		}
	}

	if len(r.Entries) == 0 {
		return fmt.Errorf("record has no delta entries")
	}

	set := &delta.DeltaSet{
		GoodSnapshotID: *r.GoodSnapshotID,
		BadSnapshotID:  *r.BadSnapshotID,
		Entries:        r.Entries,
	}
	if err := set.Validate(); err != nil {
		return fmt.Errorf("invalid delta entries: %w", err)
	}

	digest, err := entriesDigest(r.Entries, hasher)
	if err != nil {
		return err
	}
	if digest != *r.EntriesDigest {
		return fmt.Errorf("delta entries digest mismatch")
	}

	if *r.Revision < 1 {
		return fmt.Errorf("revision %d out of range", *r.Revision)
	}

	return r.validateNarrowing()
}

// validateNarrowing replays the recorded history from the full range and
// checks that it reproduces the stored bounds, state and result. A record
// that cannot be replayed was not produced by the search and must not be
// resumed.
func (r *sessionRecord) validateNarrowing() error {
	lo, hi := 0, len(r.Entries)-1
	state := bisect.StateActive
	result := -1

	for i, step := range r.History {
		if state != bisect.StateActive {
			return fmt.Errorf("history step %d after terminal state", i)
		}

		mid := lo + (hi-lo)/2
		if step.Mid != mid {
			return fmt.Errorf("history step %d tested boundary %d, expected %d", i, step.Mid, mid)
		}

		switch step.Verdict {
		case bisect.VerdictBad:
			hi = mid
		case bisect.VerdictGood:
			if mid == hi {
				state = bisect.StateAbandoned
				continue
			}
			lo = mid + 1
		default:
			return fmt.Errorf("history step %d has unknown verdict %q", i, step.Verdict)
		}

		if lo == hi {
			state = bisect.StateFound
			result = lo
		}
	}

	if *r.LowerBound != lo || *r.UpperBound != hi {
		return fmt.Errorf("bounds [%d, %d] inconsistent with history replay [%d, %d]",
			*r.LowerBound, *r.UpperBound, lo, hi)
	}

	recorded := bisect.State(*r.State)
	// An explicit abandon is valid from any replayed active state.
	if recorded == bisect.StateAbandoned {
		return nil
	}
	if recorded != state {
		return fmt.Errorf("state %q inconsistent with history replay %q", recorded, state)
	}
	if state == bisect.StateFound {
		if r.Result == nil || *r.Result != result {
			return fmt.Errorf("result inconsistent with history replay")
		}
	}

	return nil
}

// entriesDigest fingerprints the delta entries over their canonical JSON
// encoding.
func entriesDigest(entries []delta.PackageDelta, hasher hash.Hasher) (string, error) {
	data, err := json.Marshal(entries)
	if err != nil {
		return "", fmt.Errorf("failed to encode entries for digest: %w", err)
	}
	return hasher.HashBytes(data), nil
}
