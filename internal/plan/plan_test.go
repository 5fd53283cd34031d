package plan

import (
	"reflect"
	"sort"
	"testing"

	"github.com/pkgbisect/pkgbisect/internal/delta"
)

func testSet(t *testing.T) *delta.DeltaSet {
	t.Helper()

	set, err := delta.ComputeDelta("good", "bad",
		delta.Manifest{"b": "1", "c": "1", "e": "3"},
		delta.Manifest{"b": "2", "d": "1", "e": "2"},
	)
	if err != nil {
		t.Fatalf("ComputeDelta failed: %v", err)
	}
	// Entries sorted by name: b upgraded 1->2, c removed, d added, e downgraded 3->2.
	return set
}

func TestCompute_FullTarget(t *testing.T) {
	set := testSet(t)

	p := Compute(set, set.Entries)

	want := []Operation{
		{Op: OpRemove, Name: "c"},
		{Op: OpInstall, Name: "b", Version: "2"},
		{Op: OpInstall, Name: "d", Version: "1"},
		{Op: OpInstall, Name: "e", Version: "2"},
	}
	if !reflect.DeepEqual(p.Operations, want) {
		t.Errorf("Operations = %+v, want %+v", p.Operations, want)
	}
}

func TestCompute_EmptyTarget(t *testing.T) {
	set := testSet(t)

	p := Compute(set, nil)

	// Everything pinned at good state: added package removed, removed
	// package reinstalled, version changes reverted.
	want := []Operation{
		{Op: OpRemove, Name: "d"},
		{Op: OpInstall, Name: "b", Version: "1"},
		{Op: OpInstall, Name: "c", Version: "1"},
		{Op: OpInstall, Name: "e", Version: "3"},
	}
	if !reflect.DeepEqual(p.Operations, want) {
		t.Errorf("Operations = %+v, want %+v", p.Operations, want)
	}
}

func TestCompute_PartialTarget(t *testing.T) {
	set := testSet(t)

	// Target covers the first two entries (b, c).
	p := Compute(set, set.Entries[:2])

	want := []Operation{
		{Op: OpRemove, Name: "c"}, // target: to bad state (removed)
		{Op: OpRemove, Name: "d"}, // outside: back to good state (absent)
		{Op: OpInstall, Name: "b", Version: "2"},
		{Op: OpInstall, Name: "e", Version: "3"},
	}
	if !reflect.DeepEqual(p.Operations, want) {
		t.Errorf("Operations = %+v, want %+v", p.Operations, want)
	}

	if got := []string{"b", "c"}; !reflect.DeepEqual(p.Target, got) {
		t.Errorf("Target = %v, want %v", p.Target, got)
	}
}

func TestCompute_RemovalsPrecedeInstalls(t *testing.T) {
	set := testSet(t)

	for _, target := range [][]delta.PackageDelta{nil, set.Entries[:1], set.Entries[:3], set.Entries} {
		p := Compute(set, target)

		seenInstall := false
		for _, op := range p.Operations {
			switch op.Op {
			case OpInstall:
				seenInstall = true
			case OpRemove:
				if seenInstall {
					t.Errorf("remove of %q after an install in %+v", op.Name, p.Operations)
				}
			}
		}
	}
}

// TestRoundTrip verifies that applying a target subset and then applying the
// revert plan restores exactly the good-state operation multiset.
func TestRoundTrip(t *testing.T) {
	set := testSet(t)

	revert := Revert(set)
	baseline := Compute(set, nil)

	if !reflect.DeepEqual(revert, baseline) {
		t.Errorf("Revert = %+v, want %+v", revert, baseline)
	}

	// Each entry appears exactly once in any plan, whatever the target.
	for _, target := range [][]delta.PackageDelta{set.Entries[:1], set.Entries[1:3], set.Entries} {
		p := Compute(set, target)
		if len(p.Operations) != set.Len() {
			t.Fatalf("plan has %d operations, want %d", len(p.Operations), set.Len())
		}

		names := make([]string, 0, len(p.Operations))
		for _, op := range p.Operations {
			names = append(names, op.Name)
		}
		sort.Strings(names)
		for i := 1; i < len(names); i++ {
			if names[i-1] == names[i] {
				t.Fatalf("package %q planned twice", names[i])
			}
		}
	}
}

func TestTransition(t *testing.T) {
	set := testSet(t)

	// First step tested [b, c]; next step narrows to [b].
	prev := set.Entries[:2]
	next := set.Entries[:1]

	p := Transition(set, prev, next)

	// b stays at bad state, d and e stay at good state: all no-ops. Only c
	// flips from removed (bad state) back to installed (good state).
	if got := p.Noops(); got != 3 {
		t.Errorf("Noops = %d, want 3", got)
	}
	if got := p.Installs(); got != 1 {
		t.Errorf("Installs = %d, want 1", got)
	}

	var install *Operation
	for i := range p.Operations {
		if p.Operations[i].Op == OpInstall {
			install = &p.Operations[i]
		}
	}
	if install == nil || install.Name != "c" || install.Version != "1" {
		t.Errorf("expected install of c at 1, got %+v", install)
	}
}

func TestTransition_NoChange(t *testing.T) {
	set := testSet(t)

	p := Transition(set, set.Entries[:2], set.Entries[:2])

	if got := p.Noops(); got != set.Len() {
		t.Errorf("Noops = %d, want %d", got, set.Len())
	}
	if p.Installs() != 0 || p.Removes() != 0 {
		t.Errorf("expected all no-ops, got %+v", p.Operations)
	}
}

func TestPlanCounts(t *testing.T) {
	set := testSet(t)

	p := Compute(set, set.Entries)
	if p.Installs() != 3 || p.Removes() != 1 || p.Noops() != 0 {
		t.Errorf("counts = %d/%d/%d, want 3/1/0", p.Installs(), p.Removes(), p.Noops())
	}
}
