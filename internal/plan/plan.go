// Package plan translates target subsets of a delta set into ordered
// package operations.
//
// Planning is pure: no I/O, no side effects. The resulting operation
// sequence is handed to a package-manager backend for execution, which keeps
// the planner fully unit-testable without a real system.
package plan

import (
	"github.com/pkgbisect/pkgbisect/internal/delta"
)

// Operation types.
const (
	OpInstall = "install"
	OpRemove  = "remove"
	OpNoop    = "noop"
)

// Operation is a single package operation to hand to the package manager.
type Operation struct {
	// Op is the operation type: "install", "remove" or "noop".
	Op string `json:"op"`

	// Name is the package name.
	Name string `json:"name"`

	// Version is the target version for installs. Empty for remove/noop.
	Version string `json:"version,omitempty"`
}

// Plan is an ordered sequence of operations that materializes one test
// state: the target packages at their bad-snapshot state, everything else in
// the delta set pinned at its good-snapshot state.
type Plan struct {
	// Target lists the names materialized at the bad-snapshot state.
	Target []string `json:"target"`

	// Operations is the execution order: removals first, then installs,
	// entry order preserved within each class.
	Operations []Operation `json:"operations"`
}

// Compute builds the plan for the given target subset. Every entry of the
// delta set yields exactly one operation: targets move to their bad state,
// non-targets are held at their good state. Removals are ordered before
// installs to avoid transient conflicting states.
func Compute(set *delta.DeltaSet, target []delta.PackageDelta) *Plan {
	inTarget := make(map[string]bool, len(target))
	names := make([]string, 0, len(target))
	for _, d := range target {
		inTarget[d.Name] = true
		names = append(names, d.Name)
	}

	p := &Plan{Target: names}

	var removes, installs []Operation
	for _, d := range set.Entries {
		op := goalOperation(d, inTarget[d.Name])
		if op.Op == OpRemove {
			removes = append(removes, op)
		} else {
			installs = append(installs, op)
		}
	}

	p.Operations = append(removes, installs...)
	return p
}

// Revert builds the plan that restores every entry to its good-snapshot
// state: the inverse of any test-state plan.
func Revert(set *delta.DeltaSet) *Plan {
	return Compute(set, nil)
}

// Transition builds the plan for moving from one target subset to the next.
// Packages whose goal state is unchanged between the two targets become
// no-ops, so consecutive bisect steps only touch packages that actually
// flip state.
func Transition(set *delta.DeltaSet, prev, next []delta.PackageDelta) *Plan {
	prevPlan := Compute(set, prev)
	nextPlan := Compute(set, next)

	prevGoal := make(map[string]Operation, len(prevPlan.Operations))
	for _, op := range prevPlan.Operations {
		prevGoal[op.Name] = op
	}

	p := &Plan{Target: nextPlan.Target}

	var removes, rest []Operation
	for _, op := range nextPlan.Operations {
		if prevGoal[op.Name] == op {
			rest = append(rest, Operation{Op: OpNoop, Name: op.Name})
			continue
		}
		if op.Op == OpRemove {
			removes = append(removes, op)
		} else {
			rest = append(rest, op)
		}
	}

	p.Operations = append(removes, rest...)
	return p
}

// Installs returns the number of install operations.
func (p *Plan) Installs() int { return p.count(OpInstall) }

// Removes returns the number of remove operations.
func (p *Plan) Removes() int { return p.count(OpRemove) }

// Noops returns the number of no-op operations.
func (p *Plan) Noops() int { return p.count(OpNoop) }

func (p *Plan) count(op string) int {
	n := 0
	for _, o := range p.Operations {
		if o.Op == op {
			n++
		}
	}
	return n
}

// goalOperation maps a delta to the operation that realizes its goal state.
func goalOperation(d delta.PackageDelta, toBadState bool) Operation {
	if toBadState {
		switch d.Kind {
		case delta.KindAdded:
			return Operation{Op: OpInstall, Name: d.Name, Version: d.ToVersion}
		case delta.KindRemoved:
			return Operation{Op: OpRemove, Name: d.Name}
		default:
			return Operation{Op: OpInstall, Name: d.Name, Version: d.ToVersion}
		}
	}

	switch d.Kind {
	case delta.KindAdded:
		return Operation{Op: OpRemove, Name: d.Name}
	case delta.KindRemoved:
		return Operation{Op: OpInstall, Name: d.Name, Version: d.FromVersion}
	default:
		return Operation{Op: OpInstall, Name: d.Name, Version: d.FromVersion}
	}
}
