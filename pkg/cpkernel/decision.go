package cpkernel

import "fmt"

// Decision is one node of the search tree (spec §4.7): a target variable,
// an operation, a value, and (via Negation) its dual for the second
// branch. Decisions are themselves Causes, so a Contradiction raised while
// applying one carries back exactly which choice produced it.
type Decision interface {
	Cause

	// Apply performs this decision's reduction against the model, using
	// itself as the Cause.
	Apply() error

	// Negation returns the dual decision to try on the second branch (e.g.
	// remove(val) after assign(val) failed, or the complementary split
	// range). Negation is only ever called once per decision.
	Negation() Decision

	// String renders the decision for tracing/explanations.
	String() string
}

// assignDecision fixes an IntVar to a single value.
type assignDecision struct {
	v   *IntVar
	val int
}

// AssignDecision creates a decision that instantiates v to val. Its
// negation removes val from v's domain, leaving the rest of the range open
// for the strategy to re-branch on.
func AssignDecision(v *IntVar, val int) Decision { return &assignDecision{v: v, val: val} }

func (d *assignDecision) CauseName() string { return d.String() }
func (d *assignDecision) Apply() error      { return d.v.InstantiateTo(d.val, d) }
func (d *assignDecision) Negation() Decision {
	return &removeDecision{v: d.v, val: d.val}
}
func (d *assignDecision) String() string {
	return fmt.Sprintf("%s = %d", d.v.Name(), d.val)
}

// removeDecision removes a single value from an IntVar's domain; it is the
// negation of an assignDecision and is never constructed directly by a
// strategy.
type removeDecision struct {
	v   *IntVar
	val int
}

func (d *removeDecision) CauseName() string { return d.String() }
func (d *removeDecision) Apply() error      { return d.v.RemoveValue(d.val, d) }
func (d *removeDecision) Negation() Decision {
	// A removeDecision is only ever reached as a negation; it has no
	// further dual of its own.
	return d
}
func (d *removeDecision) String() string {
	return fmt.Sprintf("%s != %d", d.v.Name(), d.val)
}

// splitDecision bisects an IntVar's range at a pivot: v <= pivot on the
// first branch, v >= pivot+1 on the second. Used for large bounded domains
// where single-value assignment would branch too wide.
type splitDecision struct {
	v        *IntVar
	pivot    int
	lowerArm bool
}

// SplitDecision creates a decision that restricts v to [LB, pivot] on the
// first branch. Its negation restricts v to [pivot+1, UB].
func SplitDecision(v *IntVar, pivot int) Decision {
	return &splitDecision{v: v, pivot: pivot, lowerArm: true}
}

func (d *splitDecision) CauseName() string { return d.String() }
func (d *splitDecision) Apply() error {
	if d.lowerArm {
		return d.v.UpdateUB(d.pivot, d)
	}
	return d.v.UpdateLB(d.pivot+1, d)
}
func (d *splitDecision) Negation() Decision {
	return &splitDecision{v: d.v, pivot: d.pivot, lowerArm: !d.lowerArm}
}
func (d *splitDecision) String() string {
	if d.lowerArm {
		return fmt.Sprintf("%s <= %d", d.v.Name(), d.pivot)
	}
	return fmt.Sprintf("%s >= %d", d.v.Name(), d.pivot+1)
}

// enforceArcDecision enforces arc (i,j) of a graph variable on the first
// branch, and removes it on the second: the canonical branching move for
// graph-variable search (spec §4.7's "operation e.g. ... enforce_arc,
// remove_arc").
type enforceArcDecision struct {
	g       *GraphVar
	i, j    int
	enforce bool
}

// EnforceArcDecision creates a decision that enforces arc (i,j) on the
// first branch. Its negation removes the arc instead.
func EnforceArcDecision(g *GraphVar, i, j int) Decision {
	return &enforceArcDecision{g: g, i: i, j: j, enforce: true}
}

func (d *enforceArcDecision) CauseName() string { return d.String() }
func (d *enforceArcDecision) Apply() error {
	if d.enforce {
		return d.g.EnforceArc(d.i, d.j, d)
	}
	return d.g.RemoveArc(d.i, d.j, d)
}
func (d *enforceArcDecision) Negation() Decision {
	return &enforceArcDecision{g: d.g, i: d.i, j: d.j, enforce: !d.enforce}
}
func (d *enforceArcDecision) String() string {
	op := "enforce_arc"
	if !d.enforce {
		op = "remove_arc"
	}
	return fmt.Sprintf("%s(%s, %d, %d)", op, d.g.Name(), d.i, d.j)
}
