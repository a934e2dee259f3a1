package cpkernel

// Constraint is a named group of one or more propagators that together
// enforce a single global relation (spec §4.4): for example, a Hamiltonian
// cycle constraint bundles a degree-bound propagator, a no-subtour
// propagator and a cost propagator. Constraints exist so the model-facing
// factories (HamiltonianCycle, TSP, NCliques, ...) can hand back one
// postable object instead of making callers post each propagator by hand.
type Constraint struct {
	name        string
	propagators []Propagator
	posted      bool
}

// NewConstraint bundles propagators under name. The propagators are posted
// to the engine, in order, the first (and only the first) time Post is
// called.
func NewConstraint(name string, propagators ...Propagator) *Constraint {
	return &Constraint{name: name, propagators: propagators}
}

// Name returns the constraint's display name.
func (c *Constraint) Name() string { return c.name }

// Propagators returns the propagators this constraint bundles, in posting
// order.
func (c *Constraint) Propagators() []Propagator { return c.propagators }

// IsPosted reports whether Post has already succeeded for this constraint.
func (c *Constraint) IsPosted() bool { return c.posted }

// Post registers every propagator in this constraint with engine, in
// order, running each one's initial propagation and the resulting fixed
// point. Posting an already-posted constraint is a model error: constraints
// are meant to be posted exactly once, before search begins.
func (c *Constraint) Post(engine *Engine) error {
	if c.posted {
		return NewModelError("Constraint.Post", "constraint \""+c.name+"\" already posted")
	}
	for _, p := range c.propagators {
		if err := engine.Post(p); err != nil {
			return err
		}
	}
	c.posted = true
	return nil
}
