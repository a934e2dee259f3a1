package cpkernel

// Model is the root object of a constraint problem (spec §6.1): it owns the
// reversible environment, the propagation engine, every variable created
// against it, and the constraints posted to it. Mirrors the role of the
// teacher's Model (pkg/minikanren/model.go) but built directly on Env/Engine
// instead of a copy-on-write SolverState.
type Model struct {
	env    *Env
	engine *Engine
	config *Config

	intVars   []*IntVar
	graphVars []*GraphVar

	constraints []*Constraint
}

// NewModel creates an empty model with DefaultConfig.
func NewModel() *Model {
	return NewModelWithConfig(DefaultConfig())
}

// NewModelWithConfig creates an empty model with an explicit configuration.
// A nil config is replaced by DefaultConfig.
func NewModelWithConfig(config *Config) *Model {
	if config == nil {
		config = DefaultConfig()
	}
	env := NewEnv()
	return &Model{
		env:    env,
		engine: NewEngine(env),
		config: config,
	}
}

// Env returns the model's reversible environment.
func (m *Model) Env() *Env { return m.env }

// Engine returns the model's propagation engine.
func (m *Model) Engine() *Engine { return m.engine }

// Config returns the model's configuration.
func (m *Model) Config() *Config { return m.config }

// SetTracer installs a Tracer on the model's engine (see SPEC_FULL.md's
// ambient logging section); pass NopTracer{} to silence it again.
func (m *Model) SetTracer(t Tracer) { m.engine.SetTracer(t) }

// IntVar creates a bounded-domain integer variable over [lo, hi].
func (m *Model) IntVar(name string, lo, hi int) *IntVar {
	v := NewBoundedIntVar(m.engine, name, lo, hi)
	m.intVars = append(m.intVars, v)
	return v
}

// IntVarEnum creates an enumerated-domain integer variable over [lo, hi].
// Use this over IntVar when the constraint set will punch holes in the
// domain's interior (RemoveValue on a bounded variable panics for exactly
// that reason).
func (m *Model) IntVarEnum(name string, lo, hi int) *IntVar {
	v := NewEnumeratedIntVar(m.engine, name, lo, hi)
	m.intVars = append(m.intVars, v)
	return v
}

// IntVarEnumFromValues creates an enumerated-domain integer variable
// holding exactly the given values.
func (m *Model) IntVarEnumFromValues(name string, values []int) *IntVar {
	v := NewEnumeratedIntVarFromValues(m.engine, name, values)
	m.intVars = append(m.intVars, v)
	return v
}

// BoolVar creates a 0/1 variable.
func (m *Model) BoolVar(name string) *BoolVar {
	v := NewBoolVar(m.engine, name)
	m.intVars = append(m.intVars, v.IntVar)
	return v
}

// Sum creates a non-owning A+B view over two existing integer variables.
func (m *Model) Sum(name string, a, b *IntVar) (*SumView, error) {
	return NewSumView(m.engine, name, a, b)
}

// GraphVar creates a graph variable over n nodes {0,...,n-1}.
func (m *Model) GraphVar(name string, n int, directed bool, kind NeighborhoodKind) *GraphVar {
	g := NewGraphVar(m.engine, name, n, directed, kind)
	m.graphVars = append(m.graphVars, g)
	return g
}

// IntVars returns every integer (and boolean) variable created against
// this model, in creation order.
func (m *Model) IntVars() []*IntVar { return m.intVars }

// GraphVars returns every graph variable created against this model, in
// creation order.
func (m *Model) GraphVars() []*GraphVar { return m.graphVars }

// Post registers a constraint with the model's engine. Constraints must be
// posted before search begins; posting after the first decision is taken
// is a programming error the caller is responsible for avoiding (unlike
// the teacher's Model, this kernel has no mid-search dynamic posting).
func (m *Model) Post(c *Constraint) error {
	if err := c.Post(m.engine); err != nil {
		return err
	}
	m.constraints = append(m.constraints, c)
	return nil
}

// Constraints returns every constraint posted to this model, in posting
// order.
func (m *Model) Constraints() []*Constraint { return m.constraints }

// firstSolutionActivator is implemented by propagators posted dormant
// (e.g. HeldKarpPropagator with HKAfterFirstSolution) that need a one-time
// wake-up once the search records its first solution.
type firstSolutionActivator interface {
	Activate()
}

// ActivateDeferredPropagators calls Activate on every posted propagator
// that implements firstSolutionActivator. Activate only schedules a full
// wake-up (see PropagatorBase.ForcePropagate); it does not run the engine
// itself, so the wake-up is drained by the search loop's next ordinary
// Engine.Run() call rather than out of band. Called by Searcher exactly
// once, immediately after the first solution is recorded, so propagators
// configured for deferred activation (spec's hk_mode=2) start
// contributing to the rest of the search.
func (m *Model) ActivateDeferredPropagators() {
	for _, c := range m.constraints {
		for _, p := range c.Propagators() {
			if a, ok := p.(firstSolutionActivator); ok {
				a.Activate()
			}
		}
	}
}
