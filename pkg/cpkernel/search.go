package cpkernel

import "time"

// searchState is the four-state machine of spec §4.7.
type searchState int

const (
	stateReady searchState = iota
	stateDownBranch
	stateUpBranch
	stateStop
)

// frame is one entry of the decision stack: the decision currently applied
// (possibly already replaced by its own negation) and whether that
// negation has been tried yet.
type frame struct {
	decision      Decision
	triedNegation bool
}

// SolutionHandler is called by Searcher each time every variable is fixed.
// Returning continue=true makes the searcher backtrack and keep looking
// for further solutions (enumeration, or optimization once the caller has
// tightened an objective cut on this callback); continue=false stops the
// search immediately.
type SolutionHandler func(m *Model) (cont bool, err error)

// Searcher drives the backtracking search loop of spec §4.7 over a Model:
// READY asks the strategy for a decision, DOWN_BRANCH applies it and runs
// propagation, UP_BRANCH undoes and tries the negation or backtracks
// further, STOP ends the search (solution space exhausted or a limit
// tripped). Mirrors the role of the teacher's DFSSearch
// (pkg/minikanren/search.go) rebuilt on trailed state instead of
// snapshot/undo-by-copy.
type Searcher struct {
	model    *Model
	strategy BranchingStrategy
	stack    []frame

	startedAt     time.Time
	failCount     int64
	solutionCount int64

	// objective cutoff: re-applied fresh at the top of every DOWN_BRANCH so
	// that backtracking past it naturally un-tightens it, and the next node
	// re-tightens it against whatever the incumbent is at that point.
	objective    *IntVar
	minimize     bool
	hasIncumbent bool
	incumbent    int
}

var objectiveCutoffCause = NamedCause("search.objective_cutoff")

// SetObjective installs an objective variable and direction: once an
// incumbent solution is recorded (via SetIncumbent), every subsequent node
// re-applies the corresponding bound (obj <= incumbent-1 when minimizing,
// obj >= incumbent+1 when maximizing) before the rest of propagation runs.
func (s *Searcher) SetObjective(objective *IntVar, minimize bool) {
	s.objective = objective
	s.minimize = minimize
}

// SetIncumbent records the best objective value found so far; called by
// the caller's SolutionHandler after reading the objective's instantiated
// value at a solution node.
func (s *Searcher) SetIncumbent(val int) {
	s.hasIncumbent = true
	s.incumbent = val
}

// NewSearcher creates a Searcher over m using strategy.
func NewSearcher(m *Model, strategy BranchingStrategy) *Searcher {
	return &Searcher{model: m, strategy: strategy}
}

// FailCount returns the number of contradictions encountered so far.
func (s *Searcher) FailCount() int64 { return s.failCount }

// SolutionCount returns the number of solutions found so far.
func (s *Searcher) SolutionCount() int64 { return s.solutionCount }

// Run drives the search state machine until STOP, invoking handler for
// every solution encountered. It returns a *ResourceExhausted error (not a
// fatal one) if a configured limit tripped, and nil if the tree was
// exhausted normally.
func (s *Searcher) Run(handler SolutionHandler) error {
	cfg := s.model.Config()
	eng := s.model.Engine()
	s.startedAt = time.Now()

	state := stateReady
	for state != stateStop {
		if lim, tripped := s.checkLimits(cfg); tripped {
			eng.tracer.Trace("search.limit", map[string]interface{}{"kind": string(lim)})
			s.unwindToRoot()
			return &ResourceExhausted{Kind: lim}
		}

		switch state {
		case stateReady:
			d, ok := s.strategy.NextDecision(s.model)
			if !ok {
				firstSolution := s.solutionCount == 0
				cont, err := s.recordSolution(handler)
				if err != nil {
					return err
				}
				if firstSolution {
					// spec's hk_mode=2: propagators deferred until the
					// first solution start contributing now, for the rest
					// of the search regardless of how it backtracks. The
					// resulting wake-up drains on the next ordinary
					// DOWN_BRANCH Engine.Run(), not here.
					s.model.ActivateDeferredPropagators()
				}
				if !cont {
					return nil
				}
				if cfg.RestartOnSolution {
					s.restart()
					continue
				}
				state = stateUpBranch
				continue
			}
			s.stack = append(s.stack, frame{decision: d})
			state = stateDownBranch

		case stateDownBranch:
			f := &s.stack[len(s.stack)-1]
			s.model.Env().PushWorld()
			err := s.applyObjectiveCutoff()
			if err == nil {
				err = f.decision.Apply()
			}
			if err == nil {
				err = eng.Run()
			}
			if err == nil {
				state = stateReady
				continue
			}
			if !isContradiction(err) {
				return err
			}
			s.failCount++
			eng.ResetQueue()
			state = stateUpBranch

		case stateUpBranch:
			if len(s.stack) == 0 {
				state = stateStop
				continue
			}
			f := &s.stack[len(s.stack)-1]
			s.model.Env().PopWorld()
			if f.triedNegation {
				s.stack = s.stack[:len(s.stack)-1]
				continue
			}
			f.triedNegation = true
			f.decision = f.decision.Negation()
			state = stateDownBranch
		}
	}
	return nil
}

// recordSolution bumps the solution counter and hands control to handler.
func (s *Searcher) recordSolution(handler SolutionHandler) (bool, error) {
	s.solutionCount++
	if handler == nil {
		return false, nil
	}
	return handler(s.model)
}

func (s *Searcher) checkLimits(cfg *Config) (LimitKind, bool) {
	if cfg.TimeLimitMs > 0 && time.Since(s.startedAt) >= time.Duration(cfg.TimeLimitMs)*time.Millisecond {
		return LimitTime, true
	}
	if cfg.FailLimit > 0 && s.failCount >= cfg.FailLimit {
		return LimitFail, true
	}
	if cfg.SolutionLimit > 0 && s.solutionCount >= cfg.SolutionLimit {
		return LimitSolution, true
	}
	return "", false
}

func isContradiction(err error) bool {
	_, ok := err.(*Contradiction)
	return ok
}

// applyObjectiveCutoff re-tightens the objective bound against the current
// incumbent, if one has been set. It is called at the top of every
// DOWN_BRANCH so that the cut is trailed at the right depth: popping back
// past this node un-tightens it exactly as popping undoes any other
// reversible write.
func (s *Searcher) applyObjectiveCutoff() error {
	if s.objective == nil || !s.hasIncumbent {
		return nil
	}
	if s.minimize {
		return s.objective.UpdateUB(s.incumbent-1, objectiveCutoffCause)
	}
	return s.objective.UpdateLB(s.incumbent+1, objectiveCutoffCause)
}

// restart pops every pushed world back to the root and discards the
// decision stack, per spec §4.7's restart policy ("pop to world 0 and
// replay no decisions").
func (s *Searcher) restart() {
	s.unwindToRoot()
}

// unwindToRoot pops every pushed world back to depth 0, discards the
// decision stack, and resets the engine's non-reversible scheduling
// bookkeeping. Shared by restart() (which then keeps searching from a
// clean root) and Run's limit-trip path (spec.md:126 — "on trip, it
// unwinds the decision stack to a clean state and returns"), so a
// ResourceExhausted return never leaves the model mid-branch.
func (s *Searcher) unwindToRoot() {
	for s.model.Env().Depth() > 0 {
		s.model.Env().PopWorld()
	}
	s.model.Engine().ResetQueue()
	s.stack = s.stack[:0]
}
