package cpkernel

// Solution is a snapshot of every model variable's value at the moment all
// of them were fixed. Snapshots are necessary because the search loop
// backtracks through the very world a solution was found in, which would
// otherwise erase it.
type Solution struct {
	IntValues    map[string]int
	Objective    int
	HasObjective bool
}

func snapshotSolution(m *Model) *Solution {
	sol := &Solution{IntValues: make(map[string]int, len(m.IntVars()))}
	for _, v := range m.IntVars() {
		sol.IntValues[v.Name()] = v.LB()
	}
	return sol
}

// FindFirst runs search to the first solution (or exhaustion), returning
// nil if the model is infeasible.
func (s *Searcher) FindFirst() (*Solution, error) {
	var found *Solution
	err := s.Run(func(m *Model) (bool, error) {
		found = snapshotSolution(m)
		return false, nil
	})
	if err != nil {
		return found, err
	}
	return found, nil
}

// FindAll enumerates every solution, up to limit (0 means unlimited; use
// Config.SolutionLimit for a hard engine-level stop instead, which also
// transitions cleanly through STOP with a ResourceExhausted).
func (s *Searcher) FindAll(limit int) ([]*Solution, error) {
	var all []*Solution
	err := s.Run(func(m *Model) (bool, error) {
		all = append(all, snapshotSolution(m))
		if limit > 0 && len(all) >= limit {
			return false, nil
		}
		return true, nil
	})
	return all, err
}

// Minimize runs branch-and-bound search on objective, returning the best
// (last-improving) solution found. Each improving solution tightens the
// objective cutoff via SetIncumbent/applyObjectiveCutoff, so later branches
// are pruned as soon as their objective lower bound can no longer beat the
// incumbent (spec §4.7: "optimization mode tightens an objective cut ...
// and continues").
func (s *Searcher) Minimize(objective *IntVar) (*Solution, error) {
	return s.optimize(objective, true)
}

// Maximize is the symmetric counterpart of Minimize.
func (s *Searcher) Maximize(objective *IntVar) (*Solution, error) {
	return s.optimize(objective, false)
}

func (s *Searcher) optimize(objective *IntVar, minimize bool) (*Solution, error) {
	s.SetObjective(objective, minimize)
	var best *Solution
	err := s.Run(func(m *Model) (bool, error) {
		sol := snapshotSolution(m)
		sol.Objective = objective.LB()
		sol.HasObjective = true
		best = sol
		s.SetIncumbent(sol.Objective)
		return true, nil
	})
	if err != nil {
		return best, err
	}
	return best, nil
}
