package cpkernel

import "sort"

// HeldKarpPropagator computes the Held-Karp one-tree Lagrangian bound for
// the symmetric Hamiltonian-cycle cost and uses it to tighten cost.lb and
// to filter envelope edges whose marginal cost would blow the budget.
// Unlike every other propagator in this package it is explicitly exempt
// from incremental maintenance (spec §4.8's "Held-Karp...produces a
// higher lower bound...fail"): no real solver maintains an LP/Lagrangian
// relaxation incrementally either, so InitialPropagate and Propagate both
// simply recompute it from the current kernel/envelope from scratch. The
// Lagrangian multipliers (pi, one per node) are local to each run and NOT
// trailed; they are a search heuristic, not model state — every wake-up
// re-derives them from zero.
//
// activation gates the propagator per spec's hk_mode: HKDisabled means
// this propagator should never even have been constructed (TSP() skips it
// entirely); HKFromRoot runs it immediately; HKAfterFirstSolution holds it
// dormant (InitialPropagate/Propagate are no-ops) until Activate is
// called, which the searcher does exactly once, right after the first
// solution is recorded. active is deliberately a plain bool, not a
// RevBool: it is a one-way, search-wide switch, not model state, so it
// must survive every subsequent backtrack rather than being undone by one.
type HeldKarpPropagator struct {
	PropagatorBase
	g          *GraphVar
	cost       *IntVar
	w          [][]int
	mstAlgo    MSTAlgorithm
	activation HKActivation
	active     bool
	iter       int
}

// NewHeldKarpPropagator creates a Held-Karp propagator over the
// undirected graph variable g (a candidate Hamiltonian cycle) and cost
// variable, with edge-weight matrix w and the configured number of
// subgradient iterations. Callers should not construct this for
// activation==HKDisabled; use TSP(), which only posts it for HKFromRoot
// and HKAfterFirstSolution.
func NewHeldKarpPropagator(engine *Engine, g *GraphVar, cost *IntVar, w [][]int, mstAlgo MSTAlgorithm, activation HKActivation, iterations int) *HeldKarpPropagator {
	p := &HeldKarpPropagator{
		PropagatorBase: NewPropagatorBase(engine, "HeldKarp", PriorityVerySlow),
		g:              g,
		cost:           cost,
		w:              w,
		mstAlgo:        mstAlgo,
		activation:     activation,
		active:         activation == HKFromRoot,
		iter:           iterations,
	}
	engine.Subscribe(g.ID(), p, EventMask(EventAddArc|EventRemoveArc))
	engine.Subscribe(cost.ID(), p, EventMask(EventDecUpp|EventBound|EventInstantiate))
	return p
}

// Activate turns on a propagator posted with HKAfterFirstSolution and
// schedules a full wake-up, which runs at the engine's next Run; a no-op
// once already active (including
// propagators posted with HKFromRoot, where it is active from the start).
func (p *HeldKarpPropagator) Activate() {
	if p.active {
		return
	}
	p.active = true
	p.ForcePropagate(p)
}

func (p *HeldKarpPropagator) InitialPropagate() error {
	if !p.active {
		return nil
	}
	return p.run()
}

func (p *HeldKarpPropagator) Propagate(varIndex int, mask EventMask) error {
	// Drain and discard: this propagator always recomputes wholesale.
	p.engine.DrainDeltas(p.ID(), varIndex)
	if !p.active {
		return nil
	}
	return p.run()
}

func (p *HeldKarpPropagator) run() error {
	n := p.g.NumNodes()
	if n < 3 {
		return nil
	}
	pi := make([]float64, n)
	bestLB := 0.0
	var bestTree oneTree

	step := 1.0
	for it := 0; it < p.iter; it++ {
		tree, ok := p.minOneTree(pi)
		if !ok {
			return NewContradiction(p.g.Name(), MsgUnknown, p)
		}
		lb := tree.weight
		for i := 0; i < n; i++ {
			lb -= 2 * pi[i]
		}
		if lb > bestLB {
			bestLB = lb
			bestTree = tree
		}

		allDegreeTwo := true
		normSq := 0.0
		for i := 0; i < n; i++ {
			d := tree.degree[i] - 2
			if d != 0 {
				allDegreeTwo = false
			}
			normSq += float64(d * d)
		}
		if allDegreeTwo || normSq == 0 {
			break
		}
		step *= 0.95
		for i := 0; i < n; i++ {
			pi[i] += step * float64(tree.degree[i]-2)
		}
	}

	lbInt := int(bestLB)
	if float64(lbInt) < bestLB {
		lbInt++ // round up: a fractional LP bound never under-states the integer optimum
	}
	if lbInt > p.cost.UB() {
		return NewContradiction(p.cost.Name(), MsgUpp, p)
	}
	if err := p.cost.UpdateLB(lbInt, p); err != nil {
		return err
	}

	return p.filterMarginals(bestTree, bestLB)
}

// filterMarginals removes envelope edges whose cheapest plausible
// completion would already exceed cost.ub: for edge (i,j) not in the
// one-tree, its marginal cost is approximated by the difference between
// its reduced weight and the most expensive tree edge incident to either
// endpoint — a standard, if approximate, alpha-nearness style estimate.
func (p *HeldKarpPropagator) filterMarginals(tree oneTree, bestLB float64) error {
	if tree.weight == 0 {
		return nil
	}
	budget := float64(p.cost.UB())
	n := p.g.NumNodes()
	for i := 0; i < n; i++ {
		var toRemove []int
		p.g.EnvelopeSuccessors(i).Each(func(j int) {
			if j <= i || p.g.KernelSuccessors(i).Has(j) {
				return
			}
			marginal := float64(p.w[i][j]) - tree.maxIncident[i]
			if marginal < 0 {
				marginal = 0
			}
			if bestLB+marginal > budget {
				toRemove = append(toRemove, j)
			}
		})
		for _, j := range toRemove {
			if err := p.g.RemoveArc(i, j, p); err != nil {
				return err
			}
		}
	}
	return nil
}

func (p *HeldKarpPropagator) IsEntailed() Entailment { return EntailmentUndefined }

type oneTree struct {
	weight      float64
	degree      []int
	maxIncident []float64 // per-node, heaviest tree edge touching it
}

// minOneTree builds the minimum one-tree on reduced weights w[i][j]+pi[i]+pi[j]:
// a minimum spanning tree over the envelope edges among nodes 1..n-1
// (removed edges excluded; mandatory kernel edges are not forced into it),
// plus two possible edges at node 0, mandatory ones first and then the
// cheapest.
func (p *HeldKarpPropagator) minOneTree(pi []float64) (oneTree, bool) {
	n := p.g.NumNodes()
	reduced := func(i, j int) float64 { return float64(p.w[i][j]) + pi[i] + pi[j] }

	var mst []([2]int)
	var mstOK bool
	switch p.mstAlgo {
	case MSTKruskal:
		mst, mstOK = p.mstKruskal(reduced)
	default:
		mst, mstOK = p.mstPrim(reduced)
	}
	if !mstOK {
		return oneTree{}, false
	}

	// Two cheapest edges at node 0.
	type cand struct {
		j int
		w float64
	}
	var c0 []cand
	p.g.EnvelopeSuccessors(0).Each(func(j int) {
		c0 = append(c0, cand{j, reduced(0, j)})
	})
	var mandatory []int
	p.g.KernelSuccessors(0).Each(func(j int) { mandatory = append(mandatory, j) })
	if len(c0) < 2 {
		return oneTree{}, false
	}
	sort.Slice(c0, func(a, b int) bool { return c0[a].w < c0[b].w })

	chosen := map[int]bool{}
	for _, j := range mandatory {
		chosen[j] = true
	}
	for _, cc := range c0 {
		if len(chosen) >= 2 {
			break
		}
		chosen[cc.j] = true
	}
	if len(chosen) < 2 {
		return oneTree{}, false
	}

	degree := make([]int, n)
	weight := 0.0
	maxIncident := make([]float64, n)
	addEdge := func(i, j int, w float64) {
		degree[i]++
		degree[j]++
		weight += w
		if w > maxIncident[i] {
			maxIncident[i] = w
		}
		if w > maxIncident[j] {
			maxIncident[j] = w
		}
	}
	for _, e := range mst {
		addEdge(e[0], e[1], reduced(e[0], e[1]))
	}
	for j := range chosen {
		addEdge(0, j, reduced(0, j))
	}

	return oneTree{weight: weight, degree: degree, maxIncident: maxIncident}, true
}

// mstPrim computes a dense-Prim MST over nodes 1..n-1 using reduced
// weights, restricted to envelope edges (a kernel-mandatory edge is
// necessarily also an envelope edge, so it remains eligible; Prim's
// cheapest-attach rule picks it up like any other edge rather than being
// forced in ahead of time).
func (p *HeldKarpPropagator) mstPrim(reduced func(i, j int) float64) ([][2]int, bool) {
	n := p.g.NumNodes()
	inTree := make([]bool, n)
	inTree[0] = true // node 0 excluded from the spanning tree proper
	var edges [][2]int

	start := 1
	inTree[start] = true
	remaining := n - 2 // nodes 2..n-1 still to attach

	const inf = 1e18
	best := make([]float64, n)
	from := make([]int, n)
	for i := range best {
		best[i] = inf
		from[i] = -1
	}
	update := func(u int) {
		p.g.EnvelopeSuccessors(u).Each(func(v int) {
			if v == 0 || inTree[v] {
				return
			}
			if w := reduced(u, v); w < best[v] {
				best[v] = w
				from[v] = u
			}
		})
	}
	update(start)

	for remaining > 0 {
		pick := -1
		for v := 1; v < n; v++ {
			if inTree[v] || from[v] < 0 {
				continue
			}
			if pick < 0 || best[v] < best[pick] {
				pick = v
			}
		}
		if pick < 0 {
			return nil, false
		}
		inTree[pick] = true
		edges = append(edges, [2]int{from[pick], pick})
		remaining--
		update(pick)
	}
	return edges, true
}

// mstKruskal computes the same spanning tree via sorted-edge union-find,
// the alternative configured by Config.MSTAlgorithm.
func (p *HeldKarpPropagator) mstKruskal(reduced func(i, j int) float64) ([][2]int, bool) {
	n := p.g.NumNodes()
	type edge struct {
		i, j int
		w    float64
	}
	var all []edge
	for i := 1; i < n; i++ {
		p.g.EnvelopeSuccessors(i).Each(func(j int) {
			if j > i && j != 0 {
				all = append(all, edge{i, j, reduced(i, j)})
			}
		})
	}
	sort.Slice(all, func(a, b int) bool { return all[a].w < all[b].w })

	parent := make([]int, n)
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(x int) int {
		for parent[x] != x {
			x = parent[x]
		}
		return x
	}

	var edges [][2]int
	count := 0
	for _, e := range all {
		ri, rj := find(e.i), find(e.j)
		if ri == rj {
			continue
		}
		parent[ri] = rj
		edges = append(edges, [2]int{e.i, e.j})
		count++
		if count == n-2 {
			break
		}
	}
	if count != n-2 {
		return nil, false
	}
	return edges, true
}
