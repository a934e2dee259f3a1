package cpkernel

// NeighborhoodKind names the internal representation requested for a
// graph variable's node/arc storage (spec §6.1's kernel_kind/envelope_kind
// parameters). vertexcp accepts all three for API compatibility with the
// model-facing factories but backs every kind with the same reversible
// bitset neighborhood (NeighborhoodMatrix is the literal match; the other
// two are accepted as a request for a sparser structure that, at the node
// counts this kernel targets, the bitset already serves in O(1) per test
// and O(words) per scan).
type NeighborhoodKind int

// Recognised neighborhood kinds.
const (
	NeighborhoodMatrix NeighborhoodKind = iota
	NeighborhoodLinkedList
	NeighborhoodSparseSet
)

// GraphVar is a graph variable (spec §3.1/§4.3): a pair (kernel, envelope)
// of graphs over the same n-node set, kernel ⊆ envelope, both evolving
// monotonically (kernel only grows, envelope only shrinks). Directed and
// undirected variants differ only in whether enforcing/removing (i,j)
// implies the same for (j,i).
type GraphVar struct {
	id       int
	name     string
	engine   *Engine
	n        int
	directed bool

	kerNodes, envNodes nodeSet
	kerSucc, envSucc   []nodeSet
	kerPred, envPred   []nodeSet // aliases of kerSucc/envSucc when undirected
}

// ArcEvent is the delta payload broadcast by EnforceArc/RemoveArc.
type ArcEvent struct{ I, J int }

// NodeEvent is the delta payload broadcast by EnforceNode/RemoveNode.
type NodeEvent struct{ Node int }

// NewGraphVar creates a graph variable over n nodes {0,...,n-1}. kernel and
// envelope node sets start empty and full respectively, per spec §3.1
// (kernel is the set of mandatory elements, envelope the set of possible
// ones). directed controls whether arcs are symmetric.
func NewGraphVar(engine *Engine, name string, n int, directed bool, _ NeighborhoodKind) *GraphVar {
	env := engine.Env()
	g := &GraphVar{
		id:       engine.NewVarID(),
		name:     name,
		engine:   engine,
		n:        n,
		directed: directed,
		kerNodes: newNodeSet(env, n, false),
		envNodes: newNodeSet(env, n, true),
		kerSucc:  make([]nodeSet, n),
		envSucc:  make([]nodeSet, n),
	}
	for i := 0; i < n; i++ {
		g.kerSucc[i] = newNodeSet(env, n, false)
		g.envSucc[i] = newNodeSet(env, n, true)
		if !directed {
			// An undirected edge joins two distinct nodes: no self-loops.
			g.envSucc[i].Remove(i)
		}
	}
	if directed {
		g.kerPred = make([]nodeSet, n)
		g.envPred = make([]nodeSet, n)
		for i := 0; i < n; i++ {
			g.kerPred[i] = newNodeSet(env, n, false)
			g.envPred[i] = newNodeSet(env, n, true)
		}
	} else {
		g.kerPred = g.kerSucc
		g.envPred = g.envSucc
	}
	return g
}

// ID returns the graph variable's notification id.
func (g *GraphVar) ID() int { return g.id }

// Name returns the graph variable's display name.
func (g *GraphVar) Name() string { return g.name }

// NumNodes returns n.
func (g *GraphVar) NumNodes() int { return g.n }

// IsDirected reports whether this is a directed graph variable.
func (g *GraphVar) IsDirected() bool { return g.directed }

// NodeActive reports whether node is in the kernel (mandatory).
func (g *GraphVar) NodeActive(node int) bool { return g.kerNodes.Has(node) }

// NodePossible reports whether node is in the envelope.
func (g *GraphVar) NodePossible(node int) bool { return g.envNodes.Has(node) }

// ArcExists reports whether (i,j) is in the kernel (mandatory).
func (g *GraphVar) ArcExists(i, j int) bool { return g.kerSucc[i].Has(j) }

// ArcPossible reports whether (i,j) is in the envelope.
func (g *GraphVar) ArcPossible(i, j int) bool { return g.envSucc[i].Has(j) }

// KernelSuccessors returns node's mandatory out-neighbors.
func (g *GraphVar) KernelSuccessors(node int) nodeSet { return g.kerSucc[node] }

// EnvelopeSuccessors returns node's possible out-neighbors.
func (g *GraphVar) EnvelopeSuccessors(node int) nodeSet { return g.envSucc[node] }

// KernelPredecessors returns node's mandatory in-neighbors.
func (g *GraphVar) KernelPredecessors(node int) nodeSet { return g.kerPred[node] }

// EnvelopePredecessors returns node's possible in-neighbors.
func (g *GraphVar) EnvelopePredecessors(node int) nodeSet { return g.envPred[node] }

// KernelDegree returns the number of mandatory incident edges/out-arcs.
func (g *GraphVar) KernelDegree(node int) int { return g.kerSucc[node].Count() }

// EnvelopeDegree returns the number of possible incident edges/out-arcs.
func (g *GraphVar) EnvelopeDegree(node int) int { return g.envSucc[node].Count() }

// EnforceNode marks node mandatory. No-op if already mandatory; fails if
// node is not even possible.
func (g *GraphVar) EnforceNode(node int, cause Cause) error {
	if g.kerNodes.Has(node) {
		return nil
	}
	if !g.envNodes.Has(node) {
		return NewContradiction(g.name, MsgInst, cause)
	}
	g.kerNodes.Add(node)
	g.engine.RecordExplanation(g.name, EventActivateNode, node, cause)
	g.engine.NotifyWithPayload(g.id, EventActivateNode, NodeEvent{Node: node})
	return nil
}

// RemoveNode removes node from the envelope (and, with it, every incident
// arc). No-op if already absent; fails if node is mandatory.
func (g *GraphVar) RemoveNode(node int, cause Cause) error {
	if !g.envNodes.Has(node) {
		return nil
	}
	if g.kerNodes.Has(node) {
		return NewContradiction(g.name, MsgRemove, cause)
	}
	g.envNodes.Remove(node)
	g.envSucc[node].Each(func(j int) { g.envSucc[node].Remove(j) })
	if g.directed {
		g.envPred[node].Each(func(j int) { g.envPred[node].Remove(j) })
	}
	for i := 0; i < g.n; i++ {
		if g.envSucc[i].Has(node) {
			g.envSucc[i].Remove(node)
		}
		if g.directed && g.envPred[i].Has(node) {
			g.envPred[i].Remove(node)
		}
	}
	g.engine.RecordExplanation(g.name, EventRemoveNode, node, cause)
	g.engine.NotifyWithPayload(g.id, EventRemoveNode, NodeEvent{Node: node})
	return nil
}

// EnforceArc makes (i,j) mandatory (and, for an undirected variable,
// (j,i) with it). Also enforces both endpoint nodes, since a mandatory
// arc implies both its nodes are mandatory. No-op if already mandatory;
// fails if (i,j) is not even possible.
func (g *GraphVar) EnforceArc(i, j int, cause Cause) error {
	if g.kerSucc[i].Has(j) {
		return nil
	}
	if !g.envSucc[i].Has(j) {
		return NewContradiction(g.name, MsgInst, cause)
	}
	if err := g.EnforceNode(i, cause); err != nil {
		return err
	}
	if err := g.EnforceNode(j, cause); err != nil {
		return err
	}
	g.kerSucc[i].Add(j)
	g.kerPred[j].Add(i)
	if !g.directed {
		g.kerSucc[j].Add(i)
		g.kerPred[i].Add(j)
	}
	// Arc endpoints are packed i*n+j for the explanation sink, which only
	// speaks a single int value; ArcEvent (delivered via NotifyWithPayload)
	// is the real, unpacked channel propagators should use.
	g.engine.RecordExplanation(g.name, EventAddArc, i*g.n+j, cause)
	g.engine.NotifyWithPayload(g.id, EventAddArc, ArcEvent{I: i, J: j})
	return nil
}

// RemoveArc removes (i,j) (and, for an undirected variable, (j,i)) from
// the envelope. No-op if already absent; fails if (i,j) is mandatory.
func (g *GraphVar) RemoveArc(i, j int, cause Cause) error {
	if !g.envSucc[i].Has(j) {
		return nil
	}
	if g.kerSucc[i].Has(j) {
		return NewContradiction(g.name, MsgRemove, cause)
	}
	g.envSucc[i].Remove(j)
	g.envPred[j].Remove(i)
	if !g.directed {
		g.envSucc[j].Remove(i)
		g.envPred[i].Remove(j)
	}
	g.engine.RecordExplanation(g.name, EventRemoveArc, i*g.n+j, cause)
	g.engine.NotifyWithPayload(g.id, EventRemoveArc, ArcEvent{I: i, J: j})
	return nil
}
