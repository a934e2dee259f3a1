package cpkernel

// nodeSet is a reversible set of 0-based node ids [0, n), built on
// RevBitSet (which is 1-indexed internally). It backs both node sets and
// per-node adjacency lists (a Neighborhood, spec §3.1), and exposes the
// first/next cursor shape the spec calls for instead of an iterator or
// channel.
type nodeSet struct {
	bits *RevBitSet
}

// newNodeSet creates a node set over [0, n) that is either full (every
// node present) or empty, per full.
func newNodeSet(env *Env, n int, full bool) nodeSet {
	if full {
		return nodeSet{bits: NewRevBitSet(env, n)}
	}
	return nodeSet{bits: NewRevBitSetFromValues(env, n, nil)}
}

// Has reports whether node is a member (node is 0-based).
func (s nodeSet) Has(node int) bool { return s.bits.Has(node + 1) }

// Add inserts node.
func (s nodeSet) Add(node int) { s.bits.Add(node + 1) }

// Remove deletes node.
func (s nodeSet) Remove(node int) { s.bits.Remove(node + 1) }

// Count returns the number of members.
func (s nodeSet) Count() int { return s.bits.Count() }

// First returns the smallest member, or -1 if empty (cursor sentinel).
func (s nodeSet) First() int {
	if m := s.bits.Min(); m != 0 {
		return m - 1
	}
	return -1
}

// Next returns the smallest member strictly greater than node, or -1.
func (s nodeSet) Next(node int) int {
	if m := s.bits.Next(node + 1); m != 0 {
		return m - 1
	}
	return -1
}

// Each calls f for every member in ascending order.
func (s nodeSet) Each(f func(node int)) {
	s.bits.Each(func(p int) { f(p - 1) })
}
