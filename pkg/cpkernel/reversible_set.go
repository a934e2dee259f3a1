package cpkernel

import "math/bits"

// RevBitSet is a reversible bitset over values [1, maxValue], generalized
// from the teacher's copy-on-write BitSetDomain (pkg/minikanren/domain.go)
// into an in-place structure that trails only the changed word, not the
// whole array, per spec §4.1's "store only deltas" requirement.
type RevBitSet struct {
	env            *Env
	maxValue       int
	words          []uint64
	lastWriteWorld []World
	count          *RevInt // cached popcount, kept in sync on every mutation
}

// NewRevBitSet creates a bitset containing every value in [1, maxValue].
func NewRevBitSet(env *Env, maxValue int) *RevBitSet {
	n := (maxValue + 63) / 64
	b := &RevBitSet{
		env:            env,
		maxValue:       maxValue,
		words:          make([]uint64, n),
		lastWriteWorld: make([]World, n),
	}
	for i := 0; i < maxValue; i++ {
		b.words[i/64] |= 1 << uint(i%64)
	}
	b.count = NewRevInt(env, maxValue)
	return b
}

// NewRevBitSetFromValues creates a bitset containing exactly the given
// values (silently ignoring any outside [1, maxValue]).
func NewRevBitSetFromValues(env *Env, maxValue int, values []int) *RevBitSet {
	n := (maxValue + 63) / 64
	b := &RevBitSet{
		env:            env,
		maxValue:       maxValue,
		words:          make([]uint64, n),
		lastWriteWorld: make([]World, n),
	}
	cnt := 0
	for _, v := range values {
		if v >= 1 && v <= maxValue {
			wi := (v - 1) / 64
			if b.words[wi]&(1<<uint((v-1)%64)) == 0 {
				cnt++
			}
			b.words[wi] |= 1 << uint((v-1)%64)
		}
	}
	b.count = NewRevInt(env, cnt)
	return b
}

type bitWordEntry struct {
	cell       *RevBitSet
	word       int
	saved      uint64
	savedWorld World
}

func (e *bitWordEntry) restore() {
	e.cell.words[e.word] = e.saved
	e.cell.lastWriteWorld[e.word] = e.savedWorld
}

func (b *RevBitSet) touch(wordIdx int) {
	if b.lastWriteWorld[wordIdx] < b.env.world {
		b.env.record(&bitWordEntry{cell: b, word: wordIdx, saved: b.words[wordIdx], savedWorld: b.lastWriteWorld[wordIdx]})
		b.lastWriteWorld[wordIdx] = b.env.world
	}
}

// Has reports whether value is present.
func (b *RevBitSet) Has(value int) bool {
	if value < 1 || value > b.maxValue {
		return false
	}
	wi := (value - 1) / 64
	return b.words[wi]&(1<<uint((value-1)%64)) != 0
}

// Add inserts value in place; a no-op if already present. Used by
// mandatory ("kernel") sets that start empty and only grow, reusing the
// same word-delta trail mechanism as Remove.
func (b *RevBitSet) Add(value int) {
	if value < 1 || value > b.maxValue || b.Has(value) {
		return
	}
	wi := (value - 1) / 64
	b.touch(wi)
	b.words[wi] |= 1 << uint((value-1)%64)
	b.count.Set(b.count.Get() + 1)
}

// Remove removes value in place; a no-op if already absent.
func (b *RevBitSet) Remove(value int) {
	if !b.Has(value) {
		return
	}
	wi := (value - 1) / 64
	b.touch(wi)
	b.words[wi] &^= 1 << uint((value-1)%64)
	b.count.Set(b.count.Get() - 1)
}

// RemoveRange removes every value in [lo, hi] (inclusive), in place.
func (b *RevBitSet) RemoveRange(lo, hi int) {
	if lo < 1 {
		lo = 1
	}
	if hi > b.maxValue {
		hi = b.maxValue
	}
	for v := lo; v <= hi; v++ {
		b.Remove(v)
	}
}

// RetainOnly removes every value except v, in place.
func (b *RevBitSet) RetainOnly(v int) {
	b.RemoveRange(1, v-1)
	b.RemoveRange(v+1, b.maxValue)
}

// Count returns the number of values currently present.
func (b *RevBitSet) Count() int { return b.count.Get() }

// IsEmpty reports whether the bitset has no values left.
func (b *RevBitSet) IsEmpty() bool { return b.count.Get() == 0 }

// Min returns the smallest present value, or 0 if empty.
func (b *RevBitSet) Min() int {
	for i, w := range b.words {
		if w != 0 {
			return i*64 + bits.TrailingZeros64(w) + 1
		}
	}
	return 0
}

// Max returns the largest present value, or 0 if empty.
func (b *RevBitSet) Max() int {
	for i := len(b.words) - 1; i >= 0; i-- {
		if w := b.words[i]; w != 0 {
			return i*64 + (63 - bits.LeadingZeros64(w)) + 1
		}
	}
	return 0
}

// Next returns the smallest present value strictly greater than v, or 0.
func (b *RevBitSet) Next(v int) int {
	for cand := v + 1; cand <= b.maxValue; cand++ {
		if b.Has(cand) {
			return cand
		}
	}
	return 0
}

// Previous returns the largest present value strictly less than v, or 0.
func (b *RevBitSet) Previous(v int) int {
	for cand := v - 1; cand >= 1; cand-- {
		if b.Has(cand) {
			return cand
		}
	}
	return 0
}

// Each calls f for every present value in ascending order.
func (b *RevBitSet) Each(f func(v int)) {
	for wi, w := range b.words {
		for w != 0 {
			lb := w & -w
			f(wi*64 + bits.TrailingZeros64(w) + 1)
			w &^= lb
		}
	}
}

// RevSparseSet is a reversible sparse-set over dense indices [0, n). It
// supports O(1) membership, O(1) amortized remove-by-swap-to-tail, and a
// self-inverse undo (per spec §4.1: "swap is self-inverse"), which makes it
// the natural backing store for graph neighborhoods (small integer node
// ids, no boxing).
type RevSparseSet struct {
	dense  []int // dense[0:size] are the members, in arbitrary order
	sparse []int // sparse[v] = index of v within dense
	size   *RevInt
}

// NewRevSparseSet creates a sparse set over [0, n) initially containing
// every element.
func NewRevSparseSet(env *Env, n int) *RevSparseSet {
	dense := make([]int, n)
	sparse := make([]int, n)
	for i := 0; i < n; i++ {
		dense[i] = i
		sparse[i] = i
	}
	return &RevSparseSet{dense: dense, sparse: sparse, size: NewRevInt(env, n)}
}

// Size returns the number of members currently present.
func (s *RevSparseSet) Size() int { return s.size.Get() }

// Contains reports whether v is currently a member.
func (s *RevSparseSet) Contains(v int) bool {
	idx := s.sparse[v]
	return idx < s.size.Get() && s.dense[idx] == v
}

// Remove removes v by swapping it to the tail of the active region and
// shrinking size; a no-op if v is already absent. The swap is self-inverse,
// so restoring size on undo alone reconstructs the prior membership.
func (s *RevSparseSet) Remove(v int) {
	if !s.Contains(v) {
		return
	}
	last := s.size.Get() - 1
	idx := s.sparse[v]
	other := s.dense[last]
	s.dense[idx], s.dense[last] = other, v
	s.sparse[other], s.sparse[v] = idx, last
	s.size.Set(last)
}

// Each calls f for every current member, in unspecified order.
func (s *RevSparseSet) Each(f func(v int)) {
	n := s.size.Get()
	for i := 0; i < n; i++ {
		f(s.dense[i])
	}
}

// First returns an arbitrary member for cursor iteration, or -1 if empty.
func (s *RevSparseSet) First() int {
	if s.size.Get() == 0 {
		return -1
	}
	return s.dense[0]
}

// Next returns the member following v in dense-array order for cursor
// iteration, or -1 when v was the last one. Used by neighborhood cursors
// (spec §9: first_element/next_element returning -1 as sentinel).
func (s *RevSparseSet) Next(v int) int {
	idx := s.sparse[v]
	if idx+1 >= s.size.Get() {
		return -1
	}
	return s.dense[idx+1]
}
