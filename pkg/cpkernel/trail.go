// Package cpkernel implements a finite-domain constraint programming core:
// a trailed reversible state substrate, an event-driven propagation engine,
// integer and graph domains, and a backtracking search loop. Graph-variable
// propagators (Hamiltonian cycle/path, tree partition, Held-Karp relaxation)
// are the kernel's distinguishing application.
package cpkernel

// World identifies a nesting level of the trail. World 0 is the root state
// before any decision has been pushed; PushWorld increments it.
type World int

// trailEntry is one undo record: the reversible cell's old value as of the
// world it was overwritten in.
type trailEntry struct {
	cell  revCell
	world World
}

// revCell is implemented by every reversible primitive (RevInt, RevBool, and
// the word-level deltas of RevBitSet/RevSparseSet). restore() writes the
// entry's saved value back into the cell without touching the trail itself.
type revCell interface {
	restore()
}

// Env is the reversible environment: the trail and the current world. Every
// reversible cell in a model is created against a single Env and all of a
// model's reversible state is restored together by PopWorld.
//
// Env is not safe for concurrent use; per §5 of the spec, at most one agent
// mutates it at a time.
type Env struct {
	world World
	trail []trailEntry
	// marks[i] is the trail length at the moment world i was pushed, so
	// PopWorld(i) knows how many entries to unwind.
	marks []int
}

// NewEnv creates a fresh reversible environment at world 0.
func NewEnv() *Env {
	return &Env{
		trail: make([]trailEntry, 0, 1024),
		marks: make([]int, 0, 64),
	}
}

// CurrentWorld returns the environment's current nesting level.
func (e *Env) CurrentWorld() World { return e.world }

// PushWorld opens a new nesting level. Every reversible write performed
// before the matching PopWorld is undone when it runs.
func (e *Env) PushWorld() {
	e.marks = append(e.marks, len(e.trail))
	e.world++
}

// PopWorld restores every reversible cell written since the most recent
// PushWorld and returns to the previous world. Calling PopWorld with no
// matching PushWorld is a programming error (invariant violation).
func (e *Env) PopWorld() {
	if len(e.marks) == 0 {
		panic("cpkernel: PopWorld called with no matching PushWorld")
	}
	mark := e.marks[len(e.marks)-1]
	e.marks = e.marks[:len(e.marks)-1]
	for i := len(e.trail) - 1; i >= mark; i-- {
		e.trail[i].cell.restore()
	}
	e.trail = e.trail[:mark]
	e.world--
}

// Depth reports how many worlds are currently pushed (0 at the root).
func (e *Env) Depth() int { return len(e.marks) }

// record appends a trail entry for a cell about to be overwritten. Callers
// must only call this when the cell's last-write-world precedes the current
// world (see RevInt.Set for the canonical pattern).
func (e *Env) record(cell revCell) {
	e.trail = append(e.trail, trailEntry{cell: cell, world: e.world})
}

// RevInt is a reversible integer cell: writes in the current world are
// O(1); a write in an older world first pushes the old value onto the
// trail so PopWorld can restore it.
type RevInt struct {
	env             *Env
	value           int
	lastWriteWorld  World
}

// NewRevInt creates a reversible integer initialized to v in the
// environment's current world.
func NewRevInt(env *Env, v int) *RevInt {
	return &RevInt{env: env, value: v, lastWriteWorld: env.world}
}

// Get returns the cell's current value.
func (r *RevInt) Get() int { return r.value }

// Set writes v, trailing the previous value the first time this cell is
// touched in the current world.
func (r *RevInt) Set(v int) {
	if v == r.value {
		return
	}
	if r.lastWriteWorld < r.env.world {
		r.env.record(&revIntEntry{cell: r, saved: r.value, savedWorld: r.lastWriteWorld})
		r.lastWriteWorld = r.env.world
	}
	r.value = v
}

// revIntEntry is the trail payload for a RevInt write.
type revIntEntry struct {
	cell       *RevInt
	saved      int
	savedWorld World
}

func (e *revIntEntry) restore() {
	e.cell.value = e.saved
	e.cell.lastWriteWorld = e.savedWorld
}

// RevBool is a reversible boolean cell, built directly on RevInt.
type RevBool struct{ inner *RevInt }

// NewRevBool creates a reversible boolean initialized to v.
func NewRevBool(env *Env, v bool) *RevBool {
	iv := 0
	if v {
		iv = 1
	}
	return &RevBool{inner: NewRevInt(env, iv)}
}

// Get returns the cell's current value.
func (r *RevBool) Get() bool { return r.inner.Get() != 0 }

// Set writes v.
func (r *RevBool) Set(v bool) {
	iv := 0
	if v {
		iv = 1
	}
	r.inner.Set(iv)
}
