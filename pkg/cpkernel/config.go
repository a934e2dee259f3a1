package cpkernel

// MSTAlgorithm selects how the Held-Karp one-tree propagator computes its
// minimum spanning tree each subgradient iteration (spec §4.8's Open
// Question: the MST algorithm is a configuration knob, not a fork in the
// propagator's contract). This is orthogonal to HKActivation below: one
// picks *how* the one-tree bound is computed, the other picks *when* the
// propagator runs at all.
type MSTAlgorithm string

// Recognised MST algorithms.
const (
	MSTDensePrim MSTAlgorithm = "dense_prim" // O(n^2) per iteration, default
	MSTKruskal   MSTAlgorithm = "kruskal"    // O(m log m), better for sparse envelopes
)

// HKActivation selects when the Held-Karp one-tree propagator is allowed to
// run, per spec's tsp() factory parameter hk_mode ∈ {0,1,2}.
type HKActivation int

// Recognised Held-Karp activation modes, numbered per the spec's hk_mode.
const (
	HKDisabled           HKActivation = 0 // no Held-Karp at all
	HKFromRoot           HKActivation = 1 // active from the first propagation
	HKAfterFirstSolution HKActivation = 2 // dormant until the search finds one solution, then active
)

// RoundingMode names a way of turning Held-Karp's fractional bound into an
// integer cost cutoff. It is stored in Config, but no propagator reads it:
// HeldKarpPropagator always rounds its bound up.
type RoundingMode string

// Recognised rounding modes.
const (
	RoundDown RoundingMode = "down" // floor(bound), always valid since cost is integral
	RoundNone RoundingMode = "none" // keep the fractional bound, compare as float
)

// Config is the solver-wide configuration surface (spec §6.2): search
// limits, the MST algorithm for the Held-Karp propagator, a rounding mode,
// and whether a found solution triggers a restart. Mirrors the shape of the
// teacher's SolverConfig (pkg/minikanren/solver.go) but trimmed to the
// knobs this kernel actually exposes.
type Config struct {
	// MSTAlgorithm selects the MST algorithm used by the Held-Karp one-tree
	// propagator (default MSTDensePrim). hk_mode itself (whether/when
	// Held-Karp runs at all) is a per-constraint factory parameter, not a
	// model-wide config knob — see TSP() and HKActivation.
	MSTAlgorithm MSTAlgorithm

	// AllDiffAC records whether arc-consistent (Régin) all-different
	// filtering is wanted. No propagator reads it: nCliques and nTrees post
	// no all-different filtering of either strength.
	AllDiffAC bool

	// TimeLimitMs stops search once this many milliseconds have elapsed
	// since Searcher.Run started. Zero means unlimited.
	TimeLimitMs int64

	// FailLimit stops search after this many contradictions. Zero means
	// unlimited.
	FailLimit int64

	// SolutionLimit stops search after this many solutions have been
	// found. Zero means unlimited.
	SolutionLimit int64

	// RestartOnSolution triggers a restart to the root world immediately
	// after recording a solution, rather than continuing to backtrack
	// within the current subtree (used by branch-and-bound optimization).
	RestartOnSolution bool

	// Rounding is the stored rounding mode; see RoundingMode.
	Rounding RoundingMode
}

// DefaultConfig returns the configuration used when a model is created
// without an explicit one: dense-Prim Held-Karp, AllDiffAC off, no limits,
// no restart, Rounding set to RoundDown.
func DefaultConfig() *Config {
	return &Config{
		MSTAlgorithm:      MSTDensePrim,
		AllDiffAC:         false,
		TimeLimitMs:       0,
		FailLimit:         0,
		SolutionLimit:     0,
		RestartOnSolution: false,
		Rounding:          RoundDown,
	}
}
