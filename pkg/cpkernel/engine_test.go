package cpkernel

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// recordingPropagator is an Incremental propagator that records the order
// and identity of every varID it is woken for, so tests can assert on
// Engine.Run's dispatch order instead of just its end state.
type recordingPropagator struct {
	PropagatorBase
	seen []int
}

func newRecordingPropagator(eng *Engine) *recordingPropagator {
	p := &recordingPropagator{PropagatorBase: NewPropagatorBase(eng, "Recording", PriorityLinear)}
	return p
}

func (p *recordingPropagator) InitialPropagate() error { return nil }

func (p *recordingPropagator) Propagate(varIndex int, mask EventMask) error {
	p.seen = append(p.seen, varIndex)
	return nil
}

func (p *recordingPropagator) IsEntailed() Entailment { return EntailmentUndefined }

func TestEngineDispatchesDirtyVarsInNotificationOrder(t *testing.T) {
	eng := newTestEngine()
	vars := make([]*IntVar, 5)
	for i := range vars {
		vars[i] = NewBoundedIntVar(eng, "v", 0, 10)
	}

	p := newRecordingPropagator(eng)
	for _, v := range vars {
		eng.Subscribe(v.ID(), p, EventMask(EventDecUpp))
	}
	require.NoError(t, eng.Post(p))

	// Notify out of id order: 3, 1, 4, 0, 2. Dispatch must replay exactly
	// this order since propState.dirty is an append-only slice, not a map.
	order := []int{3, 1, 4, 0, 2}
	for _, i := range order {
		require.NoError(t, vars[i].UpdateUB(5, testCause))
	}
	require.NoError(t, eng.Run())

	require.Equal(t, []int{vars[3].ID(), vars[1].ID(), vars[4].ID(), vars[0].ID(), vars[2].ID()}, p.seen)
}

func TestEngineDedupsRepeatedNotificationsOfSameVar(t *testing.T) {
	eng := newTestEngine()
	v := NewBoundedIntVar(eng, "v", 0, 10)
	p := newRecordingPropagator(eng)
	eng.Subscribe(v.ID(), p, EventMask(EventDecUpp))
	require.NoError(t, eng.Post(p))

	// Two reductions on the same variable before Run ever drains the queue
	// must coalesce into a single dirty entry, not two.
	require.NoError(t, v.UpdateUB(8, testCause))
	require.NoError(t, v.UpdateUB(5, testCause))
	require.NoError(t, eng.Run())

	require.Equal(t, []int{v.ID()}, p.seen)
}

func TestEngineRunStopsAtContradictionAndResetQueueClearsState(t *testing.T) {
	eng := newTestEngine()
	g := NewGraphVar(eng, "g", 3, false, NeighborhoodMatrix)
	p := NewDegreeBoundsPropagator(eng, g, []int{0, 0, 0}, []int{1, 1, 1})
	require.NoError(t, eng.Post(p))

	// Both EnforceArc calls succeed on their own terms (GraphVar has no
	// notion of degree); the contradiction only surfaces once Run
	// dispatches DegreeBoundsPropagator and it notices node 0 now has
	// degree 2 against a max of 1.
	require.NoError(t, g.EnforceArc(0, 1, testCause))
	require.NoError(t, g.EnforceArc(0, 2, testCause))
	err := eng.Run()
	require.Error(t, err)
	require.IsType(t, &Contradiction{}, err)

	// A failed Run leaves scheduling bookkeeping dirty; the search loop is
	// responsible for calling ResetQueue before the trail is popped.
	eng.ResetQueue()
	for _, st := range eng.state {
		require.False(t, st.scheduled)
		require.Nil(t, st.dirty)
		require.Nil(t, st.dirtySeen)
	}
}

func TestEnginePostRunsInitialPropagateAtConstructionTime(t *testing.T) {
	eng := newTestEngine()
	a := NewBoundedIntVar(eng, "a", 5, 10)
	b := NewBoundedIntVar(eng, "b", 0, 3)
	sum, err := NewSumView(eng, "sum", a, b)
	require.NoError(t, err)

	require.NotNil(t, sum)
	require.Equal(t, 5, sum.LB(), "a.lb + b.lb propagated at construction time")
}

func TestEngineScheduleCoalescesRepeatPostsOfSamePropagator(t *testing.T) {
	eng := newTestEngine()
	v := NewBoundedIntVar(eng, "v", 0, 10)
	p := newRecordingPropagator(eng)
	eng.Subscribe(v.ID(), p, EventMask(EventDecUpp))
	require.NoError(t, eng.Post(p))

	require.NoError(t, v.UpdateUB(9, testCause))
	require.NoError(t, v.UpdateUB(8, testCause))
	require.NoError(t, v.UpdateUB(7, testCause))

	// All three reductions must still be pending as one scheduled entry
	// until Run drains it.
	require.Equal(t, 1, len(eng.queues[PriorityLinear]))
	require.NoError(t, eng.Run())
	require.Equal(t, []int{v.ID()}, p.seen, "coalesced into a single wake-up carrying one dirty entry")
}
