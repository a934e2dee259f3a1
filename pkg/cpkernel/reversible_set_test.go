package cpkernel

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRevBitSetAddRemoveAndCount(t *testing.T) {
	env := NewEnv()
	b := NewRevBitSet(env, 10)
	require.Equal(t, 10, b.Count())
	require.True(t, b.Has(5))

	b.Remove(5)
	require.False(t, b.Has(5))
	require.Equal(t, 9, b.Count())

	b.Remove(5) // no-op on an already-absent value
	require.Equal(t, 9, b.Count())

	b.Add(5)
	require.True(t, b.Has(5))
	require.Equal(t, 10, b.Count())
}

func TestRevBitSetBacktrackRestoresExactWords(t *testing.T) {
	env := NewEnv()
	b := NewRevBitSet(env, 200) // spans more than one 64-bit word

	env.PushWorld()
	b.Remove(5)
	b.Remove(130) // a different word than 5
	require.Equal(t, 198, b.Count())

	env.PopWorld()
	require.True(t, b.Has(5))
	require.True(t, b.Has(130))
	require.Equal(t, 200, b.Count())
}

func TestRevBitSetNestedWorldsEachUndoTheirOwnWrites(t *testing.T) {
	env := NewEnv()
	b := NewRevBitSet(env, 10)

	env.PushWorld()
	b.Remove(1)
	env.PushWorld()
	b.Remove(2)
	require.Equal(t, 8, b.Count())

	env.PopWorld()
	require.False(t, b.Has(1))
	require.True(t, b.Has(2))
	require.Equal(t, 9, b.Count())

	env.PopWorld()
	require.True(t, b.Has(1))
	require.Equal(t, 10, b.Count())
}

func TestRevBitSetRetainOnlyAndRangeRemoval(t *testing.T) {
	env := NewEnv()
	b := NewRevBitSet(env, 10)

	b.RetainOnly(4)
	require.Equal(t, 1, b.Count())
	require.True(t, b.Has(4))
	require.False(t, b.Has(1))
	require.False(t, b.Has(10))

	b2 := NewRevBitSet(env, 10)
	b2.RemoveRange(3, 7)
	require.Equal(t, 5, b2.Count())
	require.True(t, b2.Has(2))
	require.False(t, b2.Has(5))
	require.True(t, b2.Has(8))
}

func TestRevBitSetMinMaxNextPrevious(t *testing.T) {
	env := NewEnv()
	b := NewRevBitSetFromValues(env, 10, []int{2, 4, 6, 8})

	require.Equal(t, 2, b.Min())
	require.Equal(t, 8, b.Max())
	require.Equal(t, 6, b.Next(4))
	require.Equal(t, 0, b.Next(8), "0 is the sentinel once nothing remains above v")
	require.Equal(t, 4, b.Previous(6))
	require.Equal(t, 0, b.Previous(2))
}

func TestRevBitSetEachVisitsInAscendingOrder(t *testing.T) {
	env := NewEnv()
	b := NewRevBitSetFromValues(env, 10, []int{7, 1, 4})

	var seen []int
	b.Each(func(v int) { seen = append(seen, v) })
	require.Equal(t, []int{1, 4, 7}, seen)
}

func TestRevSparseSetRemoveAndContains(t *testing.T) {
	env := NewEnv()
	s := NewRevSparseSet(env, 5)
	require.Equal(t, 5, s.Size())

	s.Remove(2)
	require.False(t, s.Contains(2))
	require.Equal(t, 4, s.Size())
	require.True(t, s.Contains(0))
	require.True(t, s.Contains(4))

	s.Remove(2) // no-op
	require.Equal(t, 4, s.Size())
}

func TestRevSparseSetBacktrackRestoresMembership(t *testing.T) {
	env := NewEnv()
	s := NewRevSparseSet(env, 5)

	env.PushWorld()
	s.Remove(0)
	s.Remove(3)
	require.Equal(t, 3, s.Size())

	env.PopWorld()
	require.Equal(t, 5, s.Size())
	for v := 0; v < 5; v++ {
		require.True(t, s.Contains(v))
	}
}

func TestRevSparseSetEachVisitsEveryRemainingMember(t *testing.T) {
	env := NewEnv()
	s := NewRevSparseSet(env, 5)
	s.Remove(1)
	s.Remove(3)

	seen := map[int]bool{}
	s.Each(func(v int) { seen[v] = true })
	require.Equal(t, map[int]bool{0: true, 2: true, 4: true}, seen)
}

func TestRevSparseSetFirstAndNextCursorOverSurvivingMembers(t *testing.T) {
	env := NewEnv()
	s := NewRevSparseSet(env, 4)
	s.Remove(2)

	var cursor []int
	for v := s.First(); v != -1; v = s.Next(v) {
		cursor = append(cursor, v)
	}
	require.Len(t, cursor, 3)
	require.NotContains(t, cursor, 2)

	empty := NewRevSparseSet(env, 0)
	require.Equal(t, -1, empty.First())
}
