package cpkernel

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRevIntRoundTrip(t *testing.T) {
	env := NewEnv()
	r := NewRevInt(env, 10)

	env.PushWorld()
	r.Set(20)
	require.Equal(t, 20, r.Get())

	env.PushWorld()
	r.Set(30)
	require.Equal(t, 30, r.Get())

	env.PopWorld()
	require.Equal(t, 20, r.Get(), "popping world 2 restores the value as of world 1")

	env.PopWorld()
	require.Equal(t, 10, r.Get(), "popping world 1 restores the root value")
}

func TestRevIntNoTrailEntryWithinSameWorld(t *testing.T) {
	env := NewEnv()
	r := NewRevInt(env, 1)

	env.PushWorld()
	r.Set(2)
	r.Set(3)
	r.Set(4)
	before := len(env.trail)
	r.Set(5) // same world again: still only one entry total for this cell+world
	require.Equal(t, before, len(env.trail))

	env.PopWorld()
	require.Equal(t, 1, r.Get())
}

func TestRevBoolRoundTrip(t *testing.T) {
	env := NewEnv()
	b := NewRevBool(env, false)

	env.PushWorld()
	b.Set(true)
	require.True(t, b.Get())

	env.PopWorld()
	require.False(t, b.Get())
}

func TestEnvDepthTracksPushPop(t *testing.T) {
	env := NewEnv()
	require.Equal(t, 0, env.Depth())
	env.PushWorld()
	env.PushWorld()
	require.Equal(t, 2, env.Depth())
	env.PopWorld()
	require.Equal(t, 1, env.Depth())
}
