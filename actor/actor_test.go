package actor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/organix/kernel-abe64/heap"
)

func echoBehavior(ctx *Context, self, state, what heap.Value) Effect {
	return None()
}

func TestSendAndRunFIFOOrder(t *testing.T) {
	h := heap.NewHeap(256)
	cfg := NewConfiguration(h, 0)

	var order []int64
	recorder := func(ctx *Context, self, state, what heap.Value) Effect {
		order = append(order, what.AsInt())
		return None()
	}
	a := cfg.NewActor(recorder, h.Inert())

	for i := int64(1); i <= 3; i++ {
		require.NoError(t, cfg.Send(a, heap.NewInt(i)))
	}

	remaining := cfg.Run(10)
	assert.Equal(t, 7, remaining) // budget 10 - 3 dispatched
	assert.Equal(t, []int64{1, 2, 3}, order)
}

func TestRunBudgetZeroIsNoop(t *testing.T) {
	h := heap.NewHeap(256)
	cfg := NewConfiguration(h, 0)
	a := cfg.NewActor(echoBehavior, h.Inert())
	require.NoError(t, cfg.Send(a, h.Inert()))

	remaining := cfg.Run(0)
	assert.Equal(t, 0, remaining)
	assert.Equal(t, 1, cfg.qCount)
}

func TestSendQueueOverflow(t *testing.T) {
	h := heap.NewHeap(256)
	cfg := NewConfiguration(h, 1)
	a := cfg.NewActor(echoBehavior, h.Inert())

	require.NoError(t, cfg.Send(a, h.Inert()))
	err := cfg.Send(a, h.Inert())
	assert.ErrorIs(t, err, ErrQueueOverflow)
}

func TestBecomeAffectsNextMessageOnly(t *testing.T) {
	h := heap.NewHeap(256)
	cfg := NewConfiguration(h, 0)

	var seen []string
	first := func(ctx *Context, self, state, what heap.Value) Effect {
		seen = append(seen, "first")
		e := None()
		secondFn := cfg.h.RegisterFunc(Behavior(func(ctx *Context, self, state, what heap.Value) Effect {
			seen = append(seen, "second")
			return None()
		}))
		e.Become(secondFn, h.Inert())
		return e
	}
	a := cfg.NewActor(first, h.Inert())

	require.NoError(t, cfg.Send(a, h.Inert()))
	require.NoError(t, cfg.Send(a, h.Inert()))
	cfg.Run(10)

	assert.Equal(t, []string{"first", "second"}, seen)
}

func TestReentrantRunPanics(t *testing.T) {
	h := heap.NewHeap(256)
	cfg := NewConfiguration(h, 0)

	inner := func(ctx *Context, self, state, what heap.Value) Effect {
		assert.Panics(t, func() { ctx.Cfg.Run(1) })
		return None()
	}
	a := cfg.NewActor(inner, h.Inert())
	require.NoError(t, cfg.Send(a, h.Inert()))
	cfg.Run(1)
}

func TestSendAfterReleasesOnTick(t *testing.T) {
	h := heap.NewHeap(256)
	cfg := NewConfiguration(h, 0)

	delivered := false
	target := cfg.NewActor(func(ctx *Context, self, state, what heap.Value) Effect {
		delivered = true
		return None()
	}, h.Inert())

	cfg.SendAfter(2, target, h.Inert())
	cfg.Tick()
	cfg.Run(10)
	assert.False(t, delivered)

	cfg.Tick()
	cfg.Run(10)
	assert.True(t, delivered)
}

func TestEffectSendFromHandlerIsBatched(t *testing.T) {
	h := heap.NewHeap(256)
	cfg := NewConfiguration(h, 0)

	var second heap.Value
	relay := func(ctx *Context, self, state, what heap.Value) Effect {
		e := None()
		e.Send(second, what)
		return e
	}
	received := heap.Value{}
	sink := func(ctx *Context, self, state, what heap.Value) Effect {
		received = what
		return None()
	}
	second = cfg.NewActor(sink, h.Inert())
	first := cfg.NewActor(relay, h.Inert())

	require.NoError(t, cfg.Send(first, heap.NewInt(42)))
	cfg.Run(10)

	assert.Equal(t, int64(42), received.AsInt())
}
