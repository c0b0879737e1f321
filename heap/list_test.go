package heap

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConsCarCdr(t *testing.T) {
	h := NewHeap(8)
	p := h.Cons(NewInt(1), NewInt(2))
	assert.Equal(t, int64(1), h.Car(p).AsInt())
	assert.Equal(t, int64(2), h.Cdr(p).AsInt())
}

func TestRplacaRplacdRequireMutable(t *testing.T) {
	h := NewHeap(8)
	p := h.Cons(NewInt(1), NewInt(2))

	assert.PanicsWithValue(t, ErrImmutable, func() { h.Rplaca(p, NewInt(9)) })
	assert.PanicsWithValue(t, ErrImmutable, func() { h.Rplacd(p, NewInt(9)) })

	h.MarkMutable(p)
	h.Rplaca(p, NewInt(9))
	h.Rplacd(p, NewInt(10))
	assert.Equal(t, int64(9), h.Car(p).AsInt())
	assert.Equal(t, int64(10), h.Cdr(p).AsInt())
}

func TestMarkMutableResetsOnRecycledSlot(t *testing.T) {
	h := NewHeap(1)
	a := h.Cons(NewInt(1), NewInt(1))
	h.MarkMutable(a)
	assert.True(t, h.IsMutable(a))

	// force a and everything else unrooted onto the free list, then
	// reallocate: a recycled slot must start immutable again.
	h.FullCollect()
	b := h.Cons(NewInt(2), NewInt(2))
	assert.False(t, h.IsMutable(b))
}

func TestEqualStructural(t *testing.T) {
	h := NewHeap(8)
	x := h.Cons(NewInt(1), h.Cons(NewInt(2), h.Nil()))
	y := h.Cons(NewInt(1), h.Cons(NewInt(2), h.Nil()))
	z := h.Cons(NewInt(1), h.Cons(NewInt(3), h.Nil()))

	assert.True(t, h.Equal(x, y))
	assert.False(t, h.Equal(x, z))
	assert.False(t, Eq(x, y))
}

func TestEqualTerminatesOnCycle(t *testing.T) {
	h := NewHeap(8)
	x := h.Cons(NewInt(1), h.Nil())
	h.MarkMutable(x)
	h.Rplacd(x, x)

	y := h.Cons(NewInt(1), h.Nil())
	h.MarkMutable(y)
	h.Rplacd(y, y)

	assert.True(t, h.Equal(x, y))
}

func TestLengthAppendReverse(t *testing.T) {
	h := NewHeap(32)
	list := h.Cons(NewInt(1), h.Cons(NewInt(2), h.Cons(NewInt(3), h.Nil())))
	assert.Equal(t, 3, h.Length(list))

	other := h.Cons(NewInt(4), h.Nil())
	joined := h.Append(list, other)
	assert.Equal(t, 4, h.Length(joined))
	assert.True(t, h.Equal(joined, h.Cons(NewInt(1), h.Cons(NewInt(2), h.Cons(NewInt(3), h.Cons(NewInt(4), h.Nil()))))))

	reversed := h.Reverse(list)
	assert.True(t, h.Equal(reversed, h.Cons(NewInt(3), h.Cons(NewInt(2), h.Cons(NewInt(1), h.Nil())))))
}

func TestMapFindPutShadowing(t *testing.T) {
	h := NewHeap(16)
	a, b := h.Intern("a"), h.Intern("b")

	m := h.nilVal
	m = h.MapPut(m, a, NewInt(1))
	assert.Equal(t, int64(1), h.MapGetDef(m, a, NewInt(-1)).AsInt())
	assert.Equal(t, int64(-1), h.MapGetDef(m, b, NewInt(-1)).AsInt())

	m = h.MapPut(m, a, NewInt(2))
	assert.Equal(t, int64(2), h.MapGetDef(m, a, NewInt(-1)).AsInt(), "MapPut prepends, so the newest binding shadows the old one")
}

func TestMapPutAllIsLeftBiased(t *testing.T) {
	h := NewHeap(16)
	a := h.Intern("a")

	base := h.MapPut(h.nilVal, a, NewInt(1))
	override := h.MapPut(h.nilVal, a, NewInt(2))

	merged := h.MapPutAll(base, override)
	assert.Equal(t, int64(2), h.MapGetDef(merged, a, NewInt(-1)).AsInt())
}

func TestMapRemoveAndCut(t *testing.T) {
	h := NewHeap(16)
	a := h.Intern("a")

	m := h.nilVal
	m = h.MapPut(m, a, NewInt(1))
	m = h.MapPut(m, a, NewInt(2))

	once := h.MapRemove(m, a)
	assert.Equal(t, int64(1), h.MapGetDef(once, a, NewInt(-1)).AsInt(), "MapRemove drops only the first matching binding")

	cut := h.MapCut(m, a)
	assert.Equal(t, int64(-1), h.MapGetDef(cut, a, NewInt(-1)).AsInt(), "MapCut drops every matching binding")
}

func TestQueueFIFOOrder(t *testing.T) {
	h := NewHeap(16)
	q := h.NewQueue()
	assert.True(t, h.CQEmpty(q))

	h.CQPut(q, NewInt(1))
	h.CQPut(q, NewInt(2))
	h.CQPut(q, NewInt(3))
	assert.False(t, h.CQEmpty(q))

	assert.Equal(t, int64(1), h.Car(h.CQPeek(q)).AsInt())

	got := []int64{}
	for !h.CQEmpty(q) {
		got = append(got, h.Car(h.CQPop(q)).AsInt())
	}
	assert.Equal(t, []int64{1, 2, 3}, got)
}

func TestQueuePushPrepends(t *testing.T) {
	h := NewHeap(16)
	q := h.NewQueue()
	h.CQPut(q, NewInt(2))
	h.CQPush(q, h.Cons(NewInt(1), h.Nil()))

	got := []int64{}
	for !h.CQEmpty(q) {
		got = append(got, h.Car(h.CQPop(q)).AsInt())
	}
	assert.Equal(t, []int64{1, 2}, got)
}
