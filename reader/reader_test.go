package reader

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/organix/kernel-abe64/heap"
)

func readOne(t *testing.T, h *heap.Heap, text string) heap.Value {
	t.Helper()
	r := New(h, NewStringSource("test", text))
	v, err := r.Read()
	require.NoError(t, err)
	return v
}

func TestReadAtomsAndSingletons(t *testing.T) {
	h := heap.NewHeap(256)
	assert.True(t, heap.Eq(readOne(t, h, "#t"), h.True()))
	assert.True(t, heap.Eq(readOne(t, h, "#f"), h.False()))
	assert.True(t, heap.Eq(readOne(t, h, "#inert"), h.Inert()))
	assert.True(t, heap.Eq(readOne(t, h, "#ignore"), h.Ignore()))
	assert.True(t, heap.Eq(readOne(t, h, "Foo"), h.Intern("foo")))
}

func TestReadNumbers(t *testing.T) {
	h := heap.NewHeap(256)
	assert.Equal(t, int64(42), readOne(t, h, "42").AsInt())
	assert.Equal(t, int64(-7), readOne(t, h, "-7").AsInt())
	assert.Equal(t, int64(7), readOne(t, h, "+7").AsInt())
}

func TestReadCharLiterals(t *testing.T) {
	h := heap.NewHeap(256)
	assert.Equal(t, int64('\n'), readOne(t, h, `'\n'`).AsInt())
	assert.Equal(t, int64('a'), readOne(t, h, `'a'`).AsInt())
	assert.Equal(t, int64('\\'), readOne(t, h, `'\\'`).AsInt())
}

func TestReadCharLiteralMalformed(t *testing.T) {
	h := heap.NewHeap(256)
	r := New(h, NewStringSource("test", `'ab'`))
	_, err := r.Read()
	assert.Error(t, err)
}

func TestReadProperAndDottedLists(t *testing.T) {
	h := heap.NewHeap(256)

	v := readOne(t, h, "(1 2 3)")
	assert.Equal(t, 3, h.Length(v))
	assert.Equal(t, int64(1), h.Car(v).AsInt())

	dotted := readOne(t, h, "(1 . 2)")
	assert.Equal(t, int64(1), h.Car(dotted).AsInt())
	assert.Equal(t, int64(2), h.Cdr(dotted).AsInt())

	r := New(h, NewStringSource("test", "(1 . 2 3)"))
	_, err := r.Read()
	assert.Error(t, err)
}

func TestReadEmptyList(t *testing.T) {
	h := heap.NewHeap(256)
	v := readOne(t, h, "()")
	assert.True(t, heap.Eq(v, h.Nil()))
}

func TestReadSkipsComments(t *testing.T) {
	h := heap.NewHeap(256)
	v := readOne(t, h, "; a comment\n  42")
	assert.Equal(t, int64(42), v.AsInt())
}

func TestReadReturnsEOFSingleton(t *testing.T) {
	h := heap.NewHeap(256)
	r := New(h, NewStringSource("test", "   "))
	v, err := r.Read()
	require.NoError(t, err)
	assert.True(t, heap.Eq(v, h.EOF()))
}

func TestWriteRoundTrip(t *testing.T) {
	h := heap.NewHeap(256)
	v := readOne(t, h, "(foo 1 (bar . 2) #t ())")

	var sb strings.Builder
	w := NewWriter(h, &sb)
	require.NoError(t, w.Write(v))
	assert.Equal(t, "(foo 1 (bar . 2) #t ())", sb.String())
}
