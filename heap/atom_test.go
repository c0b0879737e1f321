package heap

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInternSharesIdentityForEqualContent(t *testing.T) {
	h := NewHeap(4)
	a1 := h.Intern("foo")
	a2 := h.Intern("foo")
	assert.True(t, Eq(a1, a2))
	assert.Equal(t, a1.Kind(), a2.Kind())
}

func TestInternDistinguishesDifferentContent(t *testing.T) {
	h := NewHeap(4)
	a := h.Intern("foo")
	b := h.Intern("bar")
	assert.False(t, Eq(a, b))
}

func TestAtomNameRoundTrips(t *testing.T) {
	h := NewHeap(4)
	names := []string{"lambda", "$vau", "#ignore", "a-very-long-symbol-name"}
	for _, name := range names {
		a := h.Intern(name)
		assert.Equal(t, name, h.AtomName(a))
	}
}

func TestInternIsAppendOnlyAcrossCollections(t *testing.T) {
	h := NewHeap(4)
	a := h.Intern("persists")
	h.FullCollect()
	b := h.Intern("persists")
	assert.True(t, Eq(a, b), "the atom table is not part of the cell arena and must survive collection")
}
