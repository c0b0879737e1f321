package heap

// color is the two-bit GC phase tag that used to live in the low bits
// of a cell's prev pointer (see cons.h / gc.h in the original source).
// Here it is simply a field alongside the link indices.
type color uint8

const (
	colorFree color = iota
	colorZ
	colorX
	color0
	color1
)

// listID names one of the five intrusive lists a cell can belong to.
type listID uint8

const (
	listFree listID = iota
	listAged
	listScan
	listFresh
	listPerm
	numLists
)

// cellRec is the arena record for one three-slot cell: first/rest are
// the Kernel-visible slots, prev/next link it into whichever of the
// five GC lists currently owns it, and clr is its phase color.
type cellRec struct {
	first, rest Value
	prev, next  int32
	clr         color
	list        listID
}

// Heap owns the cell arena, the atom table, the function registry and
// the garbage collector's phase state. It is the process-wide
// singleton described in §5 of the specification, but unlike the C
// original it is an explicit value threaded through every call rather
// than a global: callers obtain it once at startup and pass it to
// every package that allocates (actor.Configuration, the kernel
// evaluator, the reader).
type Heap struct {
	cells []cellRec
	heads [numLists]int32 // sentinel head index for each list

	atoms     atomTable
	funcs     []any
	nilVal    Value
	trueVal   Value
	falseVal  Value
	eofVal    Value
	ignoreVal Value
	inertVal  Value

	gc              gcState
	cycleInProgress bool
	mutable         map[int32]bool
}

// NewHeap allocates a fresh heap with initialCells pre-allocated onto
// the free list. The arena never grows past that: a heap with zero
// free cells can be constructed, but its first allocation triggers a
// collection and, with nothing to reclaim, panics with
// ErrHeapExhausted.
func NewHeap(initialCells int) *Heap {
	h := &Heap{}
	// index 0 is never a real cell; reserve it so that the zero
	// Value (kind=KindCell, idx=0) is never accidentally valid.
	h.cells = make([]cellRec, 1, initialCells+int(numLists)+1)

	for l := listID(0); l < numLists; l++ {
		idx := h.newSentinel()
		h.heads[l] = idx
		h.cells[idx].list = l
	}

	for i := 0; i < initialCells; i++ {
		idx := h.rawAlloc()
		h.cells[idx].list = listFree
		h.listPush(listFree, idx)
	}

	h.atoms = newAtomTable()
	h.mutable = make(map[int32]bool)
	h.nilVal = h.NewPerm(Value{}, Value{})
	h.cells[h.nilVal.idx].first = h.nilVal
	h.cells[h.nilVal.idx].rest = h.nilVal

	h.trueVal = Value{kind: KindAtom, idx: h.atoms.intern("#t")}
	h.falseVal = Value{kind: KindAtom, idx: h.atoms.intern("#f")}
	h.eofVal = Value{kind: KindAtom, idx: h.atoms.intern("#eof")}
	h.ignoreVal = Value{kind: KindAtom, idx: h.atoms.intern("#ignore")}
	h.inertVal = Value{kind: KindAtom, idx: h.atoms.intern("#inert")}

	return h
}

// Reserved singletons, never garbage collected.
func (h *Heap) Nil() Value    { return h.nilVal }
func (h *Heap) True() Value   { return h.trueVal }
func (h *Heap) False() Value  { return h.falseVal }
func (h *Heap) EOF() Value    { return h.eofVal }
func (h *Heap) Ignore() Value { return h.ignoreVal }
func (h *Heap) Inert() Value  { return h.inertVal }

// Bool converts a host boolean to the reserved True/False singleton.
func (h *Heap) Bool(b bool) Value {
	if b {
		return h.trueVal
	}
	return h.falseVal
}

func (h *Heap) newSentinel() int32 {
	idx := int32(len(h.cells))
	h.cells = append(h.cells, cellRec{prev: idx, next: idx})
	return idx
}

func (h *Heap) rawAlloc() int32 {
	idx := int32(len(h.cells))
	h.cells = append(h.cells, cellRec{})
	return idx
}

// NewCell allocates a fresh cell holding (first, rest) and puts it on
// the fresh list under the current fresh color, triggering a
// collection first if the free list is empty.
func (h *Heap) NewCell(first, rest Value) Value {
	return h.allocCellLike(first, rest, KindCell)
}

// NewActor allocates a cell shaped like an actor: first is the
// behavior function-ref, rest is the captured state.
func (h *Heap) NewActor(behavior, state Value) Value {
	return h.allocCellLike(behavior, state, KindActor)
}

// NewObject allocates an opaque two-slot cell tagged as an object
// rather than a cell or an actor.
func (h *Heap) NewObject(first, rest Value) Value {
	return h.allocCellLike(first, rest, KindObject)
}

func (h *Heap) allocCellLike(first, rest Value, kind Kind) Value {
	idx := h.allocIndex()
	h.cells[idx].first = first
	h.cells[idx].rest = rest
	h.writeBarrier(idx, first)
	h.writeBarrier(idx, rest)
	return Value{kind: kind, idx: idx}
}

func (h *Heap) allocIndex() int32 {
	if h.listEmpty(listFree) {
		h.FullCollect()
		if h.listEmpty(listFree) {
			panic(ErrHeapExhausted)
		}
	}
	idx := h.listPop(listFree)
	delete(h.mutable, idx) // a recycled slot starts immutable again
	h.cells[idx].clr = h.gc.freshColor()
	h.cells[idx].list = listFresh
	h.listPush(listFresh, idx)
	return idx
}

// NewPerm allocates a cell on the perm list, which the collector never
// visits. Used for sentinels and statically referenced ground values.
func (h *Heap) NewPerm(first, rest Value) Value {
	idx := h.rawAlloc()
	h.cells[idx].first = first
	h.cells[idx].rest = rest
	h.cells[idx].list = listPerm
	h.listPush(listPerm, idx)
	return Value{kind: KindCell, idx: idx}
}

// SlotFirst and SlotRest read a cell-like value's two slots.
func (h *Heap) SlotFirst(v Value) Value { return h.cells[v.cellIndex()].first }
func (h *Heap) SlotRest(v Value) Value  { return h.cells[v.cellIndex()].rest }

// SetFirst and SetRest overwrite a cell-like value's slots, applying
// the write barrier so the tri-color invariant survives the mutation.
func (h *Heap) SetFirst(v, newVal Value) {
	idx := v.cellIndex()
	h.writeBarrier(idx, newVal)
	h.cells[idx].first = newVal
}

func (h *Heap) SetRest(v, newVal Value) {
	idx := v.cellIndex()
	h.writeBarrier(idx, newVal)
	h.cells[idx].rest = newVal
}

// RegisterFunc interns a Go-side behavior/primitive implementation and
// returns the opaque Func value referring to it, matching the "code
// address" payload of the original function-ref tag. fn is typically
// a kernel.Behavior; the heap package only ever treats it as an opaque
// registry slot.
func (h *Heap) RegisterFunc(fn any) Value {
	idx := int32(len(h.funcs))
	h.funcs = append(h.funcs, fn)
	return Value{kind: KindFunc, idx: idx}
}

// Func retrieves the Go value registered under a Func value.
func (h *Heap) Func(v Value) any {
	if v.kind != KindFunc {
		panic("heap: Func on non-Func value")
	}
	return h.funcs[v.idx]
}

// Intern returns the atom whose identity corresponds to name, creating
// it on first use. Atom equality is pointer (index) equality forever
// after.
func (h *Heap) Intern(name string) Value {
	return Value{kind: KindAtom, idx: h.atoms.intern(name)}
}

// AtomName returns the interned name backing an atom value.
func (h *Heap) AtomName(v Value) string {
	if v.kind != KindAtom {
		panic("heap: AtomName on non-Atom value")
	}
	return h.atoms.name(v.idx)
}
