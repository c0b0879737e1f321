package heap

// Cons, Car, Cdr, Rplaca and Rplacd are the primitive pair operations
// from §4.3. Car/Cdr on a non-cell-like value is a programming error
// (panics via cellIndex); Rplaca/Rplacd additionally refuse to mutate
// an immutable pair.

func (h *Heap) Cons(a, d Value) Value { return h.NewCell(a, d) }
func (h *Heap) Car(v Value) Value     { return h.SlotFirst(v) }
func (h *Heap) Cdr(v Value) Value     { return h.SlotRest(v) }

// Mutable marks a cell as eligible for Rplaca/Rplacd. Kernel pairs
// built with plain Cons are immutable by default; the kernel package's
// mutable-cons constructor calls MarkMutable after allocation.
func (h *Heap) MarkMutable(v Value) {
	h.mutable[v.idx] = true
}

func (h *Heap) IsMutable(v Value) bool {
	return h.mutable[v.idx]
}

func (h *Heap) Rplaca(v, a Value) {
	if !h.IsMutable(v) {
		panic(ErrImmutable)
	}
	h.SetFirst(v, a)
}

func (h *Heap) Rplacd(v, d Value) {
	if !h.IsMutable(v) {
		panic(ErrImmutable)
	}
	h.SetRest(v, d)
}

// Equal is structural equality (§4.3, §8): it descends into pairs
// (KindCell values) comparing first/rest recursively, and falls back
// to Eq for everything else (atoms, numbers, function-refs, actors and
// objects compare by identity/value). Per the Open Question resolution recorded in
// SPEC_FULL.md §9, a visited-pair set makes this safe against cyclic
// mutable pairs: a cell revisited during the same comparison is
// treated as equal without recursing further, so Equal always
// terminates.
func (h *Heap) Equal(x, y Value) bool {
	return h.equalRec(x, y, make(map[[2]int32]bool))
}

func (h *Heap) equalRec(x, y Value, seen map[[2]int32]bool) bool {
	if x.kind != y.kind {
		return false
	}
	if !x.IsCell() {
		return Eq(x, y)
	}
	if x.idx == y.idx {
		return true
	}
	key := [2]int32{x.idx, y.idx}
	if seen[key] {
		return true
	}
	seen[key] = true
	return h.equalRec(h.SlotFirst(x), h.SlotFirst(y), seen) &&
		h.equalRec(h.SlotRest(x), h.SlotRest(y), seen)
}

// Length returns the number of elements of the proper list v.
func (h *Heap) Length(v Value) int {
	n := 0
	for !Eq(v, h.nilVal) {
		n++
		v = h.Cdr(v)
	}
	return n
}

// Append returns a fresh proper list holding the elements of x
// followed by the elements of y; y itself is shared, not copied.
func (h *Heap) Append(x, y Value) Value {
	if Eq(x, h.nilVal) {
		return y
	}
	return h.Cons(h.Car(x), h.Append(h.Cdr(x), y))
}

// Reverse returns a fresh proper list with the elements of v in
// reverse order.
func (h *Heap) Reverse(v Value) Value {
	out := h.nilVal
	for !Eq(v, h.nilVal) {
		out = h.Cons(h.Car(v), out)
		v = h.Cdr(v)
	}
	return out
}

// ---- Association map ----
//
// A map is a proper list of (key . value) pairs. MapPut prepends
// rather than mutating in place, so old shadowed bindings remain
// reachable — the Open Question in §9 adopts this as intentional
// snapshot semantics rather than an artifact to "fix".

// MapFind returns the first binding cell (a (key . value) pair) whose
// key is Eq to key, or the nil value if none matches.
func (h *Heap) MapFind(m, key Value) Value {
	for !Eq(m, h.nilVal) {
		binding := h.Car(m)
		if Eq(h.Car(binding), key) {
			return binding
		}
		m = h.Cdr(m)
	}
	return h.nilVal
}

// MapGetDef returns the value bound to key in m, or def if absent.
func (h *Heap) MapGetDef(m, key, def Value) Value {
	binding := h.MapFind(m, key)
	if Eq(binding, h.nilVal) {
		return def
	}
	return h.Cdr(binding)
}

// MapPut prepends a new (key . value) binding onto m and returns the
// new map head.
func (h *Heap) MapPut(m, key, value Value) Value {
	return h.Cons(h.Cons(key, value), m)
}

// MapPutAll merges amap onto m, left-biased: amap's bindings come
// first in the result and therefore shadow m's on a subsequent
// MapFind.
func (h *Heap) MapPutAll(m, amap Value) Value {
	if Eq(amap, h.nilVal) {
		return m
	}
	return h.Cons(h.Car(amap), h.MapPutAll(m, h.Cdr(amap)))
}

// MapRemove returns m with the first binding for key removed.
func (h *Heap) MapRemove(m, key Value) Value {
	if Eq(m, h.nilVal) {
		return m
	}
	binding := h.Car(m)
	if Eq(h.Car(binding), key) {
		return h.Cdr(m)
	}
	return h.Cons(binding, h.MapRemove(h.Cdr(m), key))
}

// MapCut returns m with every binding for key removed.
func (h *Heap) MapCut(m, key Value) Value {
	if Eq(m, h.nilVal) {
		return m
	}
	binding := h.Car(m)
	rest := h.MapCut(h.Cdr(m), key)
	if Eq(h.Car(binding), key) {
		return rest
	}
	return h.Cons(binding, rest)
}

// ---- O(1) queue ----
//
// A queue is a mutable cell (head . tail) where head is the list of
// items and tail is the last cell of head, letting CQPut append
// without walking the list (§4.3).

// NewQueue allocates an empty mutable queue cell.
func (h *Heap) NewQueue() Value {
	q := h.NewCell(h.nilVal, h.nilVal)
	h.MarkMutable(q)
	return q
}

func (h *Heap) CQEmpty(q Value) bool { return Eq(h.Car(q), h.nilVal) }

// CQPut appends e to the tail of the queue q.
func (h *Heap) CQPut(q, e Value) {
	cell := h.Cons(e, h.nilVal)
	if h.CQEmpty(q) {
		h.Rplaca(q, cell)
	} else {
		h.SetRest(h.Cdr(q), cell)
	}
	h.Rplacd(q, cell)
}

// CQPush prepends item to the front of the queue q. item must already
// be an allocated (value . nil) cell so CQPush can relink it; this
// mirrors the C macro's expectation that its argument is a cons cell,
// not a bare value.
func (h *Heap) CQPush(q, item Value) {
	h.SetRest(item, h.Car(q))
	if h.CQEmpty(q) {
		h.Rplacd(q, item)
	}
	h.Rplaca(q, item)
}

// CQPop removes and returns the item cell at the front of the queue q.
func (h *Heap) CQPop(q Value) Value {
	item := h.Car(q)
	h.Rplaca(q, h.Cdr(item))
	if Eq(h.Car(q), h.nilVal) {
		h.Rplacd(q, h.nilVal)
	}
	return item
}

// CQPeek returns the item cell at the front of the queue q without
// removing it.
func (h *Heap) CQPeek(q Value) Value { return h.Car(q) }
