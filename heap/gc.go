package heap

// gcState tracks the tri-color collector's rotating phase. The
// original packs this into two bits of a cell's prev pointer; here it
// is an explicit field on cellRec (see cell.go) plus the "current
// generation" bookkeeping below.
//
// color cycles Z → X → 0 → 1 → 0 → 1 … (see §3.3): the first two
// steps are transient start-up colors, after which the collector
// settles into alternating between 0 and 1, which is what lets each
// cycle skip an O(n) initial sweep — half the cells are already
// colored correctly for "aged" by construction.
type gcState struct {
	curColor color
	roots    []Value
	started  bool
}

func nextColor(c color) color {
	switch c {
	case colorX:
		return color0
	case color0:
		return color1
	case color1:
		return color0
	default: // colorFree, colorZ, or uninitialized
		return colorX
	}
}

// gcState.freshColor exists so gc.go and cell.go read the same notion
// of "the color new allocations get right now".
func (g *gcState) freshColor() color {
	if !g.started {
		return colorZ
	}
	return g.curColor
}

// AddRoot pins value live across collections, implementing the
// `cfg_add_gc_root` contract from §4.4. The actor package calls this
// on behalf of Configuration.AddGCRoot; it is exposed here too so
// tests and other embedders can pin roots directly.
func (h *Heap) AddRoot(v Value) {
	h.gc.roots = append(h.gc.roots, v)
}

// Roots returns the values currently pinned as GC roots, plus the
// reserved singletons that are always implicitly live.
func (h *Heap) Roots() []Value {
	out := make([]Value, 0, len(h.gc.roots)+4)
	out = append(out, h.gc.roots...)
	out = append(out, h.nilVal, h.trueVal, h.falseVal, h.eofVal, h.ignoreVal, h.inertVal)
	return out
}

// writeBarrier implements the invariant from §4.2: a slot mutation on
// a fresh-colored cell must not create a hidden reference into the
// aged generation. If owner is fresh and target refers to an
// aged-colored cell, target is promoted (recolored and moved) to the
// scan list exactly as if the collector had just discovered it as a
// root, so an in-progress incremental scan never misses it.
func (h *Heap) writeBarrier(ownerIdx int32, target Value) {
	if !h.gc.started {
		return
	}
	if h.cells[ownerIdx].clr != h.gc.curColor {
		return // owner isn't fresh; no barrier needed
	}
	if !target.IsCellLike() {
		return
	}
	h.promoteIfAged(target.idx)
}

func (h *Heap) promoteIfAged(idx int32) {
	c := &h.cells[idx]
	if c.list != listAged {
		return
	}
	h.listExtract(idx)
	c.clr = h.gc.curColor
	h.listPush(listScan, idx)
}

// FullCollect performs a complete tri-color mark-and-sweep cycle in
// one call: rotate phases, mark roots, drain the scan queue, and
// sweep whatever remains aged onto the free list. This is the
// "atomic with respect to the actor dispatcher" form from §5.
func (h *Heap) FullCollect() {
	h.gcBeginCycle()
	h.gcMarkRoots()
	for h.gcScanChunk(-1) {
	}
	h.gcSweep()
}

// IncrementalStep advances the collector by at most budget scan
// operations (unbounded if budget < 0) and returns true if the cycle
// is still in progress afterward. It performs the mark-roots step the
// first time it is called for a cycle, then drains bounded chunks of
// the scan queue across subsequent calls; the final sweep only
// happens once the scan list is empty, per §4.2's incremental variant.
// Configuration.Run calls this between dispatch batches, never inside
// a handler, preserving the "dispatcher quiescent between chunks"
// requirement from §5.
func (h *Heap) IncrementalStep(budget int) (inProgress bool) {
	if !h.gcCycleActive() {
		h.gcBeginCycle()
		h.gcMarkRoots()
	}
	more := h.gcScanChunk(budget)
	if !more {
		h.gcSweep()
		return false
	}
	return true
}

func (h *Heap) gcCycleActive() bool {
	return !h.listEmpty(listScan) || (!h.listEmpty(listAged) && h.cycleInProgress)
}

func (h *Heap) gcBeginCycle() {
	h.gc.started = true
	h.cycleInProgress = true
	h.listAppend(listAged, listFresh)
	h.gc.curColor = nextColor(h.gc.curColor)
}

func (h *Heap) gcMarkRoots() {
	for _, r := range h.Roots() {
		if r.IsCellLike() {
			h.promoteIfAged(r.idx)
		}
	}
	// perm cells are never swept, but their outgoing references
	// into the aged generation must still be kept live.
	head := h.heads[listPerm]
	for c := h.cells[head].next; c != head; c = h.cells[c].next {
		h.markSlot(h.cells[c].first)
		h.markSlot(h.cells[c].rest)
	}
}

func (h *Heap) markSlot(v Value) {
	if v.IsCellLike() {
		h.promoteIfAged(v.idx)
	}
}

// gcScanChunk removes up to budget cells from the scan list (all of
// them if budget < 0), examines their slots, and moves each scanned
// cell onto the fresh list with the current color once its edges have
// been followed. Returns whether the scan list still has work left.
func (h *Heap) gcScanChunk(budget int) bool {
	n := 0
	for !h.listEmpty(listScan) {
		if budget >= 0 && n >= budget {
			return true
		}
		idx := h.listPop(listScan)
		h.markSlot(h.cells[idx].first)
		h.markSlot(h.cells[idx].rest)
		h.cells[idx].clr = h.gc.curColor
		h.listPush(listFresh, idx)
		n++
	}
	return false
}

// gcSweep moves every cell still on the aged list — unreachable, since
// the scan queue has fully drained — onto the free list in bulk.
func (h *Heap) gcSweep() {
	h.listAppend(listFree, listAged)
	h.cycleInProgress = false
}

// Stats reports the current population of each GC-managed list, for
// diagnostics and tests.
type Stats struct {
	Free, Aged, Scan, Fresh, Perm int
}

func (h *Heap) Stats() Stats {
	return Stats{
		Free:  h.listCount(listFree),
		Aged:  h.listCount(listAged),
		Scan:  h.listCount(listScan),
		Fresh: h.listCount(listFresh),
		Perm:  h.listCount(listPerm),
	}
}

// SanityCheck runs listSanityCheck over all five lists, useful from
// tests after a sequence of mutations and collections.
func (h *Heap) SanityCheck() {
	for l := listID(0); l < numLists; l++ {
		h.listSanityCheck(l)
	}
}
