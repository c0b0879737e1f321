package heap

// The five GC lists (free/aged/scan/fresh/perm) are circular,
// doubly-linked through a sentinel head, exactly as in the original
// gc.h: insertion and extraction are O(1) and never need to know which
// list a cell currently belongs to beyond following its own prev/next
// links. The arena rendition keeps the same shape with int32 indices
// standing in for pointers.

func (h *Heap) listEmpty(l listID) bool {
	head := h.heads[l]
	return h.cells[head].next == head
}

// listInsertBefore inserts item immediately before p in whatever list
// p belongs to.
func (h *Heap) listInsertBefore(p, item int32) {
	prev := h.cells[p].prev
	h.cells[item].prev = prev
	h.cells[item].next = p
	h.cells[prev].next = item
	h.cells[p].prev = item
	h.cells[item].list = h.cells[p].list
}

// listInsertAfter inserts item immediately after p.
func (h *Heap) listInsertAfter(p, item int32) {
	next := h.cells[p].next
	h.cells[item].next = next
	h.cells[item].prev = p
	h.cells[next].prev = item
	h.cells[p].next = item
	h.cells[item].list = h.cells[p].list
}

// listExtract unlinks item from whatever list currently holds it. It
// is O(1) regardless of the owning list, the entire point of the
// intrusive design.
func (h *Heap) listExtract(item int32) int32 {
	prev, next := h.cells[item].prev, h.cells[item].next
	h.cells[prev].next = next
	h.cells[next].prev = prev
	h.cells[item].prev = item
	h.cells[item].next = item
	return item
}

// listPush inserts item at the head of list l.
func (h *Heap) listPush(l listID, item int32) {
	h.listInsertAfter(h.heads[l], item)
	h.cells[item].list = l
}

// listPop removes and returns the item at the head of list l.
func (h *Heap) listPop(l listID) int32 {
	head := h.heads[l]
	item := h.cells[head].next
	h.listExtract(item)
	return item
}

// listPut inserts item at the tail of list l.
func (h *Heap) listPut(l listID, item int32) {
	h.listInsertBefore(h.heads[l], item)
	h.cells[item].list = l
}

// listPull removes and returns the item at the tail of list l.
func (h *Heap) listPull(l listID) int32 {
	head := h.heads[l]
	item := h.cells[head].prev
	h.listExtract(item)
	return item
}

// listAppend moves every element of list from onto the tail of list
// to, leaving from empty.
func (h *Heap) listAppend(to, from listID) {
	fromHead := h.heads[from]
	if h.listEmpty(from) {
		return
	}
	firstItem := h.cells[fromHead].next
	lastItem := h.cells[fromHead].prev

	toHead := h.heads[to]
	toTail := h.cells[toHead].prev

	h.cells[toTail].next = firstItem
	h.cells[firstItem].prev = toTail
	h.cells[lastItem].next = toHead
	h.cells[toHead].prev = lastItem

	h.cells[fromHead].next = fromHead
	h.cells[fromHead].prev = fromHead

	for c := firstItem; c != toHead; c = h.cells[c].next {
		h.cells[c].list = to
	}
}

// listCount walks list l and counts its members (excluding the
// sentinel). Used by sanity checks and statistics, never by the hot
// allocation path.
func (h *Heap) listCount(l listID) int {
	n := 0
	head := h.heads[l]
	for c := h.cells[head].next; c != head; c = h.cells[c].next {
		n++
	}
	return n
}

// listSanityCheck verifies that every cell in list l actually points
// back to a cell recording itself as owning that list, and that the
// forward/backward links agree. It panics on the first inconsistency;
// intended for use in tests and debug builds, not the hot path.
func (h *Heap) listSanityCheck(l listID) {
	head := h.heads[l]
	c := head
	for {
		next := h.cells[c].next
		if h.cells[next].prev != c {
			panic("heap: list corruption detected")
		}
		if c != head && h.cells[c].list != l {
			panic("heap: cell claims wrong list membership")
		}
		c = next
		if c == head {
			break
		}
	}
}
