package reader

import (
	"fmt"
	"io"

	"github.com/organix/kernel-abe64/heap"
)

// CharSink is the output side of the printer: a destination for the
// external representation produced by Write.
type CharSink interface {
	io.Writer
}

// Writer prints heap.Value trees back to their external
// representation, the inverse of Reader.
type Writer struct {
	h *heap.Heap
	w io.Writer
}

func NewWriter(h *heap.Heap, w io.Writer) *Writer {
	return &Writer{h: h, w: w}
}

// Write prints v followed by nothing (no trailing newline); callers
// compose their own line endings, matching the teacher's separation of
// printing from driving I/O.
func (wr *Writer) Write(v heap.Value) error {
	return wr.write(v)
}

// Print is Write followed by a newline, the form the REPL uses for a
// top-level result.
func (wr *Writer) Print(v heap.Value) error {
	if err := wr.write(v); err != nil {
		return err
	}
	_, err := fmt.Fprintln(wr.w)
	return err
}

func (wr *Writer) write(v heap.Value) error {
	h := wr.h
	switch {
	case heap.Eq(v, h.Nil()):
		return wr.str("()")
	case v.IsInt():
		return wr.str(fmt.Sprintf("%d", v.AsInt()))
	case v.IsAtom():
		return wr.str(h.AtomName(v))
	case v.IsFunc():
		return wr.str(fmt.Sprintf("#[compiled %d]", v.AsFuncID()))
	case v.IsActor():
		return wr.str("#[actor]")
	case v.IsObject():
		return wr.str("#[object]")
	case v.IsCell():
		return wr.writeList(v)
	default:
		return wr.str("#[unknown]")
	}
}

func (wr *Writer) writeList(v heap.Value) error {
	h := wr.h
	if err := wr.str("("); err != nil {
		return err
	}
	first := true
	for {
		if !first {
			if err := wr.str(" "); err != nil {
				return err
			}
		}
		first = false
		if err := wr.write(h.Car(v)); err != nil {
			return err
		}
		rest := h.Cdr(v)
		if heap.Eq(rest, h.Nil()) {
			break
		}
		if !rest.IsCell() {
			if err := wr.str(" . "); err != nil {
				return err
			}
			if err := wr.write(rest); err != nil {
				return err
			}
			break
		}
		v = rest
	}
	return wr.str(")")
}

func (wr *Writer) str(s string) error {
	_, err := io.WriteString(wr.w, s)
	return err
}
