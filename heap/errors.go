package heap

import (
	"fmt"
	"runtime"
)

// HeapError is the common type behind the heap package's fatal
// conditions. It mirrors the teacher's ParsingError: a typed payload
// with a readable Error() rendering rather than a bare string.
type HeapError struct {
	Kind    string
	Message string
}

func (e *HeapError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// ErrHeapExhausted is raised when allocation fails even after a full
// collection: per §4.1, this is fatal and not locally recoverable.
var ErrHeapExhausted = &HeapError{Kind: "AT", Message: "cell arena exhausted after full collection"}

// ErrImmutable is raised by Rplaca/Rplacd against an immutable pair.
var ErrImmutable = &HeapError{Kind: "Immutable", Message: "attempt to mutate an immutable pair"}

// AssertionError is the Go rendition of the original `ENSURE` macro: it
// records the file/line of the failed invariant the way the C
// preprocessor macro did, without needing a preprocessor.
type AssertionError struct {
	Message string
	File    string
	Line    int
}

func (e *AssertionError) Error() string {
	return fmt.Sprintf("AT %s:%d: %s", e.File, e.Line, e.Message)
}

// Ensure panics with an AssertionError carrying the caller's file and
// line when cond is false, matching the original ENSURE(cond) macro's
// "internal invariant violation (file/line)" contract (§7).
func Ensure(cond bool, msg string) {
	if cond {
		return
	}
	_, file, line, _ := runtime.Caller(1)
	panic(&AssertionError{Message: msg, File: file, Line: line})
}
