package kernel

import (
	"fmt"
	"strings"

	"github.com/organix/kernel-abe64/heap"
	"github.com/organix/kernel-abe64/reader"
)

// Kind tags the THROW taxonomy of §7: a KernelError always carries one
// of these, the way the teacher's ParsingError always carries a Span
// pinpointing the failure.
const (
	KindUndefined     = "Undefined"
	KindImmutable     = "Immutable"
	KindNotUnderstood = "Not-Understood"
	KindArithError    = "Arith-Error"
)

// KernelError is a Kernel-level evaluation failure: an unbound symbol,
// a combiner applied to the wrong shape of operands, an ENSURE-style
// invariant violation surfaced from the heap layer. Message already
// renders the implicated value (via writeString) the way the teacher's
// ParsingError renders its Span inline.
type KernelError struct {
	Kind    string
	Message string
}

func (e *KernelError) Error() string {
	if e.Kind == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (k *Kernel) errorf(format string, args ...any) *KernelError {
	return &KernelError{Message: fmt.Sprintf(format, args...)}
}

// throwf builds a KernelError tagged with one of the §7 THROW kinds,
// for call sites where the taxonomy matters (unbound lookups, brand
// mismatches, arithmetic faults) rather than a generic failure.
func (k *Kernel) throwf(kind, format string, args ...any) *KernelError {
	return &KernelError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// writeString renders v through reader.Writer for use inside error
// messages, so a KernelError reads like "unbound symbol: foo" rather
// than a raw Go struct dump.
func (k *Kernel) writeString(v heap.Value) string {
	var sb strings.Builder
	_ = reader.NewWriter(k.H, &sb).Write(v)
	return sb.String()
}
