// Package kernel implements the Kernel-family fexpr/vau evaluator
// described by SPEC_FULL.md §4.5–§4.9. Every value answers a small
// generic protocol (eval/match/comb/lookup/...) by actor message: a
// shared dispatcher actor (dispatch.go) classifies the addressed value
// into one of the type behaviors named by §9 (nullType, symbolType,
// pairType, envType, vauType, ...) and that behavior issues further
// sends rather than returning synchronously, chaining through
// continuation actors (continuations.go) until a final reply reaches
// the original customer. Environments, vau-closures and applicative
// wrappers are represented as heap.KindObject cells tagged by a
// reserved marker atom in their first slot, the same "small tagged
// struct over the arena" discipline the heap package itself uses for
// Kind.
package kernel

import (
	"io"
	"strconv"

	"github.com/organix/kernel-abe64/actor"
	"github.com/organix/kernel-abe64/heap"
)

// Operative is the Go shape of a leaf primitive combiner: given the
// dynamic environment and its operand list (already evaluated if the
// combiner was wrapped applicative-style), it produces a result or an
// error synchronously. Leaf primitives never themselves evaluate
// Kernel expressions, so they don't need to issue further actor sends
// — operType's comb handler (behaviors.go) calls them in place and
// replies with the result.
type Operative func(k *Kernel, env, operands heap.Value) (heap.Value, error)

// SpecialForm is a primitive combiner whose body evaluates further
// Kernel subexpressions ($if, $define!, $sequence and friends): rather
// than returning a value it receives the customer to reply to and
// builds whatever Effect continues the computation, the same shape
// every other type behavior uses. operType recognizes a SpecialForm
// registered in place of an Operative and calls it directly instead of
// treating its return value as the answer.
type SpecialForm func(k *Kernel, env, operands, customer heap.Value) actor.Effect

// Kernel owns everything a running evaluator needs: the heap, the
// actor runtime driving it, and the handful of reserved tag atoms used
// to discriminate environments/operatives/applicatives from plain
// pairs.
type Kernel struct {
	H   *heap.Heap
	Cfg *actor.Configuration

	tagEnv   heap.Value
	tagVau   heap.Value
	tagAppl  heap.Value
	tagEncap heap.Value
	tagError heap.Value

	Ground heap.Value // the ground environment object
	Stdout io.Writer  // sink for the `write` primitive and the REPL

	gensymCounter int

	req           requestTags
	dispatchActor heap.Value

	// Continuation behaviors, registered once at startup rather than
	// per use (Configuration.NewActor would otherwise grow h.funcs by
	// one entry per continuation ever created). Each fnCont* is a
	// heap.KindFunc value; continuations.go's constructors pair one of
	// these with a freshly built state cons to produce the actor a
	// pending step replies to.
	fnContIf, fnContDefineValue, fnContDefineMatch, fnContSeqRest,
	fnContCondClause, fnContAndRest, fnContOrRest, fnContCombine,
	fnContMatchCdr, fnContListHead, fnContListTail, fnContVauMatched,
	fnContApplEvaluated heap.Value
}

// New builds a Kernel bound to h and cfg, with the ground environment
// already populated (see ground.go).
func New(h *heap.Heap, cfg *actor.Configuration) *Kernel {
	k := &Kernel{
		H:   h,
		Cfg: cfg,

		tagEnv:   h.Intern("#environment"),
		tagVau:   h.Intern("#operative"),
		tagAppl:  h.Intern("#applicative"),
		tagEncap: h.Intern("#encapsulation"),
		tagError: h.Intern("#error\x00internal"),
	}
	k.initRequestTags()
	k.installContinuations()
	k.Ground = k.newEnvironment(h.Nil())
	k.initStdout()
	k.installGround()
	k.dispatchActor = cfg.NewActor(k.dispatchBehavior, h.Inert())
	h.AddRoot(k.Ground)
	h.AddRoot(k.dispatchActor)
	return k
}

// gensym produces a fresh uninterned-feeling symbol for
// make-encapsulation-type's per-instance tag; atoms are append-only and
// never collide by construction with user-typed input because of the
// embedded NUL character.
func (k *Kernel) gensym(prefix string) heap.Value {
	k.gensymCounter++
	return k.H.Intern(prefix + "\x00" + strconv.Itoa(k.gensymCounter))
}
