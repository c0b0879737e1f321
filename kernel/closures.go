package kernel

import "github.com/organix/kernel-abe64/heap"

// isCombiner reports whether v can appear in combiner position: a
// primitive Operative (Func), a user vau-closure, or an applicative
// wrapper around either.
func (k *Kernel) isCombiner(v heap.Value) bool {
	if v.IsFunc() {
		return true
	}
	return k.isVauClosure(v) || k.isApplicative(v)
}

func (k *Kernel) isVauClosure(v heap.Value) bool {
	return v.IsObject() && heap.Eq(k.H.SlotFirst(v), k.tagVau)
}

func (k *Kernel) isApplicative(v heap.Value) bool {
	return v.IsObject() && heap.Eq(k.H.SlotFirst(v), k.tagAppl)
}

// makeVauClosure builds the operative produced by ($vau ptree envp
// body...), closing over staticEnv (§4.9).
func (k *Kernel) makeVauClosure(ptree, envParam, body, staticEnv heap.Value) heap.Value {
	h := k.H
	payload := h.Cons(ptree, h.Cons(envParam, h.Cons(staticEnv, body)))
	return h.NewObject(k.tagVau, payload)
}

func (k *Kernel) vauPtree(v heap.Value) heap.Value    { return k.H.Car(k.H.SlotRest(v)) }
func (k *Kernel) vauEnvParam(v heap.Value) heap.Value { return k.H.Car(k.H.Cdr(k.H.SlotRest(v))) }
func (k *Kernel) vauStaticEnv(v heap.Value) heap.Value {
	return k.H.Car(k.H.Cdr(k.H.Cdr(k.H.SlotRest(v))))
}
func (k *Kernel) vauBody(v heap.Value) heap.Value {
	return k.H.Cdr(k.H.Cdr(k.H.Cdr(k.H.SlotRest(v))))
}

// Wrap returns an applicative wrapping combiner (wrap adds one level;
// unwrap removes one).
func (k *Kernel) Wrap(combiner heap.Value) heap.Value {
	return k.H.NewObject(k.tagAppl, combiner)
}

// Unwrap returns the combiner one level inside an applicative. Calling
// it on a non-applicative is a programming error at the Go layer;
// ground.go's `unwrap` primitive checks first and raises a Kernel-level
// error instead.
func (k *Kernel) Unwrap(appl heap.Value) heap.Value {
	return k.H.SlotRest(appl)
}
