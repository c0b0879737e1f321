package kernel

import "github.com/organix/kernel-abe64/heap"

// newEnvironment allocates a fresh environment object with the given
// parent (h.Nil() for none) and no local bindings.
func (k *Kernel) newEnvironment(parent heap.Value) heap.Value {
	h := k.H
	env := h.NewObject(k.tagEnv, h.Cons(parent, h.Nil()))
	return env
}

func (k *Kernel) isEnvironment(v heap.Value) bool {
	return v.IsObject() && heap.Eq(k.H.SlotFirst(v), k.tagEnv)
}

func (k *Kernel) envParent(env heap.Value) heap.Value {
	return k.H.Car(k.H.SlotRest(env))
}

func (k *Kernel) envBindings(env heap.Value) heap.Value {
	return k.H.Cdr(k.H.SlotRest(env))
}

func (k *Kernel) setEnvBindings(env, bindings heap.Value) {
	k.H.SetRest(env, k.H.Cons(k.envParent(env), bindings))
}

// EnvDefine binds sym to val in env's own local frame. If the frame
// already holds a binding for sym, that binding's value is replaced in
// place; otherwise a new binding is prepended. Parent frames are never
// touched.
func (k *Kernel) EnvDefine(env, sym, val heap.Value) {
	binding := k.H.MapFind(k.envBindings(env), sym)
	if !heap.Eq(binding, k.H.Nil()) {
		k.H.SetRest(binding, val)
		return
	}
	k.setEnvBindings(env, k.H.MapPut(k.envBindings(env), sym, val))
}

// MakeEnvironment implements the make-environment applicative: a fresh
// child environment of parent (or of the ground environment if no
// parent is given).
func (k *Kernel) MakeEnvironment(parent heap.Value) heap.Value {
	if heap.Eq(parent, k.H.Nil()) {
		parent = k.Ground
	}
	return k.newEnvironment(parent)
}
