package kernel

import (
	"github.com/organix/kernel-abe64/actor"
	"github.com/organix/kernel-abe64/heap"
)

// nullType answers the empty list (), self-evaluating and matchable
// only against an exactly-exhausted operand list (§4.5's ptree rules).
func (k *Kernel) nullType(tag, value, arg, customer heap.Value) actor.Effect {
	h := k.H
	switch {
	case heap.Eq(tag, k.req.eval):
		return k.selfEval(value, customer)
	case heap.Eq(tag, k.req.match):
		operands := h.Cdr(arg)
		if !heap.Eq(operands, h.Nil()) {
			return k.deliverError(customer, k.errorf("too many operands: %s", k.writeString(operands)))
		}
		e := actor.None()
		e.Send(customer, h.Inert())
		return e
	default:
		return k.unhandled(tag, value, customer)
	}
}

// symbolType is every interned atom but the reserved singletons
// (#t/#f/#inert/#ignore/#eof), i.e. every ordinary Kernel symbol.
func (k *Kernel) symbolType(tag, value, arg, customer heap.Value) actor.Effect {
	h := k.H
	switch {
	case heap.Eq(tag, k.req.eval):
		env := arg
		e := actor.None()
		k.appendSend(&e, customer, k.req.lookup, env, value)
		return e
	case heap.Eq(tag, k.req.match):
		env := h.Car(arg)
		operands := h.Cdr(arg)
		k.EnvDefine(env, value, operands)
		e := actor.None()
		e.Send(customer, h.Inert())
		return e
	default:
		return k.unhandled(tag, value, customer)
	}
}

func (k *Kernel) numberType(tag, value, arg, customer heap.Value) actor.Effect {
	return k.selfEvalOnly(tag, value, customer)
}

func (k *Kernel) boolType(tag, value, arg, customer heap.Value) actor.Effect {
	return k.selfEvalOnly(tag, value, customer)
}

func (k *Kernel) unitType(tag, value, arg, customer heap.Value) actor.Effect {
	return k.selfEvalOnly(tag, value, customer)
}

// anyType is the #ignore/#eof wildcard family: self-evaluating, and
// matching anything in a parameter tree while binding nothing.
func (k *Kernel) anyType(tag, value, arg, customer heap.Value) actor.Effect {
	h := k.H
	switch {
	case heap.Eq(tag, k.req.eval):
		return k.selfEval(value, customer)
	case heap.Eq(tag, k.req.match):
		e := actor.None()
		e.Send(customer, h.Inert())
		return e
	default:
		return k.unhandled(tag, value, customer)
	}
}

// envType answers `lookup` by checking its own frame and, on a miss,
// forwarding the request to its parent with a fresh send rather than
// looping in Go — each hop up the environment chain is its own queued
// message (§4.5 rule 1).
func (k *Kernel) envType(tag, value, arg, customer heap.Value) actor.Effect {
	h := k.H
	switch {
	case heap.Eq(tag, k.req.eval):
		return k.selfEval(value, customer)
	case heap.Eq(tag, k.req.lookup):
		sym := arg
		binding := h.MapFind(k.envBindings(value), sym)
		if !heap.Eq(binding, h.Nil()) {
			e := actor.None()
			e.Send(customer, h.Cdr(binding))
			return e
		}
		parent := k.envParent(value)
		if heap.Eq(parent, h.Nil()) {
			return k.deliverError(customer, k.throwf(KindUndefined, "unbound symbol: %s", k.writeString(sym)))
		}
		e := actor.None()
		k.appendSend(&e, customer, k.req.lookup, parent, sym)
		return e
	default:
		return k.unhandled(tag, value, customer)
	}
}

// pairType and consType share one implementation: an immutable list
// node and a mutable `cons` cell combine and pattern-match the same
// way, differing only in whether set-car!/set-cdr! may touch them.
func (k *Kernel) pairType(tag, value, arg, customer heap.Value) actor.Effect {
	return k.pairLike(tag, value, arg, customer)
}

func (k *Kernel) consType(tag, value, arg, customer heap.Value) actor.Effect {
	return k.pairLike(tag, value, arg, customer)
}

func (k *Kernel) pairLike(tag, value, arg, customer heap.Value) actor.Effect {
	h := k.H
	switch {
	case heap.Eq(tag, k.req.eval):
		env := arg
		opExpr := h.Car(value)
		operands := h.Cdr(value)
		e := actor.None()
		cont := k.newContCombine(customer, operands, env)
		k.appendEval(&e, env, opExpr, cont)
		return e
	case heap.Eq(tag, k.req.match):
		env := h.Car(arg)
		operands := h.Cdr(arg)
		if !operands.IsCell() {
			return k.deliverError(customer, k.errorf("too few operands, expected one matching %s", k.writeString(value)))
		}
		e := actor.None()
		cont := k.newContMatchCdr(customer, env, h.Cdr(value), h.Cdr(operands))
		k.appendMatch(&e, env, h.Car(value), h.Car(operands), cont)
		return e
	case heap.Eq(tag, k.req.asPair):
		e := actor.None()
		e.Send(customer, h.Cons(h.Car(value), h.Cdr(value)))
		return e
	case heap.Eq(tag, k.req.copyImmutable):
		e := actor.None()
		e.Send(customer, k.copyImmutable(value))
		return e
	default:
		return k.unhandled(tag, value, customer)
	}
}

// vauType is a $vau-built operative: combining it matches its
// parameter tree against the unevaluated operands in a fresh child of
// its static environment, then evaluates its body there.
func (k *Kernel) vauType(tag, value, arg, customer heap.Value) actor.Effect {
	h := k.H
	switch {
	case heap.Eq(tag, k.req.eval):
		return k.selfEval(value, customer)
	case heap.Eq(tag, k.req.comb):
		operands := h.Car(arg)
		dynEnv := h.Cdr(arg)
		callEnv := k.newEnvironment(k.vauStaticEnv(value))
		e := actor.None()
		cont := k.newContVauMatched(customer, k.vauEnvParam(value), dynEnv, callEnv, k.vauBody(value))
		k.appendMatch(&e, callEnv, k.vauPtree(value), operands, cont)
		return e
	default:
		return k.unhandled(tag, value, customer)
	}
}

// applType wraps a primitive operative (operType beneath); lambdaType
// wraps a user vau-closure. Both evaluate their operand list in the
// dynamic environment first, then re-send `comb` to the combiner they
// wrap — §4.5 rule 4's "applicative forwards to its underlying
// combiner with evaluated operands", just expressed as two sends
// instead of one Go call wrapping another.
func (k *Kernel) applType(tag, value, arg, customer heap.Value) actor.Effect {
	return k.applyWrapped(tag, value, arg, customer)
}

func (k *Kernel) lambdaType(tag, value, arg, customer heap.Value) actor.Effect {
	return k.applyWrapped(tag, value, arg, customer)
}

func (k *Kernel) applyWrapped(tag, value, arg, customer heap.Value) actor.Effect {
	h := k.H
	switch {
	case heap.Eq(tag, k.req.eval):
		return k.selfEval(value, customer)
	case heap.Eq(tag, k.req.comb):
		operands := h.Car(arg)
		env := h.Cdr(arg)
		cont := k.newContApplEvaluated(customer, k.Unwrap(value), env)
		return k.evalListCPS(env, operands, cont)
	default:
		return k.unhandled(tag, value, customer)
	}
}

// operType is a primitive combiner implemented natively in Go: an
// Operative runs synchronously and replies with its result (it never
// itself evaluates Kernel code), while a SpecialForm is handed the
// customer directly and builds whatever further sends it needs.
func (k *Kernel) operType(tag, value, arg, customer heap.Value) actor.Effect {
	h := k.H
	switch {
	case heap.Eq(tag, k.req.eval):
		return k.selfEval(value, customer)
	case heap.Eq(tag, k.req.comb):
		operands := h.Car(arg)
		env := h.Cdr(arg)
		switch fn := h.Func(value).(type) {
		case Operative:
			result, err := fn(k, env, operands)
			e := actor.None()
			if err != nil {
				e.Send(customer, k.errToValue(err))
			} else {
				e.Send(customer, result)
			}
			return e
		case SpecialForm:
			return fn(k, env, operands, customer)
		default:
			return k.deliverError(customer, k.errorf("malformed primitive combiner"))
		}
	default:
		return k.unhandled(tag, value, customer)
	}
}

// sealedType is an encapsulation instance produced by a
// make-encapsulation-type's seal operative (§4.8); self-evaluating,
// like any other opaque datum, and otherwise answered by objectType.
func (k *Kernel) sealedType(tag, value, arg, customer heap.Value) actor.Effect {
	return k.selfEvalOnly(tag, value, customer)
}

// objectType is the common fallback for anything the chain above
// didn't recognize: any request it receives raises Not-Understood
// (§9's "type behaviors return a sentinel error for requests they
// don't match; a small dispatch chain walks from specific to
// objectType").
func (k *Kernel) objectType(tag, value, arg, customer heap.Value) actor.Effect {
	return k.unhandled(tag, value, customer)
}

// isSealed recognizes a make-encapsulation-type instance by its
// gensym'd brand tag (see apMakeEncapsulationType), the same
// "#encap\x00N" convention k.gensym produces.
func (k *Kernel) isSealed(v heap.Value) bool {
	if !v.IsObject() {
		return false
	}
	first := k.H.SlotFirst(v)
	if !first.IsAtom() {
		return false
	}
	name := k.H.AtomName(first)
	return len(name) >= 6 && name[:6] == "#encap"
}
