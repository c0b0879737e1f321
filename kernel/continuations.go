package kernel

import (
	"github.com/organix/kernel-abe64/actor"
	"github.com/organix/kernel-abe64/heap"
)

// installContinuations registers the fixed family of continuation
// behaviors exactly once. A continuation's pending state always lives
// in the actor cell's own rest slot — a cons chain the heap's tracing
// collector can see through the message queue root — never in a Go
// closure upvalue, which the collector has no way to trace.
func (k *Kernel) installContinuations() {
	h := k.H
	k.fnContIf = h.RegisterFunc(actor.Behavior(k.contIf))
	k.fnContDefineValue = h.RegisterFunc(actor.Behavior(k.contDefineValue))
	k.fnContDefineMatch = h.RegisterFunc(actor.Behavior(k.contDefineMatch))
	k.fnContSeqRest = h.RegisterFunc(actor.Behavior(k.contSeqRest))
	k.fnContCondClause = h.RegisterFunc(actor.Behavior(k.contCondClause))
	k.fnContAndRest = h.RegisterFunc(actor.Behavior(k.contAndRest))
	k.fnContOrRest = h.RegisterFunc(actor.Behavior(k.contOrRest))
	k.fnContCombine = h.RegisterFunc(actor.Behavior(k.contCombine))
	k.fnContMatchCdr = h.RegisterFunc(actor.Behavior(k.contMatchCdr))
	k.fnContListHead = h.RegisterFunc(actor.Behavior(k.contListHead))
	k.fnContListTail = h.RegisterFunc(actor.Behavior(k.contListTail))
	k.fnContVauMatched = h.RegisterFunc(actor.Behavior(k.contVauMatched))
	k.fnContApplEvaluated = h.RegisterFunc(actor.Behavior(k.contApplEvaluated))
}

// ---- $if ----

func (k *Kernel) newContIf(customer, env, thenExpr, elseExpr heap.Value) heap.Value {
	h := k.H
	state := h.Cons(customer, h.Cons(env, h.Cons(thenExpr, elseExpr)))
	return h.NewActor(k.fnContIf, state)
}

func (k *Kernel) contIf(ctx *actor.Context, self, state, what heap.Value) actor.Effect {
	h := k.H
	customer := h.Car(state)
	rest := h.Cdr(state)
	env := h.Car(rest)
	thenExpr := h.Car(h.Cdr(rest))
	elseExpr := h.Cdr(h.Cdr(rest))
	return k.forwardOrElse(what, customer, func() actor.Effect {
		e := actor.None()
		switch {
		case heap.Eq(what, h.True()):
			k.appendEval(&e, env, thenExpr, customer)
		case heap.Eq(what, h.False()):
			k.appendEval(&e, env, elseExpr, customer)
		default:
			return k.deliverError(customer, k.errorf("$if: not a boolean: %s", k.writeString(what)))
		}
		return e
	})
}

// ---- $define! ----

func (k *Kernel) newContDefineValue(customer, env, ptree heap.Value) heap.Value {
	h := k.H
	state := h.Cons(customer, h.Cons(env, ptree))
	return h.NewActor(k.fnContDefineValue, state)
}

func (k *Kernel) contDefineValue(ctx *actor.Context, self, state, what heap.Value) actor.Effect {
	h := k.H
	customer := h.Car(state)
	rest := h.Cdr(state)
	env := h.Car(rest)
	ptree := h.Cdr(rest)
	return k.forwardOrElse(what, customer, func() actor.Effect {
		e := actor.None()
		cont := k.newContDefineMatch(customer)
		k.appendMatch(&e, env, ptree, what, cont)
		return e
	})
}

func (k *Kernel) newContDefineMatch(customer heap.Value) heap.Value {
	return k.H.NewActor(k.fnContDefineMatch, customer)
}

// contDefineMatch just relays the match result ($define! answers with
// whatever matching the ptree against the value produced, #inert on
// success).
func (k *Kernel) contDefineMatch(ctx *actor.Context, self, state, what heap.Value) actor.Effect {
	e := actor.None()
	e.Send(state, what)
	return e
}

// ---- $sequence ----

// evalSequenceCPS evaluates body's expressions left to right, replying
// to customer with the last one's value ((§4.6): an empty body answers
// #inert, and the final expression is evaluated in tail position —
// with no continuation actor standing between it and customer.
func (k *Kernel) evalSequenceCPS(env, body, customer heap.Value) actor.Effect {
	h := k.H
	if heap.Eq(body, h.Nil()) {
		e := actor.None()
		e.Send(customer, h.Inert())
		return e
	}
	if !body.IsCell() {
		return k.deliverError(customer, k.errorf("malformed body: %s", k.writeString(body)))
	}
	rest := h.Cdr(body)
	e := actor.None()
	if heap.Eq(rest, h.Nil()) {
		k.appendEval(&e, env, h.Car(body), customer)
		return e
	}
	cont := k.newContSeqRest(customer, env, rest)
	k.appendEval(&e, env, h.Car(body), cont)
	return e
}

func (k *Kernel) newContSeqRest(customer, env, rest heap.Value) heap.Value {
	h := k.H
	state := h.Cons(customer, h.Cons(env, rest))
	return h.NewActor(k.fnContSeqRest, state)
}

func (k *Kernel) contSeqRest(ctx *actor.Context, self, state, what heap.Value) actor.Effect {
	h := k.H
	customer := h.Car(state)
	rest := h.Cdr(state)
	env := h.Car(rest)
	body := h.Cdr(rest)
	return k.forwardOrElse(what, customer, func() actor.Effect {
		return k.evalSequenceCPS(env, body, customer)
	})
}

// ---- $cond ----

// condStep drives the clause loop: an empty clause list answers
// #inert, otherwise the current clause's test is evaluated and
// contCondClause decides whether to run its body or step to the next
// clause.
func (k *Kernel) condStep(env, clauses, customer heap.Value) actor.Effect {
	h := k.H
	if heap.Eq(clauses, h.Nil()) {
		e := actor.None()
		e.Send(customer, h.Inert())
		return e
	}
	clause := h.Car(clauses)
	cont := k.newContCondClause(customer, env, h.Cdr(clause), h.Cdr(clauses))
	e := actor.None()
	k.appendEval(&e, env, h.Car(clause), cont)
	return e
}

func (k *Kernel) newContCondClause(customer, env, clauseBody, restClauses heap.Value) heap.Value {
	h := k.H
	state := h.Cons(customer, h.Cons(env, h.Cons(clauseBody, restClauses)))
	return h.NewActor(k.fnContCondClause, state)
}

func (k *Kernel) contCondClause(ctx *actor.Context, self, state, what heap.Value) actor.Effect {
	h := k.H
	customer := h.Car(state)
	rest := h.Cdr(state)
	env := h.Car(rest)
	rest2 := h.Cdr(rest)
	clauseBody := h.Car(rest2)
	restClauses := h.Cdr(rest2)
	return k.forwardOrElse(what, customer, func() actor.Effect {
		switch {
		case heap.Eq(what, h.True()):
			return k.evalSequenceCPS(env, clauseBody, customer)
		case heap.Eq(what, h.False()):
			return k.condStep(env, restClauses, customer)
		default:
			return k.deliverError(customer, k.errorf("$cond: not a boolean: %s", k.writeString(what)))
		}
	})
}

// ---- $and? / $or? ----

func (k *Kernel) andStep(env, operands, customer heap.Value) actor.Effect {
	h := k.H
	if heap.Eq(operands, h.Nil()) {
		e := actor.None()
		e.Send(customer, h.True())
		return e
	}
	cont := k.newContAndRest(customer, env, h.Cdr(operands))
	e := actor.None()
	k.appendEval(&e, env, h.Car(operands), cont)
	return e
}

func (k *Kernel) newContAndRest(customer, env, rest heap.Value) heap.Value {
	h := k.H
	state := h.Cons(customer, h.Cons(env, rest))
	return h.NewActor(k.fnContAndRest, state)
}

func (k *Kernel) contAndRest(ctx *actor.Context, self, state, what heap.Value) actor.Effect {
	h := k.H
	customer := h.Car(state)
	rest := h.Cdr(state)
	env := h.Car(rest)
	restOperands := h.Cdr(rest)
	return k.forwardOrElse(what, customer, func() actor.Effect {
		e := actor.None()
		switch {
		case heap.Eq(what, h.False()):
			e.Send(customer, h.False())
		case heap.Eq(restOperands, h.Nil()):
			e.Send(customer, what)
		default:
			return k.andStep(env, restOperands, customer)
		}
		return e
	})
}

func (k *Kernel) orStep(env, operands, customer heap.Value) actor.Effect {
	h := k.H
	if heap.Eq(operands, h.Nil()) {
		e := actor.None()
		e.Send(customer, h.False())
		return e
	}
	cont := k.newContOrRest(customer, env, h.Cdr(operands))
	e := actor.None()
	k.appendEval(&e, env, h.Car(operands), cont)
	return e
}

func (k *Kernel) newContOrRest(customer, env, rest heap.Value) heap.Value {
	h := k.H
	state := h.Cons(customer, h.Cons(env, rest))
	return h.NewActor(k.fnContOrRest, state)
}

func (k *Kernel) contOrRest(ctx *actor.Context, self, state, what heap.Value) actor.Effect {
	h := k.H
	customer := h.Car(state)
	rest := h.Cdr(state)
	env := h.Car(rest)
	restOperands := h.Cdr(rest)
	return k.forwardOrElse(what, customer, func() actor.Effect {
		e := actor.None()
		switch {
		case !heap.Eq(what, h.False()):
			e.Send(customer, what)
		case heap.Eq(restOperands, h.Nil()):
			e.Send(customer, h.False())
		default:
			return k.orStep(env, restOperands, customer)
		}
		return e
	})
}

// ---- pair evaluation / matching ----

func (k *Kernel) newContCombine(customer, operands, env heap.Value) heap.Value {
	h := k.H
	state := h.Cons(customer, h.Cons(operands, env))
	return h.NewActor(k.fnContCombine, state)
}

// contCombine fires once the operator position of a combination has
// been evaluated, re-addressing the result with a comb request against
// the original (unevaluated) operands and dynamic environment.
func (k *Kernel) contCombine(ctx *actor.Context, self, state, what heap.Value) actor.Effect {
	h := k.H
	customer := h.Car(state)
	rest := h.Cdr(state)
	operands := h.Car(rest)
	env := h.Cdr(rest)
	return k.forwardOrElse(what, customer, func() actor.Effect {
		e := actor.None()
		k.appendComb(&e, what, operands, env, customer)
		return e
	})
}

func (k *Kernel) newContMatchCdr(customer, env, restPtree, restOperands heap.Value) heap.Value {
	h := k.H
	state := h.Cons(customer, h.Cons(env, h.Cons(restPtree, restOperands)))
	return h.NewActor(k.fnContMatchCdr, state)
}

// contMatchCdr fires once a pair ptree's car has matched, continuing
// to match its cdr against the remaining operands.
func (k *Kernel) contMatchCdr(ctx *actor.Context, self, state, what heap.Value) actor.Effect {
	h := k.H
	customer := h.Car(state)
	rest := h.Cdr(state)
	env := h.Car(rest)
	rest2 := h.Cdr(rest)
	restPtree := h.Car(rest2)
	restOperands := h.Cdr(rest2)
	return k.forwardOrElse(what, customer, func() actor.Effect {
		e := actor.None()
		k.appendMatch(&e, env, restPtree, restOperands, customer)
		return e
	})
}

// ---- operand-list evaluation for applicatives ----

// evalListCPS evaluates every element of list (a proper list of
// unevaluated operand expressions) in env, replying to customer with
// the list of results in order.
func (k *Kernel) evalListCPS(env, list, customer heap.Value) actor.Effect {
	h := k.H
	if heap.Eq(list, h.Nil()) {
		e := actor.None()
		e.Send(customer, h.Nil())
		return e
	}
	if !list.IsCell() {
		return k.deliverError(customer, k.errorf("combiner operands: improper list"))
	}
	cont := k.newContListHead(customer, env, h.Cdr(list))
	e := actor.None()
	k.appendEval(&e, env, h.Car(list), cont)
	return e
}

func (k *Kernel) newContListHead(customer, env, restList heap.Value) heap.Value {
	h := k.H
	state := h.Cons(customer, h.Cons(env, restList))
	return h.NewActor(k.fnContListHead, state)
}

func (k *Kernel) contListHead(ctx *actor.Context, self, state, what heap.Value) actor.Effect {
	h := k.H
	customer := h.Car(state)
	rest := h.Cdr(state)
	env := h.Car(rest)
	restList := h.Cdr(rest)
	return k.forwardOrElse(what, customer, func() actor.Effect {
		cont := k.newContListTail(customer, what)
		return k.evalListCPS(env, restList, cont)
	})
}

func (k *Kernel) newContListTail(customer, headValue heap.Value) heap.Value {
	h := k.H
	state := h.Cons(customer, headValue)
	return h.NewActor(k.fnContListTail, state)
}

func (k *Kernel) contListTail(ctx *actor.Context, self, state, what heap.Value) actor.Effect {
	h := k.H
	customer := h.Car(state)
	headValue := h.Cdr(state)
	return k.forwardOrElse(what, customer, func() actor.Effect {
		e := actor.None()
		e.Send(customer, h.Cons(headValue, what))
		return e
	})
}

// ---- vau closure application ----

func (k *Kernel) newContVauMatched(customer, envParam, dynEnv, callEnv, body heap.Value) heap.Value {
	h := k.H
	state := h.Cons(customer, h.Cons(envParam, h.Cons(dynEnv, h.Cons(callEnv, body))))
	return h.NewActor(k.fnContVauMatched, state)
}

// contVauMatched fires once the operand tree has matched against the
// vau's parameter tree in the fresh call environment: it binds the
// environment parameter (unless #ignore) to the dynamic environment,
// then evaluates the closure body there.
func (k *Kernel) contVauMatched(ctx *actor.Context, self, state, what heap.Value) actor.Effect {
	h := k.H
	customer := h.Car(state)
	rest := h.Cdr(state)
	envParam := h.Car(rest)
	rest2 := h.Cdr(rest)
	dynEnv := h.Car(rest2)
	rest3 := h.Cdr(rest2)
	callEnv := h.Car(rest3)
	body := h.Cdr(rest3)
	return k.forwardOrElse(what, customer, func() actor.Effect {
		if !heap.Eq(envParam, h.Ignore()) {
			k.EnvDefine(callEnv, envParam, dynEnv)
		}
		return k.evalSequenceCPS(callEnv, body, customer)
	})
}

// ---- applicative wrapper ----

func (k *Kernel) newContApplEvaluated(customer, combiner, env heap.Value) heap.Value {
	h := k.H
	state := h.Cons(customer, h.Cons(combiner, env))
	return h.NewActor(k.fnContApplEvaluated, state)
}

// contApplEvaluated fires once an applicative's operand list has been
// evaluated, re-addressing a comb request to the combiner it wraps.
func (k *Kernel) contApplEvaluated(ctx *actor.Context, self, state, what heap.Value) actor.Effect {
	h := k.H
	customer := h.Car(state)
	rest := h.Cdr(state)
	combiner := h.Car(rest)
	env := h.Cdr(rest)
	return k.forwardOrElse(what, customer, func() actor.Effect {
		e := actor.None()
		k.appendComb(&e, combiner, what, env, customer)
		return e
	})
}
