package kernel

import (
	"github.com/organix/kernel-abe64/actor"
	"github.com/organix/kernel-abe64/heap"
)

// requestTags names the generic protocol every Kernel value answers
// (§4.5): a request is the pair (tag . (value . arg)), a message is
// (customer . request). value is the Kernel value the request is
// addressed to; it travels inside the payload rather than being the
// actor target itself, so a plain cons pair, a tagged environment
// object or an interned atom can all answer the protocol without
// being reshaped into their own actor cell.
type requestTags struct {
	eval, match, comb, lookup, typeEq,
	write, writeTail, copyImmutable, asPair, asTuple, mapReq, foldl heap.Value
}

func (k *Kernel) initRequestTags() {
	h := k.H
	k.req = requestTags{
		eval:          h.Intern("#req-eval"),
		match:         h.Intern("#req-match"),
		comb:          h.Intern("#req-comb"),
		lookup:        h.Intern("#req-lookup"),
		typeEq:        h.Intern("#req-type_eq"),
		write:         h.Intern("#req-write"),
		writeTail:     h.Intern("#req-write_tail"),
		copyImmutable: h.Intern("#req-copy_immutable"),
		asPair:        h.Intern("#req-as_pair"),
		asTuple:       h.Intern("#req-as_tuple"),
		mapReq:        h.Intern("#req-map"),
		foldl:         h.Intern("#req-foldl"),
	}
}

// dispatchBehavior is the one shared actor every generic-protocol
// request flows through (§9: "a small dispatch chain walks from
// specific to objectType"). Every evaluation step, pattern match,
// environment lookup and combiner application reaches here as a real
// queued message, processed by whichever Configuration.Run call is
// currently draining the queue — never by a direct recursive Go call.
func (k *Kernel) dispatchBehavior(ctx *actor.Context, self, state, what heap.Value) actor.Effect {
	h := k.H
	customer := h.Car(what)
	req := h.Cdr(what)
	tag := h.Car(req)
	payload := h.Cdr(req)
	value := h.Car(payload)
	arg := h.Cdr(payload)
	return k.route(tag, value, arg, customer)
}

// route classifies value and calls its type behavior, walking the
// hierarchy from the most specific shape to objectType exactly as
// §9 describes.
func (k *Kernel) route(tag, value, arg, customer heap.Value) actor.Effect {
	h := k.H
	switch {
	case heap.Eq(value, h.Nil()):
		return k.nullType(tag, value, arg, customer)
	case heap.Eq(value, h.Inert()):
		return k.unitType(tag, value, arg, customer)
	case heap.Eq(value, h.True()), heap.Eq(value, h.False()):
		return k.boolType(tag, value, arg, customer)
	case heap.Eq(value, h.Ignore()), heap.Eq(value, h.EOF()):
		return k.anyType(tag, value, arg, customer)
	case value.IsInt():
		return k.numberType(tag, value, arg, customer)
	case k.isEnvironment(value):
		return k.envType(tag, value, arg, customer)
	case k.isVauClosure(value):
		return k.vauType(tag, value, arg, customer)
	case k.isApplicative(value):
		if k.Unwrap(value).IsFunc() {
			return k.applType(tag, value, arg, customer)
		}
		return k.lambdaType(tag, value, arg, customer)
	case value.IsFunc():
		return k.operType(tag, value, arg, customer)
	case value.IsAtom():
		return k.symbolType(tag, value, arg, customer)
	case value.IsCell():
		if h.IsMutable(value) {
			return k.consType(tag, value, arg, customer)
		}
		return k.pairType(tag, value, arg, customer)
	case k.isSealed(value):
		return k.sealedType(tag, value, arg, customer)
	default:
		return k.objectType(tag, value, arg, customer)
	}
}

// ---- message construction ----

func (k *Kernel) request(tag, value, arg heap.Value) heap.Value {
	return k.H.Cons(tag, k.H.Cons(value, arg))
}

func (k *Kernel) message(customer, req heap.Value) heap.Value {
	return k.H.Cons(customer, req)
}

// appendSend appends a request send to an in-progress Effect.
func (k *Kernel) appendSend(e *actor.Effect, customer, tag, value, arg heap.Value) {
	e.Send(k.dispatchActor, k.message(customer, k.request(tag, value, arg)))
}

// evalReq builds the Effect that sends a top-level (or nested) eval
// request for expr in env, replying to customer.
func (k *Kernel) evalReq(env, expr, customer heap.Value) actor.Effect {
	e := actor.None()
	k.appendSend(&e, customer, k.req.eval, expr, env)
	return e
}

func (k *Kernel) appendEval(e *actor.Effect, env, expr, customer heap.Value) {
	k.appendSend(e, customer, k.req.eval, expr, env)
}

func (k *Kernel) appendMatch(e *actor.Effect, env, ptree, operands, customer heap.Value) {
	k.appendSend(e, customer, k.req.match, ptree, k.H.Cons(env, operands))
}

func (k *Kernel) appendComb(e *actor.Effect, comb, operands, env, customer heap.Value) {
	k.appendSend(e, customer, k.req.comb, comb, k.H.Cons(operands, env))
}

// ---- replies and errors ----

// selfEval answers an `eval` request for a self-evaluating value: the
// reply is the value itself.
func (k *Kernel) selfEval(value, customer heap.Value) actor.Effect {
	e := actor.None()
	e.Send(customer, value)
	return e
}

// selfEvalOnly is the behavior shared by the type classes that answer
// nothing but `eval`.
func (k *Kernel) selfEvalOnly(tag, value, customer heap.Value) actor.Effect {
	if heap.Eq(tag, k.req.eval) {
		return k.selfEval(value, customer)
	}
	return k.unhandled(tag, value, customer)
}

func (k *Kernel) errToValue(err error) heap.Value {
	return k.H.Cons(k.tagError, k.H.Intern(err.Error()))
}

func (k *Kernel) isErrorValue(v heap.Value) bool {
	return v.IsCell() && heap.Eq(k.H.Car(v), k.tagError)
}

func (k *Kernel) deliverError(customer heap.Value, err error) actor.Effect {
	e := actor.None()
	e.Send(customer, k.errToValue(err))
	return e
}

// forwardOrElse answers a continuation's common shape: if reply is a
// tagged error, forward it to customer and stop; otherwise run next.
func (k *Kernel) forwardOrElse(reply, customer heap.Value, next func() actor.Effect) actor.Effect {
	if k.isErrorValue(reply) {
		e := actor.None()
		e.Send(customer, reply)
		return e
	}
	return next()
}

// unhandled is objectType's universal fallback: every type behavior
// that doesn't recognize tag delegates here, raising Not-Understood
// the way the original's behavior delegation falls through to a base
// type (§9).
func (k *Kernel) unhandled(tag, value, customer heap.Value) actor.Effect {
	return k.deliverError(customer, k.throwf(KindNotUnderstood, "%s: %s", k.requestName(tag), k.writeString(value)))
}

func (k *Kernel) requestName(tag heap.Value) string {
	name := k.H.AtomName(tag)
	if len(name) > 5 && name[:5] == "#req-" {
		return name[5:]
	}
	return name
}
