package kernel

import (
	"github.com/organix/kernel-abe64/actor"
	"github.com/organix/kernel-abe64/heap"
)

// ---- special forms: operands arrive unevaluated (§4.5 rule 5) ----

func opVau(k *Kernel, env, operands heap.Value) (heap.Value, error) {
	h := k.H
	ptree := h.Car(operands)
	envParam := h.Car(h.Cdr(operands))
	body := h.Cdr(h.Cdr(operands))
	return k.makeVauClosure(ptree, envParam, body, env), nil
}

func opLambda(k *Kernel, env, operands heap.Value) (heap.Value, error) {
	h := k.H
	ptree := h.Car(operands)
	body := h.Cdr(operands)
	closure := k.makeVauClosure(ptree, h.Ignore(), body, env)
	return k.Wrap(closure), nil
}

// spIf evaluates its test in a continuation (contIf) rather than
// recursively, since the branch it runs is itself arbitrary Kernel
// code that may need further sends of its own.
func spIf(k *Kernel, env, operands, customer heap.Value) actor.Effect {
	h := k.H
	test := h.Car(operands)
	rest := h.Cdr(operands)
	thenExpr := h.Car(rest)
	elseExpr := h.Car(h.Cdr(rest))
	cont := k.newContIf(customer, env, thenExpr, elseExpr)
	e := actor.None()
	k.appendEval(&e, env, test, cont)
	return e
}

func spDefine(k *Kernel, env, operands, customer heap.Value) actor.Effect {
	h := k.H
	ptree := h.Car(operands)
	valueExpr := h.Car(h.Cdr(operands))
	cont := k.newContDefineValue(customer, env, ptree)
	e := actor.None()
	k.appendEval(&e, env, valueExpr, cont)
	return e
}

func spSequence(k *Kernel, env, operands, customer heap.Value) actor.Effect {
	return k.evalSequenceCPS(env, operands, customer)
}

func spCond(k *Kernel, env, operands, customer heap.Value) actor.Effect {
	return k.condStep(env, operands, customer)
}

func spAnd(k *Kernel, env, operands, customer heap.Value) actor.Effect {
	return k.andStep(env, operands, customer)
}

func spOr(k *Kernel, env, operands, customer heap.Value) actor.Effect {
	return k.orStep(env, operands, customer)
}

// spEval is bound applicative-style (§4.5's eval primitive): operands
// arrive pre-evaluated as (expr . targetEnv), and the dynamic
// environment it was itself invoked in is ignored in favor of
// targetEnv.
func spEval(k *Kernel, _, operands, customer heap.Value) actor.Effect {
	h := k.H
	expr := h.Car(operands)
	targetEnv := h.Car(h.Cdr(operands))
	if !k.isEnvironment(targetEnv) {
		return k.deliverError(customer, k.errorf("eval: not an environment: %s", k.writeString(targetEnv)))
	}
	return k.evalReq(targetEnv, expr, customer)
}

func opTheEnvironment(k *Kernel, env, operands heap.Value) (heap.Value, error) {
	return env, nil
}

// ---- applicatives: operands arrive pre-evaluated (§4.5 rule 4) ----

func apCons(k *Kernel, _, operands heap.Value) (heap.Value, error) {
	h := k.H
	p := h.Cons(h.Car(operands), h.Car(h.Cdr(operands)))
	h.MarkMutable(p)
	return p, nil
}

func apCar(k *Kernel, _, operands heap.Value) (heap.Value, error) {
	v := k.H.Car(operands)
	if !v.IsCell() {
		return heap.Value{}, k.errorf("car: not a pair: %s", k.writeString(v))
	}
	return k.H.Car(v), nil
}

func apCdr(k *Kernel, _, operands heap.Value) (heap.Value, error) {
	v := k.H.Car(operands)
	if !v.IsCell() {
		return heap.Value{}, k.errorf("cdr: not a pair: %s", k.writeString(v))
	}
	return k.H.Cdr(v), nil
}

func apSetCar(k *Kernel, _, operands heap.Value) (v heap.Value, err error) {
	h := k.H
	p := h.Car(operands)
	newVal := h.Car(h.Cdr(operands))
	defer func() {
		if r := recover(); r != nil {
			err = k.throwf(KindImmutable, "set-car!: %v", r)
		}
	}()
	h.Rplaca(p, newVal)
	return h.Inert(), nil
}

func apSetCdr(k *Kernel, _, operands heap.Value) (v heap.Value, err error) {
	h := k.H
	p := h.Car(operands)
	newVal := h.Car(h.Cdr(operands))
	defer func() {
		if r := recover(); r != nil {
			err = k.throwf(KindImmutable, "set-cdr!: %v", r)
		}
	}()
	h.Rplacd(p, newVal)
	return h.Inert(), nil
}

func apPairP(k *Kernel, _, operands heap.Value) (heap.Value, error) {
	return k.H.Bool(k.H.Car(operands).IsCell()), nil
}

func apNullP(k *Kernel, _, operands heap.Value) (heap.Value, error) {
	return k.H.Bool(heap.Eq(k.H.Car(operands), k.H.Nil())), nil
}

func apEqP(k *Kernel, _, operands heap.Value) (heap.Value, error) {
	h := k.H
	return h.Bool(heap.Eq(h.Car(operands), h.Car(h.Cdr(operands)))), nil
}

func apEqualP(k *Kernel, _, operands heap.Value) (heap.Value, error) {
	h := k.H
	return h.Bool(h.Equal(h.Car(operands), h.Car(h.Cdr(operands)))), nil
}

func apList(k *Kernel, _, operands heap.Value) (heap.Value, error) {
	return operands, nil
}

func apListStar(k *Kernel, _, operands heap.Value) (heap.Value, error) {
	h := k.H
	if !operands.IsCell() {
		return heap.Value{}, k.errorf("list*: requires at least one argument")
	}
	if heap.Eq(h.Cdr(operands), h.Nil()) {
		return h.Car(operands), nil
	}
	rest, err := apListStar(k, h.Nil(), h.Cdr(operands))
	if err != nil {
		return heap.Value{}, err
	}
	return h.Cons(h.Car(operands), rest), nil
}

func apAppend(k *Kernel, _, operands heap.Value) (heap.Value, error) {
	h := k.H
	if heap.Eq(operands, h.Nil()) {
		return h.Nil(), nil
	}
	if heap.Eq(h.Cdr(operands), h.Nil()) {
		return h.Car(operands), nil
	}
	rest, err := apAppend(k, h.Nil(), h.Cdr(operands))
	if err != nil {
		return heap.Value{}, err
	}
	return h.Append(h.Car(operands), rest), nil
}

func apReverse(k *Kernel, _, operands heap.Value) (heap.Value, error) {
	return k.H.Reverse(k.H.Car(operands)), nil
}

func apLength(k *Kernel, _, operands heap.Value) (heap.Value, error) {
	return heap.NewInt(int64(k.H.Length(k.H.Car(operands)))), nil
}

func apCopyImmutable(k *Kernel, _, operands heap.Value) (heap.Value, error) {
	return k.copyImmutable(k.H.Car(operands)), nil
}

func (k *Kernel) copyImmutable(v heap.Value) heap.Value {
	h := k.H
	if !v.IsCell() || heap.Eq(v, h.Nil()) {
		return v
	}
	return h.NewCell(k.copyImmutable(h.Car(v)), k.copyImmutable(h.Cdr(v)))
}

func apMakeEncapsulationType(k *Kernel, _, operands heap.Value) (heap.Value, error) {
	h := k.H
	tag := k.gensym("#encap")

	seal := h.RegisterFunc(Operative(func(k *Kernel, _, operands heap.Value) (heap.Value, error) {
		return h.NewObject(tag, h.Car(operands)), nil
	}))
	sealedP := h.RegisterFunc(Operative(func(k *Kernel, _, operands heap.Value) (heap.Value, error) {
		v := h.Car(operands)
		return h.Bool(v.IsObject() && heap.Eq(h.SlotFirst(v), tag)), nil
	}))
	unseal := h.RegisterFunc(Operative(func(k *Kernel, _, operands heap.Value) (heap.Value, error) {
		v := h.Car(operands)
		if !(v.IsObject() && heap.Eq(h.SlotFirst(v), tag)) {
			return heap.Value{}, k.throwf(KindNotUnderstood, "unseal: wrong brand: %s", k.writeString(v))
		}
		return h.SlotRest(v), nil
	}))

	return h.Cons(k.Wrap(seal), h.Cons(k.Wrap(sealedP), h.Cons(k.Wrap(unseal), h.Nil()))), nil
}

// ---- arithmetic (§4.7) ----

func mustInt(k *Kernel, v heap.Value) (int64, error) {
	if !v.IsInt() {
		return 0, k.errorf("not a number: %s", k.writeString(v))
	}
	return v.AsInt(), nil
}

func foldInt(identity int64, op func(a, b int64) int64) Operative {
	return func(k *Kernel, _, operands heap.Value) (heap.Value, error) {
		h := k.H
		acc := identity
		for !heap.Eq(operands, h.Nil()) {
			n, err := mustInt(k, h.Car(operands))
			if err != nil {
				return heap.Value{}, err
			}
			acc = op(acc, n)
			operands = h.Cdr(operands)
		}
		return heap.NewInt(acc), nil
	}
}

func apSub(k *Kernel, _, operands heap.Value) (heap.Value, error) {
	h := k.H
	if !operands.IsCell() {
		return heap.Value{}, k.errorf("-: requires at least one argument")
	}
	first, err := mustInt(k, h.Car(operands))
	if err != nil {
		return heap.Value{}, err
	}
	rest := h.Cdr(operands)
	if heap.Eq(rest, h.Nil()) {
		return heap.NewInt(-first), nil
	}
	acc := first
	for !heap.Eq(rest, h.Nil()) {
		n, err := mustInt(k, h.Car(rest))
		if err != nil {
			return heap.Value{}, err
		}
		acc -= n
		rest = h.Cdr(rest)
	}
	return heap.NewInt(acc), nil
}

func apDiv(k *Kernel, _, operands heap.Value) (heap.Value, error) {
	h := k.H
	if !operands.IsCell() {
		return heap.Value{}, k.errorf("/: requires at least one argument")
	}
	first, err := mustInt(k, h.Car(operands))
	if err != nil {
		return heap.Value{}, err
	}
	rest := h.Cdr(operands)
	if heap.Eq(rest, h.Nil()) {
		if first == 0 {
			return heap.Value{}, k.throwf(KindArithError, "division by zero")
		}
		return heap.NewInt(1 / first), nil
	}
	acc := first
	for !heap.Eq(rest, h.Nil()) {
		n, err := mustInt(k, h.Car(rest))
		if err != nil {
			return heap.Value{}, err
		}
		if n == 0 {
			return heap.Value{}, k.throwf(KindArithError, "division by zero")
		}
		acc /= n
		rest = h.Cdr(rest)
	}
	return heap.NewInt(acc), nil
}

func apNegate(k *Kernel, _, operands heap.Value) (heap.Value, error) {
	n, err := mustInt(k, k.H.Car(operands))
	if err != nil {
		return heap.Value{}, err
	}
	return heap.NewInt(-n), nil
}

func compareInt(cmp func(a, b int64) bool) Operative {
	return func(k *Kernel, _, operands heap.Value) (heap.Value, error) {
		h := k.H
		if !operands.IsCell() || heap.Eq(h.Cdr(operands), h.Nil()) {
			return h.True(), nil
		}
		prev, err := mustInt(k, h.Car(operands))
		if err != nil {
			return heap.Value{}, err
		}
		rest := h.Cdr(operands)
		for !heap.Eq(rest, h.Nil()) {
			n, err := mustInt(k, h.Car(rest))
			if err != nil {
				return heap.Value{}, err
			}
			if !cmp(prev, n) {
				return h.False(), nil
			}
			prev = n
			rest = h.Cdr(rest)
		}
		return h.True(), nil
	}
}
