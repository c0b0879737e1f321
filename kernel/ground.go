package kernel

import (
	"os"

	"github.com/organix/kernel-abe64/heap"
	"github.com/organix/kernel-abe64/reader"
)

// installGround binds every combiner named in SPEC_FULL.md §4.7–§4.9
// into k.Ground: the special forms operate on unevaluated operands
// directly (bound as bare Operative or SpecialForm Funcs), everything
// else is wrapped once so combining evaluates its operands first
// (§4.5 rule 4).
func (k *Kernel) installGround() {
	h := k.H
	bindOperative := func(name string, op Operative) {
		k.EnvDefine(k.Ground, h.Intern(name), h.RegisterFunc(op))
	}
	bindApplicative := func(name string, op Operative) {
		k.EnvDefine(k.Ground, h.Intern(name), k.Wrap(h.RegisterFunc(op)))
	}
	// bindSpecialForm registers a combiner whose body itself evaluates
	// Kernel code ($if, $define!, ...): unlike bindOperative it stores
	// a SpecialForm Func, which operType's comb handler recognizes and
	// invokes for its Effect directly instead of treating a return
	// value as the answer.
	bindSpecialForm := func(name string, sf SpecialForm) {
		k.EnvDefine(k.Ground, h.Intern(name), h.RegisterFunc(sf))
	}

	// ---- special forms (§4.5, §4.9) ----
	bindOperative("$vau", opVau)
	bindOperative("$lambda", opLambda)
	bindSpecialForm("$if", spIf)
	bindSpecialForm("$define!", spDefine)
	bindSpecialForm("$sequence", spSequence)
	bindSpecialForm("$cond", spCond)
	bindSpecialForm("$and?", spAnd)
	bindSpecialForm("$or?", spOr)
	bindOperative("the-environment", opTheEnvironment)

	// ---- pairs and lists (§4.9) ----
	bindApplicative("cons", apCons)
	bindApplicative("car", apCar)
	bindApplicative("cdr", apCdr)
	bindApplicative("set-car!", apSetCar)
	bindApplicative("set-cdr!", apSetCdr)
	bindApplicative("pair?", apPairP)
	bindApplicative("cons?", func(k *Kernel, _, operands heap.Value) (heap.Value, error) {
		v := k.H.Car(operands)
		return k.H.Bool(v.IsCell() && k.H.IsMutable(v)), nil
	})
	bindApplicative("null?", apNullP)
	bindApplicative("eq?", apEqP)
	bindApplicative("equal?", apEqualP)
	bindApplicative("list", apList)
	bindApplicative("list*", apListStar)
	bindApplicative("append", apAppend)
	bindApplicative("reverse", apReverse)
	bindApplicative("length", apLength)
	bindApplicative("copy-es-immutable", apCopyImmutable)

	// ---- type predicates ----
	bindApplicative("symbol?", typePredicate(heap.Value.IsAtom))
	bindApplicative("number?", typePredicate(heap.Value.IsInt))
	bindApplicative("environment?", func(k *Kernel, _, operands heap.Value) (heap.Value, error) {
		return k.H.Bool(k.isEnvironment(k.H.Car(operands))), nil
	})
	bindApplicative("combiner?", func(k *Kernel, _, operands heap.Value) (heap.Value, error) {
		return k.H.Bool(k.isCombiner(k.H.Car(operands))), nil
	})
	bindApplicative("operative?", func(k *Kernel, _, operands heap.Value) (heap.Value, error) {
		v := k.H.Car(operands)
		return k.H.Bool(v.IsFunc() || k.isVauClosure(v)), nil
	})
	bindApplicative("applicative?", func(k *Kernel, _, operands heap.Value) (heap.Value, error) {
		return k.H.Bool(k.isApplicative(k.H.Car(operands))), nil
	})
	bindApplicative("boolean?", func(k *Kernel, _, operands heap.Value) (heap.Value, error) {
		v := k.H.Car(operands)
		return k.H.Bool(heap.Eq(v, k.H.True()) || heap.Eq(v, k.H.False())), nil
	})
	bindApplicative("inert?", func(k *Kernel, _, operands heap.Value) (heap.Value, error) {
		return k.H.Bool(heap.Eq(k.H.Car(operands), k.H.Inert())), nil
	})
	bindApplicative("ignore?", func(k *Kernel, _, operands heap.Value) (heap.Value, error) {
		return k.H.Bool(heap.Eq(k.H.Car(operands), k.H.Ignore())), nil
	})
	bindApplicative("eof-object?", func(k *Kernel, _, operands heap.Value) (heap.Value, error) {
		return k.H.Bool(heap.Eq(k.H.Car(operands), k.H.EOF())), nil
	})

	// ---- wrap/unwrap (§4.5 rule 4) ----
	bindApplicative("wrap", func(k *Kernel, _, operands heap.Value) (heap.Value, error) {
		return k.Wrap(k.H.Car(operands)), nil
	})
	bindApplicative("unwrap", func(k *Kernel, _, operands heap.Value) (heap.Value, error) {
		v := k.H.Car(operands)
		if !k.isApplicative(v) {
			return heap.Value{}, k.errorf("unwrap: not an applicative: %s", k.writeString(v))
		}
		return k.Unwrap(v), nil
	})

	// ---- environments (§4.6) ----
	bindApplicative("make-environment", func(k *Kernel, _, operands heap.Value) (heap.Value, error) {
		parent := k.H.Nil()
		if operands.IsCell() {
			parent = k.H.Car(operands)
		}
		return k.MakeEnvironment(parent), nil
	})
	k.EnvDefine(k.Ground, h.Intern("eval"), k.Wrap(h.RegisterFunc(SpecialForm(spEval))))

	// ---- encapsulation (§4.8) ----
	bindApplicative("make-encapsulation-type", apMakeEncapsulationType)

	// ---- arithmetic and relational (§4.7) ----
	bindApplicative("+", foldInt(0, func(a, b int64) int64 { return a + b }))
	bindApplicative("*", foldInt(1, func(a, b int64) int64 { return a * b }))
	bindApplicative("-", apSub)
	bindApplicative("/", apDiv)
	bindApplicative("<->", apNegate)
	bindApplicative("zero?", func(k *Kernel, _, operands heap.Value) (heap.Value, error) {
		n, err := mustInt(k, k.H.Car(operands))
		if err != nil {
			return heap.Value{}, err
		}
		return k.H.Bool(n == 0), nil
	})
	bindApplicative("=?", compareInt(func(a, b int64) bool { return a == b }))
	bindApplicative("<?", compareInt(func(a, b int64) bool { return a < b }))
	bindApplicative("<=?", compareInt(func(a, b int64) bool { return a <= b }))
	bindApplicative(">=?", compareInt(func(a, b int64) bool { return a >= b }))
	bindApplicative(">?", compareInt(func(a, b int64) bool { return a > b }))

	// ---- printer (§4.5's `write` request, §6) ----
	bindApplicative("write", func(k *Kernel, _, operands heap.Value) (heap.Value, error) {
		if err := reader.NewWriter(k.H, k.Stdout).Print(k.H.Car(operands)); err != nil {
			return k.H.False(), nil
		}
		return k.H.True(), nil
	})
}

func typePredicate(pred func(heap.Value) bool) Operative {
	return func(k *Kernel, _, operands heap.Value) (heap.Value, error) {
		return k.H.Bool(pred(k.H.Car(operands))), nil
	}
}

// Stdout is the sink the `write` primitive and the REPL print to. It
// defaults to os.Stdout and is reassignable, e.g. by tests that want
// to capture output.
func (k *Kernel) initStdout() { k.Stdout = os.Stdout }
