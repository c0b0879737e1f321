package kernel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/organix/kernel-abe64/actor"
	"github.com/organix/kernel-abe64/config"
	"github.com/organix/kernel-abe64/heap"
	"github.com/organix/kernel-abe64/reader"
)

func newTestREPL(t *testing.T) (*REPL, heap.Value) {
	t.Helper()
	h := heap.NewHeap(4096)
	cfg := actor.NewConfiguration(h, 0)
	cfg.SetGCBudget(64)
	k := New(h, cfg)
	r := NewREPL(k, config.NewConfig())
	env := k.MakeEnvironment(h.Nil())
	return r, env
}

func evalString(t *testing.T, r *REPL, env heap.Value, text string) heap.Value {
	t.Helper()
	rd := reader.New(r.K.H, reader.NewStringSource("test", text))
	expr, err := rd.Read()
	require.NoError(t, err)
	val, err := r.EvalTopLevel(env, expr)
	require.NoError(t, err)
	return val
}

func writeString(t *testing.T, r *REPL, v heap.Value) string {
	return r.K.writeString(v)
}

func TestTestBatteryScenarios(t *testing.T) {
	r, env := newTestREPL(t)
	require.NoError(t, RunTestBattery(r, env))
}

func TestSelfEvaluatingAndLookup(t *testing.T) {
	r, env := newTestREPL(t)
	assert.Equal(t, "#inert", writeString(t, r, evalString(t, r, env, "#inert")))
	assert.Equal(t, "5", writeString(t, r, evalString(t, r, env, "5")))
}

func TestUnboundSymbolIsAnError(t *testing.T) {
	r, env := newTestREPL(t)
	rd := reader.New(r.K.H, reader.NewStringSource("test", "undefined-name"))
	expr, err := rd.Read()
	require.NoError(t, err)
	_, err = r.EvalTopLevel(env, expr)
	assert.Error(t, err)
}

func TestDefineAndLambdaClosure(t *testing.T) {
	r, env := newTestREPL(t)
	evalString(t, r, env, "($define! add1 ($lambda (n) (+ n 1)))")
	v := evalString(t, r, env, "(add1 41)")
	assert.Equal(t, int64(42), v.AsInt())
}

func TestVauOperativeSeesUnevaluatedOperands(t *testing.T) {
	r, env := newTestREPL(t)
	evalString(t, r, env, "($define! my-quote ($vau (x) #ignore x))")
	v := evalString(t, r, env, "(my-quote undefined-name)")
	assert.True(t, v.IsAtom())
	assert.Equal(t, "undefined-name", r.K.H.AtomName(v))
}

func TestCondAndOrShortCircuit(t *testing.T) {
	r, env := newTestREPL(t)
	assert.Equal(t, "2", writeString(t, r, evalString(t, r, env, "($cond (#f 1) (#t 2) (#t 3))")))
	assert.Equal(t, "#f", writeString(t, r, evalString(t, r, env, "($and? #t #f)")))
	assert.Equal(t, "7", writeString(t, r, evalString(t, r, env, "($or? #f 7)")))
}

func TestMutablePairsSetCarSetCdr(t *testing.T) {
	r, env := newTestREPL(t)
	evalString(t, r, env, "($define! p (cons 1 2))")
	evalString(t, r, env, "(set-car! p 9)")
	v := evalString(t, r, env, "p")
	assert.Equal(t, "(9 . 2)", writeString(t, r, v))
}

func TestSetCarOnImmutablePairErrors(t *testing.T) {
	r, env := newTestREPL(t)
	evalString(t, r, env, "($define! p (list 1 2))") // reader-literal-shaped but built via list, still mutable? use copy-es-immutable
	evalString(t, r, env, "($define! frozen (copy-es-immutable p))")
	rd := reader.New(r.K.H, reader.NewStringSource("test", "(set-car! frozen 0)"))
	expr, err := rd.Read()
	require.NoError(t, err)
	_, err = r.EvalTopLevel(env, expr)
	assert.Error(t, err)
}

func TestArithmeticAndRelational(t *testing.T) {
	r, env := newTestREPL(t)
	assert.Equal(t, "-4", writeString(t, r, evalString(t, r, env, "(- 10 6 8)")))
	assert.Equal(t, "2", writeString(t, r, evalString(t, r, env, "(/ 20 2 5)")))
	assert.Equal(t, "-3", writeString(t, r, evalString(t, r, env, "(<-> 3)")))
	assert.Equal(t, "#t", writeString(t, r, evalString(t, r, env, "(zero? 0)")))
	assert.Equal(t, "#t", writeString(t, r, evalString(t, r, env, "(<? 1 2 3)")))
	assert.Equal(t, "#f", writeString(t, r, evalString(t, r, env, "(<? 1 3 2)")))
}

func TestMakeEnvironmentIsIsolated(t *testing.T) {
	r, env := newTestREPL(t)
	evalString(t, r, env, "($define! e (make-environment (the-environment)))")
	child := evalString(t, r, env, "e")
	evalString(t, r, child, "($define! only-in-child 1)")
	rd := reader.New(r.K.H, reader.NewStringSource("test", "only-in-child"))
	expr, err := rd.Read()
	require.NoError(t, err)
	_, err = r.EvalTopLevel(env, expr)
	assert.Error(t, err, "a binding made in a child environment must not leak to its parent")
}
