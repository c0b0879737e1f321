package kernel

import (
	"fmt"
	"io"

	"github.com/organix/kernel-abe64/actor"
	"github.com/organix/kernel-abe64/config"
	"github.com/organix/kernel-abe64/heap"
	"github.com/organix/kernel-abe64/reader"
	"github.com/organix/kernel-abe64/trace"
)

// REPL drives reader -> evaluator -> printer over a configuration,
// matching the control flow from SPEC_FULL.md §2: "character source ->
// reader -> AST of Kernel-value actors -> evaluator actor send with
// customer and environment -> customer receives result -> printer".
type REPL struct {
	K      *Kernel
	Budget int
	Trace  bool
}

// NewREPL wires a REPL from a process-wide config, following the
// teacher's pattern of a config.Config driving setup decisions rather
// than scattering flag checks through the codebase.
func NewREPL(k *Kernel, cfg *config.Config) *REPL {
	r := &REPL{K: k, Budget: cfg.GetInt("actor.dispatch_budget"), Trace: cfg.GetBool("repl.trace")}
	trace.Enable(r.Trace)
	return r
}

// customerBehavior is the one-shot actor every top-level evaluation
// sends its result to: it records the reply and stops the
// configuration accepting further work for that slot by simply never
// being sent to again.
func customerBehavior(result *heap.Value, got *bool) actor.Behavior {
	return func(ctx *actor.Context, self, state, what heap.Value) actor.Effect {
		*result = what
		*got = true
		return actor.None()
	}
}

// EvalTopLevel evaluates expr in env by sending an `eval` request
// straight to the shared dispatch actor (dispatch.go) and driving the
// configuration until the reply lands or the REPL's dispatch budget is
// exhausted. It is the one synchronous bridge into the otherwise fully
// message-driven evaluator: every lookup, match and combine the
// request triggers is itself a further actor send processed by this
// same Run call, never a nested one (Run is non-reentrant).
func (r *REPL) EvalTopLevel(env, expr heap.Value) (heap.Value, error) {
	k := r.K
	var result heap.Value
	var got bool
	customer := k.Cfg.NewActor(customerBehavior(&result, &got), k.H.Inert())

	msg := k.message(customer, k.request(k.req.eval, expr, env))
	if err := k.Cfg.Send(k.dispatchActor, msg); err != nil {
		return heap.Value{}, err
	}

	remaining := k.Cfg.Run(r.Budget)
	if remaining < 0 {
		return heap.Value{}, k.errorf("dispatch aborted before evaluation completed")
	}
	if !got {
		return heap.Value{}, k.errorf("dispatch budget exhausted before evaluation completed")
	}
	if result.IsCell() && heap.Eq(k.H.Car(result), k.tagError) {
		return heap.Value{}, &KernelError{Message: k.H.AtomName(k.H.Cdr(result))}
	}
	return result, nil
}

// LoadSource reads every datum from src and evaluates it in env,
// stopping at the first error.
func (r *REPL) LoadSource(env heap.Value, src reader.CharSource) error {
	rd := reader.New(r.K.H, src)
	for {
		expr, err := rd.Read()
		if err != nil {
			return err
		}
		if heap.Eq(expr, r.K.H.EOF()) {
			return nil
		}
		if _, err := r.EvalTopLevel(env, expr); err != nil {
			return err
		}
	}
}

// RunInteractive reads every datum from src, printing "prompt value"
// for each to out. Prompts are emitted ahead of each read the way a
// line-based REPL does; since the whole stream is read through one
// CharSource rather than one line of stdin at a time, this is a
// simplified (non-line-buffered) rendition of the CLI's `-i` mode.
func (r *REPL) RunInteractive(env heap.Value, src reader.CharSource, out io.Writer, prompt string) error {
	rd := reader.New(r.K.H, src)
	w := reader.NewWriter(r.K.H, out)
	for {
		fmt.Fprint(out, prompt)
		expr, err := rd.Read()
		if err != nil {
			fmt.Fprintln(out, err)
			continue
		}
		if heap.Eq(expr, r.K.H.EOF()) {
			return nil
		}
		val, err := r.EvalTopLevel(env, expr)
		if err != nil {
			fmt.Fprintf(out, "FAIL! %s\n", err)
			continue
		}
		_ = w.Print(val)
	}
}
