// Package actor implements the single-threaded, cooperative actor
// dispatch core described in §4.4/§5: a bounded-capacity message
// configuration, deterministic FIFO delivery, behavior replacement
// and a timed-delivery queue. No goroutine is ever spawned per actor
// or per message — the explicit non-goal is "no concurrency across OS
// threads" — so Run is an ordinary loop draining a slice-backed queue.
package actor

import "github.com/organix/kernel-abe64/heap"

// Behavior is the function invoked when a message is delivered to an
// actor: (self, state, message) -> Effect, per §3.5. ctx carries the
// configuration a handler may use to SEND or schedule further work.
type Behavior func(ctx *Context, self, state, what heap.Value) Effect

// Context is handed to every behavior invocation; it exposes the
// Configuration so SEND/BECOME/ACTOR can be issued without resorting
// to a package-level global (the re-architecture called for in
// SPEC_FULL.md §9 against the original's global CFG singleton).
type Context struct {
	Cfg *Configuration
}

// Action is one record in an Effect: either a Send or a Become,
// batched up by a handler and applied atomically before the next
// message is dequeued, per the CPS-via-actors design note.
type Action struct {
	kind   actionKind
	target heap.Value // Send
	payload heap.Value // Send
	ticks  int        // SendAfter
	behavior heap.Value // Become
	state    heap.Value // Become
}

type actionKind uint8

const (
	actionSend actionKind = iota
	actionSendAfter
	actionBecome
)

// Effect accumulates the actions a Behavior invocation produced.
type Effect struct {
	actions []Action
}

// Send enqueues target<-payload, effective once the current handler's
// Effect is applied.
func (e *Effect) Send(target, payload heap.Value) *Effect {
	e.actions = append(e.actions, Action{kind: actionSend, target: target, payload: payload})
	return e
}

// SendAfter schedules target<-payload to be released onto the main
// queue once ticks clock ticks have elapsed.
func (e *Effect) SendAfter(ticks int, target, payload heap.Value) *Effect {
	e.actions = append(e.actions, Action{kind: actionSendAfter, target: target, payload: payload, ticks: ticks})
	return e
}

// Become records a behavior/state replacement for self, effective for
// the actor's next received message only (§3.5, §4.4).
func (e *Effect) Become(behavior, state heap.Value) *Effect {
	e.actions = append(e.actions, Action{kind: actionBecome, behavior: behavior, state: state})
	return e
}

// None is the effect produced by a handler that neither sends nor
// becomes anything.
func None() Effect { return Effect{} }
