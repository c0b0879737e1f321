package actor

import (
	"sort"

	"github.com/organix/kernel-abe64/heap"
	"github.com/organix/kernel-abe64/trace"
)

// timerEntry is one pending SendAfter release. Unlike the main message
// queue, the timer collection is small and re-sorted on every SendAfter, so
// a plain sorted slice is the idiomatic choice over a cons-cell queue.
type timerEntry struct {
	deadline int
	target   heap.Value
	payload  heap.Value
}

// Configuration is the single-threaded actor runtime described in
// §4.4/§5: a bounded FIFO of pending messages, a pending-timer list, a
// logical clock, and a dispatch loop that applies each handler's
// batched Effect atomically before the next message is drained. It
// owns no goroutines; Run is an ordinary call that returns once its
// budget is spent or the queue empties.
type Configuration struct {
	h *heap.Heap

	queue  heap.Value // heap-native (head . tail) queue, per heap.NewQueue
	qCount int
	qLimit int

	timers []timerEntry
	clock  int

	reporter   heap.Value
	haveReport bool

	dispatching bool

	gcBudget int // <= 0 disables incremental collection between batches
}

// NewConfiguration creates a runtime bound to h with room for at most
// qLimit undelivered messages. qLimit <= 0 means unbounded.
func NewConfiguration(h *heap.Heap, qLimit int) *Configuration {
	cfg := &Configuration{
		h:      h,
		queue:  h.NewQueue(),
		qLimit: qLimit,
	}
	h.AddRoot(cfg.queue)
	return cfg
}

// NewActor allocates an actor cell running behavior over the given
// initial state and returns its heap.Value handle.
func (cfg *Configuration) NewActor(behavior Behavior, state heap.Value) heap.Value {
	fn := cfg.h.RegisterFunc(behavior)
	return cfg.h.NewActor(fn, state)
}

// SetGCBudget sets how many scan operations h.IncrementalStep performs
// between each pair of dispatched messages (§4.2: the collector never
// runs mid-handler, only in the gaps Run's loop already has to offer).
// budget <= 0 disables incremental collection entirely, leaving
// FullCollect's implicit trigger on free-list exhaustion as the only
// GC activity.
func (cfg *Configuration) SetGCBudget(budget int) {
	cfg.gcBudget = budget
}

// SetReporter designates the actor that failed dispatch attempts are
// reported to: a handler's ENSURE violation or a queue overflow raised
// while applying an Effect sends (self, error-description) to it
// instead of crashing the configuration outright.
func (cfg *Configuration) SetReporter(reporter heap.Value) {
	cfg.reporter = reporter
	cfg.haveReport = true
}

// AddGCRoot pins value so the heap's collector never reclaims it, for
// long-lived actors reachable only from Go-side state (e.g. a REPL's
// top-level environment).
func (cfg *Configuration) AddGCRoot(value heap.Value) {
	cfg.h.AddRoot(value)
}

// Send admits target<-payload onto the end of the queue. It fails with
// ErrQueueOverflow once qCount has reached qLimit.
func (cfg *Configuration) Send(target, payload heap.Value) error {
	if cfg.qLimit > 0 && cfg.qCount >= cfg.qLimit {
		return ErrQueueOverflow
	}
	msg := cfg.h.Cons(target, payload)
	cfg.h.CQPut(cfg.queue, msg)
	cfg.qCount++
	return nil
}

// SendAfter schedules target<-payload for release onto the main queue
// once ticks logical clock ticks have elapsed. Admission onto the
// timer list is not subject to qLimit; the capacity check happens when
// Tick releases the message onto the real queue.
func (cfg *Configuration) SendAfter(ticks int, target, payload heap.Value) {
	cfg.timers = append(cfg.timers, timerEntry{
		deadline: cfg.clock + ticks,
		target:   target,
		payload:  payload,
	})
	sort.SliceStable(cfg.timers, func(i, j int) bool {
		return cfg.timers[i].deadline < cfg.timers[j].deadline
	})
}

// Tick advances the logical clock by one and releases any timers whose
// deadline has arrived onto the main queue, in deadline order. A
// release that overflows the queue drops that one message and reports
// it, rather than losing the whole batch.
func (cfg *Configuration) Tick() {
	cfg.clock++
	i := 0
	for i < len(cfg.timers) && cfg.timers[i].deadline <= cfg.clock {
		t := cfg.timers[i]
		if err := cfg.Send(t.target, t.payload); err != nil {
			cfg.report(t.target, err)
		}
		i++
	}
	cfg.timers = cfg.timers[i:]
}

// Run dispatches up to budget messages and returns the unspent
// portion: positive means the queue drained before budget ran out,
// zero means budget was fully spent with messages possibly still
// queued, and negative means a handler aborted (an ENSURE violation or
// a queue overflow raised while applying its Effect). Run panics with
// ErrReentrantDispatch if called while a dispatch is already active on
// this configuration — dispatch is never reentrant.
//
// Between each pair of dispatched messages, Run advances the garbage
// collector by cfg.gcBudget scan operations (SetGCBudget), so a
// long-running configuration interleaves GC work with message
// delivery instead of only ever collecting atomically on free-list
// exhaustion.
func (cfg *Configuration) Run(budget int) int {
	if cfg.dispatching {
		panic(ErrReentrantDispatch)
	}
	cfg.dispatching = true
	defer func() { cfg.dispatching = false }()

	remaining := budget
	for remaining > 0 && cfg.qCount > 0 {
		if !cfg.dispatchOne() {
			return -1
		}
		remaining--
		if cfg.gcBudget > 0 {
			cfg.h.IncrementalStep(cfg.gcBudget)
		}
	}
	return remaining
}

func (cfg *Configuration) dispatchOne() (ok bool) {
	wrapper := cfg.h.CQPop(cfg.queue)
	msg := cfg.h.Car(wrapper)
	cfg.qCount--
	target := cfg.h.Car(msg)
	what := cfg.h.Cdr(msg)

	defer func() {
		if r := recover(); r != nil {
			if ae, isAssert := r.(*heap.AssertionError); isAssert {
				trace.Event("actor.dispatch.abort", trace.Field{Key: "error", Value: ae.Error()})
				cfg.report(target, ae)
				ok = false
				return
			}
			if r == ErrQueueOverflow {
				trace.Event("actor.dispatch.abort", trace.Field{Key: "error", Value: ErrQueueOverflow.Error()})
				cfg.report(target, ErrQueueOverflow)
				ok = false
				return
			}
			panic(r)
		}
	}()

	fn := cfg.h.Func(cfg.h.SlotFirst(target)).(Behavior)
	state := cfg.h.SlotRest(target)
	effect := fn(&Context{Cfg: cfg}, target, state, what)
	cfg.applyEffect(target, effect)
	return true
}

func (cfg *Configuration) applyEffect(self heap.Value, effect Effect) {
	for _, a := range effect.actions {
		switch a.kind {
		case actionSend:
			if err := cfg.Send(a.target, a.payload); err != nil {
				panic(err)
			}
		case actionSendAfter:
			cfg.SendAfter(a.ticks, a.target, a.payload)
		case actionBecome:
			cfg.h.SetFirst(self, a.behavior)
			cfg.h.SetRest(self, a.state)
		}
	}
}

func (cfg *Configuration) report(target heap.Value, err error) {
	trace.Event("actor.report", trace.Field{Key: "error", Value: err.Error()})
	if !cfg.haveReport {
		return
	}
	desc := cfg.h.Cons(target, cfg.h.Intern(err.Error()))
	_ = cfg.Send(cfg.reporter, desc)
}
