package actor

import "fmt"

// ActorError is the common error type for the actor runtime, following
// the same typed-payload-with-Error() discipline as heap.HeapError.
type ActorError struct {
	Kind    string
	Message string
}

func (e *ActorError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// ErrQueueOverflow is returned by Send when the configuration's queue
// is already at its admission limit (§4.4). Raised during effect
// application it aborts the running dispatch batch (§5).
var ErrQueueOverflow = &ActorError{Kind: "E_BUSY", Message: "message queue at capacity"}

// ErrReentrantDispatch is raised if Run is invoked while a dispatch is
// already in progress on the same configuration: dispatch is
// single-threaded and never reentrant (§4.4).
var ErrReentrantDispatch = &ActorError{Kind: "AT", Message: "reentrant call to Configuration.Run"}
