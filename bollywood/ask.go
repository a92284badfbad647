package bollywood

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrAskTimeout is the error an AsyncResult resolves with once its
// deadline elapses without a reply.
var ErrAskTimeout = errors.New("bollywood: ask timed out")

// askHandle is the one-shot completion latch an actor's Receive
// completes via Context.Reply/Context.Fail. It never traverses a
// mailbox on the way back to the asker (spec.md §4.6): the actor holds
// a direct reference to it for the duration of one envelope.
type askHandle struct {
	once  sync.Once
	done  chan struct{}
	value interface{}
	err   error
	timer *time.Timer
}

func newAskHandle(timeout time.Duration) *askHandle {
	h := &askHandle{done: make(chan struct{})}
	h.timer = time.AfterFunc(timeout, func() {
		h.complete(nil, ErrAskTimeout)
	})
	return h
}

// complete resolves the handle exactly once; every call after the
// first (whether from the actor's Reply/Fail or from the timeout
// firing) is a no-op, per spec.md §4.6/§8.
func (h *askHandle) complete(value interface{}, err error) {
	h.once.Do(func() {
		h.value = value
		h.err = err
		close(h.done)
		h.timer.Stop()
	})
}

// AsyncResult is the future-like handle Ask returns. It completes with
// the value passed to Context.Reply, the error passed to Context.Fail,
// or ErrAskTimeout once the timeout elapses — whichever happens first.
// An ask that could not be enqueued is already completed with the send
// error (ErrMailboxFull, ErrDeliveryToTerminated), and an ask still
// queued when its target actor terminates completes with ErrAskTimeout
// at that moment.
type AsyncResult struct {
	id     string
	handle *askHandle
}

// ID is the correlation id assigned to this ask at send time, primarily
// useful for logging/tracing.
func (r *AsyncResult) ID() string { return r.id }

// Await blocks until the result is available or ctx is cancelled.
func (r *AsyncResult) Await(ctx doneWaiter) (interface{}, error) {
	select {
	case <-r.handle.done:
		return r.handle.value, r.handle.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Wait blocks with a hard upper bound independent of any context,
// convenient for call sites that don't already carry one.
func (r *AsyncResult) Wait() (interface{}, error) {
	<-r.handle.done
	return r.handle.value, r.handle.err
}

// doneWaiter is the minimal slice of context.Context that Await needs;
// avoids importing "context" into the public AsyncResult API surface
// for callers that only have a cancellation channel.
type doneWaiter interface {
	Done() <-chan struct{}
	Err() error
}

func newAskCorrelationID() string {
	return uuid.NewString()
}
