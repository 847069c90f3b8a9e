package queue

import (
	"context"
	"errors"
	"sync"

	"github.com/BrandonKowalski/curtain/pkg/curtain"
	"github.com/BrandonKowalski/curtain/pkg/curtain/internal"
	"github.com/google/uuid"
	"go.uber.org/atomic"
)

// Request is the caller's handle on a queued screen.
type Request interface {
	// ID uniquely identifies the request in logs.
	ID() string

	// State returns the current lifecycle state.
	State() State

	// IsClosed reports whether the request reached a terminal state.
	IsClosed() bool

	// Instance returns the opened screen, or nil before it opens.
	Instance() curtain.Instance

	// Err returns the failure or abort cause once terminal, nil otherwise.
	Err() error

	// Done is closed when the request reaches a terminal state.
	Done() <-chan struct{}

	// Wait blocks until the request is closed or ctx is done. It returns nil
	// for a normal close, the failure for a failed request, and an error
	// matching curtain.ErrAborted for a cancelled one.
	Wait(ctx context.Context) error

	// RequestClose asks for the screen to be closed without waiting. A
	// request still in the backlog is removed without opening. Calling it on
	// a finished request returns a *curtain.AlreadyClosedError and changes
	// nothing.
	RequestClose() error

	// Close requests the close and waits for it.
	Close(ctx context.Context) error

	// Dispose requests the close and returns immediately, logging anything
	// unexpected instead of returning it.
	Dispose()
}

// binder is called once, by the run loop, when the request's screen opens.
type binder func(inst curtain.Instance, requestClose func())

type entry[P any] struct {
	id    string
	owner *Queue[P]
	state atomic.Int32

	// hostCtx carries the submitter's values to host calls but never its cancellation.
	hostCtx context.Context

	mu       sync.Mutex
	path     string
	param    P
	instance curtain.Instance
	bind     binder
	stop     func() bool

	closeReq *internal.Signal
	done     *internal.Future[struct{}]
}

func newEntry[P any](owner *Queue[P], ctx context.Context, path string, param P, bind binder) *entry[P] {
	return &entry[P]{
		id:       uuid.NewString(),
		owner:    owner,
		hostCtx:  context.WithoutCancel(ctx),
		path:     path,
		param:    param,
		bind:     bind,
		closeReq: internal.NewSignal(),
		done:     internal.NewFuture[struct{}](),
	}
}

func (e *entry[P]) ID() string {
	return e.id
}

func (e *entry[P]) State() State {
	return State(e.state.Load())
}

func (e *entry[P]) IsClosed() bool {
	return e.State().IsTerminal()
}

func (e *entry[P]) Instance() curtain.Instance {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.instance
}

func (e *entry[P]) Err() error {
	_, err := e.done.Result()
	return err
}

func (e *entry[P]) Done() <-chan struct{} {
	return e.done.Done()
}

func (e *entry[P]) Wait(ctx context.Context) error {
	_, err := e.done.Wait(ctx)
	return err
}

func (e *entry[P]) RequestClose() error {
	return e.owner.requestClose(e, nil)
}

func (e *entry[P]) Close(ctx context.Context) error {
	if err := e.RequestClose(); err != nil {
		return err
	}
	return e.Wait(ctx)
}

func (e *entry[P]) Dispose() {
	if err := e.RequestClose(); err != nil && !errors.Is(err, curtain.ErrAlreadyClosed) {
		e.owner.logger.Error("Failed to dispose request", "queue", e.owner.name, "id", e.id, "error", err)
	}
}

// target returns what to open. Only valid before the request is terminal.
func (e *entry[P]) target() (string, P) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.path, e.param
}

// advance moves the state forward to to. Terminal states never change and
// backward moves are refused.
func (e *entry[P]) advance(to State) bool {
	for {
		cur := State(e.state.Load())
		if cur.IsTerminal() || cur >= to {
			return false
		}
		if e.state.CompareAndSwap(int32(cur), int32(to)) {
			return true
		}
	}
}

// watch ties the request to ctx: cancellation aborts it while pending and
// closes it once open.
func (e *entry[P]) watch(ctx context.Context) {
	if ctx.Done() == nil {
		return
	}
	stop := context.AfterFunc(ctx, func() {
		path, _ := e.target()
		_ = e.owner.requestClose(e, &curtain.AbortedError{Path: path, Cause: context.Cause(ctx)})
	})

	e.mu.Lock()
	e.stop = stop
	e.mu.Unlock()

	if e.IsClosed() {
		stop()
	}
}

func (e *entry[P]) opened(inst curtain.Instance) {
	e.mu.Lock()
	e.instance = inst
	bind := e.bind
	e.bind = nil
	e.mu.Unlock()

	e.advance(StateOpen)

	if bind != nil {
		bind(inst, func() {
			_ = e.owner.requestClose(e, nil)
		})
	}
}

func (e *entry[P]) complete() {
	if e.advance(StateClosed) {
		e.release()
		e.done.Resolve(struct{}{})
	}
}

func (e *entry[P]) fail(err error) {
	if e.advance(StateFailed) {
		e.release()
		e.done.Reject(err)
	}
}

// abort finishes a request that never opened. A nil cause means the caller
// closed it explicitly, which is not an error for waiters.
func (e *entry[P]) abort(cause error) {
	if !e.advance(StateAborted) {
		return
	}
	e.release()
	if cause != nil {
		e.done.Reject(cause)
	} else {
		e.done.Resolve(struct{}{})
	}
}

// release drops references held for the open and detaches from the context.
func (e *entry[P]) release() {
	var zero P

	e.mu.Lock()
	e.path = ""
	e.param = zero
	e.bind = nil
	stop := e.stop
	e.stop = nil
	e.mu.Unlock()

	if stop != nil {
		stop()
	}
}
