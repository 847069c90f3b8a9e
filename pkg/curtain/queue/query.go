package queue

import (
	"context"
	"sync"

	"github.com/BrandonKowalski/curtain/pkg/curtain"
)

// ResultRequest is a Request whose screen reports a result of type R.
type ResultRequest[R any] struct {
	Request

	path    string
	mu      sync.Mutex
	binding binding[R]
}

// Query enqueues the screen at path like Queue.Enqueue and returns a handle
// that also yields the screen's result of type R.
func Query[R any, P any](ctx context.Context, q *Queue[P], path string, param P) *ResultRequest[R] {
	r := &ResultRequest[R]{path: path}
	r.Request = q.enqueue(ctx, path, param, r.bind)
	return r
}

func (r *ResultRequest[R]) bind(inst curtain.Instance, requestClose func()) {
	b := resolveBinding[R](inst)

	r.mu.Lock()
	r.binding = b
	r.mu.Unlock()

	if b.kind == bindingSlot {
		b.slot.Bind(requestClose)
	}
}

// Bound reports whether the opened screen offered a result capability.
func (r *ResultRequest[R]) Bound() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.binding.kind != bindingNone
}

// Result waits for the screen to close and returns its result. It returns
// ctx's error if ctx is done first, the failure of a failed request, a
// *curtain.AbortedError if the request never opened, and a
// *curtain.HandlerNotFoundError if the screen reports no result.
func (r *ResultRequest[R]) Result(ctx context.Context) (R, error) {
	var zero R

	if err := r.Wait(ctx); err != nil {
		return zero, err
	}
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	if r.State() == StateAborted {
		return zero, &curtain.AbortedError{Path: r.path}
	}

	r.mu.Lock()
	b := r.binding
	r.mu.Unlock()

	return b.result(r.path)
}
