package internal

import (
	"context"
	"sync"
)

// Future is a one-shot value that is resolved or rejected exactly once.
// Every caller-held handle in curtain is backed by one.
type Future[T any] struct {
	once  sync.Once
	done  chan struct{}
	value T
	err   error
}

func NewFuture[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

// Resolve settles the future with a value. Returns false if it was already settled.
func (f *Future[T]) Resolve(value T) bool {
	return f.settle(value, nil)
}

// Reject settles the future with an error. Returns false if it was already settled.
func (f *Future[T]) Reject(err error) bool {
	var zero T
	return f.settle(zero, err)
}

func (f *Future[T]) settle(value T, err error) bool {
	settled := false
	f.once.Do(func() {
		f.value = value
		f.err = err
		close(f.done)
		settled = true
	})
	return settled
}

// Done is closed once the future is settled.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

func (f *Future[T]) Settled() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Result returns the settled value without blocking. Before settlement it
// returns the zero value and a nil error.
func (f *Future[T]) Result() (T, error) {
	if !f.Settled() {
		var zero T
		return zero, nil
	}
	return f.value, f.err
}

// Wait blocks until the future settles or ctx is done. A settled future wins
// over a cancelled context.
func (f *Future[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	default:
	}

	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Signal is a one-shot broadcast with no payload.
type Signal struct {
	once sync.Once
	ch   chan struct{}
}

func NewSignal() *Signal {
	return &Signal{ch: make(chan struct{})}
}

// Fire closes the signal. Returns false if it had already fired.
func (s *Signal) Fire() bool {
	fired := false
	s.once.Do(func() {
		close(s.ch)
		fired = true
	})
	return fired
}

func (s *Signal) Fired() bool {
	select {
	case <-s.ch:
		return true
	default:
		return false
	}
}

func (s *Signal) C() <-chan struct{} {
	return s.ch
}
