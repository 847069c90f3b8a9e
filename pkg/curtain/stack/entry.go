package stack

import (
	"context"
	"sync"

	"github.com/BrandonKowalski/curtain/pkg/curtain"
	"github.com/BrandonKowalski/curtain/pkg/curtain/internal"
	"github.com/google/uuid"
)

// owner is the part of a Stack an Entry calls back into.
type owner interface {
	popEntry(e *Entry) *Pending
	isFront(e *Entry) bool
}

// Entry is the handle returned by Push and Switch. It resolves to the opened
// instance, or rejects with the error that prevented the open.
type Entry struct {
	id     string
	owner  owner
	future *internal.Future[curtain.Instance]

	popOnce sync.Once
	pop     *Pending
}

func newEntry(o owner) *Entry {
	return &Entry{
		id:     uuid.NewString(),
		owner:  o,
		future: internal.NewFuture[curtain.Instance](),
	}
}

func (e *Entry) ID() string {
	return e.id
}

// Instance returns the opened instance, or nil if it has not opened (yet).
func (e *Entry) Instance() curtain.Instance {
	inst, _ := e.future.Result()
	return inst
}

// Wait blocks until the instance opens or fails, or ctx is done.
func (e *Entry) Wait(ctx context.Context) (curtain.Instance, error) {
	return e.future.Wait(ctx)
}

// Done is closed once the entry is resolved or rejected.
func (e *Entry) Done() <-chan struct{} {
	return e.future.Done()
}

// Err returns the open failure, or nil.
func (e *Entry) Err() error {
	_, err := e.future.Result()
	return err
}

// IsActive reports whether the entry's instance exists and is active.
func (e *Entry) IsActive() bool {
	inst := e.Instance()
	return inst != nil && inst.IsActive()
}

// IsFront reports whether the entry's instance is the top of the stack.
func (e *Entry) IsFront() bool {
	return e.owner.isFront(e)
}

// Pop closes this entry's instance and everything above it. Only the first
// call has an effect; later calls return the same handle.
func (e *Entry) Pop() *Pending {
	e.popOnce.Do(func() {
		e.pop = e.owner.popEntry(e)
	})
	return e.pop
}

func (e *Entry) resolve(inst curtain.Instance) {
	e.future.Resolve(inst)
}

func (e *Entry) reject(err error) {
	e.future.Reject(err)
}

// Pending is the handle for a pop.
type Pending struct {
	future *internal.Future[struct{}]
}

func newPending() *Pending {
	return &Pending{future: internal.NewFuture[struct{}]()}
}

// Wait blocks until the pop finishes or ctx is done.
func (p *Pending) Wait(ctx context.Context) error {
	_, err := p.future.Wait(ctx)
	return err
}

// Done is closed once the pop finishes.
func (p *Pending) Done() <-chan struct{} {
	return p.future.Done()
}

// Err returns the pop failure once finished, or nil.
func (p *Pending) Err() error {
	_, err := p.future.Result()
	return err
}

func (p *Pending) finish(err error) {
	if err != nil {
		p.future.Reject(err)
		return
	}
	p.future.Resolve(struct{}{})
}
