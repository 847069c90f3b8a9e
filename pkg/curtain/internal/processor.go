package internal

import (
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"

	"go.uber.org/atomic"
)

// BusyNotifier reports idle/busy edges to a hook. Notify samples the live
// state, so racing edges collapse and the hook always ends on the true state.
type BusyNotifier struct {
	mu    sync.Mutex
	last  bool
	hook  func(busy bool)
	state func() bool
}

func NewBusyNotifier(hook func(busy bool), state func() bool) *BusyNotifier {
	return &BusyNotifier{hook: hook, state: state}
}

// Notify forwards the current state to the hook if it changed since the last report.
func (n *BusyNotifier) Notify() {
	if n == nil || n.hook == nil {
		return
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	busy := n.state()
	if busy == n.last {
		return
	}
	n.last = busy
	n.hook(busy)
}

// Processor runs submitted commands one at a time in submission order.
// A command submitted while the processor is idle starts executing right away
// on a fresh goroutine; otherwise it waits behind the running command.
type Processor struct {
	mu      sync.Mutex
	pending []func()
	busy    atomic.Bool

	notifier *BusyNotifier
	logger   *slog.Logger
}

func NewProcessor(logger *slog.Logger, onBusy func(bool)) *Processor {
	if logger == nil {
		logger = GetInternalLogger()
	}
	p := &Processor{logger: logger}
	p.notifier = NewBusyNotifier(onBusy, p.busy.Load)
	return p
}

// Submit queues cmd. It never blocks on a running command.
func (p *Processor) Submit(cmd func()) {
	p.mu.Lock()
	p.pending = append(p.pending, cmd)
	if p.busy.Load() {
		p.mu.Unlock()
		return
	}
	p.busy.Store(true)
	p.mu.Unlock()

	p.notifier.Notify()
	go p.drain()
}

// Busy reports whether a command is executing or waiting to execute.
func (p *Processor) Busy() bool {
	return p.busy.Load()
}

// Pending returns the number of commands waiting behind the running one.
func (p *Processor) Pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.pending)
}

func (p *Processor) drain() {
	for {
		p.mu.Lock()
		if len(p.pending) == 0 {
			p.busy.Store(false)
			p.mu.Unlock()
			p.notifier.Notify()
			return
		}
		cmd := p.pending[0]
		p.pending[0] = nil
		p.pending = p.pending[1:]
		p.mu.Unlock()

		p.execute(cmd)
	}
}

func (p *Processor) execute(cmd func()) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("command panicked",
				"panic", fmt.Sprint(r),
				"stack", string(debug.Stack()))
		}
	}()
	cmd()
}
