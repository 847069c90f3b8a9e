package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/BrandonKowalski/curtain/pkg/curtain"
	"github.com/BrandonKowalski/curtain/pkg/curtain/constants"
	"github.com/BrandonKowalski/curtain/pkg/curtain/memhost"
	"github.com/BrandonKowalski/curtain/pkg/curtain/metrics"
	"github.com/BrandonKowalski/curtain/pkg/curtain/queue"
	"github.com/BrandonKowalski/curtain/pkg/curtain/stack"
)

const pollInterval = 2 * time.Millisecond

var errInjected = errors.New("injected failure")

// runner executes one scenario against a fresh host and controller.
type runner struct {
	sc      *Scenario
	timeout time.Duration

	host  *memhost.Host[any]
	queue *queue.Queue[any]
	stack *stack.Stack[any]

	failMu  sync.RWMutex
	failing map[string]bool

	names   []string
	cancels map[string]context.CancelFunc
	reqs    map[string]queue.Request
	queries map[string]*queue.ResultRequest[any]
	entries map[string]*stack.Entry
	pops    map[string]*stack.Pending
}

func newRunner(sc *Scenario, timeout time.Duration, m *metrics.Collector) *runner {
	r := &runner{
		sc:      sc,
		timeout: timeout,
		host:    memhost.New[any](memhost.Options{}),
		failing: make(map[string]bool),
		cancels: make(map[string]context.CancelFunc),
		reqs:    make(map[string]queue.Request),
		queries: make(map[string]*queue.ResultRequest[any]),
		entries: make(map[string]*stack.Entry),
		pops:    make(map[string]*stack.Pending),
	}

	r.host.RegisterScreen(sc.Screens...)
	r.host.SetHooks(memhost.Hooks{
		BeforeOpen: func(_ context.Context, path string) error {
			r.failMu.RLock()
			defer r.failMu.RUnlock()
			if r.failing[path] {
				return errInjected
			}
			return nil
		},
	})

	switch sc.Controller {
	case constants.ControllerStack.GetName():
		r.stack = stack.New[any](r.host, stack.Options{Metrics: m})
	default:
		r.queue = queue.New[any](r.host, queue.Options{Metrics: m})
	}
	return r
}

func (r *runner) note(format string, args ...any) {
	r.host.Journal().Record("# "+format, args...)
}

func (r *runner) track(name string) {
	for _, n := range r.names {
		if n == name {
			return
		}
	}
	r.names = append(r.names, name)
}

// Run executes every step, waits for the controller to settle, and writes the
// journal followed by a summary of every handle.
func (r *runner) Run(ctx context.Context, out io.Writer) error {
	defer func() {
		for _, cancel := range r.cancels {
			cancel()
		}
	}()

	for i, step := range r.sc.Steps {
		if err := r.step(ctx, step); err != nil {
			return fmt.Errorf("step %d (%s): %w", i+1, step.Op, err)
		}
	}

	if err := r.settle(ctx); err != nil {
		return err
	}

	for _, event := range r.host.Journal().Events() {
		fmt.Fprintln(out, event)
	}
	fmt.Fprintln(out, "---")
	r.summarize(ctx, out)
	return nil
}

func (r *runner) step(ctx context.Context, step Step) error {
	switch step.Op {
	case "enqueue", "query":
		reqCtx, cancel := context.WithCancel(ctx)
		r.track(step.Name)
		r.cancels[step.Name] = cancel
		if step.Op == "query" {
			q := queue.Query[any](reqCtx, r.queue, step.Path, nil)
			r.queries[step.Name] = q
			r.reqs[step.Name] = q
		} else {
			r.reqs[step.Name] = r.queue.Enqueue(reqCtx, step.Path, nil)
		}
		if step.Wait {
			return r.waitOpened(ctx, step.Name)
		}

	case "opened":
		return r.waitOpened(ctx, step.Name)

	case "close":
		req, err := r.request(step.Name)
		if err != nil {
			return err
		}
		if err := req.RequestClose(); err != nil {
			r.note("close %s: %s", step.Name, curtain.Message(err))
		}
		if step.Wait {
			return r.wait(ctx, step.Name)
		}

	case "cancel":
		if _, err := r.request(step.Name); err != nil {
			return err
		}
		r.cancels[step.Name]()
		if step.Wait {
			return r.wait(ctx, step.Name)
		}

	case "result":
		if err := r.waitOpened(ctx, step.Name); err != nil {
			return err
		}
		screen, ok := r.reqs[step.Name].Instance().(*memhost.Screen)
		if !ok {
			return fmt.Errorf("%s did not open", step.Name)
		}
		if err := screen.SetResult(step.Value); err != nil {
			r.note("result %s: %s", step.Name, curtain.Message(err))
		}
		if step.Wait {
			return r.wait(ctx, step.Name)
		}

	case "repair":
		r.queue.RepairError(step.Clear)

	case "push", "switch":
		r.track(step.Name)
		if step.Op == "push" {
			r.entries[step.Name] = r.stack.Push(step.Path, nil)
		} else {
			r.entries[step.Name] = r.stack.Switch(step.Path, nil)
		}
		if step.Wait {
			return r.wait(ctx, step.Name)
		}

	case "pop", "pop-entry":
		name := step.Name
		var pending *stack.Pending
		if step.Op == "pop" {
			if name == "" {
				name = fmt.Sprintf("pop%d", len(r.pops)+1)
			}
			pending = r.stack.Pop(max(step.Count, constants.DefaultPopCount))
		} else {
			entry, ok := r.entries[name]
			if !ok {
				return fmt.Errorf("unknown handle %q", name)
			}
			pending = entry.Pop()
			name += ".pop"
		}
		r.track(name)
		r.pops[name] = pending
		if step.Wait {
			return r.wait(ctx, name)
		}

	case "fail", "heal":
		r.failMu.Lock()
		r.failing[step.Path] = step.Op == "fail"
		r.failMu.Unlock()

	case "wait":
		return r.wait(ctx, step.Name)

	case "back":
		var handled bool
		if r.stack != nil {
			handled = r.stack.ExecuteBack()
		} else {
			handled = r.queue.ExecuteBack()
		}
		r.note("back handled: %t", handled)

	default:
		return fmt.Errorf("unknown op %q", step.Op)
	}
	return nil
}

func (r *runner) request(name string) (queue.Request, error) {
	req, ok := r.reqs[name]
	if !ok {
		return nil, fmt.Errorf("unknown handle %q", name)
	}
	return req, nil
}

// wait blocks until the named handle settles: a queue request closes, a stack
// entry opens or fails, or a pop finishes.
func (r *runner) wait(ctx context.Context, name string) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var done <-chan struct{}
	switch {
	case r.reqs[name] != nil:
		done = r.reqs[name].Done()
	case r.entries[name] != nil:
		done = r.entries[name].Done()
	case r.pops[name] != nil:
		done = r.pops[name].Done()
	default:
		return fmt.Errorf("unknown handle %q", name)
	}

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("timed out waiting for %s", name)
	}
}

// waitOpened blocks until the named queue request is open or finished.
func (r *runner) waitOpened(ctx context.Context, name string) error {
	req, err := r.request(name)
	if err != nil {
		return err
	}
	return r.poll(ctx, fmt.Sprintf("%s to open", name), func() bool {
		return req.IsClosed() || req.State() >= queue.StateOpen
	})
}

// settle waits until no transition is in flight and nothing can start one.
func (r *runner) settle(ctx context.Context) error {
	if r.stack != nil {
		return r.poll(ctx, "the stack", func() bool {
			return !r.stack.Busy()
		})
	}

	return r.poll(ctx, "the queue", func() bool {
		var pending, open bool
		for _, req := range r.reqs {
			switch req.State() {
			case queue.StateOpening, queue.StateCloseRequested, queue.StateClosing:
				return false
			case queue.StatePending:
				pending = true
			case queue.StateOpen:
				open = true
			}
		}
		return !pending || open || r.queue.HasError()
	})
}

func (r *runner) poll(ctx context.Context, what string, ready func() bool) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for !ready() {
		select {
		case <-ticker.C:
		case <-ctx.Done():
			return fmt.Errorf("timed out waiting for %s", what)
		}
	}
	return nil
}

func (r *runner) summarize(ctx context.Context, out io.Writer) {
	for _, name := range r.names {
		switch {
		case r.reqs[name] != nil:
			req := r.reqs[name]
			line := fmt.Sprintf("%s: %s", name, req.State())
			if err := req.Err(); err != nil {
				line += " (" + curtain.Message(err) + ")"
			}
			if q := r.queries[name]; q != nil && req.State() == queue.StateClosed {
				if v, err := q.Result(ctx); err != nil {
					line += " result: " + curtain.Message(err)
				} else {
					line += fmt.Sprintf(" result: %v", v)
				}
			}
			fmt.Fprintln(out, line)

		case r.entries[name] != nil:
			entry := r.entries[name]
			state := "open"
			if entry.Err() != nil {
				state = "failed (" + curtain.Message(entry.Err()) + ")"
			} else if entry.Instance() == nil {
				state = "pending"
			} else if !r.stack.Contains(entry) {
				state = "closed"
			} else if entry.IsFront() {
				state = "front"
			}
			fmt.Fprintf(out, "%s: %s\n", name, state)

		case r.pops[name] != nil:
			state := "done"
			if err := r.pops[name].Err(); err != nil {
				state = "failed (" + curtain.Message(err) + ")"
			}
			fmt.Fprintf(out, "%s: %s\n", name, state)
		}
	}

	if r.stack != nil {
		fmt.Fprintf(out, "depth: %d\n", r.stack.Count())
	} else if r.queue.HasError() {
		fmt.Fprintln(out, "queue: halted")
	}
}
