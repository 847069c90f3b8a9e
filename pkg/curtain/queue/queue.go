package queue

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/BrandonKowalski/curtain/pkg/curtain"
	"github.com/BrandonKowalski/curtain/pkg/curtain/constants"
	"github.com/BrandonKowalski/curtain/pkg/curtain/internal"
	"github.com/BrandonKowalski/curtain/pkg/curtain/metrics"
	"go.uber.org/atomic"
)

// Options configures a Queue.
type Options struct {
	Name    string             // Label for logs and metrics (default "queue")
	Logger  *slog.Logger       // Defaults to the curtain internal logger
	Metrics *metrics.Collector // Optional
	OnBusy  func(busy bool)    // Called when the run loop starts and stops
}

// Queue shows one screen at a time in FIFO order. It is safe for concurrent use.
type Queue[P any] struct {
	host     curtain.Host[P]
	name     string
	logger   *slog.Logger
	metrics  *metrics.Collector
	notifier *internal.BusyNotifier

	mu      sync.Mutex
	backlog []*entry[P] // Protected by mu
	current *entry[P]   // Protected by mu

	running  atomic.Bool
	hasError atomic.Bool
}

// New creates a Queue that opens screens through host.
func New[P any](host curtain.Host[P], options Options) *Queue[P] {
	if options.Name == "" {
		options.Name = constants.ControllerQueue.GetName()
	}
	if options.Logger == nil {
		options.Logger = internal.GetInternalLogger()
	}

	q := &Queue[P]{
		host:    host,
		name:    options.Name,
		logger:  options.Logger,
		metrics: options.Metrics,
	}
	q.notifier = internal.NewBusyNotifier(options.OnBusy, q.running.Load)
	return q
}

// Enqueue adds a request for the screen at path to the backlog and returns
// its handle. ctx cancels the request; see the package documentation.
func (q *Queue[P]) Enqueue(ctx context.Context, path string, param P) Request {
	return q.enqueue(ctx, path, param, nil)
}

func (q *Queue[P]) enqueue(ctx context.Context, path string, param P, bind binder) *entry[P] {
	e := newEntry(q, ctx, path, param, bind)

	if ctx.Err() != nil {
		q.logger.Debug("Request cancelled before admission", "queue", q.name, "id", e.id, "path", path)
		e.abort(&curtain.AbortedError{Path: path, Cause: context.Cause(ctx)})
		q.metrics.AddAborted(q.name, 1)
		return e
	}

	q.mu.Lock()
	q.backlog = append(q.backlog, e)
	backlog := len(q.backlog)
	start := q.startLocked()
	q.mu.Unlock()

	q.logger.Debug("Request enqueued", "queue", q.name, "id", e.id, "path", path, "backlog", backlog)
	q.metrics.SetBacklog(q.name, backlog)

	e.watch(ctx)

	if start {
		q.launch()
	}
	return e
}

// RepairError clears the fail-stop flag set by a host failure. With clear
// false the run loop resumes on the remaining backlog; with clear true every
// waiting request is aborted first. It does nothing if no failure is pending.
func (q *Queue[P]) RepairError(clear bool) {
	q.mu.Lock()
	if !q.hasError.Load() {
		q.mu.Unlock()
		return
	}
	q.hasError.Store(false)

	var drained []*entry[P]
	if clear {
		drained = q.backlog
		q.backlog = nil
	}
	start := q.startLocked()
	q.mu.Unlock()

	q.logger.Info("Repairing queue", "queue", q.name, "clear", clear, "discarded", len(drained))

	for _, e := range drained {
		path, _ := e.target()
		e.abort(&curtain.AbortedError{Path: path})
	}
	if clear {
		q.metrics.SetBacklog(q.name, 0)
		q.metrics.AddAborted(q.name, len(drained))
	}

	if start {
		q.launch()
	}
}

// Count returns the number of live requests, including the current one.
func (q *Queue[P]) Count() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	n := len(q.backlog)
	if q.current != nil {
		n++
	}
	return n
}

// IsEmpty reports whether nothing is showing, waiting, or in flight.
func (q *Queue[P]) IsEmpty() bool {
	return !q.running.Load() && q.Count() == 0
}

// HasError reports whether the queue is halted on a host failure.
func (q *Queue[P]) HasError() bool {
	return q.hasError.Load()
}

// Busy reports whether the run loop is active.
func (q *Queue[P]) Busy() bool {
	return q.running.Load()
}

// Active returns the current screen if it is active.
func (q *Queue[P]) Active() []curtain.Instance {
	q.mu.Lock()
	cur := q.current
	q.mu.Unlock()

	if cur == nil {
		return nil
	}
	if inst := cur.Instance(); inst != nil && inst.IsActive() {
		return []curtain.Instance{inst}
	}
	return nil
}

// ExecuteBack offers a back action to the current screen.
func (q *Queue[P]) ExecuteBack() bool {
	return curtain.ExecuteBack(q)
}

// CloseInstance closes the request showing inst and waits for it. It is a
// no-op when inst is not the current screen.
func (q *Queue[P]) CloseInstance(ctx context.Context, inst curtain.Instance) error {
	q.mu.Lock()
	cur := q.current
	q.mu.Unlock()

	if cur == nil || inst == nil || cur.Instance() != inst {
		return nil
	}
	return cur.Close(ctx)
}

// requestClose is the single path through which a request is asked to close,
// whether by its handle, its context, or a bound result.
func (q *Queue[P]) requestClose(e *entry[P], cause error) error {
	q.mu.Lock()
	state := e.State()
	if state.IsTerminal() {
		q.mu.Unlock()
		if state == StateFailed {
			return e.Err()
		}
		return &curtain.AlreadyClosedError{ID: e.id}
	}

	// Pending requests are always in the backlog; the run loop moves them to
	// Opening under the same lock when it takes them.
	if state == StatePending {
		q.removeLocked(e)
		backlog := len(q.backlog)
		q.mu.Unlock()

		q.logger.Debug("Request removed before opening", "queue", q.name, "id", e.id, "cancelled", cause != nil)
		q.metrics.SetBacklog(q.name, backlog)
		if cause != nil {
			q.metrics.AddAborted(q.name, 1)
		}
		e.abort(cause)
		return nil
	}
	q.mu.Unlock()

	e.closeReq.Fire()
	return nil
}

func (q *Queue[P]) removeLocked(e *entry[P]) {
	for i, x := range q.backlog {
		if x == e {
			q.backlog = append(q.backlog[:i], q.backlog[i+1:]...)
			return
		}
	}
}

// startLocked claims the run loop if there is work and nothing prevents it.
func (q *Queue[P]) startLocked() bool {
	if q.running.Load() || q.hasError.Load() || len(q.backlog) == 0 {
		return false
	}
	q.running.Store(true)
	return true
}

func (q *Queue[P]) launch() {
	q.notifier.Notify()
	go q.run()
}

// stopLocked halts the run loop on a host failure.
func (q *Queue[P]) stopLocked() {
	q.current = nil
	q.hasError.Store(true)
	q.running.Store(false)
}

func (q *Queue[P]) run() {
	defer q.notifier.Notify()

	var prev, cur *entry[P]
	for {
		if cur == nil {
			q.mu.Lock()
			cur = q.takeLocked()
			if cur == nil {
				q.running.Store(false)
				q.mu.Unlock()
				return
			}
			q.mu.Unlock()
		}

		inst, err := q.open(cur, prev)
		if err != nil {
			q.mu.Lock()
			q.stopLocked()
			q.mu.Unlock()

			q.logger.Error("Failed to open screen; queue halted", "queue", q.name, "id", cur.id, "error", err)
			q.metrics.IncFailStop(q.name)
			if prev != nil {
				prev.fail(err)
			}
			cur.fail(err)
			return
		}

		if prev != nil {
			prev.complete()
			prev = nil
		}
		cur.opened(inst)

		<-cur.closeReq.C()
		cur.advance(StateCloseRequested)

		// The successor is claimed under the lock that decides how cur closes,
		// so cancelling it can no longer strand cur open.
		q.mu.Lock()
		next := q.takeLocked()
		q.mu.Unlock()

		if next != nil {
			// Closed by the change that opens next.
			prev, cur = cur, next
			continue
		}

		if !q.closeTerminal(cur) {
			return
		}
		cur = nil
	}
}

// takeLocked moves the head of the backlog to current, or returns nil.
func (q *Queue[P]) takeLocked() *entry[P] {
	if len(q.backlog) == 0 {
		return nil
	}
	e := q.backlog[0]
	q.backlog[0] = nil
	q.backlog = q.backlog[1:]
	q.current = e
	e.advance(StateOpening)
	q.metrics.SetBacklog(q.name, len(q.backlog))
	return e
}

func (q *Queue[P]) open(cur, prev *entry[P]) (curtain.Instance, error) {
	path, param := cur.target()
	start := time.Now()

	var (
		inst curtain.Instance
		err  error
		op   = constants.OperationOpen
	)

	if prev == nil {
		q.logger.Debug("Opening screen", "queue", q.name, "id", cur.id, "path", path)
		err = internal.Guard(func() (err error) {
			inst, err = q.host.Open(cur.hostCtx, path, param, nil)
			return err
		})
	} else {
		op = constants.OperationChange
		prev.advance(StateClosing)
		q.logger.Debug("Changing screen", "queue", q.name, "id", cur.id, "path", path, "release", prev.id)
		err = internal.Guard(func() (err error) {
			inst, err = q.host.Change(cur.hostCtx, path, param, nil, []curtain.Instance{prev.Instance()})
			return err
		})
	}

	if err == nil && inst == nil {
		err = fmt.Errorf("host returned no instance")
	}
	q.metrics.ObserveTransition(q.name, op, start, err)

	if err != nil {
		return nil, curtain.NewLoadError(op, path, err)
	}
	return inst, nil
}

// closeTerminal closes e with nothing to replace it. It returns false when
// the host failed and the queue halted.
func (q *Queue[P]) closeTerminal(e *entry[P]) bool {
	e.advance(StateClosing)
	start := time.Now()

	q.logger.Debug("Closing screen", "queue", q.name, "id", e.id)
	err := internal.Guard(func() error {
		return q.host.Close(e.hostCtx, []curtain.Instance{e.Instance()}, nil)
	})
	q.metrics.ObserveTransition(q.name, constants.OperationClose, start, err)

	q.mu.Lock()
	if err != nil {
		q.stopLocked()
		q.mu.Unlock()

		err = curtain.NewLoadError(constants.OperationClose, "", err)
		q.logger.Error("Failed to close screen; queue halted", "queue", q.name, "id", e.id, "error", err)
		q.metrics.IncFailStop(q.name)
		e.fail(err)
		return false
	}
	q.current = nil
	q.mu.Unlock()

	e.complete()
	return true
}
