package stack

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
)

// Options configures a Stack.
type Options struct {
	Name    string             // Label for logs and metrics (default "stack")
	Logger  *slog.Logger       // Defaults to the curtain internal logger
	Metrics *metrics.Collector // Optional
	OnBusy  func(busy bool)    // Called when the command processor starts and stops
	Context context.Context    // Passed to host calls (default context.Background)
}

type frame struct {
	inst   curtain.Instance
	parent curtain.Instance
}

// Stack is a navigation stack of live screens. It is safe for concurrent use.
type Stack[P any] struct {
	host    curtain.Host[P]
	name    string
	logger  *slog.Logger
	metrics *metrics.Collector
	ctx     context.Context
	proc    *internal.Processor

	mu     sync.RWMutex
	frames []frame // Bottom first. Written only from processor commands.
}

// New creates a Stack that opens screens through host.
func New[P any](host curtain.Host[P], options Options) *Stack[P] {
	if options.Name == "" {
		options.Name = constants.ControllerStack.GetName()
	}
	if options.Logger == nil {
		options.Logger = internal.GetInternalLogger()
	}
	if options.Context == nil {
		options.Context = context.Background()
	}

	return &Stack[P]{
		host:    host,
		name:    options.Name,
		logger:  options.Logger,
		metrics: options.Metrics,
		ctx:     context.WithoutCancel(options.Context),
		proc:    internal.NewProcessor(options.Logger, options.OnBusy),
	}
}

// Push opens the screen at path on top of the stack. The current top stays
// open and becomes the new screen's parent.
func (s *Stack[P]) Push(path string, param P) *Entry {
	e := newEntry(s)
	s.proc.Submit(func() {
		s.push(e, path, param)
	})
	return e
}

// Switch replaces the top of the stack with the screen at path. On an empty
// stack it behaves like Push.
func (s *Stack[P]) Switch(path string, param P) *Entry {
	e := newEntry(s)
	s.proc.Submit(func() {
		s.change(e, path, param)
	})
	return e
}

// Pop closes the top count instances. Counts below one pop a single instance;
// counts above the depth empty the stack. Popping an empty stack fails with
// curtain.ErrStackEmpty.
func (s *Stack[P]) Pop(count int) *Pending {
	if count < 1 {
		count = constants.DefaultPopCount
	}
	p := newPending()
	s.proc.Submit(func() {
		s.popFrom(p, func(frames []frame) (int, error) {
			if len(frames) == 0 {
				return 0, curtain.ErrStackEmpty
			}
			return max(len(frames)-count, 0), nil
		})
	})
	return p
}

// PopEntry closes e's instance and everything above it. It is the same as e.Pop().
func (s *Stack[P]) PopEntry(e *Entry) *Pending {
	return e.Pop()
}

func (s *Stack[P]) popEntry(e *Entry) *Pending {
	p := newPending()
	s.proc.Submit(func() {
		s.popFrom(p, func(frames []frame) (int, error) {
			if i := indexOf(frames, e.Instance()); i >= 0 {
				return i, nil
			}
			return 0, &curtain.NotFoundError{ID: e.id}
		})
	})
	return p
}

// CloseInstance closes inst and everything above it, then waits. It is a
// no-op when inst is not on the stack.
func (s *Stack[P]) CloseInstance(ctx context.Context, inst curtain.Instance) error {
	if inst == nil {
		return nil
	}
	p := newPending()
	s.proc.Submit(func() {
		s.popFrom(p, func(frames []frame) (int, error) {
			return indexOf(frames, inst), nil
		})
	})
	return p.Wait(ctx)
}

// IsFront reports whether e's instance is the top of the stack.
func (s *Stack[P]) IsFront(e *Entry) bool {
	return s.isFront(e)
}

func (s *Stack[P]) isFront(e *Entry) bool {
	inst := e.Instance()
	if inst == nil {
		return false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := len(s.frames)
	return n > 0 && s.frames[n-1].inst == inst
}

// Contains reports whether e's instance is on the stack.
func (s *Stack[P]) Contains(e *Entry) bool {
	inst := e.Instance()
	s.mu.RLock()
	defer s.mu.RUnlock()
	return indexOf(s.frames, inst) >= 0
}

// Count returns the number of live instances.
func (s *Stack[P]) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.frames)
}

func (s *Stack[P]) IsEmpty() bool {
	return s.Count() == 0
}

// Busy reports whether a command is executing or waiting.
func (s *Stack[P]) Busy() bool {
	return s.proc.Busy()
}

// Active returns the active instances, top first.
func (s *Stack[P]) Active() []curtain.Instance {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var active []curtain.Instance
	for i := len(s.frames) - 1; i >= 0; i-- {
		if inst := s.frames[i].inst; inst.IsActive() {
			active = append(active, inst)
		}
	}
	return active
}

// ExecuteBack offers a back action to the active screens, top first.
func (s *Stack[P]) ExecuteBack() bool {
	return curtain.ExecuteBack(s)
}

func (s *Stack[P]) top() curtain.Instance {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if n := len(s.frames); n > 0 {
		return s.frames[n-1].inst
	}
	return nil
}

func (s *Stack[P]) push(e *Entry, path string, param P) {
	parent := s.top()
	start := time.Now()

	s.logger.Debug("Pushing screen", "stack", s.name, "id", e.id, "path", path)
	var inst curtain.Instance
	err := internal.Guard(func() (err error) {
		inst, err = s.host.Open(s.ctx, path, param, parent)
		return err
	})
	if err == nil && inst == nil {
		err = fmt.Errorf("host returned no instance")
	}
	s.metrics.ObserveTransition(s.name, constants.OperationOpen, start, err)

	if err != nil {
		err = curtain.NewLoadError(constants.OperationOpen, path, err)
		s.logger.Error("Failed to push screen", "stack", s.name, "id", e.id, "error", err)
		e.reject(err)
		return
	}

	s.mu.Lock()
	s.frames = append(s.frames, frame{inst: inst, parent: parent})
	depth := len(s.frames)
	s.mu.Unlock()

	s.metrics.SetStackDepth(s.name, depth)
	e.resolve(inst)
}

func (s *Stack[P]) change(e *Entry, path string, param P) {
	var (
		parent   curtain.Instance
		releases []curtain.Instance
	)

	// The old top leaves the stack before the host runs, whatever the outcome.
	s.mu.Lock()
	if n := len(s.frames); n > 0 {
		removed := s.frames[n-1]
		s.frames[n-1] = frame{}
		s.frames = s.frames[:n-1]
		parent = removed.parent
		releases = []curtain.Instance{removed.inst}
	}
	depth := len(s.frames)
	s.mu.Unlock()

	s.metrics.SetStackDepth(s.name, depth)
	start := time.Now()

	s.logger.Debug("Switching screen", "stack", s.name, "id", e.id, "path", path, "releases", len(releases))
	var inst curtain.Instance
	err := internal.Guard(func() (err error) {
		inst, err = s.host.Change(s.ctx, path, param, parent, releases)
		return err
	})
	if err == nil && inst == nil {
		err = fmt.Errorf("host returned no instance")
	}
	s.metrics.ObserveTransition(s.name, constants.OperationChange, start, err)

	if err != nil {
		err = curtain.NewLoadError(constants.OperationChange, path, err)
		s.logger.Error("Failed to switch screen", "stack", s.name, "id", e.id, "error", err)
		e.reject(err)
		return
	}

	s.mu.Lock()
	s.frames = append(s.frames, frame{inst: inst, parent: parent})
	depth = len(s.frames)
	s.mu.Unlock()

	s.metrics.SetStackDepth(s.name, depth)
	e.resolve(inst)
}

// popFrom removes every frame from the index chosen by locate upward in one
// step, then closes them through the host. A negative index pops nothing.
func (s *Stack[P]) popFrom(p *Pending, locate func(frames []frame) (int, error)) {
	s.mu.Lock()
	index, err := locate(s.frames)
	if err != nil || index < 0 {
		s.mu.Unlock()
		if err != nil {
			s.logger.Debug("Nothing to pop", "stack", s.name, "error", err)
		}
		p.finish(err)
		return
	}

	removed := make([]curtain.Instance, 0, len(s.frames)-index)
	for i := len(s.frames) - 1; i >= index; i-- {
		removed = append(removed, s.frames[i].inst)
		s.frames[i] = frame{}
	}
	s.frames = s.frames[:index]

	var front curtain.Instance
	if index > 0 {
		front = s.frames[index-1].inst
	}
	depth := len(s.frames)
	s.mu.Unlock()

	s.metrics.SetStackDepth(s.name, depth)
	start := time.Now()

	s.logger.Debug("Popping screens", "stack", s.name, "count", len(removed), "depth", depth)
	err = internal.Guard(func() error {
		return s.host.Close(s.ctx, removed, front)
	})
	s.metrics.ObserveTransition(s.name, constants.OperationClose, start, err)

	if err != nil {
		err = curtain.NewLoadError(constants.OperationClose, "", err)
		s.logger.Error("Failed to pop screens", "stack", s.name, "error", err)
	}
	p.finish(err)
}

func indexOf(frames []frame, inst curtain.Instance) int {
	if inst == nil {
		return -1
	}
	for i, f := range frames {
		if f.inst == inst {
			return i
		}
	}
	return -1
}
