package router

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/BrandonKowalski/curtain/pkg/curtain"
	"github.com/BrandonKowalski/curtain/pkg/curtain/queue"
	"go.uber.org/atomic"
)

// Screen is a type-safe identifier for screens.
// Applications should define their own Screen constants using iota.
//
//	const (
//	    ScreenMain Screen = iota
//	    ScreenSettings
//	    ScreenDetail
//	)
type Screen int

// ScreenFunc runs a screen with its input and returns its result.
type ScreenFunc func(input any) (result any, err error)

// TransitionFunc is called after each screen closes to pick the next one.
// It receives the screen that just closed, its result, and the history.
//
// Return (screen, input) to navigate to a new screen.
// Return values from history.Pop() to go back.
// Return (ScreenExit, nil) to stop the router.
type TransitionFunc func(from Screen, result any, history *History) (next Screen, input any)

// ScreenExit is a special Screen value that signals the router to exit.
const ScreenExit Screen = -1

const pathPrefix = "router/screen/"

// Router drives screens one at a time through a queue. Screens are registered
// with their functions, and a single transition function holds all routing.
type Router struct {
	mu         sync.RWMutex
	screens    map[Screen]ScreenFunc
	transition TransitionFunc

	history *History
	queue   *queue.Queue[any]
}

// New creates a Router. options configures the underlying queue.
func New(options queue.Options) *Router {
	if options.Name == "" {
		options.Name = "router"
	}
	r := &Router{
		screens: make(map[Screen]ScreenFunc),
		history: NewHistory(),
	}
	r.queue = queue.New[any](&screenHost{router: r}, options)
	return r
}

// Register adds a screen to the router.
func (r *Router) Register(screen Screen, fn ScreenFunc) *Router {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.screens[screen] = fn
	return r
}

// OnTransition sets the transition function that determines navigation flow.
func (r *Router) OnTransition(fn TransitionFunc) *Router {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.transition = fn
	return r
}

// Run starts at screen start with input and keeps going until the transition
// function returns ScreenExit, a screen fails, or ctx is cancelled.
func (r *Router) Run(ctx context.Context, start Screen, input any) error {
	r.mu.RLock()
	transition := r.transition
	r.mu.RUnlock()

	if transition == nil {
		return fmt.Errorf("router: no transition function set")
	}

	current := start
	currentInput := input

	for {
		if _, ok := r.lookup(current); !ok {
			return fmt.Errorf("router: screen %d not registered", current)
		}

		req := queue.Query[any](ctx, r.queue, pathFor(current), currentInput)
		result, err := req.Result(ctx)
		if err != nil {
			// A failed screen halts the queue; drop whatever is left so the
			// router can run again.
			r.queue.RepairError(true)
			return fmt.Errorf("router: screen %d error: %w", current, err)
		}

		next, nextInput := transition(current, result, r.history)
		if next == ScreenExit {
			return nil
		}

		current = next
		currentInput = nextInput
	}
}

// History returns the back-navigation history passed to the transition function.
func (r *Router) History() *History {
	return r.history
}

// Queue returns the queue screens run on.
func (r *Router) Queue() *queue.Queue[any] {
	return r.queue
}

func (r *Router) lookup(screen Screen) (ScreenFunc, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.screens[screen]
	return fn, ok
}

func pathFor(screen Screen) string {
	return pathPrefix + strconv.Itoa(int(screen))
}

func screenFor(path string) (Screen, bool) {
	id, ok := strings.CutPrefix(path, pathPrefix)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(id)
	if err != nil {
		return 0, false
	}
	return Screen(n), true
}

// screenInstance is a finished screen whose result is already in its slot.
type screenInstance struct {
	active  atomic.Bool
	results curtain.ResultSlot[any]
}

func (s *screenInstance) IsActive() bool {
	return s.active.Load()
}

func (s *screenInstance) ResultSlot() *curtain.ResultSlot[any] {
	return &s.results
}

// screenHost runs registered ScreenFuncs as the open step of a screen.
type screenHost struct {
	router *Router
}

func (h *screenHost) Open(_ context.Context, path string, input any, _ curtain.Instance) (curtain.Instance, error) {
	screen, ok := screenFor(path)
	if !ok {
		return nil, fmt.Errorf("%w: %s", curtain.ErrPathNotFound, path)
	}
	fn, ok := h.router.lookup(screen)
	if !ok {
		return nil, fmt.Errorf("%w: %s", curtain.ErrPathNotFound, path)
	}

	result, err := fn(input)
	if err != nil {
		return nil, err
	}

	inst := &screenInstance{}
	inst.active.Store(true)
	_ = inst.results.Set(result)
	return inst, nil
}

func (h *screenHost) Change(ctx context.Context, path string, input any, parent curtain.Instance, releases []curtain.Instance) (curtain.Instance, error) {
	_ = h.Close(ctx, releases, nil)
	return h.Open(ctx, path, input, parent)
}

func (h *screenHost) Close(_ context.Context, releases []curtain.Instance, _ curtain.Instance) error {
	for _, inst := range releases {
		if s, ok := inst.(*screenInstance); ok {
			s.active.Store(false)
		}
	}
	return nil
}
