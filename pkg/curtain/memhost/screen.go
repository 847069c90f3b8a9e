package memhost

import (
	"context"

	"github.com/BrandonKowalski/curtain/pkg/curtain"
	"github.com/google/uuid"
	"go.uber.org/atomic"
)

// Lifecycle is implemented by instances that want to follow their own
// transitions. Every method is called from the host goroutine running the
// transition and may block to play it out.
type Lifecycle interface {
	// OnCreated runs once, right after the instance is built. An error fails
	// the open and the instance is closed again.
	OnCreated(ctx context.Context, param any) error

	// OnFront runs when the instance becomes the front. open is true on the
	// initial open and false when it returns after the screens above it close.
	OnFront(ctx context.Context, open bool)

	// OnBehind runs when another screen opens on top. Returning true
	// deactivates the instance until it comes back to the front.
	OnBehind(ctx context.Context) bool

	// OnClose runs once, when the instance is released. The instance is
	// released even if it returns an error; the error fails the operation.
	OnClose(ctx context.Context) error
}

// Activatable is implemented by instances whose activity is driven by the host.
type Activatable interface {
	SetActive(active bool)
}

// Screen is the instance produced by RegisterScreen. It reports a result of
// any type through its slot. Its lifecycle hooks do nothing.
type Screen struct {
	id    string
	path  string
	param any

	active       atomic.Bool
	hiddenBehind atomic.Bool
	backs        atomic.Int32

	results curtain.ResultSlot[any]
}

func NewScreen(path string, param any) *Screen {
	return &Screen{
		id:    uuid.NewString(),
		path:  path,
		param: param,
	}
}

func (s *Screen) ID() string {
	return s.id
}

func (s *Screen) Path() string {
	return s.path
}

func (s *Screen) Param() any {
	return s.param
}

// String returns the screen's path, which is how it appears in the journal.
func (s *Screen) String() string {
	return s.path
}

func (s *Screen) IsActive() bool {
	return s.active.Load()
}

func (s *Screen) SetActive(active bool) {
	s.active.Store(active)
}

// HideBehind makes the screen go inactive while another screen is on top of it.
func (s *Screen) HideBehind(hide bool) {
	s.hiddenBehind.Store(hide)
}

// ConsumeBack makes the next n back actions stop at this screen.
func (s *Screen) ConsumeBack(n int) {
	s.backs.Store(int32(n))
}

func (s *Screen) TryBack() bool {
	for {
		n := s.backs.Load()
		if n <= 0 {
			return false
		}
		if s.backs.CompareAndSwap(n, n-1) {
			return true
		}
	}
}

func (s *Screen) ResultSlot() *curtain.ResultSlot[any] {
	return &s.results
}

// SetResult stores v as the screen's result, closing the request that opened it.
func (s *Screen) SetResult(v any) error {
	return s.results.Set(v)
}

func (s *Screen) OnCreated(context.Context, any) error { return nil }

func (s *Screen) OnFront(context.Context, bool) {}

func (s *Screen) OnBehind(context.Context) bool {
	return s.hiddenBehind.Load()
}

func (s *Screen) OnClose(context.Context) error { return nil }
