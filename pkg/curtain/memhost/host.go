package memhost

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/BrandonKowalski/curtain/pkg/curtain"
	"github.com/BrandonKowalski/curtain/pkg/curtain/internal"
	"golang.org/x/sync/errgroup"
)

// Factory builds the instance for path.
type Factory[P any] func(path string, param P) (curtain.Instance, error)

// Hooks run before the host does any work for an operation. A hook may block
// to simulate a slow transition; a non-nil error fails the operation.
type Hooks struct {
	BeforeOpen  func(ctx context.Context, path string) error
	BeforeClose func(ctx context.Context, releases []curtain.Instance) error
}

type Options struct {
	Logger *slog.Logger // Defaults to the curtain internal logger
}

// Host is an in-memory curtain.Host. It is safe for concurrent use.
type Host[P any] struct {
	logger  *slog.Logger
	journal *Journal

	mu        sync.RWMutex
	factories map[string]Factory[P]
	hooks     Hooks
}

func New[P any](options Options) *Host[P] {
	if options.Logger == nil {
		options.Logger = internal.GetInternalLogger()
	}
	return &Host[P]{
		logger:    options.Logger,
		journal:   &Journal{},
		factories: make(map[string]Factory[P]),
	}
}

// Register installs the factory for path, replacing any previous one.
func (h *Host[P]) Register(path string, factory Factory[P]) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.factories[path] = factory
}

// RegisterScreen installs a factory producing a *Screen for each path.
func (h *Host[P]) RegisterScreen(paths ...string) {
	for _, path := range paths {
		h.Register(path, func(path string, param P) (curtain.Instance, error) {
			return NewScreen(path, param), nil
		})
	}
}

func (h *Host[P]) SetHooks(hooks Hooks) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.hooks = hooks
}

func (h *Host[P]) Journal() *Journal {
	return h.journal
}

func (h *Host[P]) Open(ctx context.Context, path string, param P, parent curtain.Instance) (curtain.Instance, error) {
	inst, err := h.create(ctx, path, param)
	if err != nil {
		return nil, err
	}

	g, gctx := errgroup.WithContext(ctx)
	if parent != nil {
		g.Go(func() error {
			h.behind(gctx, parent)
			return nil
		})
	}
	g.Go(func() error {
		return h.bringUp(gctx, inst, param)
	})
	if err := g.Wait(); err != nil {
		h.logger.Debug("Screen failed to come up", "path", path, "error", err)
		_ = h.teardown(ctx, inst)
		if parent != nil {
			h.promote(ctx, parent)
		}
		return nil, err
	}
	return inst, nil
}

func (h *Host[P]) Change(ctx context.Context, path string, param P, parent curtain.Instance, releases []curtain.Instance) (curtain.Instance, error) {
	inst, err := h.create(ctx, path, param)
	if err != nil {
		// The controller has already let go of releases.
		if cerr := h.teardownAll(ctx, releases); cerr != nil {
			err = errors.Join(err, cerr)
		}
		return nil, err
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, release := range releases {
		g.Go(func() error {
			return h.teardown(gctx, release)
		})
	}
	g.Go(func() error {
		return h.bringUp(gctx, inst, param)
	})
	if err := g.Wait(); err != nil {
		h.logger.Debug("Change failed", "path", path, "error", err)
		_ = h.teardown(ctx, inst)
		return nil, err
	}
	return inst, nil
}

func (h *Host[P]) Close(ctx context.Context, releases []curtain.Instance, front curtain.Instance) error {
	h.mu.RLock()
	before := h.hooks.BeforeClose
	h.mu.RUnlock()

	if before != nil {
		if err := before(ctx, releases); err != nil {
			h.logger.Debug("Close hook failed", "releases", len(releases), "error", err)
			return err
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, release := range releases {
		g.Go(func() error {
			return h.teardown(gctx, release)
		})
	}
	if front != nil {
		g.Go(func() error {
			h.promote(gctx, front)
			return nil
		})
	}
	return g.Wait()
}

func (h *Host[P]) create(ctx context.Context, path string, param P) (curtain.Instance, error) {
	h.mu.RLock()
	factory, ok := h.factories[path]
	before := h.hooks.BeforeOpen
	h.mu.RUnlock()

	if before != nil {
		if err := before(ctx, path); err != nil {
			h.logger.Debug("Open hook failed", "path", path, "error", err)
			return nil, err
		}
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", curtain.ErrPathNotFound, path)
	}

	inst, err := factory(path, param)
	if err != nil {
		return nil, err
	}
	h.journal.Record("open %s", label(inst))
	return inst, nil
}

func (h *Host[P]) bringUp(ctx context.Context, inst curtain.Instance, param P) error {
	if lc, ok := inst.(Lifecycle); ok {
		if err := lc.OnCreated(ctx, param); err != nil {
			return fmt.Errorf("create %s: %w", label(inst), err)
		}
		lc.OnFront(ctx, true)
	}
	setActive(inst, true)
	h.journal.Record("front %s", label(inst))
	return nil
}

func (h *Host[P]) behind(ctx context.Context, inst curtain.Instance) {
	if lc, ok := inst.(Lifecycle); ok && lc.OnBehind(ctx) {
		setActive(inst, false)
	}
	h.journal.Record("behind %s", label(inst))
}

func (h *Host[P]) promote(ctx context.Context, inst curtain.Instance) {
	if lc, ok := inst.(Lifecycle); ok {
		lc.OnFront(ctx, false)
	}
	setActive(inst, true)
	h.journal.Record("front %s", label(inst))
}

// teardown always releases inst; the error reports a failing OnClose.
func (h *Host[P]) teardown(ctx context.Context, inst curtain.Instance) error {
	if inst == nil {
		return nil
	}
	setActive(inst, false)
	var err error
	if lc, ok := inst.(Lifecycle); ok {
		if err = lc.OnClose(ctx); err != nil {
			err = fmt.Errorf("close %s: %w", label(inst), err)
		}
	}
	h.journal.Record("close %s", label(inst))
	return err
}

func (h *Host[P]) teardownAll(ctx context.Context, releases []curtain.Instance) error {
	var errs []error
	for _, release := range releases {
		errs = append(errs, h.teardown(ctx, release))
	}
	return errors.Join(errs...)
}

func setActive(inst curtain.Instance, active bool) {
	if a, ok := inst.(Activatable); ok {
		a.SetActive(active)
	}
}

func label(inst curtain.Instance) string {
	if s, ok := inst.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%T", inst)
}
