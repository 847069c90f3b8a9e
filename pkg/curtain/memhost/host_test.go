package memhost

import (
	"context"
	"errors"
	"testing"

	"github.com/BrandonKowalski/curtain/pkg/curtain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	*Screen
	calls []string

	createErr error
	closeErr  error
}

func (r *recorder) OnCreated(_ context.Context, param any) error {
	r.calls = append(r.calls, "created")
	return r.createErr
}

func (r *recorder) OnFront(_ context.Context, open bool) {
	if open {
		r.calls = append(r.calls, "front open")
	} else {
		r.calls = append(r.calls, "front return")
	}
}

func (r *recorder) OnBehind(context.Context) bool {
	r.calls = append(r.calls, "behind")
	return true
}

func (r *recorder) OnClose(context.Context) error {
	r.calls = append(r.calls, "close")
	return r.closeErr
}

func TestHostOpen(t *testing.T) {
	ctx := context.Background()

	t.Run("Unknown paths match ErrPathNotFound", func(t *testing.T) {
		h := New[any](Options{})

		_, err := h.Open(ctx, "nowhere", nil, nil)
		assert.ErrorIs(t, err, curtain.ErrPathNotFound)
		assert.Empty(t, h.Journal().Events())
	})

	t.Run("Opened screens are active", func(t *testing.T) {
		h := New[any](Options{})
		h.RegisterScreen("home")

		inst, err := h.Open(ctx, "home", "param", nil)
		require.NoError(t, err)

		screen := inst.(*Screen)
		assert.True(t, screen.IsActive())
		assert.Equal(t, "home", screen.Path())
		assert.Equal(t, "param", screen.Param())
		assert.NotEmpty(t, screen.ID())
		assert.Equal(t, []string{"open home", "front home"}, h.Journal().Events())
	})

	t.Run("Parent goes behind and may deactivate", func(t *testing.T) {
		h := New[any](Options{})
		parent := &recorder{Screen: NewScreen("parent", nil)}
		child := &recorder{Screen: NewScreen("child", nil)}
		h.Register("parent", func(string, any) (curtain.Instance, error) { return parent, nil })
		h.Register("child", func(string, any) (curtain.Instance, error) { return child, nil })

		_, err := h.Open(ctx, "parent", nil, nil)
		require.NoError(t, err)
		_, err = h.Open(ctx, "child", nil, parent)
		require.NoError(t, err)

		assert.False(t, parent.IsActive())
		assert.True(t, child.IsActive())
		assert.Equal(t, []string{"created", "front open", "behind"}, parent.calls)
		assert.Equal(t, []string{"created", "front open"}, child.calls)
		assert.Equal(t, 1, h.Journal().Count("behind parent"))
	})

	t.Run("Hooks can fail an open", func(t *testing.T) {
		h := New[any](Options{})
		h.RegisterScreen("home")
		boom := errors.New("boom")
		h.SetHooks(Hooks{BeforeOpen: func(context.Context, string) error { return boom }})

		_, err := h.Open(ctx, "home", nil, nil)
		assert.ErrorIs(t, err, boom)
	})

	t.Run("Factory errors are returned", func(t *testing.T) {
		h := New[any](Options{})
		boom := errors.New("boom")
		h.Register("bad", func(string, any) (curtain.Instance, error) { return nil, boom })

		_, err := h.Open(ctx, "bad", nil, nil)
		assert.ErrorIs(t, err, boom)
	})

	t.Run("A failing OnCreated closes the screen and restores the parent", func(t *testing.T) {
		h := New[any](Options{})
		boom := errors.New("boom")
		parent := &recorder{Screen: NewScreen("parent", nil)}
		child := &recorder{Screen: NewScreen("child", nil), createErr: boom}
		h.Register("parent", func(string, any) (curtain.Instance, error) { return parent, nil })
		h.Register("child", func(string, any) (curtain.Instance, error) { return child, nil })

		_, err := h.Open(ctx, "parent", nil, nil)
		require.NoError(t, err)

		inst, err := h.Open(ctx, "child", nil, parent)
		assert.ErrorIs(t, err, boom)
		assert.Nil(t, inst)
		assert.False(t, child.IsActive())
		assert.True(t, parent.IsActive())
		assert.Equal(t, []string{"created", "close"}, child.calls)
		assert.Equal(t, "front return", parent.calls[len(parent.calls)-1])
		assert.Equal(t, 1, h.Journal().Count("close child"))
	})
}

func TestHostChange(t *testing.T) {
	ctx := context.Background()
	h := New[any](Options{})
	h.RegisterScreen("a", "b")

	a, err := h.Open(ctx, "a", nil, nil)
	require.NoError(t, err)

	b, err := h.Change(ctx, "b", nil, nil, []curtain.Instance{a})
	require.NoError(t, err)

	assert.False(t, a.IsActive())
	assert.True(t, b.IsActive())
	assert.Equal(t, 1, h.Journal().Count("close a"))
	assert.Equal(t, 1, h.Journal().Count("front b"))

	t.Run("Releases are closed even when the new screen fails", func(t *testing.T) {
		_, err := h.Change(ctx, "missing", nil, nil, []curtain.Instance{b})
		assert.ErrorIs(t, err, curtain.ErrPathNotFound)
		assert.False(t, b.IsActive())
		assert.Equal(t, 1, h.Journal().Count("close b"))
	})

	t.Run("A failing OnCreated fails the change after closing the releases", func(t *testing.T) {
		h := New[any](Options{})
		h.RegisterScreen("a")
		boom := errors.New("boom")
		bad := &recorder{Screen: NewScreen("bad", nil), createErr: boom}
		h.Register("bad", func(string, any) (curtain.Instance, error) { return bad, nil })

		a, err := h.Open(ctx, "a", nil, nil)
		require.NoError(t, err)

		_, err = h.Change(ctx, "bad", nil, nil, []curtain.Instance{a})
		assert.ErrorIs(t, err, boom)
		assert.False(t, a.IsActive())
		assert.False(t, bad.IsActive())
		assert.Equal(t, 1, h.Journal().Count("close a"))
		assert.Equal(t, 1, h.Journal().Count("close bad"))
	})
}

func TestHostClose(t *testing.T) {
	ctx := context.Background()
	h := New[any](Options{})
	parent := &recorder{Screen: NewScreen("parent", nil)}
	h.Register("parent", func(string, any) (curtain.Instance, error) { return parent, nil })
	h.RegisterScreen("child")

	_, err := h.Open(ctx, "parent", nil, nil)
	require.NoError(t, err)
	child, err := h.Open(ctx, "child", nil, parent)
	require.NoError(t, err)
	require.False(t, parent.IsActive())

	require.NoError(t, h.Close(ctx, []curtain.Instance{child}, parent))

	assert.True(t, parent.IsActive())
	assert.False(t, child.IsActive())
	assert.Equal(t, "front return", parent.calls[len(parent.calls)-1])

	t.Run("Hooks can fail a close", func(t *testing.T) {
		boom := errors.New("boom")
		h.SetHooks(Hooks{BeforeClose: func(context.Context, []curtain.Instance) error { return boom }})

		assert.ErrorIs(t, h.Close(ctx, []curtain.Instance{parent}, nil), boom)
		assert.True(t, parent.IsActive())
		h.SetHooks(Hooks{})
	})

	t.Run("A failing OnClose still releases every screen", func(t *testing.T) {
		boom := errors.New("boom")
		stuck := &recorder{Screen: NewScreen("stuck", nil), closeErr: boom}
		h.Register("stuck", func(string, any) (curtain.Instance, error) { return stuck, nil })
		h.RegisterScreen("other")

		s1, err := h.Open(ctx, "stuck", nil, nil)
		require.NoError(t, err)
		s2, err := h.Open(ctx, "other", nil, nil)
		require.NoError(t, err)

		err = h.Close(ctx, []curtain.Instance{s2, s1}, nil)
		assert.ErrorIs(t, err, boom)
		assert.False(t, s1.IsActive())
		assert.False(t, s2.IsActive())
		assert.Equal(t, 1, h.Journal().Count("close stuck"))
		assert.Equal(t, 1, h.Journal().Count("close other"))
	})
}

func TestScreen(t *testing.T) {
	t.Run("Back is consumed a set number of times", func(t *testing.T) {
		s := NewScreen("home", nil)
		assert.False(t, s.TryBack())

		s.ConsumeBack(2)
		assert.True(t, s.TryBack())
		assert.True(t, s.TryBack())
		assert.False(t, s.TryBack())
	})

	t.Run("Result can be set once", func(t *testing.T) {
		s := NewScreen("home", nil)
		require.NoError(t, s.SetResult("ok"))
		assert.ErrorIs(t, s.SetResult("again"), curtain.ErrAlreadyClosed)

		v, err := s.ResultSlot().Result()
		require.NoError(t, err)
		assert.Equal(t, "ok", v)
	})

	t.Run("HideBehind controls OnBehind", func(t *testing.T) {
		s := NewScreen("home", nil)
		assert.False(t, s.OnBehind(context.Background()))
		s.HideBehind(true)
		assert.True(t, s.OnBehind(context.Background()))
	})
}

func TestJournal(t *testing.T) {
	var j Journal
	j.Record("open %s", "a")
	j.Record("close %s", "a")

	assert.Equal(t, "open a\nclose a", j.String())
	assert.Equal(t, 1, j.Count("open a"))

	events := j.Events()
	events[0] = "changed"
	assert.Equal(t, "open a", j.Events()[0])

	j.Reset()
	assert.Empty(t, j.Events())
}
