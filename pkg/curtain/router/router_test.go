package router

import (
	"context"
	"testing"
	"time"

	"github.com/BrandonKowalski/curtain/pkg/curtain/queue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistory(t *testing.T) {
	h := NewHistory()
	assert.True(t, h.IsEmpty())
	assert.Nil(t, h.Pop())
	assert.Nil(t, h.Peek())

	h.Push(1, "one", nil)
	h.Push(2, "two", 20)
	h.Push(3, "three", nil)
	assert.Equal(t, 3, h.Len())
	assert.Equal(t, Screen(3), h.Peek().Screen)

	entry := h.Pop()
	require.NotNil(t, entry)
	assert.Equal(t, Screen(3), entry.Screen)
	assert.Equal(t, "three", entry.Input)

	t.Run("Unwind stops at the most recent match", func(t *testing.T) {
		h.Push(3, "again", nil)
		entry := h.Unwind(2)
		require.NotNil(t, entry)
		assert.Equal(t, 20, entry.Resume)
		assert.Equal(t, 1, h.Len())
	})

	t.Run("Unwind without a match changes nothing", func(t *testing.T) {
		assert.Nil(t, h.Unwind(9))
		assert.Equal(t, 1, h.Len())
	})

	h.Clear()
	assert.True(t, h.IsEmpty())
}

func TestRunErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("No transition function", func(t *testing.T) {
		r := New(queue.Options{})
		r.Register(0, func(any) (any, error) { return nil, nil })

		err := r.Run(ctx, 0, nil)
		assert.EqualError(t, err, "router: no transition function set")
	})

	t.Run("Unregistered screen", func(t *testing.T) {
		r := New(queue.Options{})
		r.OnTransition(func(Screen, any, *History) (Screen, any) { return ScreenExit, nil })

		err := r.Run(ctx, 5, nil)
		assert.EqualError(t, err, "router: screen 5 not registered")
	})

	t.Run("Cancelled context", func(t *testing.T) {
		r := New(queue.Options{})
		r.Register(0, func(any) (any, error) { return nil, nil })
		r.OnTransition(func(Screen, any, *History) (Screen, any) { return 0, nil })

		ctx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
		defer cancel()

		err := r.Run(ctx, 0, nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}

func TestScreenPaths(t *testing.T) {
	screen, ok := screenFor(pathFor(42))
	require.True(t, ok)
	assert.Equal(t, Screen(42), screen)

	_, ok = screenFor("elsewhere/1")
	assert.False(t, ok)
	_, ok = screenFor(pathPrefix + "x")
	assert.False(t, ok)
}
