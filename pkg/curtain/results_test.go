package curtain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResultSlot(t *testing.T) {
	t.Run("Unset slot reports ErrResultUnset", func(t *testing.T) {
		var slot ResultSlot[int]

		_, err := slot.Result()
		assert.ErrorIs(t, err, ErrResultUnset)
		assert.False(t, slot.IsSet())
	})

	t.Run("Set calls the closer once", func(t *testing.T) {
		var slot ResultSlot[int]
		closes := 0
		slot.Bind(func() { closes++ })

		require.NoError(t, slot.Set(42))
		assert.ErrorIs(t, slot.Set(43), ErrAlreadyClosed)
		assert.ErrorIs(t, slot.SetError(errors.New("late")), ErrAlreadyClosed)

		v, err := slot.Result()
		require.NoError(t, err)
		assert.Equal(t, 42, v)
		assert.Equal(t, 1, closes)
	})

	t.Run("SetError is the result", func(t *testing.T) {
		var slot ResultSlot[string]
		boom := errors.New("boom")

		require.NoError(t, slot.SetError(boom))

		_, err := slot.Result()
		assert.ErrorIs(t, err, boom)
	})

	t.Run("Binding after set closes immediately", func(t *testing.T) {
		var slot ResultSlot[int]
		require.NoError(t, slot.Set(1))

		closed := false
		slot.Bind(func() { closed = true })
		assert.True(t, closed)
	})
}
