package internal

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuard(t *testing.T) {
	t.Run("Errors pass through", func(t *testing.T) {
		boom := errors.New("boom")
		assert.Same(t, boom, Guard(func() error { return boom }))
		assert.NoError(t, Guard(func() error { return nil }))
	})

	t.Run("Panics become errors", func(t *testing.T) {
		err := Guard(func() error { panic("kaput") })

		var pe *PanicError
		require.ErrorAs(t, err, &pe)
		assert.Equal(t, "kaput", pe.Value)
		assert.NotEmpty(t, pe.Stack)
		assert.Equal(t, "panic: kaput", err.Error())
	})
}
