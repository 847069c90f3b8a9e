package curtain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeSource []Instance

func (f fakeSource) Active() []Instance {
	return f
}

type backScreen struct {
	name     string
	consumes bool
	tried    *[]string
}

func (b *backScreen) IsActive() bool {
	return true
}

func (b *backScreen) TryBack() bool {
	*b.tried = append(*b.tried, b.name)
	return b.consumes
}

type plainScreen struct{}

func (plainScreen) IsActive() bool {
	return true
}

func TestExecuteBack(t *testing.T) {
	t.Run("Stops at the first screen that handles it", func(t *testing.T) {
		var tried []string
		src := fakeSource{
			&backScreen{name: "top", tried: &tried},
			plainScreen{},
			&backScreen{name: "middle", consumes: true, tried: &tried},
			&backScreen{name: "bottom", consumes: true, tried: &tried},
		}

		assert.True(t, ExecuteBack(src))
		assert.Equal(t, []string{"top", "middle"}, tried)
	})

	t.Run("Reports false when nothing handles it", func(t *testing.T) {
		var tried []string
		assert.False(t, ExecuteBack(fakeSource{&backScreen{name: "only", tried: &tried}}))
		assert.False(t, ExecuteBack(fakeSource{}))
	})
}

func TestExecute(t *testing.T) {
	var tried []string
	src := fakeSource{
		&backScreen{name: "a", tried: &tried},
		plainScreen{},
		&backScreen{name: "b", tried: &tried},
	}

	count := 0
	assert.True(t, Execute(src, func(h BackHandler) {
		count++
	}))
	assert.Equal(t, 2, count)

	assert.False(t, Execute(fakeSource{plainScreen{}}, func(h BackHandler) {}))
}
