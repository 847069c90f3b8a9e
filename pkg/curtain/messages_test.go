package curtain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/BrandonKowalski/curtain/pkg/curtain/constants"
	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"
)

func TestMessage(t *testing.T) {
	SetLanguage(language.English)
	t.Cleanup(func() { SetLanguage(language.English) })

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"aborted", &AbortedError{Path: "home"}, "The request for home was cancelled before it finished."},
		{"already closed", &AlreadyClosedError{}, "This screen has already been closed."},
		{"handler not found", &HandlerNotFoundError{Path: "home", Want: "int"}, "The screen home does not report a result."},
		{"not found", &NotFoundError{ID: "x"}, "The screen could not be found in the stack."},
		{"stack empty", ErrStackEmpty, "There are no screens to close."},
		{
			"path not found",
			NewLoadError(constants.OperationOpen, "home", fmt.Errorf("%w: home", ErrPathNotFound)),
			"No screen is registered at home.",
		},
		{
			"load failed",
			NewLoadError(constants.OperationChange, "home", errors.New("boom")),
			"The screen home failed to change.",
		},
		{"result unset", ErrResultUnset, "The screen closed without a result."},
		{"unknown", errors.New("boom"), "Something went wrong."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Message(tt.err))
		})
	}
}

func TestMessageJapanese(t *testing.T) {
	SetLanguage(language.Japanese)
	t.Cleanup(func() { SetLanguage(language.English) })

	assert.Equal(t, "指定のUIが見つかりませんでした。", Message(&NotFoundError{ID: "x"}))
}
