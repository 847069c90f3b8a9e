package curtain

import (
	"errors"

	"github.com/BrandonKowalski/curtain/pkg/curtain/internal"
	"golang.org/x/text/language"
)

// SetLanguage selects the language Message renders in. English and Japanese
// ship with the package; other tags fall back to English.
func SetLanguage(tag language.Tag) {
	internal.SetLanguage(tag)
}

// Languages returns the tags Message has translations for.
func Languages() []language.Tag {
	return internal.Languages()
}

// Message renders a user-facing description of err in the selected language.
// It returns an empty string for a nil error.
func Message(err error) string {
	if err == nil {
		return ""
	}

	var (
		loadErr    *LoadError
		abortErr   *AbortedError
		handlerErr *HandlerNotFoundError
		typeErr    *ResultTypeError
	)

	switch {
	case errors.As(err, &abortErr):
		return internal.Localize("Aborted", map[string]any{"Path": abortErr.Path})
	case errors.As(err, &handlerErr):
		return internal.Localize("HandlerNotFound", map[string]any{"Path": handlerErr.Path})
	case errors.As(err, &typeErr):
		return internal.Localize("ResultType", map[string]any{"Path": typeErr.Path})
	case errors.Is(err, ErrPathNotFound):
		path := ""
		if errors.As(err, &loadErr) {
			path = loadErr.Path
		}
		return internal.Localize("PathNotFound", map[string]any{"Path": path})
	case errors.As(err, &loadErr):
		return internal.Localize("LoadFailed", map[string]any{"Path": loadErr.Path, "Op": loadErr.Op.GetName()})
	case errors.Is(err, ErrAlreadyClosed):
		return internal.Localize("AlreadyClosed", nil)
	case errors.Is(err, ErrNotFound):
		return internal.Localize("NotFound", nil)
	case errors.Is(err, ErrStackEmpty):
		return internal.Localize("StackEmpty", nil)
	case errors.Is(err, ErrResultUnset):
		return internal.Localize("ResultUnset", nil)
	case errors.Is(err, ErrAborted):
		return internal.Localize("Aborted", map[string]any{"Path": ""})
	default:
		return internal.Localize("Unknown", nil)
	}
}
