package curtain

// ActiveSource is implemented by controllers that can list the instances
// currently active, front first.
type ActiveSource interface {
	Active() []Instance
}

// Execute runs action on every active instance of type T.
// Returns true if at least one instance matched.
func Execute[T any](src ActiveSource, action func(T)) bool {
	ret := false
	for _, inst := range src.Active() {
		if target, ok := inst.(T); ok {
			ret = true
			action(target)
		}
	}
	return ret
}

// ExecuteAnyOne runs action on active instances of type T, front first, until
// one of them returns true.
func ExecuteAnyOne[T any](src ActiveSource, action func(T) bool) bool {
	for _, inst := range src.Active() {
		if target, ok := inst.(T); ok && action(target) {
			return true
		}
	}
	return false
}

// ExecuteBack offers a back action to active BackHandlers, front first.
func ExecuteBack(src ActiveSource) bool {
	return ExecuteAnyOne(src, func(h BackHandler) bool {
		return h.TryBack()
	})
}
