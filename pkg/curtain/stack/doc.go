// Package stack keeps a navigation stack of live screens.
//
// Push opens a screen on top of the current one, which stays alive behind it.
// Switch replaces the top screen. Pop closes screens from the top, and an
// Entry's Pop closes that screen together with everything above it, however
// deep it is.
//
// Every mutation is handed to an internal command processor and executed one
// at a time in submission order, so no operation ever sees the stack halfway
// through another. All methods return immediately with a handle to wait on.
//
//	s := stack.New[any](host, stack.Options{Name: "main"})
//
//	home := s.Push("screens/home", nil)
//	detail := s.Push("screens/detail", item)
//
//	if _, err := detail.Wait(ctx); err != nil {
//	    return err
//	}
//
//	// Back to an empty stack, closing detail and home together.
//	err := home.Pop().Wait(ctx)
//
// Unlike the queue package, a failure only affects the operation that caused
// it: the error is reported on that handle and later operations run normally.
package stack
