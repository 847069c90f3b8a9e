// Package memhost is an in-memory curtain.Host.
//
// Screens are produced by factories registered per path. The host runs the
// lifecycle of every instance that implements Lifecycle, toggles activity on
// instances that implement Activatable, and records what it did in a Journal.
// Hooks let callers delay or fail individual operations, which is what the
// controller tests and the curtain CLI use it for.
//
//	h := memhost.New[any](memhost.Options{})
//	h.RegisterScreen("screens/home")
//	h.RegisterScreen("screens/settings")
//
//	s := stack.New[any](h, stack.Options{})
package memhost
