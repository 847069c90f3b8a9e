package curtain

import "context"

// Instance is a live screen produced by a Host. The engine compares instances
// by identity, so implementations are normally pointers.
type Instance interface {
	IsActive() bool
}

// Host performs the actual work behind every transition: loading the screen
// behind a path, playing transitions, and running lifecycle hooks. The engine
// calls it from a single goroutine per controller and always waits for a call
// to return before making the next one.
type Host[P any] interface {
	// Open creates the screen at path. parent is the instance it is opened on
	// top of, or nil. An unknown path must produce an error matching ErrPathNotFound.
	Open(ctx context.Context, path string, param P, parent Instance) (Instance, error)

	// Change opens the screen at path while closing releases as one
	// coordinated transition.
	Change(ctx context.Context, path string, param P, parent Instance, releases []Instance) (Instance, error)

	// Close closes releases. When front is non-nil it is promoted to the front
	// as part of the same transition.
	Close(ctx context.Context, releases []Instance, front Instance) error
}

// BackHandler is implemented by instances that can consume a back action.
// TryBack returns true when the action was handled.
type BackHandler interface {
	TryBack() bool
}
