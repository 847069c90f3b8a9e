package curtain

import "sync"

// ResultHandler is implemented by instances that report a result of type R.
type ResultHandler[R any] interface {
	Result() (R, error)
}

// AnyResultHandler is implemented by instances that report a result of a type
// only known to the caller. The value is converted to the expected type when read.
type AnyResultHandler interface {
	ResultAny() (any, error)
}

// ResultReporter is implemented by instances that own a ResultSlot. Setting
// the slot requests the close of the request that opened the instance.
type ResultReporter[R any] interface {
	ResultSlot() *ResultSlot[R]
}

// ResultSlot holds a result that can be set once. The zero value is ready to use.
type ResultSlot[R any] struct {
	mu     sync.Mutex
	set    bool
	result R
	err    error
	closer func()
}

// Set stores result and requests close of the owning request.
// Returns an AlreadyClosedError if a result or error was already set.
func (s *ResultSlot[R]) Set(result R) error {
	return s.store(result, nil)
}

// SetError stores err as the outcome and requests close of the owning request.
// Returns an AlreadyClosedError if a result or error was already set.
func (s *ResultSlot[R]) SetError(err error) error {
	var zero R
	return s.store(zero, err)
}

func (s *ResultSlot[R]) store(result R, err error) error {
	s.mu.Lock()
	if s.set {
		s.mu.Unlock()
		return &AlreadyClosedError{}
	}
	s.set = true
	s.result = result
	s.err = err
	closer := s.closer
	s.mu.Unlock()

	if closer != nil {
		closer()
	}
	return nil
}

// Result returns the stored result, the stored error, or ErrResultUnset.
func (s *ResultSlot[R]) Result() (R, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.set {
		var zero R
		return zero, ErrResultUnset
	}
	return s.result, s.err
}

// IsSet reports whether a result or error has been stored.
func (s *ResultSlot[R]) IsSet() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.set
}

// Bind attaches the close request of the owning request. If the slot was set
// before binding, closer runs immediately.
func (s *ResultSlot[R]) Bind(closer func()) {
	s.mu.Lock()
	s.closer = closer
	set := s.set
	s.mu.Unlock()

	if set && closer != nil {
		closer()
	}
}
