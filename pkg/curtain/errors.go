package curtain

import (
	"context"
	"errors"
	"fmt"

	"github.com/BrandonKowalski/curtain/pkg/curtain/constants"
)

// Sentinel errors for common conditions. Typed errors below match these
// through errors.Is.
var (
	// ErrAborted indicates a request was cancelled or discarded before it finished.
	// This is a normal flow control error for the caller that cancelled.
	ErrAborted = errors.New("curtain: request aborted")

	// ErrAlreadyClosed indicates a result was set twice or a finished request was closed again.
	ErrAlreadyClosed = errors.New("curtain: already closed")

	// ErrHandlerNotFound indicates a result was requested from an instance that reports none.
	ErrHandlerNotFound = errors.New("curtain: result handler not found")

	// ErrNotFound indicates a pop target is no longer on the stack.
	ErrNotFound = errors.New("curtain: instance not found")

	// ErrPathNotFound is returned by hosts when a path cannot be resolved to a screen.
	ErrPathNotFound = errors.New("curtain: path not found")

	// ErrStackEmpty indicates a pop was requested on an empty stack.
	ErrStackEmpty = errors.New("curtain: stack is empty")

	// ErrResultUnset indicates a result slot was read before anything was set.
	ErrResultUnset = errors.New("curtain: result not set")
)

// LoadError wraps a failure raised by a Host during open, change, or close.
type LoadError struct {
	Op   constants.Operation // Host operation that failed
	Path string              // Path being opened; empty for close
	Err  error               // Underlying error
}

func (e *LoadError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("curtain: %s %s: %v", e.Op.GetName(), e.Path, e.Err)
	}
	return fmt.Sprintf("curtain: %s: %v", e.Op.GetName(), e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// NewLoadError creates a new load error.
func NewLoadError(op constants.Operation, path string, err error) *LoadError {
	return &LoadError{Op: op, Path: path, Err: err}
}

// IsLoadError checks if an error was raised by a Host.
func IsLoadError(err error) bool {
	var loadErr *LoadError
	return errors.As(err, &loadErr)
}

// AbortedError reports a request that never opened, or was discarded, because
// of a cancellation.
type AbortedError struct {
	Path  string
	Cause error // context error or the reason for discarding; may be nil
}

func (e *AbortedError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("curtain: request for %s aborted: %v", e.Path, e.Cause)
	}
	return fmt.Sprintf("curtain: request for %s aborted", e.Path)
}

func (e *AbortedError) Unwrap() []error {
	if e.Cause != nil {
		return []error{ErrAborted, e.Cause}
	}
	return []error{ErrAborted}
}

// AlreadyClosedError reports a second close or result assignment.
type AlreadyClosedError struct {
	ID string // Request id, when known
}

func (e *AlreadyClosedError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("curtain: request %s already closed", e.ID)
	}
	return "curtain: already closed"
}

func (e *AlreadyClosedError) Is(target error) bool {
	return target == ErrAlreadyClosed
}

// HandlerNotFoundError reports a query whose instance exposes no result capability.
type HandlerNotFoundError struct {
	Path string
	Want string // Expected result type
}

func (e *HandlerNotFoundError) Error() string {
	return fmt.Sprintf("curtain: %s has no result handler for %s", e.Path, e.Want)
}

func (e *HandlerNotFoundError) Is(target error) bool {
	return target == ErrHandlerNotFound
}

// NotFoundError reports a pop-by-reference whose target is not on the stack.
type NotFoundError struct {
	ID string // Stack entry id
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("curtain: stack entry %s not found", e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// ResultTypeError reports a generic result handler whose value does not have
// the type the query expects.
type ResultTypeError struct {
	Path string
	Want string
	Got  any
}

func (e *ResultTypeError) Error() string {
	return fmt.Sprintf("curtain: %s returned %T, want %s", e.Path, e.Got, e.Want)
}

// IsCancelled checks if an error indicates cancellation, either an aborted
// request or a cancelled wait.
func IsCancelled(err error) bool {
	return errors.Is(err, ErrAborted) || errors.Is(err, context.Canceled)
}
