// Package queue shows screens one at a time, in the order they were requested.
//
// A Queue holds at most one current screen and a FIFO backlog. Enqueue returns
// immediately with a Request handle; the queue's run loop opens the screen when
// everything ahead of it has been closed. When the current screen is asked to
// close while something is waiting, the close is folded into the next open as
// a single Host.Change so the two screens can cross-fade instead of leaving a
// gap.
//
// # Basic Usage
//
//	q := queue.New[any](host, queue.Options{Name: "dialogs"})
//
//	// Fire and forget; the handle can still be used to close it early.
//	notice := q.Enqueue(ctx, "dialogs/notice", nil)
//
//	// Ask a question and wait for the typed answer.
//	confirm := queue.Query[bool](ctx, q, "dialogs/confirm", nil)
//	ok, err := confirm.Result(ctx)
//
// # Cancellation
//
// The context given to Enqueue or Query is the request's cancel signal. If it
// is cancelled while the request is still waiting, the request is aborted and
// never opened. If it is cancelled while the screen is showing, the screen is
// closed normally. A host call that is already running is always allowed to
// finish.
//
// # Failures
//
// The queue is fail-stop. When the host fails to open, change, or close, the
// affected requests fail with a *curtain.LoadError and the queue stops
// processing its backlog. New requests are still accepted. RepairError(false)
// resumes where it stopped; RepairError(true) aborts everything waiting first.
//
// # Results
//
// A query binds to its screen when the screen opens. The screen may implement
// curtain.ResultHandler[R], curtain.AnyResultHandler, or
// curtain.ResultReporter[R]; the first one it implements is used. Setting a
// ResultSlot closes the screen by itself.
package queue
