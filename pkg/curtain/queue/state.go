package queue

// State is the lifecycle position of a queued request. States only move
// forward; Closed, Failed, and Aborted are terminal.
type State int32

const (
	StatePending        State = iota // Waiting in the backlog
	StateOpening                     // Host open or change in flight
	StateOpen                        // Showing; waiting for a close request
	StateCloseRequested              // Close requested; waiting for the run loop
	StateClosing                     // Host close or change in flight
	StateClosed                      // Closed normally
	StateFailed                      // A host call failed
	StateAborted                     // Removed before it opened
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "Pending"
	case StateOpening:
		return "Opening"
	case StateOpen:
		return "Open"
	case StateCloseRequested:
		return "CloseRequested"
	case StateClosing:
		return "Closing"
	case StateClosed:
		return "Closed"
	case StateFailed:
		return "Failed"
	case StateAborted:
		return "Aborted"
	default:
		return "Unknown"
	}
}

// IsTerminal reports whether no further transitions are possible.
func (s State) IsTerminal() bool {
	return s >= StateClosed
}
