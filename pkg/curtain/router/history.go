package router

// HistoryEntry is one step of back navigation: the screen that was left, the
// input it ran with, and any resume state it returned.
type HistoryEntry struct {
	Screen Screen
	Input  any
	Resume any
}

// History records where the transition function came from so it can go back.
// It is only touched from the transition function and needs no locking.
type History struct {
	entries []HistoryEntry
}

func NewHistory() *History {
	return &History{
		entries: make([]HistoryEntry, 0),
	}
}

// Push records screen before navigating forward from it.
func (h *History) Push(screen Screen, input any, resume any) {
	h.entries = append(h.entries, HistoryEntry{
		Screen: screen,
		Input:  input,
		Resume: resume,
	})
}

// Pop removes and returns the most recent entry, or nil if there is none.
func (h *History) Pop() *HistoryEntry {
	if len(h.entries) == 0 {
		return nil
	}
	entry := h.entries[len(h.entries)-1]
	h.entries = h.entries[:len(h.entries)-1]
	return &entry
}

// Unwind pops entries up to and including the most recent one for screen and
// returns it. If screen is not in the history, nothing is removed and nil is returned.
func (h *History) Unwind(screen Screen) *HistoryEntry {
	for i := len(h.entries) - 1; i >= 0; i-- {
		if h.entries[i].Screen == screen {
			entry := h.entries[i]
			h.entries = h.entries[:i]
			return &entry
		}
	}
	return nil
}

// Peek returns the most recent entry without removing it, or nil.
func (h *History) Peek() *HistoryEntry {
	if len(h.entries) == 0 {
		return nil
	}
	return &h.entries[len(h.entries)-1]
}

func (h *History) IsEmpty() bool {
	return len(h.entries) == 0
}

func (h *History) Len() int {
	return len(h.entries)
}

func (h *History) Clear() {
	h.entries = h.entries[:0]
}
