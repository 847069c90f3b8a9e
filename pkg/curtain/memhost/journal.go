package memhost

import (
	"fmt"
	"slices"
	"strings"
	"sync"
)

// Journal is an ordered, concurrency-safe record of lifecycle events such as
// "open screens/home" or "close screens/home".
type Journal struct {
	mu     sync.Mutex
	events []string
}

func (j *Journal) Record(format string, args ...any) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.events = append(j.events, fmt.Sprintf(format, args...))
}

// Events returns a copy of the recorded events.
func (j *Journal) Events() []string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return slices.Clone(j.events)
}

// Count returns how many recorded events equal event.
func (j *Journal) Count(event string) int {
	j.mu.Lock()
	defer j.mu.Unlock()
	n := 0
	for _, e := range j.events {
		if e == event {
			n++
		}
	}
	return n
}

func (j *Journal) Reset() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.events = nil
}

func (j *Journal) String() string {
	return strings.Join(j.Events(), "\n")
}
