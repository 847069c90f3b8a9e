package queue_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/BrandonKowalski/curtain/pkg/curtain"
	"github.com/BrandonKowalski/curtain/pkg/curtain/memhost"
	"github.com/BrandonKowalski/curtain/pkg/curtain/queue"
	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"
)

const waitFor = 2 * time.Second

// countingHost wraps a memhost and records every call and the highest number
// of calls that were ever in flight together.
type countingHost struct {
	*memhost.Host[any]

	inFlight atomic.Int32
	maxSeen  atomic.Int32

	mu  sync.Mutex
	ops []string
}

func newCountingHost(paths ...string) *countingHost {
	h := &countingHost{Host: memhost.New[any](memhost.Options{})}
	h.RegisterScreen(paths...)
	return h
}

func (h *countingHost) enter(op string) func() {
	n := h.inFlight.Inc()
	for {
		cur := h.maxSeen.Load()
		if n <= cur || h.maxSeen.CompareAndSwap(cur, n) {
			break
		}
	}
	h.mu.Lock()
	h.ops = append(h.ops, op)
	h.mu.Unlock()
	return func() { h.inFlight.Dec() }
}

func (h *countingHost) Open(ctx context.Context, path string, param any, parent curtain.Instance) (curtain.Instance, error) {
	defer h.enter("open " + path)()
	return h.Host.Open(ctx, path, param, parent)
}

func (h *countingHost) Change(ctx context.Context, path string, param any, parent curtain.Instance, releases []curtain.Instance) (curtain.Instance, error) {
	defer h.enter("change " + path)()
	return h.Host.Change(ctx, path, param, parent, releases)
}

func (h *countingHost) Close(ctx context.Context, releases []curtain.Instance, front curtain.Instance) error {
	defer h.enter("close")()
	return h.Host.Close(ctx, releases, front)
}

func (h *countingHost) Ops() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.ops...)
}

// opened returns the "open <path>" journal events in order.
func opened(h *memhost.Host[any]) []string {
	var out []string
	for _, e := range h.Journal().Events() {
		if strings.HasPrefix(e, "open ") {
			out = append(out, strings.TrimPrefix(e, "open "))
		}
	}
	return out
}

func waitState(t *testing.T, req queue.Request, state queue.State) {
	t.Helper()
	require.Eventually(t, func() bool { return req.State() == state }, waitFor, time.Millisecond,
		"request never reached %s, last %s", state, req.State())
}

func waitDone(t *testing.T, req queue.Request) error {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), waitFor)
	defer cancel()
	err := req.Wait(ctx)
	require.NotErrorIs(t, err, context.DeadlineExceeded, "request never finished")
	return err
}

// intScreen reports an int result through its slot.
type intScreen struct {
	*memhost.Screen
	results curtain.ResultSlot[int]
}

func (s *intScreen) ResultSlot() *curtain.ResultSlot[int] {
	return &s.results
}

// answered builds screens whose result is already set, so they close as soon
// as they open.
func answered(v int) memhost.Factory[any] {
	return func(path string, param any) (curtain.Instance, error) {
		s := &intScreen{Screen: memhost.NewScreen(path, param)}
		_ = s.results.Set(v)
		return s, nil
	}
}
