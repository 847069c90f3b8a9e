package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/BrandonKowalski/curtain/pkg/curtain/constants"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := New("test", reg)
	require.NoError(t, err)

	start := time.Now()
	c.ObserveTransition("queue", constants.OperationOpen, start, nil)
	c.ObserveTransition("queue", constants.OperationOpen, start, nil)
	c.ObserveTransition("queue", constants.OperationChange, start, errors.New("boom"))
	c.SetBacklog("queue", 3)
	c.SetStackDepth("stack", 2)
	c.AddAborted("queue", 2)
	c.AddAborted("queue", 0)
	c.IncFailStop("queue")

	assert.Equal(t, 2.0, testutil.ToFloat64(c.Transitions.WithLabelValues("queue", "open", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Transitions.WithLabelValues("queue", "change", "error")))
	assert.Equal(t, 3.0, testutil.ToFloat64(c.Backlog.WithLabelValues("queue")))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.StackDepth.WithLabelValues("stack")))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.Aborted.WithLabelValues("queue")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.FailStops.WithLabelValues("queue")))
	assert.Equal(t, 2, testutil.CollectAndCount(c.TransitionDuration))
}

func TestNewRejectsDuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := New("dup", reg)
	require.NoError(t, err)

	_, err = New("dup", reg)
	assert.Error(t, err)
}

func TestNilCollectorIsNoop(t *testing.T) {
	var c *Collector

	assert.NotPanics(t, func() {
		c.ObserveTransition("queue", constants.OperationClose, time.Now(), nil)
		c.SetBacklog("queue", 1)
		c.SetStackDepth("stack", 1)
		c.AddAborted("queue", 1)
		c.IncFailStop("queue")
	})
}
