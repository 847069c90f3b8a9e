// Package metrics exposes Prometheus collectors for curtain controllers.
//
// A nil *Collector is valid and records nothing, so controllers can take one
// unconditionally:
//
//	reg := prometheus.NewRegistry()
//	m, err := metrics.New("curtain", reg)
//	q := queue.New[any](host, queue.Options{Name: "dialogs", Metrics: m})
package metrics

import (
	"time"

	"github.com/BrandonKowalski/curtain/pkg/curtain/constants"
	"github.com/prometheus/client_golang/prometheus"
)

// Collector holds all Prometheus metrics recorded by controllers.
type Collector struct {
	Transitions        *prometheus.CounterVec
	TransitionDuration *prometheus.HistogramVec
	Backlog            *prometheus.GaugeVec
	StackDepth         *prometheus.GaugeVec
	Aborted            *prometheus.CounterVec
	FailStops          *prometheus.CounterVec
}

// New creates the collectors under namespace and registers them on reg.
// A nil reg registers on prometheus.DefaultRegisterer.
func New(namespace string, reg prometheus.Registerer) (*Collector, error) {
	if namespace == "" {
		namespace = constants.DefaultMetricsNamespace
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	c := &Collector{
		Transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "transitions_total",
				Help:      "Host transitions performed, by controller, operation, and outcome",
			},
			[]string{"controller", "op", "result"},
		),
		TransitionDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "transition_duration_seconds",
				Help:      "Host transition duration in seconds",
				Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
			},
			[]string{"controller", "op"},
		),
		Backlog: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "queue_backlog",
				Help:      "Requests waiting behind the current screen",
			},
			[]string{"controller"},
		),
		StackDepth: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "stack_depth",
				Help:      "Live instances on a navigation stack",
			},
			[]string{"controller"},
		),
		Aborted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "aborted_total",
				Help:      "Requests aborted before they opened",
			},
			[]string{"controller"},
		),
		FailStops: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "fail_stops_total",
				Help:      "Times a queue halted on a host failure",
			},
			[]string{"controller"},
		),
	}

	for _, collector := range []prometheus.Collector{
		c.Transitions, c.TransitionDuration, c.Backlog, c.StackDepth, c.Aborted, c.FailStops,
	} {
		if err := reg.Register(collector); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// ObserveTransition records one host call that started at start.
func (c *Collector) ObserveTransition(controller string, op constants.Operation, start time.Time, err error) {
	if c == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	c.Transitions.WithLabelValues(controller, op.GetName(), result).Inc()
	c.TransitionDuration.WithLabelValues(controller, op.GetName()).Observe(time.Since(start).Seconds())
}

func (c *Collector) SetBacklog(controller string, n int) {
	if c == nil {
		return
	}
	c.Backlog.WithLabelValues(controller).Set(float64(n))
}

func (c *Collector) SetStackDepth(controller string, n int) {
	if c == nil {
		return
	}
	c.StackDepth.WithLabelValues(controller).Set(float64(n))
}

func (c *Collector) AddAborted(controller string, n int) {
	if c == nil || n <= 0 {
		return
	}
	c.Aborted.WithLabelValues(controller).Add(float64(n))
}

func (c *Collector) IncFailStop(controller string) {
	if c == nil {
		return
	}
	c.FailStops.WithLabelValues(controller).Inc()
}
