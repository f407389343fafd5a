// Package xopmetrics counts what the propagation layer does. A nil
// *Metrics is valid and records nothing.
package xopmetrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	Decorated   prometheus.Counter
	Adopted     prometheus.Counter
	Roots       prometheus.Counter
	StoreErrors *prometheus.CounterVec
}

// New creates the counters and registers them with reg when reg is not nil.
func New(reg prometheus.Registerer, namespace string) *Metrics {
	m := &Metrics{
		Decorated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "propagation",
			Name:      "requests_decorated_total",
			Help:      "Outgoing requests that carried a derived trace context",
		}),
		Adopted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "propagation",
			Name:      "contexts_adopted_total",
			Help:      "Trace contexts adopted from responses",
		}),
		Roots: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "propagation",
			Name:      "roots_created_total",
			Help:      "New trace chains started for a session",
		}),
		StoreErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "propagation",
			Name:      "store_errors_total",
			Help:      "Session store failures by operation",
		}, []string{"op"}),
	}
	if reg != nil {
		reg.MustRegister(m.Decorated, m.Adopted, m.Roots, m.StoreErrors)
	}
	return m
}

func (m *Metrics) IncDecorated() {
	if m != nil {
		m.Decorated.Inc()
	}
}

func (m *Metrics) IncAdopted() {
	if m != nil {
		m.Adopted.Inc()
	}
}

func (m *Metrics) IncRoots() {
	if m != nil {
		m.Roots.Inc()
	}
}

func (m *Metrics) IncStoreError(op string) {
	if m != nil {
		m.StoreErrors.WithLabelValues(op).Inc()
	}
}
