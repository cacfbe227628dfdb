package publisher

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus metrics for audit publishing. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	Emitted             prometheus.Counter
	Dropped             *prometheus.CounterVec
	PersistFailures     prometheus.Counter
	PersistDuration     prometheus.Histogram
	CircuitBreakerState prometheus.Gauge
}

// NewMetrics registers the audit metrics with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Emitted: factory.NewCounter(prometheus.CounterOpts{
			Name: "caguard_audit_emitted_total",
			Help: "Total number of audit events persisted",
		}),
		Dropped: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "caguard_audit_dropped_total",
			Help: "Total number of audit events dropped before persistence",
		}, []string{"reason"}),
		PersistFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "caguard_audit_persist_failures_total",
			Help: "Total number of audit event persistence failures",
		}),
		PersistDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "caguard_audit_persist_duration_seconds",
			Help:    "Time spent persisting one audit event",
			Buckets: prometheus.DefBuckets,
		}),
		CircuitBreakerState: factory.NewGauge(prometheus.GaugeOpts{
			Name: "caguard_audit_circuit_breaker_state",
			Help: "Current circuit breaker state (0=closed/healthy, 1=open/unhealthy)",
		}),
	}
}

func (m *Metrics) incDropped(reason string) {
	if m == nil {
		return
	}
	m.Dropped.WithLabelValues(reason).Inc()
}

func (m *Metrics) incPersistFailures() {
	if m == nil {
		return
	}
	m.PersistFailures.Inc()
}

func (m *Metrics) observePersist(d time.Duration) {
	if m == nil {
		return
	}
	m.Emitted.Inc()
	m.PersistDuration.Observe(d.Seconds())
}

func (m *Metrics) setCircuitOpen(open bool) {
	if m == nil {
		return
	}
	if open {
		m.CircuitBreakerState.Set(1)
	} else {
		m.CircuitBreakerState.Set(0)
	}
}
