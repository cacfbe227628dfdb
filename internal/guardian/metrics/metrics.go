package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"caguard/internal/guardian/models"
)

// Method labels for claim verification.
const (
	MethodSignature = "signature"
	MethodZk        = "zk"
)

// Outcome label for accepted claims. Rejected claims are labelled with their
// reject reason.
const OutcomeAccepted = "accepted"

// OperationOther labels tallies whose operation name is not a known method.
const OperationOther = "other"

// Metrics provides observability for guardian approvals. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	// Claim outcomes by protocol and reject reason
	ClaimsVerified *prometheus.CounterVec

	// Tally results by operation and whether the strategy was satisfied
	Tallies *prometheus.CounterVec

	// Overall tally latency
	TallyLatency prometheus.Histogram

	// Replay guard latencies by guard and operation
	GuardLatency *prometheus.HistogramVec
}

// New registers the guardian metrics with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ClaimsVerified: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "caguard_claims_verified_total",
			Help: "Guardian claims verified by method and outcome",
		}, []string{"method", "outcome"}),

		Tallies: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "caguard_tally_total",
			Help: "Approval tallies by operation and result",
		}, []string{"operation", "satisfied"}),

		TallyLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "caguard_tally_duration_seconds",
			Help:    "Duration of a full approval tally including claim verification",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),

		GuardLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "caguard_replay_guard_duration_seconds",
			Help:    "Duration of replay guard operations",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
		}, []string{"guard", "op"}), // guard: "signature", "nonce"
	}
}

// ObserveClaim records one claim verification. An empty outcome counts as
// accepted.
func (m *Metrics) ObserveClaim(method, outcome string) {
	if m == nil {
		return
	}
	if outcome == "" {
		outcome = OutcomeAccepted
	}
	m.ClaimsVerified.WithLabelValues(method, outcome).Inc()
}

// ObserveTally records a completed tally.
func (m *Metrics) ObserveTally(operation string, satisfied bool, d time.Duration) {
	if m == nil {
		return
	}
	label := "false"
	if satisfied {
		label = "true"
	}
	m.Tallies.WithLabelValues(operationLabel(operation), label).Inc()
	m.TallyLatency.Observe(d.Seconds())
}

// operationLabel maps caller-supplied names onto the fixed set of method
// names so the label stays bounded.
func operationLabel(operation string) string {
	op, err := models.ParseOperationType(operation)
	if err != nil {
		return OperationOther
	}
	return op.String()
}

// ObserveGuard records the latency of one replay guard call.
func (m *Metrics) ObserveGuard(guard, op string, d time.Duration) {
	if m != nil {
		m.GuardLatency.WithLabelValues(guard, op).Observe(d.Seconds())
	}
}
