package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveClaim(MethodSignature, "")
	m.ObserveClaim(MethodSignature, "signature_replayed")
	m.ObserveClaim(MethodZk, "")
	m.ObserveTally("addGuardian", true, time.Millisecond)
	m.ObserveGuard("nonce", "consume", time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ClaimsVerified.WithLabelValues(MethodSignature, OutcomeAccepted)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ClaimsVerified.WithLabelValues(MethodSignature, "signature_replayed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ClaimsVerified.WithLabelValues(MethodZk, OutcomeAccepted)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Tallies.WithLabelValues("addGuardian", "true")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.GuardLatency))
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveClaim(MethodZk, "")
		m.ObserveTally("approve", false, time.Second)
		m.ObserveGuard("signature", "mark", time.Second)
	})
}

func TestTallyOperationLabelIsBounded(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveTally("ADDGUARDIAN", true, time.Millisecond)
	m.ObserveTally("8", false, time.Millisecond)
	for _, name := range []string{"dropTables", "x-1", "x-2", ""} {
		m.ObserveTally(name, false, time.Millisecond)
	}

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Tallies.WithLabelValues("addGuardian", "true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Tallies.WithLabelValues("approve", "false")))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.Tallies.WithLabelValues(OperationOther, "false")))
	assert.Equal(t, 3, testutil.CollectAndCount(m.Tallies))
}
