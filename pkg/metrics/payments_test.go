package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestPaymentMetricsCount(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := NewPaymentMetrics(reg)

	m.IncAttempt("whatsapp")
	m.IncAttempt("WhatsApp ")
	m.IncOutcome("transfer", "manual")
	m.IncFallback()

	if got := testutil.ToFloat64(m.attempts.WithLabelValues("whatsapp")); got != 2 {
		t.Fatalf("expected 2 whatsapp attempts, got %v", got)
	}
	if got := testutil.ToFloat64(m.outcomes.WithLabelValues("transfer", "manual")); got != 1 {
		t.Fatalf("expected 1 transfer manual outcome, got %v", got)
	}
	if got := testutil.ToFloat64(m.fallbacks); got != 1 {
		t.Fatalf("expected 1 fallback, got %v", got)
	}
}

func TestPaymentMetricsNilSafe(t *testing.T) {
	t.Parallel()

	var m *PaymentMetrics
	m.IncAttempt("whatsapp")
	m.IncOutcome("whatsapp", "error")
	m.IncFallback()

	empty := NewPaymentMetrics(nil)
	empty.IncAttempt("transfer")
}
