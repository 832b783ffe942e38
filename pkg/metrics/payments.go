package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

// PaymentMetrics records payment attempt outcomes per method.
type PaymentMetrics struct {
	attempts  *prometheus.CounterVec
	outcomes  *prometheus.CounterVec
	fallbacks prometheus.Counter
}

// NewPaymentMetrics registers the payment metrics on the provided registerer.
func NewPaymentMetrics(reg prometheus.Registerer) *PaymentMetrics {
	if reg == nil {
		return &PaymentMetrics{}
	}
	attempts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "payment_attempts_total",
		Help: "Payment attempts dispatched per method.",
	}, []string{"method"})
	outcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "payment_outcomes_total",
		Help: "Terminal payment outcomes per method and kind.",
	}, []string{"method", "outcome"})
	fallbacks := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "brick_fallbacks_total",
		Help: "Embedded widget fallbacks to the hosted redirect.",
	})
	reg.MustRegister(attempts, outcomes, fallbacks)
	return &PaymentMetrics{
		attempts:  attempts,
		outcomes:  outcomes,
		fallbacks: fallbacks,
	}
}

// IncAttempt counts a dispatched payment attempt.
func (p *PaymentMetrics) IncAttempt(method string) {
	if p == nil || p.attempts == nil {
		return
	}
	p.attempts.WithLabelValues(normalizeLabel(method)).Inc()
}

// IncOutcome counts a terminal outcome ("redirect", "confirmed", "manual", "error").
func (p *PaymentMetrics) IncOutcome(method, outcome string) {
	if p == nil || p.outcomes == nil {
		return
	}
	p.outcomes.WithLabelValues(normalizeLabel(method), normalizeLabel(outcome)).Inc()
}

// IncFallback counts one widget-to-redirect fallback.
func (p *PaymentMetrics) IncFallback() {
	if p == nil || p.fallbacks == nil {
		return
	}
	p.fallbacks.Inc()
}

func normalizeLabel(value string) string {
	value = strings.TrimSpace(strings.ToLower(value))
	if value == "" {
		return "unknown"
	}
	return value
}
