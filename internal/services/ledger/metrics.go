package ledger

import "goldnest/internal/metrics"

// PrometheusMetrics reports to the process-wide goldnest registry.
type PrometheusMetrics struct{}

func (PrometheusMetrics) RecordInvestment(amountLKR, grams float64) {
	metrics.RecordInvestment(amountLKR, grams)
}

func (PrometheusMetrics) RecordFailure(reason string) {
	metrics.RecordLedgerFailure(reason)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordInvestment(float64, float64) {}
func (NoopMetricsCollector) RecordFailure(string)              {}
