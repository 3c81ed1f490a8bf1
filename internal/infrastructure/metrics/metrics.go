package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// TransferMetrics holds every transfer related collector.
type TransferMetrics struct {
	// Attempts by outcome
	TransfersTotal *prometheus.CounterVec

	// Money moved, in the transfer currency
	TransferAmountTotal *prometheus.CounterVec
	TransferFeeTotal    *prometheus.CounterVec

	// Time spent inside the unit of work, lock waits included
	TransferDuration *prometheus.HistogramVec

	// Errors by reason (not_found, missing_rate, lock_timeout, persistence, ...)
	TransferErrorsTotal *prometheus.CounterVec

	// Outbox relay
	OutboxPublishedTotal prometheus.Counter
	OutboxFailuresTotal  prometheus.Counter
}

// NewTransferMetrics registers the collectors with reg.
func NewTransferMetrics(reg prometheus.Registerer) *TransferMetrics {
	factory := promauto.With(reg)

	return &TransferMetrics{
		TransfersTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "transfers_total",
				Help: "Transfer attempts by final status",
			},
			[]string{"status", "source_currency", "target_currency"},
		),

		TransferAmountTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "transfer_amount_total",
				Help: "Sum of completed transfer amounts in the transfer currency",
			},
			[]string{"currency"},
		),

		TransferFeeTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "transfer_fee_total",
				Help: "Sum of fees charged on completed transfers in the transfer currency",
			},
			[]string{"currency"},
		),

		TransferDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "transfer_duration_seconds",
				Help:    "Transfer processing time",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"status"},
		),

		TransferErrorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "transfer_errors_total",
				Help: "Transfers that ended with an error",
			},
			[]string{"reason"},
		),

		OutboxPublishedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "outbox_published_total",
				Help: "Outbox messages delivered to the broker",
			},
		),

		OutboxFailuresTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "outbox_failures_total",
				Help: "Outbox relay iterations that failed",
			},
		),
	}
}

func (m *TransferMetrics) RecordTransfer(status, sourceCurrency, targetCurrency string, durationSeconds float64) {
	m.TransfersTotal.WithLabelValues(status, sourceCurrency, targetCurrency).Inc()
	m.TransferDuration.WithLabelValues(status).Observe(durationSeconds)
}

func (m *TransferMetrics) RecordCompletedAmounts(currency string, amount, fee float64) {
	m.TransferAmountTotal.WithLabelValues(currency).Add(amount)
	m.TransferFeeTotal.WithLabelValues(currency).Add(fee)
}

func (m *TransferMetrics) RecordError(reason string) {
	m.TransferErrorsTotal.WithLabelValues(reason).Inc()
}

func (m *TransferMetrics) RecordOutboxPublished(n int) {
	m.OutboxPublishedTotal.Add(float64(n))
}

func (m *TransferMetrics) RecordOutboxFailure() {
	m.OutboxFailuresTotal.Inc()
}
