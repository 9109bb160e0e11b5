package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "remitlite"

// Metrics holds the collectors for rate lookups and transfers. A nil *Metrics
// is valid and records nothing.
type Metrics struct {
	RateLookupsTotal       *prometheus.CounterVec
	RateFetchDuration      *prometheus.HistogramVec
	TransfersCreatedTotal  *prometheus.CounterVec
	TransferAmountTotal    *prometheus.CounterVec
	TransferFeeAmountTotal *prometheus.CounterVec
}

// New registers the collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RateLookupsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rate_lookups_total",
				Help:      "Exchange rate lookups by provenance.",
			},
			[]string{"source"},
		),
		RateFetchDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "rate_fetch_duration_seconds",
				Help:      "Duration of live exchange rate fetches.",
				Buckets:   prometheus.ExponentialBuckets(0.05, 2, 8), // 50ms .. 6.4s
			},
			[]string{"outcome"},
		),
		TransfersCreatedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "transfers_created_total",
				Help:      "Transfers persisted, by currency pair.",
			},
			[]string{"from_currency", "to_currency"},
		),
		TransferAmountTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "transfer_amount_total",
				Help:      "Sum of transferred amounts in the source currency.",
			},
			[]string{"from_currency"},
		),
		TransferFeeAmountTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "transfer_fee_amount_total",
				Help:      "Sum of fees charged in the source currency.",
			},
			[]string{"from_currency"},
		),
	}
}

// RecordRateLookup counts a resolved rate by its source.
func (m *Metrics) RecordRateLookup(source string) {
	if m == nil {
		return
	}
	m.RateLookupsTotal.WithLabelValues(source).Inc()
}

// RecordRateFetch observes a live fetch attempt.
func (m *Metrics) RecordRateFetch(d time.Duration, ok bool) {
	if m == nil {
		return
	}
	outcome := "error"
	if ok {
		outcome = "ok"
	}
	m.RateFetchDuration.WithLabelValues(outcome).Observe(d.Seconds())
}

// RecordTransfer counts a persisted transfer.
func (m *Metrics) RecordTransfer(from, to string, amount, fee float64) {
	if m == nil {
		return
	}
	m.TransfersCreatedTotal.WithLabelValues(from, to).Inc()
	m.TransferAmountTotal.WithLabelValues(from).Add(amount)
	m.TransferFeeAmountTotal.WithLabelValues(from).Add(fee)
}
