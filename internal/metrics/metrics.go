package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels for money-movement counters.
const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

var (
	// TransactionsTotal counts money-movement attempts by kind and outcome.
	TransactionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mkoba",
		Name:      "transactions_total",
		Help:      "Money movement attempts partitioned by kind and outcome.",
	}, []string{"kind", "outcome"})

	// TransactionAmountCents observes the amount of successful movements.
	TransactionAmountCents = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "mkoba",
		Name:      "transaction_amount_cents",
		Help:      "Amounts moved by successful transactions, in KES cents.",
		Buckets:   prometheus.ExponentialBuckets(100, 10, 7),
	}, []string{"kind"})
)

// Record tracks one money-movement attempt.
func Record(kind, outcome string, amount int64) {
	TransactionsTotal.WithLabelValues(kind, outcome).Inc()
	if outcome == OutcomeSuccess {
		TransactionAmountCents.WithLabelValues(kind).Observe(float64(amount))
	}
}
