package metrics

import (
	"time"

	"github.com/goodnatureofminers/txrelay/internal/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	reconcilerSubmissionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "reconciler",
		Name:      "submissions_total",
		Help:      "Count of submissions by result.",
	}, []string{"coin", "network", "result"})
	reconcilerProcessedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "reconciler",
		Name:      "processed_total",
		Help:      "Count of pending transactions driven through propagation.",
	}, []string{"coin", "network", "result"})
	reconcilerProcessDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "reconciler",
		Name:      "process_duration_seconds",
		Help:      "Duration of driving one pending transaction.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"coin", "network", "result"})
	reconcilerBatchSize = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "reconciler",
		Name:      "batch_size",
		Help:      "Number of pending transactions picked per pass.",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
	}, []string{"coin", "network"})
)

// Reconciler tracks metrics for the lifecycle reconciler.
type Reconciler struct {
	coin    model.Coin
	network model.Network
}

// NewReconciler constructs a Reconciler metrics collector.
func NewReconciler(coin model.Coin, network model.Network) *Reconciler {
	return &Reconciler{coin: coin, network: network}
}

// ObserveSubmit records the result of an intake submission.
func (m Reconciler) ObserveSubmit(result string) {
	coin, network := labels(m.coin, m.network)
	reconcilerSubmissionsTotal.WithLabelValues(coin, network, result).Inc()
}

// ObserveProcess records the result of driving one transaction.
func (m Reconciler) ObserveProcess(result string, started time.Time) {
	coin, network := labels(m.coin, m.network)
	reconcilerProcessedTotal.WithLabelValues(coin, network, result).Inc()
	reconcilerProcessDuration.WithLabelValues(coin, network, result).Observe(time.Since(started).Seconds())
}

// ObserveBatch records how many transactions a pass picked up.
func (m Reconciler) ObserveBatch(size int) {
	coin, network := labels(m.coin, m.network)
	reconcilerBatchSize.WithLabelValues(coin, network).Observe(float64(size))
}
