package metrics

import (
	"time"

	"github.com/goodnatureofminers/txrelay/internal/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	schedulerScansTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "retry_scheduler",
		Name:      "scans_total",
		Help:      "Count of retry scans.",
	}, []string{"coin", "network", "status"})
	schedulerScanDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "retry_scheduler",
		Name:      "scan_duration_seconds",
		Help:      "Duration of retry scans.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"coin", "network", "status"})
	schedulerTransactionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "retry_scheduler",
		Name:      "transactions_total",
		Help:      "Count of stale transactions by action taken.",
	}, []string{"coin", "network", "action"})
)

// Scheduler tracks metrics for the retry scheduler.
type Scheduler struct {
	coin    model.Coin
	network model.Network
}

// NewScheduler constructs a Scheduler metrics collector.
func NewScheduler(coin model.Coin, network model.Network) *Scheduler {
	return &Scheduler{coin: coin, network: network}
}

// ObserveScan records a scan cycle outcome and duration.
func (m Scheduler) ObserveScan(err error, started time.Time) {
	coin, network := labels(m.coin, m.network)
	st := status(err)
	schedulerScansTotal.WithLabelValues(coin, network, st).Inc()
	schedulerScanDuration.WithLabelValues(coin, network, st).Observe(time.Since(started).Seconds())
}

// ObserveRetried records a stale transaction requeued to Pending.
func (m Scheduler) ObserveRetried() {
	m.add("retried", 1)
}

// ObserveExhausted records a stale transaction moved to Failed.
func (m Scheduler) ObserveExhausted() {
	m.add("exhausted", 1)
}

// ObservePruned records finalized records removed from the store.
func (m Scheduler) ObservePruned(count int) {
	m.add("pruned", count)
}

func (m Scheduler) add(action string, count int) {
	coin, network := labels(m.coin, m.network)
	schedulerTransactionsTotal.WithLabelValues(coin, network, action).Add(float64(count))
}
