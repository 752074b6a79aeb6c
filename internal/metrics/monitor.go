package metrics

import (
	"time"

	"github.com/goodnatureofminers/txrelay/internal/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	monitorEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "chain_monitor",
		Name:      "events_total",
		Help:      "Count of block events applied by the chain monitor.",
	}, []string{"coin", "network", "kind", "status"})
	monitorEventDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "chain_monitor",
		Name:      "event_duration_seconds",
		Help:      "Duration of applying a block event.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"coin", "network", "kind", "status"})
	monitorTransactionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "chain_monitor",
		Name:      "transactions_total",
		Help:      "Count of transactions confirmed or requeued by the chain monitor.",
	}, []string{"coin", "network", "action"})
	monitorTipSlot = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "chain_monitor",
		Name:      "tip_slot",
		Help:      "Slot of the chain watermark.",
	}, []string{"coin", "network"})
)

// Monitor tracks metrics for the chain monitor.
type Monitor struct {
	coin    model.Coin
	network model.Network
}

// NewMonitor constructs a Monitor metrics collector.
func NewMonitor(coin model.Coin, network model.Network) *Monitor {
	return &Monitor{coin: coin, network: network}
}

// ObserveEvent records the application of a block event of the given kind.
func (m Monitor) ObserveEvent(kind string, err error, started time.Time) {
	coin, network := labels(m.coin, m.network)
	st := status(err)
	monitorEventsTotal.WithLabelValues(coin, network, kind, st).Inc()
	monitorEventDuration.WithLabelValues(coin, network, kind, st).Observe(time.Since(started).Seconds())
}

// ObserveConfirmed records transactions moved to Confirmed.
func (m Monitor) ObserveConfirmed(count int) {
	coin, network := labels(m.coin, m.network)
	monitorTransactionsTotal.WithLabelValues(coin, network, "confirmed").Add(float64(count))
}

// ObserveRequeued records confirmations reverted by a rollback.
func (m Monitor) ObserveRequeued(count int) {
	coin, network := labels(m.coin, m.network)
	monitorTransactionsTotal.WithLabelValues(coin, network, "requeued").Add(float64(count))
}

// SetTip exports the current watermark slot.
func (m Monitor) SetTip(slot uint64) {
	coin, network := labels(m.coin, m.network)
	monitorTipSlot.WithLabelValues(coin, network).Set(float64(slot))
}
