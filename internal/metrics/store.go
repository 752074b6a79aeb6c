package metrics

import (
	"time"

	"github.com/goodnatureofminers/txrelay/internal/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	storeOperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "store",
		Name:      "operations_total",
		Help:      "Count of transaction store operations.",
	}, []string{"operation", "coin", "network", "status"})
	storeOperationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "store",
		Name:      "operation_duration_seconds",
		Help:      "Duration of transaction store operations.",
		Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
	}, []string{"operation", "coin", "network", "status"})
)

// Store tracks metrics for transaction store operations.
type Store struct {
	coin    model.Coin
	network model.Network
}

// NewStore creates a Store metrics collector.
func NewStore(coin model.Coin, network model.Network) *Store {
	return &Store{coin: coin, network: network}
}

// Observe records duration and outcome of a store operation.
func (m Store) Observe(operation string, err error, started time.Time) {
	coin, network := labels(m.coin, m.network)
	st := status(err)
	storeOperationsTotal.WithLabelValues(operation, coin, network, st).Inc()
	storeOperationDuration.WithLabelValues(operation, coin, network, st).Observe(time.Since(started).Seconds())
}
