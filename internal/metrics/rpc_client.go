package metrics

import (
	"time"

	"github.com/goodnatureofminers/txrelay/internal/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	rpcRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "rpc_client",
		Name:      "operations_total",
		Help:      "Count of node RPC operations.",
	}, []string{"operation", "coin", "network", "node", "status"})
	rpcRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "rpc_client",
		Name:      "operation_duration_seconds",
		Help:      "Duration of node RPC operations.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation", "coin", "network", "node", "status"})
)

// RPCClient tracks metrics for RPC calls to blockchain nodes.
type RPCClient struct {
	coin    model.Coin
	network model.Network
	node    string
}

// NewRPCClient constructs a metrics collector for RPC calls to one node.
func NewRPCClient(coin model.Coin, network model.Network, node string) *RPCClient {
	if node == "" {
		node = "unknown"
	}
	return &RPCClient{coin: coin, network: network, node: node}
}

// Observe records a single RPC call outcome and duration.
func (m RPCClient) Observe(operation string, err error, started time.Time) {
	coin, network := labels(m.coin, m.network)
	st := status(err)
	rpcRequestsTotal.WithLabelValues(operation, coin, network, m.node, st).Inc()
	rpcRequestDuration.WithLabelValues(operation, coin, network, m.node, st).Observe(time.Since(started).Seconds())
}
