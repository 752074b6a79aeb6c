package metrics

import (
	"time"

	"github.com/goodnatureofminers/txrelay/internal/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	propagateAttemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "propagator",
		Name:      "peer_attempts_total",
		Help:      "Count of delivery attempts to single peers.",
	}, []string{"coin", "network", "peer", "status"})
	propagateAttemptDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "propagator",
		Name:      "peer_attempt_duration_seconds",
		Help:      "Duration of delivery attempts to single peers.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"coin", "network", "peer", "status"})
	propagateOutcomesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "propagator",
		Name:      "outcomes_total",
		Help:      "Count of fan-out propagation outcomes.",
	}, []string{"coin", "network", "outcome"})
	propagateOutcomeDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "propagator",
		Name:      "outcome_duration_seconds",
		Help:      "Time until a fan-out propagation produced its outcome.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"coin", "network", "outcome"})
	peerHealthy = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "peer_registry",
		Name:      "peer_healthy",
		Help:      "1 when the peer is part of the broadcast set, 0 otherwise.",
	}, []string{"coin", "network", "peer"})
)

// Propagator tracks metrics for peer fan-out and peer health.
type Propagator struct {
	coin    model.Coin
	network model.Network
}

// NewPropagator constructs a Propagator metrics collector.
func NewPropagator(coin model.Coin, network model.Network) *Propagator {
	return &Propagator{coin: coin, network: network}
}

// ObserveAttempt records a single peer delivery attempt.
func (m Propagator) ObserveAttempt(peer string, err error, started time.Time) {
	coin, network := labels(m.coin, m.network)
	st := status(err)
	propagateAttemptsTotal.WithLabelValues(coin, network, peer, st).Inc()
	propagateAttemptDuration.WithLabelValues(coin, network, peer, st).Observe(time.Since(started).Seconds())
}

// ObserveOutcome records the outcome of a fan-out.
func (m Propagator) ObserveOutcome(outcome model.Outcome, started time.Time) {
	coin, network := labels(m.coin, m.network)
	propagateOutcomesTotal.WithLabelValues(coin, network, string(outcome)).Inc()
	propagateOutcomeDuration.WithLabelValues(coin, network, string(outcome)).Observe(time.Since(started).Seconds())
}

// SetPeerHealth exports the health of a peer.
func (m Propagator) SetPeerHealth(peer string, health model.PeerHealth) {
	coin, network := labels(m.coin, m.network)
	value := 0.0
	if health == model.PeerHealthy {
		value = 1
	}
	peerHealthy.WithLabelValues(coin, network, peer).Set(value)
}
