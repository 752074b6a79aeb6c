package peer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/goodnatureofminers/txrelay/internal/model"
	"go.uber.org/zap"
)

// Endpoint pairs a peer address with the client used to reach it.
type Endpoint struct {
	Address string
	Client  Client
}

// RegistryConfig holds the health policy of the registry.
type RegistryConfig struct {
	// FailureThreshold is the number of consecutive failures after which a
	// peer leaves the broadcast set.
	FailureThreshold int
	ProbeInterval    time.Duration
	ProbeTimeout     time.Duration
}

type entry struct {
	peer   model.Peer
	client Client
}

// Registry owns the peer set and its health. The address set is fixed at
// construction.
type Registry struct {
	cfg     RegistryConfig
	metrics RegistryMetrics
	logger  *zap.Logger
	now     func() time.Time

	mu      sync.RWMutex
	entries []*entry
	byAddr  map[string]*entry
}

// NewRegistry builds a registry with every endpoint initially healthy.
func NewRegistry(endpoints []Endpoint, cfg RegistryConfig, metrics RegistryMetrics, logger *zap.Logger) (*Registry, error) {
	if len(endpoints) == 0 {
		return nil, errors.New("at least one peer is required")
	}
	if metrics == nil {
		return nil, errors.New("peer registry metrics is required")
	}
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = defaultFailureThreshold
	}
	if cfg.ProbeInterval <= 0 {
		cfg.ProbeInterval = defaultProbeInterval
	}
	if cfg.ProbeTimeout <= 0 {
		cfg.ProbeTimeout = defaultProbeTimeout
	}

	r := &Registry{
		cfg:     cfg,
		metrics: metrics,
		logger:  logger,
		now:     time.Now,
		byAddr:  make(map[string]*entry, len(endpoints)),
	}
	for _, ep := range endpoints {
		if ep.Address == "" || ep.Client == nil {
			return nil, errors.New("peer address and client are required")
		}
		if _, ok := r.byAddr[ep.Address]; ok {
			return nil, fmt.Errorf("duplicate peer %s", ep.Address)
		}
		e := &entry{
			peer:   model.Peer{Address: ep.Address, Health: model.PeerHealthy},
			client: ep.Client,
		}
		r.entries = append(r.entries, e)
		r.byAddr[ep.Address] = e
		metrics.SetPeerHealth(ep.Address, model.PeerHealthy)
	}
	return r, nil
}

// Healthy returns the current broadcast set in configuration order.
func (r *Registry) Healthy() []Endpoint {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Endpoint, 0, len(r.entries))
	for _, e := range r.entries {
		if e.peer.Health == model.PeerHealthy {
			out = append(out, Endpoint{Address: e.peer.Address, Client: e.client})
		}
	}
	return out
}

// Snapshot returns a copy of every peer's state.
func (r *Registry) Snapshot() []model.Peer {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.Peer, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e.peer)
	}
	return out
}

// MarkSuccess resets the failure counter of a peer after an acknowledgement.
func (r *Registry) MarkSuccess(addr string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.byAddr[addr]
	if !ok {
		return
	}
	e.peer.ConsecutiveFailures = 0
	e.peer.LastContacted = r.now()
	if e.peer.Health != model.PeerHealthy {
		e.peer.Health = model.PeerHealthy
		r.metrics.SetPeerHealth(addr, model.PeerHealthy)
		r.logger.Info("peer is healthy again", zap.String("peer", addr))
	}
}

// MarkFailure counts a failed delivery and reports whether the peer just
// left the broadcast set.
func (r *Registry) MarkFailure(addr string, cause error) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.byAddr[addr]
	if !ok {
		return false
	}
	e.peer.ConsecutiveFailures++
	if e.peer.Health == model.PeerHealthy && e.peer.ConsecutiveFailures >= r.cfg.FailureThreshold {
		e.peer.Health = model.PeerUnreachable
		r.metrics.SetPeerHealth(addr, model.PeerUnreachable)
		r.logger.Warn("peer marked unreachable",
			zap.String("peer", addr),
			zap.Int("failures", e.peer.ConsecutiveFailures),
			zap.Error(cause),
		)
		return true
	}
	return false
}

// RunProbe probes unreachable peers every ProbeInterval until ctx is canceled.
func (r *Registry) RunProbe(ctx context.Context) error {
	ticker := time.NewTicker(r.cfg.ProbeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			r.probe(ctx)
		}
	}
}

func (r *Registry) probe(ctx context.Context) {
	r.mu.RLock()
	var down []Endpoint
	for _, e := range r.entries {
		if e.peer.Health == model.PeerUnreachable {
			down = append(down, Endpoint{Address: e.peer.Address, Client: e.client})
		}
	}
	r.mu.RUnlock()

	var wg sync.WaitGroup
	for _, ep := range down {
		wg.Add(1)
		go func(ep Endpoint) {
			defer wg.Done()
			probeCtx, cancel := context.WithTimeout(ctx, r.cfg.ProbeTimeout)
			defer cancel()

			if err := ep.Client.Ping(probeCtx); err != nil {
				r.logger.Debug("peer probe failed", zap.String("peer", ep.Address), zap.Error(err))
				return
			}
			r.MarkSuccess(ep.Address)
		}(ep)
	}
	wg.Wait()
}
