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

// Result is the outcome of one fan-out.
type Result struct {
	Outcome model.Outcome
	// Peer is the first peer that acknowledged, set for OutcomeAccepted.
	Peer string
}

// Propagator sends a transaction to every healthy peer concurrently.
type Propagator struct {
	registry       *Registry
	attemptTimeout time.Duration
	metrics        PropagatorMetrics
	logger         *zap.Logger

	background sync.WaitGroup
}

// NewPropagator constructs a Propagator over the registry's broadcast set.
func NewPropagator(registry *Registry, attemptTimeout time.Duration, metrics PropagatorMetrics, logger *zap.Logger) (*Propagator, error) {
	if registry == nil {
		return nil, errors.New("peer registry is required")
	}
	if metrics == nil {
		return nil, errors.New("propagator metrics is required")
	}
	if attemptTimeout <= 0 {
		attemptTimeout = defaultAttemptTimeout
	}
	return &Propagator{
		registry:       registry,
		attemptTimeout: attemptTimeout,
		metrics:        metrics,
		logger:         logger,
	}, nil
}

// Propagate returns as soon as one peer acknowledges the transaction. The
// remaining attempts keep running in the background and still update peer
// health. Cancelling ctx stops the wait, not the attempts.
func (p *Propagator) Propagate(ctx context.Context, hash string, raw []byte) Result {
	started := time.Now()
	peers := p.registry.Healthy()
	if len(peers) == 0 {
		p.metrics.ObserveOutcome(model.OutcomeNoHealthyPeers, started)
		return Result{Outcome: model.OutcomeNoHealthyPeers}
	}

	acks := make(chan string, len(peers))
	done := make(chan struct{})
	attemptCtx := context.WithoutCancel(ctx)

	var pending sync.WaitGroup
	for _, ep := range peers {
		pending.Add(1)
		p.background.Add(1)
		go func(ep Endpoint) {
			defer p.background.Done()
			defer pending.Done()
			if err := p.attempt(attemptCtx, ep, hash, raw); err == nil {
				acks <- ep.Address
			}
		}(ep)
	}
	go func() {
		pending.Wait()
		close(done)
	}()

	result := Result{Outcome: model.OutcomeFailed}
	select {
	case addr := <-acks:
		result = Result{Outcome: model.OutcomeAccepted, Peer: addr}
	case <-done:
		// every attempt finished; an ack may still be buffered
		select {
		case addr := <-acks:
			result = Result{Outcome: model.OutcomeAccepted, Peer: addr}
		default:
		}
	case <-ctx.Done():
	}

	p.metrics.ObserveOutcome(result.Outcome, started)
	return result
}

// Wait blocks until every background attempt has finished.
func (p *Propagator) Wait() {
	p.background.Wait()
}

func (p *Propagator) attempt(ctx context.Context, ep Endpoint, hash string, raw []byte) (err error) {
	started := time.Now()
	ctx, cancel := context.WithTimeout(ctx, p.attemptTimeout)
	defer cancel()
	defer func() {
		p.metrics.ObserveAttempt(ep.Address, err, started)
	}()

	if err = ep.Client.Send(ctx, raw); err != nil {
		p.registry.MarkFailure(ep.Address, err)
		p.logger.Debug("peer rejected transaction",
			zap.String("peer", ep.Address),
			zap.String("hash", hash),
			zap.Error(err),
		)
		return fmt.Errorf("send to %s: %w", ep.Address, err)
	}
	p.registry.MarkSuccess(ep.Address)
	return nil
}
