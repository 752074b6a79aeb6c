// Package reconciler drives transaction records through the lifecycle state
// machine: submission, propagation and requeue.
package reconciler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goodnatureofminers/txrelay/internal/clock"
	"github.com/goodnatureofminers/txrelay/internal/model"
	"github.com/goodnatureofminers/txrelay/internal/relay/store"
	"github.com/goodnatureofminers/txrelay/pkg/workerpool"
	"go.uber.org/zap"
)

const (
	defaultPollInterval  = 5 * time.Second
	defaultWorkers       = 16
	defaultBatchSize     = 256
	defaultShutdownGrace = 10 * time.Second
)

// SubmitResult tells the intake whether a submission created a record.
type SubmitResult string

const (
	SubmitAccepted  SubmitResult = "accepted"
	SubmitDuplicate SubmitResult = "duplicate"
)

const (
	resultInFlight  = "inflight"
	resultRequeued  = "requeued"
	resultFailed    = "failed"
	resultWaiting   = "waiting"
	resultConflict  = "conflict"
	resultDiscarded = "discarded"
	resultError     = "error"
	submitInvalid   = "invalid"
	submitBacklog   = "backlog_full"
)

// Config is the reconciler policy.
type Config struct {
	PollInterval time.Duration
	Workers      int
	BatchSize    int
	// MaxPending bounds the Pending backlog; zero disables backpressure.
	MaxPending  int
	MaxAttempts uint32
	// ShutdownGrace is how long in-flight propagations may finish after Run's
	// context is canceled.
	ShutdownGrace time.Duration
}

// Reconciler serializes submissions and propagation results against the
// store's compare-and-set contract.
type Reconciler struct {
	store      Store
	propagator Propagator
	tips       TipReader
	cfg        Config
	metrics    Metrics
	logger     *zap.Logger
	wake       chan struct{}
}

// New builds a Reconciler.
func New(st Store, propagator Propagator, tips TipReader, cfg Config, metrics Metrics, logger *zap.Logger) (*Reconciler, error) {
	if st == nil || propagator == nil || tips == nil {
		return nil, errors.New("store, propagator and tip reader are required")
	}
	if metrics == nil {
		return nil, errors.New("reconciler metrics is required")
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = defaultPollInterval
	}
	if cfg.Workers <= 0 {
		cfg.Workers = defaultWorkers
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = defaultBatchSize
	}
	if cfg.ShutdownGrace <= 0 {
		cfg.ShutdownGrace = defaultShutdownGrace
	}
	return &Reconciler{
		store:      st,
		propagator: propagator,
		tips:       tips,
		cfg:        cfg,
		metrics:    metrics,
		logger:     logger,
		wake:       make(chan struct{}, 1),
	}, nil
}

// Submit stores a new transaction at the current watermark and wakes the
// processing loop. Resubmitting a known hash is a no-op whatever its status.
func (r *Reconciler) Submit(ctx context.Context, sub model.Submission) (SubmitResult, error) {
	hash := sub.Hash
	if hash == "" || len(sub.Raw) == 0 {
		r.metrics.ObserveSubmit(submitInvalid)
		return "", fmt.Errorf("%w: empty hash or payload", ErrInvalidSubmission)
	}
	if _, err := model.ParsePriority(string(sub.Priority)); err != nil {
		r.metrics.ObserveSubmit(submitInvalid)
		return "", fmt.Errorf("%w: %w", ErrInvalidSubmission, err)
	}

	if r.cfg.MaxPending > 0 {
		pending, err := r.store.CountByStatus(ctx, model.StatusPending, r.cfg.MaxPending)
		if err != nil {
			r.metrics.ObserveSubmit(resultError)
			return "", fmt.Errorf("count pending: %w", err)
		}
		if pending >= r.cfg.MaxPending {
			r.metrics.ObserveSubmit(submitBacklog)
			return "", ErrBacklogFull
		}
	}

	inserted, err := r.store.Insert(ctx, sub, r.tips.Tip().Slot)
	if errors.Is(err, store.ErrUnknownParent) {
		r.metrics.ObserveSubmit(submitInvalid)
		return "", fmt.Errorf("%w: %w", ErrInvalidSubmission, err)
	}
	if err != nil {
		r.metrics.ObserveSubmit(resultError)
		return "", fmt.Errorf("insert %s: %w", hash, err)
	}
	if !inserted {
		r.metrics.ObserveSubmit(string(SubmitDuplicate))
		return SubmitDuplicate, nil
	}

	r.metrics.ObserveSubmit(string(SubmitAccepted))
	r.logger.Debug("transaction submitted", zap.String("hash", hash))
	r.Notify()
	return SubmitAccepted, nil
}

// Notify wakes the processing loop without blocking.
func (r *Reconciler) Notify() {
	select {
	case r.wake <- struct{}{}:
	default:
	}
}

// Recover returns records left Propagating by an interrupted run to Pending.
func (r *Reconciler) Recover(ctx context.Context) error {
	recovered := 0
	for {
		txs, err := r.store.ListByStatus(ctx, model.StatusPropagating, r.cfg.BatchSize)
		if err != nil {
			return fmt.Errorf("list propagating: %w", err)
		}

		moved := 0
		for _, tx := range txs {
			_, err := r.store.TransitionStatus(ctx, tx.Hash, model.StatusPropagating, model.StatusPending)
			switch {
			case err == nil:
				moved++
			case errors.Is(err, store.ErrConflict), errors.Is(err, store.ErrNotFound):
			default:
				return fmt.Errorf("recover %s: %w", tx.Hash, err)
			}
		}
		recovered += moved

		if len(txs) < r.cfg.BatchSize || moved == 0 {
			break
		}
	}

	if recovered > 0 {
		r.logger.Info("recovered interrupted propagations", zap.Int("count", recovered))
	}
	return nil
}

// Run processes claimable Pending records whenever notified or every
// PollInterval. A record that failed an attempt at the current tip waits for
// the next slot. Storage failures stop it. On cancellation no new record is
// picked up and running propagations get ShutdownGrace to finish.
func (r *Reconciler) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		txs, err := r.store.ListClaimable(ctx, r.tips.Tip().Slot, r.cfg.BatchSize)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("list claimable: %w", err)
		}

		accepted := 0
		if len(txs) > 0 {
			r.metrics.ObserveBatch(len(txs))
			if accepted, err = r.processBatch(ctx, txs); err != nil {
				return err
			}
		}

		// accepted records may release children or uncover a fuller backlog
		if accepted > 0 {
			continue
		}
		if err := clock.WaitForSignal(ctx, r.cfg.PollInterval, r.wake); err != nil {
			return err
		}
	}
}

func (r *Reconciler) processBatch(ctx context.Context, txs []model.Transaction) (int, error) {
	batchCtx, cancel := withGrace(ctx, r.cfg.ShutdownGrace)
	defer cancel()

	results := make(chan string, len(txs))
	err := workerpool.Process(batchCtx, r.cfg.Workers, txs, func(pctx context.Context, tx model.Transaction) error {
		// stopping: leave the record Pending for the next run
		if ctx.Err() != nil {
			return nil
		}
		result, err := r.process(pctx, tx)
		results <- result
		return err
	})
	close(results)

	accepted := 0
	for result := range results {
		if result == resultInFlight {
			accepted++
		}
	}
	if err != nil && !isContextErr(err) {
		return accepted, err
	}
	return accepted, nil
}

// process drives one Pending record through a propagation attempt. Only
// storage failures are returned.
func (r *Reconciler) process(ctx context.Context, tx model.Transaction) (result string, err error) {
	started := time.Now()
	logger := r.logger.With(zap.String("hash", tx.Hash))
	defer func() {
		r.metrics.ObserveProcess(result, started)
	}()

	tip := r.tips.Tip().Slot
	if tx.Attempts > 0 && tx.LastAttemptSlot >= tip {
		return resultWaiting, nil
	}
	if len(tx.Parents) > 0 {
		waiting, failed, err := r.parentsState(ctx, tx)
		if err != nil {
			return r.resolve(logger, "read parents", err)
		}
		if failed != "" {
			_, err := r.store.TransitionStatus(ctx, tx.Hash, model.StatusPending, model.StatusFailed,
				model.WithFailure(model.FailureParentFailed, tip))
			if err != nil {
				return r.resolve(logger, "fail", err)
			}
			logger.Warn("parent transaction failed", zap.String("parent", failed))
			return resultFailed, nil
		}
		if waiting {
			return resultWaiting, nil
		}
	}

	claimed, err := r.store.TransitionStatus(ctx, tx.Hash, model.StatusPending, model.StatusPropagating,
		model.WithLastAttemptSlot(tip))
	if err != nil {
		return r.resolve(logger, "claim", err)
	}

	outcome := r.propagator.Propagate(ctx, claimed.Hash, claimed.Raw)
	if ctx.Err() != nil {
		// the grace period is over; applying the result now could resurrect
		// a record the next run already recovered
		logger.Warn("discarding late propagation result", zap.String("outcome", string(outcome.Outcome)))
		return resultDiscarded, nil
	}

	if outcome.Outcome == model.OutcomeAccepted {
		if _, err := r.store.TransitionStatus(ctx, tx.Hash, model.StatusPropagating, model.StatusInFlight); err != nil {
			return r.resolve(logger, "mark in flight", err)
		}
		logger.Debug("transaction in flight", zap.String("peer", outcome.Peer))
		return resultInFlight, nil
	}

	if claimed.Attempts >= r.cfg.MaxAttempts {
		_, err := r.store.TransitionStatus(ctx, tx.Hash, model.StatusPropagating, model.StatusFailed,
			model.WithFailure(model.FailureRetryBudgetExhausted, tip))
		if err != nil {
			return r.resolve(logger, "fail", err)
		}
		logger.Warn("retry budget exhausted",
			zap.String("outcome", string(outcome.Outcome)),
			zap.Uint32("attempts", claimed.Attempts),
		)
		return resultFailed, nil
	}

	if _, err := r.store.TransitionStatus(ctx, tx.Hash, model.StatusPropagating, model.StatusPending,
		model.WithAttemptIncrement()); err != nil {
		return r.resolve(logger, "requeue", err)
	}
	logger.Debug("propagation failed, requeued", zap.String("outcome", string(outcome.Outcome)))
	return resultRequeued, nil
}

// parentsState reports whether a parent of tx has not reached a peer yet and
// names the first failed parent. Pruned parents are settled.
func (r *Reconciler) parentsState(ctx context.Context, tx model.Transaction) (waiting bool, failed string, err error) {
	for _, hash := range tx.Parents {
		parent, err := r.store.Get(ctx, hash)
		if errors.Is(err, store.ErrNotFound) {
			continue
		}
		if err != nil {
			return false, "", err
		}
		switch parent.Status {
		case model.StatusFailed:
			return false, hash, nil
		case model.StatusPending, model.StatusPropagating:
			waiting = true
		}
	}
	return waiting, "", nil
}

// resolve maps a failed transition to a result. Lost races and shutdown are
// expected; storage failures are not.
func (r *Reconciler) resolve(logger *zap.Logger, step string, err error) (string, error) {
	switch {
	case errors.Is(err, store.ErrConflict), errors.Is(err, store.ErrNotFound):
		logger.Debug("record moved concurrently", zap.String("step", step), zap.Error(err))
		return resultConflict, nil
	case isContextErr(err):
		return resultDiscarded, nil
	case errors.Is(err, store.ErrStorage):
		return resultError, fmt.Errorf("%s: %w", step, err)
	default:
		logger.Error("unexpected transition failure", zap.String("step", step), zap.Error(err))
		return resultError, nil
	}
}

// withGrace derives a context that outlives parent by grace.
func withGrace(parent context.Context, grace time.Duration) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.WithoutCancel(parent))
	stop := context.AfterFunc(parent, func() {
		timer := time.NewTimer(grace)
		defer timer.Stop()
		select {
		case <-timer.C:
			cancel()
		case <-ctx.Done():
		}
	})
	return ctx, func() {
		stop()
		cancel()
	}
}

func isContextErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
