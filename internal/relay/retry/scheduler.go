// Package retry re-drives transactions that stayed unconfirmed for too many
// slots and prunes finalized records.
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goodnatureofminers/txrelay/internal/clock"
	"github.com/goodnatureofminers/txrelay/internal/model"
	"github.com/goodnatureofminers/txrelay/internal/relay/store"
	"go.uber.org/zap"
)

const (
	defaultInterval = 30 * time.Second
	defaultPageSize = 500
)

// Config is the retry policy.
type Config struct {
	Interval time.Duration
	// RetrySlotDiff is the slot distance after which an unconfirmed
	// transaction is requeued.
	RetrySlotDiff uint64
	// MaxAttempts caps requeues; the next stale window fails the record.
	MaxAttempts uint32
	PageSize    int
	// PruneEvery runs pruning on every n-th cycle; zero disables it.
	PruneEvery int
	// Retention is how many slots finalized records are kept.
	Retention uint64
}

// Scheduler scans InFlight and Propagating records on a fixed cadence.
type Scheduler struct {
	store    Store
	tips     TipReader
	notifier Notifier
	cfg      Config
	metrics  Metrics
	logger   *zap.Logger
	sleep    func(context.Context, time.Duration) error

	cycles int
}

// NewScheduler builds a Scheduler. notifier may be nil.
func NewScheduler(st Store, tips TipReader, notifier Notifier, cfg Config, metrics Metrics, logger *zap.Logger) (*Scheduler, error) {
	if st == nil || tips == nil {
		return nil, errors.New("store and tip reader are required")
	}
	if metrics == nil {
		return nil, errors.New("scheduler metrics is required")
	}
	if cfg.Interval <= 0 {
		cfg.Interval = defaultInterval
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = defaultPageSize
	}
	return &Scheduler{
		store:    st,
		tips:     tips,
		notifier: notifier,
		cfg:      cfg,
		metrics:  metrics,
		logger:   logger,
		sleep:    clock.SleepWithContext,
	}, nil
}

// Run scans every Interval until ctx is canceled. Storage failures stop it.
func (s *Scheduler) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		started := time.Now()
		err := s.Scan(ctx)
		s.metrics.ObserveScan(err, started)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if errors.Is(err, store.ErrStorage) {
				return err
			}
			s.logger.Warn("retry scan failed", zap.Error(err))
		}

		if err := s.sleep(ctx, s.cfg.Interval); err != nil {
			return err
		}
	}
}

// Scan performs one retry cycle against the current watermark.
func (s *Scheduler) Scan(ctx context.Context) error {
	tip := s.tips.Tip()
	if !tip.Known() {
		s.logger.Debug("chain tip unknown, skipping retry scan")
		return nil
	}

	requeued := 0
	for _, status := range []model.Status{model.StatusInFlight, model.StatusPropagating} {
		n, err := s.scanStatus(ctx, status, tip.Slot)
		requeued += n
		if err != nil {
			return err
		}
	}
	if requeued > 0 {
		s.logger.Info("requeued stale transactions", zap.Int("count", requeued), zap.Uint64("tip", tip.Slot))
		if s.notifier != nil {
			s.notifier.Notify()
		}
	}

	s.cycles++
	if s.cfg.PruneEvery > 0 && s.cycles%s.cfg.PruneEvery == 0 {
		return s.prune(ctx, tip.Slot)
	}
	return nil
}

// scanStatus pages through status in attempt-slot order and stops at the
// first record that is not stale yet.
func (s *Scheduler) scanStatus(ctx context.Context, status model.Status, tip uint64) (int, error) {
	requeued := 0
	for {
		txs, err := s.store.ListByStatus(ctx, status, s.cfg.PageSize)
		if err != nil {
			return requeued, fmt.Errorf("list %s: %w", status, err)
		}

		moved := 0
		for _, tx := range txs {
			if !s.stale(tx, tip) {
				return requeued, nil
			}
			ok, retried, err := s.retry(ctx, tx, tip)
			if err != nil {
				return requeued, err
			}
			if ok {
				moved++
			}
			if retried {
				requeued++
			}
		}

		// a page without progress would be listed again unchanged
		if len(txs) < s.cfg.PageSize || moved == 0 {
			return requeued, nil
		}
	}
}

func (s *Scheduler) stale(tx model.Transaction, tip uint64) bool {
	return tip > tx.LastAttemptSlot && tip-tx.LastAttemptSlot > s.cfg.RetrySlotDiff
}

// retry requeues or fails a stale record. It reports whether the record
// moved and whether it was requeued.
func (s *Scheduler) retry(ctx context.Context, tx model.Transaction, tip uint64) (bool, bool, error) {
	logger := s.logger.With(zap.String("hash", tx.Hash), zap.String("status", string(tx.Status)))

	if tx.Attempts >= s.cfg.MaxAttempts {
		_, err := s.store.TransitionStatus(ctx, tx.Hash, tx.Status, model.StatusFailed,
			model.WithFailure(model.FailureRetryBudgetExhausted, tip))
		if err != nil {
			return s.skip(logger, err)
		}
		s.metrics.ObserveExhausted()
		logger.Warn("retry budget exhausted", zap.Uint32("attempts", tx.Attempts))
		return true, false, nil
	}

	_, err := s.store.TransitionStatus(ctx, tx.Hash, tx.Status, model.StatusPending, model.WithAttemptIncrement())
	if err != nil {
		return s.skip(logger, err)
	}
	s.metrics.ObserveRetried()
	logger.Debug("requeued stale transaction",
		zap.Uint64("last_attempt_slot", tx.LastAttemptSlot),
		zap.Uint32("attempts", tx.Attempts+1),
	)
	return true, true, nil
}

// skip swallows lost races; anything else aborts the scan.
func (s *Scheduler) skip(logger *zap.Logger, err error) (bool, bool, error) {
	if errors.Is(err, store.ErrConflict) || errors.Is(err, store.ErrNotFound) {
		logger.Debug("record moved concurrently, skipping", zap.Error(err))
		return false, false, nil
	}
	return false, false, fmt.Errorf("retry transition: %w", err)
}

func (s *Scheduler) prune(ctx context.Context, tip uint64) error {
	if tip <= s.cfg.Retention {
		return nil
	}
	pruned, err := s.store.Prune(ctx, tip-s.cfg.Retention)
	if err != nil {
		return fmt.Errorf("prune: %w", err)
	}
	s.metrics.ObservePruned(pruned)
	if pruned > 0 {
		s.logger.Info("pruned finalized transactions", zap.Int("count", pruned))
	}
	return nil
}
