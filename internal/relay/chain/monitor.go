package chain

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/goodnatureofminers/txrelay/internal/clock"
	"github.com/goodnatureofminers/txrelay/internal/model"
	"github.com/goodnatureofminers/txrelay/internal/relay/store"
	"go.uber.org/zap"
)

const (
	eventBlock     = "block"
	eventRollback  = "rollback"
	eventDuplicate = "duplicate"

	subscriptionBackoffMin = time.Second
	subscriptionBackoffMax = 30 * time.Second

	// confirmAttempts bounds re-reads of a record whose status keeps moving
	// under a confirmation.
	confirmAttempts = 3
	// deferredWindow is how many slots a deferred confirmation waits for its
	// record to be acknowledged.
	deferredWindow = 144
)

// Monitor consumes the chain-sync subscription and applies events one at a
// time in arrival order. Apply is not safe for concurrent use.
type Monitor struct {
	store    Store
	sub      Subscription
	tips     *TipTracker
	notifier Notifier
	metrics  Metrics
	logger   *zap.Logger
	sleep    func(context.Context, time.Duration) error
	backoff  *backoff.ExponentialBackOff
	// deferred holds hashes included in a block while their record was
	// Pending. They are confirmed once the record is acknowledged again.
	deferred map[string]model.BlockRef
}

// NewMonitor builds a Monitor. notifier may be nil.
func NewMonitor(
	st Store,
	sub Subscription,
	tips *TipTracker,
	notifier Notifier,
	metrics Metrics,
	logger *zap.Logger,
) (*Monitor, error) {
	if st == nil || sub == nil || tips == nil {
		return nil, errors.New("store, subscription and tip tracker are required")
	}
	if metrics == nil {
		return nil, errors.New("monitor metrics is required")
	}
	return &Monitor{
		store:    st,
		sub:      sub,
		tips:     tips,
		notifier: notifier,
		metrics:  metrics,
		logger:   logger,
		sleep:    clock.SleepWithContext,
		backoff:  newSubscriptionBackoff(),
		deferred: make(map[string]model.BlockRef),
	}, nil
}

func newSubscriptionBackoff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = subscriptionBackoffMin
	b.MaxInterval = subscriptionBackoffMax
	b.Multiplier = 2
	b.RandomizationFactor = 0
	b.MaxElapsedTime = 0
	b.Reset()
	return b
}

// Restore loads the persisted watermark into the tracker.
func (m *Monitor) Restore(ctx context.Context) error {
	tip, err := m.store.Tip(ctx)
	if err != nil {
		return fmt.Errorf("restore tip: %w", err)
	}
	m.tips.set(tip)
	m.metrics.SetTip(tip.Slot)
	m.logger.Info("chain tip restored",
		zap.Uint64("slot", tip.Slot),
		zap.Uint64("height", tip.Height),
		zap.String("block", tip.BlockID),
	)
	return nil
}

// Run restores the watermark and applies events until ctx is canceled or a
// fatal fault occurs. The subscription is closed on return.
func (m *Monitor) Run(ctx context.Context) error {
	defer func() {
		if err := m.sub.Close(); err != nil {
			m.logger.Warn("close subscription", zap.Error(err))
		}
	}()

	if err := m.Restore(ctx); err != nil {
		return err
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		event, err := m.sub.Next(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if !errors.Is(err, ErrSubscription) {
				return fmt.Errorf("next block event: %w", err)
			}
			delay := m.backoff.NextBackOff()
			m.logger.Warn("chain subscription fault, backing off", zap.Error(err), zap.Duration("sleep", delay))
			if sleepErr := m.sleep(ctx, delay); sleepErr != nil {
				return sleepErr
			}
			continue
		}
		m.backoff.Reset()

		if err := m.Apply(ctx, event); err != nil {
			m.logger.Error("chain monitor halted", zap.Error(err))
			return err
		}
	}
}

// Apply applies a single event. Gap and storage errors are fatal to the caller.
func (m *Monitor) Apply(ctx context.Context, event model.BlockEvent) (err error) {
	started := time.Now()
	kind := eventBlock
	if event.Rollback {
		kind = eventRollback
	}
	defer func() {
		m.metrics.ObserveEvent(kind, err, started)
	}()

	if event.Rollback {
		return m.rollback(ctx, event)
	}

	tip := m.tips.Tip()
	if tip.Known() && event.Slot <= tip.Slot {
		kind = eventDuplicate
		m.logger.Debug("discarding stale block event",
			zap.Uint64("slot", event.Slot),
			zap.Uint64("tip", tip.Slot),
		)
		return nil
	}
	if tip.Known() {
		if event.Height != tip.Height+1 {
			return fmt.Errorf("%w: block %s at height %d follows tip height %d",
				ErrChainSyncGap, event.BlockID, event.Height, tip.Height)
		}
		if event.ParentID != "" && event.ParentID != tip.BlockID {
			return fmt.Errorf("%w: block %s parent %s does not match tip %s",
				ErrChainSyncGap, event.BlockID, event.ParentID, tip.BlockID)
		}
	}

	return m.advance(ctx, event)
}

func (m *Monitor) advance(ctx context.Context, event model.BlockEvent) error {
	ref := event.Ref()
	confirmed := 0
	for _, hash := range event.TxHashes {
		ok, err := m.confirm(ctx, hash, ref)
		if err != nil {
			return err
		}
		if ok {
			confirmed++
		}
	}

	settled, err := m.settleDeferred(ctx, event.Slot)
	if err != nil {
		return err
	}
	confirmed += settled

	if err := m.publish(ctx, event.Tip()); err != nil {
		return err
	}
	m.metrics.ObserveConfirmed(confirmed)
	if confirmed > 0 {
		m.logger.Info("transactions confirmed",
			zap.Uint64("slot", event.Slot),
			zap.String("block", event.BlockID),
			zap.Int("count", confirmed),
		)
	}
	return nil
}

// settleDeferred confirms deferred hashes whose records were acknowledged
// since their block was applied.
func (m *Monitor) settleDeferred(ctx context.Context, slot uint64) (int, error) {
	confirmed := 0
	for hash, ref := range m.deferred {
		if slot-ref.Slot > deferredWindow {
			m.logger.Debug("deferred confirmation expired", zap.String("hash", hash), zap.Uint64("slot", ref.Slot))
			delete(m.deferred, hash)
			continue
		}
		ok, err := m.confirm(ctx, hash, ref)
		if err != nil {
			return confirmed, err
		}
		if ok {
			confirmed++
		}
	}
	return confirmed, nil
}

// confirm moves a tracked record to Confirmed. A Pending record is deferred
// until it is acknowledged again; other statuses are left alone. A lost CAS
// re-reads the record.
func (m *Monitor) confirm(ctx context.Context, hash string, ref model.BlockRef) (bool, error) {
	for i := 0; i < confirmAttempts; i++ {
		tx, err := m.store.Get(ctx, hash)
		if errors.Is(err, store.ErrNotFound) {
			delete(m.deferred, hash)
			return false, nil
		}
		if err != nil {
			return false, fmt.Errorf("get %s: %w", hash, err)
		}
		switch tx.Status {
		case model.StatusInFlight, model.StatusPropagating:
		case model.StatusPending:
			m.deferred[hash] = ref
			return false, nil
		default:
			delete(m.deferred, hash)
			return false, nil
		}

		_, err = m.store.TransitionStatus(ctx, hash, tx.Status, model.StatusConfirmed, model.WithConfirmation(ref))
		switch {
		case err == nil:
			delete(m.deferred, hash)
			return true, nil
		case errors.Is(err, store.ErrConflict):
			continue
		default:
			return false, fmt.Errorf("confirm %s: %w", hash, err)
		}
	}
	m.logger.Warn("record kept changing during confirmation", zap.String("hash", hash))
	return false, nil
}

func (m *Monitor) rollback(ctx context.Context, event model.BlockEvent) error {
	tip := m.tips.Tip()
	if tip.Known() && event.Slot > tip.Slot {
		return fmt.Errorf("%w: rollback to slot %d beyond tip %d", ErrChainSyncGap, event.Slot, tip.Slot)
	}

	for hash, ref := range m.deferred {
		if ref.Slot > event.Slot {
			delete(m.deferred, hash)
		}
	}

	txs, err := m.store.ListConfirmedAfter(ctx, event.Slot)
	if err != nil {
		return fmt.Errorf("list confirmed after %d: %w", event.Slot, err)
	}

	requeued := 0
	for _, tx := range txs {
		_, err := m.store.TransitionStatus(ctx, tx.Hash, model.StatusConfirmed, model.StatusPending, model.WithoutConfirmation())
		switch {
		case err == nil:
			requeued++
		case errors.Is(err, store.ErrConflict), errors.Is(err, store.ErrNotFound):
			m.logger.Debug("rollback skipped record", zap.String("hash", tx.Hash), zap.Error(err))
		default:
			return fmt.Errorf("requeue %s: %w", tx.Hash, err)
		}
	}

	if err := m.publish(ctx, event.Tip()); err != nil {
		return err
	}
	m.metrics.ObserveRequeued(requeued)
	m.logger.Warn("chain rolled back",
		zap.Uint64("from", tip.Slot),
		zap.Uint64("to", event.Slot),
		zap.Int("requeued", requeued),
	)
	if requeued > 0 && m.notifier != nil {
		m.notifier.Notify()
	}
	return nil
}

func (m *Monitor) publish(ctx context.Context, tip model.Tip) error {
	if err := m.store.SetTip(ctx, tip); err != nil {
		return fmt.Errorf("persist tip: %w", err)
	}
	m.tips.set(tip)
	m.metrics.SetTip(tip.Slot)
	return nil
}
