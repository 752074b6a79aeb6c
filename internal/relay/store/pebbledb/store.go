// Package pebbledb persists transaction lifecycle records in a pebble database.
package pebbledb

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"sync"
	"time"

	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/vfs"
	"github.com/goodnatureofminers/txrelay/internal/model"
	"github.com/goodnatureofminers/txrelay/internal/relay/store"
)

type (
	// Metrics records store operation outcomes.
	Metrics interface {
		Observe(operation string, err error, started time.Time)
	}
	// Listener is notified after every committed status change.
	Listener interface {
		Transitioned(ctx context.Context, t model.Transition)
	}
)

// Store keeps one record per transaction hash plus status and finalization indexes.
type Store struct {
	db       *pebble.DB
	metrics  Metrics
	listener Listener
	now      func() time.Time

	// mu serializes read-modify-write cycles so transitions are compare-and-set.
	mu sync.Mutex
}

// NewStore opens (or creates) the store under storeDir.
func NewStore(storeDir string, listener Listener, metrics Metrics) (*Store, error) {
	return open(filepath.Join(storeDir, "txrelay-store"), &pebble.Options{}, listener, metrics)
}

// NewMemStore opens a store on an in-memory filesystem. Nothing survives Close.
func NewMemStore(listener Listener, metrics Metrics) (*Store, error) {
	return open("txrelay-store", &pebble.Options{FS: vfs.NewMem()}, listener, metrics)
}

func open(dir string, opts *pebble.Options, listener Listener, metrics Metrics) (*Store, error) {
	db, err := pebble.Open(dir, opts)
	if err != nil {
		return nil, fmt.Errorf("opening pebble db: %w", errors.Join(store.ErrStorage, err))
	}
	if metrics == nil {
		metrics = nopMetrics{}
	}
	if listener == nil {
		listener = nopListener{}
	}
	return &Store{
		db:       db,
		metrics:  metrics,
		listener: listener,
		now:      func() time.Time { return time.Now().UTC() },
	}, nil
}

// Close flushes and closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Insert stores a new Pending record. It reports false without error when the
// hash is already known, whatever its status. Every parent must be known.
func (s *Store) Insert(ctx context.Context, sub model.Submission, slot uint64) (inserted bool, err error) {
	started := time.Now()
	defer func() {
		s.metrics.Observe("insert", err, started)
	}()

	hash := sub.Hash
	if hash == "" {
		return false, errors.New("transaction hash is required")
	}
	priority, err := model.ParsePriority(string(sub.Priority))
	if err != nil {
		return false, err
	}
	if err = ctx.Err(); err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err = s.get(s.db, hash); err == nil {
		return false, nil
	} else if !errors.Is(err, store.ErrNotFound) {
		return false, err
	}

	parents, err := s.knownParents(hash, sub.Parents)
	if err != nil {
		return false, err
	}

	now := s.now()
	tx := model.Transaction{
		Hash:            hash,
		Raw:             bytes.Clone(sub.Raw),
		Status:          model.StatusPending,
		Priority:        priority,
		Parents:         parents,
		SubmittedSlot:   slot,
		LastAttemptSlot: slot,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	b := s.db.NewBatch()
	defer closeQuietly(b)

	if err = s.writeRecord(b, tx); err != nil {
		return false, err
	}
	if err = b.Set(statusKey(tx), nil, nil); err != nil {
		return false, storageErr("index inserted transaction", err)
	}
	if err = b.Commit(pebble.Sync); err != nil {
		return false, storageErr("commit inserted transaction", err)
	}

	s.listener.Transitioned(ctx, model.Transition{
		Hash: hash,
		To:   tx.Status,
		Slot: slot,
		At:   now,
	})
	return true, nil
}

// knownParents deduplicates parents and checks that each one is stored.
func (s *Store) knownParents(hash string, parents []string) ([]string, error) {
	if len(parents) == 0 {
		return nil, nil
	}
	seen := make(map[string]struct{}, len(parents))
	out := make([]string, 0, len(parents))
	for _, parent := range parents {
		if parent == hash {
			return nil, fmt.Errorf("%w: %s depends on itself", store.ErrUnknownParent, hash)
		}
		if _, ok := seen[parent]; ok {
			continue
		}
		seen[parent] = struct{}{}

		_, err := s.get(s.db, parent)
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", store.ErrUnknownParent, parent)
		}
		if err != nil {
			return nil, err
		}
		out = append(out, parent)
	}
	return out, nil
}

// Get returns the record stored for hash or store.ErrNotFound.
func (s *Store) Get(ctx context.Context, hash string) (tx model.Transaction, err error) {
	started := time.Now()
	defer func() {
		s.metrics.Observe("get", err, started)
	}()

	if err = ctx.Err(); err != nil {
		return model.Transaction{}, err
	}
	return s.get(s.db, hash)
}

// TransitionStatus moves a record from expected to next and applies changes
// atomically. It fails with store.ErrConflict when the stored status is not
// expected anymore.
func (s *Store) TransitionStatus(
	ctx context.Context,
	hash string,
	expected, next model.Status,
	changes ...model.Change,
) (tx model.Transaction, err error) {
	started := time.Now()
	defer func() {
		s.metrics.Observe("transition_status", err, started)
	}()

	if !model.CanTransition(expected, next) {
		return model.Transaction{}, fmt.Errorf("%w: %s -> %s", store.ErrIllegalTransition, expected, next)
	}
	if err = ctx.Err(); err != nil {
		return model.Transaction{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.get(s.db, hash)
	if err != nil {
		return model.Transaction{}, err
	}
	if current.Status != expected {
		return current, fmt.Errorf("%w: %s is %s, expected %s", store.ErrConflict, hash, current.Status, expected)
	}

	updated := current
	for _, change := range changes {
		change(&updated)
	}
	updated.Hash = current.Hash
	updated.Raw = current.Raw
	updated.Status = next
	updated.UpdatedAt = s.now()

	b := s.db.NewBatch()
	defer closeQuietly(b)

	if err = b.Delete(statusKey(current), nil); err != nil {
		return model.Transaction{}, storageErr("drop status index", err)
	}
	if current.Status.Terminal() {
		if err = b.Delete(finalKey(current.Status, current.FinalSlot, hash), nil); err != nil {
			return model.Transaction{}, storageErr("drop final index", err)
		}
	}
	if err = b.Set(statusKey(updated), nil, nil); err != nil {
		return model.Transaction{}, storageErr("write status index", err)
	}
	if updated.Status.Terminal() {
		if err = b.Set(finalKey(updated.Status, updated.FinalSlot, hash), nil, nil); err != nil {
			return model.Transaction{}, storageErr("write final index", err)
		}
	}
	if err = s.writeRecord(b, updated); err != nil {
		return model.Transaction{}, err
	}
	if err = b.Commit(pebble.Sync); err != nil {
		return model.Transaction{}, storageErr("commit transition", err)
	}

	s.listener.Transitioned(ctx, model.Transition{
		Hash:     hash,
		From:     current.Status,
		To:       updated.Status,
		Slot:     transitionSlot(updated),
		Attempts: updated.Attempts,
		Reason:   updated.FailureReason,
		At:       updated.UpdatedAt,
	})
	return updated, nil
}

// ListByStatus returns up to limit records with the given status from a
// consistent snapshot, oldest attempt slot first. Pending records come in
// priority order first.
func (s *Store) ListByStatus(ctx context.Context, status model.Status, limit int) (txs []model.Transaction, err error) {
	started := time.Now()
	defer func() {
		s.metrics.Observe("list_by_status", err, started)
	}()

	if limit <= 0 {
		return nil, nil
	}
	prefix := statusIndexPrefix(status)
	err = s.scanIndex(ctx, prefix, statusHeaderLen, prefix, upperBound(prefix), func(r pebble.Reader, hash string) (bool, error) {
		tx, err := s.get(r, hash)
		if err != nil {
			return false, err
		}
		txs = append(txs, tx)
		return len(txs) < limit, nil
	})
	if err != nil {
		return nil, err
	}
	return txs, nil
}

// ListClaimable returns up to limit Pending records ready for an attempt at
// tip, in priority order. A record whose last failed attempt happened at tip
// waits for the next slot. A record waits while one of its parents is still
// Pending or Propagating.
func (s *Store) ListClaimable(ctx context.Context, tip uint64, limit int) (txs []model.Transaction, err error) {
	started := time.Now()
	defer func() {
		s.metrics.Observe("list_claimable", err, started)
	}()

	if limit <= 0 {
		return nil, nil
	}
	prefix := statusIndexPrefix(model.StatusPending)
	err = s.scanIndex(ctx, prefix, statusHeaderLen, prefix, upperBound(prefix), func(r pebble.Reader, hash string) (bool, error) {
		tx, err := s.get(r, hash)
		if err != nil {
			return false, err
		}
		if tx.Attempts > 0 && tx.LastAttemptSlot >= tip {
			return true, nil
		}
		waiting, err := s.waitingOnParent(r, tx)
		if err != nil {
			return false, err
		}
		if !waiting {
			txs = append(txs, tx)
		}
		return len(txs) < limit, nil
	})
	if err != nil {
		return nil, err
	}
	return txs, nil
}

// waitingOnParent reports whether a parent of tx has not reached a peer yet.
// Pruned parents are settled.
func (s *Store) waitingOnParent(r pebble.Reader, tx model.Transaction) (bool, error) {
	for _, hash := range tx.Parents {
		parent, err := s.get(r, hash)
		if errors.Is(err, store.ErrNotFound) {
			continue
		}
		if err != nil {
			return false, err
		}
		if parent.Status == model.StatusPending || parent.Status == model.StatusPropagating {
			return true, nil
		}
	}
	return false, nil
}

// CountByStatus counts records with the given status, stopping at limit.
func (s *Store) CountByStatus(ctx context.Context, status model.Status, limit int) (count int, err error) {
	started := time.Now()
	defer func() {
		s.metrics.Observe("count_by_status", err, started)
	}()

	if limit <= 0 {
		return 0, nil
	}
	prefix := statusIndexPrefix(status)
	err = s.scanIndex(ctx, prefix, statusHeaderLen, prefix, upperBound(prefix), func(pebble.Reader, string) (bool, error) {
		count++
		return count < limit, nil
	})
	return count, err
}

// ListConfirmedAfter returns Confirmed records whose confirming block slot is
// greater than slot.
func (s *Store) ListConfirmedAfter(ctx context.Context, slot uint64) (txs []model.Transaction, err error) {
	started := time.Now()
	defer func() {
		s.metrics.Observe("list_confirmed_after", err, started)
	}()

	if slot == math.MaxUint64 {
		return nil, nil
	}
	prefix := finalIndexPrefix(model.StatusConfirmed)
	lower := finalSlotBound(model.StatusConfirmed, slot+1)
	err = s.scanIndex(ctx, prefix, finalHeaderLen, lower, upperBound(prefix), func(r pebble.Reader, hash string) (bool, error) {
		tx, err := s.get(r, hash)
		if err != nil {
			return false, err
		}
		txs = append(txs, tx)
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return txs, nil
}

// Prune removes Confirmed and Failed records finalized before olderThanSlot.
func (s *Store) Prune(ctx context.Context, olderThanSlot uint64) (pruned int, err error) {
	started := time.Now()
	defer func() {
		s.metrics.Observe("prune", err, started)
	}()

	if err = ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	b := s.db.NewBatch()
	defer closeQuietly(b)

	for _, status := range []model.Status{model.StatusConfirmed, model.StatusFailed} {
		prefix := finalIndexPrefix(status)
		err = s.scanIndex(ctx, prefix, finalHeaderLen, prefix, finalSlotBound(status, olderThanSlot), func(r pebble.Reader, hash string) (bool, error) {
			tx, err := s.get(r, hash)
			if err != nil {
				return false, err
			}
			if err := b.Delete(recordKey(hash), nil); err != nil {
				return false, storageErr("delete record", err)
			}
			if err := b.Delete(statusKey(tx), nil); err != nil {
				return false, storageErr("delete status index", err)
			}
			if err := b.Delete(finalKey(tx.Status, tx.FinalSlot, hash), nil); err != nil {
				return false, storageErr("delete final index", err)
			}
			pruned++
			return true, nil
		})
		if err != nil {
			return 0, err
		}
	}

	if pruned == 0 {
		return 0, nil
	}
	if err = b.Commit(pebble.Sync); err != nil {
		return 0, storageErr("commit prune", err)
	}
	return pruned, nil
}

// Tip returns the persisted chain watermark; the zero Tip when none is stored.
func (s *Store) Tip(ctx context.Context) (tip model.Tip, err error) {
	started := time.Now()
	defer func() {
		s.metrics.Observe("get_tip", err, started)
	}()

	if err = ctx.Err(); err != nil {
		return model.Tip{}, err
	}

	value, closer, err := s.db.Get([]byte(tipKey))
	if errors.Is(err, pebble.ErrNotFound) {
		return model.Tip{}, nil
	}
	if err != nil {
		return model.Tip{}, storageErr("get tip", err)
	}
	defer closeQuietly(closer)

	if err = json.Unmarshal(value, &tip); err != nil {
		return model.Tip{}, storageErr("decode tip", err)
	}
	return tip, nil
}

// SetTip persists the chain watermark.
func (s *Store) SetTip(ctx context.Context, tip model.Tip) (err error) {
	started := time.Now()
	defer func() {
		s.metrics.Observe("set_tip", err, started)
	}()

	if err = ctx.Err(); err != nil {
		return err
	}
	value, err := json.Marshal(tip)
	if err != nil {
		return fmt.Errorf("encode tip: %w", err)
	}
	if err = s.db.Set([]byte(tipKey), value, pebble.Sync); err != nil {
		return storageErr("set tip", err)
	}
	return nil
}

func (s *Store) get(r pebble.Reader, hash string) (model.Transaction, error) {
	value, closer, err := r.Get(recordKey(hash))
	if errors.Is(err, pebble.ErrNotFound) {
		return model.Transaction{}, fmt.Errorf("%w: %s", store.ErrNotFound, hash)
	}
	if err != nil {
		return model.Transaction{}, storageErr("get transaction", err)
	}
	defer closeQuietly(closer)

	var tx model.Transaction
	if err := json.Unmarshal(value, &tx); err != nil {
		return model.Transaction{}, storageErr("decode transaction", err)
	}
	return tx, nil
}

func (s *Store) writeRecord(b *pebble.Batch, tx model.Transaction) error {
	value, err := json.Marshal(tx)
	if err != nil {
		return fmt.Errorf("encode transaction %s: %w", tx.Hash, err)
	}
	if err := b.Set(recordKey(tx.Hash), value, nil); err != nil {
		return storageErr("write transaction", err)
	}
	return nil
}

// scanIndex walks index keys in [lower, upper) on a snapshot until fn returns
// false. headerLen is the width of the ordering fields between prefix and hash.
func (s *Store) scanIndex(
	ctx context.Context,
	prefix []byte,
	headerLen int,
	lower, upper []byte,
	fn func(r pebble.Reader, hash string) (bool, error),
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	snap := s.db.NewSnapshot()
	defer closeQuietly(snap)

	iter, err := snap.NewIter(&pebble.IterOptions{LowerBound: lower, UpperBound: upper})
	if err != nil {
		return storageErr("open iterator", err)
	}
	defer closeQuietly(iter)

	for valid := iter.First(); valid; valid = iter.Next() {
		if err := ctx.Err(); err != nil {
			return err
		}
		hash := hashFromIndexKey(prefix, headerLen, iter.Key())
		if hash == "" {
			continue
		}
		more, err := fn(snap, hash)
		if err != nil {
			return err
		}
		if !more {
			break
		}
	}
	if err := iter.Error(); err != nil {
		return storageErr("iterate index", err)
	}
	return nil
}

func transitionSlot(tx model.Transaction) uint64 {
	if tx.Status.Terminal() {
		return tx.FinalSlot
	}
	return tx.LastAttemptSlot
}

func storageErr(op string, err error) error {
	return fmt.Errorf("%s: %w", op, errors.Join(store.ErrStorage, err))
}

func closeQuietly(c io.Closer) {
	_ = c.Close()
}

type nopMetrics struct{}

func (nopMetrics) Observe(string, error, time.Time) {}

type nopListener struct{}

func (nopListener) Transitioned(context.Context, model.Transition) {}
