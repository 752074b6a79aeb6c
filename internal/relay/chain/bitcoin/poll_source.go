// Package bitcoin turns a Bitcoin node into a chain-sync source by polling
// its RPC interface.
package bitcoin

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goodnatureofminers/txrelay/internal/clock"
	"github.com/goodnatureofminers/txrelay/internal/model"
	"github.com/goodnatureofminers/txrelay/internal/relay/chain"
	"github.com/goodnatureofminers/txrelay/pkg/safe"
	"go.uber.org/zap"
)

const (
	defaultPollInterval = 10 * time.Second
	defaultWindow       = 100
	maxBlocksPerPoll    = 100
)

type recentBlock struct {
	height uint64
	hash   string
}

// PollSource emits block events by walking the node's best chain height by
// height. Reorganizations are detected by parent mismatch and reported as a
// rollback to the fork point before the new branch is replayed.
type PollSource struct {
	rpc      RPCClient
	tips     TipReader
	interval time.Duration
	window   int
	logger   *zap.Logger
	sleep    func(context.Context, time.Duration) error

	initialized bool
	next        uint64
	recent      []recentBlock
	queue       []model.BlockEvent
}

// NewPollSource builds a PollSource. It resumes after the tip reported by
// tips on the first call to Next.
func NewPollSource(rpc RPCClient, tips TipReader, interval time.Duration, window int, logger *zap.Logger) (*PollSource, error) {
	if rpc == nil || tips == nil {
		return nil, errors.New("rpc client and tip reader are required")
	}
	if interval <= 0 {
		interval = defaultPollInterval
	}
	if window <= 0 {
		window = defaultWindow
	}
	return &PollSource{
		rpc:      rpc,
		tips:     tips,
		interval: interval,
		window:   window,
		logger:   logger,
		sleep:    clock.SleepWithContext,
	}, nil
}

// Next blocks until the next event is available. RPC failures are reported
// as chain.ErrSubscription.
func (s *PollSource) Next(ctx context.Context) (model.BlockEvent, error) {
	for {
		if len(s.queue) > 0 {
			event := s.queue[0]
			s.queue = s.queue[1:]
			return event, nil
		}
		if err := ctx.Err(); err != nil {
			return model.BlockEvent{}, err
		}

		if err := s.poll(ctx); err != nil {
			if ctx.Err() != nil {
				return model.BlockEvent{}, ctx.Err()
			}
			if errors.Is(err, chain.ErrChainSyncGap) {
				return model.BlockEvent{}, err
			}
			return model.BlockEvent{}, fmt.Errorf("%w: %v", chain.ErrSubscription, err)
		}
		if len(s.queue) == 0 {
			if err := s.sleep(ctx, s.interval); err != nil {
				return model.BlockEvent{}, err
			}
		}
	}
}

// Close releases nothing; the RPC client is owned by the caller.
func (s *PollSource) Close() error {
	return nil
}

func (s *PollSource) poll(ctx context.Context) error {
	if !s.initialized {
		if err := s.init(); err != nil {
			return err
		}
	}

	count, err := s.rpc.GetBlockCount()
	if err != nil {
		return fmt.Errorf("get block count: %w", err)
	}
	best, err := safe.Uint64(count)
	if err != nil {
		return fmt.Errorf("block count overflow: %w", err)
	}

	for fetched := 0; s.next <= best && fetched < maxBlocksPerPoll; fetched++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		event, err := s.fetch(s.next)
		if err != nil {
			return err
		}

		if last, ok := s.last(); ok && event.ParentID != last.hash {
			return s.reorg(event)
		}

		s.queue = append(s.queue, event)
		s.remember(recentBlock{height: event.Height, hash: event.BlockID})
		s.next = event.Height + 1
	}
	return nil
}

func (s *PollSource) init() error {
	tip := s.tips.Tip()
	if tip.Known() {
		s.next = tip.Height + 1
		s.recent = []recentBlock{{height: tip.Height, hash: tip.BlockID}}
	} else {
		count, err := s.rpc.GetBlockCount()
		if err != nil {
			return fmt.Errorf("get block count: %w", err)
		}
		if s.next, err = safe.Uint64(count); err != nil {
			return fmt.Errorf("block count overflow: %w", err)
		}
	}
	s.initialized = true
	s.logger.Info("polling chain", zap.Uint64("from_height", s.next))
	return nil
}

func (s *PollSource) fetch(height uint64) (model.BlockEvent, error) {
	h, err := safe.Int64(height)
	if err != nil {
		return model.BlockEvent{}, fmt.Errorf("block height %d exceeds rpc limit: %w", height, err)
	}
	hash, err := s.rpc.GetBlockHash(h)
	if err != nil {
		return model.BlockEvent{}, fmt.Errorf("get block hash at height %d: %w", height, err)
	}
	block, err := s.rpc.GetBlockVerbose(hash)
	if err != nil {
		return model.BlockEvent{}, fmt.Errorf("get block %s: %w", hash, err)
	}

	return model.BlockEvent{
		Slot:     height,
		Height:   height,
		BlockID:  block.Hash,
		ParentID: block.PreviousHash,
		TxHashes: block.Tx,
	}, nil
}

// reorg walks the remembered window back to the newest block that is still
// on the best chain and queues a rollback to it.
func (s *PollSource) reorg(orphaning model.BlockEvent) error {
	for i := len(s.recent) - 1; i >= 0; i-- {
		candidate := s.recent[i]
		h, err := safe.Int64(candidate.height)
		if err != nil {
			return err
		}
		hash, err := s.rpc.GetBlockHash(h)
		if err != nil {
			return fmt.Errorf("get block hash at height %d: %w", candidate.height, err)
		}
		if hash.String() != candidate.hash {
			continue
		}

		s.logger.Warn("chain reorganization detected",
			zap.Uint64("fork_height", candidate.height),
			zap.String("fork_block", candidate.hash),
			zap.Uint64("new_height", orphaning.Height),
		)
		s.recent = s.recent[:i+1]
		s.next = candidate.height + 1
		s.queue = append(s.queue, model.BlockEvent{
			Slot:     candidate.height,
			Height:   candidate.height,
			BlockID:  candidate.hash,
			Rollback: true,
		})
		return nil
	}
	return fmt.Errorf("%w: reorganization at height %d is deeper than %d blocks",
		chain.ErrChainSyncGap, orphaning.Height, len(s.recent))
}

func (s *PollSource) last() (recentBlock, bool) {
	if len(s.recent) == 0 {
		return recentBlock{}, false
	}
	return s.recent[len(s.recent)-1], true
}

func (s *PollSource) remember(b recentBlock) {
	s.recent = append(s.recent, b)
	if len(s.recent) > s.window {
		s.recent = s.recent[len(s.recent)-s.window:]
	}
}
