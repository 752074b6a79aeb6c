// Package journal ships committed status transitions to an append-only audit log.
package journal

import (
	"context"
	"errors"
	"time"

	"github.com/goodnatureofminers/txrelay/internal/model"
	"github.com/goodnatureofminers/txrelay/pkg/batcher"
	"go.uber.org/zap"
)

const (
	defaultFlushSize     = 500
	defaultFlushInterval = 2 * time.Second
	defaultFlushRPS      = 10
)

// Config controls journal buffering.
type Config struct {
	Coin          model.Coin
	Network       model.Network
	FlushSize     int
	FlushInterval time.Duration
}

// Journal buffers transitions and writes them in batches. Transitioned never
// blocks the store: when the buffer is full the transition is dropped and logged.
type Journal struct {
	coin    model.Coin
	network model.Network
	batcher *batcher.Batcher[model.Transition]
	logger  *zap.Logger
}

// New constructs a Journal writing through writer.
func New(writer Writer, cfg Config, logger *zap.Logger) (*Journal, error) {
	if writer == nil {
		return nil, errors.New("journal writer is required")
	}
	if cfg.FlushSize <= 0 {
		cfg.FlushSize = defaultFlushSize
	}
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = defaultFlushInterval
	}

	logger = logger.Named("journal")
	return &Journal{
		coin:    cfg.Coin,
		network: cfg.Network,
		batcher: batcher.New(logger, writer.InsertTransitions, batcher.Options{
			FlushSize:     cfg.FlushSize,
			FlushInterval: cfg.FlushInterval,
			RPS:           defaultFlushRPS,
		}),
		logger: logger,
	}, nil
}

// Start begins flushing buffered transitions.
func (j *Journal) Start(ctx context.Context) {
	j.batcher.Start(ctx)
}

// Stop flushes what is buffered and stops the journal.
func (j *Journal) Stop() {
	j.batcher.Stop()
}

// Transitioned queues a committed transition.
func (j *Journal) Transitioned(_ context.Context, t model.Transition) {
	t.Coin = j.coin
	t.Network = j.network
	if !j.batcher.TryAdd(t) {
		j.logger.Warn("journal buffer full, transition dropped",
			zap.String("hash", t.Hash),
			zap.String("to", string(t.To)),
		)
	}
}
