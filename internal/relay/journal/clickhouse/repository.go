// Package clickhouse writes the transition journal to ClickHouse.
package clickhouse

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/goodnatureofminers/txrelay/internal/model"
)

type Repository struct {
	conn    clickhouse.Conn
	prepare func(ctx context.Context, query string) (Batch, error)
	metrics Metrics
}

func NewRepository(dsn string, metrics Metrics) (*Repository, error) {
	if dsn == "" {
		return nil, errors.New("clickhouse dsn is required")
	}

	options, err := clickhouse.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse clickhouse dsn: %w", err)
	}

	conn, err := clickhouse.Open(options)
	if err != nil {
		return nil, fmt.Errorf("open clickhouse connection: %w", err)
	}

	return &Repository{
		conn: conn,
		prepare: func(ctx context.Context, query string) (Batch, error) {
			batch, err := conn.PrepareBatch(ctx, query)
			if err != nil {
				return nil, err
			}
			return batch, nil
		},
		metrics: metrics,
	}, nil
}

// Close releases the connection.
func (r *Repository) Close() error {
	return r.conn.Close()
}

// InsertTransitions appends committed status transitions to tx_transitions.
func (r *Repository) InsertTransitions(ctx context.Context, transitions []model.Transition) error {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("insert_transitions", firstCoin(transitions), firstNetwork(transitions), err, start)
	}()

	if len(transitions) == 0 {
		return nil
	}

	batch, err := r.prepare(ctx, insertTransitionsQuery)
	if err != nil {
		return fmt.Errorf("prepare transitions batch: %w", err)
	}

	for _, t := range transitions {
		if err = batch.Append(
			string(t.Coin),
			string(t.Network),
			t.Hash,
			string(t.From),
			string(t.To),
			t.Slot,
			t.Attempts,
			t.Reason,
			t.At,
		); err != nil {
			_ = batch.Abort()
			return fmt.Errorf("append transition: %w", err)
		}
	}

	if err = batch.Send(); err != nil {
		return fmt.Errorf("insert transitions: %w", err)
	}
	return nil
}

const insertTransitionsQuery = `
INSERT INTO tx_transitions (
	coin,
	network,
	hash,
	from_status,
	to_status,
	slot,
	attempts,
	reason,
	at
) VALUES`

func firstCoin(ts []model.Transition) model.Coin {
	if len(ts) == 0 {
		return ""
	}
	return ts[0].Coin
}

func firstNetwork(ts []model.Transition) model.Network {
	if len(ts) == 0 {
		return ""
	}
	return ts[0].Network
}
