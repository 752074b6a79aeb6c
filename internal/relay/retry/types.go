package retry

import (
	"context"
	"time"

	"github.com/goodnatureofminers/txrelay/internal/model"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	Store interface {
		ListByStatus(ctx context.Context, status model.Status, limit int) ([]model.Transaction, error)
		TransitionStatus(ctx context.Context, hash string, expected, next model.Status, changes ...model.Change) (model.Transaction, error)
		Prune(ctx context.Context, olderThanSlot uint64) (int, error)
	}
	TipReader interface {
		Tip() model.Tip
	}
	Notifier interface {
		Notify()
	}
	Metrics interface {
		ObserveScan(err error, started time.Time)
		ObserveRetried()
		ObserveExhausted()
		ObservePruned(count int)
	}
)
