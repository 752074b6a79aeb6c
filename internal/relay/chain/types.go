// Package chain applies block inclusion and rollback events to the
// transaction store and owns the chain tip watermark.
package chain

import (
	"context"
	"time"

	"github.com/goodnatureofminers/txrelay/internal/model"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	// Subscription yields block events in slot order.
	Subscription interface {
		Next(ctx context.Context) (model.BlockEvent, error)
		Close() error
	}
	Store interface {
		Get(ctx context.Context, hash string) (model.Transaction, error)
		TransitionStatus(ctx context.Context, hash string, expected, next model.Status, changes ...model.Change) (model.Transaction, error)
		ListConfirmedAfter(ctx context.Context, slot uint64) ([]model.Transaction, error)
		Tip(ctx context.Context) (model.Tip, error)
		SetTip(ctx context.Context, tip model.Tip) error
	}
	Metrics interface {
		ObserveEvent(kind string, err error, started time.Time)
		ObserveConfirmed(count int)
		ObserveRequeued(count int)
		SetTip(slot uint64)
	}
	// Notifier is woken up when records are requeued.
	Notifier interface {
		Notify()
	}
)
