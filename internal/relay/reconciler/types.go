package reconciler

import (
	"context"
	"time"

	"github.com/goodnatureofminers/txrelay/internal/model"
	"github.com/goodnatureofminers/txrelay/internal/relay/peer"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	Store interface {
		Insert(ctx context.Context, sub model.Submission, slot uint64) (bool, error)
		Get(ctx context.Context, hash string) (model.Transaction, error)
		TransitionStatus(ctx context.Context, hash string, expected, next model.Status, changes ...model.Change) (model.Transaction, error)
		ListByStatus(ctx context.Context, status model.Status, limit int) ([]model.Transaction, error)
		ListClaimable(ctx context.Context, tip uint64, limit int) ([]model.Transaction, error)
		CountByStatus(ctx context.Context, status model.Status, limit int) (int, error)
	}
	Propagator interface {
		Propagate(ctx context.Context, hash string, raw []byte) peer.Result
	}
	TipReader interface {
		Tip() model.Tip
	}
	Metrics interface {
		ObserveSubmit(result string)
		ObserveProcess(result string, started time.Time)
		ObserveBatch(size int)
	}
)
