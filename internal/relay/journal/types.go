package journal

import (
	"context"

	"github.com/goodnatureofminers/txrelay/internal/model"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	Writer interface {
		InsertTransitions(ctx context.Context, transitions []model.Transition) error
	}
)
