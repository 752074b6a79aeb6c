package clickhouse

import (
	"time"

	"github.com/goodnatureofminers/txrelay/internal/model"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	Metrics interface {
		Observe(operation string, coin model.Coin, network model.Network, err error, started time.Time)
	}
	// Batch is the part of driver.Batch the repository uses.
	Batch interface {
		Append(v ...any) error
		Send() error
		Abort() error
	}
)
