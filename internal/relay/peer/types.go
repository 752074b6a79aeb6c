// Package peer keeps the configured network peers and propagates
// transactions to them.
package peer

import (
	"context"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/goodnatureofminers/txrelay/internal/model"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	// Client delivers transactions to a single peer.
	Client interface {
		Send(ctx context.Context, raw []byte) error
		Ping(ctx context.Context) error
	}
	RegistryMetrics interface {
		SetPeerHealth(peer string, health model.PeerHealth)
	}
	PropagatorMetrics interface {
		ObserveAttempt(peer string, err error, started time.Time)
		ObserveOutcome(outcome model.Outcome, started time.Time)
	}
	// NodeRPC is the subset of the node RPC API used to talk to a peer.
	NodeRPC interface {
		SendRawTransaction(tx *wire.MsgTx, allowHighFees bool) (*chainhash.Hash, error)
		GetBlockCount() (int64, error)
	}
)
