package peer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcjson"
	"github.com/btcsuite/btcd/wire"
)

// rpcVerifyAlreadyInChain is the node error code for a transaction that is
// already part of the chain.
const rpcVerifyAlreadyInChain btcjson.RPCErrorCode = -27

// RPCClient delivers transactions to a node over JSON-RPC.
type RPCClient struct {
	rpc           NodeRPC
	allowHighFees bool
}

// NewRPCClient wraps a node RPC connection as a peer Client.
func NewRPCClient(rpc NodeRPC, allowHighFees bool) *RPCClient {
	return &RPCClient{rpc: rpc, allowHighFees: allowHighFees}
}

// Send submits the serialized transaction. A node that already knows the
// transaction counts as an acknowledgement.
func (c *RPCClient) Send(ctx context.Context, raw []byte) error {
	tx := wire.NewMsgTx(wire.TxVersion)
	if err := tx.Deserialize(bytes.NewReader(raw)); err != nil {
		return fmt.Errorf("decode transaction: %w", err)
	}

	err := call(ctx, func() error {
		_, err := c.rpc.SendRawTransaction(tx, c.allowHighFees)
		return err
	})
	if err != nil && !alreadyKnown(err) {
		return err
	}
	return nil
}

// Ping checks that the node answers RPC calls.
func (c *RPCClient) Ping(ctx context.Context) error {
	return call(ctx, func() error {
		_, err := c.rpc.GetBlockCount()
		return err
	})
}

// call runs a blocking RPC and gives up when ctx is done. The RPC itself is
// bounded by the client's own HTTP timeout.
func call(ctx context.Context, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	errCh := make(chan error, 1)
	go func() {
		errCh <- fn()
	}()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}

func alreadyKnown(err error) bool {
	var rpcErr *btcjson.RPCError
	if !errors.As(err, &rpcErr) {
		var valueErr btcjson.RPCError
		if !errors.As(err, &valueErr) {
			return false
		}
		rpcErr = &valueErr
	}
	if rpcErr.Code == rpcVerifyAlreadyInChain {
		return true
	}
	msg := strings.ToLower(rpcErr.Message)
	return strings.Contains(msg, "txn-already-in-mempool") ||
		strings.Contains(msg, "txn-already-known") ||
		strings.Contains(msg, "already in block chain")
}
