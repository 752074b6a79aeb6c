// Package metrics exposes prometheus collectors for the relay components.
package metrics

import (
	"errors"

	"github.com/goodnatureofminers/txrelay/internal/model"
	"github.com/goodnatureofminers/txrelay/internal/relay/store"
)

const namespace = "txrelay"

func labels(coin model.Coin, network model.Network) (string, string) {
	if coin == "" {
		coin = "unknown"
	}
	if network == "" {
		network = "unknown"
	}
	return string(coin), string(network)
}

func status(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, store.ErrConflict):
		return "conflict"
	case errors.Is(err, store.ErrNotFound):
		return "not_found"
	default:
		return "error"
	}
}
