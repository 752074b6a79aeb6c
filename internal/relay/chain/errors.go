package chain

import "errors"

var (
	// ErrChainSyncGap reports a discontinuity in the block stream. The monitor
	// stops on it because confirmations cannot be inferred for missed blocks.
	ErrChainSyncGap = errors.New("chain sync gap")
	// ErrSubscription reports a stream-level fault of the chain-sync source.
	// The source reconnects on its own; the monitor backs off and retries.
	ErrSubscription = errors.New("chain subscription fault")
)
