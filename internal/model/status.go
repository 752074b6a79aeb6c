// Package model defines domain models for the transaction relay.
package model

// Status describes the lifecycle stage of a relayed transaction.
type Status string

const (
	// StatusPending marks a transaction waiting to be propagated.
	StatusPending Status = "pending"
	// StatusPropagating marks a transaction with a fan-out attempt in progress.
	StatusPropagating Status = "propagating"
	// StatusInFlight marks a transaction acknowledged by at least one peer.
	StatusInFlight Status = "inflight"
	// StatusConfirmed marks a transaction observed in a block.
	StatusConfirmed Status = "confirmed"
	// StatusFailed marks a transaction that will not be retried.
	StatusFailed Status = "failed"
)

var transitions = map[Status][]Status{
	StatusPending:     {StatusPropagating, StatusFailed},
	StatusPropagating: {StatusInFlight, StatusPending, StatusFailed},
	StatusInFlight:    {StatusConfirmed, StatusPending, StatusFailed},
	StatusConfirmed:   {StatusPending},
}

// Terminal reports whether no further transition is expected without a rollback.
func (s Status) Terminal() bool {
	return s == StatusConfirmed || s == StatusFailed
}

// CanTransition reports whether the lifecycle allows moving from one status to another.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
