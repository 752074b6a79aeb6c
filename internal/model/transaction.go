package model

import "time"

const (
	// FailureRetryBudgetExhausted is recorded when a transaction ran out of attempts.
	FailureRetryBudgetExhausted = "retry budget exhausted"
	// FailureParentFailed is recorded when a transaction depends on a failed one.
	FailureParentFailed = "parent failed"
)

// BlockRef identifies a block by slot and id.
type BlockRef struct {
	Slot uint64 `json:"slot"`
	ID   string `json:"id"`
}

// Transaction is the persisted lifecycle record of a submitted transaction.
// Parents must be acknowledged by a peer before the record is propagated.
type Transaction struct {
	Hash            string    `json:"hash"`
	Raw             []byte    `json:"raw"`
	Status          Status    `json:"status"`
	Priority        Priority  `json:"priority,omitempty"`
	Parents         []string  `json:"parents,omitempty"`
	SubmittedSlot   uint64    `json:"submitted_slot"`
	LastAttemptSlot uint64    `json:"last_attempt_slot"`
	Attempts        uint32    `json:"attempts"`
	FailureReason   string    `json:"failure_reason,omitempty"`
	ConfirmingBlock *BlockRef `json:"confirming_block,omitempty"`
	// FinalSlot is the slot at which the record reached Confirmed or Failed.
	FinalSlot uint64    `json:"final_slot,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Submission is a transaction handed to the relay for propagation.
type Submission struct {
	Hash     string
	Raw      []byte
	Priority Priority
	Parents  []string
}

// Change mutates fields of a record as part of a status transition.
type Change func(*Transaction)

// WithLastAttemptSlot records the slot of the current propagation attempt.
func WithLastAttemptSlot(slot uint64) Change {
	return func(tx *Transaction) {
		tx.LastAttemptSlot = slot
	}
}

// WithAttemptIncrement bumps the attempt counter.
func WithAttemptIncrement() Change {
	return func(tx *Transaction) {
		tx.Attempts++
	}
}

// WithFailure records the failure reason and the slot it happened at.
func WithFailure(reason string, slot uint64) Change {
	return func(tx *Transaction) {
		tx.FailureReason = reason
		tx.FinalSlot = slot
	}
}

// WithConfirmation records the block that included the transaction.
func WithConfirmation(ref BlockRef) Change {
	return func(tx *Transaction) {
		b := ref
		tx.ConfirmingBlock = &b
		tx.FinalSlot = ref.Slot
	}
}

// WithoutConfirmation clears a confirmation reverted by a rollback.
func WithoutConfirmation() Change {
	return func(tx *Transaction) {
		tx.ConfirmingBlock = nil
		tx.FinalSlot = 0
	}
}

// Transition describes a committed status change.
type Transition struct {
	Coin     Coin
	Network  Network
	Hash     string
	From     Status
	To       Status
	Slot     uint64
	Attempts uint32
	Reason   string
	At       time.Time
}
