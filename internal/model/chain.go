package model

// Tip is the most recent block processed by the chain monitor.
type Tip struct {
	Slot    uint64 `json:"slot"`
	Height  uint64 `json:"height"`
	BlockID string `json:"block_id"`
}

// Known reports whether a block has been processed at all.
func (t Tip) Known() bool {
	return t.BlockID != ""
}

// BlockEvent is a block inclusion or rollback observed by a chain-sync source.
// For a rollback, Slot is the slot to roll back to and BlockID/Height identify
// the block at that slot.
type BlockEvent struct {
	Slot     uint64   `json:"slot"`
	Height   uint64   `json:"height"`
	BlockID  string   `json:"block_id"`
	ParentID string   `json:"parent_id,omitempty"`
	TxHashes []string `json:"tx_hashes,omitempty"`
	Rollback bool     `json:"rollback,omitempty"`
}

// Ref returns the block reference carried by the event.
func (e BlockEvent) Ref() BlockRef {
	return BlockRef{Slot: e.Slot, ID: e.BlockID}
}

// Tip returns the watermark the event moves the chain to.
func (e BlockEvent) Tip() Tip {
	return Tip{Slot: e.Slot, Height: e.Height, BlockID: e.BlockID}
}
