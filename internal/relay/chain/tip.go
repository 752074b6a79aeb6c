package chain

import (
	"sync/atomic"

	"github.com/goodnatureofminers/txrelay/internal/model"
)

// TipTracker publishes the watermark to concurrent readers. Only the Monitor
// writes it.
type TipTracker struct {
	tip atomic.Pointer[model.Tip]
}

// NewTipTracker returns a tracker with an unknown tip.
func NewTipTracker() *TipTracker {
	t := &TipTracker{}
	t.tip.Store(&model.Tip{})
	return t
}

// Tip returns the current watermark.
func (t *TipTracker) Tip() model.Tip {
	return *t.tip.Load()
}

func (t *TipTracker) set(tip model.Tip) {
	t.tip.Store(&tip)
}
