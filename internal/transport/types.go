package transport

import (
	"context"

	"github.com/goodnatureofminers/txrelay/internal/model"
	"github.com/goodnatureofminers/txrelay/internal/relay/reconciler"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	Submitter interface {
		Submit(ctx context.Context, sub model.Submission) (reconciler.SubmitResult, error)
	}
	TxReader interface {
		Get(ctx context.Context, hash string) (model.Transaction, error)
	}
	PeerLister interface {
		Snapshot() []model.Peer
	}
	// FaultReporter is told about failures that must stop the process.
	FaultReporter interface {
		Fault(component string, err error)
	}
)

// FaultFunc adapts a function to FaultReporter.
type FaultFunc func(component string, err error)

// Fault calls f.
func (f FaultFunc) Fault(component string, err error) {
	f(component, err)
}
