package kafka

import (
	"context"

	"github.com/twmb/franz-go/pkg/kgo"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	// Client is the subset of *kgo.Client the source consumes through.
	Client interface {
		PollRecords(ctx context.Context, maxPollRecords int) kgo.Fetches
		CommitRecords(ctx context.Context, rs ...*kgo.Record) error
		AllowRebalance()
		Close()
	}
)
