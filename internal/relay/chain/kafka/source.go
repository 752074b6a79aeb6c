// Package kafka consumes block events published to a Kafka topic by an
// external chain indexer.
package kafka

import (
	"context"
	"encoding/json"

	"github.com/goodnatureofminers/txrelay/internal/model"
	"github.com/goodnatureofminers/txrelay/internal/relay/chain"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/twmb/franz-go/pkg/kgo"
	"github.com/twmb/franz-go/plugin/kprom"
	"go.uber.org/zap"
)

const maxPollRecords = 500

// Config locates the block event topic.
type Config struct {
	Brokers          []string
	Topic            string
	ConsumerGroup    string
	MetricsNamespace string
}

// NewClient connects a consumer group client with prometheus hooks. The
// topic must have a single partition so events keep their slot order.
func NewClient(cfg Config) (*kgo.Client, error) {
	if len(cfg.Brokers) == 0 || cfg.Topic == "" || cfg.ConsumerGroup == "" {
		return nil, errors.New("kafka brokers, topic and consumer group are required")
	}
	m := kprom.NewMetrics(cfg.MetricsNamespace,
		kprom.Registerer(prometheus.DefaultRegisterer),
		kprom.Gatherer(prometheus.DefaultGatherer))
	kcl, err := kgo.NewClient(
		kgo.WithHooks(m),
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.ConsumeTopics(cfg.Topic),
		kgo.ConsumerGroup(cfg.ConsumerGroup),
		kgo.BlockRebalanceOnPoll(),
		kgo.DisableAutoCommit(),
	)
	if err != nil {
		return nil, errors.Wrap(err, "creating kafka client")
	}
	return kcl, nil
}

// Source yields block events from Kafka. A record's offset is committed
// when the next event is pulled, after the monitor applied the previous one.
type Source struct {
	kcl    Client
	logger *zap.Logger

	buffered []*kgo.Record
	applied  *kgo.Record
}

// NewSource wraps a consumer client.
func NewSource(kcl Client, logger *zap.Logger) *Source {
	return &Source{kcl: kcl, logger: logger}
}

// Next returns the next block event. Broker and commit failures are
// reported as chain.ErrSubscription; a malformed event is fatal.
func (s *Source) Next(ctx context.Context) (model.BlockEvent, error) {
	if s.applied != nil {
		if err := s.kcl.CommitRecords(ctx, s.applied); err != nil {
			return model.BlockEvent{}, errors.Wrapf(chain.ErrSubscription, "committing offset %d: %v", s.applied.Offset, err)
		}
		s.applied = nil
	}

	for len(s.buffered) == 0 {
		if err := s.poll(ctx); err != nil {
			return model.BlockEvent{}, err
		}
	}

	record := s.buffered[0]
	s.buffered = s.buffered[1:]

	event, err := decode(record)
	if err != nil {
		return model.BlockEvent{}, err
	}
	s.applied = record
	return event, nil
}

// Close leaves the consumer group and closes the client.
func (s *Source) Close() error {
	s.kcl.Close()
	return nil
}

func (s *Source) poll(ctx context.Context) error {
	fetches := s.kcl.PollRecords(ctx, maxPollRecords)
	defer s.kcl.AllowRebalance()

	if err := ctx.Err(); err != nil {
		return err
	}
	if fetches.IsClientClosed() {
		return errors.Wrap(chain.ErrSubscription, "kafka client closed")
	}
	if errs := fetches.Errors(); len(errs) > 0 {
		for _, fe := range errs {
			s.logger.Warn("fetch error",
				zap.String("topic", fe.Topic),
				zap.Int32("partition", fe.Partition),
				zap.Error(fe.Err),
			)
		}
		return errors.Wrapf(chain.ErrSubscription, "fetching records: %v", errs[0].Err)
	}

	s.buffered = append(s.buffered, fetches.Records()...)
	return nil
}

func decode(record *kgo.Record) (model.BlockEvent, error) {
	var event model.BlockEvent
	if err := json.Unmarshal(record.Value, &event); err != nil {
		return model.BlockEvent{}, errors.Wrapf(err, "unmarshalling block event at offset %d", record.Offset)
	}
	if event.BlockID == "" {
		return model.BlockEvent{}, errors.Errorf("block event at offset %d has no block id", record.Offset)
	}
	return event, nil
}
