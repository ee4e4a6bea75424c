package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang/protobuf/proto"
	"github.com/rs/zerolog"
	"github.com/twmb/franz-go/pkg/kgo"

	mirrorv1 "github.com/ivorypay-org/ivorypay-hedera-node/api/mirror/v1"
	"github.com/ivorypay-org/ivorypay-hedera-node/internal/topic"
)

// Appender persists admitted topic messages.
type Appender interface {
	Append(ctx context.Context, msgs ...*topic.Message) error
}

// EntityWriter persists mirrored entity records.
type EntityWriter interface {
	Put(ctx context.Context, e topic.Entity) error
}

// Publisher broadcasts a committed message on the live pathway.
type Publisher interface {
	Publish(m *topic.Message)
}

// Options configures the Kafka consumer.
type Options struct {
	Brokers  []string
	Topic    string
	GroupID  string
	ClientID string
	// Filter is an optional CEL admission expression.
	Filter string
}

// Consumer drains committed mirror records from Kafka in partition order.
// Records are appended to storage before they are broadcast, and offsets
// commit only after the append succeeds.
type Consumer struct {
	opts   Options
	client *kgo.Client
	filter celFilter
	msgs   Appender
	ents   EntityWriter
	bus    Publisher
	logger zerolog.Logger
}

// NewConsumer builds the consumer and its Kafka client.
func NewConsumer(opts Options, msgs Appender, ents EntityWriter, bus Publisher, logger zerolog.Logger, kopts ...kgo.Opt) (*Consumer, error) {
	if len(opts.Brokers) == 0 {
		return nil, errors.New("ingest: brokers are required")
	}
	if opts.Topic == "" {
		return nil, errors.New("ingest: topic is required")
	}
	if opts.GroupID == "" {
		return nil, errors.New("ingest: group id is required")
	}
	filter, err := newCELFilter(opts.Filter)
	if err != nil {
		return nil, fmt.Errorf("ingest: compile filter: %w", err)
	}

	base := []kgo.Opt{
		kgo.SeedBrokers(opts.Brokers...),
		kgo.ConsumerGroup(opts.GroupID),
		kgo.ConsumeTopics(opts.Topic),
		kgo.DisableAutoCommit(),
		kgo.FetchMaxWait(time.Second),
	}
	if opts.ClientID != "" {
		base = append(base, kgo.ClientID(opts.ClientID))
	}
	base = append(base, kopts...)

	cl, err := kgo.NewClient(base...)
	if err != nil {
		return nil, fmt.Errorf("ingest: new kafka client: %w", err)
	}
	return &Consumer{
		opts:   opts,
		client: cl,
		filter: filter,
		msgs:   msgs,
		ents:   ents,
		bus:    bus,
		logger: logger.With().Str("component", "ingest").Logger(),
	}, nil
}

// Run consumes until ctx is done, the client closes, a fetch fails, or a
// storage error makes progress unsafe.
// Undecodable and rejected records are logged, skipped, and committed.
func (c *Consumer) Run(ctx context.Context) error {
	defer c.client.Close()
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fetches := c.client.PollRecords(ctx, 500)
		if fetches.IsClientClosed() {
			return nil
		}
		if errs := fetches.Errors(); len(errs) > 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
			return fmt.Errorf("ingest: fetch: %w", errs[0].Err)
		}

		var failed error
		fetches.EachRecord(func(rec *kgo.Record) {
			if failed != nil {
				return
			}
			if err := c.handleRecord(ctx, rec); err != nil {
				failed = err
				return
			}
			c.client.MarkCommitRecords(rec)
		})
		if err := c.client.CommitMarkedOffsets(ctx); err != nil {
			c.logger.Warn().Err(err).Msg("offset commit failed")
		}
		if failed != nil {
			return failed
		}
	}
}

func (c *Consumer) handleRecord(ctx context.Context, rec *kgo.Record) error {
	var record mirrorv1.MirrorRecord
	if err := proto.Unmarshal(rec.Value, &record); err != nil {
		c.logger.Error().Err(err).
			Str("source", fmt.Sprintf("%s/%d/%d", rec.Topic, rec.Partition, rec.Offset)).
			Msg("undecodable ingest record")
		return nil
	}

	if e := record.GetEntity(); e != nil {
		ent := topic.Entity{
			ID:      topic.EntityID(e.GetEntityNum()),
			Type:    topic.EntityType(e.GetEntityType()),
			Deleted: e.GetDeleted(),
		}
		if err := c.ents.Put(ctx, ent); err != nil {
			return fmt.Errorf("ingest: put entity: %w", err)
		}
	}

	if tm := record.GetTopicMessage(); tm != nil {
		m := &topic.Message{
			TopicID:            topic.EntityID(tm.GetTopicNum()),
			ConsensusTimestamp: tm.GetConsensusTimestamp(),
			SequenceNumber:     tm.GetSequenceNumber(),
			Message:            tm.GetMessage(),
			RunningHash:        tm.GetRunningHash(),
			RunningHashVersion: tm.GetRunningHashVersion(),
		}
		if !c.filter.Admit(m) {
			c.logger.Debug().
				Int64("topic_id", int64(m.TopicID)).
				Uint64("sequence", m.SequenceNumber).
				Msg("message rejected by admission filter")
			return nil
		}
		// Storage first. A message broadcast before it is durable could be
		// impossible to backfill.
		if err := c.msgs.Append(ctx, m); err != nil {
			return fmt.Errorf("ingest: append message: %w", err)
		}
		c.bus.Publish(m)
	}
	return nil
}
