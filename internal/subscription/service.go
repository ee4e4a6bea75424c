package subscription

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/ivorypay-org/ivorypay-hedera-node/internal/store"
	"github.com/ivorypay-org/ivorypay-hedera-node/internal/topic"
	"github.com/ivorypay-org/ivorypay-hedera-node/pkg/id"
)

// Options configures the engine. CheckTopicExists is defaulted to true by the
// config layer; direct constructions choose explicitly.
type Options struct {
	CheckTopicExists bool
}

// Service is the subscription engine.
type Service struct {
	entities  EntityLookup
	retriever Retriever
	listener  Listener
	metrics   Metrics
	ids       *id.Generator
	opts      Options
	logger    zerolog.Logger
}

// New constructs the engine over its ports. A nil metrics disables emission.
func New(entities EntityLookup, r Retriever, l Listener, m Metrics, opts Options, logger zerolog.Logger) *Service {
	if m == nil {
		m = NoopMetrics{}
	}
	return &Service{
		entities:  entities,
		retriever: r,
		listener:  l,
		metrics:   m,
		ids:       id.NewGenerator(),
		opts:      opts,
		logger:    logger.With().Str("component", "subscription").Logger(),
	}
}

// Subscribe validates f, verifies the topic, then delivers the merged
// historical+live stream to sink until the filter completes, the context
// ends, or the subscription fails. Blocks for the life of the subscription.
//
// An empty SubscriberID is assigned a fresh process-unique id.
func (s *Service) Subscribe(ctx context.Context, f topic.Filter, sink Sink) (err error) {
	if f.SubscriberID == "" {
		f.SubscriberID = s.ids.Next().String()
	}
	started := time.Now()
	s.metrics.SubscriptionStarted()
	defer func() {
		s.metrics.SubscriptionEnded(OutcomeOf(err), time.Since(started))
	}()

	logger := s.logger.With().
		Str("subscriber_id", f.SubscriberID).
		Int64("topic_id", int64(f.TopicID)).
		Logger()

	if err := f.Validate(time.Now()); err != nil {
		return err
	}
	if s.opts.CheckTopicExists {
		if err := s.verifyTopic(ctx, f.TopicID); err != nil {
			return err
		}
	}

	// The live registration opens before the historical drain so no message
	// can fall between the two pathways. Overlap is deduped at the seam.
	live, err := s.listener.Listen(f)
	if err != nil {
		return err
	}
	defer live.Unsubscribe()

	st := &stream{f: f, sink: sink, metrics: s.metrics}

	if err := s.retriever.Retrieve(ctx, f, true, st.historical); err != nil {
		if errors.Is(err, errComplete) {
			logger.Debug().Int64("delivered", st.count).Msg("subscription completed during historical drain")
			return nil
		}
		return err
	}
	logger.Debug().Int64("delivered", st.count).Msg("historical drain finished")

	var endC <-chan time.Time
	if f.HasEndTime() {
		t := time.NewTimer(time.Until(time.Unix(0, f.EndTime)))
		defer t.Stop()
		endC = t.C
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-endC:
			return s.drainPending(ctx, st, live, logger)
		case m, ok := <-live.C():
			if !ok {
				return liveErr(live)
			}
			if err := st.live(ctx, s.retriever, m); err != nil {
				if errors.Is(err, errComplete) {
					logger.Debug().Int64("delivered", st.count).Msg("subscription completed")
					return nil
				}
				return err
			}
		}
	}
}

// drainPending delivers live messages already queued when the end-time timer
// fired, then completes. Anything at or past the end time completes early.
func (s *Service) drainPending(ctx context.Context, st *stream, live LiveSubscription, logger zerolog.Logger) error {
	for {
		select {
		case m, ok := <-live.C():
			if !ok {
				return liveErr(live)
			}
			if err := st.live(ctx, s.retriever, m); err != nil {
				if errors.Is(err, errComplete) {
					return nil
				}
				return err
			}
		default:
			logger.Debug().Int64("delivered", st.count).Msg("subscription reached end time")
			return nil
		}
	}
}

// liveErr maps a closed live channel to the subscription's terminal error. A
// nil bus error means a plain detach, which ends the stream cleanly.
func liveErr(live LiveSubscription) error {
	if err := live.Err(); err != nil {
		return err
	}
	return nil
}

func (s *Service) verifyTopic(ctx context.Context, topicID topic.EntityID) error {
	e, err := s.entities.Find(ctx, topicID)
	if err != nil {
		if errors.Is(err, store.ErrEntityNotFound) {
			return ErrTopicNotFound
		}
		return fmt.Errorf("verify topic %d: %w", topicID, err)
	}
	if e.Type != topic.EntityTypeTopic {
		return ErrTopicWrongType
	}
	if e.Deleted {
		return ErrTopicNotFound
	}
	return nil
}
