package subscription

import (
	"context"
	"time"

	"github.com/ivorypay-org/ivorypay-hedera-node/internal/topic"
)

// EntityLookup resolves mirrored entities for the topic existence check.
type EntityLookup interface {
	Find(ctx context.Context, id topic.EntityID) (topic.Entity, error)
}

// Retriever streams stored messages matching f to each, in consensus order.
// throttled paces page fetches; backfills pass false.
type Retriever interface {
	Retrieve(ctx context.Context, f topic.Filter, throttled bool, each func(*topic.Message) error) error
}

// Listener registers live subscriptions on the process-wide bus.
type Listener interface {
	Listen(f topic.Filter) (LiveSubscription, error)
}

// LiveSubscription is one registration's live delivery channel. C closes when
// the subscription terminates; Err then reports why.
type LiveSubscription interface {
	C() <-chan *topic.Message
	Err() error
	Unsubscribe()
}

// Sink receives the merged stream. Send blocking applies backpressure to the
// whole subscription.
type Sink interface {
	Send(*topic.Message) error
}

// Metrics observes engine activity. Implementations must never panic; the
// engine does not guard these calls.
type Metrics interface {
	SubscriptionStarted()
	SubscriptionEnded(outcome string, elapsed time.Duration)
	MessageDelivered(consensusToDeliver time.Duration)
}

// NoopMetrics is used when metrics are disabled.
type NoopMetrics struct{}

func (NoopMetrics) SubscriptionStarted()                  {}
func (NoopMetrics) SubscriptionEnded(string, time.Duration) {}
func (NoopMetrics) MessageDelivered(time.Duration)        {}
