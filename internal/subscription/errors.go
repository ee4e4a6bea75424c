package subscription

import (
	"context"
	"errors"

	"github.com/ivorypay-org/ivorypay-hedera-node/internal/listener"
	"github.com/ivorypay-org/ivorypay-hedera-node/internal/retriever"
	"github.com/ivorypay-org/ivorypay-hedera-node/internal/topic"
)

var (
	// ErrTopicNotFound reports that the filter names an entity the mirror has
	// never seen, or one that has been deleted.
	ErrTopicNotFound = errors.New("subscription: topic not found")
	// ErrTopicWrongType reports that the filter names an existing entity whose
	// kind is not a topic.
	ErrTopicWrongType = errors.New("subscription: entity is not a topic")
	// ErrMissingMessages reports that backfill could not produce a contiguous
	// sequence between the last emitted message and a live arrival.
	ErrMissingMessages = errors.New("subscription: missing messages")
)

// Outcome labels for metrics and logs. The gRPC layer owns the wire status
// mapping; these stay transport-neutral.
const (
	OutcomeOK                = "ok"
	OutcomeInvalidArgument   = "invalid_argument"
	OutcomeNotFound          = "not_found"
	OutcomeInternal          = "internal"
	OutcomeUnavailable       = "unavailable"
	OutcomeResourceExhausted = "resource_exhausted"
	OutcomeCancelled         = "cancelled"
)

// OutcomeOf classifies a Subscribe result into an outcome label.
func OutcomeOf(err error) string {
	var ve *topic.ValidationError
	switch {
	case err == nil:
		return OutcomeOK
	case errors.As(err, &ve), errors.Is(err, ErrTopicWrongType):
		return OutcomeInvalidArgument
	case errors.Is(err, ErrTopicNotFound):
		return OutcomeNotFound
	case errors.Is(err, ErrMissingMessages):
		return OutcomeInternal
	case errors.Is(err, retriever.ErrUnavailable), errors.Is(err, listener.ErrClosed):
		return OutcomeUnavailable
	case errors.Is(err, listener.ErrSlowSubscriber):
		return OutcomeResourceExhausted
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return OutcomeCancelled
	default:
		return OutcomeInternal
	}
}
