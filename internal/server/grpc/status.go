package grpcserver

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/ivorypay-org/ivorypay-hedera-node/internal/listener"
	"github.com/ivorypay-org/ivorypay-hedera-node/internal/retriever"
	"github.com/ivorypay-org/ivorypay-hedera-node/internal/subscription"
	"github.com/ivorypay-org/ivorypay-hedera-node/internal/topic"
)

// statusFromError maps an engine error to the wire status. A nil error is a
// normal stream completion.
func statusFromError(err error) error {
	if err == nil {
		return nil
	}
	var ve *topic.ValidationError
	switch {
	case errors.As(err, &ve):
		return status.Error(codes.InvalidArgument, ve.Error())
	case errors.Is(err, subscription.ErrTopicWrongType):
		return status.Error(codes.InvalidArgument, "entity is not a topic")
	case errors.Is(err, subscription.ErrTopicNotFound):
		return status.Error(codes.NotFound, "topic not found")
	case errors.Is(err, subscription.ErrMissingMessages):
		return status.Error(codes.Internal, "missing messages")
	case errors.Is(err, listener.ErrSlowSubscriber):
		return status.Error(codes.ResourceExhausted, "subscriber is falling behind")
	case errors.Is(err, retriever.ErrUnavailable), errors.Is(err, listener.ErrClosed):
		return status.Error(codes.Unavailable, "service unavailable")
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, "subscription cancelled")
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, "subscription deadline exceeded")
	default:
		return status.Error(codes.Internal, "internal error")
	}
}
