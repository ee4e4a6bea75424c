package grpcserver

import (
	"github.com/rs/zerolog"

	mirrorv1 "github.com/ivorypay-org/ivorypay-hedera-node/api/mirror/v1"
	"github.com/ivorypay-org/ivorypay-hedera-node/internal/subscription"
	"github.com/ivorypay-org/ivorypay-hedera-node/internal/topic"
)

type consensusSvc struct {
	mirrorv1.UnimplementedConsensusServiceServer
	svc    *subscription.Service
	logger zerolog.Logger
}

// grpcSink adapts the server stream onto the engine's sink port.
type grpcSink struct {
	stream mirrorv1.ConsensusService_SubscribeTopicServer
}

func (g grpcSink) Send(m *topic.Message) error {
	return g.stream.Send(&mirrorv1.ConsensusTopicResponse{
		ConsensusTimestamp: m.ConsensusTimestamp,
		Message:            m.Message,
		RunningHash:        m.RunningHash,
		SequenceNumber:     m.SequenceNumber,
		RunningHashVersion: uint64(m.RunningHashVersion),
	})
}

func (s *consensusSvc) SubscribeTopic(req *mirrorv1.ConsensusTopicQuery, stream mirrorv1.ConsensusService_SubscribeTopicServer) error {
	f := topic.Filter{
		TopicID:   topic.EntityID(req.GetTopicNum()),
		StartTime: req.GetConsensusStartTime(),
		EndTime:   req.GetConsensusEndTime(),
		Limit:     int64(req.GetLimit()),
	}
	err := s.svc.Subscribe(stream.Context(), f, grpcSink{stream: stream})
	if err != nil {
		s.logger.Debug().Err(err).
			Int64("topic_id", int64(f.TopicID)).
			Str("outcome", subscription.OutcomeOf(err)).
			Msg("subscription ended with error")
	}
	return statusFromError(err)
}
