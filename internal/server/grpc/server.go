package grpcserver

import (
	"context"
	"net"

	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	mirrorv1 "github.com/ivorypay-org/ivorypay-hedera-node/api/mirror/v1"
	"github.com/ivorypay-org/ivorypay-hedera-node/internal/runtime"
)

// Server owns the gRPC server instance and runtime.
type Server struct {
	rt     *runtime.Runtime
	grpc   *grpc.Server
	health *health.Server
	lis    net.Listener
	logger zerolog.Logger
}

// New constructs a gRPC server and registers services.
func New(rt *runtime.Runtime, logger zerolog.Logger, opts ...grpc.ServerOption) *Server {
	s := &Server{
		rt:     rt,
		grpc:   grpc.NewServer(opts...),
		health: health.NewServer(),
		logger: logger.With().Str("component", "grpc_server").Logger(),
	}
	mirrorv1.RegisterConsensusServiceServer(s.grpc, &consensusSvc{svc: rt.Subscriptions(), logger: s.logger})
	healthpb.RegisterHealthServer(s.grpc, s.health)
	s.health.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	return s
}

// ListenAndServe binds to addr and serves until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	s.lis = l
	s.logger.Info().Str("addr", l.Addr().String()).Msg("grpc server listening")
	errCh := make(chan error, 1)
	go func() { errCh <- s.grpc.Serve(l) }()
	select {
	case <-ctx.Done():
		s.health.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
		s.grpc.GracefulStop()
		return nil
	case err := <-errCh:
		return err
	}
}

// Addr returns the bound listener address, or empty before ListenAndServe.
func (s *Server) Addr() string {
	if s.lis == nil {
		return ""
	}
	return s.lis.Addr().String()
}

// Close stops the server and closes the listener.
func (s *Server) Close() {
	if s.grpc != nil {
		s.grpc.GracefulStop()
	}
	if s.lis != nil {
		_ = s.lis.Close()
	}
}
