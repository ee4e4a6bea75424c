package serverrun

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	cfgpkg "github.com/ivorypay-org/ivorypay-hedera-node/internal/config"
	"github.com/ivorypay-org/ivorypay-hedera-node/internal/ingest"
	"github.com/ivorypay-org/ivorypay-hedera-node/internal/runtime"
	grpcserver "github.com/ivorypay-org/ivorypay-hedera-node/internal/server/grpc"
)

// Options configure a server run.
type Options struct {
	Config cfgpkg.Config
	Logger zerolog.Logger
}

// Run starts the gRPC server, the metrics endpoint, and the ingest consumer,
// and blocks until ctx is cancelled or a component fails fatally.
func Run(ctx context.Context, opts Options) error {
	// Layer a local signal context over the provided one so callers that
	// don't pass a signal-aware context still shut down cleanly.
	sctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := opts.Config
	logger := opts.Logger

	rt, err := runtime.Open(runtime.Options{Config: cfg, Logger: logger})
	if err != nil {
		return err
	}
	defer rt.Close()

	logger.Info().
		Str("grpc", cfg.GRPC.ListenAddr).
		Str("data_dir", cfg.Storage.DataDir).
		Str("fsync", cfg.Storage.Fsync).
		Bool("metrics", cfg.Metrics.Enabled).
		Bool("ingest", cfg.Ingest.Enabled).
		Msg("starting mirror node")

	// A component failure cancels the rest.
	cctx, cancel := context.WithCancel(sctx)
	defer cancel()

	var wg sync.WaitGroup

	gsrv := grpcserver.New(rt, logger)
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := gsrv.ListenAndServe(cctx, cfg.GRPC.ListenAddr); err != nil && cctx.Err() == nil {
			logger.Error().Err(err).Msg("grpc server failed")
			cancel()
		}
	}()

	var msrv *http.Server
	if cfg.Metrics.Enabled && rt.Metrics() != nil {
		mux := http.NewServeMux()
		mux.Handle("/metrics", rt.Metrics().Handler())
		msrv = &http.Server{Addr: cfg.Metrics.ListenAddr, Handler: mux}
		wg.Add(1)
		go func() {
			defer wg.Done()
			logger.Info().Str("addr", cfg.Metrics.ListenAddr).Msg("metrics endpoint listening")
			if err := msrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error().Err(err).Msg("metrics endpoint failed")
			}
		}()
	}

	if cfg.Ingest.Enabled {
		consumer, err := ingest.NewConsumer(ingest.Options{
			Brokers:  cfg.Ingest.Brokers,
			Topic:    cfg.Ingest.Topic,
			GroupID:  cfg.Ingest.GroupID,
			ClientID: cfg.Ingest.ClientID,
			Filter:   cfg.Ingest.Filter,
		}, rt.Messages(), rt.Entities(), rt.Bus(), logger)
		if err != nil {
			cancel()
			wg.Wait()
			return err
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := consumer.Run(cctx); err != nil && cctx.Err() == nil {
				logger.Error().Err(err).Msg("ingest consumer failed")
				cancel()
			}
		}()
	}

	<-cctx.Done()
	// Shut servers down before closing the runtime to avoid in-flight use of
	// a closed database.
	gsrv.Close()
	if msrv != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		_ = msrv.Shutdown(shutdownCtx)
		shutdownCancel()
	}
	wg.Wait()
	return nil
}
