package runtime

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	cfgpkg "github.com/ivorypay-org/ivorypay-hedera-node/internal/config"
	"github.com/ivorypay-org/ivorypay-hedera-node/internal/listener"
	"github.com/ivorypay-org/ivorypay-hedera-node/internal/metrics"
	"github.com/ivorypay-org/ivorypay-hedera-node/internal/retriever"
	pebblestore "github.com/ivorypay-org/ivorypay-hedera-node/internal/storage/pebble"
	"github.com/ivorypay-org/ivorypay-hedera-node/internal/store"
	"github.com/ivorypay-org/ivorypay-hedera-node/internal/subscription"
	"github.com/ivorypay-org/ivorypay-hedera-node/internal/topic"
)

// Options for building the Runtime.
type Options struct {
	Config cfgpkg.Config
	Logger zerolog.Logger
}

// Runtime wires storage, stores, the live bus, and the subscription engine
// for a single-node instance.
type Runtime struct {
	config  cfgpkg.Config
	logger  zerolog.Logger
	db      *pebblestore.DB
	metrics *metrics.Registry
	msgs    *store.MessageStore
	ents    *store.EntityStore
	bus     *listener.Bus
	subs    *subscription.Service
}

// Open initializes storage and wires the components.
func Open(opts Options) (*Runtime, error) {
	cfg := opts.Config
	logger := opts.Logger

	var reg *metrics.Registry
	var storageHook pebblestore.MetricsHook
	var engineMetrics subscription.Metrics = subscription.NoopMetrics{}
	if cfg.Metrics.Enabled {
		reg = metrics.New()
		storageHook = reg
		engineMetrics = reg
	}

	db, err := pebblestore.Open(pebblestore.Options{
		DataDir:       cfg.Storage.DataDir,
		Fsync:         pebblestore.ParseFsyncMode(cfg.Storage.Fsync),
		FsyncInterval: cfg.Storage.FsyncInterval,
		Metrics:       storageHook,
	})
	if err != nil {
		return nil, err
	}

	msgs := store.NewMessageStore(db, logger)
	ents := store.NewEntityStore(db, logger)
	bus := listener.NewBus(listener.Options{BufferSize: cfg.Listener.BufferSize}, logger)
	retr := retriever.New(msgs, retriever.Options{
		MaxPageSize:  cfg.Retriever.MaxPageSize,
		ThrottlePace: cfg.Retriever.ThrottlePace,
		Retry: retriever.RetryPolicy{
			MaxAttempts: cfg.Retriever.RetryMaxAttempts,
			Base:        cfg.Retriever.RetryBackoffBase,
			Cap:         cfg.Retriever.RetryBackoffCap,
		},
	}, logger)

	subs := subscription.New(
		entityLookup{ents},
		retr,
		busListener{bus},
		engineMetrics,
		subscription.Options{CheckTopicExists: cfg.Subscription.CheckTopicExists},
		logger,
	)

	return &Runtime{
		config:  cfg,
		logger:  logger,
		db:      db,
		metrics: reg,
		msgs:    msgs,
		ents:    ents,
		bus:     bus,
		subs:    subs,
	}, nil
}

// busListener adapts the concrete bus onto the engine's listener port.
type busListener struct{ bus *listener.Bus }

func (b busListener) Listen(f topic.Filter) (subscription.LiveSubscription, error) {
	s, err := b.bus.Listen(f)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// entityLookup adapts the entity store onto the engine's lookup port.
type entityLookup struct{ ents *store.EntityStore }

func (e entityLookup) Find(ctx context.Context, id topic.EntityID) (topic.Entity, error) {
	return e.ents.Find(ctx, id)
}

// Close shuts the bus down and closes underlying storage.
func (r *Runtime) Close() error {
	if r.bus != nil {
		r.bus.Close()
	}
	if r.db == nil {
		return nil
	}
	return r.db.Close()
}

// CheckHealth performs a simple storage health check.
func (r *Runtime) CheckHealth(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if r.db == nil {
		return errors.New("db not open")
	}
	it, err := r.db.NewIter(nil)
	if err != nil {
		return err
	}
	return it.Close()
}

// Subscriptions returns the subscription engine.
func (r *Runtime) Subscriptions() *subscription.Service { return r.subs }

// Messages returns the message store.
func (r *Runtime) Messages() *store.MessageStore { return r.msgs }

// Entities returns the entity store.
func (r *Runtime) Entities() *store.EntityStore { return r.ents }

// Bus returns the live message bus.
func (r *Runtime) Bus() *listener.Bus { return r.bus }

// Metrics returns the metrics registry, or nil when metrics are disabled.
func (r *Runtime) Metrics() *metrics.Registry { return r.metrics }

// DB exposes the underlying DB for advanced operations (internal use only).
func (r *Runtime) DB() *pebblestore.DB { return r.db }

// Config returns the runtime configuration.
func (r *Runtime) Config() cfgpkg.Config { return r.config }
