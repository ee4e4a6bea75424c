// Package metrics implements the engine and storage metric hooks on a
// dedicated Prometheus registry.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry owns the process metrics. It satisfies the subscription engine's
// Metrics port and the storage MetricsHook.
type Registry struct {
	reg *prometheus.Registry

	activeSubscriptions  prometheus.Gauge
	subscriptionDuration *prometheus.HistogramVec
	subscriptionErrors   *prometheus.CounterVec
	messagesDelivered    prometheus.Counter
	deliverLatency       prometheus.Histogram

	storageReadLatency   prometheus.Histogram
	storageCommitLatency prometheus.Histogram
	storageCommitBytes   prometheus.Counter
}

// New builds the registry with every collector registered.
func New() *Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	r := &Registry{
		reg: reg,
		activeSubscriptions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "mirror",
			Name:      "active_subscriptions",
			Help:      "Number of open topic subscriptions.",
		}),
		subscriptionDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "mirror",
			Name:      "subscription_duration_seconds",
			Help:      "Lifetime of topic subscriptions by outcome.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 4, 10),
		}, []string{"outcome"}),
		subscriptionErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mirror",
			Name:      "subscription_errors_total",
			Help:      "Failed topic subscriptions by outcome.",
		}, []string{"outcome"}),
		messagesDelivered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "mirror",
			Name:      "messages_delivered_total",
			Help:      "Topic messages delivered to subscribers.",
		}),
		deliverLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "mirror",
			Name:      "deliver_latency_seconds",
			Help:      "Consensus-to-delivery latency of delivered messages.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 12),
		}),
		storageReadLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "mirror",
			Subsystem: "storage",
			Name:      "read_latency_seconds",
			Help:      "Latency of point reads.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}),
		storageCommitLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "mirror",
			Subsystem: "storage",
			Name:      "commit_latency_seconds",
			Help:      "Latency of batch commits.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}),
		storageCommitBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "mirror",
			Subsystem: "storage",
			Name:      "commit_bytes_total",
			Help:      "Bytes committed to storage.",
		}),
	}
	reg.MustRegister(
		r.activeSubscriptions,
		r.subscriptionDuration,
		r.subscriptionErrors,
		r.messagesDelivered,
		r.deliverLatency,
		r.storageReadLatency,
		r.storageCommitLatency,
		r.storageCommitBytes,
	)
	return r
}

// Handler exposes the registry for scraping.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}

func (r *Registry) SubscriptionStarted() {
	r.activeSubscriptions.Inc()
}

func (r *Registry) SubscriptionEnded(outcome string, elapsed time.Duration) {
	r.activeSubscriptions.Dec()
	r.subscriptionDuration.WithLabelValues(outcome).Observe(elapsed.Seconds())
	if outcome != "ok" {
		r.subscriptionErrors.WithLabelValues(outcome).Inc()
	}
}

func (r *Registry) MessageDelivered(consensusToDeliver time.Duration) {
	r.messagesDelivered.Inc()
	if consensusToDeliver < 0 {
		consensusToDeliver = 0
	}
	r.deliverLatency.Observe(consensusToDeliver.Seconds())
}

func (r *Registry) ObserveRead(elapsed time.Duration, bytes int) {
	r.storageReadLatency.Observe(elapsed.Seconds())
}

func (r *Registry) ObserveBatchCommit(elapsed time.Duration, bytes int) {
	r.storageCommitLatency.Observe(elapsed.Seconds())
	r.storageCommitBytes.Add(float64(bytes))
}
