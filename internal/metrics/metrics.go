package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	Mutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "record_store_mutations_total", Help: "Committed mutations observed by the metrics listener.",
	}, []string{"store", "action"})

	BackendCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "record_store_backend_calls_total", Help: "Backend adapter calls by operation and outcome.",
	}, []string{"store", "op", "result"})
	PartitionSize = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "record_store_partition_size",
		Help:    "Number of elements handed to a single backend batch call.",
		Buckets: prometheus.LinearBuckets(1, 5, 10),
	}, []string{"store", "op"})
	BackendRetries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "record_store_backend_retries_total", Help: "Backend calls retried after a transient failure.",
	}, []string{"op"})

	ListenerFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "record_store_listener_failures_total", Help: "Listener calls that returned an error or panicked.",
	}, []string{"store"})

	ChannelPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "record_store_channel_published_total", Help: "Events published to the event channel.",
	}, []string{"channel"})
	ChannelBlocked = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "record_store_channel_claim_blocked_total", Help: "Claims that had to wait for a free ring slot.",
	}, []string{"channel"})
	ChannelPending = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "record_store_channel_pending", Help: "Published events not yet processed by the slowest handler.",
	}, []string{"channel"})
	HandlerFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "record_store_channel_handler_failures_total", Help: "Event handler invocations that returned an error or panicked.",
	}, []string{"channel", "handler"})

	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "record_store_cache_lookups_total", Help: "Read cache lookups by result.",
	}, []string{"result"})

	SinkProduced = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "record_store_sink_produced_total", Help: "Records flushed to an external sink by outcome.",
	}, []string{"sink", "result"})
)
