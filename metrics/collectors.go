package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Namespace prefixes every metric of the project.
const Namespace = "liquidated"

var (
	graphqlRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Subsystem: "graphql",
		Name:      "requests_total",
		Help:      "GraphQL operations served by the gateway.",
	}, []string{"operation", "field", "status"})

	graphqlDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: Namespace,
		Subsystem: "graphql",
		Name:      "request_duration_seconds",
		Help:      "Time taken to answer GraphQL operations.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation", "field"})

	upstreamRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Subsystem: "upstream",
		Name:      "requests_total",
		Help:      "HTTP requests sent to the subgraph.",
	}, []string{"upstream", "status"})

	upstreamDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: Namespace,
		Subsystem: "upstream",
		Name:      "request_duration_seconds",
		Help:      "Latency of subgraph requests.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"upstream"})

	cacheLookups = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Subsystem: "cache",
		Name:      "lookups_total",
		Help:      "Response cache lookups by result.",
	}, []string{"result"})

	activeSubscriptions = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: Namespace,
		Subsystem: "pubsub",
		Name:      "subscribers",
		Help:      "Subscribers currently attached to a topic.",
	})

	activeTopics = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: Namespace,
		Subsystem: "pubsub",
		Name:      "topics",
		Help:      "Topics with a running producer.",
	})

	droppedMessages = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: Namespace,
		Subsystem: "pubsub",
		Name:      "dropped_messages_total",
		Help:      "Messages dropped because a subscriber was not keeping up.",
	})

	liquidationsSeen = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Subsystem: "watcher",
		Name:      "liquidations_total",
		Help:      "Liquidations published by the watcher.",
	}, []string{"market"})

	registerOnce sync.Once
)

// Register adds the collectors to the default registry. It is safe to call more than once.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			graphqlRequests,
			graphqlDuration,
			upstreamRequests,
			upstreamDuration,
			cacheLookups,
			activeSubscriptions,
			activeTopics,
			droppedMessages,
			liquidationsSeen,
		)
	})
}

func ObserveGraphql(operation, field, status string, duration time.Duration) {
	graphqlRequests.WithLabelValues(operation, field, status).Inc()
	graphqlDuration.WithLabelValues(operation, field).Observe(duration.Seconds())
}

func ObserveUpstream(upstream, status string, duration time.Duration) {
	upstreamRequests.WithLabelValues(upstream, status).Inc()
	upstreamDuration.WithLabelValues(upstream).Observe(duration.Seconds())
}

func CacheHit() {
	cacheLookups.WithLabelValues("hit").Inc()
}

func CacheMiss() {
	cacheLookups.WithLabelValues("miss").Inc()
}

func SubscriberAdded() {
	activeSubscriptions.Inc()
}

func SubscriberRemoved() {
	activeSubscriptions.Dec()
}

func TopicStarted() {
	activeTopics.Inc()
}

func TopicStopped() {
	activeTopics.Dec()
}

func MessageDropped() {
	droppedMessages.Inc()
}

func LiquidationSeen(market string) {
	liquidationsSeen.WithLabelValues(market).Inc()
}
