package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// EventsPublished counts events handed to a sink, by event type and backend.
	EventsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "redesocial_events_published_total",
		Help: "Total number of events published by type and backend",
	}, []string{"event_type", "backend"})

	// EventPublishFailures counts failed publish attempts by backend.
	EventPublishFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "redesocial_event_publish_failures_total",
		Help: "Total number of failed event publish attempts by backend",
	}, []string{"backend"})

	// OutboxRelayed counts outbox records successfully forwarded downstream.
	OutboxRelayed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "redesocial_outbox_relayed_total",
		Help: "Total number of outbox records relayed to the downstream sink",
	})

	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "redesocial_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// ExpiredStoriesSeen counts expired stories observed by the advisory reaper.
	ExpiredStoriesSeen = promauto.NewCounter(prometheus.CounterOpts{
		Name: "redesocial_expired_stories_seen_total",
		Help: "Total number of expired stories observed by the cleanup job",
	})
)
