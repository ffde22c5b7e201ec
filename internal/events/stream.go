package events

import (
	"context"
	"encoding/json"
	"time"

	"redesocial/internal/observability"

	"github.com/redis/go-redis/v9"
)

// StreamSink appends events to a Redis Stream. Consumers read with XREAD or
// consumer groups and deduplicate on the event ID.
type StreamSink struct {
	client *redis.Client
	stream string
}

// NewStreamSink builds a sink writing to the named stream.
func NewStreamSink(client *redis.Client, stream string) *StreamSink {
	return &StreamSink{client: client, stream: stream}
}

// Emit appends the event to the stream as a single entry.
func (s *StreamSink) Emit(ctx context.Context, event Event) error {
	if s.client == nil {
		return redis.ErrClosed
	}

	payload, err := json.Marshal(event.Payload)
	if err != nil {
		return err
	}

	err = s.client.XAdd(ctx, &redis.XAddArgs{
		Stream: s.stream,
		Values: map[string]interface{}{
			"id":          event.ID,
			"type":        event.Type,
			"key":         event.Key,
			"occurred_at": event.OccurredAt.Format(time.RFC3339Nano),
			"payload":     string(payload),
		},
	}).Err()
	if err != nil {
		observability.RedisErrorRate.WithLabelValues("xadd").Inc()
		observability.EventPublishFailures.WithLabelValues("stream").Inc()
		return err
	}

	observability.EventsPublished.WithLabelValues(event.Type, "stream").Inc()
	return nil
}

// Close releases the underlying Redis connection.
func (s *StreamSink) Close() error {
	if s.client == nil {
		return nil
	}
	return s.client.Close()
}
