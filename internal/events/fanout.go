package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"redesocial/internal/observability"

	"github.com/redis/go-redis/v9"
)

// Fanout consumes the event stream and republishes each event to a per-user
// pub/sub channel, so connected clients only see events about entities they
// care about. It is a best-effort delivery layer on top of the durable
// stream.
type Fanout struct {
	client *redis.Client
	stream string
	stop   chan struct{}
	done   chan struct{}
}

// NewFanout builds a fanout reader over the named stream.
func NewFanout(client *redis.Client, stream string) *Fanout {
	return &Fanout{
		client: client,
		stream: stream,
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
}

// UserChannel is the pub/sub channel a client subscribes to for events
// about a user's content.
func UserChannel(userID string) string {
	return fmt.Sprintf("notifications:user:%s", userID)
}

// Start launches the consume loop.
func (f *Fanout) Start() {
	go func() {
		defer close(f.done)
		lastID := "$"
		for {
			select {
			case <-f.stop:
				return
			default:
			}

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			streams, err := f.client.XRead(ctx, &redis.XReadArgs{
				Streams: []string{f.stream, lastID},
				Count:   50,
				Block:   2 * time.Second,
			}).Result()
			cancel()
			if err != nil {
				if err != redis.Nil {
					observability.RedisErrorRate.WithLabelValues("xread").Inc()
				}
				continue
			}

			for _, s := range streams {
				for _, msg := range s.Messages {
					lastID = msg.ID
					f.deliver(msg)
				}
			}
		}
	}()
}

// Stop terminates the consume loop.
func (f *Fanout) Stop() {
	close(f.stop)
	<-f.done
}

func (f *Fanout) deliver(msg redis.XMessage) {
	rawPayload, _ := msg.Values["payload"].(string)
	var payload map[string]string
	if err := json.Unmarshal([]byte(rawPayload), &payload); err != nil {
		return
	}
	userID := payload["userId"]
	if userID == "" {
		return
	}

	body, err := json.Marshal(map[string]interface{}{
		"id":      msg.Values["id"],
		"type":    msg.Values["type"],
		"payload": payload,
	})
	if err != nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := f.client.Publish(ctx, UserChannel(userID), body).Err(); err != nil {
		observability.RedisErrorRate.WithLabelValues("publish").Inc()
	}
}
