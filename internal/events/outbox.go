package events

import (
	"context"
	"encoding/json"
	"time"

	"redesocial/internal/observability"

	"gorm.io/gorm"
)

// OutboxRecord is a durably stored event awaiting relay to the downstream
// sink. Records are appended synchronously with the interaction and drained
// by the Relay, giving at-least-once delivery even across restarts.
type OutboxRecord struct {
	ID         uint   `gorm:"primaryKey"`
	EventID    string `gorm:"type:varchar(36);uniqueIndex"`
	EventType  string `gorm:"type:varchar(64);not null"`
	EventKey   string `gorm:"type:varchar(64);not null"`
	Payload    string `gorm:"type:text"`
	OccurredAt time.Time
	RelayedAt  *time.Time `gorm:"index"`
	CreatedAt  time.Time
}

// TableName keeps the table name explicit.
func (OutboxRecord) TableName() string { return "event_outbox" }

// OutboxSink appends events to the outbox table.
type OutboxSink struct {
	db *gorm.DB
}

// NewOutboxSink builds a sink persisting into db.
func NewOutboxSink(db *gorm.DB) *OutboxSink {
	return &OutboxSink{db: db}
}

// Emit stores the event. The write is cheap and local; actual fanout happens
// in the Relay.
func (s *OutboxSink) Emit(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event.Payload)
	if err != nil {
		return err
	}

	record := OutboxRecord{
		EventID:    event.ID,
		EventType:  event.Type,
		EventKey:   event.Key,
		Payload:    string(payload),
		OccurredAt: event.OccurredAt,
	}
	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		observability.EventPublishFailures.WithLabelValues("outbox").Inc()
		return err
	}

	observability.EventsPublished.WithLabelValues(event.Type, "outbox").Inc()
	return nil
}

func (s *OutboxSink) Close() error { return nil }

// Relay drains unsent outbox records into a downstream sink on a fixed
// interval. A record is marked relayed only after the downstream accepted
// it, so a crash between the two steps re-delivers rather than drops.
type Relay struct {
	db         *gorm.DB
	downstream Sink
	interval   time.Duration
	batchSize  int
	stop       chan struct{}
	done       chan struct{}
}

// NewRelay builds a relay forwarding into downstream every interval.
func NewRelay(db *gorm.DB, downstream Sink, interval time.Duration) *Relay {
	return &Relay{
		db:         db,
		downstream: downstream,
		interval:   interval,
		batchSize:  100,
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}
}

// Start launches the relay loop in a goroutine.
func (r *Relay) Start() {
	go func() {
		defer close(r.done)
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if n, err := r.Drain(context.Background()); err != nil {
					observability.GlobalLogger.Error("Outbox relay drain failed", "error", err)
				} else if n > 0 {
					observability.GlobalLogger.Info("Outbox relay drained", "count", n)
				}
			case <-r.stop:
				return
			}
		}
	}()
}

// Stop shuts the relay loop down and waits for it to exit.
func (r *Relay) Stop() {
	close(r.stop)
	<-r.done
}

// Drain forwards one batch of pending records and returns how many were
// relayed. Safe to call repeatedly; already-relayed records are skipped.
func (r *Relay) Drain(ctx context.Context) (int, error) {
	var records []OutboxRecord
	err := r.db.WithContext(ctx).
		Where("relayed_at IS NULL").
		Order("id ASC").
		Limit(r.batchSize).
		Find(&records).Error
	if err != nil {
		return 0, err
	}

	relayed := 0
	for _, record := range records {
		var payload map[string]string
		if err := json.Unmarshal([]byte(record.Payload), &payload); err != nil {
			payload = map[string]string{}
		}
		event := Event{
			ID:         record.EventID,
			Type:       record.EventType,
			Key:        record.EventKey,
			OccurredAt: record.OccurredAt,
			Payload:    payload,
		}
		if err := r.downstream.Emit(ctx, event); err != nil {
			return relayed, err
		}

		now := time.Now().UTC()
		err := r.db.WithContext(ctx).Model(&OutboxRecord{}).
			Where("id = ?", record.ID).
			Update("relayed_at", now).Error
		if err != nil {
			return relayed, err
		}
		relayed++
		observability.OutboxRelayed.Inc()
	}
	return relayed, nil
}
