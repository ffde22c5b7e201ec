package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"redesocial/internal/observability"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
)

// KafkaSink publishes events to a Kafka topic keyed by the event key, so all
// events for the same entity land on the same partition.
type KafkaSink struct {
	producer *kafka.Producer
	topic    string
}

// NewKafkaSink connects a producer to the given brokers and makes sure the
// topic exists before the first publish.
func NewKafkaSink(brokers, topic string) (*KafkaSink, error) {
	producer, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers": brokers,
		"acks":              "all",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}

	if err := ensureTopic(producer, topic); err != nil {
		observability.GlobalLogger.Warn("Could not ensure Kafka topic", "topic", topic, "error", err)
	}

	sink := &KafkaSink{producer: producer, topic: topic}
	go sink.handleDeliveryReports()
	return sink, nil
}

func ensureTopic(producer *kafka.Producer, topic string) error {
	admin, err := kafka.NewAdminClientFromProducer(producer)
	if err != nil {
		return err
	}
	defer admin.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	results, err := admin.CreateTopics(ctx, []kafka.TopicSpecification{{
		Topic:             topic,
		NumPartitions:     3,
		ReplicationFactor: 1,
	}})
	if err != nil {
		return err
	}
	for _, r := range results {
		if r.Error.Code() != kafka.ErrNoError && r.Error.Code() != kafka.ErrTopicAlreadyExists {
			return r.Error
		}
	}
	return nil
}

func (s *KafkaSink) handleDeliveryReports() {
	for e := range s.producer.Events() {
		if m, ok := e.(*kafka.Message); ok && m.TopicPartition.Error != nil {
			observability.GlobalLogger.Error("Kafka delivery failed",
				"topic", *m.TopicPartition.Topic,
				"error", m.TopicPartition.Error,
			)
			observability.EventPublishFailures.WithLabelValues("kafka").Inc()
		}
	}
}

// Emit enqueues the event on the producer. Delivery failures are reported
// asynchronously through the delivery-report channel.
func (s *KafkaSink) Emit(ctx context.Context, event Event) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	err = s.producer.Produce(&kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &s.topic, Partition: kafka.PartitionAny},
		Key:            []byte(event.Key),
		Value:          value,
	}, nil)
	if err != nil {
		observability.EventPublishFailures.WithLabelValues("kafka").Inc()
		return fmt.Errorf("failed to produce event: %w", err)
	}

	observability.EventsPublished.WithLabelValues(event.Type, "kafka").Inc()
	return nil
}

// Close flushes pending messages and shuts the producer down.
func (s *KafkaSink) Close() error {
	s.producer.Flush(5000)
	s.producer.Close()
	return nil
}
