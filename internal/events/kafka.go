package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/guttosm/cartonization-service/internal/metrics"
	"github.com/segmentio/kafka-go"
)

// KafkaConfig configures the Kafka publisher.
type KafkaConfig struct {
	Brokers      []string
	Topic        string
	BatchTimeout time.Duration
	// RequiredAcks: 0 none, 1 leader, -1 all replicas.
	RequiredAcks int
}

// DefaultKafkaConfig returns producer defaults.
func DefaultKafkaConfig() KafkaConfig {
	return KafkaConfig{
		Brokers:      []string{"localhost:9092"},
		Topic:        "wms.packing.events",
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: -1,
	}
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher publishes events in CloudEvents binary-compatible form:
// the JSON envelope as value plus ce-* headers.
type KafkaPublisher struct {
	writer messageWriter
}

var _ Publisher = (*KafkaPublisher)(nil)

// NewKafkaPublisher creates a publisher writing to cfg.Topic.
func NewKafkaPublisher(cfg KafkaConfig) *KafkaPublisher {
	return newKafkaPublisher(&kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		BatchTimeout:           cfg.BatchTimeout,
		RequiredAcks:           kafka.RequiredAcks(cfg.RequiredAcks),
		AllowAutoTopicCreation: true,
	})
}

func newKafkaPublisher(w messageWriter) *KafkaPublisher {
	return &KafkaPublisher{writer: w}
}

// Publish writes one event keyed by its subject so events of an order stay ordered.
func (p *KafkaPublisher) Publish(ctx context.Context, event *CloudEvent) error {
	msg, err := toMessage(event)
	if err != nil {
		metrics.RecordEventPublished(event.Type, "failure")
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		metrics.RecordEventPublished(event.Type, "failure")
		return fmt.Errorf("publish %s: %w", event.Type, err)
	}
	metrics.RecordEventPublished(event.Type, "success")
	return nil
}

// Close flushes and closes the writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

func toMessage(event *CloudEvent) (kafka.Message, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("marshal event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(event.Subject),
		Value: data,
		Headers: []kafka.Header{
			{Key: "ce-specversion", Value: []byte(event.SpecVersion)},
			{Key: "ce-type", Value: []byte(event.Type)},
			{Key: "ce-source", Value: []byte(event.Source)},
			{Key: "ce-id", Value: []byte(event.ID)},
			{Key: "ce-time", Value: []byte(event.Time.Format(time.RFC3339Nano))},
			{Key: "content-type", Value: []byte(event.DataContentType)},
		},
		Time: event.Time,
	}
	if event.CorrelationID != "" {
		msg.Headers = append(msg.Headers, kafka.Header{Key: "ce-wmscorrelationid", Value: []byte(event.CorrelationID)})
	}
	if event.OrderID != "" {
		msg.Headers = append(msg.Headers, kafka.Header{Key: "ce-wmsorderid", Value: []byte(event.OrderID)})
	}
	return msg, nil
}
