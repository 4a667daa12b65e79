// Package events implements ports.EventPublisher over Kafka, plus a no-op
// fallback for deployments that run without a broker.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/vitalya420/loyalty-auth-core/internal/ports"
)

// PublisherConfig configures the Kafka writer backing KafkaPublisher.
type PublisherConfig struct {
	Brokers      []string
	Topic        string
	BatchSize    int
	BatchTimeout time.Duration
	RequiredAcks kafka.RequiredAcks
}

// DefaultPublisherConfig returns sensible defaults for brokers/topic.
func DefaultPublisherConfig(brokers []string, topic string) PublisherConfig {
	return PublisherConfig{
		Brokers:      brokers,
		Topic:        topic,
		BatchSize:    100,
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
	}
}

// KafkaPublisher implements ports.EventPublisher.
type KafkaPublisher struct {
	writer *kafka.Writer
	tracer trace.Tracer
}

// NewKafkaPublisher creates a publisher writing to a single topic.
func NewKafkaPublisher(cfg PublisherConfig) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(cfg.Brokers...),
			Topic:        cfg.Topic,
			Balancer:     &kafka.LeastBytes{},
			BatchSize:    cfg.BatchSize,
			BatchTimeout: cfg.BatchTimeout,
			RequiredAcks: cfg.RequiredAcks,
		},
		tracer: otel.Tracer("loyalty-auth-core/events"),
	}
}

// Publish sends event to the configured topic, stamping timestamp and trace
// context if they are not already set.
func (p *KafkaPublisher) Publish(ctx context.Context, event ports.Event) error {
	ctx, span := p.tracer.Start(ctx, "kafka.publish."+event.Type)
	defer span.End()

	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	if spanCtx := trace.SpanFromContext(ctx).SpanContext(); spanCtx.IsValid() && event.TraceID == "" {
		event.TraceID = spanCtx.TraceID().String()
	}

	data, err := json.Marshal(event)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("marshal event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(event.Type),
		Value: data,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.Type)},
			{Key: "timestamp", Value: []byte(event.Timestamp.Format(time.RFC3339))},
		},
	}
	if event.TraceID != "" {
		msg.Headers = append(msg.Headers, kafka.Header{Key: "trace_id", Value: []byte(event.TraceID)})
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		span.RecordError(err)
		return fmt.Errorf("write kafka message: %w", err)
	}
	return nil
}

// Close flushes and closes the underlying writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NoopPublisher discards every event. Used when no broker is configured;
// the application layer never depends on publish succeeding.
type NoopPublisher struct{}

func (NoopPublisher) Publish(ctx context.Context, event ports.Event) error { return nil }

var (
	_ ports.EventPublisher = (*KafkaPublisher)(nil)
	_ ports.EventPublisher = NoopPublisher{}
)
