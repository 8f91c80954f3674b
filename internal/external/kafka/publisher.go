package kafka

import (
	"context"
	"log/slog"
	"time"

	"payupl/internal/messaging"
	"payupl/pkg/correlation"
	"payupl/pkg/metrics"

	"github.com/goccy/go-json"
	"github.com/segmentio/kafka-go"
)

const (
	headerEventType = "event_type"
	headerEventID   = "event_id"
)

// Publisher implements messaging.Publisher using Kafka.
type Publisher struct {
	writer *kafka.Writer
	logger *slog.Logger
}

// NewPublisher creates a new Kafka publisher. Messages with the same key
// land on the same partition, so notifications of one order stay ordered.
func NewPublisher(l *slog.Logger, brokers []string, topic string) *Publisher {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}

	return &Publisher{
		writer: writer,
		logger: l.With(slog.String("component", "kafka_publisher")),
	}
}

// Publish sends an envelope to Kafka.
func (p *Publisher) Publish(ctx context.Context, env messaging.Envelope) error {
	start := time.Now()

	value, err := json.Marshal(env)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Key:   []byte(env.Key),
		Value: value,
		Headers: []kafka.Header{
			{Key: headerEventType, Value: []byte(env.Type)},
			{Key: headerEventID, Value: []byte(env.EventID)},
		},
	}
	if env.CorrelationID != "" {
		msg.Headers = append(msg.Headers, kafka.Header{Key: correlation.HeaderName, Value: []byte(env.CorrelationID)})
	}

	if err = p.writer.WriteMessages(ctx, msg); err != nil {
		p.observe(start, "error")
		p.logger.ErrorContext(ctx, "Failed to publish message",
			slog.String("topic", p.writer.Topic),
			slog.String("key", env.Key),
			slog.String("error", err.Error()),
		)
		return err
	}

	p.observe(start, "ok")
	p.logger.DebugContext(ctx, "Message published",
		slog.String("topic", p.writer.Topic),
		slog.String("key", env.Key),
		slog.String("event_id", env.EventID),
	)
	return nil
}

func (p *Publisher) observe(start time.Time, status string) {
	metrics.KafkaPublishDuration.WithLabelValues(p.writer.Topic, status).Observe(time.Since(start).Seconds())
	metrics.KafkaMessagesPublished.WithLabelValues(p.writer.Topic, status).Inc()
}

// Close closes the Kafka writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}
